// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// 這些錯誤屬於商業邏輯層級，由終端機介面轉換成操作員看得懂的訊息。
// 帳本操作失敗時一律回傳 *RejectedError，其 Reason 可用 errors.Is 比對。

package bank

import (
	"errors"
	"fmt"

	"bankledger/internal/storage"
)

var (
	// ErrNotFound 代表帳戶不存在。
	ErrNotFound = storage.ErrNotFound

	// ErrDuplicateID 代表帳號已被使用。
	ErrDuplicateID = storage.ErrDuplicateID

	// ErrMalformedRecord 代表帳戶紀錄檔損毀。
	ErrMalformedRecord = storage.ErrMalformedRecord

	// ErrOutOfRange 代表金額非法（<=0、超過存款上限，或超過兩位小數）。
	ErrOutOfRange = errors.New("amount out of range")

	// ErrInsufficientFunds 代表餘額不足以支付金額加手續費。
	ErrInsufficientFunds = errors.New("insufficient balance including remittance fee")

	// ErrSameTypeTransfer 代表轉帳雙方帳戶類型相同。
	ErrSameTypeTransfer = errors.New("transfers only allowed between different account types")

	// ErrRecipientNotFound 代表轉帳收款帳戶不存在。
	ErrRecipientNotFound = errors.New("recipient account not found")

	// ErrAttemptsExhausted 代表 PIN 輸入次數用盡。
	ErrAttemptsExhausted = errors.New("PIN attempts exhausted")

	// ErrExhaustedIDSpace 代表在重試上限內找不到未使用的帳號。
	ErrExhaustedIDSpace = errors.New("no free account number found")

	// ErrInvalidAccount 代表開戶資料欄位格式不符。
	ErrInvalidAccount = errors.New("invalid account details")
)

// 帳本操作名稱，用於 RejectedError 與日誌。
const (
	OpOpen     = "open"
	OpClose    = "close"
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpTransfer = "transfer"
)

// RejectedError 表示一次被拒絕的操作；拒絕時帳戶狀態未被變更
// （轉帳入帳失敗且補償也失敗的情況除外，見 Transfer）。
type RejectedError struct {
	Op     string
	ID     string
	Reason error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s %s rejected: %v", e.Op, e.ID, e.Reason)
}

func (e *RejectedError) Unwrap() error { return e.Reason }

func reject(op, id string, reason error) error {
	return &RejectedError{Op: op, ID: id, Reason: reason}
}
