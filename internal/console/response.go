// internal/console/response.go
//
// 本檔負責將 bank 層的拒絕原因轉為操作員看得懂的訊息，
// 集中管理可確保所有選項的錯誤呈現一致。
// 儲存層故障另外寫入 Error 日誌，畫面上只顯示通用訊息。
package console

import (
	"errors"
	"log/slog"

	"bankledger/internal/bank"
	"bankledger/internal/storage"
)

func (c *Console) showRejection(err error) {
	switch {
	case errors.Is(err, bank.ErrOutOfRange):
		// 只有存款有上限；提款與轉帳只要求金額大於 0
		var rej *bank.RejectedError
		if errors.As(err, &rej) && rej.Op != bank.OpDeposit {
			c.Notice("Amount must be greater than RM0.")
			return
		}
		c.Notice("Please input an amount between RM0 and RM%s only.", c.Bank.DepositLimit().StringFixed(2))
	case errors.Is(err, bank.ErrInsufficientFunds):
		c.Notice("Insufficient balance including remittance fee.")
	case errors.Is(err, bank.ErrSameTypeTransfer):
		c.Notice("Transfer error. Transfers only allowed between different account types.")
		c.Notice("Savings -> Current (2%% fee) or Current -> Savings (3%% fee).")
		c.Notice("Same account type transfers are not permitted.")
	case errors.Is(err, bank.ErrRecipientNotFound):
		c.Notice("Recipient account not found.")
	case errors.Is(err, bank.ErrNotFound):
		c.Notice("Account not found.")
	case errors.Is(err, bank.ErrInvalidAccount):
		c.Notice("Invalid account details. %s", err)
	case errors.Is(err, bank.ErrExhaustedIDSpace):
		c.Notice("Could not allocate an account number. Please try again.")
	case storage.IsIOError(err), errors.Is(err, bank.ErrMalformedRecord):
		c.logger.Error("Storage failure", slog.String("error", err.Error()))
		c.Notice("Operation failed due to a storage error.")
	default:
		c.logger.Error("Unexpected failure", slog.String("error", err.Error()))
		c.Notice("Operation failed: %s", err)
	}
}
