// internal/storage/errors.go
//
// 儲存層錯誤。上層 (bank) 以 errors.Is 判斷，再轉為對應的拒絕原因。

package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 代表帳戶紀錄檔不存在。
	ErrNotFound = errors.New("account not found")

	// ErrDuplicateID 代表帳號已存在於索引中。
	ErrDuplicateID = errors.New("account number already exists")

	// ErrMalformedRecord 代表紀錄檔的標籤、行序或數值欄位無法解析。
	ErrMalformedRecord = errors.New("malformed account record")

	// ErrImmutableField 代表更新時試圖改寫餘額以外的欄位。
	ErrImmutableField = errors.New("immutable account field changed")

	// ErrNegativeBalance 代表更新後餘額為負，拒絕寫入。
	ErrNegativeBalance = errors.New("balance cannot be negative")
)

// IOError 包裝底層檔案系統錯誤（目錄不存在、權限不足等）。
// 對單一操作是致命的，但不會終止整個程序。
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsIOError 回報 err 是否為檔案系統層級的失敗。
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
