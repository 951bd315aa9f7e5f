// internal/storage/record.go
//
// 定義「資料持久化層 (storage layer)」的帳戶紀錄格式。
// 一個帳戶對應一個檔案，內容固定為六行、順序固定，反覆讀寫不會遺失任何欄位。
package storage

import "github.com/shopspring/decimal"

// 帳戶類型在紀錄檔中的字面值。
const (
	TypeSavings = "Savings"
	TypeCurrent = "Current"
)

// Record 為帳戶在儲存層的序列化格式。
// 不含任何商業規則，僅保存資料狀態；欄位順序即為檔案中的行序。
type Record struct {
	Name       string          // 持有人姓名
	NationalID string          // 身分證號，8-12 位數字
	Number     string          // 帳號，7-9 位數字，同時作為檔名
	Type       string          // Savings 或 Current
	PIN        string          // 4 位數字，明文保存
	Balance    decimal.Decimal // 餘額，小數兩位
}

// Equal 比對兩筆紀錄；餘額以數值比較，不受 decimal 內部表示影響。
func (r Record) Equal(o Record) bool {
	return r.Name == o.Name &&
		r.NationalID == o.NationalID &&
		r.Number == o.Number &&
		r.Type == o.Type &&
		r.PIN == o.PIN &&
		r.Balance.Equal(o.Balance)
}
