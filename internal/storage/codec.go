// internal/storage/codec.go
//
// 帳戶紀錄的文字編解碼。格式為六行「標籤: 值」，順序固定：
//
//	Name: Jane Doe
//	ID: 900101145678
//	Account Number: 1234567
//	Account Type: Savings
//	PIN: 1234
//	Balance: 296.00
//
// Encode 的輸出經 Decode 再 Encode 必須逐位元組相同。
package storage

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var labels = [...]string{"Name", "ID", "Account Number", "Account Type", "PIN", "Balance"}

var (
	numberPattern     = regexp.MustCompile(`^\d{7,9}$`)
	nationalIDPattern = regexp.MustCompile(`^\d{8,12}$`)
	pinPattern        = regexp.MustCompile(`^\d{4}$`)
	// 餘額固定兩位小數且無前導零，否則 round-trip 會改變內容
	balancePattern = regexp.MustCompile(`^(0|[1-9]\d*)\.\d{2}$`)
)

// Encode 將紀錄序列化為固定六行的文字區塊。
func Encode(r Record) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Name: %s\n", r.Name)
	fmt.Fprintf(&b, "ID: %s\n", r.NationalID)
	fmt.Fprintf(&b, "Account Number: %s\n", r.Number)
	fmt.Fprintf(&b, "Account Type: %s\n", r.Type)
	fmt.Fprintf(&b, "PIN: %s\n", r.PIN)
	fmt.Fprintf(&b, "Balance: %s\n", r.Balance.StringFixed(2))
	return b.Bytes()
}

// Decode 依固定行序解析紀錄；任何標籤不符、行數不符或數值欄位格式錯誤
// 皆回傳包裝過的 ErrMalformedRecord。
func Decode(data []byte) (Record, error) {
	text := strings.TrimSuffix(string(data), "\n")
	lines := strings.Split(text, "\n")
	if len(lines) != len(labels) {
		return Record{}, fmt.Errorf("%w: got %d lines, want %d", ErrMalformedRecord, len(lines), len(labels))
	}

	var vals [len(labels)]string
	for i, label := range labels {
		prefix := label + ": "
		if !strings.HasPrefix(lines[i], prefix) {
			return Record{}, fmt.Errorf("%w: line %d: want label %q", ErrMalformedRecord, i+1, label)
		}
		vals[i] = strings.TrimPrefix(lines[i], prefix)
	}

	r := Record{
		Name:       vals[0],
		NationalID: vals[1],
		Number:     vals[2],
		Type:       vals[3],
		PIN:        vals[4],
	}
	if err := checkFields(r); err != nil {
		return Record{}, err
	}
	if !balancePattern.MatchString(vals[5]) {
		return Record{}, fmt.Errorf("%w: bad balance %q", ErrMalformedRecord, vals[5])
	}

	bal, err := decimal.NewFromString(vals[5])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad balance %q: %v", ErrMalformedRecord, vals[5], err)
	}
	r.Balance = bal
	return r, nil
}

// checkFields 檢查除餘額以外的欄位格式。
func checkFields(r Record) error {
	switch {
	case strings.ContainsAny(r.Name, "\r\n"):
		return fmt.Errorf("%w: name spans lines", ErrMalformedRecord)
	case !nationalIDPattern.MatchString(r.NationalID):
		return fmt.Errorf("%w: bad ID %q", ErrMalformedRecord, r.NationalID)
	case !numberPattern.MatchString(r.Number):
		return fmt.Errorf("%w: bad account number %q", ErrMalformedRecord, r.Number)
	case r.Type != TypeSavings && r.Type != TypeCurrent:
		return fmt.Errorf("%w: bad account type %q", ErrMalformedRecord, r.Type)
	case !pinPattern.MatchString(r.PIN):
		return fmt.Errorf("%w: bad PIN", ErrMalformedRecord)
	}
	return nil
}

// Validate 確認紀錄寫出後能被 Decode 原樣讀回：
// 欄位格式正確、餘額非負且最多兩位小數。
func (r Record) Validate() error {
	if err := checkFields(r); err != nil {
		return err
	}
	if r.Balance.IsNegative() {
		return fmt.Errorf("%w: account %s", ErrNegativeBalance, r.Number)
	}
	if !r.Balance.Equal(r.Balance.Round(2)) {
		return fmt.Errorf("%w: balance %s has more than 2 decimals", ErrMalformedRecord, r.Balance)
	}
	return nil
}
