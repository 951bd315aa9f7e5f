// internal/bank/account.go
//
// Package bank 定義核心領域模型與業務規則。
// 本檔定義 Account、帳戶類型與欄位驗證，不含任何終端機或檔案細節。

package bank

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"bankledger/internal/storage"
)

// AccountType 為帳戶類型，建立後不可變更。
type AccountType int

const (
	Savings AccountType = iota
	Current
)

func (t AccountType) String() string {
	switch t {
	case Savings:
		return storage.TypeSavings
	case Current:
		return storage.TypeCurrent
	default:
		return fmt.Sprintf("AccountType(%d)", int(t))
	}
}

// ParseAccountType 解析紀錄檔中的類型字面值。
func ParseAccountType(s string) (AccountType, error) {
	switch s {
	case storage.TypeSavings:
		return Savings, nil
	case storage.TypeCurrent:
		return Current, nil
	}
	return 0, fmt.Errorf("unknown account type %q", s)
}

// Account represents a bank account.
type Account struct {
	ID         string          `validate:"required,number,min=7,max=9"`
	HolderName string          `validate:"required,maxbytes=99,singleline"`
	NationalID string          `validate:"required,number,min=8,max=12"`
	Type       AccountType     `validate:"oneof=0 1"`
	PIN        string          `validate:"required,number,len=4"`
	Balance    decimal.Decimal `validate:"-"`
}

// NewAccount 為開戶所需的輸入；帳號與初始餘額由 Bank 決定。
type NewAccount struct {
	HolderName string
	NationalID string
	Type       AccountType
	PIN        string
}

func (a Account) toRecord() storage.Record {
	return storage.Record{
		Name:       a.HolderName,
		NationalID: a.NationalID,
		Number:     a.ID,
		Type:       a.Type.String(),
		PIN:        a.PIN,
		Balance:    a.Balance,
	}
}

func fromRecord(r storage.Record) (Account, error) {
	t, err := ParseAccountType(r.Type)
	if err != nil {
		return Account{}, fmt.Errorf("%w: %v", storage.ErrMalformedRecord, err)
	}
	return Account{
		ID:         r.Number,
		HolderName: r.Name,
		NationalID: r.NationalID,
		Type:       t,
		PIN:        r.PIN,
		Balance:    r.Balance,
	}, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 姓名上限以位元組計，與紀錄檔欄位寬度一致
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= n
	})
	// 換行會破壞六行紀錄格式
	_ = v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	})
	return v
}

// validateAccount 驗證欄位格式，失敗時回傳包裝 ErrInvalidAccount 的錯誤，
// 訊息列出每個不合格欄位。
func validateAccount(a Account) error {
	err := validate.Struct(a)
	if err == nil {
		if a.Balance.IsNegative() {
			return fmt.Errorf("%w: Balance: must not be negative", ErrInvalidAccount)
		}
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+": "+fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidAccount, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "number":
		return "digits only"
	case "min":
		return "at least " + fe.Param() + " digits"
	case "max", "maxbytes":
		return "at most " + fe.Param() + " characters"
	case "len":
		return "exactly " + fe.Param() + " digits"
	case "oneof":
		return "must be Savings or Current"
	case "singleline":
		return "must be a single line"
	default:
		return "invalid value"
	}
}
