// internal/console/handler.go
//
// 各選單選項的互動流程。處理函式只在輸入結束或非預期錯誤時回傳 error；
// 業務拒絕交由 showRejection 顯示後回到主選單。
package console

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"

	"bankledger/internal/bank"
)

var (
	digitsPattern = regexp.MustCompile(`^\d+$`)
	// 正數，最多兩位小數
	amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

const maxNameBytes = 99

// createAccount 處理開戶：
// 姓名 → 身分證號 (8-12 位數字) → 帳戶類型 (0/1) → PIN 兩次輸入確認。
func (c *Console) createAccount() error {
	c.Notice("Please fill in the following:")

	var req bank.NewAccount
	for {
		name, err := c.Prompt("Full Name: ")
		if err != nil {
			return err
		}
		if name == "" {
			c.Notice("Name cannot be empty.")
			continue
		}
		if len(name) > maxNameBytes {
			c.Notice("Name too long. Maximum %d characters.", maxNameBytes)
			continue
		}
		req.HolderName = name
		break
	}

	for {
		id, err := c.Prompt("Identification Number (ID): ")
		if err != nil {
			return err
		}
		if !digitsPattern.MatchString(id) {
			c.Notice("Invalid ID. Only numbers allowed.")
			continue
		}
		if len(id) < 8 || len(id) > 12 {
			c.Notice("Invalid ID length. Must be 8-12 digits.")
			continue
		}
		req.NationalID = id
		break
	}

	for {
		t, err := c.Prompt("Account type (0 = savings, 1 = current): ")
		if err != nil {
			return err
		}
		if t == "0" {
			req.Type = bank.Savings
			break
		}
		if t == "1" {
			req.Type = bank.Current
			break
		}
		c.Notice("Invalid type. Please enter 0 or 1 only.")
	}

	for {
		pin1, err := c.Prompt("Set 4-digit PIN: ")
		if err != nil {
			return err
		}
		n, convErr := strconv.Atoi(pin1)
		if convErr != nil || !digitsPattern.MatchString(pin1) {
			c.Notice("Invalid input. Please enter digits only.")
			continue
		}
		if n < 1000 || n > 9999 {
			c.Notice("Invalid PIN. Must be 4 digits.")
			continue
		}
		pin2, err := c.Prompt("Re-enter PIN to confirm: ")
		if err != nil {
			return err
		}
		if pin1 != pin2 {
			c.Notice("PINs do not match. Please try again.")
			continue
		}
		req.PIN = pin1
		break
	}

	a, err := c.Bank.Open(req)
	if err != nil {
		c.showRejection(err)
		return nil
	}
	c.Notice("\nAccount created successfully!")
	c.Notice("Account Number: %s", a.ID)
	c.Notice("Account Type: %s", a.Type)
	return nil
}

// deleteAccount 列出所有帳號，驗證身分證末四碼與 PIN，確認後銷戶。
func (c *Console) deleteAccount() error {
	c.Notice("Saved Accounts:")
	for _, id := range c.Bank.List() {
		c.Notice("%s", id)
	}

	a, ok, err := c.authenticate(true)
	if err != nil || !ok {
		return err
	}

	for {
		ans, err := c.Prompt("Are you sure you want to delete your account? (y/n): ")
		if err != nil {
			return err
		}
		switch ans {
		case "y", "Y":
			if err := c.Bank.Close(a.ID); err != nil {
				c.showRejection(err)
				return nil
			}
			c.Notice("Account deleted successfully.")
			return nil
		case "n", "N":
			c.Notice("Account deletion canceled.")
			return nil
		default:
			c.Notice("Please enter y or n.")
		}
	}
}

func (c *Console) deposit() error {
	a, ok, err := c.authenticate(false)
	if err != nil || !ok {
		return err
	}
	amt, err := c.promptAmount("How much would you like to deposit? ")
	if err != nil {
		return err
	}
	bal, err := c.Bank.Deposit(a.ID, amt)
	if err != nil {
		c.showRejection(err)
		return nil
	}
	c.Notice("Deposit successful. New balance: %s", bal.StringFixed(2))
	return nil
}

func (c *Console) withdraw() error {
	a, ok, err := c.authenticate(false)
	if err != nil || !ok {
		return err
	}
	amt, err := c.promptAmount("How much would you like to withdraw? ")
	if err != nil {
		return err
	}
	bal, err := c.Bank.Withdraw(a.ID, amt)
	if err != nil {
		c.showRejection(err)
		return nil
	}
	c.Notice("Withdrawal successful. New balance: %s", bal.StringFixed(2))
	return nil
}

// remittance 處理轉帳：付款方需驗證 PIN，收款方只需帳號存在。
func (c *Console) remittance() error {
	from, ok, err := c.authenticate(false)
	if err != nil || !ok {
		return err
	}
	to, err := c.Prompt("Enter recipient account number: ")
	if err != nil {
		return err
	}
	if !c.Bank.Exists(to) {
		c.Notice("Recipient account not found.")
		return nil
	}
	amt, err := c.promptAmount("How much would you like to transfer? ")
	if err != nil {
		return err
	}

	res, err := c.Bank.Transfer(from.ID, to, amt)
	if err != nil {
		c.showRejection(err)
		return nil
	}
	c.Notice("A remittance fee of %s%% has been applied.", res.FeeRate.Shift(2).StringFixed(2))
	c.Notice("Total debited: %s", res.Debited.StringFixed(2))
	c.Notice("Transfer successful! New balance: %s", res.FromBalance.StringFixed(2))
	return nil
}

// authenticate 反覆要求帳號直到存在，再交由 bank 驗證 PIN（及身分證末四碼）。
// PIN 次數用盡時 ok 為 false 且 err 為 nil，呼叫端回到主選單。
func (c *Console) authenticate(requirePartialNationalID bool) (bank.Account, bool, error) {
	var id string
	for {
		in, err := c.Prompt("Enter your account number: ")
		if err != nil {
			return bank.Account{}, false, err
		}
		if c.Bank.Exists(in) {
			id = in
			break
		}
		c.Notice("Account number not found. Please try again.")
	}

	a, err := c.Bank.Verify(id, requirePartialNationalID, c)
	switch {
	case err == nil:
		return a, true, nil
	case errors.Is(err, bank.ErrAttemptsExhausted):
		c.Notice("You have run out of attempts. Returning to main menu.")
		return bank.Account{}, false, nil
	case errors.Is(err, bank.ErrNotFound), errors.Is(err, bank.ErrMalformedRecord):
		c.showRejection(err)
		return bank.Account{}, false, nil
	default:
		return bank.Account{}, false, err
	}
}

// promptAmount 反覆要求金額直到格式正確（正數，最多兩位小數）。
// 範圍檢查由 bank 層負責。
func (c *Console) promptAmount(label string) (decimal.Decimal, error) {
	for {
		in, err := c.Prompt(label)
		if err != nil {
			return decimal.Zero, err
		}
		if !amountPattern.MatchString(in) {
			c.Notice("Invalid amount. Use digits with up to 2 decimal places.")
			continue
		}
		amt, err := decimal.NewFromString(in)
		if err != nil {
			c.Notice("Invalid amount. Use digits with up to 2 decimal places.")
			continue
		}
		return amt, nil
	}
}
