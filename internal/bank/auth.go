// internal/bank/auth.go
//
// 身分驗證 (Authenticator)：確認帳號存在、（可選）比對身分證末四碼、
// 再比對 PIN。PIN 有次數上限；末四碼不設上限，答對才繼續。
// 提示與訊息由呼叫端提供的 Prompter（終端機）負責。

package bank

import (
	"fmt"
	"log/slog"
)

// DefaultPINAttempts 為 PIN 比對的預設次數。
const DefaultPINAttempts = 4

// Prompter 是核心呼叫終端機的介面：讀取一行輸入、顯示一則訊息。
// Prompt 回傳錯誤（例如輸入結束）時，驗證流程立即中止並回傳該錯誤。
type Prompter interface {
	Prompt(label string) (string, error)
	Notice(format string, args ...any)
}

// Authenticator 依儲存層內容驗證操作員身分。
type Authenticator struct {
	store    Store
	attempts int
	logger   *slog.Logger
}

// NewAuthenticator 建立驗證器；attempts <= 0 時使用 DefaultPINAttempts。
func NewAuthenticator(store Store, attempts int, logger *slog.Logger) *Authenticator {
	if attempts <= 0 {
		attempts = DefaultPINAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{store: store, attempts: attempts, logger: logger}
}

// Verify 驗證帳號 id 的持有人。
//   - 帳號不在索引中 → ErrNotFound（重新輸入帳號屬於終端機的迴圈）。
//   - requirePartialNationalID 為 true 時，反覆要求身分證末四碼直到相符。
//   - PIN 最多比對 attempts 次，全數錯誤回傳 ErrAttemptsExhausted。
//
// 驗證本身不會修改任何帳戶資料。
func (a *Authenticator) Verify(id string, requirePartialNationalID bool, p Prompter) (Account, error) {
	if !a.store.Exists(id) {
		return Account{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	rec, err := a.store.Read(id)
	if err != nil {
		return Account{}, err
	}
	acct, err := fromRecord(rec)
	if err != nil {
		return Account{}, err
	}

	if requirePartialNationalID {
		want := lastN(acct.NationalID, 4)
		for {
			in, err := p.Prompt("Enter the last 4 digits of your ID: ")
			if err != nil {
				return Account{}, err
			}
			if in == want {
				break
			}
			p.Notice("Incorrect ID. Please try again.")
		}
	}

	for left := a.attempts; left > 0; {
		in, err := p.Prompt("Enter your 4-digit PIN: ")
		if err != nil {
			return Account{}, err
		}
		if in == acct.PIN {
			return acct, nil
		}
		left--
		if left > 0 {
			p.Notice("Incorrect PIN. You have: %d attempts left.", left)
		}
	}

	a.logger.Warn("PIN attempts exhausted", slog.String("account", id))
	return Account{}, fmt.Errorf("%w: %s", ErrAttemptsExhausted, id)
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
