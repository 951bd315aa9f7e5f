// internal/bank/ledger.go
//
// 帳本操作：存款、提款、轉帳。
// 流程皆為：驗證參數 → 儲存層 Update（讀整筆、檢查、改餘額、寫回整筆）→ 稽核。
// 任何拒絕都以 *RejectedError 回傳，被拒絕的操作不改變餘額。

package bank

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"bankledger/internal/storage"
)

var (
	savingsToCurrentFee = decimal.RequireFromString("0.02")
	currentToSavingsFee = decimal.RequireFromString("0.03")
)

// FeeRate 回傳轉帳手續費率：Savings → Current 2%，Current → Savings 3%。
// 同類型帳戶之間不允許轉帳。
func FeeRate(from, to AccountType) (decimal.Decimal, error) {
	switch {
	case from == Savings && to == Current:
		return savingsToCurrentFee, nil
	case from == Current && to == Savings:
		return currentToSavingsFee, nil
	}
	return decimal.Zero, ErrSameTypeTransfer
}

// TransferResult 為轉帳成功後雙方的新餘額。
type TransferResult struct {
	FromBalance decimal.Decimal
	ToBalance   decimal.Decimal
	FeeRate     decimal.Decimal // 例如 0.02
	Debited     decimal.Decimal // 付款方實際扣除 = 金額 × (1 + 費率)
}

// validAmount 要求金額為正且不超過兩位小數。
func validAmount(amt decimal.Decimal) bool {
	return amt.IsPositive() && amt.Equal(amt.Round(2))
}

// Deposit 存款：金額需在 (0, 上限] 之間，成功後回傳新餘額。
func (b *Bank) Deposit(id string, amt decimal.Decimal) (decimal.Decimal, error) {
	if !validAmount(amt) || amt.GreaterThan(b.depositLimit) {
		return decimal.Zero, reject(OpDeposit, id, fmt.Errorf("%w: must be between 0 and %s", ErrOutOfRange, b.depositLimit.StringFixed(2)))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	rec, err := b.store.Update(id, func(r storage.Record) (storage.Record, error) {
		r.Balance = r.Balance.Add(amt)
		return r, nil
	})
	if err != nil {
		b.logFailure(OpDeposit, id, err)
		return decimal.Zero, reject(OpDeposit, id, err)
	}

	b.audit.Append(fmt.Sprintf("Deposited RM %s into account: %s", amt.StringFixed(2), id))
	b.logger.Info("Deposit committed", slog.String("account", id), slog.String("amount", amt.StringFixed(2)))
	return rec.Balance, nil
}

// Withdraw 提款：金額需為正且不得超過餘額，成功後回傳新餘額。
func (b *Bank) Withdraw(id string, amt decimal.Decimal) (decimal.Decimal, error) {
	if !validAmount(amt) {
		return decimal.Zero, reject(OpWithdraw, id, ErrOutOfRange)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	rec, err := b.store.Update(id, func(r storage.Record) (storage.Record, error) {
		if amt.GreaterThan(r.Balance) {
			return r, ErrInsufficientFunds
		}
		r.Balance = r.Balance.Sub(amt)
		return r, nil
	})
	if err != nil {
		b.logFailure(OpWithdraw, id, err)
		return decimal.Zero, reject(OpWithdraw, id, err)
	}

	b.audit.Append(fmt.Sprintf("Withdrew RM %s from account: %s", amt.StringFixed(2), id))
	b.logger.Info("Withdrawal committed", slog.String("account", id), slog.String("amount", amt.StringFixed(2)))
	return rec.Balance, nil
}

// Transfer 轉帳（匯款）：
//  1. 收款帳戶須存在，否則 ErrRecipientNotFound。
//  2. 依 (付款類型, 收款類型) 決定費率；同類型回傳 ErrSameTypeTransfer。
//  3. 先自付款方扣除 金額 × (1 + 費率)，成功後才為收款方入帳「金額」。
//
// 入帳失敗時會將扣除額退回付款方；若退回也失敗，帳戶處於不一致狀態，
// 回傳的錯誤同時包含兩個失敗原因並記錄 Error 日誌。
func (b *Bank) Transfer(fromID, toID string, amt decimal.Decimal) (TransferResult, error) {
	if !validAmount(amt) {
		return TransferResult{}, reject(OpTransfer, fromID, ErrOutOfRange)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.store.Exists(toID) {
		return TransferResult{}, reject(OpTransfer, fromID, fmt.Errorf("%w: %s", ErrRecipientNotFound, toID))
	}
	toRec, err := b.store.Read(toID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = fmt.Errorf("%w: %s", ErrRecipientNotFound, toID)
		}
		return TransferResult{}, reject(OpTransfer, fromID, err)
	}
	toType, err := ParseAccountType(toRec.Type)
	if err != nil {
		return TransferResult{}, reject(OpTransfer, fromID, fmt.Errorf("%w: %v", storage.ErrMalformedRecord, err))
	}

	var rate, debit decimal.Decimal
	fromRec, err := b.store.Update(fromID, func(r storage.Record) (storage.Record, error) {
		fromType, err := ParseAccountType(r.Type)
		if err != nil {
			return r, fmt.Errorf("%w: %v", storage.ErrMalformedRecord, err)
		}
		rate, err = FeeRate(fromType, toType)
		if err != nil {
			return r, err
		}
		debit = amt.Mul(decimal.NewFromInt(1).Add(rate)).Round(2)
		if debit.GreaterThan(r.Balance) {
			return r, ErrInsufficientFunds
		}
		r.Balance = r.Balance.Sub(debit)
		return r, nil
	})
	if err != nil {
		b.logFailure(OpTransfer, fromID, err)
		return TransferResult{}, reject(OpTransfer, fromID, err)
	}

	toRec, err = b.store.Update(toID, func(r storage.Record) (storage.Record, error) {
		r.Balance = r.Balance.Add(amt)
		return r, nil
	})
	if err != nil {
		b.logFailure(OpTransfer, toID, err)
		return TransferResult{}, reject(OpTransfer, fromID, b.refund(fromID, debit, err))
	}

	b.audit.Append(fmt.Sprintf("Transfer from account: %s to %s", fromID, toID))
	b.logger.Info("Transfer committed",
		slog.String("from", fromID),
		slog.String("to", toID),
		slog.String("amount", amt.StringFixed(2)),
		slog.String("debited", debit.StringFixed(2)))

	return TransferResult{
		FromBalance: fromRec.Balance,
		ToBalance:   toRec.Balance,
		FeeRate:     rate,
		Debited:     debit,
	}, nil
}

// refund 將已扣除的金額退回付款方，回傳應交給呼叫端的錯誤。
func (b *Bank) refund(fromID string, debit decimal.Decimal, creditErr error) error {
	_, err := b.store.Update(fromID, func(r storage.Record) (storage.Record, error) {
		r.Balance = r.Balance.Add(debit)
		return r, nil
	})
	if err != nil {
		b.logger.Error("Transfer refund failed, sender left debited",
			slog.String("account", fromID),
			slog.String("debited", debit.StringFixed(2)),
			slog.String("error", err.Error()))
		return errors.Join(creditErr, fmt.Errorf("refund %s: %w", fromID, err))
	}
	b.logger.Warn("Transfer credit failed, sender refunded",
		slog.String("account", fromID),
		slog.String("error", creditErr.Error()))
	return creditErr
}

// logFailure 業務拒絕記為 Info，儲存層失敗記為 Error。
func (b *Bank) logFailure(op, id string, err error) {
	if storage.IsIOError(err) || errors.Is(err, storage.ErrMalformedRecord) {
		b.logger.Error("Ledger operation failed", slog.String("op", op), slog.String("account", id), slog.String("error", err.Error()))
		return
	}
	b.logger.Info("Ledger operation rejected", slog.String("op", op), slog.String("account", id), slog.String("reason", err.Error()))
}
