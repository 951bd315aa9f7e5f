// internal/bank/bank.go

// Package bank 定義核心商業邏輯：開戶、銷戶、存款、提款、轉帳與身分驗證。
// 帳戶狀態全部存放於儲存層 (Store)；每次變更都是「讀整筆 → 改餘額 → 寫回整筆」。
// 採用單一互斥鎖 (sync.Mutex) 序列化所有變更，程序內不會交錯執行。
// 金額以 decimal.Decimal 表示，固定兩位小數。
package bank

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"bankledger/internal/storage"
)

// Store 為 Bank 所需的帳戶儲存能力，由 storage.FileStore 實作。
type Store interface {
	Exists(id string) bool
	Create(r storage.Record) error
	Read(id string) (storage.Record, error)
	Update(id string, mutate func(storage.Record) (storage.Record, error)) (storage.Record, error)
	Delete(id string) error
	List() []string
	Count() int
}

// Auditor 接收稽核事件，由 audit.Log 實作。
type Auditor interface {
	Append(message string)
}

type nopAuditor struct{}

func (nopAuditor) Append(string) {}

// DefaultDepositLimit 為單筆存款上限（含）。
var DefaultDepositLimit = decimal.NewFromInt(50000)

// Bank 為聚合根 (Aggregate Root)：所有帳戶操作的唯一入口。
type Bank struct {
	mu           sync.Mutex
	store        Store
	audit        Auditor
	logger       *slog.Logger
	ids          *IDGenerator
	auth         *Authenticator
	depositLimit decimal.Decimal
	pinAttempts  int
	idRetryLimit int
}

// Option 調整 Bank 的業務參數。
type Option func(*Bank)

// WithDepositLimit 設定單筆存款上限。
func WithDepositLimit(limit decimal.Decimal) Option {
	return func(b *Bank) { b.depositLimit = limit }
}

// WithPINAttempts 設定 PIN 可嘗試次數。
func WithPINAttempts(n int) Option {
	return func(b *Bank) { b.pinAttempts = n }
}

// WithIDRetryLimit 設定產生帳號的重試上限。
func WithIDRetryLimit(n int) Option {
	return func(b *Bank) { b.idRetryLimit = n }
}

// New 建立銀行實例。auditor 與 logger 可為 nil。
func New(store Store, auditor Auditor, logger *slog.Logger, opts ...Option) *Bank {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bank{
		store:        store,
		audit:        auditor,
		logger:       logger,
		depositLimit: DefaultDepositLimit,
		pinAttempts:  DefaultPINAttempts,
		idRetryLimit: DefaultIDRetryLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.ids = NewIDGenerator(store.Exists, b.idRetryLimit)
	b.auth = NewAuthenticator(store, b.pinAttempts, logger)
	return b
}

// Open 開立新帳戶：產生帳號、驗證欄位、寫入索引與紀錄檔，初始餘額 0.00。
func (b *Bank) Open(req NewAccount) (Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, err := b.ids.Next()
	if err != nil {
		return Account{}, reject(OpOpen, "", err)
	}
	a := Account{
		ID:         id,
		HolderName: req.HolderName,
		NationalID: req.NationalID,
		Type:       req.Type,
		PIN:        req.PIN,
		Balance:    decimal.Zero,
	}
	if err := validateAccount(a); err != nil {
		return Account{}, reject(OpOpen, id, err)
	}
	if err := b.store.Create(a.toRecord()); err != nil {
		b.logger.Error("Failed to create account", slog.String("account", id), slog.String("error", err.Error()))
		return Account{}, reject(OpOpen, id, err)
	}

	b.audit.Append("Created account: " + id)
	b.logger.Info("Account created", slog.String("account", id), slog.String("type", a.Type.String()))
	return a, nil
}

// Close 銷戶：刪除紀錄檔並自索引移除。
func (b *Bank) Close(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.store.Delete(id); err != nil {
		b.logger.Error("Failed to delete account", slog.String("account", id), slog.String("error", err.Error()))
		return reject(OpClose, id, err)
	}
	b.audit.Append("Deleted account: " + id)
	b.logger.Info("Account deleted", slog.String("account", id))
	return nil
}

// Get 依帳號讀取目前的帳戶內容（值拷貝）。
func (b *Bank) Get(id string) (Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, err := b.store.Read(id)
	if err != nil {
		return Account{}, err
	}
	return fromRecord(rec)
}

// Exists 回報帳號是否在索引中。
func (b *Bank) Exists(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Exists(id)
}

// List 依建立順序回傳所有帳號。
func (b *Bank) List() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.List()
}

// Count 回傳帳戶數量。
func (b *Bank) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Count()
}

// Verify 驗證帳戶持有人，詳見 Authenticator.Verify。
// 互動期間不持有鎖。
func (b *Bank) Verify(id string, requirePartialNationalID bool, p Prompter) (Account, error) {
	a, err := b.auth.Verify(id, requirePartialNationalID, p)
	if err != nil {
		return Account{}, fmt.Errorf("verify %s: %w", id, err)
	}
	return a, nil
}

// DepositLimit 回傳單筆存款上限，供介面層顯示。
func (b *Bank) DepositLimit() decimal.Decimal { return b.depositLimit }
