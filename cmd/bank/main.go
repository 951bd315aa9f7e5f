// cmd/bank/main.go

// 本程式提供單一使用者的終端機銀行帳本：開戶、銷戶、存款、提款、轉帳。
// 此檔案負責載入設定、初始化模組（storage, audit, bank, console），
// 並啟動主選單；收到 SIGINT/SIGTERM 時記錄工作階段結束後離開。

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"bankledger/internal/audit"
	"bankledger/internal/bank"
	"bankledger/internal/config"
	"bankledger/internal/console"
	"bankledger/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 日誌一律寫到 stderr，避免與選單輸出混在一起
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	fsys := afero.NewOsFs()

	// 載入帳戶索引；資料夾不存在時自動建立
	store, err := storage.Open(fsys, cfg.DataDir, cfg.IndexFile)
	if err != nil {
		logger.Error("Failed to open account store", slog.String("dir", cfg.DataDir), slog.String("error", err.Error()))
		os.Exit(1)
	}
	auditLog := audit.New(fsys, cfg.AuditPath(), logger)

	// 初始化銀行核心模組
	b := bank.New(store, auditLog, logger,
		bank.WithDepositLimit(cfg.DepositLimit),
		bank.WithPINAttempts(cfg.PINAttempts),
		bank.WithIDRetryLimit(cfg.IDRetryLimit),
	)

	// 啟動背景 goroutine 監聽 SIGINT/SIGTERM 訊號；
	// 每筆異動都已即時落盤，結束前只需補上工作階段結束紀錄
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		sig := <-ch
		logger.Info("Interrupted", slog.String("signal", sig.String()))
		auditLog.Append("Session ended")
		os.Exit(0)
	}()

	if err := console.New(b, auditLog, os.Stdin, os.Stdout, logger).Run(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
