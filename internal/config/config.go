// internal/config/config.go
//
// Package config 負責載入執行設定。
// 來源依序為：環境變數 → 目前目錄的 .env 檔 → 內建預設值。
// 格式錯誤的值會退回預設值並記錄警告，不會讓程式無法啟動；
// 明確設定為 0 或負數的值則由 Validate 拒絕。
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	defaultDataDir      = "database"
	defaultIndexFile    = "index.txt"
	defaultAuditFile    = "transaction.log"
	defaultPINAttempts  = 4
	defaultDepositLimit = "50000"
	defaultIDRetryLimit = 10000
	defaultLogLevel     = "warn"
	defaultLogFormat    = "text"
)

// Config 為帳本程式的全部設定。
type Config struct {
	DataDir      string
	IndexFile    string
	AuditFile    string
	PINAttempts  int
	DepositLimit decimal.Decimal
	IDRetryLimit int
	LogLevel     slog.Level
	LogFormat    string // text 或 json
}

// IndexPath 回傳資料目錄下的索引檔路徑。
func (c *Config) IndexPath() string { return filepath.Join(c.DataDir, c.IndexFile) }

// AuditPath 回傳資料目錄下的稽核檔路徑。
func (c *Config) AuditPath() string { return filepath.Join(c.DataDir, c.AuditFile) }

// Load 讀取環境變數（以及存在時的 .env 檔）並回傳驗證過的設定。
func Load() (*Config, error) {
	// .env 不存在時忽略
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("BANK_DATA_DIR", defaultDataDir)
	v.SetDefault("BANK_INDEX_FILE", defaultIndexFile)
	v.SetDefault("BANK_AUDIT_FILE", defaultAuditFile)
	v.SetDefault("BANK_PIN_ATTEMPTS", defaultPINAttempts)
	v.SetDefault("BANK_DEPOSIT_LIMIT", defaultDepositLimit)
	v.SetDefault("BANK_ID_RETRY_LIMIT", defaultIDRetryLimit)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("LOG_FORMAT", defaultLogFormat)
	v.AutomaticEnv()

	cfg := &Config{
		DataDir:      v.GetString("BANK_DATA_DIR"),
		IndexFile:    v.GetString("BANK_INDEX_FILE"),
		AuditFile:    v.GetString("BANK_AUDIT_FILE"),
		PINAttempts:  intOrDefault(v, "BANK_PIN_ATTEMPTS", defaultPINAttempts),
		IDRetryLimit: intOrDefault(v, "BANK_ID_RETRY_LIMIT", defaultIDRetryLimit),
		LogFormat:    strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
		slog.Warn("BANK_DATA_DIR is empty, using default", slog.String("dir", cfg.DataDir))
	}

	limitStr := v.GetString("BANK_DEPOSIT_LIMIT")
	limit, err := decimal.NewFromString(limitStr)
	if err != nil {
		limit = decimal.RequireFromString(defaultDepositLimit)
		slog.Warn("Invalid BANK_DEPOSIT_LIMIT, using default",
			slog.String("value", limitStr), slog.String("default", limit.String()))
	}
	cfg.DepositLimit = limit

	levelStr := v.GetString("LOG_LEVEL")
	if err := cfg.LogLevel.UnmarshalText([]byte(levelStr)); err != nil {
		cfg.LogLevel = slog.LevelWarn
		slog.Warn("Invalid LOG_LEVEL, using warn", slog.String("value", levelStr))
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		slog.Warn("Invalid LOG_FORMAT, using text", slog.String("value", cfg.LogFormat))
		cfg.LogFormat = defaultLogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// intOrDefault 解析整數設定；無法解析時退回 def 並記錄警告。
func intOrDefault(v *viper.Viper, key string, def int) int {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("Invalid "+key+", using default", slog.String("value", raw), slog.Int("default", def))
		return def
	}
	return n
}

// Validate 拒絕帳本無法運作的設定值。
func (c *Config) Validate() error {
	switch {
	case c.PINAttempts <= 0:
		return fmt.Errorf("BANK_PIN_ATTEMPTS must be positive, got %d", c.PINAttempts)
	case c.IDRetryLimit <= 0:
		return fmt.Errorf("BANK_ID_RETRY_LIMIT must be positive, got %d", c.IDRetryLimit)
	case !c.DepositLimit.IsPositive():
		return fmt.Errorf("BANK_DEPOSIT_LIMIT must be positive, got %s", c.DepositLimit)
	case c.IndexFile == "" || c.AuditFile == "":
		return fmt.Errorf("BANK_INDEX_FILE and BANK_AUDIT_FILE must not be empty")
	case c.IndexFile == c.AuditFile:
		return fmt.Errorf("index and audit files must differ")
	}
	return nil
}
