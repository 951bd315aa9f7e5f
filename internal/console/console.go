// internal/console/console.go
//
// Package console
// ─────────────────────────────────────────────
// 提供終端機選單介面，作為 bank 模組的應用層 (Application Layer)。
// 每個選項的處理函式僅負責：
//  1. 提示操作員並讀取輸入
//  2. 呼叫 bank 層執行商業邏輯
//  3. 將結果或拒絕原因顯示給操作員
//
// 業務失敗只會顯示訊息並回到主選單，不會結束程序；
// 只有輸入結束 (EOF) 或選擇 Exit 才會結束工作階段。
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"bankledger/internal/bank"
)

// Console 為終端機層核心結構：
//   - Bank：注入商業邏輯層（銀行核心）。
//   - audit：記錄工作階段開始與結束。
type Console struct {
	Bank   *bank.Bank
	audit  bank.Auditor
	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger
	now    func() time.Time
}

// New 建立新的終端機工作階段；每個工作階段帶有自己的 session_id 日誌欄位。
// auditor 與 logger 可為 nil。
func New(b *bank.Bank, auditor bank.Auditor, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{
		Bank:   b,
		audit:  auditor,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger.With(slog.String("session_id", uuid.NewString())),
		now:    time.Now,
	}
}

// Prompt 顯示提示並讀取一行輸入（去除前後空白）。輸入結束時回傳 io.EOF。
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// Notice 顯示一行訊息。
func (c *Console) Notice(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Run 執行主選單迴圈，直到操作員選擇 Exit 或輸入結束。
func (c *Console) Run() error {
	c.appendAudit("Session Start")
	c.logger.Info("Session started")

	c.Notice("--- Banking System ---")
	c.Notice("Session start: %s", c.now().Format(time.ANSIC))
	c.Notice("No. Accounts Loaded: %d\n", c.Bank.Count())

	for {
		c.showMenu()
		choice, err := c.Prompt("Select option: ")
		if err != nil {
			return c.endSession(err)
		}

		item, ok := c.route(choice)
		if !ok {
			c.Notice("Invalid choice. Please try again.")
			continue
		}
		c.logger.Debug("Menu option selected", slog.String("option", item.word))
		if item.handle == nil {
			c.Notice("Thank you, goodbye. Exiting...!")
			return c.endSession(nil)
		}

		c.Notice("%s...", item.progress)
		if err := item.handle(); err != nil {
			return c.endSession(err)
		}
	}
}

// endSession 記錄工作階段結束；輸入結束視為正常離開。
func (c *Console) endSession(err error) error {
	c.appendAudit("Session ended")
	if err != nil && !errors.Is(err, io.EOF) {
		c.logger.Error("Session aborted", slog.String("error", err.Error()))
		return err
	}
	c.logger.Info("Session ended")
	return nil
}

func (c *Console) appendAudit(msg string) {
	if c.audit != nil {
		c.audit.Append(msg)
	}
}
