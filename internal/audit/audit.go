// internal/audit/audit.go

// Package audit 提供僅附加 (append-only) 的交易稽核紀錄。
// 每筆事件一行，格式為 `[<時間>] <訊息>`，時間採 ctime 版面 (time.ANSIC)。
// 程式本身不會讀回稽核檔，也不限制檔案成長。
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// Log 為寫入單一稽核檔的事件匯出端。
// 寫入失敗只記錄警告，不影響呼叫端的操作結果。
type Log struct {
	fs     afero.Fs
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// New 建立稽核紀錄；logger 為 nil 時使用 slog.Default()。
func New(fsys afero.Fs, path string, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{fs: fsys, path: path, logger: logger, now: time.Now}
}

// Append 以目前時間附加一行事件。
func (l *Log) Append(message string) {
	if err := l.write(message); err != nil {
		l.logger.Warn("Failed to append audit entry",
			slog.String("path", l.path),
			slog.String("message", message),
			slog.String("error", err.Error()))
	}
}

func (l *Log) write(message string) (err error) {
	if err := l.fs.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := l.fs.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = fmt.Fprintf(f, "[%s] %s\n", l.now().Format(time.ANSIC), message)
	return err
}
