// internal/storage/store.go
//
// 檔案式帳戶儲存 (FileStore)：
//   - 索引檔：每行一個帳號，依建立順序排列，是「帳號是否存在」的依據。
//   - 紀錄檔：每個帳戶一個檔案，以帳號命名，是帳戶內容的依據。
//
// 所有寫入都先寫 .tmp 暫存檔，再以 Rename 取代正式檔案，
// 讀取端不會看到寫到一半的內容。索引在 Open 時載入記憶體，之後與檔案同步維護。
//
// 建立與刪除都是「索引 + 紀錄檔」兩步驟，兩步之間若程序中斷會留下不一致，
// 此為已知缺口，不做自動重試。
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const recordExt = ".txt"

// FileStore 管理資料目錄下的索引檔與帳戶紀錄檔。
// 非並行安全；呼叫端 (bank.Bank) 負責序列化。
type FileStore struct {
	fs        afero.Fs
	dir       string
	indexPath string

	ids  []string            // 索引內容，保持檔案順序
	live map[string]struct{} // 快速判斷存在性
}

// Open 於 dir 建立（若不存在）資料目錄並載入索引。
// 索引檔不存在時視為空索引。
func Open(fsys afero.Fs, dir, indexName string) (*FileStore, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	s := &FileStore{
		fs:        fsys,
		dir:       dir,
		indexPath: filepath.Join(dir, indexName),
		live:      make(map[string]struct{}),
	}
	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) loadIndex() error {
	f, err := s.fs.Open(s.indexPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &IOError{Op: "open", Path: s.indexPath, Err: err}
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		id := strings.TrimSpace(sc.Text())
		if id == "" {
			continue
		}
		if _, dup := s.live[id]; dup {
			continue
		}
		s.ids = append(s.ids, id)
		s.live[id] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return &IOError{Op: "read", Path: s.indexPath, Err: err}
	}
	return nil
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.dir, id+recordExt)
}

// Exists 回報帳號是否在索引中。
func (s *FileStore) Exists(id string) bool {
	_, ok := s.live[id]
	return ok
}

// List 回傳索引內容的拷貝，依建立順序，不排序。
func (s *FileStore) List() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Count 回傳索引中的帳號數。
func (s *FileStore) Count() int { return len(s.ids) }

// Create 先將帳號附加到索引，再寫入紀錄檔。
// 紀錄格式不合法或帳號已存在（ErrDuplicateID）時不做任何寫入。
func (s *FileStore) Create(r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if s.Exists(r.Number) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, r.Number)
	}
	if err := s.appendIndex(r.Number); err != nil {
		return err
	}
	s.ids = append(s.ids, r.Number)
	s.live[r.Number] = struct{}{}

	path := s.recordPath(r.Number)
	if err := writeFileAtomic(s.fs, path, Encode(r)); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func (s *FileStore) appendIndex(id string) (err error) {
	f, err := s.fs.OpenFile(s.indexPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &IOError{Op: "open", Path: s.indexPath, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: s.indexPath, Err: cerr}
		}
	}()
	if _, err := fmt.Fprintf(f, "%s\n", id); err != nil {
		return &IOError{Op: "append", Path: s.indexPath, Err: err}
	}
	return nil
}

// Read 讀取並解析帳戶紀錄檔；檔案不存在回傳 ErrNotFound。
func (s *FileStore) Read(id string) (Record, error) {
	path := s.recordPath(id)
	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, &IOError{Op: "read", Path: path, Err: err}
	}
	r, err := Decode(data)
	if err != nil {
		return Record{}, fmt.Errorf("account %s: %w", id, err)
	}
	return r, nil
}

// Update 讀出整筆紀錄、交給 mutate 修改，再將六個欄位整筆寫回同一個檔案。
// mutate 回傳錯誤時不寫入，並原樣回傳該錯誤與修改前的紀錄。
// 只有餘額可以變更；餘額不可為負。
func (s *FileStore) Update(id string, mutate func(Record) (Record, error)) (Record, error) {
	cur, err := s.Read(id)
	if err != nil {
		return Record{}, err
	}
	next, err := mutate(cur)
	if err != nil {
		return cur, err
	}
	if next.Number != cur.Number || next.NationalID != cur.NationalID || next.Type != cur.Type ||
		next.Name != cur.Name || next.PIN != cur.PIN {
		return cur, fmt.Errorf("%w: account %s", ErrImmutableField, id)
	}
	if err := next.Validate(); err != nil {
		return cur, err
	}

	path := s.recordPath(id)
	if err := writeFileAtomic(s.fs, path, Encode(next)); err != nil {
		return cur, &IOError{Op: "write", Path: path, Err: err}
	}
	return next, nil
}

// Delete 刪除紀錄檔，再以「除了該帳號以外的所有帳號」重建索引並取代舊索引。
// 索引中有帳號但紀錄檔已不存在（建立中斷的殘留）時，仍會移除索引項目並回傳 ErrNotFound。
func (s *FileStore) Delete(id string) error {
	path := s.recordPath(id)
	if _, err := s.fs.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if s.Exists(id) {
			if err := s.dropFromIndex(id); err != nil {
				return err
			}
		}
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	} else if err != nil {
		return &IOError{Op: "stat", Path: path, Err: err}
	}
	if err := s.fs.Remove(path); err != nil {
		return &IOError{Op: "remove", Path: path, Err: err}
	}
	return s.dropFromIndex(id)
}

func (s *FileStore) dropFromIndex(id string) error {
	keep := make([]string, 0, len(s.ids))
	var b strings.Builder
	for _, n := range s.ids {
		if n == id {
			continue
		}
		keep = append(keep, n)
		b.WriteString(n)
		b.WriteByte('\n')
	}
	if err := writeFileAtomic(s.fs, s.indexPath, []byte(b.String())); err != nil {
		return &IOError{Op: "rewrite", Path: s.indexPath, Err: err}
	}
	s.ids = keep
	delete(s.live, id)
	return nil
}

// writeFileAtomic 寫入 path+".tmp" 後以 Rename 取代正式檔案。
// 寫入中斷時原檔不會損壞。
func writeFileAtomic(fsys afero.Fs, path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := fsys.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = fsys.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return fsys.Rename(tmp, path)
}
