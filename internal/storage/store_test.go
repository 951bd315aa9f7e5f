// internal/storage/store_test.go
//
// 檔案式儲存的行為測試。大部分使用 afero 記憶體檔案系統；
// 重新開啟的持久化測試使用 t.TempDir() 上的真實檔案系統。
package storage

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemStore(t *testing.T) (*FileStore, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	s, err := Open(fsys, "database", "index.txt")
	require.NoError(t, err)
	return s, fsys
}

func recordWith(number, typ string) Record {
	return Record{
		Name:       "Holder " + number,
		NationalID: "12345678",
		Number:     number,
		Type:       typ,
		PIN:        "1234",
		Balance:    decimal.Zero,
	}
}

func TestCreateReadList(t *testing.T) {
	s, fsys := newMemStore(t)

	ids := []string{"5550001", "1110002", "9990003"}
	for _, id := range ids {
		require.NoError(t, s.Create(recordWith(id, TypeSavings)))
	}

	assert.Equal(t, ids, s.List(), "list keeps insertion order")
	assert.Equal(t, 3, s.Count())
	for _, id := range ids {
		assert.True(t, s.Exists(id))
	}

	got, err := s.Read("1110002")
	require.NoError(t, err)
	assert.True(t, recordWith("1110002", TypeSavings).Equal(got))

	index, err := afero.ReadFile(fsys, filepath.Join("database", "index.txt"))
	require.NoError(t, err)
	assert.Equal(t, "5550001\n1110002\n9990003\n", string(index))

	raw, err := afero.ReadFile(fsys, filepath.Join("database", "5550001.txt"))
	require.NoError(t, err)
	assert.Equal(t, Encode(recordWith("5550001", TypeSavings)), raw)
}

func TestCreateDuplicate(t *testing.T) {
	s, _ := newMemStore(t)
	require.NoError(t, s.Create(recordWith("1234567", TypeSavings)))

	err := s.Create(recordWith("1234567", TypeCurrent))
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, s.Count())

	got, err := s.Read("1234567")
	require.NoError(t, err)
	assert.Equal(t, TypeSavings, got.Type, "duplicate create must not overwrite")
}

func TestUniqueAfterManyCreates(t *testing.T) {
	s, _ := newMemStore(t)
	const n = 50
	for i := 0; i < n; i++ {
		require.NoError(t, s.Create(recordWith(fmt.Sprintf("%07d", 1000000+i), TypeSavings)))
	}
	seen := map[string]bool{}
	for _, id := range s.List() {
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestReadNotFound(t *testing.T) {
	s, _ := newMemStore(t)
	_, err := s.Read("7654321")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadMalformedFile(t *testing.T) {
	s, fsys := newMemStore(t)
	require.NoError(t, afero.WriteFile(fsys, filepath.Join("database", "7654321.txt"), []byte("garbage\n"), 0o644))
	_, err := s.Read("7654321")
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestUpdateRewritesWholeRecord(t *testing.T) {
	s, fsys := newMemStore(t)
	r := recordWith("1234567", TypeCurrent)
	r.Balance = decimal.RequireFromString("1000.00")
	require.NoError(t, s.Create(r))

	next, err := s.Update("1234567", func(cur Record) (Record, error) {
		cur.Balance = cur.Balance.Sub(decimal.RequireFromString("999.5"))
		return cur, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "0.50", next.Balance.StringFixed(2))

	raw, err := afero.ReadFile(fsys, filepath.Join("database", "1234567.txt"))
	require.NoError(t, err)
	want := r
	want.Balance = decimal.RequireFromString("0.50")
	assert.Equal(t, string(Encode(want)), string(raw))

	exists, err := afero.Exists(fsys, filepath.Join("database", "1234567.txt.tmp"))
	require.NoError(t, err)
	assert.False(t, exists, "temp file must not linger")
}

func TestUpdateMutatorErrorLeavesRecord(t *testing.T) {
	s, _ := newMemStore(t)
	require.NoError(t, s.Create(recordWith("1234567", TypeSavings)))

	_, err := s.Update("1234567", func(cur Record) (Record, error) {
		return cur, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	got, err := s.Read("1234567")
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
}

func TestUpdateGuards(t *testing.T) {
	s, _ := newMemStore(t)
	require.NoError(t, s.Create(recordWith("1234567", TypeSavings)))

	_, err := s.Update("1234567", func(cur Record) (Record, error) {
		cur.Type = TypeCurrent
		return cur, nil
	})
	assert.ErrorIs(t, err, ErrImmutableField)

	_, err = s.Update("1234567", func(cur Record) (Record, error) {
		cur.Name = "Someone Else"
		return cur, nil
	})
	assert.ErrorIs(t, err, ErrImmutableField)

	_, err = s.Update("1234567", func(cur Record) (Record, error) {
		cur.PIN = "9999"
		return cur, nil
	})
	assert.ErrorIs(t, err, ErrImmutableField)

	_, err = s.Update("1234567", func(cur Record) (Record, error) {
		cur.Balance = decimal.NewFromInt(-1)
		return cur, nil
	})
	assert.ErrorIs(t, err, ErrNegativeBalance)

	got, err := s.Read("1234567")
	require.NoError(t, err)
	assert.True(t, recordWith("1234567", TypeSavings).Equal(got), "rejected updates must not be written")

	_, err = s.Update("7654321", func(cur Record) (Record, error) { return cur, nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s, fsys := newMemStore(t)
	for _, id := range []string{"1000001", "1000002", "1000003"} {
		require.NoError(t, s.Create(recordWith(id, TypeSavings)))
	}

	require.NoError(t, s.Delete("1000002"))

	assert.False(t, s.Exists("1000002"))
	_, err := s.Read("1000002")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"1000001", "1000003"}, s.List())

	index, err := afero.ReadFile(fsys, filepath.Join("database", "index.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1000001\n1000003\n", string(index))

	assert.ErrorIs(t, s.Delete("1000002"), ErrNotFound)
}

// TestDeleteIndexedWithoutRecord 模擬建立中斷：索引有帳號但紀錄檔不存在。
func TestDeleteIndexedWithoutRecord(t *testing.T) {
	s, fsys := newMemStore(t)
	require.NoError(t, s.Create(recordWith("1000001", TypeSavings)))
	require.NoError(t, s.Create(recordWith("1000002", TypeSavings)))
	require.NoError(t, fsys.Remove(filepath.Join("database", "1000002.txt")))

	assert.ErrorIs(t, s.Delete("1000002"), ErrNotFound)
	assert.False(t, s.Exists("1000002"))
	assert.Equal(t, []string{"1000001"}, s.List())

	index, err := afero.ReadFile(fsys, filepath.Join("database", "index.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1000001\n", string(index))
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	s, fsys := newMemStore(t)

	bad := recordWith("1234567", TypeSavings)
	bad.Name = "line one\nline two"
	assert.ErrorIs(t, s.Create(bad), ErrMalformedRecord)

	bad = recordWith("12/4567", TypeSavings)
	assert.ErrorIs(t, s.Create(bad), ErrMalformedRecord)

	bad = recordWith("1234567", TypeSavings)
	bad.Balance = decimal.NewFromInt(-5)
	assert.ErrorIs(t, s.Create(bad), ErrNegativeBalance)

	assert.Zero(t, s.Count())
	exists, err := afero.Exists(fsys, filepath.Join("database", "index.txt"))
	require.NoError(t, err)
	assert.False(t, exists, "nothing is written for a rejected record")
}

func TestOpenReadOnlyFsIsIOError(t *testing.T) {
	_, err := Open(afero.NewReadOnlyFs(afero.NewMemMapFs()), "database", "index.txt")
	require.Error(t, err)
	assert.True(t, IsIOError(err))
}

// TestReopenFromDisk 驗證真實檔案系統上的持久化：重新開啟後索引與內容一致。
func TestReopenFromDisk(t *testing.T) {
	dir := t.TempDir()
	fsys := afero.NewOsFs()

	s, err := Open(fsys, dir, "index.txt")
	require.NoError(t, err)
	require.NoError(t, s.Create(recordWith("2000001", TypeSavings)))
	require.NoError(t, s.Create(recordWith("2000002", TypeCurrent)))
	_, err = s.Update("2000002", func(cur Record) (Record, error) {
		cur.Balance = decimal.NewFromInt(75)
		return cur, nil
	})
	require.NoError(t, err)

	reopened, err := Open(fsys, dir, "index.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"2000001", "2000002"}, reopened.List())

	got, err := reopened.Read("2000002")
	require.NoError(t, err)
	assert.Equal(t, "75.00", got.Balance.StringFixed(2))
}
