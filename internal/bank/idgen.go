// internal/bank/idgen.go

package bank

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	minAccountNumber int64 = 1_000_000
	maxAccountNumber int64 = 999_999_999

	// DefaultIDRetryLimit 為產生帳號時的重試上限。
	DefaultIDRetryLimit = 10000
)

// IDGenerator 在 [1000000, 999999999] 間均勻抽取帳號，
// 若已存在則重抽，超過上限回傳 ErrExhaustedIDSpace。
type IDGenerator struct {
	exists func(string) bool
	limit  int
	draw   func(n int64) (int64, error) // 回傳 [0, n) 的整數
}

// NewIDGenerator 建立產生器；limit <= 0 時使用 DefaultIDRetryLimit。
func NewIDGenerator(exists func(string) bool, limit int) *IDGenerator {
	if limit <= 0 {
		limit = DefaultIDRetryLimit
	}
	return &IDGenerator{exists: exists, limit: limit, draw: cryptoDraw}
}

// Next 回傳一個目前未被使用的帳號。
func (g *IDGenerator) Next() (string, error) {
	span := maxAccountNumber - minAccountNumber + 1
	for i := 0; i < g.limit; i++ {
		n, err := g.draw(span)
		if err != nil {
			return "", fmt.Errorf("draw account number: %w", err)
		}
		id := strconv.FormatInt(minAccountNumber+n, 10)
		if !g.exists(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrExhaustedIDSpace, g.limit)
}

func cryptoDraw(n int64) (int64, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}
