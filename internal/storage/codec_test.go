// internal/storage/codec_test.go
//
// 驗證六行紀錄格式的編解碼：round-trip、位元組層級穩定性、以及各種格式錯誤。
package storage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() Record {
	return Record{
		Name:       "Tan Mei Ling",
		NationalID: "900101145678",
		Number:     "1234567",
		Type:       TypeSavings,
		PIN:        "4321",
		Balance:    decimal.RequireFromString("296.00"),
	}
}

func TestEncodeLayout(t *testing.T) {
	got := string(Encode(sampleRecord()))
	want := "Name: Tan Mei Ling\n" +
		"ID: 900101145678\n" +
		"Account Number: 1234567\n" +
		"Account Type: Savings\n" +
		"PIN: 4321\n" +
		"Balance: 296.00\n"
	assert.Equal(t, want, got)
}

func TestDecodeRoundTrip(t *testing.T) {
	records := []Record{
		sampleRecord(),
		{Name: "B", NationalID: "12345678", Number: "999999999", Type: TypeCurrent, PIN: "0007", Balance: decimal.Zero},
		{Name: "Name: with colon", NationalID: "123456789012", Number: "1000000", Type: TypeCurrent, PIN: "9999", Balance: decimal.RequireFromString("50000.5")},
	}
	for _, r := range records {
		got, err := Decode(Encode(r))
		require.NoError(t, err)
		assert.True(t, r.Equal(got), "got %+v want %+v", got, r)
	}
}

func TestEncodeDecodeIdempotent(t *testing.T) {
	x := Encode(sampleRecord())
	r, err := Decode(x)
	require.NoError(t, err)
	assert.Equal(t, x, Encode(r))
}

func TestDecodeMalformed(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"swapped order":  "ID: 900101145678\nName: A\nAccount Number: 1234567\nAccount Type: Savings\nPIN: 1234\nBalance: 1.00\n",
		"missing line":   "Name: A\nID: 900101145678\nAccount Number: 1234567\nAccount Type: Savings\nPIN: 1234\n",
		"extra line":     "Name: A\nID: 900101145678\nAccount Number: 1234567\nAccount Type: Savings\nPIN: 1234\nBalance: 1.00\nExtra: x\n",
		"short number":   "Name: A\nID: 900101145678\nAccount Number: 123456\nAccount Type: Savings\nPIN: 1234\nBalance: 1.00\n",
		"alpha id":       "Name: A\nID: 90010114567X\nAccount Number: 1234567\nAccount Type: Savings\nPIN: 1234\nBalance: 1.00\n",
		"unknown type":   "Name: A\nID: 900101145678\nAccount Number: 1234567\nAccount Type: Fixed\nPIN: 1234\nBalance: 1.00\n",
		"long pin":       "Name: A\nID: 900101145678\nAccount Number: 1234567\nAccount Type: Savings\nPIN: 12345\nBalance: 1.00\n",
		"float balance":  "Name: A\nID: 900101145678\nAccount Number: 1234567\nAccount Type: Savings\nPIN: 1234\nBalance: 1.5\n",
		"negative":       "Name: A\nID: 900101145678\nAccount Number: 1234567\nAccount Type: Savings\nPIN: 1234\nBalance: -1.00\n",
		"missing colon":  "Name A\nID: 900101145678\nAccount Number: 1234567\nAccount Type: Savings\nPIN: 1234\nBalance: 1.00\n",
		"leading zero":   "Name: A\nID: 900101145678\nAccount Number: 1234567\nAccount Type: Savings\nPIN: 1234\nBalance: 0100.00\n",
		"double zero":    "Name: A\nID: 900101145678\nAccount Number: 1234567\nAccount Type: Savings\nPIN: 1234\nBalance: 00.50\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(in))
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

// TestDecodeCanonicalBalances 驗證可接受的餘額寫回後位元組不變。
func TestDecodeCanonicalBalances(t *testing.T) {
	for _, bal := range []string{"0.00", "0.05", "10.00", "49999.99"} {
		x := []byte("Name: A\nID: 900101145678\nAccount Number: 1234567\nAccount Type: Savings\nPIN: 1234\nBalance: " + bal + "\n")
		r, err := Decode(x)
		require.NoError(t, err, bal)
		assert.Equal(t, string(x), string(Encode(r)))
	}
}

func TestRecordValidate(t *testing.T) {
	require.NoError(t, sampleRecord().Validate())

	tests := map[string]func(*Record){
		"newline in name": func(r *Record) { r.Name = "Tan\nPIN: 0000" },
		"alpha number":    func(r *Record) { r.Number = "../1234" },
		"short id":        func(r *Record) { r.NationalID = "1234" },
		"unknown type":    func(r *Record) { r.Type = "Fixed" },
		"pin too short":   func(r *Record) { r.PIN = "12" },
		"three decimals":  func(r *Record) { r.Balance = decimal.RequireFromString("1.005") },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			r := sampleRecord()
			mutate(&r)
			assert.ErrorIs(t, r.Validate(), ErrMalformedRecord)
		})
	}

	r := sampleRecord()
	r.Balance = decimal.NewFromInt(-1)
	assert.ErrorIs(t, r.Validate(), ErrNegativeBalance)
}
