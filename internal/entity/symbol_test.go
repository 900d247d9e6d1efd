package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSymbol(t *testing.T) *SymbolInfo {
	t.Helper()
	sym, err := NewSymbolInfo(
		Pair{Base: "BTC", Quote: "USD"},
		decimal.RequireFromString("0.0001"),
		decimal.RequireFromString("0.001"),
		decimal.Zero,
		"",
	)
	require.NoError(t, err)
	return sym
}

func TestNewSymbolInfo_Validation(t *testing.T) {
	tests := []struct {
		name           string
		pair           Pair
		tick           decimal.Decimal
		marginCurrency string
		wantErr        bool
	}{
		{
			name: "valid spot",
			pair: Pair{Base: "BTC", Quote: "USD"},
			tick: decimal.RequireFromString("0.0001"),
		},
		{
			name:           "valid derivative with quote margin",
			pair:           Pair{Base: "BTC", Quote: "USDT"},
			tick:           decimal.RequireFromString("0.001"),
			marginCurrency: "USDT",
		},
		{
			name:    "zero tick rejected",
			pair:    Pair{Base: "BTC", Quote: "USD"},
			tick:    decimal.Zero,
			wantErr: true,
		},
		{
			name:    "incomplete pair rejected",
			pair:    Pair{Base: "BTC"},
			tick:    decimal.RequireFromString("0.0001"),
			wantErr: true,
		},
		{
			name:           "foreign margin currency rejected",
			pair:           Pair{Base: "BTC", Quote: "USD"},
			tick:           decimal.RequireFromString("0.0001"),
			marginCurrency: "EUR",
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSymbolInfo(tt.pair, tt.tick, decimal.Zero, decimal.Zero, tt.marginCurrency)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSymbolInfo_ConvertAmount(t *testing.T) {
	sym := newTestSymbol(t)
	price := decimal.NewFromInt(50000)

	base, err := sym.ConvertAmount("USD", decimal.NewFromInt(100000), price)
	require.NoError(t, err)
	assert.True(t, base.Equal(decimal.NewFromInt(2)), "got %s", base)

	quote, err := sym.ConvertAmount("BTC", decimal.NewFromInt(2), price)
	require.NoError(t, err)
	assert.True(t, quote.Equal(decimal.NewFromInt(100000)), "got %s", quote)
}

func TestSymbolInfo_ConvertAmount_NoRate(t *testing.T) {
	sym := newTestSymbol(t)

	_, err := sym.ConvertAmount("EUR", decimal.NewFromInt(1), decimal.NewFromInt(50000))
	assert.Error(t, err)

	_, err = sym.ConvertAmount("USD", decimal.NewFromInt(1), decimal.Zero)
	assert.Error(t, err)
}

func TestSymbolInfo_MinAmount(t *testing.T) {
	sym := newTestSymbol(t)

	min, ok := sym.MinAmount(decimal.NewFromInt(50000))
	require.True(t, ok)
	assert.True(t, min.Equal(decimal.RequireFromString("0.001")))

	// symbol with only a minimal cost converts at the price
	costOnly, err := NewSymbolInfo(Pair{Base: "BTC", Quote: "USD"},
		decimal.RequireFromString("0.0001"), decimal.Zero, decimal.NewFromInt(10), "")
	require.NoError(t, err)

	min, ok = costOnly.MinAmount(decimal.NewFromInt(1000))
	require.True(t, ok)
	assert.True(t, min.Equal(decimal.RequireFromString("0.01")), "got %s", min)

	// no minimum defined at all
	none, err := NewSymbolInfo(Pair{Base: "BTC", Quote: "USD"},
		decimal.RequireFromString("0.0001"), decimal.Zero, decimal.Zero, "")
	require.NoError(t, err)

	_, ok = none.MinAmount(decimal.NewFromInt(1000))
	assert.False(t, ok)
}
