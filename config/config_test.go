package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskrobo/earmark/internal/entity"
)

const validYaml = `
journal_dir: /tmp/journal
audit_interval: 1m
exchanges:
  - platform: binance
    account_id: main
  - platform: bybit
    account_id: hedge
symbols:
  - pair: BTC_USD
    amount_tick: "0.0001"
    min_cost: "10"
  - pair: ETH_USD
    amount_tick: "0.001"
    margin_currency: USD
allocations:
  - service: grid
    key: btc-main
    exchange_account_id: main
    pair: BTC_USD
    currency: USD
    amount: "5000"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(validYaml))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/journal", cfg.JournalDir)
	assert.Equal(t, time.Minute, cfg.AuditInterval)

	require.Len(t, cfg.Exchanges, 2)
	assert.Equal(t, ExchangeConfig{Platform: "binance", AccountID: "main"}, cfg.Exchanges[0])

	require.Len(t, cfg.Symbols, 2)
	assert.Equal(t, entity.Pair{Base: "BTC", Quote: "USD"}, cfg.Symbols[0].Pair)
	assert.True(t, cfg.Symbols[0].AmountTick.Equal(decimal.RequireFromString("0.0001")))
	assert.True(t, cfg.Symbols[0].MinCost.Equal(decimal.NewFromInt(10)))
	assert.True(t, cfg.Symbols[0].MinAmount.IsZero())
	assert.Equal(t, "USD", cfg.Symbols[1].MarginCurrency)

	require.Len(t, cfg.Allocations, 1)
	alloc := cfg.Allocations[0]
	assert.Equal(t, "grid", alloc.Descriptor.ServiceName)
	assert.Equal(t, "btc-main", alloc.Descriptor.ServiceConfigurationKey)
	assert.Equal(t, "main", alloc.ExchangeAccountID)
	assert.Equal(t, "USD", alloc.Currency)
	assert.True(t, alloc.Amount.Equal(decimal.NewFromInt(5000)))
}

func TestParse_DefaultAuditInterval(t *testing.T) {
	cfg, err := Parse([]byte(`
exchanges:
  - platform: binance
    account_id: main
`))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.AuditInterval)
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{
			name: "no exchanges",
			yaml: `symbols: []`,
		},
		{
			name: "bad audit interval",
			yaml: `
audit_interval: soonish
exchanges:
  - platform: binance
    account_id: main
`,
		},
		{
			name: "unsupported platform",
			yaml: `
exchanges:
  - platform: mtgox
    account_id: main
`,
		},
		{
			name: "missing account id",
			yaml: `
exchanges:
  - platform: binance
`,
		},
		{
			name: "malformed pair",
			yaml: `
exchanges:
  - platform: binance
    account_id: main
symbols:
  - pair: BTCUSD
    amount_tick: "0.0001"
`,
		},
		{
			name: "bad tick",
			yaml: `
exchanges:
  - platform: binance
    account_id: main
symbols:
  - pair: BTC_USD
    amount_tick: lots
`,
		},
		{
			name: "allocation without service",
			yaml: `
exchanges:
  - platform: binance
    account_id: main
allocations:
  - key: btc-main
    exchange_account_id: main
    pair: BTC_USD
    currency: USD
    amount: "5000"
`,
		},
		{
			name: "allocation references unknown account",
			yaml: `
exchanges:
  - platform: binance
    account_id: main
allocations:
  - service: grid
    key: btc-main
    exchange_account_id: ghost
    pair: BTC_USD
    currency: USD
    amount: "5000"
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}
