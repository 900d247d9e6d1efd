package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPair_Strings(t *testing.T) {
	p := Pair{Base: "BTC", Quote: "USDT"}
	assert.Equal(t, "BTC_USDT", p.String())
	assert.Equal(t, "BTCUSDT", p.Symbol())
}

func TestOrderSide_String(t *testing.T) {
	assert.Equal(t, "buy", SideBuy.String())
	assert.Equal(t, "sell", SideSell.String())
	assert.Equal(t, "unknown", OrderSide(7).String())
}

func TestConfigurationDescriptor_String(t *testing.T) {
	d := ConfigurationDescriptor{ServiceName: "grid", ServiceConfigurationKey: "btc-main"}
	assert.Equal(t, "grid/btc-main", d.String())
}

func TestReserveParameters_WithAmount(t *testing.T) {
	params := ReserveParameters{
		Descriptor:        ConfigurationDescriptor{ServiceName: "S", ServiceConfigurationKey: "K"},
		ExchangeAccountID: "EX1",
		Side:              SideBuy,
		Price:             decimal.NewFromInt(2),
		Amount:            decimal.NewFromInt(10),
	}

	smaller := params.WithAmount(decimal.NewFromInt(4))
	assert.True(t, smaller.Amount.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, params.Descriptor, smaller.Descriptor)
	assert.True(t, params.Amount.Equal(decimal.NewFromInt(10)), "the original must not change")
}
