package balances

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dskrobo/earmark/internal/entity"
)

func btcUsd(t *testing.T) *entity.SymbolInfo {
	t.Helper()
	sym, err := entity.NewSymbolInfo(
		entity.Pair{Base: "BTC", Quote: "USD"},
		decimal.RequireFromString("0.0001"),
		decimal.Zero, decimal.Zero, "")
	require.NoError(t, err)
	return sym
}

func testParams(t *testing.T, side entity.OrderSide, price, amount int64) entity.ReserveParameters {
	t.Helper()
	return entity.ReserveParameters{
		Descriptor:        entity.ConfigurationDescriptor{ServiceName: "S", ServiceConfigurationKey: "K"},
		ExchangeAccountID: "EX1",
		Symbol:            btcUsd(t),
		Side:              side,
		Price:             decimal.NewFromInt(price),
		Amount:            decimal.NewFromInt(amount),
	}
}

// fixedClock pins approve timestamps for assertions.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// brokenSymbol cannot express a rate between its currencies.
type brokenSymbol struct{}

func (brokenSymbol) Pair() entity.Pair      { return entity.Pair{Base: "BTC", Quote: "USD"} }
func (brokenSymbol) AmountCurrency() string { return "BTC" }
func (brokenSymbol) MarginCurrency() string { return "" }
func (brokenSymbol) ConvertAmount(string, decimal.Decimal, decimal.Decimal) (decimal.Decimal, error) {
	return decimal.Decimal{}, errors.New("no rate")
}
func (brokenSymbol) AmountTick() decimal.Decimal { return decimal.RequireFromString("0.0001") }
func (brokenSymbol) MinAmount(decimal.Decimal) (decimal.Decimal, bool) {
	return decimal.Decimal{}, false
}

// countingRecorder counts telemetry calls to verify derived copies stay silent.
type countingRecorder struct {
	created  int
	approved int
	released int
	closed   int
}

func (r *countingRecorder) ReservationCreated(*BalanceReservation)          { r.created++ }
func (r *countingRecorder) ReservationApproved(*BalanceReservation, string) { r.approved++ }
func (r *countingRecorder) ReservationReleased(*BalanceReservation, string) { r.released++ }
func (r *countingRecorder) ReservationClosed(*BalanceReservation)           { r.closed++ }
