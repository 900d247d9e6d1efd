package app

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskrobo/earmark/internal/balances"
	"github.com/dskrobo/earmark/internal/entity"
	"github.com/dskrobo/earmark/internal/events"
)

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

func testReservation(t *testing.T) *balances.BalanceReservation {
	t.Helper()
	sym, err := entity.NewSymbolInfo(
		entity.Pair{Base: "BTC", Quote: "USD"},
		decimal.RequireFromString("0.0001"),
		decimal.Zero, decimal.Zero, "")
	require.NoError(t, err)

	return &balances.BalanceReservation{
		ID:                      7,
		Descriptor:              entity.ConfigurationDescriptor{ServiceName: "grid", ServiceConfigurationKey: "btc-main"},
		ExchangeAccountID:       "EX1",
		Symbol:                  sym,
		Side:                    entity.SideBuy,
		Price:                   decimal.NewFromInt(2),
		Amount:                  decimal.NewFromInt(10),
		ReservationCurrencyCode: "USD",
		NotApprovedAmount:       decimal.NewFromInt(4),
		UnreservedAmount:        decimal.NewFromInt(6),
	}
}

func TestEventRecorder_PublishesTransitions(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	broadcaster := events.NewReservationBroadcaster(8)
	sub := broadcaster.Subscribe()
	defer broadcaster.Unsubscribe(sub)

	rec := newEventRecorder(broadcaster, fixedClock{t: at})
	res := testReservation(t)

	rec.ReservationApproved(res, "C1")

	require.Len(t, sub, 1)
	ev := <-sub
	assert.Equal(t, events.KindApproved, ev.Kind)
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, at, ev.Timestamp)
	assert.Equal(t, int64(7), ev.ReservationID)
	assert.Equal(t, "grid", ev.Service)
	assert.Equal(t, "btc-main", ev.ConfigurationKey)
	assert.Equal(t, "EX1", ev.ExchangeAccountID)
	assert.Equal(t, "BTC_USD", ev.Pair)
	assert.Equal(t, "buy", ev.Side)
	assert.Equal(t, "USD", ev.Currency)
	assert.Equal(t, "10", ev.Amount)
	assert.Equal(t, "6", ev.Unreserved)
	assert.Equal(t, "4", ev.NotApproved)
	assert.Equal(t, "C1", ev.ClientOrderID)
}

func TestEventRecorder_KindsPerTransition(t *testing.T) {
	broadcaster := events.NewReservationBroadcaster(8)
	sub := broadcaster.Subscribe()
	defer broadcaster.Unsubscribe(sub)

	rec := newEventRecorder(broadcaster, fixedClock{t: time.Now()})
	res := testReservation(t)

	rec.ReservationCreated(res)
	rec.ReservationReleased(res, "C1")
	rec.ReservationClosed(res)

	require.Len(t, sub, 3)
	assert.Equal(t, events.KindReserved, (<-sub).Kind)
	assert.Equal(t, events.KindUnreserved, (<-sub).Kind)
	assert.Equal(t, events.KindClosed, (<-sub).Kind)
}

func TestEventRecorder_UniqueEventIDs(t *testing.T) {
	broadcaster := events.NewReservationBroadcaster(8)
	sub := broadcaster.Subscribe()
	defer broadcaster.Unsubscribe(sub)

	rec := newEventRecorder(broadcaster, fixedClock{t: time.Now()})
	res := testReservation(t)

	rec.ReservationCreated(res)
	rec.ReservationCreated(res)

	require.Len(t, sub, 2)
	assert.NotEqual(t, (<-sub).EventID, (<-sub).EventID)
}
