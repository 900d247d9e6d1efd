package app

import (
	"github.com/google/uuid"

	"github.com/dskrobo/earmark/internal/balances"
	"github.com/dskrobo/earmark/internal/events"
)

// eventRecorder translates reservation lifecycle telemetry into broadcast
// events. Wired into the canonical manager only: derived snapshot copies carry
// a silent recorder, so every transition is published exactly once.
type eventRecorder struct {
	broadcaster *events.ReservationBroadcaster
	clock       balances.Clock
}

func newEventRecorder(b *events.ReservationBroadcaster, clock balances.Clock) *eventRecorder {
	return &eventRecorder{broadcaster: b, clock: clock}
}

func (r *eventRecorder) publish(kind events.Kind, res *balances.BalanceReservation, clientOrderID string) {
	r.broadcaster.Publish(events.ReservationEvent{
		EventID:           uuid.NewString(),
		Kind:              kind,
		Timestamp:         r.clock.Now(),
		ReservationID:     int64(res.ID),
		Service:           res.Descriptor.ServiceName,
		ConfigurationKey:  res.Descriptor.ServiceConfigurationKey,
		ExchangeAccountID: res.ExchangeAccountID,
		Pair:              res.Symbol.Pair().String(),
		Side:              res.Side.String(),
		Currency:          res.ReservationCurrencyCode,
		Amount:            res.Amount.String(),
		Unreserved:        res.UnreservedAmount.String(),
		NotApproved:       res.NotApprovedAmount.String(),
		ClientOrderID:     clientOrderID,
	})
}

func (r *eventRecorder) ReservationCreated(res *balances.BalanceReservation) {
	r.publish(events.KindReserved, res, "")
}

func (r *eventRecorder) ReservationApproved(res *balances.BalanceReservation, clientOrderID string) {
	r.publish(events.KindApproved, res, clientOrderID)
}

func (r *eventRecorder) ReservationReleased(res *balances.BalanceReservation, clientOrderID string) {
	r.publish(events.KindUnreserved, res, clientOrderID)
}

func (r *eventRecorder) ReservationClosed(res *balances.BalanceReservation) {
	r.publish(events.KindClosed, res, "")
}
