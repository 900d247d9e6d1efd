package balances

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dskrobo/earmark/internal/entity"
)

// ReservationID is a process-unique identifier of a reservation. Generated
// monotonically at creation, never reused.
type ReservationID int64

// ApprovedPart is a sub-allocation of a reservation bound to one concrete
// client order. It is owned by its parent reservation and cannot outlive it.
type ApprovedPart struct {
	ApproveTime      time.Time
	ClientOrderID    string
	Amount           decimal.Decimal
	IsCanceled       bool
	UnreservedAmount decimal.Decimal
}

func (p *ApprovedPart) clone() *ApprovedPart {
	cp := *p
	return &cp
}

// finished reports whether nothing of this part remains outstanding.
func (p *ApprovedPart) finished(sym entity.Symbol) bool {
	return p.IsCanceled || amountsEqual(sym, p.UnreservedAmount, p.Amount)
}

// BalanceReservation is one ledger row: a scoped, priced, amount-denominated
// earmark of funds, owning zero or more approved parts.
type BalanceReservation struct {
	ID                      ReservationID
	Descriptor              entity.ConfigurationDescriptor
	ExchangeAccountID       string
	Symbol                  entity.Symbol
	Side                    entity.OrderSide
	Price                   decimal.Decimal
	Amount                  decimal.Decimal
	TakenFreeAmount         decimal.Decimal
	Cost                    decimal.Decimal
	ReservationCurrencyCode string
	UnreservedAmount        decimal.Decimal
	NotApprovedAmount       decimal.Decimal

	approvedParts map[string]*ApprovedPart
}

func newReservation(id ReservationID, params entity.ReserveParameters, preset ReservationPreset) *BalanceReservation {
	return &BalanceReservation{
		ID:                      id,
		Descriptor:              params.Descriptor,
		ExchangeAccountID:       params.ExchangeAccountID,
		Symbol:                  params.Symbol,
		Side:                    params.Side,
		Price:                   params.Price,
		Amount:                  params.Amount,
		TakenFreeAmount:         preset.TakenFreeAmount,
		Cost:                    preset.CostInReservationCurrency,
		ReservationCurrencyCode: preset.ReservationCurrencyCode,
		UnreservedAmount:        decimal.Zero,
		NotApprovedAmount:       params.Amount,
		approvedParts:           make(map[string]*ApprovedPart),
	}
}

// BalanceRequest derives the ledger key this reservation debits.
func (r *BalanceReservation) BalanceRequest() entity.BalanceRequest {
	return entity.BalanceRequest{
		Descriptor:        r.Descriptor,
		ExchangeAccountID: r.ExchangeAccountID,
		CurrencyPair:      r.Symbol.Pair(),
		CurrencyCode:      r.ReservationCurrencyCode,
	}
}

// ReserveParameters rebuilds request parameters for the given amount, used
// when re-reserving a residual amount of this reservation.
func (r *BalanceReservation) ReserveParameters(amount decimal.Decimal) entity.ReserveParameters {
	return entity.ReserveParameters{
		Descriptor:        r.Descriptor,
		ExchangeAccountID: r.ExchangeAccountID,
		Symbol:            r.Symbol,
		Side:              r.Side,
		Price:             r.Price,
		Amount:            amount,
	}
}

// Approve binds amount of the not-yet-approved remainder to a client order.
// An amount within margin tolerance of the remainder takes the full remainder
// so no unreservable dust is left behind.
func (r *BalanceReservation) Approve(clientOrderID string, amount decimal.Decimal, now time.Time) error {
	if _, ok := r.approvedParts[clientOrderID]; ok {
		return errors.WithMessagef(ErrDuplicateClientOrder, "%s on reservation %d", clientOrderID, r.ID)
	}
	if amount.GreaterThan(r.NotApprovedAmount.Add(amountTolerance(r.Symbol))) {
		return errors.Errorf("approve %s on reservation %d: amount %s exceeds not approved %s",
			clientOrderID, r.ID, amount, r.NotApprovedAmount)
	}

	if amountsEqual(r.Symbol, amount, r.NotApprovedAmount) {
		amount = r.NotApprovedAmount
	}

	r.approvedParts[clientOrderID] = &ApprovedPart{
		ApproveTime:      now,
		ClientOrderID:    clientOrderID,
		Amount:           amount,
		UnreservedAmount: decimal.Zero,
	}
	r.NotApprovedAmount = r.NotApprovedAmount.Sub(amount)
	if amountIsZero(r.Symbol, r.NotApprovedAmount) {
		r.NotApprovedAmount = decimal.Zero
	}

	return nil
}

// CancelApprovedPart marks the part canceled and returns the amount released
// back to availability (the part's amount minus what fills already released).
func (r *BalanceReservation) CancelApprovedPart(clientOrderID string) (decimal.Decimal, error) {
	part, ok := r.approvedParts[clientOrderID]
	if !ok {
		return decimal.Decimal{}, errors.WithMessagef(ErrUnknownClientOrder, "%s on reservation %d", clientOrderID, r.ID)
	}
	if part.IsCanceled {
		return decimal.Decimal{}, errors.Errorf("client order %s on reservation %d is already canceled", clientOrderID, r.ID)
	}

	remaining := part.Amount.Sub(part.UnreservedAmount)
	if remaining.IsNegative() || amountIsZero(r.Symbol, remaining) {
		remaining = decimal.Zero
	}

	part.IsCanceled = true
	part.UnreservedAmount = part.Amount

	if err := r.addUnreserved(remaining); err != nil {
		return decimal.Decimal{}, err
	}

	return remaining, nil
}

// Unreserve releases amount of the reservation not scoped to any client order.
func (r *BalanceReservation) Unreserve(amount decimal.Decimal) error {
	return r.addUnreserved(amount)
}

// UnreserveForOrder releases amount against the approved part bound to the
// client order, then against the parent reservation.
func (r *BalanceReservation) UnreserveForOrder(clientOrderID string, amount decimal.Decimal) error {
	part, ok := r.approvedParts[clientOrderID]
	if !ok {
		return errors.WithMessagef(ErrUnknownClientOrder, "%s on reservation %d", clientOrderID, r.ID)
	}
	if part.IsCanceled {
		// the remainder of a canceled part was already returned; crediting a
		// late fill again would double-release
		return errors.WithMessagef(ErrOverUnreserve, "client order %s on reservation %d is canceled", clientOrderID, r.ID)
	}

	unreserved := part.UnreservedAmount.Add(amount)
	if unreserved.GreaterThan(part.Amount.Add(amountTolerance(r.Symbol))) {
		return errors.WithMessagef(ErrOverUnreserve, "client order %s on reservation %d: %s of %s already released",
			clientOrderID, r.ID, part.UnreservedAmount, part.Amount)
	}
	if amountsEqual(r.Symbol, unreserved, part.Amount) {
		unreserved = part.Amount
	}

	if err := r.addUnreserved(amount); err != nil {
		return err
	}
	part.UnreservedAmount = unreserved

	return nil
}

func (r *BalanceReservation) addUnreserved(amount decimal.Decimal) error {
	unreserved := r.UnreservedAmount.Add(amount)
	if unreserved.GreaterThan(r.Amount.Add(amountTolerance(r.Symbol))) {
		return errors.WithMessagef(ErrOverUnreserve, "reservation %d: %s of %s already released",
			r.ID, r.UnreservedAmount, r.Amount)
	}
	if amountsEqual(r.Symbol, unreserved, r.Amount) {
		unreserved = r.Amount
	}

	r.UnreservedAmount = unreserved
	return nil
}

// ProportionalCostAmount scales the reservation cost to the given amount:
// cost × amount / reserved amount, in the reservation currency.
func (r *BalanceReservation) ProportionalCostAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if r.Amount.IsZero() {
		if amount.IsZero() {
			return decimal.Zero, nil
		}
		return decimal.Decimal{}, errors.WithMessagef(ErrInvalidProportion,
			"reservation %d: cannot scale amount %s", r.ID, amount)
	}
	return r.Cost.Mul(amount).Div(r.Amount), nil
}

// Closed reports whether everything reserved was released and no approved part
// remains unfinished, both within the margin tolerance.
func (r *BalanceReservation) Closed() bool {
	if !amountsEqual(r.Symbol, r.UnreservedAmount, r.Amount) {
		return false
	}
	for _, part := range r.approvedParts {
		if !part.finished(r.Symbol) {
			return false
		}
	}
	return true
}

// Part returns a copy of the approved part bound to the client order.
func (r *BalanceReservation) Part(clientOrderID string) (ApprovedPart, bool) {
	part, ok := r.approvedParts[clientOrderID]
	if !ok {
		return ApprovedPart{}, false
	}
	return *part, true
}

// ApprovedAmount sums the amounts of non-canceled approved parts.
func (r *BalanceReservation) ApprovedAmount() decimal.Decimal {
	total := decimal.Zero
	for _, part := range r.approvedParts {
		if !part.IsCanceled {
			total = total.Add(part.Amount)
		}
	}
	return total
}

func (r *BalanceReservation) clone() *BalanceReservation {
	cp := *r
	cp.approvedParts = make(map[string]*ApprovedPart, len(r.approvedParts))
	for id, part := range r.approvedParts {
		cp.approvedParts[id] = part.clone()
	}
	return &cp
}
