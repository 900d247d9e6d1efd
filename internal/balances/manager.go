package balances

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dskrobo/earmark/internal/entity"
)

// Manager validates availability, creates, mutates and destroys reservations,
// and keeps the storage and the available-balance ledger consistent. All
// mutations run under one lock: the net effect of concurrent calls equals some
// total order of those calls, which the financial invariants require.
type Manager struct {
	mu      sync.Mutex
	storage *ReservationStorage
	ledger  AvailableLedger
	policy  ReservationCurrencyPolicy
	clock   Clock
	log     *zap.Logger
	nextID  ReservationID
}

// NewManager builds the canonical manager. A nil recorder, clock or logger
// falls back to a silent default; a nil policy falls back to
// DefaultReservationCurrency.
func NewManager(ledger AvailableLedger, policy ReservationCurrencyPolicy, clock Clock, recorder Recorder, log *zap.Logger) *Manager {
	if policy == nil {
		policy = DefaultReservationCurrency
	}
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Manager{
		storage: NewReservationStorage(recorder),
		ledger:  ledger,
		policy:  policy,
		clock:   clock,
		log:     log,
	}
}

// balanceRequest derives the ledger key the reservation for params would debit.
func (m *Manager) balanceRequest(params entity.ReserveParameters) entity.BalanceRequest {
	return entity.BalanceRequest{
		Descriptor:        params.Descriptor,
		ExchangeAccountID: params.ExchangeAccountID,
		CurrencyPair:      params.Symbol.Pair(),
		CurrencyCode:      m.policy(params.Symbol, params.Side),
	}
}

// TryReserve earmarks funds for a prospective order. It returns the fresh
// reservation id on success, or ok=false without mutating anything when the
// available balance does not cover the converted amount. Insufficient balance
// is an expected, frequent outcome, not an error.
//
// The preset is computed before taking the lock; only the availability check
// and the mutation run inside the critical section.
func (m *Manager) TryReserve(params entity.ReserveParameters) (ReservationID, bool, error) {
	req := m.balanceRequest(params)

	preset, err := ComputePreset(params, m.policy, m.ledger.GetAmount(req))
	if err != nil {
		return 0, false, errors.Wrapf(err, "compute preset for %s %s", params.Side, params.Symbol.Pair().String())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	available := m.ledger.GetAmount(req)
	if preset.AmountInReservationCurrency.GreaterThan(available) {
		m.log.Debug("reservation rejected: insufficient balance",
			zap.String("descriptor", params.Descriptor.String()),
			zap.String("pair", params.Symbol.Pair().String()),
			zap.String("needed", preset.AmountInReservationCurrency.String()),
			zap.String("available", available.String()))
		return 0, false, nil
	}

	m.nextID++
	id := m.nextID
	r := newReservation(id, params, preset)

	m.ledger.AddAmount(req, preset.AmountInReservationCurrency.Neg())
	m.storage.Add(id, r)

	m.log.Info("funds reserved",
		zap.Int64("reservation_id", int64(id)),
		zap.String("descriptor", params.Descriptor.String()),
		zap.String("exchange", params.ExchangeAccountID),
		zap.String("pair", params.Symbol.Pair().String()),
		zap.String("side", params.Side.String()),
		zap.String("amount", params.Amount.String()),
		zap.String("reserved", preset.AmountInReservationCurrency.String()),
		zap.String("currency", preset.ReservationCurrencyCode))

	return id, true, nil
}

// Approve binds amount of the reservation to a concrete client order.
func (m *Manager) Approve(id ReservationID, clientOrderID string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.storage.GetExpected(id)
	if err != nil {
		return err
	}

	if err := r.Approve(clientOrderID, amount, m.clock.Now()); err != nil {
		return err
	}

	m.storage.Recorder().ReservationApproved(r, clientOrderID)
	m.log.Info("reservation approved",
		zap.Int64("reservation_id", int64(id)),
		zap.String("client_order_id", clientOrderID),
		zap.String("amount", amount.String()),
		zap.String("not_approved", r.NotApprovedAmount.String()))

	return nil
}

// Unreserve releases amount of the reservation back to availability.
func (m *Manager) Unreserve(id ReservationID, amount decimal.Decimal) error {
	return m.unreserve(id, "", amount)
}

// UnreserveForOrder releases amount against the approved part bound to the
// client order, e.g. on a partial fill.
func (m *Manager) UnreserveForOrder(id ReservationID, clientOrderID string, amount decimal.Decimal) error {
	return m.unreserve(id, clientOrderID, amount)
}

func (m *Manager) unreserve(id ReservationID, clientOrderID string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.storage.GetExpected(id)
	if err != nil {
		return err
	}

	credit, err := r.ProportionalCostAmount(amount)
	if err != nil {
		return err
	}

	if clientOrderID == "" {
		err = r.Unreserve(amount)
	} else {
		err = r.UnreserveForOrder(clientOrderID, amount)
	}
	if err != nil {
		return err
	}

	m.ledger.AddAmount(r.BalanceRequest(), credit)
	m.storage.Recorder().ReservationReleased(r, clientOrderID)

	m.log.Info("funds unreserved",
		zap.Int64("reservation_id", int64(id)),
		zap.String("client_order_id", clientOrderID),
		zap.String("amount", amount.String()),
		zap.String("credited", credit.String()))

	m.removeIfClosed(r)
	return nil
}

// CancelApprovedPart cancels the part bound to the client order and returns
// its outstanding remainder to availability.
func (m *Manager) CancelApprovedPart(id ReservationID, clientOrderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.storage.GetExpected(id)
	if err != nil {
		return err
	}

	remaining, err := r.CancelApprovedPart(clientOrderID)
	if err != nil {
		return err
	}

	credit, err := r.ProportionalCostAmount(remaining)
	if err != nil {
		return err
	}

	m.ledger.AddAmount(r.BalanceRequest(), credit)
	m.storage.Recorder().ReservationReleased(r, clientOrderID)

	m.log.Info("approved part canceled",
		zap.Int64("reservation_id", int64(id)),
		zap.String("client_order_id", clientOrderID),
		zap.String("returned", remaining.String()),
		zap.String("credited", credit.String()))

	m.removeIfClosed(r)
	return nil
}

// removeIfClosed drops the reservation from storage once everything reserved
// was returned. Callers hold the manager lock.
func (m *Manager) removeIfClosed(r *BalanceReservation) {
	if !r.Closed() {
		return
	}

	m.storage.Remove(r.ID)
	m.log.Info("reservation closed",
		zap.Int64("reservation_id", int64(r.ID)),
		zap.String("descriptor", r.Descriptor.String()),
		zap.String("amount", r.Amount.String()))
}

// GetReservation returns a deep copy of the stored reservation, safe to
// inspect without the lock.
func (m *Manager) GetReservation(id ReservationID) (*BalanceReservation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.storage.Get(id)
	if !ok {
		return nil, false
	}
	return r.clone(), true
}

// ReservationIDs returns the ids of all live reservations.
func (m *Manager) ReservationIDs() []ReservationID {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.storage.IDs()
}

// AvailableAmount reads the ledger cell for the given key.
func (m *Manager) AvailableAmount(req entity.BalanceRequest) decimal.Decimal {
	return m.ledger.GetAmount(req)
}
