package balances

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dskrobo/earmark/internal/entity"
)

// AvailableLedger is the sole source of truth for how much is free, keyed by
// configuration descriptor, exchange account and currency.
type AvailableLedger interface {
	GetAmount(req entity.BalanceRequest) decimal.Decimal
	AddAmount(req entity.BalanceRequest, delta decimal.Decimal)
	Clone() AvailableLedger
}

// Ledger is the in-memory available-balance ledger. It is internally
// synchronized so pure pre-computations may read it without the manager lock.
type Ledger struct {
	mu      sync.RWMutex
	amounts map[entity.BalanceRequest]decimal.Decimal
}

func NewLedger() *Ledger {
	return &Ledger{amounts: make(map[entity.BalanceRequest]decimal.Decimal)}
}

func (l *Ledger) GetAmount(req entity.BalanceRequest) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.amounts[req]
}

func (l *Ledger) AddAmount(req entity.BalanceRequest, delta decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.amounts[req] = l.amounts[req].Add(delta)
}

// Clone deep-copies the ledger for snapshot evaluation.
func (l *Ledger) Clone() AvailableLedger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cp := NewLedger()
	for req, amount := range l.amounts {
		cp.amounts[req] = amount
	}
	return cp
}
