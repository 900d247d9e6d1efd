package funding

import (
	"context"

	"github.com/shopspring/decimal"
)

// Source reports free (spendable) balances per currency code for one exchange
// account. Sources are read-only: the reservation ledger stays the single
// source of truth for availability, sources only seed it and audit drift.
type Source interface {
	Name() string
	FreeBalances(ctx context.Context) (map[string]decimal.Decimal, error)
}
