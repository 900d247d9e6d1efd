package balances

import (
	"github.com/shopspring/decimal"

	"github.com/dskrobo/earmark/internal/entity"
)

// marginErrorFactor scales a symbol's amount tick into the margin-of-error
// tolerance: differences below 1% of a tick are rounding noise, not money.
var marginErrorFactor = decimal.New(1, -2)

func amountTolerance(sym entity.Symbol) decimal.Decimal {
	return sym.AmountTick().Mul(marginErrorFactor)
}

// amountsEqual reports whether two amounts are equal within the symbol's
// margin-of-error tolerance. Every "is this complete / effectively zero" check
// in the reservation lifecycle goes through here.
func amountsEqual(sym entity.Symbol, a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(amountTolerance(sym))
}

func amountIsZero(sym entity.Symbol, a decimal.Decimal) bool {
	return amountsEqual(sym, a, decimal.Zero)
}
