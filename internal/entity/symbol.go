package entity

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Symbol is the price-conversion capability of a trading instrument. Given a
// price it converts an amount expressed in one currency of the pair into the
// other. Implementations must be deterministic for the same inputs.
type Symbol interface {
	Pair() Pair
	// AmountCurrency is the currency order sizes are denominated in.
	AmountCurrency() string
	// MarginCurrency is the collateral currency for derivative instruments,
	// empty for spot.
	MarginCurrency() string
	// ConvertAmount converts amount denominated in fromCurrency into the other
	// currency of the pair at the given price.
	ConvertAmount(fromCurrency string, amount, atPrice decimal.Decimal) (decimal.Decimal, error)
	// AmountTick is the smallest representable amount increment.
	AmountTick() decimal.Decimal
	// MinAmount returns the minimal order amount at the given price,
	// false when the instrument defines none.
	MinAmount(price decimal.Decimal) (decimal.Decimal, bool)
}

// SymbolInfo is immutable instrument metadata shared between reservations.
type SymbolInfo struct {
	pair           Pair
	amountTick     decimal.Decimal
	minAmount      decimal.Decimal // in amount (base) currency, zero if unset
	minCost        decimal.Decimal // in quote currency, zero if unset
	marginCurrency string
}

// NewSymbolInfo validates and builds instrument metadata. A derivative symbol
// carries a non-empty marginCurrency matching one side of the pair.
func NewSymbolInfo(pair Pair, amountTick, minAmount, minCost decimal.Decimal, marginCurrency string) (*SymbolInfo, error) {
	if pair.Base == "" || pair.Quote == "" {
		return nil, errors.Errorf("incomplete pair %q", pair.String())
	}
	if !amountTick.IsPositive() {
		return nil, errors.Errorf("amount tick must be positive, got %s for %s", amountTick, pair.String())
	}
	if marginCurrency != "" && marginCurrency != pair.Base && marginCurrency != pair.Quote {
		return nil, errors.Errorf("margin currency %s is not a side of pair %s", marginCurrency, pair.String())
	}

	return &SymbolInfo{
		pair:           pair,
		amountTick:     amountTick,
		minAmount:      minAmount,
		minCost:        minCost,
		marginCurrency: marginCurrency,
	}, nil
}

func (s *SymbolInfo) Pair() Pair { return s.pair }

func (s *SymbolInfo) AmountCurrency() string { return s.pair.Base }

func (s *SymbolInfo) MarginCurrency() string { return s.marginCurrency }

func (s *SymbolInfo) AmountTick() decimal.Decimal { return s.amountTick }

// ConvertAmount converts base amount into quote at the price or quote amount
// into base. The price must be positive, otherwise no rate exists.
func (s *SymbolInfo) ConvertAmount(fromCurrency string, amount, atPrice decimal.Decimal) (decimal.Decimal, error) {
	if !atPrice.IsPositive() {
		return decimal.Decimal{}, errors.Errorf("no conversion rate for %s at price %s", s.pair.String(), atPrice)
	}

	switch fromCurrency {
	case s.pair.Base:
		return amount.Mul(atPrice), nil
	case s.pair.Quote:
		return amount.Div(atPrice), nil
	default:
		return decimal.Decimal{}, errors.Errorf("currency %s is not a side of pair %s", fromCurrency, s.pair.String())
	}
}

// MinAmount reports the minimal order amount in the amount currency. When only
// a minimal cost is configured it is converted at the given price.
func (s *SymbolInfo) MinAmount(price decimal.Decimal) (decimal.Decimal, bool) {
	if s.minAmount.IsPositive() {
		return s.minAmount, true
	}
	if s.minCost.IsPositive() && price.IsPositive() {
		return s.minCost.Div(price), true
	}
	return decimal.Decimal{}, false
}
