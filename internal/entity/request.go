package entity

import "github.com/shopspring/decimal"

// ReserveParameters is the input contract for requesting a new reservation.
type ReserveParameters struct {
	Descriptor        ConfigurationDescriptor
	ExchangeAccountID string
	Symbol            Symbol
	Side              OrderSide
	Price             decimal.Decimal
	Amount            decimal.Decimal
}

// WithAmount returns a copy of the parameters with a different amount. Used
// when re-reserving a residual amount of an existing reservation.
func (p ReserveParameters) WithAmount(amount decimal.Decimal) ReserveParameters {
	p.Amount = amount
	return p
}

// BalanceRequest identifies one cell of the available-balance ledger. It is a
// pure lookup key: comparable and usable as a map key.
type BalanceRequest struct {
	Descriptor        ConfigurationDescriptor
	ExchangeAccountID string
	CurrencyPair      Pair
	CurrencyCode      string
}
