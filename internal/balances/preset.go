package balances

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dskrobo/earmark/internal/entity"
)

// ReservationCurrencyPolicy picks the currency actually debited as collateral
// for a symbol/side pair. It may differ from the currency the order amount is
// denominated in.
type ReservationCurrencyPolicy func(sym entity.Symbol, side entity.OrderSide) string

// DefaultReservationCurrency reserves the margin currency for derivative
// symbols; for spot a buy reserves the quote currency and a sell reserves the
// amount (base) currency.
func DefaultReservationCurrency(sym entity.Symbol, side entity.OrderSide) string {
	if mc := sym.MarginCurrency(); mc != "" {
		return mc
	}
	if side == entity.SideBuy {
		return sym.Pair().Quote
	}
	return sym.AmountCurrency()
}

// ReservationPreset holds the currency-converted amounts and costs needed to
// create a reservation. It is produced fresh for every attempt, never mutated
// after construction and consumed exactly once.
type ReservationPreset struct {
	ReservationCurrencyCode     string
	AmountInReservationCurrency decimal.Decimal
	TakenFreeAmount             decimal.Decimal // in the amount currency
	CostInReservationCurrency   decimal.Decimal
	CostInAmountCurrency        decimal.Decimal
}

// ComputePreset derives the preset for the given parameters. It is a pure
// function: no state is mutated and it may be called speculatively any number
// of times, including outside the manager lock. The available balance in the
// reservation currency is passed in by the caller.
func ComputePreset(params entity.ReserveParameters, policy ReservationCurrencyPolicy, available decimal.Decimal) (ReservationPreset, error) {
	if policy == nil {
		policy = DefaultReservationCurrency
	}

	sym := params.Symbol
	amountCurrency := sym.AmountCurrency()
	reservationCurrency := policy(sym, params.Side)

	amountInReservation := params.Amount
	if reservationCurrency != amountCurrency {
		converted, err := sym.ConvertAmount(amountCurrency, params.Amount, params.Price)
		if err != nil {
			return ReservationPreset{}, errors.WithMessagef(ErrConversionUnavailable,
				"%s into %s for %s: %v", amountCurrency, reservationCurrency, sym.Pair().String(), err)
		}
		amountInReservation = converted
	}

	// Raw cost lands in the quote currency, then is expressed in both the
	// amount currency and the reservation currency.
	quote := sym.Pair().Quote
	rawCost := params.Price.Mul(params.Amount)

	costInAmount := rawCost
	if amountCurrency != quote {
		converted, err := sym.ConvertAmount(quote, rawCost, params.Price)
		if err != nil {
			return ReservationPreset{}, errors.WithMessagef(ErrConversionUnavailable,
				"cost %s into %s for %s: %v", quote, amountCurrency, sym.Pair().String(), err)
		}
		costInAmount = converted
	}

	costInReservation := rawCost
	if reservationCurrency != quote {
		converted, err := sym.ConvertAmount(quote, rawCost, params.Price)
		if err != nil {
			return ReservationPreset{}, errors.WithMessagef(ErrConversionUnavailable,
				"cost %s into %s for %s: %v", quote, reservationCurrency, sym.Pair().String(), err)
		}
		costInReservation = converted
	}

	takenFree, err := takenFreeAmount(params, reservationCurrency, available)
	if err != nil {
		return ReservationPreset{}, err
	}

	return ReservationPreset{
		ReservationCurrencyCode:     reservationCurrency,
		AmountInReservationCurrency: amountInReservation,
		TakenFreeAmount:             takenFree,
		CostInReservationCurrency:   costInReservation,
		CostInAmountCurrency:        costInAmount,
	}, nil
}

// takenFreeAmount is the portion of the requested amount that can be satisfied
// from the currently free balance, expressed in the amount currency.
func takenFreeAmount(params entity.ReserveParameters, reservationCurrency string, available decimal.Decimal) (decimal.Decimal, error) {
	if available.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}

	sym := params.Symbol
	freeInAmount := available
	if reservationCurrency != sym.AmountCurrency() {
		converted, err := sym.ConvertAmount(reservationCurrency, available, params.Price)
		if err != nil {
			return decimal.Decimal{}, errors.WithMessagef(ErrConversionUnavailable,
				"free %s into %s for %s: %v", reservationCurrency, sym.AmountCurrency(), sym.Pair().String(), err)
		}
		freeInAmount = converted
	}

	if freeInAmount.GreaterThan(params.Amount) {
		return params.Amount, nil
	}
	return freeInAmount, nil
}
