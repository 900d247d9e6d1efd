package balances

import "github.com/pkg/errors"

var (
	// ErrMissingReservation is returned when a caller references a reservation
	// id absent from storage. Callers reaching this have already violated an
	// invariant and must not proceed silently.
	ErrMissingReservation = errors.New("reservation not found")

	// ErrUnknownClientOrder is returned when an operation is scoped to a client
	// order id that has no approved part in the reservation.
	ErrUnknownClientOrder = errors.New("no approved part for client order")

	// ErrDuplicateClientOrder is returned when the same client order id is
	// approved against a reservation twice.
	ErrDuplicateClientOrder = errors.New("client order already approved")

	// ErrInvalidProportion is returned when a non-zero amount is scaled against
	// a zero-sized reservation.
	ErrInvalidProportion = errors.New("no per-unit cost for zero-sized reservation")

	// ErrOverUnreserve is returned when a release would push the unreserved
	// amount beyond the reserved amount outside the margin tolerance.
	ErrOverUnreserve = errors.New("unreserve exceeds outstanding amount")

	// ErrConversionUnavailable is returned when the symbol cannot express a
	// rate between the two currencies involved.
	ErrConversionUnavailable = errors.New("currency conversion unavailable")
)
