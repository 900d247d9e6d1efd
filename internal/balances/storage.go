package balances

import (
	"github.com/pkg/errors"
)

// Recorder receives telemetry side effects of reservation lifecycle changes.
// Only the canonical storage instance reports; derived copies are silent so
// speculative replays never double-count observability.
type Recorder interface {
	ReservationCreated(r *BalanceReservation)
	ReservationApproved(r *BalanceReservation, clientOrderID string)
	ReservationReleased(r *BalanceReservation, clientOrderID string)
	ReservationClosed(r *BalanceReservation)
}

// NopRecorder discards all telemetry.
type NopRecorder struct{}

func (NopRecorder) ReservationCreated(*BalanceReservation)          {}
func (NopRecorder) ReservationApproved(*BalanceReservation, string) {}
func (NopRecorder) ReservationReleased(*BalanceReservation, string) {}
func (NopRecorder) ReservationClosed(*BalanceReservation)           {}

// ReservationStorage is the in-memory table of all live reservations. The
// manager is its only writer and guards it with the manager lock; the storage
// itself carries no locking.
type ReservationStorage struct {
	origin       Origin
	recorder     Recorder
	reservations map[ReservationID]*BalanceReservation
}

// NewReservationStorage builds the canonical storage instance.
func NewReservationStorage(recorder Recorder) *ReservationStorage {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &ReservationStorage{
		origin:       OriginCanonical,
		recorder:     recorder,
		reservations: make(map[ReservationID]*BalanceReservation),
	}
}

// Add inserts the reservation, overwriting any prior entry with the same id.
// Callers guarantee id uniqueness; a collision is a programming error.
func (s *ReservationStorage) Add(id ReservationID, r *BalanceReservation) {
	s.reservations[id] = r
	s.recorder.ReservationCreated(r)
}

// Remove deletes the reservation, no-op if absent.
func (s *ReservationStorage) Remove(id ReservationID) {
	r, ok := s.reservations[id]
	if !ok {
		return
	}
	delete(s.reservations, id)
	s.recorder.ReservationClosed(r)
}

// Get returns the stored reservation.
func (s *ReservationStorage) Get(id ReservationID) (*BalanceReservation, bool) {
	r, ok := s.reservations[id]
	return r, ok
}

// GetExpected returns the reservation or fails with ErrMissingReservation.
// Used where the caller has already proven existence and treats absence as a
// fatal invariant violation.
func (s *ReservationStorage) GetExpected(id ReservationID) (*BalanceReservation, error) {
	r, ok := s.reservations[id]
	if !ok {
		return nil, errors.WithMessagef(ErrMissingReservation, "id %d", id)
	}
	return r, nil
}

// All exposes the whole table. Callers must not mutate the returned values.
func (s *ReservationStorage) All() map[ReservationID]*BalanceReservation {
	view := make(map[ReservationID]*BalanceReservation, len(s.reservations))
	for id, r := range s.reservations {
		view[id] = r
	}
	return view
}

// IDs returns the set of live reservation ids.
func (s *ReservationStorage) IDs() []ReservationID {
	ids := make([]ReservationID, 0, len(s.reservations))
	for id := range s.reservations {
		ids = append(ids, id)
	}
	return ids
}

func (s *ReservationStorage) Len() int { return len(s.reservations) }

// Origin reports whether this instance is the canonical table or a derived
// copy produced for speculative evaluation.
func (s *ReservationStorage) Origin() Origin { return s.origin }

// Recorder returns the telemetry sink of this instance. Derived copies always
// return a silent recorder.
func (s *ReservationStorage) Recorder() Recorder { return s.recorder }

// Clone deep-copies the table. The copy is tagged as derived and drops the
// telemetry recorder, which makes it safe to replay operations against it
// without observable side effects.
func (s *ReservationStorage) Clone() *ReservationStorage {
	cp := &ReservationStorage{
		origin:       OriginDerived,
		recorder:     NopRecorder{},
		reservations: make(map[ReservationID]*BalanceReservation, len(s.reservations)),
	}
	for id, r := range s.reservations {
		cp.reservations[id] = r.clone()
	}
	return cp
}
