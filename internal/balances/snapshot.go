package balances

import "go.uber.org/zap"

// Origin distinguishes the canonical engine state from derived copies made for
// speculative evaluation. A tag instead of a bare bool so additional derived
// flavors can be introduced without re-auditing every telemetry call site.
type Origin int

const (
	OriginCanonical Origin = iota
	OriginDerived
)

func (o Origin) String() string {
	switch o {
	case OriginCanonical:
		return "canonical"
	case OriginDerived:
		return "derived"
	default:
		return "unknown"
	}
}

// Snapshot produces a full deep copy of the manager state (storage + ledger)
// tagged as derived. Callers replay operations against the copy to answer
// "could I reserve X" questions, then discard it; the canonical manager is
// never touched and telemetry is recorded exactly once, on the canonical
// instance. Only the momentary lock taken here is shared with live traffic;
// the replay itself is lock-free with respect to the canonical manager.
func (m *Manager) Snapshot() *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &Manager{
		storage: m.storage.Clone(),
		ledger:  m.ledger.Clone(),
		policy:  m.policy,
		clock:   m.clock,
		log:     zap.NewNop(),
		nextID:  m.nextID,
	}
}

// Origin reports whether this manager owns the canonical state.
func (m *Manager) Origin() Origin {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.storage.Origin()
}
