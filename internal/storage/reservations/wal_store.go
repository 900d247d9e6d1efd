package reservations

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/dskrobo/earmark/internal/events"
)

const (
	defaultJournalDir   = "./wal/reservations"
	journalSegmentLimit = 1000
	journalMaxSegments  = 100
	journalKeyPrefix    = "reservation_event_"
)

// WALStore persists reservation lifecycle events in a WAL. It is the event
// recorder the surrounding system invokes; the reservation engine itself never
// writes to disk.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed journal under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultJournalDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "journal_",
		SegmentThreshold: journalSegmentLimit,
		MaxSegments:      journalMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init reservation journal WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends the event to the journal.
func (s *WALStore) Save(ev events.ReservationEvent) error {
	if s == nil || s.wal == nil {
		return errors.New("reservation journal is not initialized")
	}
	if ev.Kind == "" {
		return errors.New("reservation event kind is required")
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal reservation event")
	}

	key := journalKeyPrefix + string(ev.Kind)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// Record bundles an event with the journal index it originated from.
type Record struct {
	Index uint64
	Event events.ReservationEvent
}

// EventsAfter returns all reservation events written after the provided index.
func (s *WALStore) EventsAfter(index uint64) ([]Record, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("reservation journal is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]Record, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, journalKeyPrefix) {
			continue
		}
		var ev events.ReservationEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, errors.Wrap(err, "decode reservation event")
		}
		records = append(records, Record{Index: idx, Event: ev})
	}

	return records, nil
}

// CurrentIndex returns the latest journal index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("reservation journal is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
