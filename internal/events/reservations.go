package events

import (
	"sync"
	"time"
)

// Kind classifies a reservation lifecycle transition.
type Kind string

const (
	KindReserved     Kind = "reserved"
	KindApproved     Kind = "approved"
	KindUnreserved   Kind = "unreserved"
	KindPartCanceled Kind = "part_canceled"
	KindClosed       Kind = "closed"
)

// ReservationEvent describes one transition of a reservation. Amount fields
// are strings to avoid float precision issues when the event is journaled or
// consumed by external recorders.
type ReservationEvent struct {
	EventID           string    `json:"event_id"`
	Kind              Kind      `json:"kind"`
	Timestamp         time.Time `json:"ts"`
	ReservationID     int64     `json:"reservation_id"`
	Service           string    `json:"service"`
	ConfigurationKey  string    `json:"configuration_key"`
	ExchangeAccountID string    `json:"exchange_account_id"`
	Pair              string    `json:"pair"`
	Side              string    `json:"side"`
	Currency          string    `json:"currency"`
	Amount            string    `json:"amount"`
	Unreserved        string    `json:"unreserved,omitempty"`
	NotApproved       string    `json:"not_approved,omitempty"`
	ClientOrderID     string    `json:"client_order_id,omitempty"`
}

// ReservationBroadcaster fans out reservation events to all subscribers via
// buffered channels, dropping events for readers that fall behind.
type ReservationBroadcaster struct {
	mu     sync.RWMutex
	subs   map[chan ReservationEvent]struct{}
	buffer int
}

// NewReservationBroadcaster creates a broadcaster with the given
// per-subscriber buffer.
func NewReservationBroadcaster(buffer int) *ReservationBroadcaster {
	if buffer < 1 {
		buffer = 64
	}
	return &ReservationBroadcaster{
		subs:   make(map[chan ReservationEvent]struct{}),
		buffer: buffer,
	}
}

// Publish sends the event to all subscribers, dropping if a reader is slow.
func (b *ReservationBroadcaster) Publish(ev ReservationEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// drop slow consumer
		}
	}
}

// Subscribe returns a channel that receives events until Unsubscribe is called.
func (b *ReservationBroadcaster) Subscribe() chan ReservationEvent {
	ch := make(chan ReservationEvent, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *ReservationBroadcaster) Unsubscribe(ch chan ReservationEvent) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}
