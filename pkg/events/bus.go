// Package events provides the in-process publish/subscribe bus that carries
// engine notifications to the API layer, the journal, and websocket clients.
// Events are emitted only after an operation has fully committed.
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event is one engine notification.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
	EmittedAt  time.Time         `json:"emitted_at"`
}

// Attribute returns the named attribute or the empty string.
func (e Event) Attribute(key string) string {
	return e.Attributes[key]
}

// Subscription is one consumer's channel on the bus.
type Subscription struct {
	id  uint64
	ch  chan Event
	bus *Bus

	closeOnce sync.Once
}

// Events returns the channel events are delivered on. The channel is closed
// when the subscription or the bus is closed.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close detaches the subscription from the bus.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s)
}

// Bus fans events out to all live subscriptions. Delivery is best-effort:
// a subscriber whose buffer is full misses the event rather than blocking
// the publisher.
type Bus struct {
	mu      sync.RWMutex
	subs    map[uint64]*Subscription
	nextID  uint64
	closed  bool
	dropped atomic.Uint64
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]*Subscription)}
}

// Subscribe registers a new consumer with the given channel buffer.
func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 64
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &Subscription{id: b.nextID, ch: make(chan Event, buffer), bus: b}
	if b.closed {
		close(sub.ch)
		return sub
	}
	b.subs[sub.id] = sub
	return sub
}

// Publish delivers evt to every subscriber without blocking.
func (b *Bus) Publish(evt Event) {
	if evt.EmittedAt.IsZero() {
		evt.EmittedAt = time.Now().UTC()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, sub := range b.subs {
		select {
		case sub.ch <- evt:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped returns how many deliveries were skipped due to full buffers.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Close shuts the bus down and closes every subscription channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		sub.closeOnce.Do(func() { close(sub.ch) })
		delete(b.subs, id)
	}
}

func (b *Bus) unsubscribe(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[s.id]; !ok {
		return
	}
	delete(b.subs, s.id)
	s.closeOnce.Do(func() { close(s.ch) })
}
