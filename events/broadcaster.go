// Package events fans live notifications (new purchases, leaderboard snapshots)
// out to Server-Sent Event subscribers.
package events

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/greengauge/greengauge-go/logging"
)

const subscriberBuffer = 32

type subscriber struct {
	ch      chan Event
	dropped atomic.Int64
}

// Broadcaster manages SSE subscribers and fans events out to them.
// Publishing never blocks: a subscriber whose buffer is full misses the event.
type Broadcaster struct {
	mu      sync.RWMutex
	subs    map[string]*subscriber
	closed  bool
	counter atomic.Uint64
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[string]*subscriber)}
}

// Subscribe registers a subscriber and returns its id and event channel.
// After Close the returned channel is already closed.
func (b *Broadcaster) Subscribe() (string, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}
	if b.closed {
		close(sub.ch)
		return id, sub.ch
	}
	b.subs[id] = sub
	logging.Debugf("event subscriber %s connected (%d total)", id, len(b.subs))
	return id, sub.ch
}

// Unsubscribe removes the subscriber and closes its channel. Unknown ids are ignored.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[id]
	if !ok {
		return
	}
	close(sub.ch)
	delete(b.subs, id)
	if n := sub.dropped.Load(); n > 0 {
		logging.Warnf("event subscriber %s left after missing %d events", id, n)
	}
}

// Publish encodes payload and delivers it to every subscriber.
func (b *Broadcaster) Publish(name string, payload any) {
	event, err := NewEvent(name, payload)
	if err != nil {
		logging.Errorf("dropping event: %v", err)
		return
	}
	b.Broadcast(event)
}

// Broadcast delivers event to every subscriber without blocking and returns
// how many received it. The event gets the next sequence id if it has none.
func (b *Broadcaster) Broadcast(event Event) int {
	if event.ID == "" {
		event.ID = strconv.FormatUint(b.counter.Add(1), 10)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, sub := range b.subs {
		select {
		case sub.ch <- event:
			delivered++
		default:
			sub.dropped.Add(1)
		}
	}
	return delivered
}

// Subscribers returns the number of connected subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close disconnects every subscriber. Later subscribers get a closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
	b.closed = true
}
