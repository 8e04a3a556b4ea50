package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"capitol/internal/status"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Broadcaster pushes store snapshots to every subscribed connection on a
// fixed interval. Delivery is at most once, latest wins: a subscriber that
// is not keeping up loses the stale snapshot, nothing is queued or resent
type Broadcaster struct {
	store    *status.Store
	interval time.Duration

	mu          sync.Mutex
	subscribers map[uuid.UUID]chan status.Snapshot
}

func NewBroadcaster(store *status.Store, interval time.Duration) *Broadcaster {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Broadcaster{
		store:       store,
		interval:    interval,
		subscribers: map[uuid.UUID]chan status.Snapshot{},
	}
}

func (b *Broadcaster) Interval() time.Duration {
	return b.interval
}

// Subscribe registers a new sink and returns its id and channel.
// The caller must Unsubscribe with the same id when the connection goes away
func (b *Broadcaster) Subscribe() (uuid.UUID, <-chan status.Snapshot) {
	id := uuid.New()
	channel := make(chan status.Snapshot, 1)
	b.mu.Lock()
	b.subscribers[id] = channel
	b.mu.Unlock()
	log.Debug().Msg(fmt.Sprintf("Dashboard subscriber %s connected", id))
	return id, channel
}

func (b *Broadcaster) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	delete(b.subscribers, id)
	b.mu.Unlock()
	log.Debug().Msg(fmt.Sprintf("Dashboard subscriber %s pruned", id))
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Run broadcasts until the context is cancelled
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Broadcast()
		}
	}
}

// Broadcast takes one snapshot and offers it to every subscriber
func (b *Broadcaster) Broadcast() {
	snapshot := b.store.GetStatus()

	// Snapshot the subscriber set so Unsubscribe stays safe during the fan-out
	b.mu.Lock()
	sinks := make([]chan status.Snapshot, 0, len(b.subscribers))
	for _, channel := range b.subscribers {
		sinks = append(sinks, channel)
	}
	b.mu.Unlock()

	for _, sink := range sinks {
		// Replace a stale undelivered snapshot with the fresh one
		select {
		case <-sink:
		default:
		}
		select {
		case sink <- snapshot:
		default:
		}
	}
}
