package dashboard

import (
	"testing"
	"time"

	"capitol/internal/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idleProbe struct{}

func (idleProbe) Read() (float64, float64, error) {
	return 0, 0, nil
}

func newBroadcasterStore() *status.Store {
	return status.New(status.Options{Probe: idleProbe{}})
}

func TestBroadcastDeliversToAllSubscribers(t *testing.T) {
	store := newBroadcasterStore()
	store.RecordCommandSuccess("fund")
	broadcaster := NewBroadcaster(store, time.Second)

	idA, channelA := broadcaster.Subscribe()
	idB, channelB := broadcaster.Subscribe()
	defer broadcaster.Unsubscribe(idA)
	defer broadcaster.Unsubscribe(idB)

	broadcaster.Broadcast()

	for _, channel := range []<-chan status.Snapshot{channelA, channelB} {
		select {
		case snapshot := <-channel:
			require.Len(t, snapshot.Commands, 1)
			assert.Equal(t, "fund", snapshot.Commands[0].Name)
		default:
			t.Fatal("expected a snapshot to be delivered")
		}
	}
}

func TestBroadcastLatestWins(t *testing.T) {
	store := newBroadcasterStore()
	broadcaster := NewBroadcaster(store, time.Second)
	id, channel := broadcaster.Subscribe()
	defer broadcaster.Unsubscribe(id)

	// Two broadcasts without a read in between: the stale one is replaced
	broadcaster.Broadcast()
	store.RecordCommandSuccess("fund")
	broadcaster.Broadcast()

	select {
	case snapshot := <-channel:
		require.Len(t, snapshot.Commands, 1)
	default:
		t.Fatal("expected a snapshot to be delivered")
	}
	select {
	case <-channel:
		t.Fatal("expected only the latest snapshot to be queued")
	default:
	}
}

func TestUnsubscribePrunes(t *testing.T) {
	broadcaster := NewBroadcaster(newBroadcasterStore(), time.Second)
	id, _ := broadcaster.Subscribe()
	require.Equal(t, 1, broadcaster.SubscriberCount())

	broadcaster.Unsubscribe(id)
	assert.Equal(t, 0, broadcaster.SubscriberCount())

	// Broadcasting with nobody listening is a no-op
	broadcaster.Broadcast()
}

func TestDefaultInterval(t *testing.T) {
	broadcaster := NewBroadcaster(newBroadcasterStore(), 0)
	assert.Equal(t, 5*time.Second, broadcaster.Interval())
}
