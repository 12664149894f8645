package realtime

import (
	"encoding/json"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/doshii/pkg/errors"
)

func noop(json.RawMessage) {}

// requireConsistent checks that both registry maps describe the same
// subscriptions and that no event list is empty or holds duplicates.
func requireConsistent(t *testing.T, r *Registry) {
	t.Helper()
	r.mu.RLock()
	defer r.mu.RUnlock()

	for e, ids := range r.eventSubscribers {
		require.NotEmpty(t, ids, "empty list kept for %s", e)
		seen := make(map[SubscriberID]bool, len(ids))
		for _, id := range ids {
			require.False(t, seen[id], "duplicate %s in %s", id, e)
			seen[id] = true
			sub, ok := r.subscribers[id]
			require.True(t, ok, "%s listed for %s but not registered", id, e)
			_, wants := sub.events[e]
			require.True(t, wants, "%s listed for %s it does not want", id, e)
		}
	}
	for id, sub := range r.subscribers {
		for e := range sub.events {
			require.Contains(t, r.eventSubscribers[e], id, "%s wants %s but is not listed", id, e)
		}
	}
}

func TestRegistryAdd(t *testing.T) {
	r := NewRegistry()

	a := r.Add([]EventType{OrderCreated, TableCreated, OrderCreated}, noop)
	b := r.Add([]EventType{OrderCreated}, noop)
	requireConsistent(t, r)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []SubscriberID{a, b}, r.Subscribers(OrderCreated))
	assert.Equal(t, []SubscriberID{a}, r.Subscribers(TableCreated))

	events, ok := r.Events(a)
	require.True(t, ok)
	assert.Equal(t, []EventType{OrderCreated, TableCreated}, events)
}

func TestRegistryIDsUniqueWithinMillisecond(t *testing.T) {
	r := NewRegistry()
	fixed := time.UnixMilli(1700000000000)
	r.now = func() time.Time { return fixed }

	seen := make(map[SubscriberID]bool)
	for range 1000 {
		id := r.Add([]EventType{OrderCreated}, noop)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Equal(t, 1000, r.Len())
}

func TestRegistryRemove(t *testing.T) {
	t.Run("all events", func(t *testing.T) {
		r := NewRegistry()
		id := r.Add([]EventType{OrderCreated, TableCreated}, noop)

		require.NoError(t, r.Remove(id))
		requireConsistent(t, r)
		assert.Zero(t, r.Len())
		assert.Empty(t, r.Subscribers(OrderCreated))
		assert.Empty(t, r.Subscribers(TableCreated))
	})

	t.Run("subset keeps the rest", func(t *testing.T) {
		r := NewRegistry()
		id := r.Add([]EventType{OrderCreated, TableCreated}, noop)

		require.NoError(t, r.Remove(id, TableCreated))
		requireConsistent(t, r)

		events, ok := r.Events(id)
		require.True(t, ok)
		assert.Equal(t, []EventType{OrderCreated}, events)
		assert.Empty(t, r.Subscribers(TableCreated))
	})

	t.Run("subset covering everything deletes", func(t *testing.T) {
		r := NewRegistry()
		id := r.Add([]EventType{OrderCreated, TableCreated}, noop)

		require.NoError(t, r.Remove(id, TableCreated, OrderCreated, MenuUpdated))
		requireConsistent(t, r)
		_, ok := r.Events(id)
		assert.False(t, ok)
	})

	t.Run("other subscribers untouched", func(t *testing.T) {
		r := NewRegistry()
		a := r.Add([]EventType{OrderCreated}, noop)
		b := r.Add([]EventType{OrderCreated}, noop)
		c := r.Add([]EventType{OrderCreated}, noop)

		require.NoError(t, r.Remove(b))
		assert.Equal(t, []SubscriberID{a, c}, r.Subscribers(OrderCreated))
	})

	t.Run("unknown id", func(t *testing.T) {
		r := NewRegistry()
		err := r.Remove("never-issued")
		require.Error(t, err)
		assert.True(t, errors.IsInvalidSubscriber(err))

		var subErr *errors.SubscriberError
		require.ErrorAs(t, err, &subErr)
		assert.Equal(t, "never-issued", subErr.ID)
	})

	t.Run("removed id is unknown", func(t *testing.T) {
		r := NewRegistry()
		id := r.Add([]EventType{OrderCreated}, noop)
		require.NoError(t, r.Remove(id))
		assert.ErrorIs(t, r.Remove(id), errors.ErrInvalidSubscriber)
	})
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry()
	r.Add([]EventType{OrderCreated}, noop)
	r.Add([]EventType{TableCreated, Pong}, noop)

	r.Clear()
	requireConsistent(t, r)
	assert.Zero(t, r.Len())
	assert.Empty(t, r.Subscribers(OrderCreated))
}

func TestRegistryTargetsPrunesEmptyList(t *testing.T) {
	r := NewRegistry()
	r.eventSubscribers[OrderCreated] = []SubscriberID{}

	assert.Empty(t, r.targets(OrderCreated))
	_, ok := r.eventSubscribers[OrderCreated]
	assert.False(t, ok)
	assert.Nil(t, r.targets(MenuUpdated))
}

func TestRegistryInvariantRandomised(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	pool := []EventType{OrderCreated, OrderUpdated, TableCreated, TableRemoved, Pong}

	pick := func() []EventType {
		var events []EventType
		for _, e := range pool {
			if rng.IntN(3) == 0 {
				events = append(events, e)
			}
		}
		return events
	}

	r := NewRegistry()
	var live []SubscriberID
	for step := range 2000 {
		switch op := rng.IntN(10); {
		case op < 4 || len(live) == 0:
			events := pick()
			if len(events) == 0 {
				events = pool[:1]
			}
			live = append(live, r.Add(events, noop))
		case op < 6:
			i := rng.IntN(len(live))
			require.NoError(t, r.Remove(live[i]))
			live = slices.Delete(live, i, i+1)
		case op < 9:
			i := rng.IntN(len(live))
			require.NoError(t, r.Remove(live[i], pick()...))
			if _, ok := r.Events(live[i]); !ok {
				live = slices.Delete(live, i, i+1)
			}
		default:
			if rng.IntN(20) == 0 {
				r.Clear()
				live = live[:0]
			} else {
				assert.Error(t, r.Remove("unknown"))
			}
		}
		requireConsistent(t, r)
		require.Equal(t, len(live), r.Len(), "step %d", step)
	}
}
