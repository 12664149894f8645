package realtime

import (
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agentstation/doshii/pkg/errors"
)

// SubscriberID identifies one subscription. It is a base-36 unix-millisecond
// timestamp followed by a base-36 sequence number, unique within a process.
type SubscriberID string

var idSeq atomic.Uint64

func newSubscriberID(now time.Time) SubscriberID {
	seq := idSeq.Add(1)
	return SubscriberID(strconv.FormatInt(now.UnixMilli(), 36) + "-" + strconv.FormatUint(seq, 36))
}

type subscriber struct {
	callback Callback
	events   map[EventType]struct{}
}

// Registry maps subscribers to the events they want and events to the
// subscribers that want them. Both maps change together under one lock:
// an id is in eventSubscribers[e] exactly when e is in that subscriber's
// event set, and no event key maps to an empty list.
type Registry struct {
	mu               sync.RWMutex
	subscribers      map[SubscriberID]*subscriber
	eventSubscribers map[EventType][]SubscriberID
	now              func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		subscribers:      make(map[SubscriberID]*subscriber),
		eventSubscribers: make(map[EventType][]SubscriberID),
		now:              time.Now,
	}
}

// Add registers cb for events and returns the new subscriber's id.
// Duplicate events are collapsed.
func (r *Registry) Add(events []EventType, cb Callback) SubscriberID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := newSubscriberID(r.now())
	sub := &subscriber{
		callback: cb,
		events:   make(map[EventType]struct{}, len(events)),
	}
	for _, e := range events {
		if _, dup := sub.events[e]; dup {
			continue
		}
		sub.events[e] = struct{}{}
		r.eventSubscribers[e] = append(r.eventSubscribers[e], id)
	}
	r.subscribers[id] = sub
	return id
}

// Remove drops id from the given events, or from every event when none are
// given. A subscriber left with no events is deleted.
func (r *Registry) Remove(id SubscriberID, events ...EventType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subscribers[id]
	if !ok {
		return errors.NewSubscriberError(string(id))
	}

	if len(events) == 0 {
		for e := range sub.events {
			r.unlink(e, id)
		}
		delete(r.subscribers, id)
		return nil
	}

	for _, e := range events {
		if _, ok := sub.events[e]; !ok {
			continue
		}
		delete(sub.events, e)
		r.unlink(e, id)
	}
	if len(sub.events) == 0 {
		delete(r.subscribers, id)
	}
	return nil
}

// unlink removes id from one event list, pruning the key when the list
// empties. Callers hold the write lock.
func (r *Registry) unlink(e EventType, id SubscriberID) {
	list := slices.DeleteFunc(r.eventSubscribers[e], func(s SubscriberID) bool { return s == id })
	if len(list) == 0 {
		delete(r.eventSubscribers, e)
		return
	}
	r.eventSubscribers[e] = list
}

// Clear removes every subscriber.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.subscribers)
	clear(r.eventSubscribers)
}

// Len returns the number of subscribers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscribers)
}

// Events returns the events id is subscribed to, sorted by tag.
func (r *Registry) Events(id SubscriberID) ([]EventType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subscribers[id]
	if !ok {
		return nil, false
	}
	events := make([]EventType, 0, len(sub.events))
	for e := range sub.events {
		events = append(events, e)
	}
	slices.Sort(events)
	return events, true
}

// Subscribers returns the ids subscribed to event in subscription order.
func (r *Registry) Subscribers(event EventType) []SubscriberID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.eventSubscribers[event])
}

// targets snapshots the subscriber list for a dispatch pass. A list found
// empty is pruned.
func (r *Registry) targets(event EventType) []SubscriberID {
	r.mu.RLock()
	list, ok := r.eventSubscribers[event]
	if !ok || len(list) > 0 {
		defer r.mu.RUnlock()
		return slices.Clone(list)
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if list, ok := r.eventSubscribers[event]; ok && len(list) == 0 {
		delete(r.eventSubscribers, event)
	}
	return nil
}

// callback returns the callback for id if it is still registered.
func (r *Registry) callback(id SubscriberID) (Callback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subscribers[id]
	if !ok {
		return nil, false
	}
	return sub.callback, true
}
