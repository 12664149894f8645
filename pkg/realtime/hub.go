package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/doshii/pkg/constants"
	"github.com/agentstation/doshii/pkg/errors"
	"github.com/agentstation/doshii/pkg/logging"
)

// HubConfig configures a Hub.
type HubConfig struct {
	// URL is the full socket URL including the auth query credential.
	URL string

	// Dialer, HeartbeatInterval and Now are passed to the Conn.
	Dialer            *websocket.Dialer
	HeartbeatInterval time.Duration
	Now               func() time.Time

	Logger *zerolog.Logger
}

// Hub owns the subscription registry and the shared connection. The
// connection opens when a subscriber arrives while it is closed, and closes
// on the first heartbeat tick that finds no subscribers. mu serialises
// Subscribe with that idle check so no subscriber is left without a socket.
type Hub struct {
	registry   *Registry
	dispatcher *Dispatcher
	conn       *Conn
	logger     *zerolog.Logger

	mu      sync.Mutex
	closed  bool
	opening sync.WaitGroup
}

// NewHub creates a hub with no subscribers and a closed connection.
func NewHub(cfg HubConfig) *Hub {
	logger := logging.Component(cfg.Logger, "realtime")
	registry := NewRegistry()
	h := &Hub{
		registry:   registry,
		dispatcher: NewDispatcher(registry, cfg.Logger),
		logger:     logger,
	}
	h.conn = NewConn(ConnConfig{
		URL:               cfg.URL,
		Dialer:            cfg.Dialer,
		HeartbeatInterval: cfg.HeartbeatInterval,
		Active:            registry.Len,
		Lock:              &h.mu,
		OnFrame:           h.handleFrame,
		Logger:            cfg.Logger,
		Now:               cfg.Now,
	})
	return h
}

// Subscribe registers cb for events and makes sure the connection is open
// or opening. Connection failures are logged, never returned.
func (h *Hub) Subscribe(events []EventType, cb Callback) (SubscriberID, error) {
	if cb == nil {
		return "", errors.NewValidationError("callback", nil, "callback is required")
	}
	if len(events) == 0 {
		return "", errors.NewValidationError("events", events, "at least one event is required")
	}
	for _, e := range events {
		if !e.Valid() {
			return "", errors.NewValidationError("events", e, "unknown event type")
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return "", errors.ErrClosed
	}

	id := h.registry.Add(events, cb)
	logging.Subscriber(h.logger, string(id), "").Debug().
		Interface("events", events).
		Msg("Subscriber added")

	if h.conn.State() == StateClosed {
		h.opening.Add(1)
		go h.open()
	}
	return id, nil
}

func (h *Hub) open() {
	defer h.opening.Done()

	ctx, cancel := context.WithTimeout(context.Background(), constants.HandshakeTimeout)
	defer cancel()
	if err := h.conn.Open(ctx); err != nil {
		h.logger.Error().Err(err).Msg("Failed to open realtime socket")
	}
}

// Unsubscribe removes id from events, or from everything when no events are
// given. It returns an error matching errors.ErrInvalidSubscriber for an id
// that is not registered. The connection is left to close on the next tick.
func (h *Hub) Unsubscribe(id SubscriberID, events ...EventType) error {
	if err := h.registry.Remove(id, events...); err != nil {
		return err
	}
	logging.Subscriber(h.logger, string(id), "").Debug().
		Interface("events", events).
		Msg("Subscriber removed")
	return nil
}

// ClearAll removes every subscriber. The connection is left to close on
// the next tick.
func (h *Hub) ClearAll() {
	h.registry.Clear()
	h.logger.Debug().Msg("All subscribers removed")
}

// SubscriberCount returns the number of registered subscribers.
func (h *Hub) SubscriberCount() int {
	return h.registry.Len()
}

// State returns the connection state.
func (h *Hub) State() State {
	return h.conn.State()
}

// Close stops accepting subscribers, closes the connection and waits for
// its goroutines to exit. It must not be called from a Callback.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	h.opening.Wait()
	err := h.conn.Close()
	h.conn.Wait()
	return err
}

func (h *Hub) handleFrame(data []byte) {
	event, payload, err := DecodeFrame(data)
	if err != nil {
		h.logger.Error().Err(err).Str("frame", string(truncate(data))).Msg("Dropping malformed frame")
		return
	}
	n := h.dispatcher.Dispatch(event, payload)
	h.logger.Trace().Str(logging.FieldEvent, string(event)).Int("delivered", n).Msg("Event dispatched")
}

func truncate(data []byte) []byte {
	const maxLogged = 256
	if len(data) > maxLogged {
		return data[:maxLogged]
	}
	return data
}
