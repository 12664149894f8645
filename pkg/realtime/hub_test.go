package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/doshii/pkg/errors"
	"github.com/agentstation/doshii/pkg/logging"
)

func newTestHub(t *testing.T, srv *socketServer, cfg HubConfig) *Hub {
	t.Helper()
	if cfg.URL == "" {
		cfg.URL = srv.socketURL()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = time.Hour
	}
	h := NewHub(cfg)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

// inbox returns a callback that forwards payloads to a channel.
func inbox() (Callback, chan string) {
	ch := make(chan string, 16)
	return func(p json.RawMessage) { ch <- string(p) }, ch
}

func receive(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for a callback")
		return ""
	}
}

func awaitOpen(t *testing.T, h *Hub) {
	t.Helper()
	require.Eventually(t, func() bool { return h.State() == StateOpen }, waitFor, pollEvery)
}

func TestHubScenario(t *testing.T) {
	srv := newSocketServer(t)
	h := newTestHub(t, srv, HubConfig{})

	cb1, got1 := inbox()
	_, err := h.Subscribe([]EventType{OrderCreated}, cb1)
	require.NoError(t, err)
	awaitOpen(t, h)

	srv.send(t, `{"emit":["order_created",{"id":1}]}`)
	assert.JSONEq(t, `{"id":1}`, receive(t, got1))

	cb2, got2 := inbox()
	id2, err := h.Subscribe([]EventType{OrderCreated, TableCreated}, cb2)
	require.NoError(t, err)
	require.NoError(t, h.Unsubscribe(id2, TableCreated))

	srv.send(t, `{"emit":["table_created",{}]}`)
	srv.send(t, `{"emit":["order_created",{"id":2}]}`)

	assert.JSONEq(t, `{"id":2}`, receive(t, got2))
	assert.JSONEq(t, `{"id":2}`, receive(t, got1))
	assert.Empty(t, got2, "table_created reached an unsubscribed callback")
	assert.Empty(t, got1)
}

func TestHubOpensOnceWhileSubscribed(t *testing.T) {
	srv := newSocketServer(t)
	h := newTestHub(t, srv, HubConfig{})

	for range 3 {
		_, err := h.Subscribe([]EventType{OrderUpdated}, noop)
		require.NoError(t, err)
	}
	awaitOpen(t, h)

	_, err := h.Subscribe([]EventType{BookingCreated}, noop)
	require.NoError(t, err)
	assert.Equal(t, 4, h.SubscriberCount())
	assert.Never(t, func() bool { return srv.upgrades.Load() > 1 }, 100*time.Millisecond, pollEvery)
}

func TestHubClosesLazilyAndReopens(t *testing.T) {
	srv := newSocketServer(t)
	h := newTestHub(t, srv, HubConfig{HeartbeatInterval: 20 * time.Millisecond})

	id, err := h.Subscribe([]EventType{OrderCreated}, noop)
	require.NoError(t, err)
	awaitOpen(t, h)

	require.NoError(t, h.Unsubscribe(id))
	assert.Equal(t, StateOpen, h.State(), "unsubscribe must not close immediately")
	assert.Eventually(t, func() bool { return h.State() == StateClosed }, waitFor, pollEvery)

	cb, got := inbox()
	_, err = h.Subscribe([]EventType{OrderCreated}, cb)
	require.NoError(t, err)
	awaitOpen(t, h)
	assert.Equal(t, int32(2), srv.upgrades.Load())

	srv.send(t, `{"emit":["order_created","fresh"]}`)
	assert.Equal(t, `"fresh"`, receive(t, got))
}

func TestHubSubscribeDuringIdleTick(t *testing.T) {
	srv := newSocketServer(t)
	h := newTestHub(t, srv, HubConfig{})

	// Once armed, the first idle count starts a Subscribe and gives it time
	// to land between the count and the close.
	var armed atomic.Bool
	late := make(chan error, 1)
	h.conn.cfg.Active = func() int {
		n := h.registry.Len()
		if n == 0 && armed.CompareAndSwap(true, false) {
			done := make(chan struct{})
			go func() {
				defer close(done)
				_, err := h.Subscribe([]EventType{OrderUpdated}, noop)
				late <- err
			}()
			select {
			case <-done:
			case <-time.After(50 * time.Millisecond):
			}
		}
		return n
	}

	id, err := h.Subscribe([]EventType{OrderCreated}, noop)
	require.NoError(t, err)
	awaitOpen(t, h)
	require.NoError(t, h.Unsubscribe(id))

	armed.Store(true)
	assert.False(t, h.conn.Tick())
	require.NoError(t, <-late)

	assert.Equal(t, 1, h.SubscriberCount())
	awaitOpen(t, h)
	assert.Eventually(t, func() bool { return srv.upgrades.Load() == 2 }, waitFor, pollEvery)
}

func TestHubClearAll(t *testing.T) {
	srv := newSocketServer(t)
	h := newTestHub(t, srv, HubConfig{})

	cb, got := inbox()
	_, err := h.Subscribe([]EventType{OrderCreated}, cb)
	require.NoError(t, err)
	_, err = h.Subscribe(EventTypes(), cb)
	require.NoError(t, err)
	awaitOpen(t, h)

	h.ClearAll()
	assert.Zero(t, h.SubscriberCount())
	assert.Equal(t, StateOpen, h.State())

	srv.send(t, `{"emit":["order_created",{}]}`)
	srv.send(t, `{"doshii":{"pong":true}}`)
	assert.Never(t, func() bool { return len(got) > 0 }, 100*time.Millisecond, pollEvery)

	assert.False(t, h.conn.Tick())
	assert.Equal(t, StateClosed, h.State())
}

func TestHubPong(t *testing.T) {
	srv := newSocketServer(t)
	h := newTestHub(t, srv, HubConfig{})

	cb, got := inbox()
	_, err := h.Subscribe([]EventType{Pong}, cb)
	require.NoError(t, err)
	awaitOpen(t, h)

	srv.send(t, `{"doshii":{"pong":1700000000000}}`)
	assert.JSONEq(t, `{"doshii":{"pong":1700000000000}}`, receive(t, got))
}

func TestHubCallbackPanicIsolated(t *testing.T) {
	srv := newSocketServer(t)
	tl := logging.NewTestLogger(t)
	h := newTestHub(t, srv, HubConfig{Logger: tl.Logger})

	_, err := h.Subscribe([]EventType{OrderCreated}, func(json.RawMessage) { panic("kaboom") })
	require.NoError(t, err)
	cb, got := inbox()
	_, err = h.Subscribe([]EventType{OrderCreated}, cb)
	require.NoError(t, err)
	awaitOpen(t, h)

	srv.send(t, `{"emit":["order_created",1]}`)
	srv.send(t, `{"emit":["order_created",2]}`)
	assert.Equal(t, "1", receive(t, got))
	assert.Equal(t, "2", receive(t, got))
	assert.Equal(t, StateOpen, h.State())
	assert.True(t, tl.Contains("kaboom"))
}

func TestHubMalformedFrameDropped(t *testing.T) {
	srv := newSocketServer(t)
	tl := logging.NewTestLogger(t)
	h := newTestHub(t, srv, HubConfig{Logger: tl.Logger})

	cb, got := inbox()
	_, err := h.Subscribe([]EventType{OrderCreated}, cb)
	require.NoError(t, err)
	awaitOpen(t, h)

	srv.send(t, `this is not json`)
	srv.send(t, `{"emit":"order_created"}`)
	srv.send(t, `{"emit":["order_created","ok"]}`)

	assert.Equal(t, `"ok"`, receive(t, got))
	assert.Equal(t, StateOpen, h.State())
	tl.AssertContains(t, "Dropping malformed frame")
	tl.AssertContains(t, "emit is not an array")
}

func TestHubSubscribeValidation(t *testing.T) {
	srv := newSocketServer(t)
	h := newTestHub(t, srv, HubConfig{})

	_, err := h.Subscribe([]EventType{OrderCreated}, nil)
	assert.True(t, errors.IsValidationError(err))

	_, err = h.Subscribe(nil, noop)
	assert.True(t, errors.IsValidationError(err))

	_, err = h.Subscribe([]EventType{"ckeckin_updated"}, noop)
	assert.True(t, errors.IsValidationError(err))

	assert.Zero(t, h.SubscriberCount())
	assert.Equal(t, StateClosed, h.State())
	assert.Zero(t, srv.upgrades.Load())
}

func TestHubUnsubscribeUnknown(t *testing.T) {
	srv := newSocketServer(t)
	h := newTestHub(t, srv, HubConfig{})

	err := h.Unsubscribe("never-issued")
	assert.ErrorIs(t, err, errors.ErrInvalidSubscriber)
}

func TestHubOpenFailureIsLogged(t *testing.T) {
	plain := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(plain.Close)
	tl := logging.NewTestLogger(t)
	h := newTestHub(t, nil, HubConfig{
		URL:    "ws" + strings.TrimPrefix(plain.URL, "http") + "?auth=eA==",
		Logger: tl.Logger,
	})

	id, err := h.Subscribe([]EventType{OrderCreated}, noop)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Eventually(t, func() bool { return tl.Contains("Failed to open realtime socket") }, waitFor, pollEvery)
	assert.Equal(t, StateClosed, h.State())
	assert.Equal(t, 1, h.SubscriberCount())
}

func TestHubClose(t *testing.T) {
	srv := newSocketServer(t)
	h := newTestHub(t, srv, HubConfig{})

	_, err := h.Subscribe([]EventType{OrderCreated}, noop)
	require.NoError(t, err)
	require.NoError(t, h.Close())
	assert.Equal(t, StateClosed, h.State())

	_, err = h.Subscribe([]EventType{OrderCreated}, noop)
	assert.ErrorIs(t, err, errors.ErrClosed)
	require.NoError(t, h.Close())
}
