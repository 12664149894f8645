package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// socketServer is a fake Doshii realtime endpoint. It records every frame
// the client sends and lets the test push frames back.
type socketServer struct {
	*httptest.Server

	upgrader websocket.Upgrader
	upgrades atomic.Int32
	hangups  atomic.Int32
	frames   chan []byte

	// gate, when set, holds the handshake until it is closed.
	gate chan struct{}

	mu    sync.Mutex
	conns []*websocket.Conn
}

func newSocketServer(t *testing.T, opts ...func(*socketServer)) *socketServer {
	t.Helper()
	s := &socketServer{
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		frames:   make(chan []byte, 256),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(func() {
		s.drop()
		s.Close()
	})
	return s
}

func (s *socketServer) handle(w http.ResponseWriter, r *http.Request) {
	if s.gate != nil {
		<-s.gate
	}
	if r.URL.Query().Get("auth") == "" {
		http.Error(w, "missing credential", http.StatusUnauthorized)
		return
	}
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.upgrades.Add(1)
	s.mu.Lock()
	s.conns = append(s.conns, ws)
	s.mu.Unlock()

	defer s.hangups.Add(1)
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		select {
		case s.frames <- data:
		default:
		}
	}
}

// withGate holds every handshake until gate is closed.
func withGate(gate chan struct{}) func(*socketServer) {
	return func(s *socketServer) { s.gate = gate }
}

// socketURL returns the ws:// address with an auth credential.
func (s *socketServer) socketURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http") + "/app/socket?auth=Y2xpZW50"
}

// send writes one text frame on the most recent connection.
func (s *socketServer) send(t *testing.T, frame string) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.conns, "no client connected")
	ws := s.conns[len(s.conns)-1]
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(frame)))
}

// drop closes every server side socket without a close handshake.
func (s *socketServer) drop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ws := range s.conns {
		_ = ws.Close()
	}
}

// nextFrame waits for the next frame sent by the client.
func (s *socketServer) nextFrame(t *testing.T) []byte {
	t.Helper()
	select {
	case f := <-s.frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a client frame")
		return nil
	}
}

const (
	waitFor   = 2 * time.Second
	pollEvery = 5 * time.Millisecond
)
