package realtime

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/doshii/pkg/constants"
	"github.com/agentstation/doshii/pkg/errors"
	"github.com/agentstation/doshii/pkg/logging"
)

// State is the lifecycle state of a Conn.
type State int32

// Connection states. A closed connection only reopens through Open.
const (
	StateClosed State = iota
	StateOpening
	StateOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// ConnConfig configures a Conn.
type ConnConfig struct {
	// URL is the full socket URL including the auth query credential.
	URL string

	// Dialer opens the socket. Defaults to a proxy-aware dialer with
	// constants.HandshakeTimeout.
	Dialer *websocket.Dialer

	// HeartbeatInterval is the keep-alive period. Defaults to
	// constants.HeartbeatInterval.
	HeartbeatInterval time.Duration

	// Active reports the current subscriber count. A tick that sees fewer
	// than one closes the connection. Nil means always active.
	Active func() int

	// Lock, when set, is held across the idle check of a tick and the close
	// it triggers. Holding it while adding a subscriber and reading State
	// means the subscriber is either counted or sees the connection closed.
	Lock sync.Locker

	// OnFrame receives every inbound frame on the read goroutine.
	OnFrame func(data []byte)

	// Logger defaults to the package logger.
	Logger *zerolog.Logger

	// Now stamps keep-alive frames. Defaults to time.Now.
	Now func() time.Time
}

// Conn manages the single realtime socket: CLOSED to OPENING on Open,
// OPENING to OPEN once the handshake completes, and back to CLOSED on a
// heartbeat tick with no active subscribers, a transport failure or Close.
type Conn struct {
	cfg    ConnConfig
	url    string // URL without credentials, for logs and errors
	logger *zerolog.Logger

	mu    sync.Mutex
	state State
	sess  *session

	wg sync.WaitGroup
}

// session is one physical socket. Teardown runs once per session whichever
// of tick, read error or Close gets there first.
type session struct {
	id      string
	ws      *websocket.Conn
	done    chan struct{}
	once    sync.Once
	writeMu sync.Mutex
	logger  *zerolog.Logger
}

func (s *session) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// NewConn creates a closed connection.
func NewConn(cfg ConnConfig) *Conn {
	if cfg.Dialer == nil {
		cfg.Dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: constants.HandshakeTimeout,
		}
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = constants.HeartbeatInterval
	}
	if cfg.Active == nil {
		cfg.Active = func() int { return 1 }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Conn{
		cfg:    cfg,
		url:    redact(cfg.URL),
		logger: logging.Component(cfg.Logger, "realtime"),
	}
}

// State returns the current lifecycle state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open dials the socket, sends the first keep-alive frame and starts the
// heartbeat and read goroutines. It does nothing unless the connection is
// closed, so at most one socket exists at a time.
func (c *Conn) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateClosed {
		c.mu.Unlock()
		return nil
	}
	s := &session{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
	s.logger = logging.Session(c.logger, s.id)
	c.sess = s
	c.state = StateOpening
	c.mu.Unlock()

	s.logger.Debug().Str("url", c.url).Msg("Opening realtime socket")

	ws, _, err := c.cfg.Dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		terr := errors.NewTransportError("dial", c.url, err)
		c.teardown(s, terr)
		return terr
	}

	c.mu.Lock()
	if c.sess != s {
		// Closed while the handshake was in flight.
		c.mu.Unlock()
		_ = ws.Close()
		s.logger.Debug().Msg("Discarding socket opened after close")
		return nil
	}
	s.ws = ws
	c.state = StateOpen
	c.mu.Unlock()

	s.logger.Info().Str(logging.FieldState, StateOpen.String()).Msg("Realtime socket open")

	if err := c.ping(s); err != nil {
		if s.closed() {
			return nil
		}
		terr := errors.NewTransportError("write", c.url, err)
		c.teardown(s, terr)
		return terr
	}

	c.wg.Add(2)
	go c.heartbeat(s)
	go c.readLoop(s)
	return nil
}

// Tick runs one heartbeat transition and reports whether the heartbeat
// should continue. With no active subscribers it closes the connection;
// otherwise it sends a keep-alive frame.
func (c *Conn) Tick() bool {
	c.mu.Lock()
	s, state := c.sess, c.state
	c.mu.Unlock()
	if s == nil || state != StateOpen {
		return false
	}
	return c.tick(s)
}

func (c *Conn) tick(s *session) bool {
	if s.closed() {
		return false
	}
	if c.idle(s) {
		return false
	}
	if err := c.ping(s); err != nil {
		if s.closed() {
			return false
		}
		terr := errors.NewTransportError("write", c.url, err)
		s.logger.Error().Err(terr).Msg("Keep-alive failed")
		c.teardown(s, terr)
		return false
	}
	return true
}

// idle closes s when no subscriber is active and reports whether it did.
func (c *Conn) idle(s *session) bool {
	if c.cfg.Lock != nil {
		c.cfg.Lock.Lock()
		defer c.cfg.Lock.Unlock()
	}
	if c.cfg.Active() >= 1 {
		return false
	}
	s.logger.Info().Msg("No active subscribers, closing realtime socket")
	c.teardown(s, nil)
	return true
}

// Close tears down the current socket, if any.
func (c *Conn) Close() error {
	c.mu.Lock()
	s := c.sess
	c.mu.Unlock()
	if s != nil {
		c.teardown(s, nil)
	}
	return nil
}

// Wait blocks until the goroutines of every session opened so far have
// exited. It must not be called from OnFrame.
func (c *Conn) Wait() {
	c.wg.Wait()
}

func (c *Conn) ping(s *session) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.ws.SetWriteDeadline(time.Now().Add(constants.WriteWait)); err != nil {
		return err
	}
	if err := s.ws.WriteMessage(websocket.TextMessage, EncodePing(c.cfg.Now())); err != nil {
		return err
	}
	s.logger.Trace().Msg("Keep-alive sent")
	return nil
}

func (c *Conn) heartbeat(s *session) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if !c.tick(s) {
				return
			}
		}
	}
}

func (c *Conn) readLoop(s *session) {
	defer c.wg.Done()

	for {
		_, data, err := s.ws.ReadMessage()
		if err != nil {
			if s.closed() {
				return
			}
			terr := errors.NewTransportError("read", c.url, err)
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn().Err(terr).Msg("Realtime socket closed by server")
			} else {
				s.logger.Error().Err(terr).Msg("Realtime socket failed")
			}
			c.teardown(s, terr)
			return
		}
		if c.cfg.OnFrame != nil {
			c.cfg.OnFrame(data)
		}
	}
}

// teardown closes s exactly once and moves the connection to CLOSED if s is
// still the current session. A nil cause is a local, orderly close.
func (c *Conn) teardown(s *session, cause error) {
	s.once.Do(func() {
		close(s.done)

		c.mu.Lock()
		if c.sess == s {
			c.sess = nil
			c.state = StateClosed
		}
		ws := s.ws
		c.mu.Unlock()

		if ws != nil {
			if cause == nil {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(constants.WriteWait))
			}
			_ = ws.Close()
		}

		event := s.logger.Info()
		if cause != nil {
			event = s.logger.Warn().Err(cause)
		}
		event.Str(logging.FieldState, StateClosed.String()).Msg("Realtime socket closed")
	})
}

// redact strips the query string, which carries the socket credential.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	return u.String()
}
