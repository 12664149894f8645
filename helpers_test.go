package doshii

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentstation/doshii/pkg/logging"
)

// partnerServer is a fake partner REST API. It records the last request
// and answers with a canned status and body.
type partnerServer struct {
	*httptest.Server

	mu     sync.Mutex
	status int
	body   string
	last   *http.Request
	data   []byte
	count  int
}

func newPartnerServer(t *testing.T) *partnerServer {
	t.Helper()
	s := &partnerServer{status: http.StatusOK, body: `{}`}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.last, s.data = r, data
		s.count++
		status, body := s.status, s.body
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

// respond sets the answer for the following requests.
func (s *partnerServer) respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status, s.body = status, body
}

// request returns the last request and its body.
func (s *partnerServer) request(t *testing.T) (*http.Request, []byte) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotNil(t, s.last, "no request received")
	return s.last, s.data
}

func (s *partnerServer) requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// newTestClient returns a sandbox client whose REST calls hit srv.
func newTestClient(t *testing.T, srv *partnerServer, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithSandbox(true),
		WithBaseURL(srv.URL + "/partner/v3"),
		WithLogger(logging.NewNopLogger()),
	}, opts...)
	c, err := New("some23Clients30edID", "su234perDu[erse-898cret-09", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}
