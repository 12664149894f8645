// Package transport sends authenticated requests to the Doshii partner API.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/doshii/pkg/constants"
	"github.com/agentstation/doshii/pkg/errors"
	"github.com/agentstation/doshii/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http    *http.Client
	auth    Authenticator
	baseURL string
	logger  *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.Component(logger, "transport")
	}
}

// New creates a new transport client for baseURL with the specified authenticator.
func New(baseURL string, auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		auth:    auth,
		baseURL: baseURL,
		logger:  logging.Component(nil, "transport"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do signs and sends r, decoding a JSON response body into out when out is
// non-nil.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	req, err := r.build(ctx, c.baseURL)
	if err != nil {
		return err
	}

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.auth.Apply(req); err != nil {
		return err
	}

	log := c.logger
	if loc := req.Header.Get(constants.HeaderLocationID); loc != "" {
		l := log.With().Str(logging.FieldLocation, loc).Logger()
		log = &l
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("endpoint", r.Endpoint()).Msg("Partner API request failed")
		return errors.WrapResource("send", "request", r.Endpoint(), err)
	}
	log.Debug().
		Str("endpoint", r.Endpoint()).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Partner API request")

	return DecodeResponse(resp, r.Endpoint(), out, log)
}
