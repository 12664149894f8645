package doshii

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/doshii/pkg/constants"
	"github.com/agentstation/doshii/pkg/errors"
)

// options configures a Client.
type options struct {
	sandbox           bool
	apiVersion        int
	appID             string
	logger            *zerolog.Logger
	httpClient        *http.Client
	baseURL           string
	socketURL         string
	heartbeatInterval time.Duration
	dialer            *websocket.Dialer
	now               func() time.Time
}

func defaultOptions() *options {
	return &options{
		apiVersion:        constants.DefaultAPIVersion,
		heartbeatInterval: constants.HeartbeatInterval,
		now:               time.Now,
	}
}

// Option is a function that configures a Client.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// restURL returns the REST base URL for the configured environment.
func (o *options) restURL() string {
	if o.baseURL != "" {
		return o.baseURL
	}
	if o.sandbox {
		return fmt.Sprintf(constants.SandboxAPIHost, o.apiVersion)
	}
	return fmt.Sprintf(constants.LiveAPIHost, o.apiVersion)
}

// socketBase returns the realtime endpoint without credentials.
func (o *options) socketBase() string {
	if o.socketURL != "" {
		return o.socketURL
	}
	if o.sandbox {
		return constants.SandboxSocketURL
	}
	return constants.LiveSocketURL
}

// WithSandbox selects the sandbox environment for REST and realtime.
func WithSandbox(enabled bool) Option {
	return func(o *options) error {
		o.sandbox = enabled
		return nil
	}
}

// WithAPIVersion sets the partner API version.
func WithAPIVersion(version int) Option {
	return func(o *options) error {
		if version < 1 {
			return errors.NewValidationError("apiVersion", version, "must be positive")
		}
		o.apiVersion = version
		return nil
	}
}

// WithAppID sets the application id used to derive the bulk data API key.
func WithAppID(appID string) Option {
	return func(o *options) error {
		o.appID = appID
		return nil
	}
}

// WithLogger sets the logger for the client and its realtime hub.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithHTTPClient replaces the HTTP client used for REST calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return &errors.ValidationError{Field: "httpClient", Message: "cannot be nil"}
		}
		o.httpClient = hc
		return nil
	}
}

// WithBaseURL overrides the REST base URL, including the version path.
func WithBaseURL(url string) Option {
	return func(o *options) error {
		o.baseURL = url
		return nil
	}
}

// WithSocketURL overrides the realtime endpoint. The auth credential is
// appended to it.
func WithSocketURL(url string) Option {
	return func(o *options) error {
		o.socketURL = url
		return nil
	}
}

// WithHeartbeatInterval sets the keep-alive period of the realtime socket.
func WithHeartbeatInterval(interval time.Duration) Option {
	return func(o *options) error {
		if interval <= 0 {
			return errors.NewValidationError("heartbeatInterval", interval, "must be positive")
		}
		o.heartbeatInterval = interval
		return nil
	}
}

// WithDialer replaces the websocket dialer used for the realtime socket.
func WithDialer(dialer *websocket.Dialer) Option {
	return func(o *options) error {
		o.dialer = dialer
		return nil
	}
}
