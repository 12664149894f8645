// Package doshii is a client SDK for the Doshii partner platform.
//
// A Client wraps the partner REST API (locations, orders, devices,
// transactions, bookings, tables, menus, loyalty, checkins and webhooks)
// and a realtime event channel carried over one shared websocket.
//
// Example usage:
//
//	client, err := doshii.New(clientID, clientSecret, doshii.WithSandbox(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// REST
//	orders, err := client.Orders.List(ctx, locationID, nil)
//
//	// Realtime: the socket opens with the first subscriber and closes on
//	// the first heartbeat after the last one leaves.
//	id, err := client.Subscribe([]realtime.EventType{realtime.OrderCreated}, func(p json.RawMessage) {
//	    fmt.Println(string(p))
//	})
//	...
//	err = client.Unsubscribe(id)
package doshii

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/agentstation/doshii/internal/transport"
	"github.com/agentstation/doshii/pkg/constants"
	"github.com/agentstation/doshii/pkg/errors"
	"github.com/agentstation/doshii/pkg/logging"
	"github.com/agentstation/doshii/pkg/realtime"
)

// Compile-time interface check to ensure proper implementation.
var _ Realtime = (*Client)(nil)

// Realtime is the event subscription surface of a Client.
type Realtime interface {
	Subscribe(events []realtime.EventType, cb realtime.Callback) (realtime.SubscriberID, error)
	Unsubscribe(id realtime.SubscriberID, events ...realtime.EventType) error
	ClearAll()
}

// Client is the Doshii partner API client.
type Client struct {
	Locations    *LocationService
	Orders       *OrderService
	Devices      *DeviceService
	Transactions *TransactionService
	Bookings     *BookingService
	Tables       *TableService
	Menu         *MenuService
	Loyalty      *LoyaltyService
	Checkins     *CheckinService
	Webhooks     *WebhookService

	options  *options
	clientID string
	secret   string
	api      *transport.Client
	hub      *realtime.Hub
	logger   *zerolog.Logger
}

// New creates a client for the given partner credentials.
func New(clientID, clientSecret string, opts ...Option) (*Client, error) {
	if clientID == "" {
		return nil, errors.NewValidationError("clientID", clientID, "is required")
	}
	if clientSecret == "" {
		return nil, errors.NewValidationError("clientSecret", "", "is required")
	}

	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &Client{
		options:  o,
		clientID: clientID,
		secret:   clientSecret,
		logger:   logging.Component(o.logger, "doshii"),
	}

	transportOpts := []transport.Option{transport.WithLogger(o.logger)}
	if o.httpClient != nil {
		transportOpts = append(transportOpts, transport.WithHTTPClient(o.httpClient))
	}
	c.api = transport.New(o.restURL(), &transport.JWTAuth{
		ClientID: clientID,
		Secret:   clientSecret,
		Now:      o.now,
	}, transportOpts...)

	c.hub = realtime.NewHub(realtime.HubConfig{
		URL:               c.SocketURL(),
		Dialer:            o.dialer,
		HeartbeatInterval: o.heartbeatInterval,
		Now:               o.now,
		Logger:            o.logger,
	})

	base := service{api: c.api}
	c.Locations = &LocationService{base}
	c.Orders = &OrderService{base}
	c.Devices = &DeviceService{base}
	c.Transactions = &TransactionService{base}
	c.Bookings = &BookingService{base}
	c.Tables = &TableService{base}
	c.Menu = &MenuService{base}
	c.Loyalty = &LoyaltyService{base}
	c.Checkins = &CheckinService{base}
	c.Webhooks = &WebhookService{base}

	c.logger.Debug().
		Str("base_url", c.api.BaseURL()).
		Bool("sandbox", o.sandbox).
		Msg("Doshii client created")
	return c, nil
}

// BaseURL returns the REST base URL in use.
func (c *Client) BaseURL() string {
	return c.api.BaseURL()
}

// SocketURL returns the realtime endpoint with the client credential: the
// base64 client id in the auth query parameter.
func (c *Client) SocketURL() string {
	base := c.options.socketBase()
	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + constants.SocketAuthParam + "=" + url.QueryEscape(socketCredential(c.clientID))
	}
	q := u.Query()
	q.Set(constants.SocketAuthParam, socketCredential(c.clientID))
	u.RawQuery = q.Encode()
	return u.String()
}

func socketCredential(clientID string) string {
	return base64.StdEncoding.EncodeToString([]byte(clientID))
}

// Subscribe registers cb for the given realtime events. The first
// subscriber opens the shared socket in the background.
func (c *Client) Subscribe(events []realtime.EventType, cb realtime.Callback) (realtime.SubscriberID, error) {
	return c.hub.Subscribe(events, cb)
}

// Unsubscribe removes a subscriber from the given events, or from all of
// them when none are given. Unknown ids return errors.ErrInvalidSubscriber.
func (c *Client) Unsubscribe(id realtime.SubscriberID, events ...realtime.EventType) error {
	return c.hub.Unsubscribe(id, events...)
}

// ClearAll removes every realtime subscriber.
func (c *Client) ClearAll() {
	c.hub.ClearAll()
}

// RealtimeState returns the state of the realtime socket.
func (c *Client) RealtimeState() realtime.State {
	return c.hub.State()
}

// Close shuts the realtime socket down. The REST services stay usable.
func (c *Client) Close() error {
	return c.hub.Close()
}

// RejectionCode describes why an order or transaction was rejected.
type RejectionCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Entity      string `json:"entity,omitempty"`
}

// RejectionCodes lists all rejection codes, or the single code given.
func (c *Client) RejectionCodes(ctx context.Context, code string) ([]RejectionCode, error) {
	if code != "" {
		var rc RejectionCode
		if err := c.api.Do(ctx, transport.Request{Method: http.MethodGet, Path: "/rejection_codes/" + url.PathEscape(code)}, &rc); err != nil {
			return nil, err
		}
		return []RejectionCode{rc}, nil
	}
	var codes []RejectionCode
	if err := c.api.Do(ctx, transport.Request{Method: http.MethodGet, Path: "/rejection_codes"}, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}
