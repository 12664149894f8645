package doshii

import (
	"context"
	"net/http"
	"slices"

	"github.com/agentstation/utc"

	"github.com/agentstation/doshii/pkg/errors"
)

// WebhookEvent is an event a webhook can be registered for.
type WebhookEvent string

// Webhook events.
const (
	WebhookOrderCreated         WebhookEvent = "order_created"
	WebhookOrderUpdated         WebhookEvent = "order_updated"
	WebhookTransactionCreated   WebhookEvent = "transaction_created"
	WebhookTransactionUpdated   WebhookEvent = "transaction_updated"
	WebhookBookingCreated       WebhookEvent = "booking_created"
	WebhookBookingUpdated       WebhookEvent = "booking_updated"
	WebhookBookingDeleted       WebhookEvent = "booking_deleted"
	WebhookCheckinCreated       WebhookEvent = "checkin_created"
	WebhookCheckinUpdated       WebhookEvent = "checkin_updated"
	WebhookCheckinDeleted       WebhookEvent = "checkin_deleted"
	WebhookMemberCreated        WebhookEvent = "member_created"
	WebhookMemberUpdated        WebhookEvent = "member_updated"
	WebhookMemberDeleted        WebhookEvent = "member_deleted"
	WebhookLocationSubscription WebhookEvent = "location_subscription"
	WebhookLocationHoursUpdated WebhookEvent = "location_hours_updated"
	WebhookMenuUpdated          WebhookEvent = "menu_updated"
	WebhookTableCreated         WebhookEvent = "table_created"
	WebhookTableUpdated         WebhookEvent = "table_updated"
	WebhookTableRemoved         WebhookEvent = "table_removed"
)

var webhookEvents = []WebhookEvent{
	WebhookOrderCreated, WebhookOrderUpdated,
	WebhookTransactionCreated, WebhookTransactionUpdated,
	WebhookBookingCreated, WebhookBookingUpdated, WebhookBookingDeleted,
	WebhookCheckinCreated, WebhookCheckinUpdated, WebhookCheckinDeleted,
	WebhookMemberCreated, WebhookMemberUpdated, WebhookMemberDeleted,
	WebhookLocationSubscription, WebhookLocationHoursUpdated,
	WebhookMenuUpdated,
	WebhookTableCreated, WebhookTableUpdated, WebhookTableRemoved,
}

// WebhookEvents returns every webhook event.
func WebhookEvents() []WebhookEvent {
	return slices.Clone(webhookEvents)
}

// Valid reports whether e is a known webhook event.
func (e WebhookEvent) Valid() bool {
	return slices.Contains(webhookEvents, e)
}

// WebhookRegister is the body of a webhook registration.
type WebhookRegister struct {
	Event               WebhookEvent `json:"event"`
	WebhookURL          string       `json:"webhookUrl"`
	AuthenticationKey   string       `json:"authenticationKey,omitempty"`
	AuthenticationToken string       `json:"authenticationToken,omitempty"`
}

// Webhook is a registered webhook.
type Webhook struct {
	WebhookRegister
	UpdatedAt *utc.Time `json:"updatedAt,omitempty"`
	CreatedAt *utc.Time `json:"createdAt,omitempty"`
}

// WebhookService wraps the webhooks API. Webhooks are addressed by event.
type WebhookService struct {
	service
}

// List returns every registered webhook.
func (s *WebhookService) List(ctx context.Context) ([]Webhook, error) {
	var out []Webhook
	if err := s.do(ctx, call{method: http.MethodGet, path: "/webhooks"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the webhook registered for event.
func (s *WebhookService) Get(ctx context.Context, event WebhookEvent) (*Webhook, error) {
	return s.one(ctx, event, http.MethodGet, nil)
}

// Register registers a webhook.
func (s *WebhookService) Register(ctx context.Context, hook *WebhookRegister) (*Webhook, error) {
	if hook == nil {
		return nil, errors.NewValidationError("webhook", nil, "is required")
	}
	if !hook.Event.Valid() {
		return nil, errors.NewValidationError("event", hook.Event, "is not a webhook event")
	}
	var out Webhook
	if err := s.do(ctx, call{method: http.MethodPost, path: "/webhooks", body: hook}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes the webhook registered for event.
func (s *WebhookService) Update(ctx context.Context, event WebhookEvent, hook *WebhookRegister) (*Webhook, error) {
	return s.one(ctx, event, http.MethodPut, hook)
}

// Unregister removes the webhook registered for event.
func (s *WebhookService) Unregister(ctx context.Context, event WebhookEvent) (*Webhook, error) {
	return s.one(ctx, event, http.MethodDelete, nil)
}

func (s *WebhookService) one(ctx context.Context, event WebhookEvent, method string, body any) (*Webhook, error) {
	if !event.Valid() {
		return nil, errors.NewValidationError("event", event, "is not a webhook event")
	}
	var out Webhook
	if err := s.do(ctx, call{method: method, path: join("webhooks", string(event)), body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
