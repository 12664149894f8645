package doshii

import (
	"context"
	"net/http"
	"strings"

	"github.com/agentstation/utc"
)

// OrderStatus is the lifecycle status of an order.
type OrderStatus string

// Order statuses.
const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusAccepted       OrderStatus = "accepted"
	OrderStatusRejected       OrderStatus = "rejected"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusVenueCancelled OrderStatus = "venue_cancelled"
	OrderStatusComplete       OrderStatus = "complete"
)

// OrderType is how the order is fulfilled.
type OrderType string

// Order types.
const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
	OrderTypeDineIn   OrderType = "dinein"
)

// Order is a POS order.
type Order struct {
	ID                string        `json:"id,omitempty"`
	LocationID        string        `json:"locationId,omitempty"`
	Status            OrderStatus   `json:"status,omitempty"`
	Type              OrderType     `json:"type,omitempty"`
	ExternalOrderRef  string        `json:"externalOrderRef,omitempty"`
	CheckinID         string        `json:"checkinId,omitempty"`
	ManuallyProcessed bool          `json:"manuallyProcessed,omitempty"`
	Notes             string        `json:"notes,omitempty"`
	RequiredAt        *utc.Time     `json:"requiredAt,omitempty"`
	AvailableEta      *utc.Time     `json:"availableEta,omitempty"`
	Items             []OrderItem   `json:"items,omitempty"`
	Surcounts         []Surcount    `json:"surcounts,omitempty"`
	Taxes             []Tax         `json:"taxes,omitempty"`
	Consumer          *Consumer     `json:"consumer,omitempty"`
	Transactions      []Transaction `json:"transactions,omitempty"`
	RejectionCode     string        `json:"rejectionCode,omitempty"`
	RejectionReason   string        `json:"rejectionReason,omitempty"`
	Version           string        `json:"version,omitempty"`
	UpdatedAt         *utc.Time     `json:"updatedAt,omitempty"`
	CreatedAt         *utc.Time     `json:"createdAt,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	PosID                string       `json:"posId,omitempty"`
	Name                 string       `json:"name"`
	Description          string       `json:"description,omitempty"`
	Quantity             int          `json:"quantity"`
	UnitPrice            string       `json:"unitPrice"`
	TotalBeforeSurcounts string       `json:"totalBeforeSurcounts,omitempty"`
	TotalAfterSurcounts  string       `json:"totalAfterSurcounts,omitempty"`
	Tags                 []string     `json:"tags,omitempty"`
	Options              []ItemOption `json:"options,omitempty"`
	Surcounts            []Surcount   `json:"surcounts,omitempty"`
}

// ItemOption groups the variants chosen for an item.
type ItemOption struct {
	PosID    string        `json:"posId,omitempty"`
	Name     string        `json:"name"`
	Variants []ItemVariant `json:"variants,omitempty"`
}

// ItemVariant is one chosen variant of an option.
type ItemVariant struct {
	PosID string `json:"posId,omitempty"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Surcount is a surcharge (positive) or discount (negative).
type Surcount struct {
	PosID  string `json:"posId,omitempty"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Amount string `json:"amount"`
	Value  string `json:"value"`
}

// Tax is a tax line applied to an order.
type Tax struct {
	PosID    string `json:"posId,omitempty"`
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	TaxType  string `json:"taxType,omitempty"`
	Value    string `json:"value"`
	Included bool   `json:"included,omitempty"`
}

// Consumer is the person the order is for.
type Consumer struct {
	Name    string   `json:"name,omitempty"`
	Email   string   `json:"email,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Address *Address `json:"address,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}

// Address is a postal address.
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// LogEntry is one audit log record of an order or transaction.
type LogEntry struct {
	ID          string   `json:"logId,omitempty"`
	Action      []string `json:"action,omitempty"`
	Performer   string   `json:"performer,omitempty"`
	AppID       string   `json:"appId,omitempty"`
	AppName     string   `json:"appName,omitempty"`
	DeviceRef   string   `json:"deviceRef,omitempty"`
	DeviceName  string   `json:"deviceName,omitempty"`
	Area        string   `json:"area,omitempty"`
	PerformedAt utc.Time `json:"performedAt"`
}

// OrderListOptions filters Orders.List.
type OrderListOptions struct {
	ListOptions
	Status []OrderStatus
}

// OrderService wraps the orders API. Every call is scoped to a location.
type OrderService struct {
	service
}

// List returns the orders of a location.
func (s *OrderService) List(ctx context.Context, locationID string, opts *OrderListOptions) ([]Order, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var base *ListOptions
	if opts != nil {
		base = &opts.ListOptions
	}
	query := base.values()
	if opts != nil && len(opts.Status) > 0 {
		statuses := make([]string, len(opts.Status))
		for i, st := range opts.Status {
			statuses[i] = string(st)
		}
		query.Set("status", strings.Join(statuses, ","))
	}
	var out []Order
	err := s.do(ctx, call{method: http.MethodGet, path: "/orders", location: locationID, query: query}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one order.
func (s *OrderService) Get(ctx context.Context, locationID, orderID string) (*Order, error) {
	return s.one(ctx, locationID, orderID, http.MethodGet, nil)
}

// Create submits a new order to the location's POS.
func (s *OrderService) Create(ctx context.Context, locationID string, order *Order) (*Order, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out Order
	if err := s.do(ctx, call{method: http.MethodPost, path: "/orders", location: locationID, body: order}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes an existing order. The order's Version must match the
// current version held by Doshii.
func (s *OrderService) Update(ctx context.Context, locationID, orderID string, order *Order) (*Order, error) {
	return s.one(ctx, locationID, orderID, http.MethodPut, order)
}

// Preprocess asks the POS to validate and price an order without
// creating it.
func (s *OrderService) Preprocess(ctx context.Context, locationID string, order *Order) (*Order, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out Order
	err := s.do(ctx, call{method: http.MethodPost, path: "/orders/preprocess", location: locationID, body: order}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logs returns the audit log of an order.
func (s *OrderService) Logs(ctx context.Context, locationID, orderID string) ([]LogEntry, error) {
	if err := required("orderID", orderID); err != nil {
		return nil, err
	}
	var out []LogEntry
	if err := s.do(ctx, call{method: http.MethodGet, path: join("orders", orderID, "logs"), location: locationID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Transactions returns the transactions recorded against an order.
func (s *OrderService) Transactions(ctx context.Context, locationID, orderID string) ([]Transaction, error) {
	if err := required("orderID", orderID); err != nil {
		return nil, err
	}
	var out []Transaction
	err := s.do(ctx, call{method: http.MethodGet, path: join("orders", orderID, "transactions"), location: locationID}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTransaction records a payment against an order.
func (s *OrderService) CreateTransaction(ctx context.Context, locationID, orderID string, txn *Transaction) (*Transaction, error) {
	if err := required("orderID", orderID); err != nil {
		return nil, err
	}
	var out Transaction
	err := s.do(ctx, call{method: http.MethodPost, path: join("orders", orderID, "transactions"), location: locationID, body: txn}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *OrderService) one(ctx context.Context, locationID, orderID, method string, body any) (*Order, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	if err := required("orderID", orderID); err != nil {
		return nil, err
	}
	var out Order
	if err := s.do(ctx, call{method: method, path: join("orders", orderID), location: locationID, body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
