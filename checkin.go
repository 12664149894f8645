package doshii

import (
	"context"
	"net/http"

	"github.com/agentstation/utc"
)

// Checkin is a party seated at one or more tables.
type Checkin struct {
	ID          string    `json:"id,omitempty"`
	LocationID  string    `json:"locationId,omitempty"`
	Status      string    `json:"status,omitempty"`
	Ref         string    `json:"ref,omitempty"`
	TableNames  []string  `json:"tableNames,omitempty"`
	Covers      string    `json:"covers,omitempty"`
	Consumer    *Consumer `json:"consumer,omitempty"`
	CompletedAt *utc.Time `json:"completedAt,omitempty"`
	Version     string    `json:"version,omitempty"`
	UpdatedAt   *utc.Time `json:"updatedAt,omitempty"`
	CreatedAt   *utc.Time `json:"createdAt,omitempty"`
}

// CheckinService wraps the checkins API.
type CheckinService struct {
	service
}

// List returns the checkins of a location matching opts. A nil opts sends
// no filters.
func (s *CheckinService) List(ctx context.Context, locationID string, opts *ListOptions) ([]Checkin, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out []Checkin
	err := s.do(ctx, call{method: http.MethodGet, path: "/checkins", location: locationID, query: opts.values()}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one checkin.
func (s *CheckinService) Get(ctx context.Context, locationID, checkinID string) (*Checkin, error) {
	return s.one(ctx, locationID, checkinID, http.MethodGet, nil)
}

// Orders returns the orders placed against a checkin.
func (s *CheckinService) Orders(ctx context.Context, locationID, checkinID string) ([]Order, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	if err := required("checkinID", checkinID); err != nil {
		return nil, err
	}
	var out []Order
	err := s.do(ctx, call{method: http.MethodGet, path: join("checkins", checkinID, "orders"), location: locationID}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create opens a checkin.
func (s *CheckinService) Create(ctx context.Context, locationID string, checkin *Checkin) (*Checkin, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out Checkin
	if err := s.do(ctx, call{method: http.MethodPost, path: "/checkins", location: locationID, body: checkin}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes a checkin.
func (s *CheckinService) Update(ctx context.Context, locationID, checkinID string, checkin *Checkin) (*Checkin, error) {
	return s.one(ctx, locationID, checkinID, http.MethodPut, checkin)
}

func (s *CheckinService) one(ctx context.Context, locationID, checkinID, method string, body any) (*Checkin, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	if err := required("checkinID", checkinID); err != nil {
		return nil, err
	}
	var out Checkin
	err := s.do(ctx, call{method: method, path: join("checkins", checkinID), location: locationID, body: body}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
