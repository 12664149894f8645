package doshii

import (
	"context"
	"net/http"

	"github.com/agentstation/utc"
)

// Booking is a table reservation at a location.
type Booking struct {
	ID         string    `json:"id,omitempty"`
	LocationID string    `json:"locationId,omitempty"`
	Status     string    `json:"status,omitempty"`
	TableNames []string  `json:"tableNames,omitempty"`
	Date       *utc.Time `json:"date,omitempty"`
	Covers     string    `json:"covers,omitempty"`
	Ref        string    `json:"ref,omitempty"`
	Consumer   *Consumer `json:"consumer,omitempty"`
	CheckinID  string    `json:"checkinId,omitempty"`
	App        string    `json:"app,omitempty"`
	Version    string    `json:"version,omitempty"`
	UpdatedAt  *utc.Time `json:"updatedAt,omitempty"`
	CreatedAt  *utc.Time `json:"createdAt,omitempty"`
}

// BookingService wraps the bookings API.
type BookingService struct {
	service
}

// List returns the bookings of a location matching opts.
func (s *BookingService) List(ctx context.Context, locationID string, opts *ListOptions) ([]Booking, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out []Booking
	err := s.do(ctx, call{method: http.MethodGet, path: "/bookings", location: locationID, query: opts.values()}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one booking.
func (s *BookingService) Get(ctx context.Context, locationID, bookingID string) (*Booking, error) {
	return s.one(ctx, locationID, bookingID, http.MethodGet, nil)
}

// Create books a table.
func (s *BookingService) Create(ctx context.Context, locationID string, booking *Booking) (*Booking, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out Booking
	if err := s.do(ctx, call{method: http.MethodPost, path: "/bookings", location: locationID, body: booking}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes a booking.
func (s *BookingService) Update(ctx context.Context, locationID, bookingID string, booking *Booking) (*Booking, error) {
	return s.one(ctx, locationID, bookingID, http.MethodPut, booking)
}

// Delete cancels a booking.
func (s *BookingService) Delete(ctx context.Context, locationID, bookingID string) (*Booking, error) {
	return s.one(ctx, locationID, bookingID, http.MethodDelete, nil)
}

// Checkin seats a booking, creating its checkin.
func (s *BookingService) Checkin(ctx context.Context, locationID, bookingID string) (*Checkin, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	if err := required("bookingID", bookingID); err != nil {
		return nil, err
	}
	var out Checkin
	err := s.do(ctx, call{method: http.MethodPost, path: join("bookings", bookingID, "checkin"), location: locationID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BookingService) one(ctx context.Context, locationID, bookingID, method string, body any) (*Booking, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	if err := required("bookingID", bookingID); err != nil {
		return nil, err
	}
	var out Booking
	err := s.do(ctx, call{method: method, path: join("bookings", bookingID), location: locationID, body: body}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
