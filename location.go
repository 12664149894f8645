package doshii

import (
	"context"
	"net/http"

	"github.com/agentstation/utc"
)

// Location is a venue connected to the partner application.
type Location struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	AddressLine1       string        `json:"addressLine1,omitempty"`
	AddressLine2       string        `json:"addressLine2,omitempty"`
	City               string        `json:"city,omitempty"`
	State              string        `json:"state,omitempty"`
	Country            string        `json:"country,omitempty"`
	PostalCode         string        `json:"postalCode,omitempty"`
	PhoneNumber        string        `json:"phoneNumber,omitempty"`
	Latitude           float64       `json:"latitude,omitempty"`
	Longitude          float64       `json:"longitude,omitempty"`
	Timezone           string        `json:"timezone,omitempty"`
	MappedLocationID   string        `json:"mappedLocationId,omitempty"`
	Vendor             string        `json:"vendor,omitempty"`
	ClassificationName string        `json:"classificationName,omitempty"`
	Organisation       *Organisation `json:"organisation,omitempty"`
	UpdatedAt          utc.Time      `json:"updatedAt"`
	CreatedAt          utc.Time      `json:"createdAt"`
}

// Organisation owns one or more locations.
type Organisation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LocationSubscription is the state of the application's subscription to
// a location.
type LocationSubscription struct {
	LocationID string   `json:"locationId"`
	Status     string   `json:"status"`
	UpdatedAt  utc.Time `json:"updatedAt"`
}

// LocationService wraps the locations API.
type LocationService struct {
	service
}

// List returns every location available to the application.
func (s *LocationService) List(ctx context.Context) ([]Location, error) {
	var out []Location
	if err := s.do(ctx, call{method: http.MethodGet, path: "/locations"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one location.
func (s *LocationService) Get(ctx context.Context, locationID string) (*Location, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out Location
	if err := s.do(ctx, call{method: http.MethodGet, path: join("locations", locationID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Subscribe subscribes the application to a location's events.
func (s *LocationService) Subscribe(ctx context.Context, locationID string) (*LocationSubscription, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out LocationSubscription
	if err := s.do(ctx, call{method: http.MethodPost, path: join("locations", locationID, "subscription")}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unsubscribe removes the application's subscription to a location.
func (s *LocationService) Unsubscribe(ctx context.Context, locationID string) (*Message, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out Message
	if err := s.do(ctx, call{method: http.MethodDelete, path: join("locations", locationID, "subscription")}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
