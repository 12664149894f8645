package doshii

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/agentstation/utc"
)

// List is a string list that the API sometimes returns as a single
// comma separated string. It always encodes as a JSON array.
type List []string

// UnmarshalJSON accepts either a JSON array or a comma separated string.
func (l *List) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = splitList(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

func splitList(s string) List {
	if strings.TrimSpace(s) == "" {
		return List{}
	}
	parts := strings.Split(s, ",")
	out := make(List, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Device channels.
const (
	ChannelPayAtTable   = "Pay@Table"
	ChannelOrderAhead   = "Order ahead"
	ChannelReservations = "Reservations"
	ChannelLoyalty      = "Loyalty"
	ChannelPIP          = "PIP"
	ChannelMAR          = "MAR"
	ChannelResources    = "Resources"
	ChannelGiftCards    = "GiftCards"
)

// DeviceRegister is the body of a device registration.
type DeviceRegister struct {
	Name        string `json:"name"`
	Ref         string `json:"ref"`
	Events      List   `json:"events"`
	Terminals   List   `json:"terminals"`
	Channels    List   `json:"channels"`
	LocationIDs List   `json:"locationIds"`
}

// DeviceUpdate is the body of a device update.
type DeviceUpdate struct {
	DeviceRegister
	DoshiiID string `json:"doshiiId"`
	Version  string `json:"version"`
}

// Device is a registered device.
type Device struct {
	DeviceRegister
	DoshiiID  string   `json:"doshiiId"`
	Version   string   `json:"version"`
	UpdatedAt utc.Time `json:"updatedAt"`
	CreatedAt utc.Time `json:"createdAt"`
}

// DeviceService wraps the devices API.
type DeviceService struct {
	service
}

// List returns every device registered for the application.
func (s *DeviceService) List(ctx context.Context) ([]Device, error) {
	var out []Device
	if err := s.do(ctx, call{method: http.MethodGet, path: "/devices"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one device by its hashed id.
func (s *DeviceService) Get(ctx context.Context, deviceID string) (*Device, error) {
	if err := required("deviceID", deviceID); err != nil {
		return nil, err
	}
	var out Device
	if err := s.do(ctx, call{method: http.MethodGet, path: join("devices", deviceID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register registers a device for the application.
func (s *DeviceService) Register(ctx context.Context, device *DeviceRegister) (*Device, error) {
	var out Device
	if err := s.do(ctx, call{method: http.MethodPost, path: "/devices", body: device}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes a registered device.
func (s *DeviceService) Update(ctx context.Context, deviceID string, device *DeviceUpdate) (*Device, error) {
	if err := required("deviceID", deviceID); err != nil {
		return nil, err
	}
	var out Device
	if err := s.do(ctx, call{method: http.MethodPut, path: join("devices", deviceID), body: device}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unregister removes a device.
func (s *DeviceService) Unregister(ctx context.Context, deviceID string) (*Message, error) {
	if err := required("deviceID", deviceID); err != nil {
		return nil, err
	}
	var out Message
	if err := s.do(ctx, call{method: http.MethodDelete, path: join("devices", deviceID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
