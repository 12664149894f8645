package doshii

import (
	"context"
	"net/http"

	"github.com/agentstation/utc"
)

// Menu is the POS menu of a location.
type Menu struct {
	Options   []MenuOption  `json:"options,omitempty"`
	Surcounts []Surcount    `json:"surcounts,omitempty"`
	Products  []MenuProduct `json:"products,omitempty"`
	Version   string        `json:"version,omitempty"`
	UpdatedAt *utc.Time     `json:"updatedAt,omitempty"`
	CreatedAt *utc.Time     `json:"createdAt,omitempty"`
}

// MenuProduct is a sellable item.
type MenuProduct struct {
	PosID       string       `json:"posId"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Type        string       `json:"type,omitempty"`
	UnitPrice   string       `json:"unitPrice"`
	Tags        []string     `json:"tags,omitempty"`
	Options     []MenuOption `json:"options,omitempty"`
}

// MenuOption is a group of product variants.
type MenuOption struct {
	PosID    string        `json:"posId"`
	Name     string        `json:"name"`
	Min      string        `json:"min,omitempty"`
	Max      string        `json:"max,omitempty"`
	Variants []ItemVariant `json:"variants,omitempty"`
}

// MenuService wraps the menu API.
type MenuService struct {
	service
}

// Get returns the full menu of a location.
func (s *MenuService) Get(ctx context.Context, locationID string) (*Menu, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out Menu
	if err := s.do(ctx, call{method: http.MethodGet, path: "/menu", location: locationID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Product returns one menu product by POS id.
func (s *MenuService) Product(ctx context.Context, locationID, posID string) (*MenuProduct, error) {
	var out MenuProduct
	if err := s.item(ctx, locationID, "products", posID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Option returns one menu option by POS id.
func (s *MenuService) Option(ctx context.Context, locationID, posID string) (*MenuOption, error) {
	var out MenuOption
	if err := s.item(ctx, locationID, "options", posID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Surcount returns one menu surcount by POS id.
func (s *MenuService) Surcount(ctx context.Context, locationID, posID string) (*Surcount, error) {
	var out Surcount
	if err := s.item(ctx, locationID, "surcounts", posID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MenuService) item(ctx context.Context, locationID, kind, posID string, out any) error {
	if err := required("locationID", locationID); err != nil {
		return err
	}
	if err := required("posID", posID); err != nil {
		return err
	}
	return s.do(ctx, call{method: http.MethodGet, path: join("menu", kind, posID), location: locationID}, out)
}
