package doshii

import (
	"context"
	"net/http"

	"github.com/agentstation/utc"
)

// Table is a seating resource at a location.
type Table struct {
	Name      string    `json:"name"`
	Covers    int       `json:"covers,omitempty"`
	IsActive  bool      `json:"isActive"`
	Revenue   string    `json:"revenue,omitempty"`
	Version   string    `json:"version,omitempty"`
	UpdatedAt *utc.Time `json:"updatedAt,omitempty"`
	CreatedAt *utc.Time `json:"createdAt,omitempty"`
}

// TableService wraps the tables API. Tables are addressed by name.
type TableService struct {
	service
}

// List returns the tables of a location.
func (s *TableService) List(ctx context.Context, locationID string) ([]Table, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out []Table
	if err := s.do(ctx, call{method: http.MethodGet, path: "/tables", location: locationID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one table.
func (s *TableService) Get(ctx context.Context, locationID, name string) (*Table, error) {
	return s.one(ctx, locationID, name, http.MethodGet, nil)
}

// Create adds a table.
func (s *TableService) Create(ctx context.Context, locationID string, table *Table) (*Table, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out Table
	if err := s.do(ctx, call{method: http.MethodPost, path: "/tables", location: locationID, body: table}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes one table.
func (s *TableService) Update(ctx context.Context, locationID, name string, table *Table) (*Table, error) {
	return s.one(ctx, locationID, name, http.MethodPut, table)
}

// BulkUpdate replaces every table of a location.
func (s *TableService) BulkUpdate(ctx context.Context, locationID string, tables []Table) ([]Table, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	var out []Table
	if err := s.do(ctx, call{method: http.MethodPut, path: "/tables", location: locationID, body: tables}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a table.
func (s *TableService) Delete(ctx context.Context, locationID, name string) (*Table, error) {
	return s.one(ctx, locationID, name, http.MethodDelete, nil)
}

func (s *TableService) one(ctx context.Context, locationID, name, method string, body any) (*Table, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	if err := required("name", name); err != nil {
		return nil, err
	}
	var out Table
	err := s.do(ctx, call{method: method, path: join("tables", name), location: locationID, body: body}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
