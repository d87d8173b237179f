package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Offering, error)
	List(ctx context.Context, req ListRequest) ([]Offering, error)
	Get(ctx context.Context, id string) (*Offering, error)
	Update(ctx context.Context, req UpdateRequest) (*Offering, error)
}

type ListRequest struct {
	Name    string
	Active  *bool
	SortBy  string
	OrderBy string
}

type CreateRequest struct {
	Name            string         `json:"name"`
	Description     *string        `json:"description"`
	Price           int64          `json:"price"`
	DurationMinutes int            `json:"duration_minutes"`
	XPValue         *int           `json:"xp_value"`
	Active          *bool          `json:"active"`
	Metadata        map[string]any `json:"metadata"`
}

type UpdateRequest struct {
	ID              string         `json:"-"`
	Name            *string        `json:"name"`
	Description     *string        `json:"description"`
	Price           *int64         `json:"price"`
	DurationMinutes *int           `json:"duration_minutes"`
	XPValue         *int           `json:"xp_value"`
	Active          *bool          `json:"active"`
	Metadata        map[string]any `json:"metadata"`
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrInvalidDuration     = errors.New("invalid_duration")
	ErrInvalidXPValue      = errors.New("invalid_xp_value")
	ErrNotFound            = errors.New("not_found")
	ErrInvalidID           = errors.New("invalid_id")
)
