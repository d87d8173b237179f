package domain

import (
	"context"
	"errors"
	"io"

	loyaltydomain "github.com/reservaspro/reservaspro/internal/loyalty/domain"
	"github.com/reservaspro/reservaspro/pkg/db/pagination"
)

type CreateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type UpdateContactRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type ListFilter struct {
	Email string
	Level int
}

type ListRequest struct {
	PageToken string
	PageSize  int
	Email     string
	Level     int
}

type ListResponse struct {
	pagination.PageInfo
	ClientProfiles []ClientProfile `json:"client_profiles"`
}

// ProgressView shows where a profile stands in the tenant's level table.
type ProgressView struct {
	Profile         ClientProfile               `json:"profile"`
	Current         loyaltydomain.LoyaltyLevel  `json:"current"`
	Next            *loyaltydomain.LoyaltyLevel `json:"next,omitempty"`
	XPToNext        int                         `json:"xp_to_next"`
	ProgressPercent int                         `json:"progress_percent"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (ClientProfile, error)
	FindOrCreateByEmail(ctx context.Context, req CreateRequest) (ClientProfile, error)
	Get(ctx context.Context, id string) (ClientProfile, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	UpdateContact(ctx context.Context, id string, req UpdateContactRequest) (ClientProfile, error)
	GetProgress(ctx context.Context, id string) (ProgressView, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrNotFound            = errors.New("not_found")
	ErrEmailTaken          = errors.New("email_taken")
	ErrConcurrentUpdate    = errors.New("concurrent_update")
)
