package domain

import (
	"context"
	"errors"
	"time"

	"github.com/reservaspro/reservaspro/pkg/db/pagination"
)

//go:generate mockgen -destination=mocks/mock_collaborators.go -package=mocks github.com/reservaspro/reservaspro/internal/loyalty/domain RewardIssuer
//go:generate mockgen -destination=mocks/mock_notifier.go -package=mocks github.com/reservaspro/reservaspro/internal/notification Notifier

type CreateRequest struct {
	ServiceID      string    `json:"service_id"`
	ProfessionalID string    `json:"professional_id"`
	StartsAt       time.Time `json:"starts_at"`
	ClientName     string    `json:"client_name"`
	ClientEmail    string    `json:"client_email"`
	ClientPhone    string    `json:"client_phone"`
	Notes          string    `json:"notes"`
}

type ListRequest struct {
	PageToken       string
	PageSize        int
	Status          string
	ProfessionalID  string
	ClientProfileID string
	From            *time.Time
	To              *time.Time
}

type ListResponse struct {
	pagination.PageInfo
	Bookings []Booking `json:"bookings"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Booking, error)
	Get(ctx context.Context, id string) (Booking, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Confirm(ctx context.Context, id string) (Booking, error)
	Cancel(ctx context.Context, id string) (Booking, error)
	// Complete marks the booking completed and applies its loyalty effects.
	Complete(ctx context.Context, id string) (CompletionResult, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidStartTime    = errors.New("invalid_start_time")
	ErrInvalidClient       = errors.New("invalid_client")
	ErrServiceInactive     = errors.New("service_inactive")
	ErrNotFound            = errors.New("not_found")
	ErrSlotUnavailable     = errors.New("slot_unavailable")
	ErrInvalidTransition   = errors.New("invalid_transition")
	ErrAlreadyCompleted    = errors.New("already_completed")
)

// RewardIssueFailed is the reward_error value reported when XP was granted
// but the reward could not be created.
const RewardIssueFailed = "reward_issue_failed"
