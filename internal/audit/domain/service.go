package domain

import (
	"context"
	"errors"
	"time"

	"github.com/reservaspro/reservaspro/pkg/db/pagination"
)

const (
	ActionLevelTableReplaced   = "level_table.replaced"
	ActionClientProfileCreated = "client_profile.created"
	ActionClientProfileUpdated = "client_profile.updated"
	ActionBookingCompleted     = "booking.completed"
	ActionAPIKeyCreated        = "api_key.created"
	ActionAPIKeyRotated        = "api_key.rotated"
	ActionAPIKeyRevoked        = "api_key.revoked"
)

const (
	TargetLevelTable    = "level_table"
	TargetClientProfile = "client_profile"
	TargetBooking       = "booking"
	TargetAPIKey        = "api_key"
)

// Entry describes one change. Org, actor and request id come from the context.
type Entry struct {
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
}

type ListAuditLogRequest struct {
	pagination.Pagination
	Action     string
	TargetType string
	TargetID   string
	StartAt    *time.Time
	EndAt      *time.Time
}

type ListAuditLogResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"audit_logs"`
}

type Service interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidPageToken    = errors.New("invalid_page_token")
	ErrInvalidTimeRange    = errors.New("invalid_time_range")
	ErrInvalidAction       = errors.New("invalid_action")
)
