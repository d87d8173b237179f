package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	loyaltydomain "github.com/reservaspro/reservaspro/internal/loyalty/domain"
	"gorm.io/datatypes"
)

// Booking reserves a professional for one offering. Price is copied from
// the offering at creation, in minor currency units. A booking made
// without a client email has no client profile and earns no XP.
type Booking struct {
	ID              snowflake.ID      `json:"id" gorm:"primaryKey"`
	OrgID           snowflake.ID      `json:"organization_id" gorm:"column:org_id;not null;index:ix_bookings_professional_slot,priority:1"`
	OfferingID      snowflake.ID      `json:"service_id" gorm:"not null"`
	ProfessionalID  snowflake.ID      `json:"professional_id" gorm:"not null;index:ix_bookings_professional_slot,priority:2"`
	ClientProfileID *snowflake.ID     `json:"client_profile_id,omitempty" gorm:"index"`
	ClientName      string            `json:"client_name"`
	ClientEmail     string            `json:"client_email,omitempty"`
	ClientPhone     string            `json:"client_phone,omitempty"`
	StartsAt        time.Time         `json:"starts_at" gorm:"not null;index:ix_bookings_professional_slot,priority:3"`
	EndsAt          time.Time         `json:"ends_at" gorm:"not null"`
	Price           int64             `json:"price" gorm:"not null"`
	Status          Status            `json:"status" gorm:"not null;size:16"`
	Notes           string            `json:"notes,omitempty"`
	Metadata        datatypes.JSONMap `json:"metadata,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at" gorm:"not null"`
	UpdatedAt       time.Time         `json:"updated_at" gorm:"not null"`
}

func (Booking) TableName() string { return "bookings" }

// Overlaps reports whether [start, end) intersects the booking's slot.
func (b Booking) Overlaps(start, end time.Time) bool {
	return b.StartsAt.Before(end) && b.EndsAt.After(start)
}

// CompletionResult is what the completion workflow reports to its caller.
// RewardError is set when XP was granted but the level reward could not
// be issued.
type CompletionResult struct {
	BookingID   snowflake.ID                `json:"booking_id"`
	XPAwarded   int                         `json:"xp_awarded"`
	LevelUp     bool                        `json:"level_up"`
	NewLevel    *loyaltydomain.LevelSummary `json:"new_level,omitempty"`
	Reward      *loyaltydomain.EarnedReward `json:"reward,omitempty"`
	RewardError string                      `json:"reward_error,omitempty"`
}
