package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reservaspro/reservaspro/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status          Status
	ProfessionalID  snowflake.ID
	ClientProfileID snowflake.ID
	From            *time.Time
	To              *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Booking, error)
	// FindForUpdate reads the booking, taking a row lock when lock is true.
	FindForUpdate(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, lock bool) (*Booking, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*Booking, error)
	// CountOverlapping counts open bookings of the professional that
	// intersect [start, end).
	CountOverlapping(ctx context.Context, db *gorm.DB, orgID, professionalID snowflake.ID, start, end time.Time) (int64, error)
	// TransitionStatus moves the booking from one status to another and
	// reports false when the stored status was no longer from.
	TransitionStatus(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, from, to Status, now time.Time) (bool, error)
}
