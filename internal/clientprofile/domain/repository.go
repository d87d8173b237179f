package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reservaspro/reservaspro/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, profile *ClientProfile) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*ClientProfile, error)
	FindByEmail(ctx context.Context, db *gorm.DB, orgID snowflake.ID, email string) (*ClientProfile, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*ClientProfile, error)
	UpdateContact(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, name, phone string, now time.Time) (bool, error)
	// ApplyProgress writes progress only if the stored version still equals
	// expectedVersion, and reports whether the row was updated.
	ApplyProgress(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, expectedVersion int64, p Progress) (bool, error)
}
