package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListLevels(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]LoyaltyLevel, error)
	ReplaceLevels(ctx context.Context, db *gorm.DB, orgID snowflake.ID, levels []LoyaltyLevel) error

	InsertReward(ctx context.Context, db *gorm.DB, reward *EarnedReward) (bool, error)
	FindReward(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*EarnedReward, error)
	FindRewardByLevel(ctx context.Context, db *gorm.DB, orgID, clientProfileID snowflake.ID, levelNumber int) (*EarnedReward, error)
	ListRewards(ctx context.Context, db *gorm.DB, orgID, clientProfileID snowflake.ID) ([]EarnedReward, error)
	ListExpirableRewardIDs(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]snowflake.ID, error)
	ExpireRewards(ctx context.Context, db *gorm.DB, ids []snowflake.ID, now time.Time) (int64, error)

	InsertXPHistory(ctx context.Context, db *gorm.DB, entry *XPHistoryEntry) error
	ListXPHistory(ctx context.Context, db *gorm.DB, orgID, clientProfileID snowflake.ID, limit int) ([]XPHistoryEntry, error)
}
