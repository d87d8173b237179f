package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type LevelInput struct {
	LevelNumber       int        `json:"level_number"`
	Name              string     `json:"name"`
	MinXP             int        `json:"min_xp"`
	Color             string     `json:"color"`
	Icon              string     `json:"icon"`
	RewardType        RewardType `json:"reward_type"`
	RewardValue       int64      `json:"reward_value"`
	RewardDescription string     `json:"reward_description"`
}

type ReplaceLevelTableRequest struct {
	Levels []LevelInput `json:"levels"`
}

// IssueRewardRequest names the level a profile has just landed on.
type IssueRewardRequest struct {
	OrgID           snowflake.ID
	ClientProfileID snowflake.ID
	BookingID       snowflake.ID
	Level           LoyaltyLevel
}

// RewardIssuer creates the reward for a level-up. It returns nil when the
// level grants nothing. Issuing twice for the same profile and level
// returns the reward created the first time.
type RewardIssuer interface {
	Issue(ctx context.Context, req IssueRewardRequest) (*EarnedReward, error)
}

// LevelTableReader returns a tenant's level table ordered by level number.
type LevelTableReader interface {
	LevelTable(ctx context.Context, orgID snowflake.ID) ([]LoyaltyLevel, error)
}

type Service interface {
	RewardIssuer
	LevelTableReader

	GetLevelTable(ctx context.Context) ([]LoyaltyLevel, error)
	ReplaceLevelTable(ctx context.Context, req ReplaceLevelTableRequest) ([]LoyaltyLevel, error)
	SeedDefaultLevels(ctx context.Context, db *gorm.DB, orgID snowflake.ID) error

	ListRewards(ctx context.Context, clientProfileID string) ([]EarnedReward, error)
	GetReward(ctx context.Context, id string) (EarnedReward, error)
	RenderVoucher(ctx context.Context, id string) ([]byte, error)
	ListXPHistory(ctx context.Context, clientProfileID string, limit int) ([]XPHistoryEntry, error)

	ExpireRewards(ctx context.Context, now time.Time, batchSize int) (int64, error)
}

// DefaultLevels is the table every new tenant starts with.
func DefaultLevels() []LevelInput {
	return []LevelInput{
		{LevelNumber: 1, Name: "Bronze", MinXP: 0, Color: "#CD7F32", Icon: "🥉", RewardType: RewardTypeNone},
		{LevelNumber: 2, Name: "Silver", MinXP: 500, Color: "#C0C0C0", Icon: "🥈", RewardType: RewardTypeDiscountPercent, RewardValue: 5, RewardDescription: "5% off your next visit"},
		{LevelNumber: 3, Name: "Gold", MinXP: 1500, Color: "#FFD700", Icon: "🥇", RewardType: RewardTypeDiscountPercent, RewardValue: 10, RewardDescription: "10% off your next visit"},
		{LevelNumber: 4, Name: "Platinum", MinXP: 3000, Color: "#E5E4E2", Icon: "💎", RewardType: RewardTypeFreeService, RewardDescription: "One free service"},
	}
}
