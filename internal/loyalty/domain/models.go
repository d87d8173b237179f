package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// LoyaltyLevel is one row of a tenant's level table.
//
// RewardValue is in percent points for discount_percent and in minor
// currency units for discount_fixed; it is zero for every other type.
type LoyaltyLevel struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID             snowflake.ID `gorm:"not null;uniqueIndex:ux_loyalty_levels_org_number,priority:1" json:"organization_id"`
	LevelNumber       int          `gorm:"not null;uniqueIndex:ux_loyalty_levels_org_number,priority:2" json:"level_number"`
	Code              string       `gorm:"not null;size:64" json:"code"`
	Name              string       `gorm:"not null" json:"name"`
	MinXP             int          `gorm:"column:min_xp;not null" json:"min_xp"`
	Color             string       `json:"color,omitempty"`
	Icon              string       `json:"icon,omitempty"`
	RewardType        RewardType   `gorm:"not null;size:32" json:"reward_type"`
	RewardValue       int64        `gorm:"not null" json:"reward_value"`
	RewardDescription string       `json:"reward_description,omitempty"`
	CreatedAt         time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null" json:"updated_at"`
}

func (LoyaltyLevel) TableName() string { return "loyalty_levels" }

// EarnedReward is a time-bounded benefit issued on level-up.
type EarnedReward struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID           snowflake.ID      `gorm:"not null;uniqueIndex:ux_earned_rewards_profile_level,priority:1" json:"organization_id"`
	ClientProfileID snowflake.ID      `gorm:"not null;uniqueIndex:ux_earned_rewards_profile_level,priority:2" json:"client_profile_id"`
	LevelNumber     int               `gorm:"not null;uniqueIndex:ux_earned_rewards_profile_level,priority:3" json:"level_number"`
	SourceLevelID   snowflake.ID      `gorm:"not null" json:"source_level_id"`
	RewardType      RewardType        `gorm:"not null;size:32" json:"reward_type"`
	RewardValue     int64             `gorm:"not null" json:"reward_value"`
	Description     string            `json:"description,omitempty"`
	Status          RewardStatus      `gorm:"not null;size:16;index:ix_earned_rewards_status_expiry,priority:1" json:"status"`
	ExpiresAt       time.Time         `gorm:"not null;index:ix_earned_rewards_status_expiry,priority:2" json:"expires_at"`
	RedeemedAt      *time.Time        `json:"redeemed_at,omitempty"`
	Metadata        datatypes.JSONMap `gorm:"not null" json:"metadata,omitempty"`
	CreatedAt       time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null" json:"updated_at"`
}

func (EarnedReward) TableName() string { return "earned_rewards" }

// EffectiveStatus resolves expiry at read time: an available reward whose
// expiry has passed reads as expired even before the sweep persists it.
func (r EarnedReward) EffectiveStatus(now time.Time) RewardStatus {
	if r.Status == RewardStatusAvailable && !now.Before(r.ExpiresAt) {
		return RewardStatusExpired
	}
	return r.Status
}

// XPHistoryEntry is an immutable record of one XP grant.
type XPHistoryEntry struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID           snowflake.ID `gorm:"not null;index:ix_xp_history_profile,priority:1" json:"organization_id"`
	ClientProfileID snowflake.ID `gorm:"not null;index:ix_xp_history_profile,priority:2" json:"client_profile_id"`
	BookingID       snowflake.ID `gorm:"not null;uniqueIndex" json:"booking_id"`
	XPAmount        int          `gorm:"column:xp_amount;not null" json:"xp_amount"`
	Reason          string       `gorm:"not null" json:"reason"`
	CreatedAt       time.Time    `gorm:"not null" json:"created_at"`
}

func (XPHistoryEntry) TableName() string { return "xp_history" }

// LevelSummary is the subset of a level shown to clients after a level-up.
type LevelSummary struct {
	LevelNumber int    `json:"level_number"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
}

func (l LoyaltyLevel) Summary() LevelSummary {
	return LevelSummary{LevelNumber: l.LevelNumber, Name: l.Name, Icon: l.Icon}
}
