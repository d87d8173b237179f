package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reservaspro/reservaspro/internal/loyalty/domain"
	dbpkg "github.com/reservaspro/reservaspro/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const levelColumns = `id, org_id, level_number, code, name, min_xp, color, icon, reward_type, reward_value, reward_description, created_at, updated_at`

func (r *repo) ListLevels(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]domain.LoyaltyLevel, error) {
	var levels []domain.LoyaltyLevel
	err := db.WithContext(ctx).Raw(
		`SELECT `+levelColumns+`
		 FROM loyalty_levels
		 WHERE org_id = ?
		 ORDER BY level_number ASC`,
		orgID,
	).Scan(&levels).Error
	if err != nil {
		return nil, err
	}
	return levels, nil
}

// ReplaceLevels swaps the whole table. Callers run it inside a transaction.
func (r *repo) ReplaceLevels(ctx context.Context, db *gorm.DB, orgID snowflake.ID, levels []domain.LoyaltyLevel) error {
	if err := db.WithContext(ctx).Exec(`DELETE FROM loyalty_levels WHERE org_id = ?`, orgID).Error; err != nil {
		return err
	}
	for _, level := range levels {
		err := db.WithContext(ctx).Exec(
			`INSERT INTO loyalty_levels (`+levelColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			level.ID,
			orgID,
			level.LevelNumber,
			level.Code,
			level.Name,
			level.MinXP,
			level.Color,
			level.Icon,
			level.RewardType,
			level.RewardValue,
			level.RewardDescription,
			level.CreatedAt,
			level.UpdatedAt,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

const rewardColumns = `id, org_id, client_profile_id, level_number, source_level_id, reward_type, reward_value, description, status, expires_at, redeemed_at, metadata, created_at, updated_at`

// InsertReward reports false when the profile already holds a reward for the level.
func (r *repo) InsertReward(ctx context.Context, db *gorm.DB, reward *domain.EarnedReward) (bool, error) {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO earned_rewards (`+rewardColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reward.ID,
		reward.OrgID,
		reward.ClientProfileID,
		reward.LevelNumber,
		reward.SourceLevelID,
		reward.RewardType,
		reward.RewardValue,
		reward.Description,
		reward.Status,
		reward.ExpiresAt,
		reward.RedeemedAt,
		reward.Metadata,
		reward.CreatedAt,
		reward.UpdatedAt,
	).Error
	if err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *repo) FindReward(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.EarnedReward, error) {
	var reward domain.EarnedReward
	err := db.WithContext(ctx).Raw(
		`SELECT `+rewardColumns+`
		 FROM earned_rewards WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&reward).Error
	if err != nil {
		return nil, err
	}
	if reward.ID == 0 {
		return nil, nil
	}
	return &reward, nil
}

func (r *repo) FindRewardByLevel(ctx context.Context, db *gorm.DB, orgID, clientProfileID snowflake.ID, levelNumber int) (*domain.EarnedReward, error) {
	var reward domain.EarnedReward
	err := db.WithContext(ctx).Raw(
		`SELECT `+rewardColumns+`
		 FROM earned_rewards
		 WHERE org_id = ? AND client_profile_id = ? AND level_number = ?`,
		orgID,
		clientProfileID,
		levelNumber,
	).Scan(&reward).Error
	if err != nil {
		return nil, err
	}
	if reward.ID == 0 {
		return nil, nil
	}
	return &reward, nil
}

func (r *repo) ListRewards(ctx context.Context, db *gorm.DB, orgID, clientProfileID snowflake.ID) ([]domain.EarnedReward, error) {
	var rewards []domain.EarnedReward
	err := db.WithContext(ctx).Raw(
		`SELECT `+rewardColumns+`
		 FROM earned_rewards
		 WHERE org_id = ? AND client_profile_id = ?
		 ORDER BY created_at DESC, id DESC`,
		orgID,
		clientProfileID,
	).Scan(&rewards).Error
	if err != nil {
		return nil, err
	}
	return rewards, nil
}

// ListExpirableRewardIDs spans all tenants; the sweep is a system job.
func (r *repo) ListExpirableRewardIDs(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT id FROM earned_rewards
		 WHERE status = ? AND expires_at <= ?
		 ORDER BY expires_at ASC, id ASC
		 LIMIT ?`,
		domain.RewardStatusAvailable,
		now,
		limit,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ExpireRewards only moves rows still available, so a concurrent
// redemption is never overwritten.
func (r *repo) ExpireRewards(ctx context.Context, db *gorm.DB, ids []snowflake.ID, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Exec(
		`UPDATE earned_rewards
		 SET status = ?, updated_at = ?
		 WHERE id IN ? AND status = ? AND expires_at <= ?`,
		domain.RewardStatusExpired,
		now,
		ids,
		domain.RewardStatusAvailable,
		now,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) InsertXPHistory(ctx context.Context, db *gorm.DB, entry *domain.XPHistoryEntry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO xp_history (id, org_id, client_profile_id, booking_id, xp_amount, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.OrgID,
		entry.ClientProfileID,
		entry.BookingID,
		entry.XPAmount,
		entry.Reason,
		entry.CreatedAt,
	).Error
}

func (r *repo) ListXPHistory(ctx context.Context, db *gorm.DB, orgID, clientProfileID snowflake.ID, limit int) ([]domain.XPHistoryEntry, error) {
	var entries []domain.XPHistoryEntry
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, client_profile_id, booking_id, xp_amount, reason, created_at
		 FROM xp_history
		 WHERE org_id = ? AND client_profile_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		orgID,
		clientProfileID,
		limit,
	).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
