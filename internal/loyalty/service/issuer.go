package service

import (
	"context"
	"fmt"

	"github.com/reservaspro/reservaspro/internal/loyalty/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Issue creates the reward for the landed level. Levels of type none yield
// nil. A repeat for the same profile and level returns the existing reward.
func (s *Service) Issue(ctx context.Context, req domain.IssueRewardRequest) (*domain.EarnedReward, error) {
	if req.OrgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	if req.ClientProfileID == 0 {
		return nil, domain.ErrInvalidID
	}
	level := req.Level
	if !level.RewardType.Grants() {
		return nil, nil
	}

	now := s.clock.Now()
	reward := domain.EarnedReward{
		ID:              s.genID.Generate(),
		OrgID:           req.OrgID,
		ClientProfileID: req.ClientProfileID,
		LevelNumber:     level.LevelNumber,
		SourceLevelID:   level.ID,
		RewardType:      level.RewardType,
		RewardValue:     level.RewardValue,
		Description:     level.RewardDescription,
		Status:          domain.RewardStatusAvailable,
		ExpiresAt:       now.Add(s.cfg.Get().RewardTTL()),
		Metadata:        datatypes.JSONMap{"level_name": level.Name},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.BookingID != 0 {
		reward.Metadata["booking_id"] = req.BookingID.String()
	}

	inserted, err := s.repo.InsertReward(ctx, s.db, &reward)
	if err != nil {
		return nil, fmt.Errorf("insert reward: %w", err)
	}
	if !inserted {
		existing, err := s.repo.FindRewardByLevel(ctx, s.db, req.OrgID, req.ClientProfileID, level.LevelNumber)
		if err != nil {
			return nil, fmt.Errorf("load existing reward: %w", err)
		}
		s.log.Info("reward already issued for level",
			zap.String("org_id", req.OrgID.String()),
			zap.String("client_profile_id", req.ClientProfileID.String()),
			zap.Int("level_number", level.LevelNumber),
		)
		return existing, nil
	}

	s.metrics.RecordRewardIssued(ctx, req.OrgID.String(), string(reward.RewardType))
	s.log.Info("reward issued",
		zap.String("org_id", req.OrgID.String()),
		zap.String("client_profile_id", req.ClientProfileID.String()),
		zap.String("reward_id", reward.ID.String()),
		zap.String("reward_type", string(reward.RewardType)),
		zap.Int("level_number", level.LevelNumber),
	)
	return &reward, nil
}
