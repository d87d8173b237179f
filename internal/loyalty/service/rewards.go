package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/reservaspro/reservaspro/internal/loyalty/domain"
	"github.com/reservaspro/reservaspro/internal/orgcontext"
	"github.com/reservaspro/reservaspro/internal/providers/pdf"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

var ErrVoucherUnavailable = errors.New("voucher_unavailable")

// ListRewards returns the profile's rewards with expiry applied at read time.
func (s *Service) ListRewards(ctx context.Context, clientProfileID string) ([]domain.EarnedReward, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	profileID, err := parseID(clientProfileID)
	if err != nil {
		return nil, err
	}

	rewards, err := s.repo.ListRewards(ctx, s.db, orgID, profileID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for i := range rewards {
		rewards[i].Status = rewards[i].EffectiveStatus(now)
	}
	return rewards, nil
}

func (s *Service) GetReward(ctx context.Context, id string) (domain.EarnedReward, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.EarnedReward{}, domain.ErrInvalidOrganization
	}
	rewardID, err := parseID(id)
	if err != nil {
		return domain.EarnedReward{}, err
	}

	reward, err := s.repo.FindReward(ctx, s.db, orgID, rewardID)
	if err != nil {
		return domain.EarnedReward{}, err
	}
	if reward == nil {
		return domain.EarnedReward{}, domain.ErrNotFound
	}
	reward.Status = reward.EffectiveStatus(s.clock.Now())
	return *reward, nil
}

func (s *Service) ListXPHistory(ctx context.Context, clientProfileID string, limit int) ([]domain.XPHistoryEntry, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	profileID, err := parseID(clientProfileID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)
	return s.repo.ListXPHistory(ctx, s.db, orgID, profileID, limit)
}

// ExpireRewards persists expiry for every available reward past its
// deadline, batchSize rows at a time, and returns how many moved.
func (s *Service) ExpireRewards(ctx context.Context, now time.Time, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = s.cfg.Get().SweepBatchSize
	}

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		ids, err := s.repo.ListExpirableRewardIDs(ctx, s.db, now, batchSize)
		if err != nil {
			return total, fmt.Errorf("list expirable rewards: %w", err)
		}
		if len(ids) == 0 {
			break
		}
		n, err := s.repo.ExpireRewards(ctx, s.db, ids, now)
		if err != nil {
			return total, fmt.Errorf("expire rewards: %w", err)
		}
		total += n
		if len(ids) < batchSize {
			break
		}
	}

	if total > 0 {
		s.metrics.RecordRewardsExpired(ctx, total)
		s.log.Info("rewards expired", zap.Int64("count", total))
	}
	return total, nil
}

// RenderVoucher prints a reward. Expired rewards are refused.
func (s *Service) RenderVoucher(ctx context.Context, id string) ([]byte, error) {
	if s.pdf == nil {
		return nil, ErrVoucherUnavailable
	}
	reward, err := s.GetReward(ctx, id)
	if err != nil {
		return nil, err
	}
	if reward.Status == domain.RewardStatusExpired {
		return nil, domain.ErrRewardNotAvailable
	}

	data := pdf.VoucherData{
		Benefit:     describeBenefit(reward),
		Description: reward.Description,
		Code:        "RW-" + reward.ID.String(),
		IssuedOn:    reward.CreatedAt.Format(time.DateOnly),
		ExpiresOn:   reward.ExpiresAt.Format(time.DateOnly),
		Status:      string(reward.Status),
	}
	if name, ok := reward.Metadata["level_name"].(string); ok {
		data.LevelName = name
	}
	if s.orgs != nil {
		if org, err := s.orgs.FindByID(ctx, reward.OrgID); err == nil && org != nil {
			data.BusinessName = org.Name
		}
	}
	if s.profiles != nil {
		if profile, err := s.profiles.FindByID(ctx, s.db, reward.OrgID, reward.ClientProfileID); err == nil && profile != nil {
			data.ClientName = profile.Name
		}
	}

	r, err := s.pdf.GenerateVoucher(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("render voucher: %w", err)
	}
	return io.ReadAll(r)
}

func describeBenefit(r domain.EarnedReward) string {
	switch r.RewardType {
	case domain.RewardTypeDiscountPercent:
		return strconv.FormatInt(r.RewardValue, 10) + "% off"
	case domain.RewardTypeDiscountFixed:
		return fmt.Sprintf("%d.%02d off", r.RewardValue/100, r.RewardValue%100)
	case domain.RewardTypeFreeService:
		return "Free service"
	case domain.RewardTypeGift:
		return "Gift"
	case domain.RewardTypeNone:
		return ""
	}
	return ""
}
