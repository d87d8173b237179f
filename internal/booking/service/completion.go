package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/reservaspro/reservaspro/internal/booking/domain"
	catalogdomain "github.com/reservaspro/reservaspro/internal/catalog/domain"
	clientdomain "github.com/reservaspro/reservaspro/internal/clientprofile/domain"
	"github.com/reservaspro/reservaspro/internal/locker"
	loyaltydomain "github.com/reservaspro/reservaspro/internal/loyalty/domain"
	"github.com/reservaspro/reservaspro/internal/notification"
	"github.com/reservaspro/reservaspro/internal/orgcontext"
	"github.com/reservaspro/reservaspro/internal/providers/email"
	dbpkg "github.com/reservaspro/reservaspro/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxCompletionAttempts = 3

// completion carries what the transaction decided to the post-commit steps.
type completion struct {
	booking     domain.Booking
	offering    *catalogdomain.Offering
	profile     *clientdomain.ClientProfile
	xpAwarded   int
	levelUp     bool
	landedLevel loyaltydomain.LoyaltyLevel
}

// Complete runs the completion workflow. The booking status change, the
// profile progression and the XP history entry commit together. The level
// reward and the client email follow the commit and never undo it.
func (s *Service) Complete(ctx context.Context, id string) (domain.CompletionResult, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.CompletionResult{}, domain.ErrInvalidOrganization
	}
	bookingID, err := parseID(id)
	if err != nil {
		return domain.CompletionResult{}, err
	}

	booking, err := s.repo.FindByID(ctx, s.db, orgID, bookingID)
	if err != nil {
		return domain.CompletionResult{}, err
	}
	if booking == nil {
		return domain.CompletionResult{}, domain.ErrNotFound
	}
	if err := checkCompletable(booking.Status); err != nil {
		return domain.CompletionResult{}, err
	}

	var levels []loyaltydomain.LoyaltyLevel
	if booking.ClientProfileID != nil {
		unlock, err := s.locker.Lock(ctx, locker.ProfileKey(orgID.String(), booking.ClientProfileID.String()))
		if err != nil {
			return domain.CompletionResult{}, fmt.Errorf("lock client profile: %w", err)
		}
		defer unlock()

		levels, err = s.levels.LevelTable(ctx, orgID)
		if err != nil {
			return domain.CompletionResult{}, fmt.Errorf("load level table: %w", err)
		}
	}

	var out completion
	for attempt := 1; ; attempt++ {
		out, err = s.completeTx(ctx, orgID, bookingID, levels)
		if err == nil {
			break
		}
		retryable := errors.Is(err, clientdomain.ErrConcurrentUpdate) || dbpkg.IsRetryableTxErr(err)
		if !retryable || attempt >= maxCompletionAttempts {
			return domain.CompletionResult{}, err
		}
		s.log.Warn("retrying booking completion",
			zap.String("org_id", orgID.String()),
			zap.String("booking_id", bookingID.String()),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	result := domain.CompletionResult{
		BookingID: bookingID,
		XPAwarded: out.xpAwarded,
		LevelUp:   out.levelUp,
	}
	s.metrics.RecordCompletion(ctx, orgID.String(), out.profile != nil)
	if out.profile == nil {
		s.log.Info("booking completed without client profile",
			zap.String("org_id", orgID.String()),
			zap.String("booking_id", bookingID.String()),
		)
		return result, nil
	}

	s.metrics.RecordXPAwarded(ctx, orgID.String(), out.xpAwarded)
	postCtx := context.WithoutCancel(ctx)
	if out.levelUp {
		summary := out.landedLevel.Summary()
		result.NewLevel = &summary
		s.metrics.RecordLevelUp(ctx, orgID.String(), out.landedLevel.LevelNumber)
		s.issueReward(postCtx, orgID, out, &result)
	}

	s.log.Info("booking completed",
		zap.String("org_id", orgID.String()),
		zap.String("booking_id", bookingID.String()),
		zap.String("client_profile_id", out.profile.ID.String()),
		zap.Int("xp_awarded", out.xpAwarded),
		zap.Bool("level_up", out.levelUp),
	)
	s.notifyCompleted(postCtx, orgID, out, result)
	return result, nil
}

func (s *Service) completeTx(ctx context.Context, orgID, bookingID snowflake.ID, levels []loyaltydomain.LoyaltyLevel) (completion, error) {
	var out completion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.repo.FindForUpdate(ctx, tx, orgID, bookingID, dbpkg.SupportsRowLocks(tx))
		if err != nil {
			return err
		}
		if booking == nil {
			return domain.ErrNotFound
		}
		if err := checkCompletable(booking.Status); err != nil {
			return err
		}

		now := s.clock.Now()
		updated, err := s.repo.TransitionStatus(ctx, tx, orgID, bookingID, booking.Status, domain.StatusCompleted, now)
		if err != nil {
			return fmt.Errorf("update booking status: %w", err)
		}
		if !updated {
			return domain.ErrAlreadyCompleted
		}
		booking.Status = domain.StatusCompleted
		booking.CompletedAt = &now
		out.booking = *booking

		if booking.ClientProfileID == nil {
			return nil
		}

		profile, err := s.clientRepo.FindByID(ctx, tx, orgID, *booking.ClientProfileID)
		if err != nil {
			return err
		}
		if profile == nil {
			return clientdomain.ErrNotFound
		}
		offering, err := s.offerings.FindByID(ctx, tx, orgID, booking.OfferingID)
		if err != nil {
			return err
		}
		if offering == nil {
			return catalogdomain.ErrNotFound
		}

		xp := offering.XPFor(s.cfg.Get().DefaultXP)
		newTotal := profile.TotalXP + xp
		res, err := loyaltydomain.Resolve(newTotal, levels)
		if err != nil {
			return err
		}

		stored := retainedLevel(res.Current, profile.CurrentLevel, levels)
		progress := clientdomain.Progress{
			TotalXP:      newTotal,
			CurrentLevel: stored.LevelNumber,
			LevelName:    stored.Name,
			TotalVisits:  profile.TotalVisits + 1,
			TotalSpent:   profile.TotalSpent + booking.Price,
			LastVisit:    now,
		}
		applied, err := s.clientRepo.ApplyProgress(ctx, tx, orgID, profile.ID, profile.Version, progress)
		if err != nil {
			return fmt.Errorf("apply progress: %w", err)
		}
		if !applied {
			return clientdomain.ErrConcurrentUpdate
		}

		entry := loyaltydomain.XPHistoryEntry{
			ID:              s.genID.Generate(),
			OrgID:           orgID,
			ClientProfileID: profile.ID,
			BookingID:       booking.ID,
			XPAmount:        xp,
			Reason:          "Service completed: " + offering.Name,
			CreatedAt:       now,
		}
		if err := s.loyaltyRepo.InsertXPHistory(ctx, tx, &entry); err != nil {
			return fmt.Errorf("insert xp history: %w", err)
		}

		previousLevel := profile.CurrentLevel
		profile.TotalXP = progress.TotalXP
		profile.CurrentLevel = progress.CurrentLevel
		profile.LevelName = progress.LevelName
		profile.TotalVisits = progress.TotalVisits
		profile.TotalSpent = progress.TotalSpent
		profile.LastVisit = &now
		profile.Version++

		out.levelUp = res.Current.LevelNumber > previousLevel
		out.profile = profile
		out.offering = offering
		out.xpAwarded = xp
		out.landedLevel = res.Current
		return nil
	})
	if err != nil {
		return completion{}, err
	}
	return out, nil
}

// retainedLevel keeps a profile on the level it already holds when a level
// table edit would resolve it lower. If the held level no longer exists the
// highest remaining level at or below it is kept.
func retainedLevel(resolved loyaltydomain.LoyaltyLevel, held int, levels []loyaltydomain.LoyaltyLevel) loyaltydomain.LoyaltyLevel {
	if resolved.LevelNumber >= held {
		return resolved
	}
	out := resolved
	for _, level := range levels {
		if level.LevelNumber <= held && level.LevelNumber > out.LevelNumber {
			out = level
		}
	}
	return out
}

// checkCompletable rejects re-completion so XP is never granted twice.
func checkCompletable(status domain.Status) error {
	switch {
	case status == domain.StatusCompleted:
		return domain.ErrAlreadyCompleted
	case !status.CanTransitionTo(domain.StatusCompleted):
		return domain.ErrInvalidTransition
	default:
		return nil
	}
}

// issueReward grants the landed level's reward. Only the landed level is
// considered, so a jump across several levels yields a single reward.
func (s *Service) issueReward(ctx context.Context, orgID snowflake.ID, out completion, result *domain.CompletionResult) {
	reward, err := s.issuer.Issue(ctx, loyaltydomain.IssueRewardRequest{
		OrgID:           orgID,
		ClientProfileID: out.profile.ID,
		BookingID:       out.booking.ID,
		Level:           out.landedLevel,
	})
	if err != nil {
		result.RewardError = domain.RewardIssueFailed
		s.metrics.RecordRewardIssueFailure(ctx, orgID.String(), "issue_error")
		s.log.Error("reward issuance failed after xp grant",
			zap.String("org_id", orgID.String()),
			zap.String("booking_id", out.booking.ID.String()),
			zap.String("client_profile_id", out.profile.ID.String()),
			zap.Int("level_number", out.landedLevel.LevelNumber),
			zap.Error(err),
		)
		return
	}
	result.Reward = reward
}

func (s *Service) notifyCompleted(ctx context.Context, orgID snowflake.ID, out completion, result domain.CompletionResult) {
	to := out.booking.ClientEmail
	if to == "" {
		to = out.profile.Email
	}
	data := map[string]any{
		"client_name":  out.profile.Name,
		"service_name": out.offering.Name,
		"xp_awarded":   result.XPAwarded,
		"total_xp":     out.profile.TotalXP,
	}
	if result.NewLevel != nil {
		data["new_level"] = result.NewLevel.Name
	}
	if result.Reward != nil {
		data["reward_description"] = result.Reward.Description
		data["reward_expires_on"] = result.Reward.ExpiresAt.Format("2006-01-02")
	}
	s.notifier.Notify(ctx, notification.Message{
		OrgID:    orgID.String(),
		To:       to,
		Template: email.TemplateBookingCompleted,
		Data:     data,
	})
}
