package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	clientdomain "github.com/reservaspro/reservaspro/internal/clientprofile/domain"
	"github.com/reservaspro/reservaspro/internal/clock"
	"github.com/reservaspro/reservaspro/internal/config"
	"github.com/reservaspro/reservaspro/internal/loyalty/domain"
	"github.com/reservaspro/reservaspro/internal/observability/metrics"
	"github.com/reservaspro/reservaspro/internal/orgcontext"
	orgdomain "github.com/reservaspro/reservaspro/internal/organization/domain"
	"github.com/reservaspro/reservaspro/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Clock    clock.Clock
	Config   *config.LoyaltyConfigHolder
	Metrics  *metrics.Metrics        `optional:"true"`
	PDF      pdf.Provider            `optional:"true"`
	Profiles clientdomain.Repository `optional:"true"`
	Orgs     orgdomain.Repository    `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	clock    clock.Clock
	cfg      *config.LoyaltyConfigHolder
	metrics  *metrics.Metrics
	pdf      pdf.Provider
	profiles clientdomain.Repository
	orgs     orgdomain.Repository
	levels   *levelCache
}

func New(p Params) domain.Service {
	return NewService(p)
}

// NewService returns the concrete service for callers that need it beyond
// the domain interface.
func NewService(p Params) *Service {
	s := &Service{
		db:       p.DB,
		log:      p.Log.Named("loyalty.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		clock:    p.Clock,
		cfg:      p.Config,
		metrics:  p.Metrics,
		pdf:      p.PDF,
		profiles: p.Profiles,
		orgs:     p.Orgs,
	}
	s.levels = newLevelCache(p.Clock, func() time.Duration { return s.cfg.Get().LevelCacheTTL })
	return s
}

// LevelTable returns the tenant's levels ordered by level number, served from cache.
func (s *Service) LevelTable(ctx context.Context, orgID snowflake.ID) ([]domain.LoyaltyLevel, error) {
	return s.levels.get(ctx, orgID, func(ctx context.Context) ([]domain.LoyaltyLevel, error) {
		return s.repo.ListLevels(ctx, s.db, orgID)
	})
}

func (s *Service) GetLevelTable(ctx context.Context) ([]domain.LoyaltyLevel, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	return s.LevelTable(ctx, orgID)
}

func (s *Service) ReplaceLevelTable(ctx context.Context, req domain.ReplaceLevelTableRequest) ([]domain.LoyaltyLevel, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	levels := s.buildLevels(orgID, req.Levels)
	if err := domain.ValidateLevels(levels); err != nil {
		return nil, err
	}
	domain.SortByLevelNumber(levels)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.ReplaceLevels(ctx, tx, orgID, levels)
	})
	s.levels.invalidate(orgID)
	if err != nil {
		return nil, fmt.Errorf("replace level table: %w", err)
	}

	s.log.Info("level table replaced",
		zap.String("org_id", orgID.String()),
		zap.Int("levels", len(levels)),
	)
	return levels, nil
}

// SeedDefaultLevels writes the default table through db, which is usually
// the provisioning transaction.
func (s *Service) SeedDefaultLevels(ctx context.Context, db *gorm.DB, orgID snowflake.ID) error {
	if orgID == 0 {
		return domain.ErrInvalidOrganization
	}
	existing, err := s.repo.ListLevels(ctx, db, orgID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	levels := s.buildLevels(orgID, domain.DefaultLevels())
	if err := domain.ValidateLevels(levels); err != nil {
		return err
	}
	if err := s.repo.ReplaceLevels(ctx, db, orgID, levels); err != nil {
		return fmt.Errorf("seed default levels: %w", err)
	}
	s.levels.invalidate(orgID)
	return nil
}

func (s *Service) buildLevels(orgID snowflake.ID, inputs []domain.LevelInput) []domain.LoyaltyLevel {
	now := s.clock.Now()
	levels := make([]domain.LoyaltyLevel, 0, len(inputs))
	for _, in := range inputs {
		rewardType := in.RewardType
		if rewardType == "" {
			rewardType = domain.RewardTypeNone
		}
		value := in.RewardValue
		if !rewardType.HasValue() && value > 0 {
			value = 0
		}
		name := strings.TrimSpace(in.Name)
		levels = append(levels, domain.LoyaltyLevel{
			ID:                s.genID.Generate(),
			OrgID:             orgID,
			LevelNumber:       in.LevelNumber,
			Code:              slug.Make(name),
			Name:              name,
			MinXP:             in.MinXP,
			Color:             strings.TrimSpace(in.Color),
			Icon:              strings.TrimSpace(in.Icon),
			RewardType:        rewardType,
			RewardValue:       value,
			RewardDescription: strings.TrimSpace(in.RewardDescription),
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return levels
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
