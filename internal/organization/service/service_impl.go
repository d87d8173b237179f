package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/reservaspro/reservaspro/internal/clock"
	"github.com/reservaspro/reservaspro/internal/organization/domain"
	"github.com/reservaspro/reservaspro/internal/orgcontext"
	dbpkg "github.com/reservaspro/reservaspro/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Clock  clock.Clock
	Levels domain.LevelSeeder
}

type service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	clock  clock.Clock
	levels domain.LevelSeeder
}

func NewService(p Params) domain.Service {
	return &service{
		db:     p.DB,
		log:    p.Log.Named("organization.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		clock:  p.Clock,
		levels: p.Levels,
	}
}

// Provision creates the tenant and its default level table atomically.
func (s *service) Provision(ctx context.Context, req domain.ProvisionRequest) (*domain.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.clock.Now()
	id := req.ID
	if id == 0 {
		id = s.genID.Generate()
	}
	org := domain.Organization{
		ID:           id,
		Name:         name,
		Slug:         slug.Make(name),
		SupportEmail: strings.ToLower(strings.TrimSpace(req.SupportEmail)),
		TimezoneName: strings.TrimSpace(req.TimezoneName),
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, org); err != nil {
			if dbpkg.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyExists
			}
			return err
		}
		return s.levels.SeedDefaultLevels(ctx, tx, org.ID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("organization provisioned",
		zap.String("org_id", org.ID.String()),
		zap.String("slug", org.Slug),
	)
	return &org, nil
}

func (s *service) Current(ctx context.Context) (*domain.Organization, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	return s.Get(ctx, orgID)
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}
