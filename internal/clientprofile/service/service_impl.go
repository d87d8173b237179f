package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reservaspro/reservaspro/internal/clientprofile/domain"
	"github.com/reservaspro/reservaspro/internal/clock"
	loyaltydomain "github.com/reservaspro/reservaspro/internal/loyalty/domain"
	"github.com/reservaspro/reservaspro/internal/orgcontext"
	dbpkg "github.com/reservaspro/reservaspro/pkg/db"
	"github.com/reservaspro/reservaspro/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Clock  clock.Clock
	Levels loyaltydomain.LevelTableReader
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	clock  clock.Clock
	levels loyaltydomain.LevelTableReader
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("clientprofile.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		clock:  p.Clock,
		levels: p.Levels,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.ClientProfile, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ClientProfile{}, domain.ErrInvalidOrganization
	}
	profile, err := s.newProfile(ctx, orgID, req)
	if err != nil {
		return domain.ClientProfile{}, err
	}
	if err := s.repo.Insert(ctx, s.db, &profile); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return domain.ClientProfile{}, domain.ErrEmailTaken
		}
		return domain.ClientProfile{}, err
	}
	return profile, nil
}

// FindOrCreateByEmail returns the tenant's profile for the email, creating
// it on first sight. A concurrent creator winning the insert is not an error.
func (s *Service) FindOrCreateByEmail(ctx context.Context, req domain.CreateRequest) (domain.ClientProfile, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ClientProfile{}, domain.ErrInvalidOrganization
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.ClientProfile{}, err
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, orgID, email)
	if err != nil {
		return domain.ClientProfile{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	profile, err := s.newProfile(ctx, orgID, req)
	if err != nil {
		return domain.ClientProfile{}, err
	}
	if err := s.repo.Insert(ctx, s.db, &profile); err != nil {
		if !dbpkg.IsDuplicateKeyErr(err) {
			return domain.ClientProfile{}, err
		}
		existing, err = s.repo.FindByEmail(ctx, s.db, orgID, email)
		if err != nil {
			return domain.ClientProfile{}, err
		}
		if existing == nil {
			return domain.ClientProfile{}, domain.ErrNotFound
		}
		return *existing, nil
	}

	s.log.Info("client profile created",
		zap.String("org_id", orgID.String()),
		zap.String("client_profile_id", profile.ID.String()),
	)
	return profile, nil
}

// newProfile starts a profile on the tenant's floor level.
func (s *Service) newProfile(ctx context.Context, orgID snowflake.ID, req domain.CreateRequest) (domain.ClientProfile, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ClientProfile{}, domain.ErrInvalidName
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.ClientProfile{}, err
	}

	levels, err := s.levels.LevelTable(ctx, orgID)
	if err != nil {
		return domain.ClientProfile{}, err
	}
	res, err := loyaltydomain.Resolve(0, levels)
	if err != nil {
		return domain.ClientProfile{}, err
	}

	now := s.clock.Now()
	return domain.ClientProfile{
		ID:           s.genID.Generate(),
		OrgID:        orgID,
		Email:        email,
		Name:         name,
		Phone:        strings.TrimSpace(req.Phone),
		CurrentLevel: res.Current.LevelNumber,
		LevelName:    res.Current.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.ClientProfile, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ClientProfile{}, domain.ErrInvalidOrganization
	}
	profileID, err := parseID(id)
	if err != nil {
		return domain.ClientProfile{}, err
	}
	profile, err := s.repo.FindByID(ctx, s.db, orgID, profileID)
	if err != nil {
		return domain.ClientProfile{}, err
	}
	if profile == nil {
		return domain.ClientProfile{}, domain.ErrNotFound
	}
	return *profile, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ListResponse{}, domain.ErrInvalidOrganization
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	filter := domain.ListFilter{
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Level: req.Level,
	}
	items, err := s.repo.List(ctx, s.db, orgID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListResponse{}, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(p *domain.ClientProfile) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        p.ID.String(),
			CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	profiles := make([]domain.ClientProfile, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		profiles = append(profiles, *item)
	}
	return domain.ListResponse{PageInfo: pageInfo, ClientProfiles: profiles}, nil
}

func (s *Service) UpdateContact(ctx context.Context, id string, req domain.UpdateContactRequest) (domain.ClientProfile, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.ClientProfile{}, err
	}

	name := current.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.ClientProfile{}, domain.ErrInvalidName
		}
	}
	phone := current.Phone
	if req.Phone != nil {
		phone = strings.TrimSpace(*req.Phone)
	}

	now := s.clock.Now()
	updated, err := s.repo.UpdateContact(ctx, s.db, current.OrgID, current.ID, name, phone, now)
	if err != nil {
		return domain.ClientProfile{}, err
	}
	if !updated {
		return domain.ClientProfile{}, domain.ErrNotFound
	}
	current.Name = name
	current.Phone = phone
	current.UpdatedAt = now
	return current, nil
}

func (s *Service) GetProgress(ctx context.Context, id string) (domain.ProgressView, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return domain.ProgressView{}, err
	}
	levels, err := s.levels.LevelTable(ctx, profile.OrgID)
	if err != nil {
		return domain.ProgressView{}, err
	}
	res, err := loyaltydomain.Resolve(profile.TotalXP, levels)
	if err != nil {
		return domain.ProgressView{}, err
	}
	return domain.ProgressView{
		Profile:         profile,
		Current:         res.Current,
		Next:            res.Next,
		XPToNext:        res.XPToNext,
		ProgressPercent: res.ProgressPercent(profile.TotalXP),
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
