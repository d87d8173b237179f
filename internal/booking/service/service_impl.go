package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reservaspro/reservaspro/internal/booking/domain"
	catalogdomain "github.com/reservaspro/reservaspro/internal/catalog/domain"
	clientdomain "github.com/reservaspro/reservaspro/internal/clientprofile/domain"
	"github.com/reservaspro/reservaspro/internal/clock"
	"github.com/reservaspro/reservaspro/internal/config"
	"github.com/reservaspro/reservaspro/internal/locker"
	loyaltydomain "github.com/reservaspro/reservaspro/internal/loyalty/domain"
	"github.com/reservaspro/reservaspro/internal/notification"
	"github.com/reservaspro/reservaspro/internal/observability/metrics"
	"github.com/reservaspro/reservaspro/internal/orgcontext"
	"github.com/reservaspro/reservaspro/internal/providers/email"
	"github.com/reservaspro/reservaspro/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	Clock       clock.Clock
	Config      *config.LoyaltyConfigHolder
	Offerings   catalogdomain.Repository
	Clients     clientdomain.Service
	ClientRepo  clientdomain.Repository
	Levels      loyaltydomain.LevelTableReader
	LoyaltyRepo loyaltydomain.Repository
	Issuer      loyaltydomain.RewardIssuer
	Notifier    notification.Notifier
	Locker      locker.KeyLocker `optional:"true"`
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	clock       clock.Clock
	cfg         *config.LoyaltyConfigHolder
	offerings   catalogdomain.Repository
	clients     clientdomain.Service
	clientRepo  clientdomain.Repository
	levels      loyaltydomain.LevelTableReader
	loyaltyRepo loyaltydomain.Repository
	issuer      loyaltydomain.RewardIssuer
	notifier    notification.Notifier
	locker      locker.KeyLocker
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	s := &Service{
		db:          p.DB,
		log:         p.Log.Named("booking.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		clock:       p.Clock,
		cfg:         p.Config,
		offerings:   p.Offerings,
		clients:     p.Clients,
		clientRepo:  p.ClientRepo,
		levels:      p.Levels,
		loyaltyRepo: p.LoyaltyRepo,
		issuer:      p.Issuer,
		notifier:    p.Notifier,
		locker:      p.Locker,
		metrics:     p.Metrics,
	}
	if s.locker == nil {
		s.locker = locker.Noop{}
	}
	return s
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Booking, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.Booking{}, domain.ErrInvalidOrganization
	}
	offeringID, err := parseID(req.ServiceID)
	if err != nil {
		return domain.Booking{}, err
	}
	professionalID, err := parseID(req.ProfessionalID)
	if err != nil {
		return domain.Booking{}, err
	}
	if req.StartsAt.IsZero() {
		return domain.Booking{}, domain.ErrInvalidStartTime
	}

	clientName := strings.TrimSpace(req.ClientName)
	clientEmail := strings.ToLower(strings.TrimSpace(req.ClientEmail))
	if clientName == "" && clientEmail == "" {
		return domain.Booking{}, domain.ErrInvalidClient
	}

	offering, err := s.offerings.FindByID(ctx, s.db, orgID, offeringID)
	if err != nil {
		return domain.Booking{}, err
	}
	if offering == nil {
		return domain.Booking{}, catalogdomain.ErrNotFound
	}
	if !offering.Active {
		return domain.Booking{}, domain.ErrServiceInactive
	}

	start := req.StartsAt.UTC()
	end := start.Add(offering.Duration())

	unlock, err := s.locker.Lock(ctx, locker.ProfessionalKey(orgID.String(), professionalID.String()))
	if err != nil {
		return domain.Booking{}, err
	}
	defer unlock()

	if err := s.ensureSlotFree(ctx, s.db, orgID, professionalID, start, end); err != nil {
		return domain.Booking{}, err
	}

	var profileID *snowflake.ID
	if clientEmail != "" {
		name := clientName
		if name == "" {
			name = clientEmail
		}
		profile, err := s.clients.FindOrCreateByEmail(ctx, clientdomain.CreateRequest{
			Name:  name,
			Email: clientEmail,
			Phone: req.ClientPhone,
		})
		if err != nil {
			return domain.Booking{}, err
		}
		profileID = &profile.ID
		if clientName == "" {
			clientName = profile.Name
		}
		clientEmail = profile.Email
	}

	now := s.clock.Now()
	booking := domain.Booking{
		ID:              s.genID.Generate(),
		OrgID:           orgID,
		OfferingID:      offering.ID,
		ProfessionalID:  professionalID,
		ClientProfileID: profileID,
		ClientName:      clientName,
		ClientEmail:     clientEmail,
		ClientPhone:     strings.TrimSpace(req.ClientPhone),
		StartsAt:        start,
		EndsAt:          end,
		Price:           offering.Price,
		Status:          domain.StatusPending,
		Notes:           strings.TrimSpace(req.Notes),
		Metadata:        datatypes.JSONMap{"service_name": offering.Name},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureSlotFree(ctx, tx, orgID, professionalID, start, end); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, &booking)
	})
	if err != nil {
		return domain.Booking{}, err
	}

	s.log.Info("booking created",
		zap.String("org_id", orgID.String()),
		zap.String("booking_id", booking.ID.String()),
		zap.String("professional_id", professionalID.String()),
		zap.Time("starts_at", start),
	)

	if booking.ClientEmail == "" {
		return booking, nil
	}
	s.notifier.Notify(ctx, notification.Message{
		OrgID:    orgID.String(),
		To:       booking.ClientEmail,
		Template: email.TemplateBookingCreated,
		Data: map[string]any{
			"client_name":  booking.ClientName,
			"service_name": offering.Name,
			"starts_at":    start.Format("2006-01-02 15:04 MST"),
		},
	})
	return booking, nil
}

func (s *Service) ensureSlotFree(ctx context.Context, db *gorm.DB, orgID, professionalID snowflake.ID, start, end time.Time) error {
	count, err := s.repo.CountOverlapping(ctx, db, orgID, professionalID, start, end)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrSlotUnavailable
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Booking, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.Booking{}, domain.ErrInvalidOrganization
	}
	bookingID, err := parseID(id)
	if err != nil {
		return domain.Booking{}, err
	}
	booking, err := s.repo.FindByID(ctx, s.db, orgID, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking == nil {
		return domain.Booking{}, domain.ErrNotFound
	}
	return *booking, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ListResponse{}, domain.ErrInvalidOrganization
	}

	var filter domain.ListFilter
	if strings.TrimSpace(req.Status) != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.Status = status
	}
	if strings.TrimSpace(req.ProfessionalID) != "" {
		id, err := parseID(req.ProfessionalID)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.ProfessionalID = id
	}
	if strings.TrimSpace(req.ClientProfileID) != "" {
		id, err := parseID(req.ClientProfileID)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.ClientProfileID = id
	}
	filter.From = req.From
	filter.To = req.To

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	items, err := s.repo.List(ctx, s.db, orgID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListResponse{}, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(b *domain.Booking) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        b.ID.String(),
			CreatedAt: b.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	bookings := make([]domain.Booking, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		bookings = append(bookings, *item)
	}
	return domain.ListResponse{PageInfo: pageInfo, Bookings: bookings}, nil
}

func (s *Service) Confirm(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, domain.StatusConfirmed)
}

func (s *Service) Cancel(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, domain.StatusCancelled)
}

// transition applies a non-completion status change. Repeating the current
// status is a no-op.
func (s *Service) transition(ctx context.Context, id string, to domain.Status) (domain.Booking, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking.Status == to {
		return booking, nil
	}
	if !booking.Status.CanTransitionTo(to) {
		if booking.Status == domain.StatusCompleted {
			return domain.Booking{}, domain.ErrAlreadyCompleted
		}
		return domain.Booking{}, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	updated, err := s.repo.TransitionStatus(ctx, s.db, booking.OrgID, booking.ID, booking.Status, to, now)
	if err != nil {
		return domain.Booking{}, err
	}
	if !updated {
		return domain.Booking{}, domain.ErrInvalidTransition
	}

	booking.Status = to
	booking.UpdatedAt = now
	if to == domain.StatusCancelled {
		booking.CancelledAt = &now
	}
	s.log.Info("booking status changed",
		zap.String("org_id", booking.OrgID.String()),
		zap.String("booking_id", booking.ID.String()),
		zap.String("status", string(to)),
	)
	return booking, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
