package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang/mock/gomock"
	"github.com/reservaspro/reservaspro/internal/booking/domain"
	"github.com/reservaspro/reservaspro/internal/booking/domain/mocks"
	"github.com/reservaspro/reservaspro/internal/booking/repository"
	catalogdomain "github.com/reservaspro/reservaspro/internal/catalog/domain"
	catalogrepo "github.com/reservaspro/reservaspro/internal/catalog/repository"
	clientdomain "github.com/reservaspro/reservaspro/internal/clientprofile/domain"
	clientrepo "github.com/reservaspro/reservaspro/internal/clientprofile/repository"
	clientservice "github.com/reservaspro/reservaspro/internal/clientprofile/service"
	"github.com/reservaspro/reservaspro/internal/clock"
	"github.com/reservaspro/reservaspro/internal/config"
	loyaltydomain "github.com/reservaspro/reservaspro/internal/loyalty/domain"
	loyaltyrepo "github.com/reservaspro/reservaspro/internal/loyalty/repository"
	loyaltyservice "github.com/reservaspro/reservaspro/internal/loyalty/service"
	"github.com/reservaspro/reservaspro/internal/notification"
	"github.com/reservaspro/reservaspro/internal/orgcontext"
	dbpkg "github.com/reservaspro/reservaspro/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testOrgID          = snowflake.ID(4004)
	testProfessionalID = "1234567"
)

var testNow = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notification.Message
}

func (n *recordingNotifier) Notify(_ context.Context, msg notification.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recordingNotifier) Templates() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.msgs))
	for _, m := range n.msgs {
		out = append(out, m.Template)
	}
	return out
}

// staleProfiles fails the version check for the first n progress writes.
type staleProfiles struct {
	clientdomain.Repository
	failures int
	calls    int
}

func (r *staleProfiles) ApplyProgress(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, expectedVersion int64, p clientdomain.Progress) (bool, error) {
	r.calls++
	if r.calls <= r.failures {
		return false, nil
	}
	return r.Repository.ApplyProgress(ctx, db, orgID, id, expectedVersion, p)
}

type fixture struct {
	db         *gorm.DB
	clock      *clock.FakeClock
	ctx        context.Context
	node       *snowflake.Node
	loyalty    *loyaltyservice.Service
	clients    clientdomain.Service
	clientRepo clientdomain.Repository
	offerings  catalogdomain.Repository
	notifier   *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbpkg.NewTest(t,
		&domain.Booking{},
		&catalogdomain.Offering{},
		&clientdomain.ClientProfile{},
		&loyaltydomain.LoyaltyLevel{},
		&loyaltydomain.EarnedReward{},
		&loyaltydomain.XPHistoryEntry{},
	)
	node, err := snowflake.NewNode(4)
	require.NoError(t, err)
	fc := clock.NewFakeClock(testNow)
	cfg := config.NewStaticLoyaltyConfig(config.DefaultLoyaltyConfig())

	loyalty := loyaltyservice.NewService(loyaltyservice.Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   loyaltyrepo.Provide(),
		Clock:  fc,
		Config: cfg,
	})
	ctx := orgcontext.WithOrgID(context.Background(), int64(testOrgID))
	require.NoError(t, loyalty.SeedDefaultLevels(ctx, db, testOrgID))

	clientRepo := clientrepo.Provide()
	clients := clientservice.New(clientservice.Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   clientRepo,
		Clock:  fc,
		Levels: loyalty,
	})

	return &fixture{
		db:         db,
		clock:      fc,
		ctx:        ctx,
		node:       node,
		loyalty:    loyalty,
		clients:    clients,
		clientRepo: clientRepo,
		offerings:  catalogrepo.Provide(),
		notifier:   &recordingNotifier{},
	}
}

type overrides struct {
	issuer     loyaltydomain.RewardIssuer
	notifier   notification.Notifier
	clientRepo clientdomain.Repository
}

func (f *fixture) service(o overrides) *Service {
	p := Params{
		DB:          f.db,
		Log:         zap.NewNop(),
		GenID:       f.node,
		Repo:        repository.Provide(),
		Clock:       f.clock,
		Config:      config.NewStaticLoyaltyConfig(config.DefaultLoyaltyConfig()),
		Offerings:   f.offerings,
		Clients:     f.clients,
		ClientRepo:  f.clientRepo,
		Levels:      f.loyalty,
		LoyaltyRepo: loyaltyrepo.Provide(),
		Issuer:      f.loyalty,
		Notifier:    f.notifier,
	}
	if o.issuer != nil {
		p.Issuer = o.issuer
	}
	if o.notifier != nil {
		p.Notifier = o.notifier
	}
	if o.clientRepo != nil {
		p.ClientRepo = o.clientRepo
	}
	return New(p).(*Service)
}

func (f *fixture) offering(t *testing.T, name string, xp *int) catalogdomain.Offering {
	t.Helper()
	o := catalogdomain.Offering{
		ID:              f.node.Generate(),
		OrgID:           testOrgID,
		Name:            name,
		Price:           4500,
		DurationMinutes: 45,
		XPValue:         xp,
		Active:          true,
		CreatedAt:       testNow,
		UpdatedAt:       testNow,
	}
	require.NoError(t, f.offerings.Create(f.ctx, f.db, &o))
	return o
}

// withXP puts an existing profile at the given XP and level.
func (f *fixture) withXP(t *testing.T, email string, xp, level int, levelName string) clientdomain.ClientProfile {
	t.Helper()
	profile, err := f.clients.FindOrCreateByEmail(f.ctx, clientdomain.CreateRequest{Name: "Client", Email: email})
	require.NoError(t, err)
	ok, err := f.clientRepo.ApplyProgress(f.ctx, f.db, testOrgID, profile.ID, profile.Version, clientdomain.Progress{
		TotalXP:      xp,
		CurrentLevel: level,
		LevelName:    levelName,
		LastVisit:    testNow,
	})
	require.NoError(t, err)
	require.True(t, ok)
	updated, err := f.clients.Get(f.ctx, profile.ID.String())
	require.NoError(t, err)
	return updated
}

func (f *fixture) book(t *testing.T, svc *Service, offering catalogdomain.Offering, email string, start time.Time) domain.Booking {
	t.Helper()
	b, err := svc.Create(f.ctx, domain.CreateRequest{
		ServiceID:      offering.ID.String(),
		ProfessionalID: testProfessionalID,
		StartsAt:       start,
		ClientName:     "Client",
		ClientEmail:    email,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) rewards(t *testing.T, profileID snowflake.ID) []loyaltydomain.EarnedReward {
	t.Helper()
	rewards, err := f.loyalty.ListRewards(f.ctx, profileID.String())
	require.NoError(t, err)
	return rewards
}

func intPtr(v int) *int { return &v }

func TestCompleteLevelUpIssuesReward(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})
	profile := f.withXP(t, "ana@example.com", 450, 1, "Bronze")
	booking := f.book(t, svc, f.offering(t, "Haircut", intPtr(100)), profile.Email, testNow.Add(time.Hour))

	result, err := svc.Complete(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 100, result.XPAwarded)
	assert.True(t, result.LevelUp)
	require.NotNil(t, result.NewLevel)
	assert.Equal(t, 2, result.NewLevel.LevelNumber)
	assert.Equal(t, "Silver", result.NewLevel.Name)
	require.NotNil(t, result.Reward)
	assert.Equal(t, loyaltydomain.RewardTypeDiscountPercent, result.Reward.RewardType)
	assert.Equal(t, int64(5), result.Reward.RewardValue)
	assert.True(t, result.Reward.ExpiresAt.Equal(testNow.Add(90*24*time.Hour)))
	assert.Empty(t, result.RewardError)

	stored, err := f.clients.Get(f.ctx, profile.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 550, stored.TotalXP)
	assert.Equal(t, 2, stored.CurrentLevel)
	assert.Equal(t, "Silver", stored.LevelName)
	assert.Equal(t, 1, stored.TotalVisits)
	assert.Equal(t, int64(4500), stored.TotalSpent)
	assert.Equal(t, profile.Version+1, stored.Version)

	history, err := f.loyalty.ListXPHistory(f.ctx, profile.ID.String(), 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 100, history[0].XPAmount)
	assert.Equal(t, "Service completed: Haircut", history[0].Reason)
	assert.Equal(t, booking.ID, history[0].BookingID)

	got, err := svc.Get(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	assert.Equal(t, []string{"booking_created", "booking_completed"}, f.notifier.Templates())
}

func TestCompleteWithoutLevelUp(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})
	booking := f.book(t, svc, f.offering(t, "Wash", intPtr(50)), "bruno@example.com", testNow.Add(time.Hour))

	result, err := svc.Complete(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 50, result.XPAwarded)
	assert.False(t, result.LevelUp)
	assert.Nil(t, result.NewLevel)
	assert.Nil(t, result.Reward)

	require.NotNil(t, booking.ClientProfileID)
	stored, err := f.clients.Get(f.ctx, booking.ClientProfileID.String())
	require.NoError(t, err)
	assert.Equal(t, 50, stored.TotalXP)
	assert.Equal(t, 1, stored.CurrentLevel)
	assert.Empty(t, f.rewards(t, stored.ID))
}

func TestCompleteUsesDefaultXP(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})
	booking := f.book(t, svc, f.offering(t, "Trim", nil), "carla@example.com", testNow.Add(time.Hour))

	result, err := svc.Complete(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLoyaltyConfig().DefaultXP, result.XPAwarded)
}

func TestCompleteWithoutClientProfile(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})
	offering := f.offering(t, "Walk-in", intPtr(100))

	booking, err := svc.Create(f.ctx, domain.CreateRequest{
		ServiceID:      offering.ID.String(),
		ProfessionalID: testProfessionalID,
		StartsAt:       testNow.Add(time.Hour),
		ClientName:     "Walk-in guest",
	})
	require.NoError(t, err)
	assert.Nil(t, booking.ClientProfileID)

	result, err := svc.Complete(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, result.XPAwarded)
	assert.False(t, result.LevelUp)
	assert.Nil(t, result.Reward)

	got, err := svc.Get(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Empty(t, f.notifier.Templates())
}

func TestCompleteMultiLevelJumpIssuesOnlyLandedReward(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})
	booking := f.book(t, svc, f.offering(t, "Spa day", intPtr(3200)), "dora@example.com", testNow.Add(time.Hour))

	result, err := svc.Complete(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.True(t, result.LevelUp)
	require.NotNil(t, result.NewLevel)
	assert.Equal(t, 4, result.NewLevel.LevelNumber)
	require.NotNil(t, result.Reward)
	assert.Equal(t, loyaltydomain.RewardTypeFreeService, result.Reward.RewardType)

	rewards := f.rewards(t, *booking.ClientProfileID)
	require.Len(t, rewards, 1)
	assert.Equal(t, 4, rewards[0].LevelNumber)
}

func TestCompleteTwiceIsRejected(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})
	booking := f.book(t, svc, f.offering(t, "Haircut", intPtr(100)), "eva@example.com", testNow.Add(time.Hour))

	_, err := svc.Complete(f.ctx, booking.ID.String())
	require.NoError(t, err)
	_, err = svc.Complete(f.ctx, booking.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)

	stored, err := f.clients.Get(f.ctx, booking.ClientProfileID.String())
	require.NoError(t, err)
	assert.Equal(t, 100, stored.TotalXP)
	assert.Equal(t, 1, stored.TotalVisits)

	history, err := f.loyalty.ListXPHistory(f.ctx, stored.ID.String(), 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCompleteMissingAndCancelledBookings(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})

	_, err := svc.Complete(f.ctx, f.node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Complete(f.ctx, "bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	booking := f.book(t, svc, f.offering(t, "Haircut", intPtr(100)), "fabio@example.com", testNow.Add(time.Hour))
	_, err = svc.Cancel(f.ctx, booking.ID.String())
	require.NoError(t, err)
	_, err = svc.Complete(f.ctx, booking.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRewardFailureKeepsXPGrant(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	issuer := mocks.NewMockRewardIssuer(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	issuer.EXPECT().
		Issue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req loyaltydomain.IssueRewardRequest) (*loyaltydomain.EarnedReward, error) {
			assert.Equal(t, 2, req.Level.LevelNumber)
			return nil, errors.New("reward store unavailable")
		})
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(2)

	svc := f.service(overrides{issuer: issuer, notifier: notifier})
	profile := f.withXP(t, "gabi@example.com", 450, 1, "Bronze")
	booking := f.book(t, svc, f.offering(t, "Haircut", intPtr(100)), profile.Email, testNow.Add(time.Hour))

	result, err := svc.Complete(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.True(t, result.LevelUp)
	assert.Nil(t, result.Reward)
	assert.Equal(t, domain.RewardIssueFailed, result.RewardError)

	stored, err := f.clients.Get(f.ctx, profile.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 550, stored.TotalXP)
	assert.Equal(t, 2, stored.CurrentLevel)
}

func TestLevelWithoutRewardSkipsIssuer(t *testing.T) {
	f := newFixture(t)
	_, err := f.loyalty.ReplaceLevelTable(f.ctx, loyaltydomain.ReplaceLevelTableRequest{Levels: []loyaltydomain.LevelInput{
		{LevelNumber: 1, Name: "Start", MinXP: 0},
		{LevelNumber: 2, Name: "Regular", MinXP: 100},
	}})
	require.NoError(t, err)

	svc := f.service(overrides{})
	booking := f.book(t, svc, f.offering(t, "Haircut", intPtr(150)), "hugo@example.com", testNow.Add(time.Hour))

	result, err := svc.Complete(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.True(t, result.LevelUp)
	assert.Nil(t, result.Reward)
	assert.Empty(t, result.RewardError)
}

func TestStaleProfileVersionIsRetried(t *testing.T) {
	f := newFixture(t)
	repo := &staleProfiles{Repository: f.clientRepo, failures: 1}
	svc := f.service(overrides{clientRepo: repo})
	booking := f.book(t, svc, f.offering(t, "Haircut", intPtr(100)), "ines@example.com", testNow.Add(time.Hour))

	result, err := svc.Complete(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 100, result.XPAwarded)
	assert.Equal(t, 2, repo.calls)

	history, err := f.loyalty.ListXPHistory(f.ctx, booking.ClientProfileID.String(), 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestPersistentConflictRollsBackCompletion(t *testing.T) {
	f := newFixture(t)
	repo := &staleProfiles{Repository: f.clientRepo, failures: maxCompletionAttempts}
	svc := f.service(overrides{clientRepo: repo})
	booking := f.book(t, svc, f.offering(t, "Haircut", intPtr(100)), "joao@example.com", testNow.Add(time.Hour))

	_, err := svc.Complete(f.ctx, booking.ID.String())
	assert.ErrorIs(t, err, clientdomain.ErrConcurrentUpdate)

	got, err := svc.Get(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	stored, err := f.clients.Get(f.ctx, booking.ClientProfileID.String())
	require.NoError(t, err)
	assert.Zero(t, stored.TotalXP)
}

func TestSuccessiveCompletionsNeverLowerLevel(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})
	offering := f.offering(t, "Haircut", intPtr(300))

	var (
		lastLevel int
		profileID snowflake.ID
	)
	for i := 0; i < 5; i++ {
		booking := f.book(t, svc, offering, "kai@example.com", testNow.Add(time.Duration(i+1)*time.Hour))
		_, err := svc.Complete(f.ctx, booking.ID.String())
		require.NoError(t, err)

		profileID = *booking.ClientProfileID
		stored, err := f.clients.Get(f.ctx, profileID.String())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, stored.CurrentLevel, lastLevel)
		lastLevel = stored.CurrentLevel
	}
	assert.Equal(t, 3, lastLevel)

	// Silver at 600 XP and Gold at 1500 XP
	assert.Len(t, f.rewards(t, profileID), 2)
}

func TestRaisedThresholdsKeepHeldLevel(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})
	profile := f.withXP(t, "gold@example.com", 1500, 3, "Gold")

	_, err := f.loyalty.ReplaceLevelTable(f.ctx, loyaltydomain.ReplaceLevelTableRequest{Levels: []loyaltydomain.LevelInput{
		{LevelNumber: 1, Name: "Bronze", MinXP: 0, RewardType: loyaltydomain.RewardTypeNone},
		{LevelNumber: 2, Name: "Silver", MinXP: 2000, RewardType: loyaltydomain.RewardTypeNone},
		{LevelNumber: 3, Name: "Gold", MinXP: 5000, RewardType: loyaltydomain.RewardTypeNone},
	}})
	require.NoError(t, err)

	booking := f.book(t, svc, f.offering(t, "Haircut", intPtr(100)), profile.Email, testNow.Add(time.Hour))
	result, err := svc.Complete(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.False(t, result.LevelUp)
	assert.Nil(t, result.Reward)

	stored, err := f.clients.Get(f.ctx, profile.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1600, stored.TotalXP)
	assert.Equal(t, 3, stored.CurrentLevel)
	assert.Equal(t, "Gold", stored.LevelName)
}

func TestRemovedTopLevelFallsBackToHighestRemaining(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})
	profile := f.withXP(t, "plat@example.com", 3200, 4, "Platinum")

	_, err := f.loyalty.ReplaceLevelTable(f.ctx, loyaltydomain.ReplaceLevelTableRequest{Levels: []loyaltydomain.LevelInput{
		{LevelNumber: 1, Name: "Bronze", MinXP: 0, RewardType: loyaltydomain.RewardTypeNone},
		{LevelNumber: 2, Name: "Silver", MinXP: 4000, RewardType: loyaltydomain.RewardTypeNone},
		{LevelNumber: 3, Name: "Gold", MinXP: 8000, RewardType: loyaltydomain.RewardTypeNone},
	}})
	require.NoError(t, err)

	booking := f.book(t, svc, f.offering(t, "Haircut", intPtr(100)), profile.Email, testNow.Add(time.Hour))
	_, err = svc.Complete(f.ctx, booking.ID.String())
	require.NoError(t, err)

	stored, err := f.clients.Get(f.ctx, profile.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CurrentLevel)
	assert.Equal(t, "Gold", stored.LevelName)
}

func TestCreateRejectsOverlappingSlot(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})
	offering := f.offering(t, "Haircut", nil)
	start := testNow.Add(2 * time.Hour)

	first := f.book(t, svc, offering, "lia@example.com", start)
	assert.True(t, first.EndsAt.Equal(start.Add(45*time.Minute)))
	assert.Equal(t, offering.Price, first.Price)
	assert.Equal(t, domain.StatusPending, first.Status)

	_, err := svc.Create(f.ctx, domain.CreateRequest{
		ServiceID:      offering.ID.String(),
		ProfessionalID: testProfessionalID,
		StartsAt:       start.Add(30 * time.Minute),
		ClientName:     "Other",
	})
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)

	_, err = svc.Create(f.ctx, domain.CreateRequest{
		ServiceID:      offering.ID.String(),
		ProfessionalID: "7654321",
		StartsAt:       start.Add(30 * time.Minute),
		ClientName:     "Other",
	})
	require.NoError(t, err)

	back := f.book(t, svc, offering, "lia@example.com", start.Add(45*time.Minute))
	assert.Equal(t, first.ClientProfileID, back.ClientProfileID)

	_, err = svc.Cancel(f.ctx, first.ID.String())
	require.NoError(t, err)
	f.book(t, svc, offering, "max@example.com", start)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})
	offering := f.offering(t, "Haircut", nil)

	_, err := svc.Create(f.ctx, domain.CreateRequest{ServiceID: "x", ProfessionalID: testProfessionalID, StartsAt: testNow, ClientName: "a"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	_, err = svc.Create(f.ctx, domain.CreateRequest{ServiceID: offering.ID.String(), ProfessionalID: testProfessionalID, ClientName: "a"})
	assert.ErrorIs(t, err, domain.ErrInvalidStartTime)
	_, err = svc.Create(f.ctx, domain.CreateRequest{ServiceID: offering.ID.String(), ProfessionalID: testProfessionalID, StartsAt: testNow})
	assert.ErrorIs(t, err, domain.ErrInvalidClient)
	_, err = svc.Create(f.ctx, domain.CreateRequest{ServiceID: f.node.Generate().String(), ProfessionalID: testProfessionalID, StartsAt: testNow, ClientName: "a"})
	assert.ErrorIs(t, err, catalogdomain.ErrNotFound)
	_, err = svc.Create(f.ctx, domain.CreateRequest{ServiceID: offering.ID.String(), ProfessionalID: testProfessionalID, StartsAt: testNow, ClientEmail: "nope"})
	assert.ErrorIs(t, err, clientdomain.ErrInvalidEmail)
}

func TestConfirmAndCancelTransitions(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})
	booking := f.book(t, svc, f.offering(t, "Haircut", nil), "nina@example.com", testNow.Add(time.Hour))

	confirmed, err := svc.Confirm(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)

	again, err := svc.Confirm(f.ctx, booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, again.Status)

	_, err = svc.Complete(f.ctx, booking.ID.String())
	require.NoError(t, err)

	_, err = svc.Cancel(f.ctx, booking.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
}

func TestListFiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	svc := f.service(overrides{})
	offering := f.offering(t, "Haircut", nil)

	for i := 0; i < 3; i++ {
		f.book(t, svc, offering, "olga@example.com", testNow.Add(time.Duration(i+1)*time.Hour))
		f.clock.Advance(time.Minute)
	}

	page, err := svc.List(f.ctx, domain.ListRequest{PageSize: 2, Status: "pending"})
	require.NoError(t, err)
	require.Len(t, page.Bookings, 2)
	assert.True(t, page.HasMore)

	next, err := svc.List(f.ctx, domain.ListRequest{PageSize: 2, Status: "pending", PageToken: page.NextPageToken})
	require.NoError(t, err)
	require.Len(t, next.Bookings, 1)
	assert.False(t, next.HasMore)

	completed, err := svc.List(f.ctx, domain.ListRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Empty(t, completed.Bookings)

	_, err = svc.List(f.ctx, domain.ListRequest{Status: "unknown"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
