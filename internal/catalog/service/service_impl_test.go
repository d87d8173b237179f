package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reservaspro/reservaspro/internal/catalog/domain"
	"github.com/reservaspro/reservaspro/internal/catalog/repository"
	"github.com/reservaspro/reservaspro/internal/clock"
	"github.com/reservaspro/reservaspro/internal/orgcontext"
	dbpkg "github.com/reservaspro/reservaspro/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock, context.Context) {
	t.Helper()
	db := dbpkg.NewTest(t, &domain.Offering{})
	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: fc,
	})
	return svc, fc, orgcontext.WithOrgID(context.Background(), 501)
}

func intPtr(v int) *int { return &v }

func TestCreateAndGet(t *testing.T) {
	svc, _, ctx := newTestService(t)

	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:            " Haircut ",
		Price:           4500,
		DurationMinutes: 45,
		XPValue:         intPtr(100),
	})
	require.NoError(t, err)
	assert.Equal(t, "Haircut", created.Name)
	assert.True(t, created.Active)
	assert.Equal(t, 45*time.Minute, created.Duration())

	got, err := svc.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(4500), got.Price)
	require.NotNil(t, got.XPValue)
	assert.Equal(t, 100, got.XPFor(10))

	_, err = svc.Get(orgcontext.WithOrgID(context.Background(), 777), created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	svc, _, ctx := newTestService(t)

	tests := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{name: "missing name", req: domain.CreateRequest{DurationMinutes: 30}, want: domain.ErrInvalidName},
		{name: "negative price", req: domain.CreateRequest{Name: "x", Price: -1, DurationMinutes: 30}, want: domain.ErrInvalidPrice},
		{name: "zero duration", req: domain.CreateRequest{Name: "x"}, want: domain.ErrInvalidDuration},
		{name: "negative xp", req: domain.CreateRequest{Name: "x", DurationMinutes: 30, XPValue: intPtr(-5)}, want: domain.ErrInvalidXPValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := svc.Create(context.Background(), domain.CreateRequest{Name: "x", DurationMinutes: 30})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestXPForFallsBackToDefault(t *testing.T) {
	assert.Equal(t, 10, domain.Offering{}.XPFor(10))
	assert.Equal(t, 10, domain.Offering{XPValue: intPtr(0)}.XPFor(10))
	assert.Equal(t, 40, domain.Offering{XPValue: intPtr(40)}.XPFor(10))
}

func TestListAndUpdate(t *testing.T) {
	svc, fc, ctx := newTestService(t)

	cut, err := svc.Create(ctx, domain.CreateRequest{Name: "Cut", Price: 3000, DurationMinutes: 30})
	require.NoError(t, err)
	fc.Advance(time.Minute)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Color", Price: 9000, DurationMinutes: 90})
	require.NoError(t, err)

	items, err := svc.List(ctx, domain.ListRequest{SortBy: "price", OrderBy: "asc"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Cut", items[0].Name)

	inactive := false
	price := int64(3500)
	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: cut.ID.String(), Active: &inactive, Price: &price, XPValue: intPtr(25)})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	active := true
	items, err = svc.List(ctx, domain.ListRequest{Active: &active})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Color", items[0].Name)

	got, err := svc.Get(ctx, cut.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(3500), got.Price)
	assert.Equal(t, 25, got.XPFor(10))
}
