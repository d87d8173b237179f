package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/reservaspro/reservaspro/internal/audit/domain"
	"github.com/reservaspro/reservaspro/internal/audit/repository"
	"github.com/reservaspro/reservaspro/internal/clock"
	obscontext "github.com/reservaspro/reservaspro/internal/observability/context"
	"github.com/reservaspro/reservaspro/internal/orgcontext"
	dbpkg "github.com/reservaspro/reservaspro/pkg/db"
	"github.com/reservaspro/reservaspro/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (auditdomain.Service, *clock.FakeClock) {
	t.Helper()
	db := dbpkg.NewTest(t, &auditdomain.AuditLog{})
	node, err := snowflake.NewNode(5)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	return NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: fake,
	}), fake
}

func TestRecordUsesContextActorAndMasksContact(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := orgcontext.WithOrgID(context.Background(), 100)
	ctx = obscontext.WithActor(ctx, "api_key", "key_abc")
	ctx = obscontext.WithRequestID(ctx, "req-1")

	require.NoError(t, svc.Record(ctx, auditdomain.Entry{
		Action:     auditdomain.ActionClientProfileCreated,
		TargetType: auditdomain.TargetClientProfile,
		TargetID:   "42",
		Metadata:   map[string]any{"email": "ana@example.com", "name": "Ana"},
	}))

	resp, err := svc.List(ctx, auditdomain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)
	got := resp.AuditLogs[0]
	assert.Equal(t, snowflake.ID(100), got.OrgID)
	assert.Equal(t, "api_key", got.ActorType)
	assert.Equal(t, "key_abc", got.ActorID)
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, "42", got.TargetID)
	assert.Equal(t, "a****@example.com", got.Metadata["email"])
	assert.Equal(t, "Ana", got.Metadata["name"])
}

func TestRecordDefaultsToSystemActor(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := orgcontext.WithOrgID(context.Background(), 100)

	require.NoError(t, svc.Record(ctx, auditdomain.Entry{Action: auditdomain.ActionBookingCompleted}))

	resp, err := svc.List(ctx, auditdomain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)
	assert.Equal(t, "system", resp.AuditLogs[0].ActorType)
	assert.Equal(t, "unknown", resp.AuditLogs[0].TargetType)
}

func TestRecordRejectsMissingActionOrOrg(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Record(orgcontext.WithOrgID(context.Background(), 100), auditdomain.Entry{Action: " "})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidAction)

	err = svc.Record(context.Background(), auditdomain.Entry{Action: auditdomain.ActionAPIKeyCreated})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidOrganization)
}

func TestListIsTenantScopedAndPaginated(t *testing.T) {
	svc, fake := newTestService(t)
	orgA := orgcontext.WithOrgID(context.Background(), 100)
	orgB := orgcontext.WithOrgID(context.Background(), 200)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(orgA, auditdomain.Entry{Action: auditdomain.ActionAPIKeyRotated, TargetType: auditdomain.TargetAPIKey}))
		fake.Advance(time.Minute)
	}
	require.NoError(t, svc.Record(orgB, auditdomain.Entry{Action: auditdomain.ActionAPIKeyRevoked, TargetType: auditdomain.TargetAPIKey}))

	first, err := svc.List(orgA, auditdomain.ListAuditLogRequest{Pagination: pagination.Pagination{PageSize: 2}})
	require.NoError(t, err)
	require.Len(t, first.AuditLogs, 2)
	assert.True(t, first.HasMore)
	assert.True(t, first.AuditLogs[0].CreatedAt.After(first.AuditLogs[1].CreatedAt))

	second, err := svc.List(orgA, auditdomain.ListAuditLogRequest{
		Pagination: pagination.Pagination{PageSize: 2, PageToken: first.NextPageToken},
	})
	require.NoError(t, err)
	require.Len(t, second.AuditLogs, 1)
	assert.False(t, second.HasMore)

	other, err := svc.List(orgB, auditdomain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, other.AuditLogs, 1)
	assert.Equal(t, auditdomain.ActionAPIKeyRevoked, other.AuditLogs[0].Action)
}

func TestListValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := orgcontext.WithOrgID(context.Background(), 100)

	_, err := svc.List(ctx, auditdomain.ListAuditLogRequest{Pagination: pagination.Pagination{PageToken: "%%%"}})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidPageToken)

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err = svc.List(ctx, auditdomain.ListAuditLogRequest{StartAt: &start, EndAt: &end})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidTimeRange)

	_, err = svc.List(context.Background(), auditdomain.ListAuditLogRequest{})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidOrganization)
}
