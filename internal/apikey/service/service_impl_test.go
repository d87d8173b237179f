package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	apikeydomain "github.com/reservaspro/reservaspro/internal/apikey/domain"
	"github.com/reservaspro/reservaspro/internal/apikey/repository"
	"github.com/reservaspro/reservaspro/internal/authorization"
	"github.com/reservaspro/reservaspro/internal/clock"
	"github.com/reservaspro/reservaspro/internal/orgcontext"
	dbpkg "github.com/reservaspro/reservaspro/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *clock.FakeClock, context.Context) {
	t.Helper()

	db := dbpkg.NewTest(t, &apikeydomain.APIKey{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: clk,
	}).(*Service)

	return svc, clk, orgcontext.WithOrgID(context.Background(), 100)
}

func TestCreateAndAuthenticate(t *testing.T) {
	svc, clk, ctx := newTestService(t)

	secret, err := svc.Create(ctx, apikeydomain.CreateRequest{Name: "front desk", Role: "Staff", Scopes: []string{"booking", " booking ", ""}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(secret.APIKey, apiKeyPrefix))

	clk.Advance(time.Minute)
	key, err := svc.Authenticate(context.Background(), secret.APIKey)
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(100), key.OrgID)
	assert.Equal(t, authorization.RoleStaff, key.Role)
	assert.Equal(t, []string{"booking"}, []string(key.Scopes))
	require.NotNil(t, key.LastUsedAt)
	assert.True(t, key.LastUsedAt.Equal(clk.Now()))

	assert.True(t, key.AllowsObject(authorization.ObjectBooking))
	assert.False(t, key.AllowsObject(authorization.ObjectLevelTable))

	_, err = svc.Authenticate(context.Background(), secret.APIKey+"x")
	assert.ErrorIs(t, err, apikeydomain.ErrUnauthorized)
	_, err = svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, apikeydomain.ErrUnauthorized)
}

func TestCreateValidation(t *testing.T) {
	svc, _, ctx := newTestService(t)

	_, err := svc.Create(ctx, apikeydomain.CreateRequest{Name: " "})
	assert.ErrorIs(t, err, apikeydomain.ErrInvalidName)

	_, err = svc.Create(ctx, apikeydomain.CreateRequest{Name: "x", Role: "root"})
	assert.ErrorIs(t, err, apikeydomain.ErrInvalidRole)

	_, err = svc.Create(context.Background(), apikeydomain.CreateRequest{Name: "x"})
	assert.ErrorIs(t, err, apikeydomain.ErrInvalidOrganization)
}

func TestCreateDefaultsToStaff(t *testing.T) {
	svc, _, ctx := newTestService(t)

	_, err := svc.Create(ctx, apikeydomain.CreateRequest{Name: "kiosk"})
	require.NoError(t, err)

	keys, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, authorization.RoleStaff, keys[0].Role)
	assert.Empty(t, keys[0].Scopes)
}

func TestRotateKeepsOldKeyDuringGracePeriod(t *testing.T) {
	svc, clk, ctx := newTestService(t)

	first, err := svc.Create(ctx, apikeydomain.CreateRequest{Name: "pos", Role: authorization.RoleAdmin})
	require.NoError(t, err)

	rotated, err := svc.Rotate(ctx, first.KeyID)
	require.NoError(t, err)
	assert.NotEqual(t, first.KeyID, rotated.KeyID)

	_, err = svc.Authenticate(context.Background(), first.APIKey)
	require.NoError(t, err)

	next, err := svc.Authenticate(context.Background(), rotated.APIKey)
	require.NoError(t, err)
	assert.Equal(t, authorization.RoleAdmin, next.Role)
	require.NotNil(t, next.RotatedFromKeyID)
	assert.Equal(t, first.KeyID, *next.RotatedFromKeyID)

	clk.Advance(apiKeyRotationGracePeriod)
	_, err = svc.Authenticate(context.Background(), first.APIKey)
	assert.ErrorIs(t, err, apikeydomain.ErrUnauthorized)

	_, err = svc.Rotate(ctx, first.KeyID)
	assert.ErrorIs(t, err, apikeydomain.ErrNotFound)
}

func TestRevoke(t *testing.T) {
	svc, _, ctx := newTestService(t)

	secret, err := svc.Create(ctx, apikeydomain.CreateRequest{Name: "pos"})
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, secret.KeyID))
	_, err = svc.Authenticate(context.Background(), secret.APIKey)
	assert.ErrorIs(t, err, apikeydomain.ErrUnauthorized)

	assert.ErrorIs(t, svc.Revoke(ctx, "key_missing"), apikeydomain.ErrNotFound)
	assert.ErrorIs(t, svc.Revoke(ctx, ""), apikeydomain.ErrInvalidKeyID)

	otherOrg := orgcontext.WithOrgID(context.Background(), 200)
	assert.ErrorIs(t, svc.Revoke(otherOrg, secret.KeyID), apikeydomain.ErrNotFound)
}

func TestEnsureBootstrapIsIdempotent(t *testing.T) {
	svc, _, ctx := newTestService(t)

	require.NoError(t, svc.EnsureBootstrap(context.Background(), 100, "rp_bootstrap_secret"))
	require.NoError(t, svc.EnsureBootstrap(context.Background(), 100, "rp_bootstrap_secret"))
	require.NoError(t, svc.EnsureBootstrap(context.Background(), 100, ""))

	keys, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, authorization.RoleOwner, keys[0].Role)

	key, err := svc.Authenticate(context.Background(), "rp_bootstrap_secret")
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(100), key.OrgID)

	assert.ErrorIs(t, svc.EnsureBootstrap(context.Background(), 0, "x"), apikeydomain.ErrInvalidOrganization)
}
