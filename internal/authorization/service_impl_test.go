package authorization

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	dbpkg "github.com/reservaspro/reservaspro/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type apiKeyRow struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	OrgID    snowflake.ID `gorm:"column:org_id"`
	Role     string       `gorm:"column:role"`
	IsActive bool         `gorm:"column:is_active"`
}

func (apiKeyRow) TableName() string { return "api_keys" }

func newTestAuthorizer(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := dbpkg.NewTest(t, &apiKeyRow{})
	enforcer, err := NewEnforcer(db)
	require.NoError(t, err)

	return NewService(Params{DB: db, Log: zap.NewNop(), Enforcer: enforcer}), db
}

func seedKey(t *testing.T, db *gorm.DB, id, orgID snowflake.ID, role string, active bool) {
	t.Helper()
	require.NoError(t, db.Create(&apiKeyRow{ID: id, OrgID: orgID, Role: role, IsActive: active}).Error)
}

func TestAuthorizeRoles(t *testing.T) {
	svc, db := newTestAuthorizer(t)
	ctx := context.Background()
	org := snowflake.ID(100)

	seedKey(t, db, 1, org, RoleOwner, true)
	seedKey(t, db, 2, org, RoleAdmin, true)
	seedKey(t, db, 3, org, RoleStaff, true)

	cases := []struct {
		name    string
		key     snowflake.ID
		object  string
		action  string
		allowed bool
	}{
		{"staff completes booking", 3, ObjectBooking, ActionBookingComplete, true},
		{"staff reads profiles", 3, ObjectClientProfile, ActionClientProfileView, true},
		{"staff reads services", 3, ObjectService, ActionServiceView, true},
		{"staff cannot create service", 3, ObjectService, ActionServiceCreate, false},
		{"staff cannot replace levels", 3, ObjectLevelTable, ActionLevelTableReplace, false},
		{"staff cannot export profiles", 3, ObjectClientProfile, ActionClientProfileExport, false},
		{"admin replaces levels", 2, ObjectLevelTable, ActionLevelTableReplace, true},
		{"admin creates service", 2, ObjectService, ActionServiceCreate, true},
		{"admin cannot revoke keys", 2, ObjectAPIKey, ActionAPIKeyRevoke, false},
		{"owner revokes keys", 1, ObjectAPIKey, ActionAPIKeyRevoke, true},
		{"owner completes booking", 1, ObjectBooking, ActionBookingComplete, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Authorize(ctx, Actor(tc.key), org.String(), tc.object, tc.action)
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestAuthorizeKeyScopedToOrganization(t *testing.T) {
	svc, db := newTestAuthorizer(t)
	ctx := context.Background()

	seedKey(t, db, 1, 100, RoleOwner, true)
	seedKey(t, db, 2, 100, RoleOwner, false)

	assert.NoError(t, svc.Authorize(ctx, Actor(1), "100", ObjectBooking, ActionBookingView))
	assert.ErrorIs(t, svc.Authorize(ctx, Actor(1), "200", ObjectBooking, ActionBookingView), ErrForbidden)
	assert.ErrorIs(t, svc.Authorize(ctx, Actor(2), "100", ObjectBooking, ActionBookingView), ErrForbidden)
}

func TestAuthorizeFollowsRoleChange(t *testing.T) {
	svc, db := newTestAuthorizer(t)
	ctx := context.Background()

	seedKey(t, db, 1, 100, RoleAdmin, true)
	require.NoError(t, svc.Authorize(ctx, Actor(1), "100", ObjectLevelTable, ActionLevelTableReplace))

	require.NoError(t, db.Model(&apiKeyRow{}).Where("id = ?", 1).Update("role", RoleStaff).Error)
	assert.ErrorIs(t, svc.Authorize(ctx, Actor(1), "100", ObjectLevelTable, ActionLevelTableReplace), ErrForbidden)
}

func TestAuthorizeRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestAuthorizer(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Authorize(ctx, "", "100", ObjectBooking, ActionBookingView), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, "system", "100", ObjectBooking, ActionBookingView), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, "user:1", "100", ObjectBooking, ActionBookingView), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, "api_key:abc", "100", ObjectBooking, ActionBookingView), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, Actor(1), "", ObjectBooking, ActionBookingView), ErrInvalidOrganization)
	assert.ErrorIs(t, svc.Authorize(ctx, Actor(1), "nope", ObjectBooking, ActionBookingView), ErrInvalidOrganization)
	assert.ErrorIs(t, svc.Authorize(ctx, Actor(1), "100", "", ActionBookingView), ErrInvalidObject)
	assert.ErrorIs(t, svc.Authorize(ctx, Actor(1), "100", ObjectBooking, " "), ErrInvalidAction)
}

func TestNewEnforcerIsIdempotent(t *testing.T) {
	db := dbpkg.NewTest(t, &apiKeyRow{})

	first, err := NewEnforcer(db)
	require.NoError(t, err)
	second, err := NewEnforcer(db)
	require.NoError(t, err)

	firstPolicies, err := first.GetPolicy()
	require.NoError(t, err)
	secondPolicies, err := second.GetPolicy()
	require.NoError(t, err)
	assert.Equal(t, len(firstPolicies), len(secondPolicies))
}
