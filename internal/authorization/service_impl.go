package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectLevelTable    = "level_table"
	ObjectService       = "service"
	ObjectClientProfile = "client_profile"
	ObjectReward        = "reward"
	ObjectBooking       = "booking"
	ObjectAPIKey        = "api_key"
	ObjectAuditLog      = "audit_log"
)

const (
	ActionLevelTableView    = "level_table.view"
	ActionLevelTableReplace = "level_table.replace"

	ActionServiceView   = "service.view"
	ActionServiceCreate = "service.create"
	ActionServiceUpdate = "service.update"

	ActionClientProfileView   = "client_profile.view"
	ActionClientProfileCreate = "client_profile.create"
	ActionClientProfileUpdate = "client_profile.update"
	ActionClientProfileExport = "client_profile.export"

	ActionRewardView = "reward.view"

	ActionBookingView     = "booking.view"
	ActionBookingCreate   = "booking.create"
	ActionBookingConfirm  = "booking.confirm"
	ActionBookingCancel   = "booking.cancel"
	ActionBookingComplete = "booking.complete"

	ActionAPIKeyView   = "api_key.view"
	ActionAPIKeyCreate = "api_key.create"
	ActionAPIKeyRotate = "api_key.rotate"
	ActionAPIKeyRevoke = "api_key.revoke"

	ActionAuditLogView = "audit_log.view"
)

const actorAPIKeyPrefix = "api_key:"

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

// Actor formats the subject used for an API key.
func Actor(apiKeyID snowflake.ID) string {
	return actorAPIKeyPrefix + apiKeyID.String()
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, orgID string, object string, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return ErrInvalidOrganization
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	parsedOrgID, err := snowflake.ParseString(orgID)
	if err != nil || parsedOrgID == 0 {
		return ErrInvalidOrganization
	}

	roleName, err := s.resolveRole(ctx, actor, parsedOrgID)
	if err != nil {
		s.logDenied(actor, orgID, object, action, err)
		return err
	}

	domain := fmt.Sprintf("org:%s", orgID)
	if err := s.ensureGrouping(actor, roleName, domain); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(actor, domain, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.logDenied(actor, orgID, object, action, ErrForbidden)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) resolveRole(ctx context.Context, actor string, orgID snowflake.ID) (string, error) {
	if !strings.HasPrefix(actor, actorAPIKeyPrefix) {
		return "", ErrInvalidActor
	}
	apiKeyID, err := snowflake.ParseString(strings.TrimPrefix(actor, actorAPIKeyPrefix))
	if err != nil || apiKeyID == 0 {
		return "", ErrInvalidActor
	}
	role, err := s.roleForAPIKey(ctx, orgID, apiKeyID)
	if err != nil {
		return "", err
	}
	return "role:" + role, nil
}

func (s *ServiceImpl) roleForAPIKey(ctx context.Context, orgID snowflake.ID, apiKeyID snowflake.ID) (string, error) {
	var row struct {
		Role string `gorm:"column:role"`
	}
	if err := s.db.WithContext(ctx).Raw(
		`SELECT role
		 FROM api_keys
		 WHERE org_id = ? AND id = ? AND is_active = ?
		 LIMIT 1`,
		orgID,
		apiKeyID,
		true,
	).Scan(&row).Error; err != nil {
		return "", err
	}

	role := strings.ToLower(strings.TrimSpace(row.Role))
	if !ValidRole(role) {
		return "", ErrForbidden
	}
	return role, nil
}

// ensureGrouping keeps exactly one role per subject and domain, so a role change on the key takes effect.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string, domain string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", domain)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 || rule[1] == roleName {
			continue
		}
		params := make([]interface{}, 0, len(rule))
		for _, value := range rule {
			params = append(params, value)
		}
		if _, err := s.enforcer.RemoveGroupingPolicy(params...); err != nil {
			return err
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, domain)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, domain)
	return err
}

func (s *ServiceImpl) logDenied(actor, orgID, object, action string, reason error) {
	s.log.Info("authorization denied",
		zap.String("actor", actor),
		zap.String("org_id", orgID),
		zap.String("object", object),
		zap.String("action", action),
		zap.Error(reason),
	)
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	staff := [][2]string{
		{ObjectService, ActionServiceView},
		{ObjectClientProfile, ActionClientProfileView},
		{ObjectReward, ActionRewardView},
		{ObjectBooking, ActionBookingView},
		{ObjectBooking, ActionBookingCreate},
		{ObjectBooking, ActionBookingConfirm},
		{ObjectBooking, ActionBookingCancel},
		{ObjectBooking, ActionBookingComplete},
	}
	admin := append([][2]string{
		{ObjectLevelTable, ActionLevelTableView},
		{ObjectLevelTable, ActionLevelTableReplace},
		{ObjectService, ActionServiceCreate},
		{ObjectService, ActionServiceUpdate},
		{ObjectClientProfile, ActionClientProfileCreate},
		{ObjectClientProfile, ActionClientProfileUpdate},
		{ObjectClientProfile, ActionClientProfileExport},
		{ObjectAPIKey, ActionAPIKeyView},
		{ObjectAPIKey, ActionAPIKeyCreate},
		{ObjectAPIKey, ActionAPIKeyRotate},
	}, staff...)
	owner := append([][2]string{
		{ObjectAPIKey, ActionAPIKeyRevoke},
		{ObjectAuditLog, ActionAuditLogView},
	}, admin...)

	policies := make([][]string, 0, len(staff)+len(admin)+len(owner))
	for _, rule := range staff {
		policies = append(policies, []string{"role:" + RoleStaff, rule[0], rule[1]})
	}
	for _, rule := range admin {
		policies = append(policies, []string{"role:" + RoleAdmin, rule[0], rule[1]})
	}
	for _, rule := range owner {
		policies = append(policies, []string{"role:" + RoleOwner, rule[0], rule[1]})
	}

	for _, policy := range policies {
		has, err := enforcer.HasPolicy(policy)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
