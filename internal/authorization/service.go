package authorization

import (
	"context"
	"errors"
)

// Service decides whether an actor may perform an action on an object within an organization.
type Service interface {
	Authorize(ctx context.Context, actor string, orgID string, object string, action string) error
}

const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

var (
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidActor        = errors.New("invalid_actor")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidObject       = errors.New("invalid_object")
	ErrInvalidAction       = errors.New("invalid_action")
	ErrInvalidRole         = errors.New("invalid_role")
)

// ValidRole reports whether role is one of the tenant roles.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleStaff:
		return true
	default:
		return false
	}
}
