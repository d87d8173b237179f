package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ProvisionRequest struct {
	ID           snowflake.ID
	Name         string
	SupportEmail string
	TimezoneName string
}

// Service provisions tenants and exposes the active one.
type Service interface {
	Provision(ctx context.Context, req ProvisionRequest) (*Organization, error)
	Current(ctx context.Context) (*Organization, error)
	Get(ctx context.Context, id snowflake.ID) (*Organization, error)
}

// LevelSeeder installs the default level table for a new tenant. It runs in
// the provisioning transaction.
type LevelSeeder interface {
	SeedDefaultLevels(ctx context.Context, tx *gorm.DB, orgID snowflake.ID) error
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrNotFound            = errors.New("not_found")
	ErrAlreadyExists       = errors.New("organization_exists")
)
