package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	apikeydomain "github.com/reservaspro/reservaspro/internal/apikey/domain"
	"github.com/reservaspro/reservaspro/internal/config"
	organizationdomain "github.com/reservaspro/reservaspro/internal/organization/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultOrgName = "Main"
	defaultOrgSlug = "main"
)

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Orgs    organizationdomain.Service
	OrgRepo organizationdomain.Repository
	APIKeys apikeydomain.Service
}

// EnsureDefaults provisions the default tenant with its level table and
// registers the bootstrap API key when one is configured.
func EnsureDefaults(ctx context.Context, p Params) (*organizationdomain.Organization, error) {
	log := p.Log.Named("seed")

	org, err := ensureMainOrg(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("ensure default organization: %w", err)
	}

	if p.Config.BootstrapAPIKey != "" {
		if err := p.APIKeys.EnsureBootstrap(ctx, org.ID, p.Config.BootstrapAPIKey); err != nil {
			return nil, fmt.Errorf("ensure bootstrap api key: %w", err)
		}
	}

	log.Info("default organization ready",
		zap.String("org_id", org.ID.String()),
		zap.String("slug", org.Slug),
	)
	return org, nil
}

func ensureMainOrg(ctx context.Context, p Params) (*organizationdomain.Organization, error) {
	if p.Config.DefaultOrgID != 0 {
		id := snowflake.ID(p.Config.DefaultOrgID)
		org, err := p.Orgs.Get(ctx, id)
		if err == nil {
			return org, nil
		}
		if !errors.Is(err, organizationdomain.ErrNotFound) {
			return nil, err
		}
		return p.Orgs.Provision(ctx, organizationdomain.ProvisionRequest{ID: id, Name: defaultOrgName})
	}

	org, err := p.OrgRepo.FindBySlug(ctx, defaultOrgSlug)
	if err != nil {
		return nil, err
	}
	if org != nil {
		return org, nil
	}
	return p.Orgs.Provision(ctx, organizationdomain.ProvisionRequest{Name: defaultOrgName})
}
