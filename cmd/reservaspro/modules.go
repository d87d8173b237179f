package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/reservaspro/reservaspro/internal/apikey"
	"github.com/reservaspro/reservaspro/internal/clientprofile"
	"github.com/reservaspro/reservaspro/internal/clock"
	"github.com/reservaspro/reservaspro/internal/config"
	"github.com/reservaspro/reservaspro/internal/loyalty"
	"github.com/reservaspro/reservaspro/internal/observability"
	"github.com/reservaspro/reservaspro/internal/organization"
	"github.com/reservaspro/reservaspro/internal/providers/pdf"
	"github.com/reservaspro/reservaspro/pkg/db"
	"go.uber.org/fx"
)

// coreModules is the infrastructure every command needs.
func coreModules() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
	)
}

// tenantModules provides what provisioning a tenant touches.
func tenantModules() fx.Option {
	return fx.Options(
		pdf.Module,
		loyalty.Module,
		clientprofile.Module,
		organization.Module,
		apikey.Module,
	)
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
