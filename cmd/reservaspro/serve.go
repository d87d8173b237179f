package main

import (
	"github.com/reservaspro/reservaspro/internal/audit"
	"github.com/reservaspro/reservaspro/internal/authorization"
	"github.com/reservaspro/reservaspro/internal/booking"
	"github.com/reservaspro/reservaspro/internal/catalog"
	"github.com/reservaspro/reservaspro/internal/locker"
	"github.com/reservaspro/reservaspro/internal/migration"
	"github.com/reservaspro/reservaspro/internal/notification"
	"github.com/reservaspro/reservaspro/internal/providers/email"
	"github.com/reservaspro/reservaspro/internal/ratelimit"
	"github.com/reservaspro/reservaspro/internal/scheduler"
	"github.com/reservaspro/reservaspro/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reward expiry scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := fx.New(
				coreModules(),

				// Infrastructure adapters
				locker.Module,
				email.Module,
				notification.Module,
				ratelimit.Module,

				// Functional domains
				tenantModules(),
				catalog.Module,
				booking.Module,
				authorization.Module,
				audit.Module,

				migration.Module,
				scheduler.Module,
				server.Module,
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}
