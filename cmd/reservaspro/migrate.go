package main

import (
	"context"
	"time"

	"github.com/reservaspro/reservaspro/internal/migration"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

const oneShotTimeout = 5 * time.Minute

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and seed the default tenant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := fx.New(
				coreModules(),
				tenantModules(),
				migration.Module,
				fx.NopLogger,
			)
			return runOnce(cmd.Context(), app, nil)
		},
	}
}

// runOnce starts app, runs fn and stops app again.
func runOnce(parent context.Context, app *fx.App, fn func(ctx context.Context) error) error {
	if err := app.Err(); err != nil {
		return err
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, oneShotTimeout)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}

	var runErr error
	if fn != nil {
		runErr = fn(ctx)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
