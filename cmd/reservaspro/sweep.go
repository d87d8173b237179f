package main

import (
	"context"

	"github.com/reservaspro/reservaspro/internal/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newSweepRewardsCommand() *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "sweep-rewards",
		Short: "Expire every available reward past its deadline, once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var sched *scheduler.Scheduler
			app := fx.New(
				coreModules(),
				tenantModules(),
				fx.Provide(scheduler.ProvideConfig, scheduler.New),
				fx.Decorate(func(cfg scheduler.Config) scheduler.Config {
					if batchSize > 0 {
						cfg.BatchSize = batchSize
					}
					cfg.EnabledJobs = []string{scheduler.JobExpireRewards}
					return cfg
				}),
				fx.Populate(&sched),
				fx.NopLogger,
			)
			return runOnce(cmd.Context(), app, func(ctx context.Context) error {
				return sched.RunOnce(ctx)
			})
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "rewards expired per batch (defaults to sweep_batch_size)")
	return cmd
}
