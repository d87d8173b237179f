package notification

import (
	"context"

	"github.com/reservaspro/reservaspro/internal/observability/metrics"
	"github.com/reservaspro/reservaspro/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("notification",
	fx.Provide(provideDispatcher),
	fx.Provide(func(d *Dispatcher) Notifier { return d }),
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  email.Provider
	Log       *zap.Logger
	Metrics   *metrics.Metrics `optional:"true"`
}

func provideDispatcher(p Params) *Dispatcher {
	d := NewDispatcher(p.Provider, p.Log, p.Metrics, DefaultConfig())
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			d.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return d.Close(ctx)
		},
	})
	return d
}
