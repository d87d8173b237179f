package locker

import (
	"context"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/reservaspro/reservaspro/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("locker",
	fx.Provide(NewFromConfig),
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
}

// NewFromConfig returns a Redis-backed locker when REDIS_ADDR is set and a
// no-op locker otherwise.
func NewFromConfig(p Params) KeyLocker {
	if !p.Config.Redis.Enabled() {
		p.Log.Info("redis not configured, distributed locks disabled")
		return Noop{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     strings.TrimSpace(p.Config.Redis.Addr),
		Password: strings.TrimSpace(p.Config.Redis.Password),
		DB:       p.Config.Redis.DB,
	})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return NewLocker(client, 0, 0)
}
