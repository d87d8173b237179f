package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/reservaspro/reservaspro/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyOrgBucket = "reservaspro:ratelimit:org:%s"

var ErrMissingOrg = errors.New("rate limiter org is empty")

// APILimiter applies one token bucket per organization to API requests.
type APILimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
}

// NewFromConfig returns nil when rate limiting is disabled or Redis is not
// configured. Callers treat a nil limiter as allow-all.
func NewFromConfig(p Params) *APILimiter {
	cfg := p.Config.RateLimit
	log := p.Log.Named("ratelimit")
	if !cfg.Enabled {
		return nil
	}
	if !p.Config.Redis.Enabled() {
		log.Warn("rate limiting enabled without redis, requests are not limited")
		return nil
	}
	if cfg.RequestsPerSecond <= 0 || cfg.Burst <= 0 {
		log.Warn("invalid rate limit settings, requests are not limited",
			zap.Float64("rps", cfg.RequestsPerSecond),
			zap.Int("burst", cfg.Burst),
		)
		return nil
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

	log.Info("api rate limiting enabled",
		zap.Float64("rps", cfg.RequestsPerSecond),
		zap.Int("burst", cfg.Burst),
	)
	return NewAPILimiter(client, cfg.RequestsPerSecond, cfg.Burst)
}

func NewAPILimiter(client *redis.Client, rate float64, burst int) *APILimiter {
	return &APILimiter{
		bucket: NewTokenBucket(client),
		rate:   rate,
		burst:  burst,
	}
}

// AllowOrg takes one token from the organization's bucket.
func (l *APILimiter) AllowOrg(ctx context.Context, orgID string) (*Result, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return &Result{Allowed: false}, ErrMissingOrg
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyOrgBucket, orgID), l.rate, l.burst)
}
