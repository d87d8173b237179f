package scheduler

import (
	"time"

	"github.com/reservaspro/reservaspro/internal/config"
)

// Config controls scheduler intervals and batch sizes.
type Config struct {
	RunInterval time.Duration
	BatchSize   int
	JobTimeout  time.Duration
	EnabledJobs []string
}

func DefaultConfig() Config {
	return Config{
		RunInterval: 10 * time.Minute,
		BatchSize:   200,
		JobTimeout:  time.Minute,
	}
}

// ProvideConfig derives the scheduler cadence from the loyalty settings.
func ProvideConfig(holder *config.LoyaltyConfigHolder) Config {
	loyalty := holder.Get()
	return Config{
		RunInterval: loyalty.SweepInterval,
		BatchSize:   loyalty.SweepBatchSize,
	}.withDefaults()
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	return c
}
