package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// LoyaltyConfig tunes XP grants, reward lifetime and the expiry sweep.
type LoyaltyConfig struct {
	DefaultXP        int           `mapstructure:"default_xp"`
	RewardExpiryDays int           `mapstructure:"reward_expiry_days"`
	SweepInterval    time.Duration `mapstructure:"sweep_interval"`
	SweepBatchSize   int           `mapstructure:"sweep_batch_size"`
	LevelCacheTTL    time.Duration `mapstructure:"level_cache_ttl"`
}

func DefaultLoyaltyConfig() LoyaltyConfig {
	return LoyaltyConfig{
		DefaultXP:        10,
		RewardExpiryDays: 90,
		SweepInterval:    10 * time.Minute,
		SweepBatchSize:   200,
		LevelCacheTTL:    time.Minute,
	}
}

// RewardTTL is the lifetime of an issued reward.
func (c LoyaltyConfig) RewardTTL() time.Duration {
	return time.Duration(c.RewardExpiryDays) * 24 * time.Hour
}

type LoyaltyConfigHolder struct {
	current atomic.Value // holds LoyaltyConfig
}

// NewStaticLoyaltyConfig returns a holder that never reloads.
func NewStaticLoyaltyConfig(cfg LoyaltyConfig) *LoyaltyConfigHolder {
	holder := &LoyaltyConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewLoyaltyConfigHolder(appCfg Config) (*LoyaltyConfigHolder, error) {
	v := viper.New()

	if appCfg.LoyaltyConfigPath != "" {
		v.SetConfigFile(appCfg.LoyaltyConfigPath)
	} else {
		v.SetConfigName("loyalty")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/reservaspro")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RESERVASPRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultLoyaltyConfig()
	v.SetDefault("loyalty.default_xp", defaults.DefaultXP)
	v.SetDefault("loyalty.reward_expiry_days", defaults.RewardExpiryDays)
	v.SetDefault("loyalty.sweep_interval", defaults.SweepInterval)
	v.SetDefault("loyalty.sweep_batch_size", defaults.SweepBatchSize)
	v.SetDefault("loyalty.level_cache_ttl", defaults.LevelCacheTTL)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		watch = false
	}

	cfg := DefaultLoyaltyConfig()
	if err := v.UnmarshalKey("loyalty", &cfg); err != nil {
		return nil, err
	}
	if err := validateLoyaltyConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticLoyaltyConfig(cfg)
	if !watch {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated := DefaultLoyaltyConfig()
		if err := v.UnmarshalKey("loyalty", &updated); err != nil {
			log.Printf("[loyalty-config] reload failed: %v", err)
			return
		}
		if err := validateLoyaltyConfig(updated); err != nil {
			log.Printf("[loyalty-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[loyalty-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *LoyaltyConfigHolder) Get() LoyaltyConfig {
	if h == nil {
		return DefaultLoyaltyConfig()
	}
	cfg, ok := h.current.Load().(LoyaltyConfig)
	if !ok {
		return DefaultLoyaltyConfig()
	}
	return cfg
}

func validateLoyaltyConfig(cfg LoyaltyConfig) error {
	if cfg.DefaultXP <= 0 {
		return errors.New("loyalty.default_xp must be positive")
	}
	if cfg.RewardExpiryDays <= 0 {
		return errors.New("loyalty.reward_expiry_days must be positive")
	}
	if cfg.SweepInterval <= 0 {
		return errors.New("loyalty.sweep_interval must be positive")
	}
	if cfg.SweepBatchSize <= 0 {
		return errors.New("loyalty.sweep_batch_size must be positive")
	}
	return nil
}
