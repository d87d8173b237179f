package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/reservaspro/reservaspro/internal/clock"
	"github.com/reservaspro/reservaspro/internal/loyalty/domain"
	"golang.org/x/sync/singleflight"
)

const (
	levelCacheSize   = 1024
	levelLoadTimeout = 10 * time.Second
)

type levelEntry struct {
	levels   []domain.LoyaltyLevel
	storedAt time.Time
}

// levelCache holds per-tenant level tables. Concurrent misses for the same
// tenant share one load. A load only populates the cache when no
// invalidate for that tenant happened while it ran.
type levelCache struct {
	entries *lru.Cache[snowflake.ID, levelEntry]
	group   singleflight.Group
	clock   clock.Clock
	ttl     func() time.Duration

	mu   sync.Mutex
	gens map[snowflake.ID]uint64
}

func newLevelCache(c clock.Clock, ttl func() time.Duration) *levelCache {
	entries, err := lru.New[snowflake.ID, levelEntry](levelCacheSize)
	if err != nil {
		panic(err)
	}
	return &levelCache{entries: entries, clock: c, ttl: ttl, gens: make(map[snowflake.ID]uint64)}
}

// get returns the cached table or loads it. The shared load runs detached
// from the caller's cancellation so one caller giving up does not fail the
// others waiting on it.
func (c *levelCache) get(ctx context.Context, orgID snowflake.ID, load func(ctx context.Context) ([]domain.LoyaltyLevel, error)) ([]domain.LoyaltyLevel, error) {
	ttl := c.ttl()
	if entry, ok := c.entries.Get(orgID); ok {
		if ttl > 0 && c.clock.Now().Sub(entry.storedAt) < ttl {
			return cloneLevels(entry.levels), nil
		}
		c.entries.Remove(orgID)
	}

	gen := c.generation(orgID)
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.FormatInt(int64(orgID), 10), func() (any, error) {
		ctx, cancel := context.WithTimeout(loadCtx, levelLoadTimeout)
		defer cancel()

		levels, err := load(ctx)
		if err != nil {
			return nil, err
		}
		domain.SortByLevelNumber(levels)
		if ttl > 0 && len(levels) > 0 {
			c.mu.Lock()
			if c.gens[orgID] == gen {
				c.entries.Add(orgID, levelEntry{levels: levels, storedAt: c.clock.Now()})
			}
			c.mu.Unlock()
		}
		return levels, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneLevels(res.Val.([]domain.LoyaltyLevel)), nil
	}
}

func (c *levelCache) generation(orgID snowflake.ID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[orgID]
}

func (c *levelCache) invalidate(orgID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[orgID]++
	c.entries.Remove(orgID)
	c.group.Forget(strconv.FormatInt(int64(orgID), 10))
}

func cloneLevels(levels []domain.LoyaltyLevel) []domain.LoyaltyLevel {
	out := make([]domain.LoyaltyLevel, len(levels))
	copy(out, levels)
	return out
}
