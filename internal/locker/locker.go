package locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

const (
	keyProfileLock      = "reservaspro:lock:profile:%s:%s"
	keyProfessionalLock = "reservaspro:lock:professional:%s:%s"
)

// ProfileKey guards progression writes for one client profile.
func ProfileKey(orgID, profileID string) string {
	return fmt.Sprintf(keyProfileLock, orgID, profileID)
}

// ProfessionalKey guards slot checks for one professional's calendar.
func ProfessionalKey(orgID, professionalID string) string {
	return fmt.Sprintf(keyProfessionalLock, orgID, professionalID)
}

// ErrLockTimeout is returned when a lock stays held past the wait budget.
var ErrLockTimeout = errors.New("lock_timeout")

// KeyLocker serializes work on one key across processes.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type Locker struct {
	client *redis.Client
	script *redis.Script

	ttl      time.Duration
	wait     time.Duration
	interval time.Duration
}

func NewLocker(client *redis.Client, ttl, wait time.Duration) *Locker {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if wait <= 0 {
		wait = 3 * time.Second
	}
	return &Locker{
		client:   client,
		script:   redis.NewScript(lockReleaseScript),
		ttl:      ttl,
		wait:     wait,
		interval: 50 * time.Millisecond,
	}
}

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if l == nil || l.client == nil {
		return "", false, errors.New("lock client not configured")
	}
	if key == "" {
		return "", false, errors.New("lock key is empty")
	}
	if ttl <= 0 {
		return "", false, errors.New("lock ttl must be positive")
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// Release deletes the key only while it still holds token.
func (l *Locker) Release(ctx context.Context, key, token string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if key == "" || token == "" {
		return nil
	}
	return l.script.Run(ctx, l.client, []string{key}, token).Err()
}

// Lock polls until the key is acquired or the wait budget runs out. The
// returned unlock is safe to call more than once.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	deadline := time.Now().Add(l.wait)

	for {
		token, ok, err := l.TryLock(ctx, key, l.ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			released := false
			return func() {
				if released {
					return
				}
				released = true
				_ = l.Release(context.WithoutCancel(ctx), key, token)
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		timer := time.NewTimer(l.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Noop is used when no Redis is configured; the database guards still apply.
type Noop struct{}

func (Noop) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
