package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired reports that the device lock could not be taken within
// the acquisition bound.
var ErrLockNotAcquired = errors.New("device lock not acquired within timeout")

// LockConfig tunes the named device lock. Zero fields fall back to defaults.
type LockConfig struct {
	Name           string
	AcquireTimeout time.Duration // max wait to acquire before failing the request
	Expiry         time.Duration // auto-release TTL so a dead holder cannot wedge the device
}

const (
	defaultLockName       = "lock-mw"
	defaultAcquireTimeout = 10 * time.Second
	defaultLockExpiry     = 8 * time.Second
	lockRetryDelay        = 50 * time.Millisecond
)

// RedisLocker implements Locker over a single named redsync mutex.
type RedisLocker struct {
	rs  *redsync.Redsync
	cfg LockConfig
}

func NewRedisLocker(rdb *redis.Client, cfg LockConfig) *RedisLocker {
	if cfg.Name == "" {
		cfg.Name = defaultLockName
	}
	if cfg.AcquireTimeout <= 0 {
		cfg.AcquireTimeout = defaultAcquireTimeout
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = defaultLockExpiry
	}
	return &RedisLocker{rs: redsync.New(goredis.NewPool(rdb)), cfg: cfg}
}

// Ensure implementation of Locker interface at compile time.
var _ Locker = (*RedisLocker)(nil)

// Acquire blocks until the lock is held or the acquisition bound elapses.
func (l *RedisLocker) Acquire(ctx context.Context) (Lock, error) {
	tries := int(l.cfg.AcquireTimeout/lockRetryDelay) + 1
	mu := l.rs.NewMutex(l.cfg.Name,
		redsync.WithExpiry(l.cfg.Expiry),
		redsync.WithTries(tries),
		redsync.WithRetryDelay(lockRetryDelay),
	)

	ctx, cancel := context.WithTimeout(ctx, l.cfg.AcquireTimeout)
	defer cancel()

	if err := mu.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLockNotAcquired, err)
	}
	return &redsyncLock{mu: mu}, nil
}

type redsyncLock struct {
	mu *redsync.Mutex
}

// Release frees the lock. A lock that already expired reports an error but
// has in any case stopped excluding other holders.
func (l *redsyncLock) Release(ctx context.Context) error {
	ok, err := l.mu.UnlockContext(ctx)
	if err != nil {
		return fmt.Errorf("release device lock: %w", err)
	}
	if !ok {
		return errors.New("device lock was no longer held at release")
	}
	return nil
}
