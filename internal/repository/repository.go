package repository

import (
	"context"
	"database/sql"
	"time"

	"microwave"

	"github.com/redis/go-redis/v9"
)

// PowerRepo is the power cell of the shared state store: a single integer
// mutated atomically per call.
type PowerRepo interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, value int) error
	IncrBy(ctx context.Context, delta int) (int, error)
}

// CounterRepo stores the countdown pair. Load reports ok=false when no
// countdown has ever been committed; callers treat absence as zero remaining.
type CounterRepo interface {
	Load(ctx context.Context) (pair microwave.CounterPair, ok bool, err error)
	Save(ctx context.Context, pair microwave.CounterPair) error
}

// Lock is one held acquisition of the named device lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker is the distributed mutual-exclusion primitive guarding every
// read-modify-write on the device. Acquire blocks up to a bounded wait and
// returns ErrLockNotAcquired when the bound elapses.
type Locker interface {
	Acquire(ctx context.Context) (Lock, error)
}

// EventRepo is the append-only audit trail of committed mutations.
type EventRepo interface {
	Append(ctx context.Context, e microwave.OvenEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]microwave.OvenEvent, error)
}

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*microwave.User, error)
}

type Repository struct {
	Power   PowerRepo
	Counter CounterRepo
	Locker  Locker
	Events  EventRepo
	Auth    Authorization
}

// NewRepository wires the Redis-backed device state and the SQLite-backed
// audit/user storage into one handle.
func NewRepository(rdb *redis.Client, db *sql.DB, lockCfg LockConfig) *Repository {
	return &Repository{
		Power:   NewPowerRedis(rdb),
		Counter: NewCounterRedis(rdb),
		Locker:  NewRedisLocker(rdb, lockCfg),
		Events:  NewEventSQLite(db),
		Auth:    NewUserRepository(db),
	}
}
