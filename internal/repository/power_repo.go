package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// powerKey is the single integer cell holding the current power level.
const powerKey = "power"

type PowerRedis struct {
	rdb *redis.Client
}

func NewPowerRedis(rdb *redis.Client) *PowerRedis {
	return &PowerRedis{rdb: rdb}
}

// Ensure implementation of PowerRepo interface at compile time.
var _ PowerRepo = (*PowerRedis)(nil)

// Get returns the stored power level. A missing cell reads as 0.
func (r *PowerRedis) Get(ctx context.Context) (int, error) {
	v, err := r.rdb.Get(ctx, powerKey).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("get power: %w", err)
	}
	return v, nil
}

// Set overwrites the power level.
func (r *PowerRedis) Set(ctx context.Context, value int) error {
	if err := r.rdb.Set(ctx, powerKey, value, 0).Err(); err != nil {
		return fmt.Errorf("set power: %w", err)
	}
	return nil
}

// IncrBy atomically adds delta to the power level and returns the result.
func (r *PowerRedis) IncrBy(ctx context.Context, delta int) (int, error) {
	v, err := r.rdb.IncrBy(ctx, powerKey, int64(delta)).Result()
	if err != nil {
		return 0, fmt.Errorf("incr power by %d: %w", delta, err)
	}
	return int(v), nil
}
