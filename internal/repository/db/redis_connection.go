package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings for the shared state store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

const redisDialTimeout = 5 * time.Second

// NewRedisClient connects to the shared state store and fails fast when it
// is unreachable.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %q: %w", cfg.Addr, err)
	}
	return rdb, nil
}
