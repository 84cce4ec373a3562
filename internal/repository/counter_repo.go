package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"microwave"

	"github.com/redis/go-redis/v9"
)

// The countdown lives in one hash: the committed base value and the unix
// timestamp (seconds, with fraction) of the commit.
const (
	counterKey        = "counter"
	counterValueField = "value"
	counterTSField    = "timestamp"
)

type CounterRedis struct {
	rdb *redis.Client
}

func NewCounterRedis(rdb *redis.Client) *CounterRedis {
	return &CounterRedis{rdb: rdb}
}

// Ensure implementation of CounterRepo interface at compile time.
var _ CounterRepo = (*CounterRedis)(nil)

// Load reads the countdown pair. ok=false means no countdown has ever been
// committed, which callers treat as zero remaining rather than an error.
func (r *CounterRedis) Load(ctx context.Context) (microwave.CounterPair, bool, error) {
	fields, err := r.rdb.HGetAll(ctx, counterKey).Result()
	if err != nil {
		return microwave.CounterPair{}, false, fmt.Errorf("load counter: %w", err)
	}
	if len(fields) == 0 {
		return microwave.CounterPair{}, false, nil
	}

	// Missing or malformed fields read as zero, same as an empty cell.
	value, _ := strconv.Atoi(fields[counterValueField])
	ts, _ := strconv.ParseFloat(fields[counterTSField], 64)

	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return microwave.CounterPair{
		Value:       value,
		CommittedAt: time.Unix(sec, nsec).UTC(),
	}, true, nil
}

// Save writes both hash fields in a single HSET call.
func (r *CounterRedis) Save(ctx context.Context, pair microwave.CounterPair) error {
	ts := float64(pair.CommittedAt.UnixNano()) / float64(time.Second)
	err := r.rdb.HSet(ctx, counterKey,
		counterValueField, pair.Value,
		counterTSField, strconv.FormatFloat(ts, 'f', -1, 64),
	).Err()
	if err != nil {
		return fmt.Errorf("save counter: %w", err)
	}
	return nil
}
