package repository

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestLocker(t *testing.T) *RedisLocker {
	t.Helper()
	return NewRedisLocker(newTestRedis(t), LockConfig{
		Name:           "lock-mw-test",
		AcquireTimeout: 300 * time.Millisecond,
		Expiry:         5 * time.Second,
	})
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	locker := newTestLocker(t)
	ctx := testCtx(t)

	lock, err := locker.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
}

func TestRedisLocker_SecondAcquireTimesOut(t *testing.T) {
	locker := newTestLocker(t)
	ctx := testCtx(t)

	lock, err := locker.Acquire(ctx)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer lock.Release(ctx)

	if _, err := locker.Acquire(ctx); !errors.Is(err, ErrLockNotAcquired) {
		t.Fatalf("expected ErrLockNotAcquired, got %v", err)
	}
}

func TestRedisLocker_ReacquireAfterRelease(t *testing.T) {
	locker := newTestLocker(t)
	ctx := testCtx(t)

	lock, err := locker.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}

	lock2, err := locker.Acquire(ctx)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	if err := lock2.Release(ctx); err != nil {
		t.Fatalf("release reacquired lock: %v", err)
	}
}

func TestRedisLocker_DoubleReleaseReportsError(t *testing.T) {
	locker := newTestLocker(t)
	ctx := testCtx(t)

	lock, err := locker.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := lock.Release(ctx); err == nil {
		t.Fatalf("expected error releasing an already released lock")
	}
}

func TestRedisLocker_AcquireHonorsCancelledContext(t *testing.T) {
	locker := newTestLocker(t)

	held, err := locker.Acquire(testCtx(t))
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer held.Release(testCtx(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := locker.Acquire(ctx); err == nil {
		t.Fatalf("expected error acquiring with cancelled context")
	}
}
