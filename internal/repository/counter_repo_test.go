package repository

import (
	"testing"
	"time"

	"microwave"
)

func TestCounterRedis_AbsentPairIsNotAnError(t *testing.T) {
	repo := NewCounterRedis(newTestRedis(t))

	_, ok, err := repo.Load(testCtx(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for absent pair")
	}
}

func TestCounterRedis_SaveLoadRoundTrip(t *testing.T) {
	repo := NewCounterRedis(newTestRedis(t))
	ctx := testCtx(t)

	committed := time.Date(2026, 8, 30, 12, 0, 0, 250_000_000, time.UTC)
	want := microwave.CounterPair{Value: 40, CommittedAt: committed}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true after save")
	}
	if got.Value != want.Value {
		t.Fatalf("value = %d, want %d", got.Value, want.Value)
	}
	// Float encoding of the timestamp loses sub-millisecond precision.
	if diff := got.CommittedAt.Sub(want.CommittedAt); diff > time.Millisecond || diff < -time.Millisecond {
		t.Fatalf("committed at %v, want %v (diff %v)", got.CommittedAt, want.CommittedAt, diff)
	}
}

func TestCounterRedis_SaveOverwritesPreviousPair(t *testing.T) {
	repo := NewCounterRedis(newTestRedis(t))
	ctx := testCtx(t)

	first := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := repo.Save(ctx, microwave.CounterPair{Value: 10, CommittedAt: first}); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := first.Add(30 * time.Second)
	if err := repo.Save(ctx, microwave.CounterPair{Value: 20, CommittedAt: second}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Value != 20 || !got.CommittedAt.Equal(second) {
		t.Fatalf("expected re-based pair {20 %v}, got %+v", second, got)
	}
}

func TestCounterRedis_MalformedFieldsReadAsZero(t *testing.T) {
	client := newTestRedis(t)
	repo := NewCounterRedis(client)
	ctx := testCtx(t)

	if err := client.HSet(ctx, counterKey, counterValueField, "garbage", counterTSField, "nope").Err(); err != nil {
		t.Fatalf("seed hash: %v", err)
	}

	got, ok, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true for present hash")
	}
	if got.Value != 0 {
		t.Fatalf("expected malformed value to read as 0, got %d", got.Value)
	}
}
