package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"microwave"
)

func TestMonitoringService_AbsentCountersReadAsZero(t *testing.T) {
	mon := NewMonitoringService(&fakePowerRepo{}, &fakeCounterRepo{})

	snap, err := mon.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	assertSnapshot(t, snap, 0, 0, microwave.StateOff)
}

func TestMonitoringService_DerivesStateFromEitherCell(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		power     int
		counter   int
		wantState string
	}{
		{"both_zero_off", 0, 0, microwave.StateOff},
		{"power_only_on", 10, 0, microwave.StateOn},
		{"counter_only_on", 0, 30, microwave.StateOn},
		{"both_on", 20, 30, microwave.StateOn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			counter := &fakeCounterRepo{}
			if tc.counter > 0 {
				counter.pair = microwave.CounterPair{Value: tc.counter, CommittedAt: base}
				counter.ok = true
			}
			mon := NewMonitoringService(&fakePowerRepo{value: tc.power}, counter)
			mon.now = func() time.Time { return base }

			snap, err := mon.Snapshot(context.Background())
			if err != nil {
				t.Fatalf("snapshot: %v", err)
			}
			assertSnapshot(t, snap, tc.power, tc.counter, tc.wantState)
		})
	}
}

func TestMonitoringService_SnapshotDecaysBetweenReads(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	counter := &fakeCounterRepo{
		pair: microwave.CounterPair{Value: 30, CommittedAt: base},
		ok:   true,
	}
	mon := NewMonitoringService(&fakePowerRepo{}, counter)

	now := base
	mon.now = func() time.Time { return now }

	snap, _ := mon.Snapshot(context.Background())
	assertSnapshot(t, snap, 0, 30, microwave.StateOn)

	// Same stored pair, later read: the value decays with no write in between.
	now = base.Add(12 * time.Second)
	snap, _ = mon.Snapshot(context.Background())
	assertSnapshot(t, snap, 0, 18, microwave.StateOn)

	now = base.Add(time.Hour)
	snap, _ = mon.Snapshot(context.Background())
	assertSnapshot(t, snap, 0, 0, microwave.StateOff)
}

func TestMonitoringService_PropagatesStoreErrors(t *testing.T) {
	mon := NewMonitoringService(&fakePowerRepo{getErr: errors.New("store down")}, &fakeCounterRepo{})
	if _, err := mon.Snapshot(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
