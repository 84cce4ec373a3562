package service

import (
	"context"
	"time"

	"microwave"
	"microwave/internal/repository"
)

// MonitoringService serves the lock-free snapshot read. It may interleave
// with a concurrent mutation and observe the store mid-commit; each cell
// read is individually atomic, and that is all this read promises.
type MonitoringService struct {
	power   repository.PowerRepo
	counter repository.CounterRepo

	now func() time.Time // injectable clock
}

func NewMonitoringService(power repository.PowerRepo, counter repository.CounterRepo) *MonitoringService {
	return &MonitoringService{power: power, counter: counter, now: time.Now}
}

// Snapshot returns the current derived view without taking the device lock.
func (s *MonitoringService) Snapshot(ctx context.Context) (microwave.Snapshot, error) {
	power, err := s.power.Get(ctx)
	if err != nil {
		return microwave.Snapshot{}, err
	}

	pair, ok, err := s.counter.Load(ctx)
	if err != nil {
		return microwave.Snapshot{}, err
	}
	rem := 0
	if ok {
		rem = remainingAt(pair, s.now())
	}

	return microwave.NewSnapshot(power, rem), nil
}
