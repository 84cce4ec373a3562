package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"microwave"
	"microwave/internal/logger"
	"microwave/internal/repository"
)

// Errors crossing the coordinator boundary.
var (
	// ErrLockTimeout reports that the device lock could not be acquired
	// within its bound. Nothing changed; the caller may retry.
	ErrLockTimeout = errors.New("timed out waiting for the device lock")

	// ErrAuthorizationDenied reports a cancel attempt without a valid
	// capability. No lock is taken and no state changes.
	ErrAuthorizationDenied = errors.New("cancel not authorized")
)

// Audit event types, one per mutating operation.
const (
	EventPowerIncrease   = "POWER_INCREASE"
	EventPowerDecrease   = "POWER_DECREASE"
	EventCounterIncrease = "COUNTER_INCREASE"
	EventCounterDecrease = "COUNTER_DECREASE"
	EventCancel          = "CANCEL"
)

var eventDescriptions = map[string]string{
	EventPowerIncrease:   "Power increased by 10",
	EventPowerDecrease:   "Power decreased by 10",
	EventCounterIncrease: "Counter increased by 10s",
	EventCounterDecrease: "Counter decreased by 10s",
	EventCancel:          "Microwave cancelled",
}

// MicrowaveService serializes every read-modify-write on the device through
// the named distributed lock. It is the only writer of the power cell and
// the countdown pair.
type MicrowaveService struct {
	power     repository.PowerRepo
	counter   repository.CounterRepo
	locker    repository.Locker
	events    repository.EventRepo
	broadcast Broadcaster
	log       *logger.Logger

	now func() time.Time // injectable clock
}

func NewMicrowaveService(
	power repository.PowerRepo,
	counter repository.CounterRepo,
	locker repository.Locker,
	events repository.EventRepo,
	broadcast Broadcaster,
	log *logger.Logger,
) *MicrowaveService {
	return &MicrowaveService{
		power:     power,
		counter:   counter,
		locker:    locker,
		events:    events,
		broadcast: broadcast,
		log:       log,
		now:       time.Now,
	}
}

// IncreasePower raises the power level by one step. No ceiling.
func (s *MicrowaveService) IncreasePower(ctx context.Context) (microwave.Snapshot, error) {
	return s.mutate(ctx, EventPowerIncrease, func(ctx context.Context) error {
		_, err := s.power.IncrBy(ctx, powerStep)
		return err
	})
}

// DecreasePower lowers the power level by one step, clamped at zero.
func (s *MicrowaveService) DecreasePower(ctx context.Context) (microwave.Snapshot, error) {
	return s.mutate(ctx, EventPowerDecrease, func(ctx context.Context) error {
		p, err := s.power.Get(ctx)
		if err != nil {
			return err
		}
		if p -= powerStep; p < 0 {
			p = 0
		}
		return s.power.Set(ctx, p)
	})
}

// IncreaseCounter adds one step to the remaining countdown and re-bases the
// pair at the current instant.
func (s *MicrowaveService) IncreaseCounter(ctx context.Context) (microwave.Snapshot, error) {
	return s.mutate(ctx, EventCounterIncrease, func(ctx context.Context) error {
		rem, err := s.remaining(ctx)
		if err != nil {
			return err
		}
		return s.counter.Save(ctx, encodeCounter(rem+counterStep, s.now()))
	})
}

// DecreaseCounter subtracts one step from the remaining countdown, clamped
// at zero, and re-bases the pair at the current instant.
func (s *MicrowaveService) DecreaseCounter(ctx context.Context) (microwave.Snapshot, error) {
	return s.mutate(ctx, EventCounterDecrease, func(ctx context.Context) error {
		rem, err := s.remaining(ctx)
		if err != nil {
			return err
		}
		if rem -= counterStep; rem < 0 {
			rem = 0
		}
		return s.counter.Save(ctx, encodeCounter(rem, s.now()))
	})
}

// Cancel zeroes both the power level and the countdown. The caller must have
// validated the capability token already; an unauthorized call fails before
// the lock is even touched.
func (s *MicrowaveService) Cancel(ctx context.Context, authorized bool) (microwave.Snapshot, error) {
	if !authorized {
		return microwave.Snapshot{}, ErrAuthorizationDenied
	}
	return s.mutate(ctx, EventCancel, func(ctx context.Context) error {
		if err := s.power.Set(ctx, 0); err != nil {
			return err
		}
		return s.counter.Save(ctx, encodeCounter(0, s.now()))
	})
}

// mutate runs one serialized read-modify-write: acquire the device lock,
// apply fn against the store, compute the committed snapshot, release the
// lock, and only then broadcast and audit. The lock is released on every
// path and is never held across observer delivery, so a slow subscriber
// cannot extend the critical section. Broadcasting strictly after release,
// one commit at a time, keeps broadcast order equal to commit order.
func (s *MicrowaveService) mutate(ctx context.Context, eventType string, fn func(context.Context) error) (microwave.Snapshot, error) {
	lock, err := s.locker.Acquire(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrLockNotAcquired) {
			return microwave.Snapshot{}, fmt.Errorf("%s: %w", eventType, ErrLockTimeout)
		}
		return microwave.Snapshot{}, fmt.Errorf("%s: acquire device lock: %w", eventType, err)
	}

	snap, err := s.applyLocked(ctx, fn)

	if rerr := lock.Release(ctx); rerr != nil && s.log != nil {
		s.log.Errorw("device_lock_release_failed", "op", eventType, "err", rerr)
	}
	if err != nil {
		return microwave.Snapshot{}, fmt.Errorf("%s: %w", eventType, err)
	}

	if s.broadcast != nil {
		s.broadcast.Broadcast(snap)
	}
	s.audit(ctx, eventType, snap)
	return snap, nil
}

// applyLocked is the body of the critical section: the domain write plus the
// post-commit snapshot.
func (s *MicrowaveService) applyLocked(ctx context.Context, fn func(context.Context) error) (microwave.Snapshot, error) {
	if err := fn(ctx); err != nil {
		return microwave.Snapshot{}, err
	}
	return s.snapshot(ctx)
}

// snapshot composes the derived view from both store cells.
func (s *MicrowaveService) snapshot(ctx context.Context) (microwave.Snapshot, error) {
	power, err := s.power.Get(ctx)
	if err != nil {
		return microwave.Snapshot{}, err
	}
	rem, err := s.remaining(ctx)
	if err != nil {
		return microwave.Snapshot{}, err
	}
	return microwave.NewSnapshot(power, rem), nil
}

// remaining reads the countdown pair and decays it to now. An absent pair is
// zero remaining, not an error.
func (s *MicrowaveService) remaining(ctx context.Context) (int, error) {
	pair, ok, err := s.counter.Load(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return remainingAt(pair, s.now()), nil
}

// audit appends the mutation to the event log, best effort. A failed append
// never fails a committed mutation.
func (s *MicrowaveService) audit(ctx context.Context, eventType string, snap microwave.Snapshot) {
	err := s.events.Append(ctx, microwave.OvenEvent{
		OccurredAt:  s.now().UTC(),
		Type:        eventType,
		Description: eventDescriptions[eventType],
		Metadata: map[string]any{
			"power":   snap.Power,
			"counter": snap.Counter,
			"state":   snap.State,
		},
	})
	if err != nil && s.log != nil {
		s.log.Errorw("audit_append_failed", "type", eventType, "err", err)
	}
}
