package service

import (
	"context"
	"time"

	"microwave"
	"microwave/internal/logger"
	"microwave/internal/repository"
)

// Authorization issues and validates access tokens.
type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	// ValidateToken reports whether the token is a valid cancel capability.
	// Malformed, expired or forged tokens yield false, never an error.
	ValidateToken(accessToken string) bool
}

// Microwave is the state mutation coordinator: the only component allowed to
// change the power level or the countdown. Every mutating call returns the
// snapshot it committed.
type Microwave interface {
	IncreasePower(ctx context.Context) (microwave.Snapshot, error)
	DecreasePower(ctx context.Context) (microwave.Snapshot, error)
	IncreaseCounter(ctx context.Context) (microwave.Snapshot, error)
	DecreaseCounter(ctx context.Context) (microwave.Snapshot, error)
	Cancel(ctx context.Context, authorized bool) (microwave.Snapshot, error)
}

// Monitoring exposes the lock-free snapshot read.
type Monitoring interface {
	Snapshot(ctx context.Context) (microwave.Snapshot, error)
}

// EventLog exposes the audit trail of committed mutations with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]microwave.OvenEvent, error)
}

// Broadcaster receives every committed snapshot for fan-out to observers.
// Delivery failures are the broadcaster's problem; they never propagate back
// into the mutation path.
type Broadcaster interface {
	Broadcast(snap microwave.Snapshot)
}

// Config carries the service-level knobs read from configuration.
type Config struct {
	SigningKey string
	TokenTTL   time.Duration
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Microwave
	Monitoring
	EventLog
	Authorization
}

// NewService wires the repository layer and the broadcaster into concrete services.
func NewService(repos *repository.Repository, broadcast Broadcaster, cfg Config, log *logger.Logger) *Service {
	return &Service{
		Microwave:     NewMicrowaveService(repos.Power, repos.Counter, repos.Locker, repos.Events, broadcast, log),
		Monitoring:    NewMonitoringService(repos.Power, repos.Counter),
		EventLog:      NewEventLogService(repos.Events),
		Authorization: NewAuthService(repos.Auth, cfg.SigningKey, cfg.TokenTTL),
	}
}
