package neo4j

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the runner circuit breaker.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the configuration used when the breaker is enabled.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "neo4j",
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerRunner stops calling the store after repeated failures and fails fast
// until the breaker half-opens again.
type BreakerRunner struct {
	next Runner
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerRunner wraps next with a circuit breaker.
func NewBreakerRunner(next Runner, cfg BreakerConfig, logger *zap.Logger) *BreakerRunner {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// Cancelled requests do not count as failures.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &BreakerRunner{next: next, cb: cb}
}

func (b *BreakerRunner) Run(ctx context.Context, stmt Statement) ([]Row, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.next.Run(ctx, stmt)
	})
	if err != nil {
		return nil, err
	}
	return out.([]Row), nil
}

func (b *BreakerRunner) Ping(ctx context.Context) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.Ping(ctx)
	})
	return err
}

// State exposes the breaker state for readiness reporting.
func (b *BreakerRunner) State() gobreaker.State {
	return b.cb.State()
}

// IsOpen reports whether err was produced by an open or saturated breaker.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
