package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/Deek-011/formbot/internal/common/db"
	commonerrors "github.com/Deek-011/formbot/internal/common/errors"
	"github.com/Deek-011/formbot/internal/common/logger"
	"github.com/Deek-011/formbot/internal/observability/metrics"
)

// CircuitBreakerInterface is what services depend on, so tests can pass a
// passthrough implementation.
type CircuitBreakerInterface interface {
	Call(ctx context.Context, fn func(context.Context) error) error
}

type CircuitBreaker struct {
	failures    atomic.Int32
	lastFailure atomic.Value
	threshold   int32
	timeout     time.Duration
	resetAfter  time.Duration
	name        string
	log         *logger.Logger
	isFailure   func(error) bool
	now         func() time.Time
}

type CircuitBreakerConfig struct {
	Threshold  int32
	Timeout    time.Duration
	ResetAfter time.Duration
	Name       string
	Logger     *logger.Logger
	// IsFailure decides which errors count towards opening the circuit.
	// Defaults to anything that is not an expected business outcome.
	IsFailure func(error) bool
}

func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	cb := &CircuitBreaker{
		threshold:  config.Threshold,
		timeout:    config.Timeout,
		resetAfter: config.ResetAfter,
		name:       config.Name,
		log:        config.Logger,
		isFailure:  config.IsFailure,
		now:        time.Now,
	}
	if cb.isFailure == nil {
		cb.isFailure = isInfrastructureError
	}
	cb.lastFailure.Store(time.Time{})
	return cb
}

// isInfrastructureError treats missing rows, duplicate keys and domain errors
// other than internal/external ones as regular outcomes.
func isInfrastructureError(err error) bool {
	if errors.Is(err, db.ErrNoRecord) || errors.Is(err, db.ErrDuplicate) {
		return false
	}
	if de, ok := commonerrors.AsDomainError(err); ok {
		switch de.Category() {
		case commonerrors.CategoryInternal, commonerrors.CategoryExternal:
			return true
		default:
			return false
		}
	}
	return !errors.Is(err, context.Canceled)
}

func (cb *CircuitBreaker) IsOpen() bool {
	if cb.failures.Load() < cb.threshold {
		cb.setState(0)
		return false
	}

	lastFailure := cb.lastFailure.Load().(time.Time)
	if lastFailure.IsZero() {
		cb.setState(0)
		return false
	}

	if cb.now().Sub(lastFailure) > cb.resetAfter {
		cb.reset()
		cb.setState(0)
		return false
	}

	cb.setState(1)
	return true
}

func (cb *CircuitBreaker) setState(state float64) {
	if cb.name != "" {
		metrics.CircuitBreakerState.WithLabelValues(cb.name).Set(state)
	}
}

func (cb *CircuitBreaker) recordFailure(err error) {
	cb.failures.Add(1)
	cb.lastFailure.Store(cb.now())
	if cb.name != "" {
		metrics.CircuitBreakerFailures.WithLabelValues(cb.name).Inc()
	}
	if cb.log != nil {
		cb.log.Warnf("circuit breaker [%s]: failure recorded: %v", cb.name, err)
	}
}

func (cb *CircuitBreaker) reset() {
	cb.failures.Store(0)
	cb.lastFailure.Store(time.Time{})
}

// Call runs fn with the breaker's timeout. An open circuit or an exceeded
// deadline is reported as ErrServiceUnavailable; other errors pass through.
func (cb *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if cb.IsOpen() {
		if cb.log != nil {
			cb.log.Warnf("circuit breaker [%s]: circuit is open, rejecting request", cb.name)
		}
		return commonerrors.ErrServiceUnavailable.WithCause(commonerrors.ErrCircuitOpen)
	}

	callCtx := ctx
	if cb.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cb.timeout)
		defer cancel()
	}

	err := fn(callCtx)
	if err == nil {
		cb.reset()
		return nil
	}

	if cb.isFailure(err) {
		cb.recordFailure(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return commonerrors.ErrServiceUnavailable.WithCause(err)
	}
	return err
}
