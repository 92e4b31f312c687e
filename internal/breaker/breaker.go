// Package breaker implements a failure-counting circuit breaker used to stop
// calling a failing dependency for a cooldown period.
package breaker

import (
	"errors"
	"time"

	"github.com/SteveSant26/streamflow-music-backend/pkg/logger"
	"go.uber.org/zap"
)

// ErrOpen is returned when the breaker rejects a call without invoking the
// wrapped function.
var ErrOpen = errors.New("circuit breaker is open")

// State is the breaker's position in its state machine.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Config controls one CircuitBreaker.
type Config struct {
	// FailureThreshold is the number of consecutive counted failures that
	// opens the breaker.
	FailureThreshold int
	// RecoveryTimeout is how long the breaker stays open before allowing a
	// single probe call through.
	RecoveryTimeout time.Duration
	// IsCounted decides whether an error counts toward the threshold. A nil
	// func counts every error.
	IsCounted func(error) bool
}

// CircuitBreaker gates calls to a flaky dependency.
//
// It is intentionally not goroutine-safe: each instance belongs to a single
// logical caller chain (the search client owns one). Do not share an instance
// across goroutines.
type CircuitBreaker struct {
	name            string
	cfg             Config
	state           State
	failureCount    int
	lastFailureTime time.Time
	now             func() time.Time
}

// New creates a CircuitBreaker. name is used in logs only.
func New(name string, cfg Config) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = 60 * time.Second
	}
	return &CircuitBreaker{
		name:  name,
		cfg:   cfg,
		state: StateClosed,
		now:   time.Now,
	}
}

// State returns the breaker's current state, applying the open→half-open
// transition if the recovery timeout has elapsed.
func (cb *CircuitBreaker) State() State {
	if cb.state == StateOpen && cb.now().Sub(cb.lastFailureTime) >= cb.cfg.RecoveryTimeout {
		return StateHalfOpen
	}
	return cb.state
}

// FailureCount returns the current consecutive counted-failure count.
func (cb *CircuitBreaker) FailureCount() int { return cb.failureCount }

// Call invokes fn unless the breaker is open. It returns ErrOpen when
// rejecting eagerly, otherwise fn's error unchanged.
func (cb *CircuitBreaker) Call(fn func() error) error {
	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) < cb.cfg.RecoveryTimeout {
			return ErrOpen
		}
		// Recovery timeout elapsed: let exactly one probe through.
		cb.state = StateHalfOpen
		logger.Log.Info("circuit breaker half-open, probing",
			zap.String("breaker", cb.name),
		)
	case StateHalfOpen:
		// A probe is already the only allowed call per transition; a second
		// call before the probe resolves is a usage error under the
		// single-owner contract, treated as rejected.
		return ErrOpen
	}

	err := fn()
	if err == nil {
		cb.onSuccess()
		return nil
	}

	if cb.cfg.IsCounted == nil || cb.cfg.IsCounted(err) {
		cb.onFailure()
	} else if cb.state == StateHalfOpen {
		// Uncounted errors still resolve the probe; the dependency answered.
		cb.onSuccess()
	}
	return err
}

func (cb *CircuitBreaker) onSuccess() {
	if cb.state == StateHalfOpen {
		logger.Log.Info("circuit breaker closed after successful probe",
			zap.String("breaker", cb.name),
		)
	}
	cb.state = StateClosed
	cb.failureCount = 0
}

func (cb *CircuitBreaker) onFailure() {
	cb.lastFailureTime = cb.now()

	if cb.state == StateHalfOpen {
		cb.state = StateOpen
		logger.Log.Warn("circuit breaker re-opened after failed probe",
			zap.String("breaker", cb.name),
		)
		return
	}

	cb.failureCount++
	if cb.failureCount >= cb.cfg.FailureThreshold {
		cb.state = StateOpen
		logger.Log.Warn("circuit breaker opened",
			zap.String("breaker", cb.name),
			zap.Int("failures", cb.failureCount),
		)
	}
}
