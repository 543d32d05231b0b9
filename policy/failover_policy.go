package policy

import (
	"sync/atomic"
	"time"

	"github.com/aerolink/aerolink/internal/logging"
	"github.com/aerolink/aerolink/types"
)

// AlwaysFailover implements an aggressive probe policy.
//
// A single Dead probe is enough to recommend retiring the session.
type AlwaysFailover struct{}

// NewAlwaysFailover creates a new AlwaysFailover policy.
//
// Returns:
//   - *AlwaysFailover: A new aggressive policy
func NewAlwaysFailover() *AlwaysFailover {
	return &AlwaysFailover{}
}

// ShouldFailover always returns true.
//
// Returns:
//   - bool: Always true
func (a *AlwaysFailover) ShouldFailover() bool {
	return true
}

// RecordFailure is a no-op for the aggressive policy.
func (a *AlwaysFailover) RecordFailure() {}

// RecordSuccess is a no-op for the aggressive policy.
func (a *AlwaysFailover) RecordSuccess() {}

// CircuitBreaker implements a conservative probe policy.
//
// Tracks consecutive Dead probes and only recommends failover after a
// threshold is reached. This prevents flapping on transient errors.
type CircuitBreaker struct {
	threshold    int
	resetTimeout time.Duration
	logger       types.Logger
	failures     atomic.Int32
	lastFailure  atomic.Int64 // Unix nano
}

// CircuitBreakerOption configures a CircuitBreaker policy.
type CircuitBreakerOption func(*CircuitBreaker)

// WithThreshold sets the number of consecutive Dead probes before failover.
//
// Parameters:
//   - n: Number of failures required
//
// Returns:
//   - CircuitBreakerOption: Configuration option
func WithThreshold(n int) CircuitBreakerOption {
	return func(c *CircuitBreaker) {
		c.threshold = n
	}
}

// WithResetTimeout sets the duration after which the failure count resets.
//
// Parameters:
//   - d: Reset timeout duration
//
// Returns:
//   - CircuitBreakerOption: Configuration option
func WithResetTimeout(d time.Duration) CircuitBreakerOption {
	return func(c *CircuitBreaker) {
		c.resetTimeout = d
	}
}

// WithCircuitBreakerLogger sets the logger for the circuit breaker.
//
// Parameters:
//   - l: The logger
//
// Returns:
//   - CircuitBreakerOption: Configuration option
func WithCircuitBreakerLogger(l types.Logger) CircuitBreakerOption {
	return func(c *CircuitBreaker) {
		c.logger = l
	}
}

// NewCircuitBreaker creates a new CircuitBreaker policy.
//
// Defaults: threshold=3, resetTimeout=30s
//
// Parameters:
//   - opts: Optional configuration options
//
// Returns:
//   - *CircuitBreaker: A new circuit breaker policy
func NewCircuitBreaker(opts ...CircuitBreakerOption) *CircuitBreaker {
	c := &CircuitBreaker{
		threshold:    3,
		resetTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure logger is never nil
	if c.logger == nil {
		c.logger = logging.NewNopLogger()
	}

	return c
}

// ShouldFailover returns true if the failure threshold has been reached.
//
// Returns:
//   - bool: true if consecutive failures >= threshold
func (c *CircuitBreaker) ShouldFailover() bool {
	return int(c.failures.Load()) >= c.threshold
}

// RecordFailure increments the consecutive failure counter.
//
// If the reset timeout has passed since the last failure, the counter is
// reset to 1 instead of incrementing.
func (c *CircuitBreaker) RecordFailure() {
	now := time.Now().UnixNano()

	var newFailures int32
	lastFailure := c.lastFailure.Load()
	if lastFailure > 0 && time.Duration(now-lastFailure) > c.resetTimeout {
		c.failures.Store(1)
		newFailures = 1
	} else {
		newFailures = c.failures.Add(1)
	}
	c.lastFailure.Store(now)

	if int(newFailures) == c.threshold {
		c.logger.Warn("circuit breaker tripped",
			"threshold", c.threshold,
		)
	}
}

// RecordSuccess resets the failure counter.
func (c *CircuitBreaker) RecordSuccess() {
	wasOpen := int(c.failures.Load()) >= c.threshold
	c.failures.Store(0)
	c.lastFailure.Store(0)

	if wasOpen {
		c.logger.Info("circuit breaker closed")
	}
}

// Failures returns the current consecutive failure count.
//
// Returns:
//   - int: Number of consecutive failures
func (c *CircuitBreaker) Failures() int {
	return int(c.failures.Load())
}
