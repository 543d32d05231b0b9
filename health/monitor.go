// Package health provides background liveness monitoring for a cluster client.
package health

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aerolink/aerolink/internal/logging"
	"github.com/aerolink/aerolink/types"
)

// ErrMonitorAlreadyRunning indicates Start was called on a running monitor.
var ErrMonitorAlreadyRunning = errors.New("health: monitor is already running")

// Pinger issues a single liveness probe. *aerolink.Client satisfies this.
type Pinger interface {
	// Ping reports the liveness of the current session.
	Ping(ctx context.Context) types.Liveness
}

// FailoverPolicy decides when a run of Dead probes warrants remediation.
//
// Implementations include policy.AlwaysFailover and policy.CircuitBreaker.
// Implementations MUST be safe for concurrent use.
type FailoverPolicy interface {
	// ShouldFailover returns true when accumulated failures warrant
	// retiring the session.
	ShouldFailover() bool

	// RecordFailure records one Dead probe.
	RecordFailure()

	// RecordSuccess records one Alive probe, resetting failure tracking.
	RecordSuccess()
}

// Monitor probes a client's session on a fixed cadence and reports when the
// configured policy declares the session dead.
//
// The monitor only detects: the OnDead callback fires once per down
// transition, and remediation (Disconnect + Connect, alerting) stays with
// the callback. Because probes are read-only with respect to the session,
// running a monitor alongside normal client use is safe as long as the
// caller does not Connect or Close concurrently with a probe in flight.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	policy   FailoverPolicy
	onDead   func()
	logger   types.Logger

	last    atomic.Bool
	down    atomic.Bool
	running atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval sets the probe cadence.
//
// Default: 5 seconds.
//
// Parameters:
//   - d: Time between probes
//
// Returns:
//   - Option: Configuration option
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		m.interval = d
	}
}

// WithTimeout sets the per-probe timeout.
//
// Default: 2 seconds.
//
// Parameters:
//   - d: Upper bound for a single probe
//
// Returns:
//   - Option: Configuration option
func WithTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		m.timeout = d
	}
}

// WithPolicy sets the failure policy.
//
// Default: every Dead probe is reported (policy.AlwaysFailover semantics).
//
// Parameters:
//   - p: The failover policy
//
// Returns:
//   - Option: Configuration option
func WithPolicy(p FailoverPolicy) Option {
	return func(m *Monitor) {
		m.policy = p
	}
}

// WithOnDead sets the callback invoked when the policy declares the session dead.
//
// The callback fires once per down transition, from the monitor goroutine.
// Keep it fast or hand off to another goroutine.
//
// Parameters:
//   - fn: Callback to invoke
//
// Returns:
//   - Option: Configuration option
//
// Example:
//
//	monitor := health.NewMonitor(client,
//	    health.WithOnDead(func() {
//	        client.Disconnect()
//	        _ = client.Connect(context.Background())
//	    }),
//	)
func WithOnDead(fn func()) Option {
	return func(m *Monitor) {
		m.onDead = fn
	}
}

// WithLogger sets the structured logger.
//
// Parameters:
//   - l: The logger
//
// Returns:
//   - Option: Configuration option
func WithLogger(l types.Logger) Option {
	return func(m *Monitor) {
		m.logger = l
	}
}

// NewMonitor creates a monitor for the given pinger.
//
// Parameters:
//   - pinger: The probe target, typically an *aerolink.Client
//   - opts: Optional configuration options
//
// Returns:
//   - *Monitor: A new monitor, not yet started
func NewMonitor(pinger Pinger, opts ...Option) *Monitor {
	m := &Monitor{
		pinger:   pinger,
		interval: 5 * time.Second,
		timeout:  2 * time.Second,
	}

	for _, opt := range opts {
		opt(m)
	}

	// Ensure policy is never nil
	if m.policy == nil {
		m.policy = alwaysPolicy{}
	}

	// Ensure logger is never nil
	if m.logger == nil {
		m.logger = logging.NewNopLogger()
	}

	return m
}

// Start begins probing in a background goroutine.
//
// A stopped monitor may be started again; each Start gets a fresh probe
// lifetime.
//
// Returns:
//   - error: ErrMonitorAlreadyRunning if already started
func (m *Monitor) Start() error {
	if m.running.Swap(true) {
		return ErrMonitorAlreadyRunning
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())

	m.wg.Add(1)
	go m.run()

	m.logger.Info("health monitor started",
		"interval", m.interval,
		"timeout", m.timeout,
	)

	return nil
}

// Stop terminates probing and waits for the monitor goroutine to exit.
//
// Stop is idempotent.
func (m *Monitor) Stop() {
	if !m.running.Swap(false) {
		return
	}

	m.cancel()
	m.wg.Wait()

	m.logger.Info("health monitor stopped")
}

// IsRunning returns whether the monitor is currently running.
func (m *Monitor) IsRunning() bool {
	return m.running.Load()
}

// Last returns the result of the most recent probe.
//
// Returns:
//   - types.Liveness: Alive or Dead; Dead before the first probe completes
func (m *Monitor) Last() types.Liveness {
	return types.Liveness(m.last.Load())
}

// run is the monitor loop.
func (m *Monitor) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.probe()
		}
	}
}

// probe issues one bounded ping and feeds the result into the policy.
func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(m.ctx, m.timeout)
	defer cancel()

	result := m.pinger.Ping(ctx)
	previous := m.last.Swap(bool(result))

	if result == types.Alive {
		m.policy.RecordSuccess()
		if m.down.Swap(false) {
			m.logger.Info("session recovered")
		} else if !previous {
			m.logger.Debug("probe alive")
		}

		return
	}

	m.policy.RecordFailure()
	m.logger.Warn("probe dead")

	if m.policy.ShouldFailover() && !m.down.Swap(true) {
		m.logger.Error("session declared dead")
		if m.onDead != nil {
			m.onDead()
		}
	}
}

// alwaysPolicy is the default policy: report every Dead probe.
type alwaysPolicy struct{}

func (alwaysPolicy) ShouldFailover() bool { return true }
func (alwaysPolicy) RecordFailure()       {}
func (alwaysPolicy) RecordSuccess()       {}
