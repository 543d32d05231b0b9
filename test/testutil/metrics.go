package testutil

import (
	"sync"

	"github.com/aerolink/aerolink/types"
)

// TestMetricsCollector is a test implementation of types.MetricsCollector
// that tracks method calls for assertion in tests.
type TestMetricsCollector struct {
	mu sync.RWMutex

	// Connect / failover
	ConnectAttempts  map[string]int64
	ConnectErrors    map[string]int64
	ConnectExhausted int64
	ConnectDurations []float64

	// Session
	SessionsOpened map[string]int64
	SessionsClosed int64
	Connected      bool

	// Probe
	PingTotal     int64
	PingErrors    int64
	PingDurations []float64

	// Drain
	Draining     map[string]bool
	DrainEntered map[string]int64
	DrainExited  map[string]int64
}

// Compile-time assertion that TestMetricsCollector implements types.MetricsCollector.
var _ types.MetricsCollector = (*TestMetricsCollector)(nil)

// NewTestMetricsCollector creates a new test metrics collector.
func NewTestMetricsCollector() *TestMetricsCollector {
	return &TestMetricsCollector{
		ConnectAttempts: make(map[string]int64),
		ConnectErrors:   make(map[string]int64),
		SessionsOpened:  make(map[string]int64),
		Draining:        make(map[string]bool),
		DrainEntered:    make(map[string]int64),
		DrainExited:     make(map[string]int64),
	}
}

// IncConnectAttempt records a dial attempt.
func (m *TestMetricsCollector) IncConnectAttempt(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectAttempts[endpoint]++
}

// IncConnectError records a dial failure.
func (m *TestMetricsCollector) IncConnectError(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectErrors[endpoint]++
}

// IncConnectExhausted records a fully failed connect pass.
func (m *TestMetricsCollector) IncConnectExhausted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectExhausted++
}

// ObserveConnectDuration records a connect duration.
func (m *TestMetricsCollector) ObserveConnectDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectDurations = append(m.ConnectDurations, seconds)
}

// IncSessionOpened records an established session.
func (m *TestMetricsCollector) IncSessionOpened(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsOpened[endpoint]++
}

// IncSessionClosed records a torn-down session.
func (m *TestMetricsCollector) IncSessionClosed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsClosed++
}

// SetConnected records the connectivity gauge.
func (m *TestMetricsCollector) SetConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Connected = connected
}

// IncPingTotal records a probe.
func (m *TestMetricsCollector) IncPingTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PingTotal++
}

// IncPingError records a Dead probe.
func (m *TestMetricsCollector) IncPingError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PingErrors++
}

// ObservePingDuration records a probe duration.
func (m *TestMetricsCollector) ObservePingDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PingDurations = append(m.PingDurations, seconds)
}

// SetEndpointDraining records the drain gauge for an endpoint.
func (m *TestMetricsCollector) SetEndpointDraining(endpoint string, draining bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Draining[endpoint] = draining
}

// IncDrainEntered records a drain-enter transition.
func (m *TestMetricsCollector) IncDrainEntered(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DrainEntered[endpoint]++
}

// IncDrainExited records a drain-exit transition.
func (m *TestMetricsCollector) IncDrainExited(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DrainExited[endpoint]++
}

// Attempts returns the recorded attempt count for an endpoint.
func (m *TestMetricsCollector) Attempts(endpoint string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConnectAttempts[endpoint]
}

// Pings returns the total and failed probe counts.
func (m *TestMetricsCollector) Pings() (total, failed int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PingTotal, m.PingErrors
}
