// Package metrics provides internal metrics utilities for aerolink.
package metrics

import "github.com/aerolink/aerolink/types"

// NopMetrics is a no-op metrics collector that discards all metrics.
//
// This is used as the default metrics collector when no collector is configured,
// avoiding nil checks throughout the codebase.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements types.MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNopMetrics creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A collector that discards all metrics
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// ----------------------
// Connect / Failover
// ----------------------

// IncConnectAttempt discards the metric.
func (m *NopMetrics) IncConnectAttempt(_ string) {}

// IncConnectError discards the metric.
func (m *NopMetrics) IncConnectError(_ string) {}

// IncConnectExhausted discards the metric.
func (m *NopMetrics) IncConnectExhausted() {}

// ObserveConnectDuration discards the metric.
func (m *NopMetrics) ObserveConnectDuration(_ float64) {}

// ----------------------
// Session
// ----------------------

// IncSessionOpened discards the metric.
func (m *NopMetrics) IncSessionOpened(_ string) {}

// IncSessionClosed discards the metric.
func (m *NopMetrics) IncSessionClosed() {}

// SetConnected discards the metric.
func (m *NopMetrics) SetConnected(_ bool) {}

// ----------------------
// Health Probe
// ----------------------

// IncPingTotal discards the metric.
func (m *NopMetrics) IncPingTotal() {}

// IncPingError discards the metric.
func (m *NopMetrics) IncPingError() {}

// ObservePingDuration discards the metric.
func (m *NopMetrics) ObservePingDuration(_ float64) {}

// ----------------------
// Endpoint Drain
// ----------------------

// SetEndpointDraining discards the metric.
func (m *NopMetrics) SetEndpointDraining(_ string, _ bool) {}

// IncDrainEntered discards the metric.
func (m *NopMetrics) IncDrainEntered(_ string) {}

// IncDrainExited discards the metric.
func (m *NopMetrics) IncDrainExited(_ string) {}
