package types

// MetricsCollector defines methods for collecting operational metrics.
//
// Endpoint-scoped methods accept the endpoint address for labeling.
// Implementations should be thread-safe as methods may be called concurrently.
//
// Example usage with VictoriaMetrics (via contrib/metrics/vm):
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//	client, _ := aerolink.New(cfg,
//	    aerolink.WithMetrics(collector),
//	)
type MetricsCollector interface {
	// ----------------------
	// Connect / Failover
	// ----------------------

	// IncConnectAttempt increments the dial attempt counter for an endpoint.
	IncConnectAttempt(endpoint string)

	// IncConnectError increments the dial failure counter for an endpoint.
	IncConnectError(endpoint string)

	// IncConnectExhausted increments the counter for connect calls that
	// failed on every endpoint in the candidate list.
	IncConnectExhausted()

	// ObserveConnectDuration records the duration of a successful connect
	// (full failover pass) in seconds.
	ObserveConnectDuration(seconds float64)

	// ----------------------
	// Session
	// ----------------------

	// IncSessionOpened increments the session counter for the endpoint a
	// session was established against.
	IncSessionOpened(endpoint string)

	// IncSessionClosed increments the counter of torn-down sessions.
	IncSessionClosed()

	// SetConnected sets the connectivity gauge. Value: 1 if a live session
	// is held, 0 otherwise.
	SetConnected(connected bool)

	// ----------------------
	// Health Probe
	// ----------------------

	// IncPingTotal increments the total probe counter.
	IncPingTotal()

	// IncPingError increments the counter of probes that reported Dead.
	IncPingError()

	// ObservePingDuration records a probe round-trip duration in seconds.
	ObservePingDuration(seconds float64)

	// ----------------------
	// Endpoint Drain
	// ----------------------

	// SetEndpointDraining sets the drain status gauge for an endpoint.
	// Value: 1 if draining, 0 if available.
	SetEndpointDraining(endpoint string, draining bool)

	// IncDrainEntered increments the counter when an endpoint enters drain mode.
	IncDrainEntered(endpoint string)

	// IncDrainExited increments the counter when an endpoint exits drain mode.
	IncDrainExited(endpoint string)
}
