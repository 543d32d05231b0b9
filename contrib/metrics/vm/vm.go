package vm

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"

	"github.com/aerolink/aerolink/types"
)

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the metric name prefix.
//
// Default: "aerolink"
//
// Parameters:
//   - prefix: The prefix to use for all metric names
//
// Returns:
//   - Option: A configuration option
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		c.prefix = prefix
	}
}

// WithMetricsSet sets the metrics set to use.
//
// If provided, the collector will register metrics with this set instead of
// creating a new one. The caller is responsible for exposing this set
// (e.g., via metrics.WritePrometheus or a custom handler).
//
// Parameters:
//   - set: The metrics set to use
//
// Returns:
//   - Option: A configuration option
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *Collector) {
		c.set = set
	}
}

// Collector implements types.MetricsCollector using VictoriaMetrics.
//
// Metrics without an endpoint label are pre-created at initialization time;
// endpoint-labeled metrics are created lazily on first use because the
// candidate endpoint set is only known from configuration at runtime.
// Thread-safe for concurrent use.
type Collector struct {
	set    *metrics.Set
	prefix string

	// Connect metrics
	connectExhausted *metrics.Counter
	connectDuration  *metrics.Histogram

	// Session metrics
	sessionsClosed *metrics.Counter
	connected      atomic.Int64

	// Probe metrics
	pingTotal    *metrics.Counter
	pingErrors   *metrics.Counter
	pingDuration *metrics.Histogram

	// Per-endpoint drain gauges, registered on first sight of an endpoint
	drainMu     sync.Mutex
	drainGauges map[string]*atomic.Int64
}

// Compile-time assertion that Collector implements types.MetricsCollector.
var _ types.MetricsCollector = (*Collector)(nil)

// New creates a new VictoriaMetrics-based metrics collector.
//
// The collector creates its own metrics.Set and registers it globally unless
// one is supplied via WithMetricsSet.
//
// Parameters:
//   - opts: Configuration options (e.g., WithPrefix)
//
// Returns:
//   - *Collector: A new metrics collector ready for use
//
// Example:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//	client, _ := aerolink.New(cfg,
//	    aerolink.WithMetrics(collector),
//	)
func New(opts ...Option) *Collector {
	c := &Collector{
		prefix:      "aerolink",
		drainGauges: make(map[string]*atomic.Int64),
	}

	for _, opt := range opts {
		opt(c)
	}

	// If no set is provided, create a new one and register it globally.
	// If a set is provided, we assume the caller manages it.
	if c.set == nil {
		c.set = metrics.NewSet()
		metrics.RegisterSet(c.set)
	}

	c.initMetrics()

	return c
}

// initMetrics pre-creates all metrics that carry no endpoint label.
func (c *Collector) initMetrics() {
	p := c.prefix

	c.connectExhausted = c.set.NewCounter(p + "_connect_exhausted_total")
	c.connectDuration = c.set.NewHistogram(p + "_connect_duration_seconds")

	c.sessionsClosed = c.set.NewCounter(p + "_sessions_closed_total")
	c.set.NewGauge(p+"_connected", func() float64 {
		return float64(c.connected.Load())
	})

	c.pingTotal = c.set.NewCounter(p + "_ping_total")
	c.pingErrors = c.set.NewCounter(p + "_ping_errors_total")
	c.pingDuration = c.set.NewHistogram(p + "_ping_duration_seconds")
}

// Set returns the underlying metrics set.
func (c *Collector) Set() *metrics.Set {
	return c.set
}

// Handler returns an HTTP handler that exposes metrics in Prometheus format.
//
// Example:
//
//	http.HandleFunc("/metrics", collector.Handler)
func (c *Collector) Handler(w http.ResponseWriter, _ *http.Request) {
	c.set.WritePrometheus(w)
}

// WritePrometheus writes all metrics in Prometheus format to the given writer.
//
// Parameters:
//   - w: The writer to write metrics to
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

// endpointCounter returns the counter for name labeled with the endpoint.
func (c *Collector) endpointCounter(name, endpoint string) *metrics.Counter {
	return c.set.GetOrCreateCounter(fmt.Sprintf(`%s_%s{endpoint=%q}`, c.prefix, name, endpoint))
}

// ----------------------
// Connect / Failover
// ----------------------

// IncConnectAttempt increments the dial attempt counter for an endpoint.
func (c *Collector) IncConnectAttempt(endpoint string) {
	c.endpointCounter("connect_attempts_total", endpoint).Inc()
}

// IncConnectError increments the dial failure counter for an endpoint.
func (c *Collector) IncConnectError(endpoint string) {
	c.endpointCounter("connect_errors_total", endpoint).Inc()
}

// IncConnectExhausted increments the counter of fully failed connect passes.
func (c *Collector) IncConnectExhausted() {
	c.connectExhausted.Inc()
}

// ObserveConnectDuration records a successful connect pass duration in seconds.
func (c *Collector) ObserveConnectDuration(seconds float64) {
	c.connectDuration.Update(seconds)
}

// ----------------------
// Session Lifecycle
// ----------------------

// IncSessionOpened increments the established session counter for an endpoint.
func (c *Collector) IncSessionOpened(endpoint string) {
	c.endpointCounter("sessions_opened_total", endpoint).Inc()
}

// IncSessionClosed increments the torn-down session counter.
func (c *Collector) IncSessionClosed() {
	c.sessionsClosed.Inc()
}

// SetConnected sets the connectivity gauge.
func (c *Collector) SetConnected(connected bool) {
	val := int64(0)
	if connected {
		val = 1
	}
	c.connected.Store(val)
}

// ----------------------
// Liveness Probe
// ----------------------

// IncPingTotal increments the total probe counter.
func (c *Collector) IncPingTotal() {
	c.pingTotal.Inc()
}

// IncPingError increments the Dead probe counter.
func (c *Collector) IncPingError() {
	c.pingErrors.Inc()
}

// ObservePingDuration records a successful probe duration in seconds.
func (c *Collector) ObservePingDuration(seconds float64) {
	c.pingDuration.Update(seconds)
}

// ----------------------
// Endpoint Drain
// ----------------------

// drainGauge returns the drain state holder for an endpoint, registering the
// backing gauge on first sight.
func (c *Collector) drainGauge(endpoint string) *atomic.Int64 {
	c.drainMu.Lock()
	defer c.drainMu.Unlock()

	g, ok := c.drainGauges[endpoint]
	if !ok {
		g = &atomic.Int64{}
		c.drainGauges[endpoint] = g
		c.set.NewGauge(fmt.Sprintf(`%s_endpoint_draining{endpoint=%q}`, c.prefix, endpoint), func() float64 {
			return float64(g.Load())
		})
	}

	return g
}

// SetEndpointDraining sets the drain status gauge for an endpoint.
func (c *Collector) SetEndpointDraining(endpoint string, draining bool) {
	val := int64(0)
	if draining {
		val = 1
	}
	c.drainGauge(endpoint).Store(val)
}

// IncDrainEntered increments the counter when an endpoint enters drain mode.
func (c *Collector) IncDrainEntered(endpoint string) {
	c.endpointCounter("drain_entered_total", endpoint).Inc()
}

// IncDrainExited increments the counter when an endpoint exits drain mode.
func (c *Collector) IncDrainExited(endpoint string) {
	c.endpointCounter("drain_exited_total", endpoint).Inc()
}
