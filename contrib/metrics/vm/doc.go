// Package vm provides a VictoriaMetrics-based implementation of the MetricsCollector interface.
//
// This package uses github.com/VictoriaMetrics/metrics for lightweight,
// high-performance Prometheus-compatible metrics collection.
//
// # Basic Usage
//
// Create a collector with default prefix "aerolink":
//
//	collector := vm.New()
//	client, _ := aerolink.New(cfg,
//	    aerolink.WithMetrics(collector),
//	)
//
// # Custom Prefix
//
// Use WithPrefix to customize the metric name prefix:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//
// This produces metrics like:
//   - myapp_connect_attempts_total{endpoint="10.0.0.1:3000"}
//   - myapp_ping_duration_seconds
//
// # Exposing Metrics
//
// Use the Handler method to expose metrics via HTTP:
//
//	http.HandleFunc("/metrics", collector.Handler)
//	http.ListenAndServe(":8080", nil)
//
// Or use WritePrometheus to write metrics to a custom writer:
//
//	collector.WritePrometheus(w)
//
// # Metrics Provided
//
// Connect / failover:
//   - {prefix}_connect_attempts_total{endpoint} - Counter of dial attempts
//   - {prefix}_connect_errors_total{endpoint} - Counter of dial failures
//   - {prefix}_connect_exhausted_total - Counter of fully failed connect passes
//   - {prefix}_connect_duration_seconds - Histogram of successful connect latencies
//
// Session lifecycle:
//   - {prefix}_sessions_opened_total{endpoint} - Counter of established sessions
//   - {prefix}_sessions_closed_total - Counter of torn-down sessions
//   - {prefix}_connected - Gauge (1=session held, 0=disconnected)
//
// Liveness probe:
//   - {prefix}_ping_total - Counter of statistics probes
//   - {prefix}_ping_errors_total - Counter of Dead probe results
//   - {prefix}_ping_duration_seconds - Histogram of probe latencies
//
// Endpoint drain:
//   - {prefix}_endpoint_draining{endpoint} - Gauge (1=draining, 0=healthy)
//   - {prefix}_drain_entered_total{endpoint} - Counter of drain entries
//   - {prefix}_drain_exited_total{endpoint} - Counter of drain exits
//
// # Performance Notes
//
// Metrics without an endpoint label are pre-created at initialization time
// using the NewXXX pattern for optimal performance in hot paths, as
// recommended by the VictoriaMetrics documentation. Endpoint-labeled metrics
// use GetOrCreateXXX because the candidate endpoint set comes from runtime
// configuration.
//
// The metrics are registered with a dedicated Set that is registered
// globally, allowing standard Prometheus scraping.
package vm
