// Package aerolink provides a client-side connection manager for a
// distributed key-value database cluster.
//
// aerolink owns the hard part of cluster connectivity: establishing and
// maintaining a usable session, failing over between the primary ("active")
// endpoint and backup ("passive") endpoints, detecting the product edition,
// and verifying liveness through the administrative statistics probe. Data
// operations against the cluster are out of scope - once a session exists,
// the application drives its own transport client.
//
// # Key Features
//
//   - Ordered Failover: Active endpoint first, then passives in configured
//     order; first success wins, every candidate is tried before failure
//   - Liveness Probing: On-demand Ping plus an optional background monitor
//     (health package) with pluggable failure policies (policy package)
//   - Edition Detection: Pure, case-insensitive mapping of a configuration
//     field to Community/Enterprise/Invalid
//   - Drain Signals: Optional endpoint maintenance watcher backed by NATS KV
//     or an in-memory implementation (topology package)
//   - Observability: Structured logging and a pluggable metrics collector
//     (contrib/metrics/vm for VictoriaMetrics)
//
// # Basic Usage
//
//	cfg := &aerolink.ClusterConfig{
//	    Active:  aerolink.EndpointConfig{Host: "10.0.0.1", Port: 3000},
//	    Passive: []aerolink.EndpointConfig{{Host: "10.0.0.2", Port: 3000}},
//	    Values:  map[string]string{"EDITION": "enterprise"},
//	}
//
//	client, err := aerolink.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Connect(ctx); err != nil {
//	    log.Fatal(err) // every endpoint failed
//	}
//
//	if client.Ping(ctx) == aerolink.Dead {
//	    client.Disconnect()
//	    _ = client.Connect(ctx) // caller-chosen remediation
//	}
//
// # Error Handling
//
// Construction surfaces structural configuration problems immediately:
//
//   - types.ErrNilConfig: nil configuration
//   - types.ErrNoEndpoints: no endpoint descriptors at all
//   - *types.ConfigError: a malformed address or missing role
//
// Connect fails only after exhausting every candidate once, returning a
// *types.ConnectError that unwraps to types.ErrAllEndpointsFailed and each
// per-endpoint cause:
//
//	if err := client.Connect(ctx); err != nil {
//	    var connErr *types.ConnectError
//	    if errors.As(err, &connErr) {
//	        for _, attempt := range connErr.Attempts {
//	            log.Printf("%s: %v", attempt.Endpoint, attempt.Cause)
//	        }
//	    }
//	}
//
// Ping never returns an error: liveness is a two-valued signal and every
// underlying fault (timeout, refused connection, malformed response) folds
// into Dead. Close is infallible and idempotent.
//
// # Detection vs. Remediation
//
// aerolink deliberately separates detecting a dead session from repairing
// one. Ping and the health monitor only report; tearing down the session and
// re-running failover stays with the caller, so remediation policy
// (immediate reconnect, alerting, backoff between passes) can be chosen
// independently of detection.
package aerolink
