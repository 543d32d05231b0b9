// Package policy provides pluggable failure policies for liveness probing.
//
// A policy decides when a run of Dead probes should be treated as a dead
// session worth retiring. Policies only advise; the health monitor (or the
// application) performs the actual remediation.
//
// # Policies
//
// AlwaysFailover recommends failover on the first Dead probe. Use it when
// probe timeouts are generous and any failure is significant:
//
//	monitor := health.NewMonitor(client,
//	    health.WithPolicy(policy.NewAlwaysFailover()),
//	)
//
// CircuitBreaker requires a threshold of consecutive Dead probes before
// recommending failover, which prevents flapping on transient faults:
//
//	monitor := health.NewMonitor(client,
//	    health.WithPolicy(policy.NewCircuitBreaker(
//	        policy.WithThreshold(3),
//	        policy.WithResetTimeout(30*time.Second),
//	    )),
//	)
//
// Both policies are safe for concurrent use.
package policy
