// Package types provides shared types and error definitions for the aerolink library.
//
// This is a leaf package with zero aerolink imports to prevent import cycles.
// All packages in aerolink can safely import this package.
//
// # Types
//
// Endpoint describes a cluster node address with its failover role:
//
//	ep := types.Endpoint{Host: "10.0.0.1", Port: 3000, Role: types.RoleActive}
//
// Edition identifies the product edition, with numeric values matching the
// codes exposed at the process boundary:
//
//	const (
//	    EditionInvalid    Edition = -1
//	    EditionCommunity  Edition = 0
//	    EditionEnterprise Edition = 1
//	)
//
// Liveness is the two-valued health signal produced by the statistics probe;
// all underlying faults (timeout, transport error, malformed response) fold
// into Dead.
//
// # Errors
//
// Sentinel errors are provided for common failure scenarios:
//
//   - ErrNilConfig: A nil configuration was provided
//   - ErrNoEndpoints: The configuration contains no endpoints
//   - ErrClientClosed: An operation was attempted on a closed client
//   - ErrAllEndpointsFailed: Connect exhausted the full candidate list
//
// ConnectError preserves the per-endpoint dial failures in attempt order and
// unwraps to ErrAllEndpointsFailed for errors.Is matching.
package types
