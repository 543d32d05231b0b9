package aerolink

import "context"

// DrainWatcher monitors endpoint maintenance (drain) signals.
//
// Implementations include topology.Local (in-memory) and topology.NATS
// (NATS KV backed).
type DrainWatcher interface {
	// Watch returns a channel that receives endpoint drain updates.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//
	// Returns:
	//   - <-chan EndpointUpdate: Channel of drain state changes
	Watch(ctx context.Context) <-chan EndpointUpdate
}

// DrainOperator allows setting endpoint drain states.
//
// This interface is typically used by operations tools and tests to signal
// endpoint maintenance. Implementations include topology.Local (in-memory).
type DrainOperator interface {
	// SetDrain sets the drain state for an endpoint.
	//
	// Parameters:
	//   - ctx: Context for cancellation/timeout
	//   - endpoint: The endpoint address (host:port) to update
	//   - draining: true to enable drain mode, false to disable
	//   - reason: Human-readable reason for the drain (only used when draining=true)
	//
	// Returns:
	//   - error: nil on success, error if the operation fails
	SetDrain(ctx context.Context, endpoint string, draining bool, reason string) error
}

// EndpointUpdate represents a change in an endpoint's maintenance state.
type EndpointUpdate struct {
	// Endpoint is the affected endpoint address (host:port).
	Endpoint string

	// Available indicates if the endpoint is available for connections.
	Available bool

	// Draining indicates if the endpoint is in drain mode.
	Draining bool
}
