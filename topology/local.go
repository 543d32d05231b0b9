package topology

import (
	"context"
	"sync"

	"github.com/aerolink/aerolink"
)

// Local provides an in-memory drain watcher and operator for testing.
//
// Unlike NATS, this implementation allows programmatic control of drain
// states, making it ideal for unit tests and demos. It implements both
// DrainWatcher (for observing) and DrainOperator (for controlling drain
// states).
type Local struct {
	draining    map[string]bool
	drainReason string
	mu          sync.RWMutex

	updates       chan aerolink.EndpointUpdate
	done          chan struct{}
	closed        bool
	updatesClosed bool
}

var (
	_ aerolink.DrainWatcher  = (*Local)(nil)
	_ aerolink.DrainOperator = (*Local)(nil)
)

// NewLocal creates a new in-memory drain watcher/operator.
//
// Returns:
//   - *Local: A new local drain instance
func NewLocal() *Local {
	return &Local{
		draining: make(map[string]bool),
		updates:  make(chan aerolink.EndpointUpdate, 10),
		done:     make(chan struct{}),
	}
}

// Watch returns a channel that receives endpoint drain updates.
//
// Updates are emitted when SetDrain is called. The channel is closed
// when Close() is called or the context is cancelled.
//
// Multiple calls to Watch return the same channel; only the first call's
// context controls the watch lifecycle.
//
// Parameters:
//   - ctx: Context for cancellation (only used on first call)
//
// Returns:
//   - <-chan aerolink.EndpointUpdate: Channel of drain state changes
func (l *Local) Watch(ctx context.Context) <-chan aerolink.EndpointUpdate {
	go l.waitForClose(ctx)
	return l.updates
}

// SetDrain sets the drain state for an endpoint.
//
// This method emits an EndpointUpdate if the state changes.
//
// Parameters:
//   - ctx: Context for cancellation. For the local in-memory implementation,
//     this parameter is accepted for interface compliance but not used.
//   - endpoint: The endpoint address (host:port) to update
//   - draining: true to enable drain mode, false to disable
//   - reason: Human-readable reason for the drain (only used when draining=true)
//
// Returns:
//   - error: Always nil for local implementation
func (l *Local) SetDrain(_ context.Context, endpoint string, draining bool, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || l.updatesClosed {
		return nil
	}

	// Only emit if state changed
	if l.draining[endpoint] == draining {
		return nil
	}

	l.draining[endpoint] = draining
	if draining {
		l.drainReason = reason
	} else if !l.anyDrainingLocked() {
		// Clear reason only when no endpoints are draining
		l.drainReason = ""
	}

	// Emit update (non-blocking)
	select {
	case l.updates <- aerolink.EndpointUpdate{
		Endpoint:  endpoint,
		Available: !draining,
		Draining:  draining,
	}:
	default:
		// Channel full, skip update
	}

	return nil
}

// IsDraining returns whether the specified endpoint is currently in drain mode.
//
// Parameters:
//   - endpoint: The endpoint address (host:port) to check
//
// Returns:
//   - bool: true if the endpoint is being drained
func (l *Local) IsDraining(endpoint string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.draining[endpoint]
}

// GetDrainReason returns the current drain reason, if any.
//
// Returns:
//   - string: The drain reason, or empty string if not draining
func (l *Local) GetDrainReason() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.drainReason
}

// Close stops the watcher and releases resources.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true
	close(l.done)

	return nil
}

// anyDrainingLocked reports whether any endpoint is draining. Caller holds mu.
func (l *Local) anyDrainingLocked() bool {
	for _, d := range l.draining {
		if d {
			return true
		}
	}
	return false
}

// waitForClose waits for context cancellation or close signal.
func (l *Local) waitForClose(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-l.done:
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.updatesClosed {
		l.updatesClosed = true
		close(l.updates)
	}
}
