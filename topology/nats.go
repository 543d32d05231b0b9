package topology

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/aerolink/aerolink"
)

// NATS monitors a NATS KV bucket for endpoint drain configuration.
//
// It watches a configurable key and emits EndpointUpdate events when the
// drain status of any endpoint changes. This enables operations teams to
// signal node maintenance so applications can reconnect away from an
// endpoint before it goes down.
//
// Watch() should be called once per instance. Subsequent calls return the
// same channel. The channel is closed when Close() is called or the context
// is cancelled.
type NATS struct {
	kv     jetstream.KeyValue
	config WatcherConfig

	// Current drain state
	draining    map[string]bool
	drainReason string
	mu          sync.RWMutex

	// Lifecycle
	updates      chan aerolink.EndpointUpdate
	done         chan struct{}
	closed       bool
	watchStarted bool
	closeOnce    sync.Once
}

var _ aerolink.DrainWatcher = (*NATS)(nil)

// NewNATS creates a new NATS KV drain watcher.
//
// The watcher will begin monitoring the KV bucket for drain configuration
// when Watch() is called.
//
// Parameters:
//   - kv: A NATS JetStream KeyValue store
//   - opts: Optional configuration options
//
// Returns:
//   - *NATS: A new watcher instance
//   - error: Error if kv is nil
//
// Example:
//
//	nc, _ := nats.Connect("nats://localhost:4222")
//	js, _ := jetstream.New(nc)
//	kv, _ := js.KeyValue(ctx, "aerolink-config")
//
//	watcher, _ := topology.NewNATS(kv,
//	    topology.WithKey("topology.drain"),
//	    topology.WithPollInterval(10*time.Second),
//	)
func NewNATS(kv jetstream.KeyValue, opts ...WatcherOption) (*NATS, error) {
	if kv == nil {
		return nil, errors.New("aerolink/topology: KeyValue store is nil")
	}

	config := DefaultWatcherConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &NATS{
		kv:       kv,
		config:   config,
		draining: make(map[string]bool),
		updates:  make(chan aerolink.EndpointUpdate, 10),
		done:     make(chan struct{}),
	}, nil
}

// Watch returns a channel that receives endpoint drain updates.
//
// The watcher spawns a background goroutine that monitors the NATS KV key.
// When the drain configuration changes, it emits EndpointUpdate events for
// each affected endpoint.
//
// The channel is closed when Close() is called or the context is cancelled.
// Multiple calls to Watch return the same channel; only the first call's
// context controls the watch lifecycle.
//
// Parameters:
//   - ctx: Context for cancellation (only used on first call)
//
// Returns:
//   - <-chan aerolink.EndpointUpdate: Channel of drain state changes
func (n *NATS) Watch(ctx context.Context) <-chan aerolink.EndpointUpdate {
	n.mu.Lock()
	if n.watchStarted {
		n.mu.Unlock()

		return n.updates
	}
	n.watchStarted = true
	n.mu.Unlock()

	go n.watchLoop(ctx)

	return n.updates
}

// Close stops the watcher and releases resources.
//
// This method is safe to call multiple times.
func (n *NATS) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}

	n.closed = true
	close(n.done)

	return nil
}

// IsDraining returns whether the specified endpoint is currently in drain mode.
//
// This provides a synchronous way to check drain status without waiting
// for channel updates.
//
// Parameters:
//   - endpoint: The endpoint address (host:port) to check
//
// Returns:
//   - bool: true if the endpoint is being drained
func (n *NATS) IsDraining(endpoint string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.draining[endpoint]
}

// Config returns the watcher configuration.
//
// This method is primarily useful for testing to verify configuration options.
//
// Returns:
//   - WatcherConfig: The current watcher configuration
func (n *NATS) Config() WatcherConfig {
	return n.config
}

// GetDrainReason returns the current drain reason, if any.
//
// This returns the cached reason from the last processed KV entry.
// It does not perform a live KV fetch.
//
// Returns:
//   - string: The drain reason, or empty if not draining
func (n *NATS) GetDrainReason() string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.drainReason
}

// watchLoop is the main watch loop that monitors the NATS KV key.
func (n *NATS) watchLoop(ctx context.Context) {
	defer n.closeOnce.Do(func() { close(n.updates) })

	// Initial fetch
	n.fetchAndEmit(ctx)

	// Start watching
	watcher, err := n.kv.Watch(ctx, n.config.Key)
	if err != nil {
		// Fall back to polling if watch fails
		n.pollLoop(ctx)
		return
	}
	defer func() { _ = watcher.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-n.done:
			return
		case entry, ok := <-watcher.Updates():
			if !ok {
				// Watcher channel closed, fall back to polling
				n.pollLoop(ctx)
				return
			}
			if entry == nil {
				// Initial nil entry, skip
				continue
			}
			n.processEntry(entry)
		}
	}
}

// pollLoop is a fallback polling loop when watch fails.
func (n *NATS) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(n.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-n.done:
			return
		case <-ticker.C:
			n.fetchAndEmit(ctx)
		}
	}
}

// fetchAndEmit fetches the current KV value and emits updates if changed.
func (n *NATS) fetchAndEmit(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, n.config.InitialFetchTimeout)
	defer cancel()

	entry, err := n.kv.Get(fetchCtx, n.config.Key)
	if err != nil {
		// Key doesn't exist or error - treat as no drain
		n.handleNoDrain()
		return
	}

	n.processEntry(entry)
}

// processEntry parses a KV entry and emits endpoint updates.
func (n *NATS) processEntry(entry jetstream.KeyValueEntry) {
	// Handle deletion
	if entry.Operation() == jetstream.KeyValueDelete || entry.Operation() == jetstream.KeyValuePurge {
		n.handleNoDrain()
		return
	}

	var config DrainConfig
	if err := json.Unmarshal(entry.Value(), &config); err != nil {
		// Invalid JSON - treat as no drain
		n.handleNoDrain()
		return
	}

	// Cache the drain reason
	n.mu.Lock()
	n.drainReason = config.Reason

	// Endpoints known so far plus any newly drained ones
	known := make([]string, 0, len(n.draining)+len(config.Drain))
	for e := range n.draining {
		known = append(known, e)
	}
	n.mu.Unlock()

	for _, e := range config.Drain {
		n.updateDrainState(e, true)
	}
	for _, e := range known {
		if !config.ContainsEndpoint(e) {
			n.updateDrainState(e, false)
		}
	}
}

// handleNoDrain clears all drain states and the reason.
func (n *NATS) handleNoDrain() {
	n.mu.Lock()
	n.drainReason = ""
	known := make([]string, 0, len(n.draining))
	for e := range n.draining {
		known = append(known, e)
	}
	n.mu.Unlock()

	for _, e := range known {
		n.updateDrainState(e, false)
	}
}

// updateDrainState updates the drain state for an endpoint and emits an
// update if changed.
func (n *NATS) updateDrainState(endpoint string, draining bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	// Only emit if state changed
	if n.draining[endpoint] == draining {
		return
	}

	n.draining[endpoint] = draining

	// Emit update (non-blocking)
	select {
	case n.updates <- aerolink.EndpointUpdate{
		Endpoint:  endpoint,
		Available: !draining,
		Draining:  draining,
	}:
	default:
		// Channel full, skip update (older updates are stale anyway)
	}
}
