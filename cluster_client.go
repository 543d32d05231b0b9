package aerolink

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aerolink/aerolink/internal/logging"
	"github.com/aerolink/aerolink/internal/metrics"
	"github.com/aerolink/aerolink/types"
)

// statisticsCommand is the administrative command used for liveness probes.
const statisticsCommand = "statistics"

// Client manages connectivity to a distributed KV cluster.
//
// It owns the lifecycle of the live session: Connect walks the candidate
// list (active endpoint first, then passives in order) and installs the
// first session that can be established; Ping verifies liveness through the
// administrative statistics probe; Close tears everything down.
//
// # Thread Safety
//
// A Client is intended to be driven by a single logical owner. Connect and
// Close must be serialized by the caller; concurrent Connect calls on one
// client are not supported. Ping may be issued concurrently on an
// independent cadence against a stable session - it never mutates the
// session. A Ping racing a Connect or Close must be excluded by the caller's
// own synchronization, not by locking inside the client.
//
// # Lifecycle
//
//	client, err := aerolink.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Connect(ctx); err != nil {
//	    // every endpoint failed; session remains empty, Connect may be retried
//	}
//
//	if client.Ping(ctx) == aerolink.Dead {
//	    // caller decides: reconnect, alert, or ignore
//	}
//
// After Close the client is terminal: Connect returns ErrClientClosed and
// Ping reports Dead. Close is idempotent and safe before any Connect.
type Client struct {
	config   *ClientConfig
	resolver *Resolver
	edition  types.Edition

	session  atomic.Pointer[Session]
	liveness atomic.Bool
	closed   atomic.Bool

	watchCtx   context.Context
	watchClose context.CancelFunc

	drainMu  sync.RWMutex
	draining map[string]bool
}

// New creates a client from a parsed cluster configuration.
//
// Construction validates structure only: at least one endpoint must be
// present and every address must be syntactically valid. No network I/O is
// attempted; connectivity is established later by Connect. The product
// edition is detected once, from the configured edition field.
//
// If a DrainWatcher is configured it is started in the background and
// stopped by Close.
//
// Parameters:
//   - cluster: The cluster configuration (required)
//   - opts: Optional configuration options
//
// Returns:
//   - *Client: A new, not yet connected client
//   - error: types.ErrNilConfig, types.ErrNoEndpoints, or a *types.ConfigError
func New(cluster *ClusterConfig, opts ...Option) (*Client, error) {
	if cluster == nil {
		return nil, types.ErrNilConfig
	}
	if err := cluster.Validate(); err != nil {
		return nil, err
	}

	config := DefaultClientConfig()
	for _, opt := range opts {
		opt(config)
	}

	// Ensure metrics is never nil
	if config.Metrics == nil {
		config.Metrics = metrics.NewNopMetrics()
	}

	// Ensure logger is never nil
	if config.Logger == nil {
		config.Logger = logging.NewNopLogger()
	}

	editionKey := cluster.EditionKey
	if editionKey == "" {
		editionKey = DefaultEditionKey
	}

	ctx, cancel := context.WithCancel(context.Background())

	client := &Client{
		config:     config,
		resolver:   NewResolver(cluster.Endpoints()),
		edition:    DetectEdition(cluster.Values, editionKey),
		watchCtx:   ctx,
		watchClose: cancel,
		draining:   make(map[string]bool),
	}

	config.Logger.Debug("client initialized",
		"endpoints", client.resolver.Len(),
		"edition", client.edition.String(),
	)

	// Start drain watcher if configured
	if config.DrainWatcher != nil {
		go client.watchDrain()
	}

	return client, nil
}

// Connect establishes a session by walking the candidate list in order.
//
// Each endpoint gets one dial attempt bounded by the connect timeout; the
// first successful attempt wins and the remaining candidates are not tried.
// The order is deterministic: active endpoint first, then passive endpoints
// in configured order, with no skipping and no randomization.
//
// If the client already holds a session it is torn down before the failover
// pass begins, so a session is never leaked by reconnecting.
//
// On exhaustion a *types.ConnectError wrapping types.ErrAllEndpointsFailed
// and every per-endpoint failure is returned, and the client holds no
// session. Connect does not retry across passes; whether and when to call
// Connect again (and with what backoff) is caller policy.
//
// Parameters:
//   - ctx: Context bounding the overall pass; each dial also gets the
//     per-endpoint connect timeout
//
// Returns:
//   - error: nil on success, types.ErrClientClosed, or a *types.ConnectError
func (c *Client) Connect(ctx context.Context) error {
	if c.closed.Load() {
		return types.ErrClientClosed
	}

	// Reconnecting: retire the current session before the new pass.
	if old := c.session.Swap(nil); old != nil {
		c.config.Logger.Info("retiring existing session before reconnect",
			"session_id", old.ID(),
			"endpoint", old.Endpoint().String(),
		)
		c.teardown(old)
	}

	start := time.Now()
	attempt := 0
	var failures []*types.AttemptError

	for ep := range c.resolver.Endpoints() {
		attempt++
		c.config.Metrics.IncConnectAttempt(ep.Addr())
		c.config.Logger.Debug("attempting endpoint",
			"endpoint", ep.String(),
			"attempt", attempt,
		)

		conn, err := c.dial(ctx, ep)
		if err != nil {
			c.config.Metrics.IncConnectError(ep.Addr())
			c.config.Logger.Warn("endpoint attempt failed",
				"endpoint", ep.String(),
				"attempt", attempt,
				"error", err,
			)
			failures = append(failures, &types.AttemptError{Endpoint: ep, Cause: err})

			continue
		}

		session := newSession(ep, conn)
		c.session.Store(session)
		c.liveness.Store(true)

		c.config.Metrics.IncSessionOpened(ep.Addr())
		c.config.Metrics.SetConnected(true)
		c.config.Metrics.ObserveConnectDuration(time.Since(start).Seconds())
		c.config.Logger.Info("connected",
			"endpoint", ep.String(),
			"session_id", session.ID(),
			"attempt", attempt,
		)

		return nil
	}

	c.config.Metrics.IncConnectExhausted()
	c.config.Logger.Error("connect exhausted all endpoints",
		"attempts", attempt,
	)

	return &types.ConnectError{Attempts: failures}
}

// dial opens a transport connection to one endpoint with a bounded timeout.
func (c *Client) dial(ctx context.Context, ep types.Endpoint) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)
	defer cancel()

	return c.config.Dialer(dialCtx, "tcp", ep.Addr())
}

// Ping reports the liveness of the current session.
//
// A single statistics request is issued with a bounded timeout. The result
// is Alive iff a well-formed response arrives in time; a missing session,
// timeout, transport error, or malformed response all fold into Dead. Ping
// never returns an error and never mutates the session - the decision to
// tear down and reconnect after a Dead report belongs to the caller.
//
// Parameters:
//   - ctx: Context for the probe; the ping timeout is applied on top
//
// Returns:
//   - types.Liveness: Alive or Dead
func (c *Client) Ping(ctx context.Context) types.Liveness {
	c.config.Metrics.IncPingTotal()

	session := c.session.Load()
	if session == nil || c.closed.Load() {
		c.config.Metrics.IncPingError()
		c.liveness.Store(false)

		return types.Dead
	}

	probeCtx, cancel := context.WithTimeout(ctx, c.config.PingTimeout)
	defer cancel()

	start := time.Now()
	values, err := session.Info(probeCtx, statisticsCommand)
	if err != nil {
		c.config.Metrics.IncPingError()
		c.liveness.Store(false)
		c.config.Logger.Warn("liveness probe failed",
			"session_id", session.ID(),
			"endpoint", session.Endpoint().String(),
			"error", err,
		)

		return types.Dead
	}

	if _, ok := values[statisticsCommand]; !ok {
		c.config.Metrics.IncPingError()
		c.liveness.Store(false)
		c.config.Logger.Warn("liveness probe returned no statistics",
			"session_id", session.ID(),
		)

		return types.Dead
	}

	c.config.Metrics.ObservePingDuration(time.Since(start).Seconds())
	c.liveness.Store(true)

	return types.Alive
}

// Disconnect retires the current session without closing the client.
//
// This is the remediation half callers typically pair with a Dead probe:
// after Disconnect the client is back in the disconnected state and Connect
// may be called again. Calling Disconnect with no session is a no-op.
func (c *Client) Disconnect() {
	if session := c.session.Swap(nil); session != nil {
		c.config.Logger.Info("session retired",
			"session_id", session.ID(),
			"endpoint", session.Endpoint().String(),
		)
		c.teardown(session)
	}
	c.liveness.Store(false)
}

// Close tears down the client and releases all resources.
//
// The held session, if any, is closed, and the drain watcher is stopped.
// Close is idempotent and infallible: repeat calls are no-ops, and it is
// safe to call on a client that never connected.
func (c *Client) Close() {
	if c.closed.Swap(true) {
		return
	}

	c.watchClose()

	if session := c.session.Swap(nil); session != nil {
		if err := session.Close(); err != nil {
			c.config.Logger.Debug("session close", "error", err)
		}
		c.config.Metrics.IncSessionClosed()
	}
	c.liveness.Store(false)
	c.config.Metrics.SetConnected(false)

	c.config.Logger.Info("client closed")
}

// teardown closes a retired session and records the transition.
func (c *Client) teardown(session *Session) {
	if err := session.Close(); err != nil {
		c.config.Logger.Debug("session close", "error", err)
	}
	c.config.Metrics.IncSessionClosed()
	c.config.Metrics.SetConnected(false)
}

// Session returns the current live session, or nil when disconnected.
func (c *Client) Session() *Session {
	return c.session.Load()
}

// IsConnected reports whether the client currently holds a session.
func (c *Client) IsConnected() bool {
	return c.session.Load() != nil
}

// Liveness returns the last known probe result.
//
// The value reflects the most recent Connect or Ping outcome; it is not a
// fresh probe. Use Ping for an on-demand check.
func (c *Client) Liveness() types.Liveness {
	return types.Liveness(c.liveness.Load())
}

// Edition returns the product edition detected at construction.
func (c *Client) Edition() types.Edition {
	return c.edition
}

// IsDraining reports whether the given endpoint address has been marked as
// draining by the configured DrainWatcher.
//
// Parameters:
//   - endpoint: The endpoint address (host:port)
//
// Returns:
//   - bool: true if the endpoint is in drain mode
func (c *Client) IsDraining(endpoint string) bool {
	c.drainMu.RLock()
	defer c.drainMu.RUnlock()

	return c.draining[endpoint]
}

// watchDrain monitors drain updates and records transitions.
func (c *Client) watchDrain() {
	updates := c.config.DrainWatcher.Watch(c.watchCtx)
	for update := range updates {
		c.drainMu.Lock()
		previous := c.draining[update.Endpoint]
		c.draining[update.Endpoint] = update.Draining
		c.drainMu.Unlock()

		if !previous && update.Draining {
			c.config.Metrics.IncDrainEntered(update.Endpoint)
			c.config.Metrics.SetEndpointDraining(update.Endpoint, true)
			c.config.Logger.Warn("endpoint entering drain mode",
				"endpoint", update.Endpoint,
			)
		} else if previous && !update.Draining {
			c.config.Metrics.IncDrainExited(update.Endpoint)
			c.config.Metrics.SetEndpointDraining(update.Endpoint, false)
			c.config.Logger.Info("endpoint exiting drain mode",
				"endpoint", update.Endpoint,
			)
		}
	}
}
