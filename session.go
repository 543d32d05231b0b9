package aerolink

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/aerolink/aerolink/info"
	"github.com/aerolink/aerolink/types"
)

// Session represents one live connection to a chosen cluster endpoint.
//
// A session exclusively owns its underlying transport connection. It is
// created by Client.Connect on a successful dial and destroyed on Close or
// when the client retires it during reconnect. Sessions are never shared
// across clients.
type Session struct {
	id       string
	endpoint types.Endpoint
	conn     net.Conn
	mu       sync.Mutex
	closed   atomic.Bool
}

// newSession wraps an established connection.
func newSession(endpoint types.Endpoint, conn net.Conn) *Session {
	return &Session{
		id:       uuid.NewString(),
		endpoint: endpoint,
		conn:     conn,
	}
}

// ID returns the unique session identifier used in logs and metrics.
func (s *Session) ID() string {
	return s.id
}

// Endpoint returns the endpoint this session is connected to.
func (s *Session) Endpoint() types.Endpoint {
	return s.endpoint
}

// Info issues an administrative info request on the session.
//
// Concurrent Info calls on one session are serialized internally: the wire
// protocol interleaves one request/response exchange at a time on the shared
// connection, so a later call waits for the in-flight exchange to finish.
//
// Parameters:
//   - ctx: Context whose deadline bounds the exchange
//   - names: Info command names (e.g. "statistics", "build")
//
// Returns:
//   - map[string]string: Response values keyed by command name
//   - error: types.ErrClientClosed if closed, transport or protocol error otherwise
func (s *Session) Info(ctx context.Context, names ...string) (map[string]string, error) {
	if s.closed.Load() {
		return nil, types.ErrClientClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return info.Request(ctx, s.conn, names...)
}

// Close releases the underlying transport connection.
//
// Close is idempotent; only the first call closes the connection.
//
// Returns:
//   - error: Error from closing the connection, nil on repeat calls
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	return s.conn.Close()
}
