package types

import (
	"errors"
	"net"
	"strconv"
)

// EndpointRole identifies the failover role of a cluster endpoint.
type EndpointRole string

const (
	// RoleActive marks the primary, first-preference endpoint.
	RoleActive EndpointRole = "active"
	// RolePassive marks a backup endpoint, attempted only after the
	// active endpoint fails.
	RolePassive EndpointRole = "passive"
)

// String returns the string representation of the EndpointRole.
func (r EndpointRole) String() string {
	return string(r)
}

// Endpoint describes a single cluster node address and its failover role.
//
// Endpoints are value types; a set of endpoints forms an ordered candidate
// list with the active endpoint always first.
type Endpoint struct {
	// Host is the node hostname or IP address.
	Host string

	// Port is the node service port (1-65535).
	Port int

	// Role establishes the attempt order during failover.
	Role EndpointRole
}

// Addr returns the endpoint in host:port form suitable for dialing.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// String returns a human-readable representation for logs and metrics.
func (e Endpoint) String() string {
	return string(e.Role) + "/" + e.Addr()
}

// Validate checks that the endpoint has a syntactically valid address.
//
// Returns:
//   - error: A *ConfigError describing the problem, or nil if valid
func (e Endpoint) Validate() error {
	if e.Host == "" {
		return &ConfigError{Field: string(e.Role) + " endpoint", Reason: "host cannot be empty"}
	}
	if e.Port < 1 || e.Port > 65535 {
		return &ConfigError{Field: string(e.Role) + " endpoint", Reason: "port must be in range 1-65535, got " + strconv.Itoa(e.Port)}
	}
	if e.Role != RoleActive && e.Role != RolePassive {
		return &ConfigError{Field: "endpoint " + e.Addr(), Reason: "role must be active or passive"}
	}

	return nil
}

// Edition identifies the product edition the cluster is running.
//
// The numeric values match the edition codes exposed at the process boundary
// (0=community, 1=enterprise, -1=invalid).
type Edition int8

const (
	// EditionInvalid indicates the edition could not be determined.
	// This is a normal value, not a failure.
	EditionInvalid Edition = iota - 1
	// EditionCommunity is the open-source community edition.
	EditionCommunity
	// EditionEnterprise is the commercial enterprise edition.
	EditionEnterprise
)

// String returns the lowercase edition name.
func (e Edition) String() string {
	switch e {
	case EditionCommunity:
		return "community"
	case EditionEnterprise:
		return "enterprise"
	default:
		return "invalid"
	}
}

// Liveness is the boolean health signal produced by the statistics probe.
type Liveness bool

const (
	// Alive indicates the last probe received a well-formed response in time.
	Alive Liveness = true
	// Dead indicates no session, a timeout, a transport error, or a
	// malformed response.
	Dead Liveness = false
)

// String returns "alive" or "dead".
func (l Liveness) String() string {
	if l == Alive {
		return "alive"
	}
	return "dead"
}

// Sentinel errors for common failure scenarios.
var (
	// ErrNilConfig indicates a nil cluster configuration was provided.
	ErrNilConfig = errors.New("aerolink: configuration cannot be nil")

	// ErrNoEndpoints indicates the configuration contains no endpoints.
	// Validation fails before any network I/O is attempted.
	ErrNoEndpoints = errors.New("aerolink: configuration must contain at least one endpoint")

	// ErrClientClosed indicates an operation was attempted on a closed client.
	ErrClientClosed = errors.New("aerolink: client is closed")

	// ErrAllEndpointsFailed indicates connect exhausted the full candidate
	// list without establishing a session.
	ErrAllEndpointsFailed = errors.New("aerolink: all endpoints failed")
)

// ConfigError describes a structurally invalid configuration value.
//
// Returned by client construction before any network I/O happens.
type ConfigError struct {
	// Field names the configuration field at fault.
	Field string

	// Reason is a human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "aerolink: invalid configuration: " + e.Field + ": " + e.Reason
}

// AttemptError wraps the dial failure for a single endpoint.
type AttemptError struct {
	// Endpoint is the endpoint that refused or timed out.
	Endpoint Endpoint

	// Cause is the underlying dial error.
	Cause error
}

// Error implements the error interface.
func (e *AttemptError) Error() string {
	return "aerolink: endpoint " + e.Endpoint.String() + " failed: " + e.Cause.Error()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *AttemptError) Unwrap() error {
	return e.Cause
}

// ConnectError reports that every endpoint in the candidate list failed.
//
// The per-endpoint failures are preserved in attempt order so callers can
// inspect why each candidate was rejected.
type ConnectError struct {
	// Attempts holds one entry per attempted endpoint, in attempt order.
	Attempts []*AttemptError
}

// Error implements the error interface.
func (e *ConnectError) Error() string {
	msg := "aerolink: connect failed on all " + strconv.Itoa(len(e.Attempts)) + " endpoint(s)"
	for _, a := range e.Attempts {
		msg += "; " + a.Error()
	}
	return msg
}

// Unwrap returns the wrapped errors for errors.Is/As compatibility.
// This allows matching ErrAllEndpointsFailed as well as any individual
// attempt's cause.
func (e *ConnectError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts)+1)
	errs = append(errs, ErrAllEndpointsFailed)
	for _, a := range e.Attempts {
		errs = append(errs, a)
	}
	return errs
}
