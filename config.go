package aerolink

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aerolink/aerolink/internal/logging"
	"github.com/aerolink/aerolink/internal/metrics"
	"github.com/aerolink/aerolink/types"
)

// DefaultEditionKey is the configuration key consulted for edition detection
// when ClusterConfig.EditionKey is empty.
const DefaultEditionKey = "EDITION"

// EndpointConfig describes a single cluster node address in configuration form.
type EndpointConfig struct {
	// Host is the node hostname or IP address.
	Host string `yaml:"host"`

	// Port is the node service port.
	Port int `yaml:"port"`
}

// ClusterConfig is the parsed cluster configuration consumed by New.
//
// It is a plain value object: aerolink never reads the process environment or
// any other ambient state. Callers construct it directly or load it from a
// YAML file via LoadClusterConfig.
type ClusterConfig struct {
	// Active is the primary endpoint, always attempted first. Required.
	Active EndpointConfig `yaml:"active"`

	// Passive lists backup endpoints attempted, in order, after the active
	// endpoint fails. Optional.
	Passive []EndpointConfig `yaml:"passive"`

	// Values carries named configuration fields, including the edition field
	// consulted by DetectEdition.
	Values map[string]string `yaml:"values"`

	// EditionKey names the entry in Values that identifies the product
	// edition. Defaults to DefaultEditionKey.
	EditionKey string `yaml:"edition_key"`
}

// Endpoints returns the ordered candidate list described by the configuration.
//
// Returns:
//   - []types.Endpoint: Active endpoint first, then passives in configured order
func (c *ClusterConfig) Endpoints() []types.Endpoint {
	eps := make([]types.Endpoint, 0, 1+len(c.Passive))
	if c.Active.Host != "" || c.Active.Port != 0 {
		eps = append(eps, types.Endpoint{Host: c.Active.Host, Port: c.Active.Port, Role: types.RoleActive})
	}
	for _, p := range c.Passive {
		eps = append(eps, types.Endpoint{Host: p.Host, Port: p.Port, Role: types.RolePassive})
	}
	return eps
}

// Validate checks the configuration for structural problems.
//
// Validation is purely syntactic: it confirms at least one endpoint exists
// and that every address is well-formed. No network I/O is performed.
//
// Returns:
//   - error: ErrNoEndpoints, a *types.ConfigError, or nil if valid
func (c *ClusterConfig) Validate() error {
	eps := c.Endpoints()
	if len(eps) == 0 {
		return types.ErrNoEndpoints
	}
	if eps[0].Role != types.RoleActive {
		return &types.ConfigError{Field: "active", Reason: "an active endpoint is required"}
	}
	for _, ep := range eps {
		if err := ep.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// LoadClusterConfig reads a YAML cluster configuration from path.
//
// Example file:
//
//	active:
//	  host: 10.0.0.1
//	  port: 3000
//	passive:
//	  - host: 10.0.0.2
//	    port: 3000
//	values:
//	  EDITION: enterprise
//
// Parameters:
//   - path: Path to the YAML file
//
// Returns:
//   - *ClusterConfig: The parsed configuration (not yet validated)
//   - error: File or YAML error
func LoadClusterConfig(path string) (*ClusterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("aerolink: read config: %w", err)
	}

	var cfg ClusterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("aerolink: parse config: %w", err)
	}

	return &cfg, nil
}

// DialFunc opens a transport connection to addr. It matches the signature of
// net.Dialer.DialContext so a custom dialer can be injected for testing.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// ClientConfig holds runtime configuration for a Client.
type ClientConfig struct {
	// ConnectTimeout bounds each per-endpoint dial attempt.
	ConnectTimeout time.Duration

	// PingTimeout bounds each statistics probe.
	PingTimeout time.Duration

	// Dialer opens connections. Defaults to a plain net.Dialer.
	Dialer DialFunc

	// DrainWatcher, if set, is watched for endpoint drain signals.
	DrainWatcher DrainWatcher

	// Metrics receives operational metrics. Defaults to a no-op collector.
	Metrics types.MetricsCollector

	// Logger receives structured logs. Defaults to a no-op logger.
	Logger types.Logger
}

// DefaultClientConfig returns a ClientConfig with sensible defaults.
//
// Defaults: ConnectTimeout=3s, PingTimeout=2s, net.Dialer transport, no-op
// logger and metrics.
//
// Returns:
//   - *ClientConfig: Configuration with default settings
func DefaultClientConfig() *ClientConfig {
	dialer := &net.Dialer{}

	return &ClientConfig{
		ConnectTimeout: 3 * time.Second,
		PingTimeout:    2 * time.Second,
		Dialer:         dialer.DialContext,
		Metrics:        metrics.NewNopMetrics(),
		Logger:         logging.NewNopLogger(),
	}
}

// Option configures a ClientConfig.
type Option func(*ClientConfig)

// WithConnectTimeout sets the per-endpoint dial timeout.
//
// Each endpoint in the failover sequence gets its own timeout; a full connect
// pass over N endpoints may take up to N times this duration.
//
// Parameters:
//   - d: Dial timeout per endpoint
//
// Returns:
//   - Option: Configuration option
func WithConnectTimeout(d time.Duration) Option {
	return func(c *ClientConfig) {
		c.ConnectTimeout = d
	}
}

// WithPingTimeout sets the timeout for a single statistics probe.
//
// Parameters:
//   - d: Probe timeout
//
// Returns:
//   - Option: Configuration option
func WithPingTimeout(d time.Duration) Option {
	return func(c *ClientConfig) {
		c.PingTimeout = d
	}
}

// WithDialer sets the transport dialer.
//
// This is primarily useful for tests that need to observe or script dial
// attempts, and for callers that require custom socket options.
//
// Parameters:
//   - dial: The dial function to use
//
// Returns:
//   - Option: Configuration option
func WithDialer(dial DialFunc) Option {
	return func(c *ClientConfig) {
		c.Dialer = dial
	}
}

// WithDrainWatcher sets the drain watcher for endpoint maintenance signals.
//
// The watcher is started automatically when the client is created and stopped
// when Close is called. Drain signals are logged and recorded in metrics;
// whether to reconnect away from a draining endpoint remains caller policy.
//
// Parameters:
//   - watcher: The drain watcher implementation (e.g. topology.Local, topology.NATS)
//
// Returns:
//   - Option: Configuration option
func WithDrainWatcher(watcher DrainWatcher) Option {
	return func(c *ClientConfig) {
		c.DrainWatcher = watcher
	}
}

// WithMetrics sets the metrics collector.
//
// If not set, a no-op collector is used that discards all metrics.
// Use contrib/metrics/vm.New() for VictoriaMetrics integration.
//
// Parameters:
//   - collector: The metrics collector implementation
//
// Returns:
//   - Option: Configuration option
func WithMetrics(collector types.MetricsCollector) Option {
	return func(c *ClientConfig) {
		c.Metrics = collector
	}
}

// WithLogger sets the structured logger.
//
// If not set, a no-op logger is used that discards all messages.
// The logger interface follows zap.SugaredLogger's key/value style;
// use contrib/log/zap to adapt a sugared logger.
//
// Parameters:
//   - logger: The logger implementation
//
// Returns:
//   - Option: Configuration option
//
// Example:
//
//	zlog, _ := zap.NewProduction()
//	client, _ := aerolink.New(cfg,
//	    aerolink.WithLogger(zaplog.New(zlog.Sugar())),
//	)
func WithLogger(logger types.Logger) Option {
	return func(c *ClientConfig) {
		c.Logger = logger
	}
}
