package aerolink_test

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerolink/aerolink"
	"github.com/aerolink/aerolink/test/testutil"
	"github.com/aerolink/aerolink/topology"
	"github.com/aerolink/aerolink/types"
)

// splitAddr breaks a host:port address into its endpoint config form.
func splitAddr(t *testing.T, addr string) aerolink.EndpointConfig {
	t.Helper()

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return aerolink.EndpointConfig{Host: host, Port: port}
}

// clusterConfig builds a configuration with the first address active and the
// rest passive.
func clusterConfig(t *testing.T, addrs ...string) *aerolink.ClusterConfig {
	t.Helper()

	require.NotEmpty(t, addrs)
	cfg := &aerolink.ClusterConfig{
		Active: splitAddr(t, addrs[0]),
		Values: map[string]string{"EDITION": "enterprise"},
	}
	for _, addr := range addrs[1:] {
		cfg.Passive = append(cfg.Passive, splitAddr(t, addr))
	}

	return cfg
}

// recordingDialer wraps the default dialer and records every address dialed.
type recordingDialer struct {
	mu    sync.Mutex
	addrs []string
}

func (d *recordingDialer) dial(ctx context.Context, network, addr string) (net.Conn, error) {
	d.mu.Lock()
	d.addrs = append(d.addrs, addr)
	d.mu.Unlock()

	var dialer net.Dialer

	return dialer.DialContext(ctx, network, addr)
}

func (d *recordingDialer) dialed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.addrs...)
}

func TestNewNilConfig(t *testing.T) {
	client, err := aerolink.New(nil)
	require.ErrorIs(t, err, types.ErrNilConfig)
	assert.Nil(t, client)
}

func TestNewNoEndpoints(t *testing.T) {
	client, err := aerolink.New(&aerolink.ClusterConfig{})
	require.ErrorIs(t, err, types.ErrNoEndpoints)
	assert.Nil(t, client)
}

func TestNewInvalidEndpoint(t *testing.T) {
	cfg := &aerolink.ClusterConfig{
		Active: aerolink.EndpointConfig{Host: "10.0.0.1", Port: 70000},
	}

	client, err := aerolink.New(cfg)
	require.Error(t, err)
	assert.Nil(t, client)

	var cfgErr *types.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewPerformsNoNetworkIO(t *testing.T) {
	server := testutil.StartInfoServer(t, nil)

	client, err := aerolink.New(clusterConfig(t, server.Addr()))
	require.NoError(t, err)
	defer client.Close()

	assert.False(t, client.IsConnected())
	assert.Equal(t, 0, server.Accepted())
}

func TestConnectActiveEndpoint(t *testing.T) {
	server := testutil.StartInfoServer(t, nil)

	client, err := aerolink.New(clusterConfig(t, server.Addr()))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Connect(t.Context()))

	assert.True(t, client.IsConnected())
	require.NotNil(t, client.Session())
	assert.Equal(t, server.Addr(), client.Session().Endpoint().Addr())
	assert.Equal(t, types.RoleActive, client.Session().Endpoint().Role)
	assert.Equal(t, types.Alive, client.Liveness())
}

func TestConnectFailsOverToPassive(t *testing.T) {
	deadAddr, _ := testutil.ClosedPort(t)
	server := testutil.StartInfoServer(t, nil)

	dialer := &recordingDialer{}
	client, err := aerolink.New(
		clusterConfig(t, deadAddr, server.Addr()),
		aerolink.WithDialer(dialer.dial),
		aerolink.WithConnectTimeout(time.Second),
	)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Connect(t.Context()))

	// Deterministic order: active first, then the passive that succeeded.
	assert.Equal(t, []string{deadAddr, server.Addr()}, dialer.dialed())
	require.NotNil(t, client.Session())
	assert.Equal(t, server.Addr(), client.Session().Endpoint().Addr())
	assert.Equal(t, types.RolePassive, client.Session().Endpoint().Role)
}

func TestConnectStopsAtFirstSuccess(t *testing.T) {
	first := testutil.StartInfoServer(t, nil)
	second := testutil.StartInfoServer(t, nil)

	dialer := &recordingDialer{}
	client, err := aerolink.New(
		clusterConfig(t, first.Addr(), second.Addr()),
		aerolink.WithDialer(dialer.dial),
	)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Connect(t.Context()))

	assert.Equal(t, []string{first.Addr()}, dialer.dialed())
	assert.Equal(t, 0, second.Accepted())
}

func TestConnectExhaustsAllEndpoints(t *testing.T) {
	dead1, _ := testutil.ClosedPort(t)
	dead2, _ := testutil.ClosedPort(t)
	dead3, _ := testutil.ClosedPort(t)

	collector := testutil.NewTestMetricsCollector()
	client, err := aerolink.New(
		clusterConfig(t, dead1, dead2, dead3),
		aerolink.WithConnectTimeout(time.Second),
		aerolink.WithMetrics(collector),
	)
	require.NoError(t, err)
	defer client.Close()

	err = client.Connect(t.Context())
	require.Error(t, err)
	require.ErrorIs(t, err, types.ErrAllEndpointsFailed)

	var connErr *types.ConnectError
	require.ErrorAs(t, err, &connErr)
	require.Len(t, connErr.Attempts, 3)
	assert.Equal(t, dead1, connErr.Attempts[0].Endpoint.Addr())
	assert.Equal(t, dead2, connErr.Attempts[1].Endpoint.Addr())
	assert.Equal(t, dead3, connErr.Attempts[2].Endpoint.Addr())

	// Exactly one attempt per endpoint, no retries within the pass.
	assert.Equal(t, int64(1), collector.Attempts(dead1))
	assert.Equal(t, int64(1), collector.Attempts(dead2))
	assert.Equal(t, int64(1), collector.Attempts(dead3))
	assert.Equal(t, int64(1), collector.ConnectExhausted)

	// A failed pass leaves the client disconnected but retryable.
	assert.False(t, client.IsConnected())
	assert.Nil(t, client.Session())
	assert.Equal(t, types.Dead, client.Ping(t.Context()))
}

func TestConnectRetryableAfterExhaustion(t *testing.T) {
	dead, _ := testutil.ClosedPort(t)

	client, err := aerolink.New(
		clusterConfig(t, dead),
		aerolink.WithConnectTimeout(time.Second),
	)
	require.NoError(t, err)
	defer client.Close()

	require.Error(t, client.Connect(t.Context()))

	// Exhaustion is not terminal; the next call runs a full fresh pass.
	err = client.Connect(t.Context())
	var connErr *types.ConnectError
	require.ErrorAs(t, err, &connErr)
	require.Len(t, connErr.Attempts, 1)
}

func TestConnectReconnectRetiresOldSession(t *testing.T) {
	server := testutil.StartInfoServer(t, nil)

	collector := testutil.NewTestMetricsCollector()
	client, err := aerolink.New(
		clusterConfig(t, server.Addr()),
		aerolink.WithMetrics(collector),
	)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Connect(t.Context()))
	first := client.Session()
	require.NotNil(t, first)

	require.NoError(t, client.Connect(t.Context()))
	second := client.Session()
	require.NotNil(t, second)

	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, int64(1), collector.SessionsClosed)
	assert.Equal(t, int64(2), collector.SessionsOpened[server.Addr()])
}

func TestPingAlive(t *testing.T) {
	server := testutil.StartInfoServer(t, map[string]string{
		"statistics": "cluster_size=3;uptime=86400",
	})

	client, err := aerolink.New(clusterConfig(t, server.Addr()))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Connect(t.Context()))

	assert.Equal(t, types.Alive, client.Ping(t.Context()))
	assert.Equal(t, types.Alive, client.Liveness())
}

func TestPingWithoutSession(t *testing.T) {
	server := testutil.StartInfoServer(t, nil)

	collector := testutil.NewTestMetricsCollector()
	client, err := aerolink.New(
		clusterConfig(t, server.Addr()),
		aerolink.WithMetrics(collector),
	)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, types.Dead, client.Ping(t.Context()))

	total, failed := collector.Pings()
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(1), failed)
}

func TestPingMalformedResponse(t *testing.T) {
	server := testutil.StartInfoServer(t, nil)

	client, err := aerolink.New(clusterConfig(t, server.Addr()))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Connect(t.Context()))
	require.Equal(t, types.Alive, client.Ping(t.Context()))

	// Garbage on the wire folds into Dead rather than an error.
	server.RespondGarbage()
	assert.Equal(t, types.Dead, client.Ping(t.Context()))
	assert.Equal(t, types.Dead, client.Liveness())
}

func TestPingTimeout(t *testing.T) {
	server := testutil.StartInfoServer(t, nil)

	client, err := aerolink.New(
		clusterConfig(t, server.Addr()),
		aerolink.WithPingTimeout(100*time.Millisecond),
	)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Connect(t.Context()))

	server.GoSilent()
	assert.Equal(t, types.Dead, client.Ping(t.Context()))
}

func TestPingDoesNotMutateSession(t *testing.T) {
	server := testutil.StartInfoServer(t, nil)

	client, err := aerolink.New(
		clusterConfig(t, server.Addr()),
		aerolink.WithPingTimeout(100*time.Millisecond),
	)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Connect(t.Context()))
	session := client.Session()

	server.GoSilent()
	require.Equal(t, types.Dead, client.Ping(t.Context()))

	// Dead report leaves the session installed; remediation is the
	// caller's call.
	assert.Same(t, session, client.Session())
	assert.True(t, client.IsConnected())
}

func TestSessionInfoConcurrent(t *testing.T) {
	server := testutil.StartInfoServer(t, map[string]string{
		"statistics": "cluster_size=1",
		"build":      "7.0.0",
		"edition":    "community",
	})

	client, err := aerolink.New(clusterConfig(t, server.Addr()))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Connect(t.Context()))
	session := client.Session()

	// Exchanges on the shared connection are serialized, so concurrent
	// callers must each get the response for their own request.
	var wg sync.WaitGroup
	for i := range 8 {
		name, want := "build", "7.0.0"
		if i%2 == 1 {
			name, want = "edition", "community"
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				values, err := session.Info(t.Context(), name)
				assert.NoError(t, err)
				assert.Equal(t, want, values[name])
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, types.Alive, client.Ping(t.Context()))
}

func TestDisconnectRetiresSession(t *testing.T) {
	server := testutil.StartInfoServer(t, nil)

	client, err := aerolink.New(clusterConfig(t, server.Addr()))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Connect(t.Context()))
	require.True(t, client.IsConnected())

	client.Disconnect()

	assert.False(t, client.IsConnected())
	assert.Nil(t, client.Session())
	assert.Equal(t, types.Dead, client.Ping(t.Context()))

	// Disconnect is not terminal; a new pass may follow.
	require.NoError(t, client.Connect(t.Context()))
	assert.True(t, client.IsConnected())

	// No-op with no session.
	client.Disconnect()
	client.Disconnect()
}

func TestCloseTerminal(t *testing.T) {
	server := testutil.StartInfoServer(t, nil)

	client, err := aerolink.New(clusterConfig(t, server.Addr()))
	require.NoError(t, err)

	require.NoError(t, client.Connect(t.Context()))

	client.Close()

	assert.False(t, client.IsConnected())
	assert.ErrorIs(t, client.Connect(t.Context()), types.ErrClientClosed)
	assert.Equal(t, types.Dead, client.Ping(t.Context()))
}

func TestCloseIdempotent(t *testing.T) {
	server := testutil.StartInfoServer(t, nil)

	client, err := aerolink.New(clusterConfig(t, server.Addr()))
	require.NoError(t, err)

	// Safe before any Connect, and on repeat.
	client.Close()
	client.Close()
	client.Close()
}

func TestEditionDetectedAtConstruction(t *testing.T) {
	server := testutil.StartInfoServer(t, nil)

	cfg := clusterConfig(t, server.Addr())
	cfg.Values = map[string]string{"EDITION": "community"}

	client, err := aerolink.New(cfg)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, types.EditionCommunity, client.Edition())
}

func TestSessionInfoAfterClose(t *testing.T) {
	server := testutil.StartInfoServer(t, nil)

	client, err := aerolink.New(clusterConfig(t, server.Addr()))
	require.NoError(t, err)

	require.NoError(t, client.Connect(t.Context()))
	session := client.Session()
	require.NotNil(t, session)

	client.Close()

	_, err = session.Info(context.Background(), "statistics")
	assert.True(t, errors.Is(err, types.ErrClientClosed))
}

func TestDrainWatcherIntegration(t *testing.T) {
	server := testutil.StartInfoServer(t, nil)
	drain := topology.NewLocal()
	defer drain.Close()

	collector := testutil.NewTestMetricsCollector()
	client, err := aerolink.New(
		clusterConfig(t, server.Addr()),
		aerolink.WithDrainWatcher(drain),
		aerolink.WithMetrics(collector),
	)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, drain.SetDrain(t.Context(), server.Addr(), true, "OS Patching"))

	require.Eventually(t, func() bool {
		return client.IsDraining(server.Addr())
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, drain.SetDrain(t.Context(), server.Addr(), false, ""))

	require.Eventually(t, func() bool {
		return !client.IsDraining(server.Addr())
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, int64(1), collector.DrainEntered[server.Addr()])
	assert.Equal(t, int64(1), collector.DrainExited[server.Addr()])
}
