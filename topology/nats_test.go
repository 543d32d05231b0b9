package topology_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerolink/aerolink"
	"github.com/aerolink/aerolink/test/testutil"
	"github.com/aerolink/aerolink/topology"
)

func createKVBucket(t *testing.T, js jetstream.JetStream) jetstream.KeyValue {
	t.Helper()

	kv, err := js.CreateKeyValue(t.Context(), jetstream.KeyValueConfig{
		Bucket: "aerolink-config",
	})
	require.NoError(t, err)

	return kv
}

func putDrainConfig(t *testing.T, kv jetstream.KeyValue, key string, cfg topology.DrainConfig) {
	t.Helper()

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	_, err = kv.Put(t.Context(), key, data)
	require.NoError(t, err)
}

func waitForUpdate(t *testing.T, updates <-chan aerolink.EndpointUpdate) aerolink.EndpointUpdate {
	t.Helper()

	select {
	case update, ok := <-updates:
		require.True(t, ok, "updates channel closed unexpectedly")
		return update
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for endpoint update")
		return aerolink.EndpointUpdate{}
	}
}

func TestNewNATSNilKV(t *testing.T) {
	watcher, err := topology.NewNATS(nil)
	require.Error(t, err)
	assert.Nil(t, watcher)
	assert.Contains(t, err.Error(), "KeyValue store is nil")
}

func TestNewNATSDefaults(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := createKVBucket(t, js)

	watcher, err := topology.NewNATS(kv)
	require.NoError(t, err)
	defer watcher.Close()

	config := watcher.Config()
	assert.Equal(t, "aerolink.topology.drain", config.Key)
	assert.Equal(t, 5*time.Second, config.PollInterval)
	assert.Equal(t, 10*time.Second, config.InitialFetchTimeout)
}

func TestNewNATSOptions(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := createKVBucket(t, js)

	watcher, err := topology.NewNATS(kv,
		topology.WithKey("custom.drain"),
		topology.WithPollInterval(time.Second),
		topology.WithInitialFetchTimeout(2*time.Second),
	)
	require.NoError(t, err)
	defer watcher.Close()

	config := watcher.Config()
	assert.Equal(t, "custom.drain", config.Key)
	assert.Equal(t, time.Second, config.PollInterval)
	assert.Equal(t, 2*time.Second, config.InitialFetchTimeout)
}

func TestNATSDrainEndpoint(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := createKVBucket(t, js)

	watcher, err := topology.NewNATS(kv)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	updates := watcher.Watch(ctx)

	putDrainConfig(t, kv, "aerolink.topology.drain", topology.DrainConfig{
		Drain:  []string{"10.0.0.1:3000"},
		Reason: "OS Patching",
	})

	update := waitForUpdate(t, updates)
	assert.Equal(t, "10.0.0.1:3000", update.Endpoint)
	assert.True(t, update.Draining)
	assert.False(t, update.Available)

	assert.True(t, watcher.IsDraining("10.0.0.1:3000"))
	assert.False(t, watcher.IsDraining("10.0.0.2:3000"))
	assert.Equal(t, "OS Patching", watcher.GetDrainReason())
}

func TestNATSDrainRecovery(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := createKVBucket(t, js)

	watcher, err := topology.NewNATS(kv)
	require.NoError(t, err)
	defer watcher.Close()

	updates := watcher.Watch(t.Context())

	putDrainConfig(t, kv, "aerolink.topology.drain", topology.DrainConfig{
		Drain:  []string{"10.0.0.1:3000"},
		Reason: "Scaling",
	})

	update := waitForUpdate(t, updates)
	require.True(t, update.Draining)

	// Empty drain list recovers the endpoint.
	putDrainConfig(t, kv, "aerolink.topology.drain", topology.DrainConfig{})

	update = waitForUpdate(t, updates)
	assert.Equal(t, "10.0.0.1:3000", update.Endpoint)
	assert.False(t, update.Draining)
	assert.True(t, update.Available)

	assert.False(t, watcher.IsDraining("10.0.0.1:3000"))
	assert.Equal(t, "", watcher.GetDrainReason())
}

func TestNATSKeyDeletion(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := createKVBucket(t, js)

	watcher, err := topology.NewNATS(kv)
	require.NoError(t, err)
	defer watcher.Close()

	updates := watcher.Watch(t.Context())

	putDrainConfig(t, kv, "aerolink.topology.drain", topology.DrainConfig{
		Drain: []string{"10.0.0.1:3000"},
	})
	update := waitForUpdate(t, updates)
	require.True(t, update.Draining)

	require.NoError(t, kv.Delete(t.Context(), "aerolink.topology.drain"))

	update = waitForUpdate(t, updates)
	assert.False(t, update.Draining)
	assert.False(t, watcher.IsDraining("10.0.0.1:3000"))
}

func TestNATSInvalidJSON(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := createKVBucket(t, js)

	watcher, err := topology.NewNATS(kv)
	require.NoError(t, err)
	defer watcher.Close()

	updates := watcher.Watch(t.Context())

	putDrainConfig(t, kv, "aerolink.topology.drain", topology.DrainConfig{
		Drain: []string{"10.0.0.1:3000"},
	})
	update := waitForUpdate(t, updates)
	require.True(t, update.Draining)

	// Garbage payload clears all drain state instead of wedging the watcher.
	_, err = kv.Put(t.Context(), "aerolink.topology.drain", []byte("not json"))
	require.NoError(t, err)

	update = waitForUpdate(t, updates)
	assert.False(t, update.Draining)
}

func TestNATSWatchReturnsSameChannel(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := createKVBucket(t, js)

	watcher, err := topology.NewNATS(kv)
	require.NoError(t, err)
	defer watcher.Close()

	first := watcher.Watch(t.Context())
	second := watcher.Watch(t.Context())
	assert.Equal(t, first, second)
}

func TestNATSCloseIdempotent(t *testing.T) {
	js := testutil.StartEmbeddedNATS(t)
	kv := createKVBucket(t, js)

	watcher, err := topology.NewNATS(kv)
	require.NoError(t, err)

	require.NoError(t, watcher.Close())
	require.NoError(t, watcher.Close())
}
