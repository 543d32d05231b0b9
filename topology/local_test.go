package topology_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerolink/aerolink"
	"github.com/aerolink/aerolink/topology"
)

func TestLocalSetDrainEmitsUpdate(t *testing.T) {
	local := topology.NewLocal()
	defer local.Close()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	updates := local.Watch(ctx)

	require.NoError(t, local.SetDrain(ctx, "10.0.0.1:3000", true, "OS Patching"))

	select {
	case update := <-updates:
		assert.Equal(t, "10.0.0.1:3000", update.Endpoint)
		assert.True(t, update.Draining)
		assert.False(t, update.Available)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for drain update")
	}

	assert.True(t, local.IsDraining("10.0.0.1:3000"))
	assert.False(t, local.IsDraining("10.0.0.2:3000"))
	assert.Equal(t, "OS Patching", local.GetDrainReason())
}

func TestLocalSetDrainNoChangeNoUpdate(t *testing.T) {
	local := topology.NewLocal()
	defer local.Close()

	ctx := t.Context()
	updates := local.Watch(ctx)

	// Un-draining an endpoint that was never drained emits nothing.
	require.NoError(t, local.SetDrain(ctx, "10.0.0.1:3000", false, ""))

	select {
	case update := <-updates:
		t.Fatalf("unexpected update: %+v", update)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLocalDrainReasonClearedWhenAllRecover(t *testing.T) {
	local := topology.NewLocal()
	defer local.Close()

	ctx := t.Context()
	_ = local.Watch(ctx)

	require.NoError(t, local.SetDrain(ctx, "10.0.0.1:3000", true, "Scaling"))
	require.NoError(t, local.SetDrain(ctx, "10.0.0.2:3000", true, "Scaling"))
	require.Equal(t, "Scaling", local.GetDrainReason())

	require.NoError(t, local.SetDrain(ctx, "10.0.0.1:3000", false, ""))
	require.Equal(t, "Scaling", local.GetDrainReason())

	require.NoError(t, local.SetDrain(ctx, "10.0.0.2:3000", false, ""))
	require.Equal(t, "", local.GetDrainReason())
}

func TestLocalCloseClosesUpdates(t *testing.T) {
	local := topology.NewLocal()

	updates := local.Watch(context.Background())
	require.NoError(t, local.Close())

	select {
	case _, ok := <-updates:
		assert.False(t, ok, "updates channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	// Close is idempotent
	require.NoError(t, local.Close())
}

func TestLocalImplementsInterfaces(t *testing.T) {
	var _ aerolink.DrainWatcher = topology.NewLocal()
	var _ aerolink.DrainOperator = topology.NewLocal()
}
