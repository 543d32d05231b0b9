package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// aerospikeImage is the server image used for integration tests.
const aerospikeImage = "aerospike/aerospike-server:6.4.0.2"

// AerospikeNode is a containerized cluster node for integration tests.
type AerospikeNode struct {
	Container testcontainers.Container
	Host      string
	Port      int
}

// Addr returns the node's host:port address.
func (n *AerospikeNode) Addr() string {
	return fmt.Sprintf("%s:%d", n.Host, n.Port)
}

// Terminate stops and removes the container.
func (n *AerospikeNode) Terminate(ctx context.Context) error {
	return n.Container.Terminate(ctx)
}

// StartAerospikeNode starts a single-node server container.
//
// The node listens on the standard service port (3000) mapped to a random
// host port. Startup waits until the port accepts connections.
//
// Parameters:
//   - ctx: Context for container startup
//
// Returns:
//   - *AerospikeNode: The running node
//   - error: Container or network error
func StartAerospikeNode(ctx context.Context) (*AerospikeNode, error) {
	req := testcontainers.ContainerRequest{
		Image:        aerospikeImage,
		ExposedPorts: []string{"3000/tcp"},
		WaitingFor:   wait.ForListeningPort("3000/tcp").WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start aerospike container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("container host: %w", err)
	}

	mapped, err := container.MappedPort(ctx, "3000/tcp")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("container port: %w", err)
	}

	return &AerospikeNode{
		Container: container,
		Host:      host,
		Port:      mapped.Int(),
	}, nil
}
