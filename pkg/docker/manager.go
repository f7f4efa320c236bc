package docker

import (
	"context"

	"github.com/chainrig/chainrig/pkg/logging"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// Manager is a convenient wrapper around the docker client. It is constructed
// explicitly at process start and closed at process end; nothing in this
// package holds a process-wide client.
type Manager struct {
	logging.Logging

	*client.Client
}

// NewManager connects to the local docker instance and provides a convenient
// handle for managing containers and networks.
func NewManager() (*Manager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}

	return &Manager{
		Logging: logging.NewLogging(logging.S().With("host", cli.DaemonHost()).Desugar()),
		Client:  cli,
	}, nil
}

// Close closes the docker client.
func (m *Manager) Close() error {
	return m.Client.Close()
}

// ListRunning returns the currently running containers whose name matches
// nameFilter.
func (m *Manager) ListRunning(ctx context.Context, nameFilter string) ([]types.Container, error) {
	return m.Client.ContainerList(ctx, types.ContainerListOptions{
		Filters: filters.NewArgs(filters.Arg("name", nameFilter)),
	})
}

// ListAll returns all containers whose name matches nameFilter, including
// stopped and exited ones. Used by the cleanup path.
func (m *Manager) ListAll(ctx context.Context, nameFilter string) ([]types.Container, error) {
	return m.Client.ContainerList(ctx, types.ContainerListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", nameFilter)),
	})
}

// EnsureNetwork creates the named bridge network if it does not exist yet.
func (m *Manager) EnsureNetwork(ctx context.Context, name string) (string, error) {
	return EnsureBridgeNetwork(ctx, m.Client, name)
}

// StartContainer creates and starts a single detached container.
func (m *Manager) StartContainer(ctx context.Context, opts *StartContainerOpts) (string, error) {
	return StartContainer(ctx, m.S(), m.Client, opts)
}

// StopAndRemove force-kills and removes a container, best effort.
func (m *Manager) StopAndRemove(ctx context.Context, id string) error {
	return StopAndRemove(ctx, m.Client, id)
}
