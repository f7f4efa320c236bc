package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// StartContainerOpts describes a single detached container to create and
// start, with one internal tcp port published on the host.
type StartContainerOpts struct {
	Image         string
	ContainerName string
	Network       string

	// InternalPort is the tcp port the service listens on inside the
	// container; HostPort is the port it is published on.
	InternalPort int
	HostPort     int
}

// StartContainer creates and starts one detached container. Any failure
// (image not found, host port already bound) is returned to the caller
// verbatim; there are no retries.
func StartContainer(ctx context.Context, log *zap.SugaredLogger, cli *client.Client, opts *StartContainerOpts) (id string, err error) {
	exposed := nat.Port(fmt.Sprintf("%d/tcp", opts.InternalPort))

	containerConfig := &container.Config{
		Image: opts.Image,
		ExposedPorts: nat.PortSet{
			exposed: struct{}{},
		},
	}

	hostConfig := &container.HostConfig{
		NetworkMode: container.NetworkMode(opts.Network),
		PortBindings: nat.PortMap{
			exposed: []nat.PortBinding{
				{HostPort: fmt.Sprintf("%d", opts.HostPort)},
			},
		},
	}

	res, err := cli.ContainerCreate(ctx, containerConfig, hostConfig, nil, opts.ContainerName)
	if err != nil {
		return "", fmt.Errorf("creating container %s: %w", opts.ContainerName, err)
	}

	log.Debugw("starting new container", "name", opts.ContainerName, "id", res.ID)

	if err := cli.ContainerStart(ctx, res.ID, types.ContainerStartOptions{}); err != nil {
		return "", fmt.Errorf("starting container %s: %w", opts.ContainerName, err)
	}
	return res.ID, nil
}

// StopAndRemove force-kills a container and removes it. Removal is attempted
// even when the kill fails (the container may already be stopped); all errors
// are aggregated and returned for the caller to log, as teardown is best
// effort.
func StopAndRemove(ctx context.Context, cli client.ContainerAPIClient, id string) error {
	var merr *multierror.Error

	if err := cli.ContainerKill(ctx, id, "SIGKILL"); err != nil {
		merr = multierror.Append(merr, err)
	}
	if err := cli.ContainerRemove(ctx, id, types.ContainerRemoveOptions{Force: true}); err != nil {
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}
