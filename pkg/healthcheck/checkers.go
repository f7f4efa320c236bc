package healthcheck

import (
	"context"

	"github.com/chainrig/chainrig/pkg/docker"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
)

// DaemonChecker reports whether the docker daemon answers a ping.
func DaemonChecker(ctx context.Context, m *docker.Manager) Checker {
	return func() (bool, string, error) {
		if _, err := m.Ping(ctx); err != nil {
			return false, "docker daemon not reachable.", err
		}
		return true, "docker daemon is reachable.", nil
	}
}

// ImageChecker reports whether the service image is present locally.
func ImageChecker(ctx context.Context, m *docker.Manager, image string) Checker {
	return func() (bool, string, error) {
		images, err := m.ImageList(ctx, types.ImageListOptions{
			Filters: filters.NewArgs(filters.Arg("reference", image)),
		})
		if err != nil {
			return false, "error when listing images.", err
		}
		if len(images) == 0 {
			return false, "image not found locally.", nil
		}
		return true, "image is present.", nil
	}
}

// NetworkChecker reports whether the bridge network exists.
func NetworkChecker(ctx context.Context, m *docker.Manager, name string) Checker {
	return func() (bool, string, error) {
		networks, err := docker.CheckBridgeNetwork(ctx, m.Client, name)
		if err != nil {
			return false, "error when checking for network.", err
		}
		if len(networks) > 0 {
			return true, "network already exists.", nil
		}
		return false, "network does not exist.", nil
	}
}
