package docker

import (
	"context"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// CheckBridgeNetwork returns the bridge networks matching the given name.
func CheckBridgeNetwork(ctx context.Context, cli client.NetworkAPIClient, name string) ([]types.NetworkResource, error) {
	opts := types.NetworkListOptions{
		Filters: filters.NewArgs(
			filters.Arg("name", name),
			filters.Arg("driver", "bridge"),
		),
	}
	return cli.NetworkList(ctx, opts)
}

// EnsureBridgeNetwork creates an attachable bridge network named name, if and
// only if one does not exist already. A concurrent caller winning the create
// race is treated as success.
func EnsureBridgeNetwork(ctx context.Context, cli client.NetworkAPIClient, name string) (id string, err error) {
	networks, err := CheckBridgeNetwork(ctx, cli, name)
	if err != nil {
		return "", err
	}

	if len(networks) > 0 {
		return networks[0].ID, nil
	}

	res, err := cli.NetworkCreate(ctx, name, types.NetworkCreate{
		Driver:     "bridge",
		Attachable: true,
	})
	if err != nil {
		// the docker daemon doesn't wrap errors; match on the message.
		if strings.Contains(err.Error(), "already exists") {
			networks, lerr := CheckBridgeNetwork(ctx, cli, name)
			if lerr == nil && len(networks) > 0 {
				return networks[0].ID, nil
			}
		}
		return "", err
	}
	return res.ID, nil
}
