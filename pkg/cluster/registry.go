package cluster

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types"
)

// shortIDLen is the length of the short container identifier, as printed by
// the docker CLI. The short id doubles as the container's hostname on the
// bridge network, which is what peers dial each other by.
const shortIDLen = 12

// Node is a running instance of the blockchain service, derived fresh from a
// live container on every discovery. It is never cached: it goes stale the
// moment the underlying container is removed.
type Node struct {
	// Name is the container name, of the form "<image>-<index>".
	Name string
	// ID is the short container id.
	ID string
	// Port is the host port the service's internal port is published on.
	Port int
}

// Endpoint returns the host-side base URL of the node's REST API.
func (n Node) Endpoint() string {
	return fmt.Sprintf("http://127.0.0.1:%d", n.Port)
}

// PeerAddr returns the URL under which other containers on the same bridge
// network reach this node. All nodes listen on the same internal port.
func (n Node) PeerAddr(port int) string {
	return fmt.Sprintf("http://%s:%d", n.ID, port)
}

// Lister enumerates running containers by name filter. *docker.Manager
// satisfies it.
type Lister interface {
	ListRunning(ctx context.Context, nameFilter string) ([]types.Container, error)
}

// Registry derives the logical node set from the container runtime.
type Registry struct {
	lister Lister
}

// NewRegistry constructs a registry on top of the given container lister.
func NewRegistry(l Lister) *Registry {
	return &Registry{lister: l}
}

// Discover returns one Node per running container matching nameFilter, in
// container listing order. The order is consistent within a call but not
// guaranteed stable across calls.
//
// Each container must have exactly one host port bound to servicePort/tcp;
// zero or several distinct bindings fail discovery with a
// *PortResolutionError.
func (r *Registry) Discover(ctx context.Context, nameFilter string, servicePort int) ([]Node, error) {
	containers, err := r.lister.ListRunning(ctx, nameFilter)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}

	nodes := make([]Node, 0, len(containers))
	for _, c := range containers {
		port, err := resolveHostPort(c, servicePort)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, Node{
			Name: containerName(c),
			ID:   shortID(c.ID),
			Port: port,
		})
	}
	return nodes, nil
}

// resolveHostPort finds the single host port bound to servicePort/tcp.
// Recent docker daemons report one entry per host address (0.0.0.0 and ::)
// for the same binding, so uniqueness is judged on distinct host ports.
func resolveHostPort(c types.Container, servicePort int) (int, error) {
	var hostPorts []int
	for _, p := range c.Ports {
		if p.Type != "tcp" || int(p.PrivatePort) != servicePort || p.PublicPort == 0 {
			continue
		}
		dup := false
		for _, hp := range hostPorts {
			if hp == int(p.PublicPort) {
				dup = true
				break
			}
		}
		if !dup {
			hostPorts = append(hostPorts, int(p.PublicPort))
		}
	}

	if len(hostPorts) != 1 {
		return 0, &PortResolutionError{
			Container:   containerName(c),
			ServicePort: servicePort,
			Bindings:    len(hostPorts),
		}
	}
	return hostPorts[0], nil
}

func containerName(c types.Container) string {
	if len(c.Names) == 0 {
		return shortID(c.ID)
	}
	// the docker API prefixes names with a slash.
	return strings.TrimPrefix(c.Names[0], "/")
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}
