package cluster

import (
	"context"
	"fmt"

	"github.com/chainrig/chainrig/pkg/chain"
	"github.com/chainrig/chainrig/pkg/console"
	"github.com/chainrig/chainrig/pkg/docker"
	"github.com/chainrig/chainrig/pkg/logging"

	"github.com/docker/docker/api/types"
)

// Runtime is the container-runtime surface the orchestrator needs.
// *docker.Manager satisfies it.
type Runtime interface {
	Lister
	ListAll(ctx context.Context, nameFilter string) ([]types.Container, error)
	EnsureNetwork(ctx context.Context, name string) (string, error)
	StartContainer(ctx context.Context, opts *docker.StartContainerOpts) (string, error)
	StopAndRemove(ctx context.Context, id string) error
}

// Orchestrator drives cluster lifecycle: teardown, creation, peer wiring and
// the synchronization test. All operations are fully sequential.
type Orchestrator struct {
	logging.Logging

	rt    Runtime
	reg   *Registry
	ready Readiness
	con   *console.Console
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithReadiness replaces the default fixed settle delay with another
// readiness strategy.
func WithReadiness(r Readiness) Option {
	return func(o *Orchestrator) {
		o.ready = r
	}
}

// WithConsole replaces the console used for status output.
func WithConsole(c *console.Console) Option {
	return func(o *Orchestrator) {
		o.con = c
	}
}

// NewOrchestrator constructs an orchestrator on top of the given container
// runtime.
func NewOrchestrator(rt Runtime, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		Logging: logging.NewLogging(logging.L()),
		rt:      rt,
		reg:     NewRegistry(rt),
		ready:   SettleDelay(DefaultSettleInterval),
		con:     console.New(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Registry exposes the orchestrator's node registry.
func (o *Orchestrator) Registry() *Registry {
	return o.reg
}

// Clean force-stops and removes every container, running or exited, whose
// name matches image. Teardown is advisory: individual failures are logged
// and swallowed.
func (o *Orchestrator) Clean(ctx context.Context, image string) error {
	containers, err := o.rt.ListAll(ctx, image)
	if err != nil {
		return fmt.Errorf("listing containers: %w", err)
	}

	o.con.Info("Stopping and removing running nodes...")
	for _, c := range containers {
		if err := o.rt.StopAndRemove(ctx, c.ID); err != nil {
			o.S().Warnw("best-effort cleanup failed", "container", shortID(c.ID), "error", err)
		}
	}
	return nil
}

// CreateCluster ensures the network exists, launches count containers named
// <image>-0..<image>-(count-1) each publishing basePort on host port
// basePort+i, waits for readiness, and validates that every node starts out
// with a single-block chain.
//
// The initial-state validation is diagnostic: a node that fails to answer or
// reports a different length is printed as "bad", but does not abort the
// remaining checks.
func (o *Orchestrator) CreateCluster(ctx context.Context, image string, count, basePort int, network string) error {
	if _, err := o.rt.EnsureNetwork(ctx, network); err != nil {
		return fmt.Errorf("ensuring network %s: %w", network, err)
	}

	o.con.Info("Starting %d new nodes...", count)
	for i := 0; i < count; i++ {
		opts := &docker.StartContainerOpts{
			Image:         image,
			ContainerName: fmt.Sprintf("%s-%d", image, i),
			Network:       network,
			InternalPort:  basePort,
			HostPort:      basePort + i,
		}
		if _, err := o.rt.StartContainer(ctx, opts); err != nil {
			return err
		}
	}
	o.con.OK("Nodes successfully started")

	nodes, err := o.reg.Discover(ctx, image, basePort)
	if err != nil {
		return err
	}

	if err := o.ready.Wait(ctx, nodes); err != nil {
		return fmt.Errorf("waiting for nodes: %w", err)
	}

	o.con.Info("Validating initial state...")
	for _, n := range nodes {
		length, err := chain.New(n.Endpoint()).Length(ctx)
		if err != nil || length != 1 {
			o.S().Debugw("initial state check failed", "node", n.Name, "length", length, "error", err)
			o.con.Info("\t%s: bad", n.Name)
			continue
		}
		o.con.Info("\t%s: good", n.Name)
	}
	o.con.OK("All initial states are valid")

	return nil
}

// ConnectAll registers every node as a peer of every other node. The
// registration response must report exactly len(nodes)-1 peers; a mismatch
// signals a registration bug in the service and is a fatal error.
func (o *Orchestrator) ConnectAll(ctx context.Context, image string, port int) error {
	nodes, err := o.reg.Discover(ctx, image, port)
	if err != nil {
		return err
	}

	for _, n := range nodes {
		o.con.Info("Connecting %s (%s) to", n.Name, n.ID)

		peers := make([]string, 0, len(nodes)-1)
		for _, other := range nodes {
			if other.Name == n.Name {
				continue
			}
			o.con.Info("\t%s (%s)", other.Name, other.ID)
			// peers dial each other on the shared internal port.
			peers = append(peers, other.PeerAddr(port))
		}

		total, err := chain.New(n.Endpoint()).RegisterPeers(ctx, peers)
		if err != nil {
			return fmt.Errorf("node %s: %w", n.Name, err)
		}
		if total != len(peers) {
			return fmt.Errorf("node %s: registered %d peers, expected %d", n.Name, total, len(peers))
		}
	}

	o.con.OK("All nodes were successfully connected")
	return nil
}
