package cluster

import (
	"context"
	"fmt"

	"github.com/chainrig/chainrig/pkg/chain"
)

// blocksToAdd is how many blocks the sync test mines on the designated node
// before asking the others to resolve.
const blocksToAdd = 2

// SyncTest verifies that chain synchronization works across the cluster.
//
// The first discovered node is mined blocksToAdd blocks ahead; every other
// node then runs conflict resolution and must adopt the longer chain, growing
// by exactly the same delta and reporting the replacement message. Nodes are
// processed strictly sequentially: the before/after length assertions do not
// tolerate interleaving.
//
// The first node that fails resolution aborts the remaining checks; a cluster
// already known to be inconsistent is not probed further.
func (o *Orchestrator) SyncTest(ctx context.Context, image string, port int) error {
	o.con.Info("Running synchronization test...")

	nodes, err := o.reg.Discover(ctx, image, port)
	if err != nil {
		return err
	}
	if len(nodes) < 2 {
		return ErrInsufficientNodes
	}

	first := nodes[0]
	o.con.Info("\tCreating new blocks on %s (%s)", first.Name, first.ID)

	cl := chain.New(first.Endpoint())
	initial, err := cl.Length(ctx)
	if err != nil {
		return fmt.Errorf("node %s: %w", first.Name, err)
	}

	for i := 0; i < blocksToAdd; i++ {
		if err := cl.Mine(ctx); err != nil {
			return fmt.Errorf("node %s: %w", first.Name, err)
		}
	}

	updated, err := cl.Length(ctx)
	if err != nil {
		return fmt.Errorf("node %s: %w", first.Name, err)
	}
	if delta := updated - initial; delta != blocksToAdd {
		return fmt.Errorf("node %s: mined %d blocks but chain grew by %d", first.Name, blocksToAdd, delta)
	}

	for _, other := range nodes[1:] {
		if err := o.syncNode(ctx, other); err != nil {
			o.con.Fail("Syncing '%s' failed:", other.Name)
			return err
		}
	}

	o.con.OK("Synchronization successful")
	return nil
}

// syncNode resolves conflicts on a single node and checks that its chain
// grew by exactly blocksToAdd.
func (o *Orchestrator) syncNode(ctx context.Context, n Node) error {
	o.con.Info("\tSyncing up %s (%s)", n.Name, n.ID)

	cl := chain.New(n.Endpoint())
	before, err := cl.Length(ctx)
	if err != nil {
		return fmt.Errorf("node %s: %w", n.Name, err)
	}

	msg, err := cl.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("node %s: %w", n.Name, err)
	}
	if msg != chain.ReplacedMessage {
		return fmt.Errorf("node %s: chain was not replaced: %q", n.Name, msg)
	}

	after, err := cl.Length(ctx)
	if err != nil {
		return fmt.Errorf("node %s: %w", n.Name, err)
	}
	if delta := after - before; delta != blocksToAdd {
		return fmt.Errorf("node %s: expected chain to grow by %d, grew by %d", n.Name, blocksToAdd, delta)
	}
	return nil
}
