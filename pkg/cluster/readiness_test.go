package cluster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSettleDelayWaits(t *testing.T) {
	start := time.Now()
	err := SettleDelay(10 * time.Millisecond).Wait(context.Background(), nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestSettleDelayHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := SettleDelay(time.Minute).Wait(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPollChainReadyNode(t *testing.T) {
	n := newFakeNode(t, 1)
	nodes := []Node{{Name: "blockchain-0", ID: "0fffffffffff", Port: n.port(t)}}

	err := PollChain{Attempts: 3, Delay: 10 * time.Millisecond}.Wait(context.Background(), nodes)
	require.NoError(t, err)
}

func TestPollChainUnreachableNode(t *testing.T) {
	nodes := []Node{{Name: "blockchain-0", ID: "0fffffffffff", Port: 1}}

	err := PollChain{Attempts: 2, Delay: 10 * time.Millisecond}.Wait(context.Background(), nodes)
	require.Error(t, err)
	require.Contains(t, err.Error(), "blockchain-0 not ready")
}
