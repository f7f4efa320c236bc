package cluster

import (
	"context"
	"fmt"
	"time"

	"github.com/chainrig/chainrig/pkg/chain"

	"github.com/avast/retry-go"
)

// DefaultSettleInterval is how long the default readiness strategy waits for
// the docker daemon to spin up the containers.
const DefaultSettleInterval = 2 * time.Second

// Readiness decides when freshly started containers are assumed reachable.
type Readiness interface {
	// Wait blocks until the given nodes are considered ready, or fails.
	Wait(ctx context.Context, nodes []Node) error
}

// SettleDelay is the default readiness strategy: an unconditional fixed
// sleep, never extended or retried based on observed state. Callers needing a
// stricter guarantee should use PollChain instead.
type SettleDelay time.Duration

func (d SettleDelay) Wait(ctx context.Context, _ []Node) error {
	select {
	case <-time.After(time.Duration(d)):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PollChain probes every node's chain endpoint with backoff until it answers.
// It retries only the readiness probe; operations themselves are still
// attempted exactly once.
type PollChain struct {
	Attempts uint
	Delay    time.Duration
}

func (p PollChain) Wait(ctx context.Context, nodes []Node) error {
	attempts := p.Attempts
	if attempts == 0 {
		attempts = 10
	}
	delay := p.Delay
	if delay == 0 {
		delay = 250 * time.Millisecond
	}

	for _, n := range nodes {
		cl := chain.New(n.Endpoint())
		err := retry.Do(
			func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				_, err := cl.Length(ctx)
				return err
			},
			retry.Attempts(attempts),
			retry.Delay(delay),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
		)
		if err != nil {
			return fmt.Errorf("node %s not ready: %w", n.Name, err)
		}
	}
	return nil
}
