package healthcheck

import (
	"context"

	"github.com/chainrig/chainrig/pkg/docker"
)

// NetworkFixer creates the bridge network when the NetworkChecker found it
// missing.
func NetworkFixer(ctx context.Context, m *docker.Manager, name string) Fixer {
	return func() (string, error) {
		if _, err := m.EnsureNetwork(ctx, name); err != nil {
			return "failed to create network.", err
		}
		return "network created.", nil
	}
}
