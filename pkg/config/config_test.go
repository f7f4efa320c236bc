package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvChainrigHome, t.TempDir())

	cfg := new(EnvConfig)
	require.NoError(t, cfg.Load())

	require.Equal(t, "blockchain", cfg.Image)
	require.Equal(t, 2, cfg.Nodes)
	require.Equal(t, 5000, cfg.Port)
	require.Equal(t, "blockchain", cfg.Network)
}

func TestLoadFromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvChainrigHome, home)

	contents := []byte("image = \"myledger\"\nnodes = 5\nport = 8080\n")
	require.NoError(t, os.WriteFile(filepath.Join(home, ".chainrig.toml"), contents, 0o644))

	cfg := new(EnvConfig)
	require.NoError(t, cfg.Load())

	require.Equal(t, "myledger", cfg.Image)
	require.Equal(t, 5, cfg.Nodes)
	require.Equal(t, 8080, cfg.Port)
	// unset keys keep their fallbacks.
	require.Equal(t, "blockchain", cfg.Network)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvChainrigHome, home)

	require.NoError(t, os.WriteFile(filepath.Join(home, ".chainrig.toml"), []byte("image = ["), 0o644))

	cfg := new(EnvConfig)
	require.Error(t, cfg.Load())
}
