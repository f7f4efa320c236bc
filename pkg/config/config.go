package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chainrig/chainrig/pkg/logging"
)

const (
	// EnvChainrigHome overrides where the config file is looked up.
	EnvChainrigHome = "CHAINRIG_HOME"

	configFile = ".chainrig.toml"
)

// EnvConfig contains the environment configuration. It is populated by
// coalescing values from these sources, in descending order of precedence:
//
//  1. command line flags.
//  2. .chainrig.toml.
//  3. default fallbacks.
type EnvConfig struct {
	// Image is the docker image of the blockchain service.
	Image string `toml:"image"`
	// Nodes is how many containers a setup launches.
	Nodes int `toml:"nodes"`
	// Port is the tcp port the service listens on inside its container.
	Port int `toml:"port"`
	// Network is the docker bridge network the nodes communicate in.
	Network string `toml:"net"`
}

// Load populates the config with defaults and then merges the optional
// .chainrig.toml, looked up in $CHAINRIG_HOME or the working directory.
func (e *EnvConfig) Load() error {
	// apply fallbacks.
	e.Image = "blockchain"
	e.Nodes = 2
	e.Port = 5000
	e.Network = "blockchain"

	dir, ok := os.LookupEnv(EnvChainrigHome)
	if !ok {
		dir = "."
	}

	f := filepath.Join(dir, configFile)
	if _, err := os.Stat(f); err != nil {
		logging.S().Debugf("no %s found at %s; running with defaults", configFile, f)
		return nil
	}

	if _, err := toml.DecodeFile(f, e); err != nil {
		return fmt.Errorf("found %s at %s, but failed to parse: %w", configFile, f, err)
	}
	logging.S().Debugf("%s loaded from: %s", configFile, f)
	return nil
}
