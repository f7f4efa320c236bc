package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/chainrig/chainrig/pkg/config"
	"github.com/chainrig/chainrig/pkg/docker"
	"github.com/chainrig/chainrig/pkg/healthcheck"
)

// HealthcheckCommand checks, and optionally heals, the preconditions for a
// cluster run: docker daemon, service image, bridge network.
var HealthcheckCommand = cli.Command{
	Name:   "healthcheck",
	Usage:  "checks, and optionally heals, the preconditions for orchestrating the node cluster",
	Action: healthcheckCommand,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "fix",
			Usage: "should try to fix the preconditions",
		},
		&cli.StringFlag{
			Name:  "image",
			Usage: "the docker image to be run",
		},
		&cli.StringFlag{
			Name:  "net",
			Usage: "the docker network in which the nodes communicate",
		},
	},
}

func healthcheckCommand(c *cli.Context) error {
	ctx, cancel := context.WithCancel(ProcessContext())
	defer cancel()

	cfg := new(config.EnvConfig)
	if err := cfg.Load(); err != nil {
		return err
	}
	if c.IsSet("image") {
		cfg.Image = c.String("image")
	}
	if c.IsSet("net") {
		cfg.Network = c.String("net")
	}

	mgr, err := docker.NewManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	hh := new(healthcheck.Helper)
	hh.Enlist("docker-daemon", healthcheck.DaemonChecker(ctx, mgr), nil)
	hh.Enlist("service-image", healthcheck.ImageChecker(ctx, mgr, cfg.Image), nil)
	hh.Enlist("bridge-network",
		healthcheck.NetworkChecker(ctx, mgr, cfg.Network),
		healthcheck.NetworkFixer(ctx, mgr, cfg.Network))

	report, err := hh.RunChecks(ctx, c.Bool("fix"))
	if err != nil {
		return err
	}

	for _, item := range report.Checks {
		fmt.Printf("check %-16s %-8s %s\n", item.Name, item.Status, item.Message)
	}
	for _, item := range report.Fixes {
		fmt.Printf("fix   %-16s %-8s %s\n", item.Name, item.Status, item.Message)
	}

	if !report.Ok() {
		return errors.New("some healthchecks failed")
	}
	return nil
}
