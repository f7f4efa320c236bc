package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/chainrig/chainrig/pkg/cluster"
	"github.com/chainrig/chainrig/pkg/config"
	"github.com/chainrig/chainrig/pkg/console"
	"github.com/chainrig/chainrig/pkg/docker"
)

// RunCommand executes one or more orchestration tasks against a cluster of
// blockchain service containers.
var RunCommand = cli.Command{
	Name:   "run",
	Usage:  "run orchestration tasks (clean, setup, connect, sync-test) against the node cluster",
	Action: runCommand,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "image",
			Usage: "the docker image to be run",
		},
		&cli.IntFlag{
			Name:  "nodes",
			Usage: "the number of nodes to launch",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "the port exposed through the Dockerfile",
		},
		&cli.StringFlag{
			Name:  "net",
			Usage: "the docker network in which the nodes communicate",
		},
		&cli.StringSliceFlag{
			Name:     "tasks",
			Usage:    fmt.Sprintf("tasks to execute; one or more of: %s, %s, %s, %s", TaskClean, TaskSetup, TaskConnect, TaskSyncTest),
			Required: true,
		},
	},
}

func runCommand(c *cli.Context) error {
	ctx, cancel := context.WithCancel(ProcessContext())
	defer cancel()

	cfg := new(config.EnvConfig)
	if err := cfg.Load(); err != nil {
		return err
	}

	// flags take precedence over the config file.
	if c.IsSet("image") {
		cfg.Image = c.String("image")
	}
	if c.IsSet("nodes") {
		cfg.Nodes = c.Int("nodes")
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("net") {
		cfg.Network = c.String("net")
	}

	tasks, err := normalizeTasks(c.StringSlice("tasks"))
	if err != nil {
		return err
	}

	con := console.New()
	con.Banner("Script launched with the following tasks: %v", tasks)

	mgr, err := docker.NewManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	orch := cluster.NewOrchestrator(mgr, cluster.WithConsole(con))

	for _, task := range tasks {
		switch task {
		case TaskClean:
			err = orch.Clean(ctx, cfg.Image)
		case TaskSetup:
			if cfg.Network == "" {
				return errors.New("the 'net' parameter has to be set for the 'setup' task")
			}
			err = orch.CreateCluster(ctx, cfg.Image, cfg.Nodes, cfg.Port, cfg.Network)
		case TaskConnect:
			err = orch.ConnectAll(ctx, cfg.Image, cfg.Port)
		case TaskSyncTest:
			err = orch.SyncTest(ctx, cfg.Image, cfg.Port)
		}
		if err != nil {
			con.Fail("Task %s failed", task)
			return err
		}
	}
	return nil
}
