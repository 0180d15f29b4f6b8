/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/openebs/mayastor-upgrade/pkg/logging"
)

// version is embedded at build time via ldflags.
var version = "dev"

// Shared flags used by more than one command.
var (
	kubeconfigFlag = &cli.StringFlag{
		Name:    "kubeconfig",
		Sources: cli.EnvVars("KUBECONFIG"),
		Usage:   "Path to the kubeconfig file (default: discovery)",
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Value:   "yaml",
		Usage:   "output format (yaml, json, table)",
	}

	namespaceFlag = &cli.StringFlag{
		Name:    "namespace",
		Aliases: []string{"n"},
		Value:   "mayastor",
		Usage:   "Namespace of the Mayastor release",
	}
)

// Run executes the CLI with the given arguments.
func Run(ctx context.Context, args []string) error {
	root := &cli.Command{
		Name:    "upgrade-job",
		Usage:   "Plan and execute Mayastor upgrades",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Output logs in JSON format",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.Setup(cmd.Bool("debug"), cmd.Bool("log-json"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			planCmd(),
			applyCmd(),
			deployCmd(),
			valuesCmd(),
		},
	}

	return root.Run(ctx, args)
}
