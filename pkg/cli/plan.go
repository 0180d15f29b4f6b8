/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/openebs/mayastor-upgrade/pkg/serializer"
	"github.com/openebs/mayastor-upgrade/pkg/upgrade"
)

func planCmd() *cli.Command {
	return &cli.Command{
		Name:                  "plan",
		EnableShellCompletion: true,
		Usage:                 "Build an upgrade plan from two chart documents",
		Description: `Builds an upgrade plan from a source chart (the deployed release) and a
target chart (the release to upgrade to). The plan records the version jump,
the image tag change, the io-engine log level, and the thin-provisioning
commitments when the target chart configures them.

The target chart is either a local unpacked directory (--target-chart) or an
OCI chart reference (--target-ref).

# Examples

Plan an upgrade between two local chart directories:
  upgrade-job plan --source-chart ./mayastor-2.6.0 --target-chart ./mayastor-2.7.1

Pull the target chart from a registry:
  upgrade-job plan -s ./mayastor-2.6.0 \
    --target-ref oci://registry.example.com/openebs/mayastor:2.7.1

Write the plan to a file for a later apply:
  upgrade-job plan -s ./old -t ./new --output plan.yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source-chart",
				Aliases:  []string{"s"},
				Required: true,
				Usage:    "Directory of the currently deployed (source) chart",
			},
			&cli.StringFlag{
				Name:    "target-chart",
				Aliases: []string{"t"},
				Usage:   "Directory of the target chart",
			},
			&cli.StringFlag{
				Name:  "target-ref",
				Usage: "OCI reference of the target chart (e.g. oci://host/repo:tag)",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the OCI registry (for local development)",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			targetDir, err := resolveTargetChart(ctx, cmd)
			if err != nil {
				return err
			}

			plan, err := upgrade.NewPlanner().Build(ctx, cmd.String("source-chart"), targetDir)
			if err != nil {
				return fmt.Errorf("failed to build upgrade plan: %w", err)
			}

			writer, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			if err != nil {
				return err
			}
			defer func() {
				if err := writer.Close(); err != nil {
					slog.Warn("failed to close plan writer", "error", err)
				}
			}()

			return writer.Serialize(ctx, plan)
		},
	}
}
