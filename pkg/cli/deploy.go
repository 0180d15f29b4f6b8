/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/openebs/mayastor-upgrade/pkg/k8s/client"
	"github.com/openebs/mayastor-upgrade/pkg/k8s/job"
)

func deployCmd() *cli.Command {
	return &cli.Command{
		Name:                  "deploy",
		EnableShellCompletion: true,
		Usage:                 "Launch the upgrade as an in-cluster Job",
		Description: `Creates the upgrade Job with its RBAC (ServiceAccount, ClusterRole,
ClusterRoleBinding) in the release namespace and waits for it to complete.
The plan is resolved locally, from a plan file (--plan) or from the chart
flags, and handed to the Job, which runs "upgrade-job apply" with it inside
the cluster.

RBAC resources are reused when they already exist; a Job left over from a
previous run is deleted and recreated.

# Examples

  upgrade-job deploy --namespace mayastor \
    --image openebs/mayastor-upgrade:v2.7.1 --plan plan.yaml

Build the plan in place from the charts:
  upgrade-job deploy -n mayastor --image openebs/mayastor-upgrade:v2.7.1 \
    -s ./mayastor-2.6.0 -t ./mayastor-2.7.1 --keep-job`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "image",
				Required: true,
				Usage:    "Upgrade-job container image, including tag",
			},
			&cli.StringFlag{
				Name:    "plan",
				Aliases: []string{"p"},
				Usage:   "Path to a plan file written by the plan command",
			},
			&cli.StringFlag{
				Name:    "source-chart",
				Aliases: []string{"s"},
				Usage:   "Directory of the currently deployed (source) chart",
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
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 60 * time.Minute,
				Usage: "How long to wait for the Job to complete",
			},
			&cli.BoolFlag{
				Name:  "keep-job",
				Usage: "Leave the Job in place after completion",
			},
			&cli.StringSliceFlag{
				Name:  "job-arg",
				Usage: "Extra argument for the Job container (can be repeated)",
			},
			namespaceFlag,
			kubeconfigFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			plan, err := resolvePlan(ctx, cmd)
			if err != nil {
				return err
			}

			planJSON, err := json.Marshal(plan)
			if err != nil {
				return fmt.Errorf("failed to serialize plan: %w", err)
			}

			clientset, _, err := client.Build(cmd.String("kubeconfig"))
			if err != nil {
				return err
			}

			deployer := job.NewDeployer(clientset, job.Config{
				Namespace: cmd.String("namespace"),
				Image:     cmd.String("image"),
				PlanJSON:  string(planJSON),
				ExtraArgs: cmd.StringSlice("job-arg"),
			})

			if err := deployer.Deploy(ctx); err != nil {
				return err
			}

			if err := deployer.WaitForCompletion(ctx, cmd.Duration("timeout")); err != nil {
				return err
			}

			if !cmd.Bool("keep-job") {
				return deployer.Cleanup(ctx, job.CleanupOptions{})
			}
			return nil
		},
	}
}
