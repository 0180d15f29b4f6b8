/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/openebs/mayastor-upgrade/pkg/k8s/client"
	"github.com/openebs/mayastor-upgrade/pkg/serializer"
	"github.com/openebs/mayastor-upgrade/pkg/server"
	"github.com/openebs/mayastor-upgrade/pkg/upgrade"
	semver "github.com/openebs/mayastor-upgrade/pkg/version"
)

func applyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "apply",
		EnableShellCompletion: true,
		Usage:                 "Execute an upgrade plan against the cluster",
		Description: `Applies an upgrade plan: patches the io-engine DaemonSet to the plan's
image tag and log level and waits for the rollout to complete. This command
is what runs inside the cluster when the upgrade Job is deployed.

The plan comes from a file written by the plan command (--plan), inline as
JSON (--plan-json, how the deploy command hands it to the Job), or is built
in place from --source-chart and --target-chart/--target-ref.

While the upgrade runs, probes, prometheus metrics and the upgrade status
are served over HTTP (see the PORT environment variable).

# Examples

Apply a previously built plan:
  upgrade-job apply --plan plan.yaml --namespace mayastor

Build and apply in one step:
  upgrade-job apply -s ./mayastor-2.6.0 -t ./mayastor-2.7.1 -n mayastor`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "plan",
				Aliases: []string{"p"},
				Usage:   "Path to a plan file written by the plan command",
			},
			&cli.StringFlag{
				Name:  "plan-json",
				Usage: "Inline JSON plan (used by the deploy command to hand the plan to the Job)",
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
				Name:  "rollout-timeout",
				Value: 30 * time.Minute,
				Usage: "How long to wait for the io-engine rollout",
			},
			&cli.BoolFlag{
				Name:  "no-status-server",
				Usage: "Do not serve probes, metrics and status over HTTP",
			},
			namespaceFlag,
			kubeconfigFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			plan, err := resolvePlan(ctx, cmd)
			if err != nil {
				return err
			}

			clientset, _, err := client.Build(cmd.String("kubeconfig"))
			if err != nil {
				return err
			}

			executor := upgrade.NewExecutor(clientset, upgrade.ExecutorConfig{
				Namespace:      cmd.String("namespace"),
				RolloutTimeout: cmd.Duration("rollout-timeout"),
			})

			var status *server.Server
			if !cmd.Bool("no-status-server") {
				status = server.New(server.DefaultConfig())
				status.SetPlan(plan)
				status.SetPhase(server.PhaseApplying)
				status.SetReady(true)
				go func() {
					if err := status.Start(); err != nil {
						slog.Error("status server stopped", "error", err)
					}
				}()
				defer func() {
					if err := status.Shutdown(context.Background()); err != nil {
						slog.Warn("failed to shut down status server", "error", err)
					}
				}()
			}

			if err := executor.Apply(ctx, plan); err != nil {
				if status != nil {
					status.SetPhase(server.PhaseFailed)
				}
				return fmt.Errorf("upgrade failed: %w", err)
			}

			if status != nil {
				status.SetPhase(server.PhaseSucceeded)
			}
			return nil
		},
	}
}

// resolvePlan loads the plan file when --plan is given, decodes an inline
// plan when --plan-json is given, and otherwise builds a plan from the chart
// flags.
func resolvePlan(ctx context.Context, cmd *cli.Command) (*upgrade.Plan, error) {
	planPath := cmd.String("plan")
	planJSON := cmd.String("plan-json")
	sourceDir := cmd.String("source-chart")

	given := 0
	for _, flag := range []string{planPath, planJSON, sourceDir} {
		if flag != "" {
			given++
		}
	}
	if given > 1 {
		return nil, fmt.Errorf("--plan, --plan-json and --source-chart are mutually exclusive")
	}

	switch {
	case planPath != "":
		return readPlanFile(planPath)
	case planJSON != "":
		return parsePlanJSON(planJSON)
	case sourceDir == "":
		return nil, fmt.Errorf("one of --plan, --plan-json or --source-chart is required")
	}

	targetDir, err := resolveTargetChart(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return upgrade.NewPlanner().Build(ctx, sourceDir, targetDir)
}

// validatePlan rejects plans that cannot be applied: required fields absent,
// or versions that are not valid semver.
func validatePlan(plan *upgrade.Plan) error {
	if plan.ID == "" || plan.ToVersion == "" || plan.ToImageTag == "" {
		return fmt.Errorf("plan is incomplete")
	}
	if plan.FromVersion != "" {
		if _, err := semver.Parse(plan.FromVersion); err != nil {
			return err
		}
	}
	if _, err := semver.Parse(plan.ToVersion); err != nil {
		return err
	}
	return nil
}

func parsePlanJSON(raw string) (*upgrade.Plan, error) {
	plan := &upgrade.Plan{}
	if err := json.Unmarshal([]byte(raw), plan); err != nil {
		return nil, fmt.Errorf("failed to parse inline plan: %w", err)
	}
	if err := validatePlan(plan); err != nil {
		return nil, fmt.Errorf("inline plan: %w", err)
	}
	return plan, nil
}

func readPlanFile(path string) (*upgrade.Plan, error) {
	reader, err := serializer.NewFileReader(serializer.FormatFromPath(path), path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan file %q: %w", path, err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			slog.Warn("failed to close plan reader", "error", err)
		}
	}()

	plan := &upgrade.Plan{}
	if err := reader.Deserialize(plan); err != nil {
		return nil, fmt.Errorf("failed to read plan file %q: %w", path, err)
	}
	if err := validatePlan(plan); err != nil {
		return nil, fmt.Errorf("plan file %q: %w", path, err)
	}
	return plan, nil
}
