/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/

package upgrade

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openebs/mayastor-upgrade/pkg/chart"
	"github.com/openebs/mayastor-upgrade/pkg/oci"
	"github.com/openebs/mayastor-upgrade/pkg/version"
)

// Planner derives upgrade plans from chart documents on disk.
type Planner struct{}

// NewPlanner returns a Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

type loadedChart struct {
	manifest *chart.Chart
	values   *chart.UmbrellaValues
}

// Build loads the source and target chart directories, validates the upgrade
// path between their versions, and assembles a Plan. Both directories are
// loaded concurrently; the first failure aborts the build.
//
// A target chart without the capacity subtree yields a plan with
// ThinProvisioning nil. That is a valid plan, not an error.
func (p *Planner) Build(ctx context.Context, sourceDir, targetDir string) (*Plan, error) {
	start := time.Now()

	var source, target loadedChart
	group, _ := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		source.manifest, source.values, err = chart.FromDirectory(sourceDir)
		if err != nil {
			return fmt.Errorf("failed to load source chart: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		target.manifest, target.values, err = chart.FromDirectory(targetDir)
		if err != nil {
			return fmt.Errorf("failed to load target chart: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		planBuildTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	plan, err := p.assemble(source, target)
	if err != nil {
		planBuildTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	planBuildDuration.Observe(time.Since(start).Seconds())
	planBuildTotal.WithLabelValues("success").Inc()
	slog.Info("upgrade plan built",
		"plan", plan.ID,
		"chart", plan.ChartName,
		"from", plan.FromVersion,
		"to", plan.ToVersion,
		"thinProvisioning", plan.ReconfiguresThinProvisioning())
	return plan, nil
}

func (p *Planner) assemble(source, target loadedChart) (*Plan, error) {
	if source.manifest.Name() != target.manifest.Name() {
		return nil, fmt.Errorf("source chart %q and target chart %q are different charts",
			source.manifest.Name(), target.manifest.Name())
	}

	from, to := source.manifest.Version(), target.manifest.Version()
	if err := version.ValidateUpgradePath(from, to); err != nil {
		return nil, err
	}

	if err := oci.ValidateTag(target.values.ImageTag()); err != nil {
		return nil, fmt.Errorf("target chart image tag is unusable: %w", err)
	}

	plan := newPlan()
	plan.ChartName = target.manifest.Name()
	plan.FromVersion = from.String()
	plan.ToVersion = to.String()
	plan.FromImageTag = source.values.ImageTag()
	plan.ToImageTag = target.values.ImageTag()
	plan.IoEngineLogLevel = target.values.IoEngineLogLevel()

	if !target.values.CoreCapacityIsAbsent() {
		pool, err := target.values.CoreThinPoolCommitment()
		if err != nil {
			return nil, err
		}
		volume, err := target.values.CoreThinVolumeCommitment()
		if err != nil {
			return nil, err
		}
		initial, err := target.values.CoreThinVolumeCommitmentInitial()
		if err != nil {
			return nil, err
		}
		plan.ThinProvisioning = &ThinProvisioning{
			PoolCommitment:          pool,
			VolumeCommitment:        volume,
			VolumeCommitmentInitial: initial,
		}
	}

	return plan, nil
}
