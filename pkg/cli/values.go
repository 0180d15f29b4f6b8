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

	"github.com/openebs/mayastor-upgrade/pkg/chart"
	mserrors "github.com/openebs/mayastor-upgrade/pkg/errors"
	"github.com/openebs/mayastor-upgrade/pkg/serializer"
)

// chartSettings is the values command output.
type chartSettings struct {
	ChartName    string `json:"chartName" yaml:"chartName"`
	ChartVersion string `json:"chartVersion" yaml:"chartVersion"`

	ImageTag         string `json:"imageTag" yaml:"imageTag"`
	IoEngineLogLevel string `json:"ioEngineLogLevel" yaml:"ioEngineLogLevel"`

	ThinProvisioningEnabled bool `json:"thinProvisioningEnabled" yaml:"thinProvisioningEnabled"`

	ThinPoolCommitment          string `json:"thinPoolCommitment,omitempty" yaml:"thinPoolCommitment,omitempty"`
	ThinVolumeCommitment        string `json:"thinVolumeCommitment,omitempty" yaml:"thinVolumeCommitment,omitempty"`
	ThinVolumeCommitmentInitial string `json:"thinVolumeCommitmentInitial,omitempty" yaml:"thinVolumeCommitmentInitial,omitempty"`
}

func valuesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "values",
		EnableShellCompletion: true,
		Usage:                 "Print the deployment-relevant settings of a chart",
		Description: `Reads Chart.yaml and values.yaml from an unpacked chart directory and
prints the settings the upgrade acts on: chart name and version, image tag,
io-engine log level, and the thin-provisioning commitments.

A chart without the capacity subtree reports thinProvisioningEnabled: false
and omits the commitment fields.

# Examples

  upgrade-job values --chart ./mayastor-2.7.1
  upgrade-job values -c ./mayastor-2.7.1 --format table`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "chart",
				Aliases:  []string{"c"},
				Required: true,
				Usage:    "Directory of the unpacked chart",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			settings, err := loadChartSettings(cmd.String("chart"))
			if err != nil {
				return err
			}

			writer, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			if err != nil {
				return err
			}
			defer func() {
				if err := writer.Close(); err != nil {
					slog.Warn("failed to close values writer", "error", err)
				}
			}()

			return writer.Serialize(ctx, settings)
		},
	}
}

func loadChartSettings(dir string) (*chartSettings, error) {
	manifest, values, err := chart.FromDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart from %q: %w", dir, err)
	}

	settings := &chartSettings{
		ChartName:               manifest.Name(),
		ChartVersion:            manifest.Version().String(),
		ImageTag:                values.ImageTag(),
		IoEngineLogLevel:        values.IoEngineLogLevel(),
		ThinProvisioningEnabled: !values.CoreCapacityIsAbsent(),
	}

	if settings.ThinProvisioningEnabled {
		if settings.ThinPoolCommitment, err = values.CoreThinPoolCommitment(); err != nil {
			return nil, err
		}
		if settings.ThinVolumeCommitment, err = values.CoreThinVolumeCommitment(); err != nil {
			return nil, err
		}
		if settings.ThinVolumeCommitmentInitial, err = values.CoreThinVolumeCommitmentInitial(); err != nil {
			return nil, err
		}
	} else {
		// The accessors still answer, with the distinguished error. Anything
		// else coming back here is a bug in the model.
		if _, err := values.CoreThinPoolCommitment(); !mserrors.IsThinProvisioningOptionsAbsent(err) {
			return nil, fmt.Errorf("unexpected thin-provisioning accessor state: %v", err)
		}
	}

	return settings, nil
}
