/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/openebs/mayastor-upgrade/pkg/oci"
	"github.com/openebs/mayastor-upgrade/pkg/serializer"
)

// parseOutputFormat extracts and validates the output format from CLI flags.
// Returns the validated format or an error if the format is unknown.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: yaml, json, table", outFormat)
	}
	return outFormat, nil
}

// resolveTargetChart returns a local chart directory for the target, pulling
// and unpacking from the OCI registry when --target-ref is given.
func resolveTargetChart(ctx context.Context, cmd *cli.Command) (string, error) {
	targetDir := cmd.String("target-chart")
	targetRef := cmd.String("target-ref")

	switch {
	case targetDir != "" && targetRef != "":
		return "", fmt.Errorf("--target-chart and --target-ref are mutually exclusive")
	case targetDir != "":
		return targetDir, nil
	case targetRef == "":
		return "", fmt.Errorf("one of --target-chart or --target-ref is required")
	}

	workDir, err := os.MkdirTemp("", "mayastor-chart-")
	if err != nil {
		return "", fmt.Errorf("failed to create chart working directory: %w", err)
	}

	var options []oci.PullerOption
	if cmd.Bool("plain-http") {
		options = append(options, oci.WithPlainHTTP())
	}

	archive, err := oci.NewPuller(options...).PullToFile(ctx, targetRef, workDir)
	if err != nil {
		return "", err
	}

	chartDir, err := unpackChartArchive(archive, workDir)
	if err != nil {
		return "", fmt.Errorf("failed to unpack chart archive %q: %w", archive, err)
	}
	return chartDir, nil
}
