/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/openebs/mayastor-upgrade/pkg/chart"
)

// maxChartFileSize bounds a single extracted file. Chart manifests and
// values documents are tiny; anything larger is not a chart we built.
const maxChartFileSize = 4 << 20

// unpackChartArchive extracts Chart.yaml and values.yaml from a chart
// package (.tgz) into a subdirectory of destDir and returns that directory.
// Chart packages wrap their files in a top-level directory named after the
// chart; that prefix is stripped.
func unpackChartArchive(archivePath, destDir string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("not a gzip archive: %w", err)
	}
	defer gz.Close()

	chartDir := filepath.Join(destDir, "chart")
	if err := os.MkdirAll(chartDir, 0o755); err != nil {
		return "", err
	}

	wanted := map[string]bool{
		chart.ManifestFileName: false,
		chart.ValuesFileName:   false,
	}

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		// <chart-name>/Chart.yaml -> Chart.yaml
		name := header.Name
		if i := strings.IndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		if _, ok := wanted[name]; !ok {
			continue
		}

		data, err := io.ReadAll(io.LimitReader(tr, maxChartFileSize+1))
		if err != nil {
			return "", err
		}
		if len(data) > maxChartFileSize {
			return "", fmt.Errorf("chart file %q exceeds %d bytes", name, maxChartFileSize)
		}
		if err := os.WriteFile(filepath.Join(chartDir, name), data, 0o644); err != nil {
			return "", err
		}
		wanted[name] = true
	}

	for name, found := range wanted {
		if !found {
			return "", fmt.Errorf("chart archive is missing %s", name)
		}
	}
	return chartDir, nil
}
