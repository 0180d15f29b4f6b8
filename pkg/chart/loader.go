package chart

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ManifestFileName is the chart metadata file inside an unpacked chart.
	ManifestFileName = "Chart.yaml"

	// ValuesFileName is the chart values file inside an unpacked chart.
	ValuesFileName = "values.yaml"
)

// ChartFromFile loads and decodes a Chart.yaml manifest.
func ChartFromFile(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart manifest %q: %w", path, err)
	}
	c, err := DecodeChart(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	slog.Debug("loaded chart manifest",
		slog.String("path", path),
		slog.String("name", c.Name()),
		slog.String("version", c.Version().String()),
	)
	return c, nil
}

// UmbrellaValuesFromFile loads and decodes an umbrella chart values.yaml.
func UmbrellaValuesFromFile(path string) (*UmbrellaValues, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values file %q: %w", path, err)
	}
	u, err := DecodeUmbrellaValues(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	return u, nil
}

// FromDirectory loads the manifest and umbrella values of an unpacked chart
// directory. The decode itself performs no I/O; this is the one place the
// package touches the filesystem.
func FromDirectory(dir string) (*Chart, *UmbrellaValues, error) {
	c, err := ChartFromFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return nil, nil, err
	}
	u, err := UmbrellaValuesFromFile(filepath.Join(dir, ValuesFileName))
	if err != nil {
		return nil, nil, err
	}
	return c, u, nil
}
