// Package serializer formats values for output (yaml, json, table) and reads
// them back from files. It is the single place the CLI goes through for
// writing plans and extracted chart settings.
package serializer

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// Format identifies an output format.
type Format string

const (
	// FormatYAML emits YAML documents.
	FormatYAML Format = "yaml"

	// FormatJSON emits indented JSON.
	FormatJSON Format = "json"

	// FormatTable emits a flattened FIELD/VALUE text table for terminals.
	FormatTable Format = "table"
)

// StdoutURI is the special output path indicating stdout.
const StdoutURI = "-"

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatYAML, FormatJSON, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats returns the supported format names.
func SupportedFormats() []string {
	return []string{string(FormatYAML), string(FormatJSON), string(FormatTable)}
}

// FormatFromPath guesses the format of a file from its extension,
// defaulting to YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Serializer writes a value to its destination in a fixed format.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Deserializer reads a value from its source.
type Deserializer interface {
	Deserialize(v any) error
}

// Closer is implemented by serializers holding an underlying file.
type Closer interface {
	io.Closer
}
