package serializer

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Reader deserializes values from a file in a fixed format.
type Reader struct {
	format Format
	file   *os.File
}

// NewFileReader opens path for reading in the given format. Unknown formats
// fall back to YAML, which also parses JSON input.
func NewFileReader(format Format, path string) (*Reader, error) {
	if format.IsUnknown() {
		format = FormatYAML
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %q: %w", path, err)
	}
	return &Reader{format: format, file: f}, nil
}

// Deserialize reads the file content into v.
func (r *Reader) Deserialize(v any) error {
	switch r.format {
	case FormatJSON:
		if err := json.NewDecoder(r.file).Decode(v); err != nil {
			return fmt.Errorf("failed to deserialize json: %w", err)
		}
		return nil
	default:
		if err := yaml.NewDecoder(r.file).Decode(v); err != nil {
			return fmt.Errorf("failed to deserialize yaml: %w", err)
		}
		return nil
	}
}

// Close closes the underlying file. Safe to call more than once.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	f := r.file
	r.file = nil
	return f.Close()
}
