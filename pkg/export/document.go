package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/autopatt/pkg/compare"
)

const (
	jsonIndent = "  "
	yamlIndent = 2
)

// MatrixDocument is the serialized form of a comparison matrix.
type MatrixDocument struct {
	Fields    map[string]map[string]compare.Result[string] `json:"fields"               yaml:"fields"`
	LeftOnly  []string                                     `json:"left_only,omitempty"  yaml:"left_only,omitempty"`
	RightOnly []string                                     `json:"right_only,omitempty" yaml:"right_only,omitempty"`
}

// NewMatrixDocument converts m, keyed by field name. leftOnly and rightOnly
// list the keys that had no counterpart.
func NewMatrixDocument(m compare.Matrix, leftOnly, rightOnly []string) MatrixDocument {
	fields := make(map[string]map[string]compare.Result[string], len(m))
	for f, byKey := range m {
		fields[f.String()] = byKey
	}

	return MatrixDocument{Fields: fields, LeftOnly: leftOnly, RightOnly: rightOnly}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", jsonIndent)
	enc.SetEscapeHTML(false)

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	closeErr := enc.Close()
	if closeErr != nil {
		return fmt.Errorf("flush yaml: %w", closeErr)
	}

	return nil
}

// WriteDocument writes v as JSON or YAML.
func WriteDocument(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("%w: %s for documents", ErrUnsupportedFormat, format)
	}
}
