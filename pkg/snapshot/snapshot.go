// Package snapshot stores an imported batch of records as LZ4-compressed
// JSON so that a directory can be parsed once and compared many times.
package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/autopatt/pkg/report"
	"github.com/Sumatoshi-tech/autopatt/pkg/version"
)

// Extension is the conventional snapshot file extension.
const Extension = ".lz4"

const (
	filePerm   = 0o600
	tmpPattern = ".*.tmp"
)

//go:embed schema.json
var schemaJSON []byte

// ErrInvalidSnapshot is returned when a snapshot fails schema validation.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Snapshot is a serialized batch of records.
type Snapshot struct {
	ID          uuid.UUID                 `json:"id"`
	CreatedAt   time.Time                 `json:"created_at"`
	ToolVersion string                    `json:"tool_version"`
	Format      report.Format             `json:"format"`
	Dir         string                    `json:"dir,omitempty"`
	Records     map[string]*report.Record `json:"records"`
}

// New stamps a fresh snapshot of records.
func New(format report.Format, dir string, records map[string]*report.Record) *Snapshot {
	if records == nil {
		records = make(map[string]*report.Record)
	}

	return &Snapshot{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC(),
		ToolVersion: version.Version,
		Format:      format,
		Dir:         dir,
		Records:     records,
	}
}

// Save writes snap to w as an LZ4 frame around JSON.
func Save(w io.Writer, snap *Snapshot) error {
	zw := lz4.NewWriter(w)

	encodeErr := json.NewEncoder(zw).Encode(snap)
	if encodeErr != nil {
		return fmt.Errorf("encode snapshot: %w", encodeErr)
	}

	closeErr := zw.Close()
	if closeErr != nil {
		return fmt.Errorf("flush snapshot: %w", closeErr)
	}

	return nil
}

// Load decompresses, validates and decodes a snapshot written by Save.
func Load(r io.Reader) (*Snapshot, error) {
	data, readErr := io.ReadAll(lz4.NewReader(r))
	if readErr != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", readErr)
	}

	validateErr := Validate(data)
	if validateErr != nil {
		return nil, validateErr
	}

	var snap Snapshot

	unmarshalErr := json.Unmarshal(data, &snap)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, unmarshalErr)
	}

	return &snap, nil
}

// Validate checks raw snapshot JSON against the embedded schema.
func Validate(data []byte) error {
	schema, schemaErr := compiledSchema()
	if schemaErr != nil {
		return fmt.Errorf("load snapshot schema: %w", schemaErr)
	}

	var doc any

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	decodeErr := dec.Decode(&doc)
	if decodeErr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, decodeErr)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
	}

	return nil
}

// SaveFile writes snap to path through a temporary file in the same directory.
func SaveFile(path string, snap *Snapshot) error {
	tmp, createErr := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+tmpPattern)
	if createErr != nil {
		return fmt.Errorf("create snapshot temp file: %w", createErr)
	}

	tmpPath := tmp.Name()

	saveErr := Save(tmp, snap)
	closeErr := tmp.Close()

	if err := errors.Join(saveErr, closeErr); err != nil {
		_ = os.Remove(tmpPath)

		return err
	}

	chmodErr := os.Chmod(tmpPath, filePerm)
	if chmodErr != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("chmod snapshot: %w", chmodErr)
	}

	renameErr := os.Rename(tmpPath, path)
	if renameErr != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("rename snapshot: %w", renameErr)
	}

	return nil
}

// LoadFile reads a snapshot from path.
func LoadFile(path string) (*Snapshot, error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		return nil, fmt.Errorf("open snapshot: %w", openErr)
	}
	defer f.Close()

	snap, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return snap, nil
}

// IsSnapshotPath reports whether path names a snapshot file rather than a directory.
func IsSnapshotPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}
