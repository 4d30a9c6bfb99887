// Package importer reads a directory of AutoPATT reports into a keyed batch
// of records, collecting per-file failures instead of stopping at the first.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/autopatt/pkg/fixup"
	"github.com/Sumatoshi-tech/autopatt/pkg/observability"
	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

// DefaultExtension is the report file extension imported when none is configured.
const DefaultExtension = ".csv"

// DefaultMaxFileSize caps the size of a single report. Reports are a few KiB.
const DefaultMaxFileSize = "1MB"

// ErrNotDirectory is returned when the import path is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Options controls an import.
type Options struct {
	Parse report.Options
	// Extensions lists the accepted file extensions, compared
	// case-insensitively. Empty means DefaultExtension.
	Extensions []string
	// MaxFileSize in bytes; zero or negative disables the cap.
	MaxFileSize int64
	// KeyFunc derives record keys. Nil means BaseNameKey.
	KeyFunc KeyFunc
	// Repair runs fixup.RepairDir over the directory before parsing.
	Repair bool

	Logger  *slog.Logger
	Metrics *observability.ImportMetrics
}

// FileError is one file that could not be imported.
type FileError struct {
	Path string
	Err  error
}

// Error implements error.
func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e FileError) Unwrap() error {
	return e.Err
}

// Batch is the result of importing one directory.
type Batch struct {
	Dir      string
	Records  map[string]*report.Record
	Failures []FileError
	// Skipped lists files ignored because of their extension.
	Skipped []string
}

// Keys returns the sorted record keys.
func (b *Batch) Keys() []string {
	keys := make([]string, 0, len(b.Records))
	for k := range b.Records {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// ParseMaxFileSize parses a human readable size such as "1MB" or "512 KiB".
func ParseMaxFileSize(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("parse max file size %q: %w", s, err)
	}

	return int64(size), nil //nolint:gosec // report sizes are far below MaxInt64.
}

// Import parses every report in dir. The returned error covers only
// directory-level problems and cancellation; malformed files end up in
// Batch.Failures. The working directory is never changed.
func Import(ctx context.Context, dir string, opts Options) (*Batch, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	absDir, absErr := filepath.Abs(dir)
	if absErr != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, absErr)
	}

	info, statErr := os.Stat(absDir)
	if statErr != nil {
		return nil, fmt.Errorf("stat %s: %w", absDir, statErr)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, absDir)
	}

	ctx, span := otel.Tracer(observability.TracerName).Start(ctx, "autopatt.import",
		trace.WithAttributes(attribute.String("import.dir", absDir)))
	defer span.End()

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{DefaultExtension}
	}

	if opts.Repair {
		repairLogged(ctx, logger, absDir, exts)
	}

	entries, dirErr := os.ReadDir(absDir)
	if dirErr != nil {
		span.SetStatus(codes.Error, dirErr.Error())

		return nil, fmt.Errorf("read dir %s: %w", absDir, dirErr)
	}

	keyFunc := opts.KeyFunc
	if keyFunc == nil {
		keyFunc = BaseNameKey
	}

	batch := &Batch{
		Dir:     absDir,
		Records: make(map[string]*report.Record),
	}
	sources := make(map[string]string)

	for _, entry := range entries {
		if ctxErr := ctx.Err(); ctxErr != nil {
			span.SetStatus(codes.Error, ctxErr.Error())

			return batch, fmt.Errorf("import %s: %w", absDir, ctxErr)
		}

		if entry.IsDir() {
			continue
		}

		path := filepath.Join(absDir, entry.Name())

		if !entry.Type().IsRegular() || !hasExtension(entry.Name(), exts) {
			batch.Skipped = append(batch.Skipped, path)
			opts.Metrics.RecordFile(ctx, observability.OutcomeSkipped, 0)

			continue
		}

		start := time.Now()
		key, rec, err := importFile(path, keyFunc, opts)

		if err == nil {
			if prev, dup := sources[key]; dup {
				err = fmt.Errorf("%w: %q also produced by %s", ErrDuplicateKey, key, prev)
			}
		}

		if err != nil {
			logger.WarnContext(ctx, "skipping report", "path", path, "error", err)
			batch.Failures = append(batch.Failures, FileError{Path: path, Err: err})
			opts.Metrics.RecordFile(ctx, observability.OutcomeFailed, time.Since(start))

			continue
		}

		if !rec.VersionSupported() {
			logger.WarnContext(ctx, "unsupported AutoPATT version",
				"path", path, "version", rec.Header.Version, "supported", report.SupportedVersion)
		}

		sources[key] = path
		batch.Records[key] = rec
		opts.Metrics.RecordFile(ctx, observability.OutcomeParsed, time.Since(start))

		logger.DebugContext(ctx, "parsed report", "path", path, "key", key)
	}

	span.SetAttributes(
		attribute.Int("import.records", len(batch.Records)),
		attribute.Int("import.failures", len(batch.Failures)),
		attribute.Int("import.skipped", len(batch.Skipped)),
	)

	logger.InfoContext(ctx, "import complete",
		"dir", absDir,
		"records", len(batch.Records),
		"failures", len(batch.Failures),
		"skipped", len(batch.Skipped),
	)

	return batch, nil
}

func importFile(path string, keyFunc KeyFunc, opts Options) (string, *report.Record, error) {
	key, keyErr := keyFunc(path)
	if keyErr != nil {
		return "", nil, keyErr
	}

	rec, parseErr := report.ParseFile(path, opts.Parse, opts.MaxFileSize)
	if parseErr != nil {
		return "", nil, parseErr
	}

	return key, rec, nil
}

func repairLogged(ctx context.Context, logger *slog.Logger, dir string, exts []string) {
	for _, ext := range exts {
		changed, err := fixup.RepairDir(ctx, dir, ext)
		if err != nil {
			logger.WarnContext(ctx, "repair incomplete", "dir", dir, "ext", ext, "error", err)
		}

		for _, path := range changed {
			logger.InfoContext(ctx, "inserted minimal pairs section", "path", path)
		}
	}
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)

	return slices.ContainsFunc(exts, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}
