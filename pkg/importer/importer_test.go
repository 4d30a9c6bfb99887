package importer_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/autopatt/pkg/importer"
	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

const fixture = "../report/testdata/current.csv"

func writeReport(t *testing.T, dir, name string) string {
	t.Helper()

	data, err := os.ReadFile(fixture)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestImport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeReport(t, dir, "S101_Pre_Spanish.csv")
	writeReport(t, dir, "S102_Pre_Spanish.CSV")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.csv"), []byte("not a report\n"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o750))

	var logs bytes.Buffer

	batch, err := importer.Import(context.Background(), dir, importer.Options{Logger: quietLogger(&logs)})
	require.NoError(t, err)

	assert.Equal(t, []string{"S101_Pre_Spanish", "S102_Pre_Spanish"}, batch.Keys())
	assert.Equal(t, []string{filepath.Join(dir, "notes.txt")}, batch.Skipped)

	require.Len(t, batch.Failures, 1)
	assert.Equal(t, filepath.Join(dir, "broken.csv"), batch.Failures[0].Path)
	require.ErrorIs(t, batch.Failures[0], report.ErrMissingAnchor)

	assert.Contains(t, logs.String(), "skipping report")

	rec := batch.Records["S101_Pre_Spanish"]
	assert.Equal(t, filepath.Join(dir, "S101_Pre_Spanish.csv"), rec.Source)
	assert.Equal(t, []string{"p", "b", "t", "d", "k"}, rec.PhoneticInventory)
}

func TestImport_DoesNotChangeWorkingDirectory(t *testing.T) {
	t.Parallel()

	before, err := os.Getwd()
	require.NoError(t, err)

	dir := t.TempDir()
	writeReport(t, dir, "a.csv")

	_, err = importer.Import(context.Background(), dir, importer.Options{Logger: quietLogger(&bytes.Buffer{})})
	require.NoError(t, err)

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestImport_ParseOptions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeReport(t, dir, "a.csv")

	batch, err := importer.Import(context.Background(), dir, importer.Options{
		Parse:  report.Options{Robust: true},
		Logger: quietLogger(&bytes.Buffer{}),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"pl", "ɡr"}, batch.Records["a"].ClusterInventory)
}

func TestImport_MaxFileSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeReport(t, dir, "a.csv")

	size, err := importer.ParseMaxFileSize("100B")
	require.NoError(t, err)

	batch, err := importer.Import(context.Background(), dir, importer.Options{
		MaxFileSize: size,
		Logger:      quietLogger(&bytes.Buffer{}),
	})
	require.NoError(t, err)

	assert.Empty(t, batch.Records)
	require.Len(t, batch.Failures, 1)
	assert.ErrorIs(t, batch.Failures[0].Err, report.ErrFileTooLarge)
}

func TestImport_DuplicateKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeReport(t, dir, "S101_Pre_Spanish_a.csv")
	writeReport(t, dir, "S101_Pre_Spanish_b.csv")

	batch, err := importer.Import(context.Background(), dir, importer.Options{
		KeyFunc: importer.PatternKeys(importer.DefaultKeyParts()),
		Logger:  quietLogger(&bytes.Buffer{}),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"S101_Pre_Spanish"}, batch.Keys())
	require.Len(t, batch.Failures, 1)
	assert.ErrorIs(t, batch.Failures[0].Err, importer.ErrDuplicateKey)
}

func TestImport_Repair(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	data, err := os.ReadFile("../fixup/testdata/no_minimal_pairs.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manual.csv"), data, 0o600))

	opts := importer.Options{
		Parse:  report.Options{Format: report.FormatLegacy},
		Logger: quietLogger(&bytes.Buffer{}),
	}

	batch, err := importer.Import(context.Background(), dir, opts)
	require.NoError(t, err)
	require.Len(t, batch.Failures, 1)

	opts.Repair = true

	batch, err = importer.Import(context.Background(), dir, opts)
	require.NoError(t, err)
	assert.Empty(t, batch.Failures)
	assert.Contains(t, batch.Records, "manual")
}

func TestImport_Errors(t *testing.T) {
	t.Parallel()

	_, err := importer.Import(context.Background(), filepath.Join(t.TempDir(), "missing"), importer.Options{})
	require.ErrorIs(t, err, os.ErrNotExist)

	file := writeReport(t, t.TempDir(), "a.csv")

	_, err = importer.Import(context.Background(), file, importer.Options{})
	require.ErrorIs(t, err, importer.ErrNotDirectory)
}

func TestImport_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeReport(t, dir, "a.csv")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := importer.Import(ctx, dir, importer.Options{Logger: quietLogger(&bytes.Buffer{})})
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseMaxFileSize(t *testing.T) {
	t.Parallel()

	size, err := importer.ParseMaxFileSize(importer.DefaultMaxFileSize)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), size)

	size, err = importer.ParseMaxFileSize("")
	require.NoError(t, err)
	assert.Zero(t, size)

	_, err = importer.ParseMaxFileSize("lots")
	require.Error(t, err)
}

func TestImport_WarnsOnUnsupportedVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeReport(t, dir, "S101_Pre_Spanish.csv")

	data, err := os.ReadFile("../report/testdata/current_v08.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "S102_Pre_Spanish.csv"), data, 0o600))

	var logs bytes.Buffer

	batch, err := importer.Import(context.Background(), dir, importer.Options{Logger: quietLogger(&logs)})
	require.NoError(t, err)

	assert.Len(t, batch.Records, 2)
	assert.Contains(t, logs.String(), "unsupported AutoPATT version")
	assert.Contains(t, logs.String(), "S102_Pre_Spanish.csv")
	assert.Contains(t, logs.String(), "version=0.8")
	assert.NotContains(t, logs.String(), "S101_Pre_Spanish.csv")
}
