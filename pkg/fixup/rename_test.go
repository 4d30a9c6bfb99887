package fixup_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/autopatt/pkg/fixup"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()

	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o600))
	}
}

func TestTruncateNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "S101_Pre_x.csv", "S102.csv", "S103_Post.txt")

	renames, err := fixup.TruncateNames(dir, ".csv", false)
	require.NoError(t, err)
	require.Len(t, renames, 1)

	assert.NoError(t, renames[0].Err)
	assert.Equal(t, filepath.Join(dir, "S101.csv"), renames[0].To)

	data, err := os.ReadFile(filepath.Join(dir, "S101.csv"))
	require.NoError(t, err)
	assert.Equal(t, "S101_Pre_x.csv", string(data))

	_, err = os.Stat(filepath.Join(dir, "S103_Post.txt"))
	assert.NoError(t, err)
}

func TestTruncateNames_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "S101.csv", "S101_Pre.csv", "S102_Pre.csv", "S102_Post.csv")

	renames, err := fixup.TruncateNames(dir, ".csv", false)
	require.NoError(t, err)
	require.Len(t, renames, 3)

	failed := 0

	for _, r := range renames {
		if r.Err != nil {
			assert.ErrorIs(t, r.Err, fixup.ErrTargetExists)

			failed++
		}
	}

	assert.Equal(t, 2, failed)

	data, err := os.ReadFile(filepath.Join(dir, "S101.csv"))
	require.NoError(t, err)
	assert.Equal(t, "S101.csv", string(data))
}

func TestTruncateNames_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "S101_Pre.csv")

	renames, err := fixup.TruncateNames(dir, ".csv", true)
	require.NoError(t, err)
	require.Len(t, renames, 1)
	assert.NoError(t, renames[0].Err)

	_, err = os.Stat(filepath.Join(dir, "S101_Pre.csv"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "S101.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestTruncateNames_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := fixup.TruncateNames(filepath.Join(t.TempDir(), "missing"), ".csv", false)
	require.Error(t, err)
}
