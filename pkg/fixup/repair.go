// Package fixup holds the destructive, opt-in file operations: inserting a
// missing "Minimal Pairs:" section and truncating report file names.
package fixup

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

const (
	tmpPattern = ".*.tmp"

	// blankRowsBeforeInsert is how many blank rows after the phonetic
	// inventory marker precede the insertion point.
	blankRowsBeforeInsert = 2
	// blankRowsAfterInsert is how many blank rows follow the inserted marker.
	blankRowsAfterInsert = 2
)

// ErrNoInsertionPoint is returned when a report has no phonetic inventory
// marker followed by two blank rows.
var ErrNoInsertionPoint = errors.New("no minimal pairs insertion point")

// RepairFile inserts a "Minimal Pairs:" row followed by two blank rows after
// the second blank row following "PHONETIC INVENTORY:". It reports whether
// the file changed. Files that already contain the marker are left alone.
// The rewrite goes through a temporary file in the same directory.
func RepairFile(path string) (bool, error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return false, fmt.Errorf("read %s: %w", path, readErr)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, parseErr := reader.ReadAll()
	if parseErr != nil {
		return false, fmt.Errorf("parse %s: %w", path, parseErr)
	}

	repaired, changed, insertErr := insertMinimalPairs(rows)
	if insertErr != nil {
		return false, fmt.Errorf("%s: %w", path, insertErr)
	}

	if !changed {
		return false, nil
	}

	writeErr := writeAtomic(path, repaired)
	if writeErr != nil {
		return false, writeErr
	}

	return true, nil
}

// RepairDir repairs every file in dir with extension ext and returns the
// absolute paths of the files that changed. Per-file errors are joined;
// the walk continues past them.
func RepairDir(ctx context.Context, dir, ext string) ([]string, error) {
	files, listErr := listFiles(dir, ext)
	if listErr != nil {
		return nil, listErr
	}

	var (
		changed []string
		errs    []error
	)

	for _, path := range files {
		if ctx.Err() != nil {
			return changed, fmt.Errorf("repair %s: %w", dir, ctx.Err())
		}

		ok, err := RepairFile(path)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if ok {
			changed = append(changed, path)
		}
	}

	return changed, errors.Join(errs...)
}

func insertMinimalPairs(rows [][]string) ([][]string, bool, error) {
	if len(rows) == 0 {
		return nil, false, ErrNoInsertionPoint
	}

	marker := -1

	for i, row := range rows {
		first := firstCell(row)

		if first == report.MarkerMinimalPairs {
			return rows, false, nil
		}

		if marker < 0 && first == report.MarkerPhoneticInventory {
			marker = i
		}
	}

	if marker < 0 {
		return nil, false, ErrNoInsertionPoint
	}

	blanks := 0
	insertAt := -1

	for i := marker + 1; i < len(rows); i++ {
		if !isBlank(rows[i]) {
			continue
		}

		blanks++
		if blanks == blankRowsBeforeInsert {
			insertAt = i + 1

			break
		}
	}

	if insertAt < 0 {
		return nil, false, ErrNoInsertionPoint
	}

	width := max(len(rows[0]), 1)
	inserted := make([][]string, 0, 1+blankRowsAfterInsert)

	markerRow := make([]string, width)
	markerRow[0] = report.MarkerMinimalPairs
	inserted = append(inserted, markerRow)

	for range blankRowsAfterInsert {
		inserted = append(inserted, make([]string, width))
	}

	return slices.Insert(rows, insertAt, inserted...), true, nil
}

func firstCell(row []string) string {
	if len(row) == 0 {
		return ""
	}

	return strings.TrimSpace(row[0])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

func writeAtomic(path string, rows [][]string) error {
	info, statErr := os.Stat(path)
	if statErr != nil {
		return fmt.Errorf("stat %s: %w", path, statErr)
	}

	tmp, createErr := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+tmpPattern)
	if createErr != nil {
		return fmt.Errorf("create temp for %s: %w", path, createErr)
	}

	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.WriteAll(rows)
	closeErr := tmp.Close()

	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("write %s: %w", tmpPath, err)
	}

	chmodErr := os.Chmod(tmpPath, info.Mode().Perm())
	if chmodErr != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("chmod %s: %w", tmpPath, chmodErr)
	}

	renameErr := os.Rename(tmpPath, path)
	if renameErr != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("rename %s: %w", tmpPath, renameErr)
	}

	return nil
}

// listFiles returns the sorted absolute paths of regular files in dir whose
// extension matches ext (case-insensitive).
func listFiles(dir, ext string) ([]string, error) {
	absDir, absErr := filepath.Abs(dir)
	if absErr != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, absErr)
	}

	entries, dirErr := os.ReadDir(absDir)
	if dirErr != nil {
		return nil, fmt.Errorf("read dir %s: %w", absDir, dirErr)
	}

	files := make([]string, 0, len(entries))

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}

		files = append(files, filepath.Join(absDir, entry.Name()))
	}

	return files, nil
}
