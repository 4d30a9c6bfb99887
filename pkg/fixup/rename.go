package fixup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const nameSeparator = "_"

// ErrTargetExists is returned for a rename whose destination already exists
// or is claimed by an earlier rename in the same run.
var ErrTargetExists = errors.New("rename target exists")

// Rename is one planned or performed file rename.
type Rename struct {
	From string
	To   string
	// Err is set when the rename was refused or failed.
	Err error
}

// TruncateNames renames every file in dir with extension ext to the part of
// its name before the first underscore, so "S101_Pre_x.csv" becomes
// "S101.csv". Files without an underscore are left alone. Existing files are
// never overwritten. With dryRun set, nothing is renamed.
func TruncateNames(dir, ext string, dryRun bool) ([]Rename, error) {
	files, listErr := listFiles(dir, ext)
	if listErr != nil {
		return nil, listErr
	}

	claimed := make(map[string]bool, len(files))
	for _, path := range files {
		claimed[path] = true
	}

	renames := make([]Rename, 0, len(files))

	for _, path := range files {
		target, ok := truncatedName(path)
		if !ok {
			continue
		}

		r := Rename{From: path, To: target}

		switch {
		case claimed[target]:
			r.Err = fmt.Errorf("%w: %s", ErrTargetExists, target)
		case exists(target):
			r.Err = fmt.Errorf("%w: %s", ErrTargetExists, target)
		case !dryRun:
			renameErr := os.Rename(path, target)
			if renameErr != nil {
				r.Err = fmt.Errorf("rename %s: %w", path, renameErr)
			}
		}

		if r.Err == nil {
			claimed[target] = true
			delete(claimed, path)
		}

		renames = append(renames, r)
	}

	return renames, nil
}

func truncatedName(path string) (string, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	prefix, _, found := strings.Cut(stem, nameSeparator)
	if !found || prefix == "" {
		return "", false
	}

	return filepath.Join(filepath.Dir(path), prefix+ext), true
}

func exists(path string) bool {
	_, err := os.Lstat(path)

	return err == nil
}
