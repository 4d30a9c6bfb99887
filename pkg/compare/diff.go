package compare

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp is the kind of change a DiffLine represents.
type DiffOp int

// Diff operations.
const (
	DiffEqual DiffOp = iota
	DiffDelete
	DiffInsert
)

// String returns the unified-diff prefix of the operation.
func (op DiffOp) String() string {
	switch op {
	case DiffDelete:
		return "-"
	case DiffInsert:
		return "+"
	case DiffEqual:
		return " "
	default:
		return "?"
	}
}

// DiffLine is one element of a line diff.
type DiffLine struct {
	Op   DiffOp `json:"op"   yaml:"op"`
	Text string `json:"text" yaml:"text"`
}

// LineDiff computes an ordered line diff between two value lists. Unlike
// Partition it keeps order and duplicates.
func LineDiff(left, right []string) []DiffLine {
	dmp := diffmatchpatch.New()

	chars1, chars2, lineArray := dmp.DiffLinesToChars(joinLines(left), joinLines(right))
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	out := make([]DiffLine, 0, len(left)+len(right))

	for _, d := range diffs {
		op := DiffEqual

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffEqual:
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}

			out = append(out, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}

	return out
}

func joinLines(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return strings.Join(values, "\n") + "\n"
}
