package report

import (
	"strings"

	"github.com/Sumatoshi-tech/autopatt/pkg/textutil"
)

// Lines is a cleaned report: trimmed, unquoted, without empty lines.
// All layout offsets index into it.
type Lines []string

// CleanLines trims whitespace and trailing commas from every line, removes
// double quotes, and drops lines left empty.
func CleanLines(raw []string) Lines {
	cleaned := make(Lines, 0, len(raw))

	for _, line := range raw {
		line = strings.TrimRight(strings.TrimSpace(line), ",")
		line = strings.ReplaceAll(line, `"`, "")

		if line == "" {
			continue
		}

		cleaned = append(cleaned, line)
	}

	return cleaned
}

// ReadLines splits raw file content into lines and cleans them.
func ReadLines(data []byte) Lines {
	return CleanLines(textutil.SplitLines(data))
}

// find returns the index of the first line matching marker, or -1.
func (l Lines) find(marker string, mode MatchMode) int {
	for i, line := range l {
		if mode == MatchPrefix && strings.HasPrefix(line, marker) {
			return i
		}

		if mode == MatchExact && line == marker {
			return i
		}
	}

	return -1
}

// window returns lines[start:end] clamped to the slice bounds; an end before
// start yields an empty window.
func (l Lines) window(start, end int) Lines {
	start = max(start, 0)
	end = min(end, len(l))

	if end <= start {
		return Lines{}
	}

	return l[start:end]
}

// at returns the line at i and whether it exists.
func (l Lines) at(i int) (string, bool) {
	if i < 0 || i >= len(l) {
		return "", false
	}

	return l[i], true
}
