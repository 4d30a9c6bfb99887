// Package compare partitions two lists, two records or two batches of
// records into overlapping and unique elements.
package compare

import (
	"strings"
)

// Result is a three-way partition of two inputs. The slices are pairwise
// disjoint and never nil. Overlap and LeftUnique follow the left input's
// first-occurrence order; RightUnique follows the right input's.
type Result[T comparable] struct {
	Overlap     []T `json:"overlap"      yaml:"overlap"`
	LeftUnique  []T `json:"left_unique"  yaml:"left_unique"`
	RightUnique []T `json:"right_unique" yaml:"right_unique"`
}

// Empty reports whether both inputs were empty.
func (r Result[T]) Empty() bool {
	return len(r.Overlap) == 0 && len(r.LeftUnique) == 0 && len(r.RightUnique) == 0
}

// Mismatch reports whether either side holds an element the other lacks.
func (r Result[T]) Mismatch() bool {
	return len(r.LeftUnique) > 0 || len(r.RightUnique) > 0
}

// Partition splits left and right into overlap, left-only and right-only
// elements. Duplicates collapse to a single membership.
func Partition[T comparable](left, right []T) Result[T] {
	inLeft := make(map[T]struct{}, len(left))
	inRight := make(map[T]struct{}, len(right))

	for _, v := range left {
		inLeft[v] = struct{}{}
	}

	for _, v := range right {
		inRight[v] = struct{}{}
	}

	res := Result[T]{
		Overlap:     make([]T, 0),
		LeftUnique:  make([]T, 0),
		RightUnique: make([]T, 0),
	}

	seen := make(map[T]struct{}, len(left))

	for _, v := range left {
		if _, dup := seen[v]; dup {
			continue
		}

		seen[v] = struct{}{}

		if _, ok := inRight[v]; ok {
			res.Overlap = append(res.Overlap, v)
		} else {
			res.LeftUnique = append(res.LeftUnique, v)
		}
	}

	clear(seen)

	for _, v := range right {
		if _, dup := seen[v]; dup {
			continue
		}

		seen[v] = struct{}{}

		if _, ok := inLeft[v]; !ok {
			res.RightUnique = append(res.RightUnique, v)
		}
	}

	return res
}

// PartitionText partitions two comma-delimited strings. Spaces are removed
// before splitting and empty tokens are dropped, so "a, b" and "a,b,"
// tokenize the same way.
func PartitionText(left, right string) Result[string] {
	return Partition(tokenize(left), tokenize(right))
}

func tokenize(s string) []string {
	parts := strings.Split(strings.ReplaceAll(s, " ", ""), ",")
	tokens := make([]string, 0, len(parts))

	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}

	return tokens
}
