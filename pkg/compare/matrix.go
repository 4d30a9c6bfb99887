package compare

import (
	"maps"
	"slices"

	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

// Matrix holds batch comparison results: field -> record key -> result.
type Matrix map[report.Field]map[string]Result[string]

// Fields returns the fields present in the matrix in declaration order.
func (m Matrix) Fields() []report.Field {
	fields := slices.Collect(maps.Keys(m))
	slices.Sort(fields)

	return fields
}

// Keys returns the sorted union of record keys across all fields.
func (m Matrix) Keys() []string {
	set := make(map[string]struct{})

	for _, byKey := range m {
		for key := range byKey {
			set[key] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(set))
}

// Mismatches counts the cells whose result has unique elements on either side.
func (m Matrix) Mismatches() int {
	n := 0

	for _, byKey := range m {
		for _, res := range byKey {
			if res.Mismatch() {
				n++
			}
		}
	}

	return n
}

// CompareRecords partitions one field of two records.
func CompareRecords(left, right *report.Record, f report.Field) Result[string] {
	return Partition(left.Values(f), right.Values(f))
}

// CompareAll compares every field for every key present in both maps. Keys
// present on one side only are left out; see UnmatchedKeys.
func CompareAll(left, right map[string]*report.Record, fields []report.Field) Matrix {
	m := make(Matrix, len(fields))

	for _, f := range fields {
		byKey := make(map[string]Result[string])

		for key, l := range left {
			r, ok := right[key]
			if !ok {
				continue
			}

			byKey[key] = CompareRecords(l, r, f)
		}

		m[f] = byKey
	}

	return m
}

// UnmatchedKeys returns the sorted keys present in only one of the maps.
func UnmatchedKeys(left, right map[string]*report.Record) (leftOnly, rightOnly []string) {
	res := Partition(slices.Sorted(maps.Keys(left)), slices.Sorted(maps.Keys(right)))

	return res.LeftUnique, res.RightUnique
}
