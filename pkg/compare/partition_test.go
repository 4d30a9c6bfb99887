package compare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/autopatt/pkg/compare"
)

func TestPartition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		left  []string
		right []string
		want  compare.Result[string]
	}{
		{
			name:  "mixed",
			left:  []string{"p", "b", "t"},
			right: []string{"b", "t", "k"},
			want: compare.Result[string]{
				Overlap:     []string{"b", "t"},
				LeftUnique:  []string{"p"},
				RightUnique: []string{"k"},
			},
		},
		{
			name:  "both_empty",
			left:  nil,
			right: []string{},
			want: compare.Result[string]{
				Overlap:     []string{},
				LeftUnique:  []string{},
				RightUnique: []string{},
			},
		},
		{
			name:  "duplicates_collapse",
			left:  []string{"a", "a", "b"},
			right: []string{"a"},
			want: compare.Result[string]{
				Overlap:     []string{"a"},
				LeftUnique:  []string{"b"},
				RightUnique: []string{},
			},
		},
		{
			name:  "right_order_preserved",
			left:  []string{"x"},
			right: []string{"c", "a", "c", "b"},
			want: compare.Result[string]{
				Overlap:     []string{},
				LeftUnique:  []string{"x"},
				RightUnique: []string{"c", "a", "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := compare.Partition(tt.left, tt.right)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPartition_Symmetry(t *testing.T) {
	t.Parallel()

	left := []string{"p", "b", "t", "d"}
	right := []string{"t", "k", "p", "g"}

	ab := compare.Partition(left, right)
	ba := compare.Partition(right, left)

	assert.ElementsMatch(t, ab.Overlap, ba.Overlap)
	assert.Equal(t, ab.LeftUnique, ba.RightUnique)
	assert.Equal(t, ab.RightUnique, ba.LeftUnique)
}

func TestPartition_DisjointAndCovering(t *testing.T) {
	t.Parallel()

	left := []string{"a", "b", "c", "c", "e"}
	right := []string{"c", "d", "e", "f", "d"}

	res := compare.Partition(left, right)

	seen := map[string]int{}
	for _, part := range [][]string{res.Overlap, res.LeftUnique, res.RightUnique} {
		for _, v := range part {
			seen[v]++
		}
	}

	for v, n := range seen {
		assert.Equal(t, 1, n, v)
	}

	assert.Len(t, seen, 6)
}

func TestPartition_Self(t *testing.T) {
	t.Parallel()

	values := []int{3, 1, 2, 1}

	res := compare.Partition(values, values)

	assert.Equal(t, []int{3, 1, 2}, res.Overlap)
	assert.Empty(t, res.LeftUnique)
	assert.Empty(t, res.RightUnique)
	assert.False(t, res.Mismatch())
	assert.False(t, res.Empty())
}

func TestResult_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, compare.Partition[string](nil, nil).Empty())
	assert.True(t, compare.Partition([]string{"a"}, nil).Mismatch())
}

func TestPartitionText(t *testing.T) {
	t.Parallel()

	res := compare.PartitionText("a, b,c", "b,c ,d")

	assert.Equal(t, []string{"b", "c"}, res.Overlap)
	assert.Equal(t, []string{"a"}, res.LeftUnique)
	assert.Equal(t, []string{"d"}, res.RightUnique)
}

func TestPartitionText_DropsEmptyTokens(t *testing.T) {
	t.Parallel()

	res := compare.PartitionText("", "a,,b,")

	assert.Empty(t, res.Overlap)
	assert.Empty(t, res.LeftUnique)
	assert.Equal(t, []string{"a", "b"}, res.RightUnique)
}
