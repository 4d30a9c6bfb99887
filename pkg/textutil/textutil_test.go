package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBinary_EmptyData(t *testing.T) {
	t.Parallel()

	assert.False(t, IsBinary(nil))
	assert.False(t, IsBinary([]byte{}))
}

func TestIsBinary_ReportText(t *testing.T) {
	t.Parallel()

	assert.False(t, IsBinary([]byte("PHONETIC INVENTORY:,,,\nWord-initial,p,b\n")))
}

func TestIsBinary_NullByte(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBinary([]byte("PK\x03\x04\x00\x00")))
}

func TestIsBinary_NullBeyondSniffBoundary(t *testing.T) {
	t.Parallel()

	data := make([]byte, BinarySniffLength+100)
	for i := range data {
		data[i] = 'a'
	}

	data[BinarySniffLength+50] = 0x00

	assert.False(t, IsBinary(data))
}

func TestTrimBOM(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte("abc"), TrimBOM([]byte("\xEF\xBB\xBFabc")))
	assert.Equal(t, []byte("abc"), TrimBOM([]byte("abc")))
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "unix", input: "a\nb\n", want: []string{"a", "b"}},
		{name: "windows", input: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "no_trailing_newline", input: "a\n\nb", want: []string{"a", "", "b"}},
		{name: "bom", input: "\xEF\xBB\xBFa,b\n", want: []string{"a,b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, SplitLines([]byte(tt.input)))
		})
	}
}
