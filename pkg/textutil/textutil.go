// Package textutil provides byte-level text utilities for report input:
// binary detection, BOM stripping, and newline-aware line splitting.
package textutil

import (
	"bytes"
	"strings"
)

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// utf8BOM is the byte order mark some spreadsheet tools prepend to CSV exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// TrimBOM strips a leading UTF-8 byte order mark.
func TrimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// SplitLines splits data into lines on "\n", dropping a trailing "\r" from
// each line and a leading BOM from the first. A trailing newline does not
// produce an extra empty line.
func SplitLines(data []byte) []string {
	data = TrimBOM(data)
	if len(data) == 0 {
		return nil
	}

	text := strings.TrimSuffix(string(data), "\n")
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}
