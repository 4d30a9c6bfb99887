package report

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by MalformedReportError and returned by the
// field and format lookups.
var (
	// ErrMissingAnchor indicates a required section marker line was not found.
	ErrMissingAnchor = errors.New("section anchor not found")
	// ErrTruncated indicates a section points past the end of the report.
	ErrTruncated = errors.New("section extends past end of report")
	// ErrBadValue indicates a scalar field could not be converted.
	ErrBadValue = errors.New("invalid value")
	// ErrUnknownField indicates a field name that does not map to a Field.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownFormat indicates a format name that does not map to a Format.
	ErrUnknownFormat = errors.New("unknown report format")
	// ErrFileTooLarge indicates a report file above the configured size cap.
	ErrFileTooLarge = errors.New("report file too large")
	// ErrBinaryFile indicates a file that is not text.
	ErrBinaryFile = errors.New("report file is binary")
)

// MalformedReportError reports a section that could not be located or
// extracted. It is not recoverable by the parser; batch callers usually
// record it and move on to the next file.
type MalformedReportError struct {
	Identifier string
	Section    Section
	Marker     string
	// Line is the index into the cleaned line sequence, or -1 when unknown.
	Line int
	Err  error
}

// Error implements error.
func (e *MalformedReportError) Error() string {
	msg := fmt.Sprintf("malformed report %q: section %s", e.Identifier, e.Section)

	if e.Marker != "" {
		msg += fmt.Sprintf(" (marker %q)", e.Marker)
	}

	if e.Line >= 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}

	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *MalformedReportError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError is returned by strict accessors when a field only
// exists in the current format but the record was parsed as legacy.
type UnsupportedFormatError struct {
	Identifier string
	Field      Field
	Format     Format
}

// Error implements error.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("field %s is not available in %s report %q", e.Field, e.Format, e.Identifier)
}

func malformed(id string, sect SectionSpec, line int, err error) *MalformedReportError {
	return &MalformedReportError{
		Identifier: id,
		Section:    sect.Section,
		Marker:     sect.Marker,
		Line:       line,
		Err:        err,
	}
}
