// Package export renders records and comparison matrices as tables,
// structured documents and HTML charts.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/autopatt/pkg/compare"
	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

// TableKind selects the matrix layout.
type TableKind string

// Matrix layouts.
const (
	// TableResults has one row per field and one column per key; each cell
	// holds the full partition.
	TableResults TableKind = "results"
	// TableMismatch is TableResults with matching cells left blank.
	TableMismatch TableKind = "mismatch"
	// TableWider has three rows per field: overlap, left-only and right-only.
	TableWider TableKind = "wider"
)

// Format selects an output encoding.
type Format string

// Output formats. Not every writer supports every format.
const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatDiff     Format = "diff"
)

const (
	valueSeparator = " "
	partSeparator  = "; "
	overlapLabel   = "overlap"
	uniqueSuffix   = " unique"
	fieldHeader    = "field"
)

var (
	// ErrUnknownTableKind is returned for a table layout name that does not exist.
	ErrUnknownTableKind = errors.New("unknown table kind")
	// ErrUnsupportedFormat is returned when a writer cannot produce the requested format.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Labels names the two sides of a comparison.
type Labels struct {
	Left  string
	Right string
}

// DefaultLabels returns "L" and "R".
func DefaultLabels() Labels {
	return Labels{Left: "L", Right: "R"}
}

// LeftOnly returns the row or part label for left-unique elements.
func (l Labels) LeftOnly() string {
	return l.Left + uniqueSuffix
}

// RightOnly returns the row or part label for right-unique elements.
func (l Labels) RightOnly() string {
	return l.Right + uniqueSuffix
}

// ParseTableKind validates a table layout name.
func ParseTableKind(name string) (TableKind, error) {
	switch kind := TableKind(strings.ToLower(strings.TrimSpace(name))); kind {
	case TableResults, TableMismatch, TableWider:
		return kind, nil
	case "":
		return TableResults, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTableKind, name)
	}
}

// ParseFormat normalizes an output format name. Validation against a
// particular writer happens at write time.
func ParseFormat(name string) Format {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if f == "md" {
		return FormatMarkdown
	}

	if f == "" {
		return FormatText
	}

	return f
}

// NewTable returns a light-style table whose header cells keep their case,
// so record keys such as S101_Spanish render as written.
func NewTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Header = text.FormatDefault

	return tbl
}

// MatrixTable lays out m as a table of the given kind. Columns are the
// sorted record keys; rows follow report field order.
func MatrixTable(m compare.Matrix, kind TableKind, labels Labels) (table.Writer, error) {
	keys := m.Keys()

	header := table.Row{fieldHeader}
	for _, k := range keys {
		header = append(header, k)
	}

	tbl := NewTable()
	tbl.AppendHeader(header)

	for _, f := range m.Fields() {
		byKey := m[f]

		switch kind {
		case TableResults, TableMismatch:
			row := table.Row{f.String()}

			for _, k := range keys {
				res, ok := byKey[k]

				switch {
				case !ok:
					row = append(row, "")
				case kind == TableMismatch && !res.Mismatch():
					row = append(row, "")
				case kind == TableMismatch:
					row = append(row, mismatchText(res, labels))
				default:
					row = append(row, resultText(res, labels))
				}
			}

			tbl.AppendRow(row)
		case TableWider:
			appendWiderRows(tbl, f, byKey, keys, labels)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownTableKind, kind)
		}
	}

	return tbl, nil
}

func appendWiderRows(tbl table.Writer, f report.Field, byKey map[string]compare.Result[string], keys []string, labels Labels) {
	overlap := table.Row{f.String()}
	leftOnly := table.Row{f.String() + " " + labels.LeftOnly()}
	rightOnly := table.Row{f.String() + " " + labels.RightOnly()}

	for _, k := range keys {
		res := byKey[k]

		overlap = append(overlap, strings.Join(res.Overlap, valueSeparator))
		leftOnly = append(leftOnly, strings.Join(res.LeftUnique, valueSeparator))
		rightOnly = append(rightOnly, strings.Join(res.RightUnique, valueSeparator))
	}

	tbl.AppendRows([]table.Row{overlap, leftOnly, rightOnly})
}

func resultText(res compare.Result[string], labels Labels) string {
	return strings.Join([]string{
		overlapLabel + ": " + strings.Join(res.Overlap, valueSeparator),
		labels.LeftOnly() + ": " + strings.Join(res.LeftUnique, valueSeparator),
		labels.RightOnly() + ": " + strings.Join(res.RightUnique, valueSeparator),
	}, partSeparator)
}

func mismatchText(res compare.Result[string], labels Labels) string {
	return strings.Join([]string{
		labels.LeftOnly() + ": " + strings.Join(res.LeftUnique, valueSeparator),
		labels.RightOnly() + ": " + strings.Join(res.RightUnique, valueSeparator),
	}, partSeparator)
}

// Render writes tbl to w in a tabular format.
func Render(w io.Writer, tbl table.Writer, format Format) error {
	var out string

	switch format {
	case FormatText, "":
		out = tbl.Render()
	case FormatCSV:
		out = tbl.RenderCSV()
	case FormatMarkdown:
		out = tbl.RenderMarkdown()
	case FormatHTML:
		out = tbl.RenderHTML()
	case FormatJSON, FormatYAML, FormatDiff:
		return fmt.Errorf("%w: %s for tables", ErrUnsupportedFormat, format)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	_, err := io.WriteString(w, out+"\n")
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}

// RecordTable lists every populated field of rec, one row per field.
func RecordTable(rec *report.Record) table.Writer {
	tbl := NewTable()
	tbl.SetTitle(rec.Identifier)
	tbl.AppendHeader(table.Row{fieldHeader, "values"})

	if rec.Header != nil {
		tbl.AppendRows([]table.Row{
			{"version", rec.Header.Version},
			{"language", rec.Header.Language},
			{"analysis", strings.TrimSpace(rec.Header.AnalysisDate + " " + rec.Header.AnalysisTime)},
			{"total_record_count", rec.Header.TotalRecordCount},
		})
	}

	for _, f := range report.AllFields() {
		values := rec.Values(f)
		if values == nil {
			continue
		}

		sep := valueSeparator
		if f == report.FieldMinimalPairs {
			sep = partSeparator
		}

		tbl.AppendRow(table.Row{f.String(), strings.Join(values, sep)})
	}

	return tbl
}
