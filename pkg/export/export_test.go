package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/autopatt/pkg/compare"
	"github.com/Sumatoshi-tech/autopatt/pkg/export"
	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

func sampleMatrix() compare.Matrix {
	return compare.Matrix{
		report.FieldPhoneticInventory: {
			"S101": compare.Partition([]string{"p", "b"}, []string{"p", "k"}),
			"S102": compare.Partition([]string{"t"}, []string{"t"}),
		},
		report.FieldTargets: {
			"S101": compare.Partition([]string{"s"}, []string{"s"}),
			"S102": compare.Partition([]string{"ɾ"}, nil),
		},
	}
}

func render(t *testing.T, kind export.TableKind, format export.Format) string {
	t.Helper()

	tbl, err := export.MatrixTable(sampleMatrix(), kind, export.DefaultLabels())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.Render(&buf, tbl, format))

	return buf.String()
}

func TestMatrixTable_Results(t *testing.T) {
	t.Parallel()

	out := render(t, export.TableResults, export.FormatCSV)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "field,S101,S102", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "phonetic_inventory,"))
	assert.Contains(t, lines[1], "overlap: p; L unique: b; R unique: k")
	assert.True(t, strings.HasPrefix(lines[2], "targets,"))
}

func TestMatrixTable_TextKeepsHeaderCase(t *testing.T) {
	t.Parallel()

	m := compare.Matrix{
		report.FieldTargets: {
			"S101_Spanish": compare.Partition([]string{"s"}, []string{"z"}),
		},
	}

	tbl, err := export.MatrixTable(m, export.TableResults, export.DefaultLabels())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.Render(&buf, tbl, export.FormatText))

	out := buf.String()
	assert.Contains(t, out, "S101_Spanish")
	assert.Contains(t, out, "field")
	assert.NotContains(t, out, "S101_SPANISH")
}

func TestMatrixTable_Mismatch(t *testing.T) {
	t.Parallel()

	out := render(t, export.TableMismatch, export.FormatCSV)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "phonetic_inventory,L unique: b; R unique: k,", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "targets,,L unique: ɾ; R unique:"))
}

func TestMatrixTable_Wider(t *testing.T) {
	t.Parallel()

	out := render(t, export.TableWider, export.FormatCSV)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	require.Len(t, lines, 7)
	assert.Equal(t, "phonetic_inventory,p,t", lines[1])
	assert.Equal(t, "phonetic_inventory L unique,b,", lines[2])
	assert.Equal(t, "phonetic_inventory R unique,k,", lines[3])
	assert.Equal(t, "targets L unique,,ɾ", lines[5])
}

func TestRender_Formats(t *testing.T) {
	t.Parallel()

	assert.Contains(t, render(t, export.TableResults, export.FormatText), "S101")
	assert.Contains(t, render(t, export.TableResults, export.FormatMarkdown), "S101 |")
	assert.Contains(t, render(t, export.TableResults, export.FormatHTML), "<table")

	tbl, err := export.MatrixTable(sampleMatrix(), export.TableResults, export.DefaultLabels())
	require.NoError(t, err)

	err = export.Render(&bytes.Buffer{}, tbl, export.FormatJSON)
	require.ErrorIs(t, err, export.ErrUnsupportedFormat)
}

func TestParseTableKind(t *testing.T) {
	t.Parallel()

	kind, err := export.ParseTableKind("Wider")
	require.NoError(t, err)
	assert.Equal(t, export.TableWider, kind)

	kind, err = export.ParseTableKind("")
	require.NoError(t, err)
	assert.Equal(t, export.TableResults, kind)

	_, err = export.ParseTableKind("long")
	require.ErrorIs(t, err, export.ErrUnknownTableKind)

	assert.Equal(t, export.FormatMarkdown, export.ParseFormat("md"))
	assert.Equal(t, export.FormatText, export.ParseFormat(""))
}

func TestCustomLabels(t *testing.T) {
	t.Parallel()

	labels := export.Labels{Left: "manual", Right: "AUTO"}

	tbl, err := export.MatrixTable(sampleMatrix(), export.TableWider, labels)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.Render(&buf, tbl, export.FormatCSV))
	assert.Contains(t, buf.String(), "targets AUTO unique")
	assert.Contains(t, buf.String(), "phonetic_inventory manual unique,b,")
}

func TestMatrixDocument_JSON(t *testing.T) {
	t.Parallel()

	doc := export.NewMatrixDocument(sampleMatrix(), []string{"S103"}, nil)

	var buf bytes.Buffer
	require.NoError(t, export.WriteDocument(&buf, doc, export.FormatJSON))

	var decoded struct {
		Fields   map[string]map[string]compare.Result[string] `json:"fields"`
		LeftOnly []string                                     `json:"left_only"`
	}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"b"}, decoded.Fields["phonetic_inventory"]["S101"].LeftUnique)
	assert.Equal(t, []string{"S103"}, decoded.LeftOnly)
	assert.NotContains(t, buf.String(), "right_only")
}

func TestMatrixDocument_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, export.WriteDocument(&buf, export.NewMatrixDocument(sampleMatrix(), nil, nil), export.FormatYAML))

	var decoded map[string]map[string]map[string]map[string][]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, []string{"ɾ"}, decoded["fields"]["targets"]["S102"]["left_unique"])
}

func TestWriteDocument_Record(t *testing.T) {
	t.Parallel()

	rec, err := report.ParseFile("../report/testdata/current.csv", report.Options{}, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteDocument(&buf, rec, export.FormatYAML))
	assert.Contains(t, buf.String(), "format: current")
	assert.Contains(t, buf.String(), "total_record_count: 50")

	err = export.WriteDocument(&buf, rec, export.FormatCSV)
	require.ErrorIs(t, err, export.ErrUnsupportedFormat)
}

func TestRecordTable(t *testing.T) {
	t.Parallel()

	rec, err := report.ParseFile("../report/testdata/current.csv", report.Options{}, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.Render(&buf, export.RecordTable(rec), export.FormatCSV))

	out := buf.String()
	assert.Contains(t, out, "phonetic_inventory,p b t d k")
	assert.Contains(t, out, "language,Spanish")
	assert.Contains(t, out, "sessions,S101_Pre S101_Pre_b")
}

func TestWriteResultAndDiff(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	res := compare.Partition([]string{"p", "b"}, []string{"b", "k"})
	require.NoError(t, export.WriteResult(&buf, "phonetic_inventory", res, export.DefaultLabels()))

	out := buf.String()
	assert.Contains(t, out, "overlap")
	assert.Contains(t, out, "b")
	assert.Contains(t, out, "L unique")

	buf.Reset()
	require.NoError(t, export.WriteDiff(&buf, "targets", compare.LineDiff([]string{"a"}, []string{"b"})))
	assert.Contains(t, buf.String(), "- a")
	assert.Contains(t, buf.String(), "+ b")
}

func TestWriteChart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, export.WriteChart(&buf, sampleMatrix(), "Validation", export.DefaultLabels()))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Validation")
	assert.Contains(t, out, "phonetic_inventory")
	assert.Contains(t, out, "S101")
}
