package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

func TestCleanLines(t *testing.T) {
	t.Parallel()

	got := report.CleanLines([]string{
		"  a,b,,  ",
		`"Word-initial","p",`,
		",,,,",
		"",
		"   ",
		",x",
	})

	assert.Equal(t, report.Lines{"a,b", "Word-initial,p", ",x"}, got)
}

func TestReadLines(t *testing.T) {
	t.Parallel()

	data := []byte("\xEF\xBB\xBFPHONETIC INVENTORY:,,\r\n,,\r\nrow,p\r\n")

	assert.Equal(t, report.Lines{"PHONETIC INVENTORY:", "row,p"}, report.ReadLines(data))
}

func TestLayoutFor(t *testing.T) {
	t.Parallel()

	current, err := report.LayoutFor(report.FormatCurrent)
	require.NoError(t, err)
	require.NotNil(t, current.Header)

	targets, ok := current.Spec(report.SectionTargets)
	require.True(t, ok)
	assert.True(t, targets.Optional)
	assert.Equal(t, report.MatchPrefix, targets.Match)

	legacy, err := report.LayoutFor(report.FormatLegacy)
	require.NoError(t, err)
	assert.Nil(t, legacy.Header)

	targets, ok = legacy.Spec(report.SectionTargets)
	require.True(t, ok)
	assert.False(t, targets.Optional)

	_, ok = legacy.Spec(report.SectionHeader)
	assert.False(t, ok)

	_, err = report.LayoutFor(report.Format(7))
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := report.ParseFormat("LEGACY")
	require.NoError(t, err)
	assert.Equal(t, report.FormatLegacy, f)

	f, err = report.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, report.FormatCurrent, f)

	_, err = report.ParseFormat("v2")
	require.ErrorIs(t, err, report.ErrUnknownFormat)

	text, err := report.FormatLegacy.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "legacy", string(text))
}
