package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

func TestParse_Robust(t *testing.T) {
	t.Parallel()

	rec, err := report.Parse("x", readFixture(t, fixtureCurrent), report.Options{Robust: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"p", "b", "t", "ɡ"}, rec.PhonemicInventory)
	assert.Equal(t, []string{"pl", "ɡr"}, rec.ClusterInventory)
	assert.Equal(t, []string{"p", "b", "t", "d", "k"}, rec.PhoneticInventory)
}

func TestNormalize_PreservesOrderAndLength(t *testing.T) {
	t.Parallel()

	rec := &report.Record{
		PhoneticInventory: []string{"g", "a", "gg", "g"},
		MinimalPairs:      [][]string{{"g - k", "gato", "kato"}},
		Targets:           nil,
	}

	report.Normalize(rec, report.DefaultSubstitutions())

	assert.Equal(t, []string{"ɡ", "a", "ɡɡ", "ɡ"}, rec.PhoneticInventory)
	assert.Equal(t, [][]string{{"ɡ - k", "ɡato", "kato"}}, rec.MinimalPairs)
	assert.Nil(t, rec.Targets)
}

func TestNormalize_CustomSubstitutions(t *testing.T) {
	t.Parallel()

	rec := &report.Record{MonitoredPhones: []string{"r", ":"}}

	report.Normalize(rec, []report.Substitution{{From: "r", To: "ɾ"}, {From: ":", To: "ː"}, {From: "", To: "x"}})

	assert.Equal(t, []string{"ɾ", "ː"}, rec.MonitoredPhones)
}

func TestNormalize_NilRecord(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		report.Normalize(nil, report.DefaultSubstitutions())
		report.NormalizeNFC(nil)
	})
}

func TestNormalizeNFC(t *testing.T) {
	t.Parallel()

	// "e" followed by a combining acute accent.
	rec := &report.Record{PhonemicInventory: []string{"e\u0301"}}

	report.NormalizeNFC(rec)

	assert.Equal(t, []string{"\u00e9"}, rec.PhonemicInventory)
}
