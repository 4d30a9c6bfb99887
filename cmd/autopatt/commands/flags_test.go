package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/autopatt/internal/config"
	"github.com/Sumatoshi-tech/autopatt/pkg/export"
	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

func TestParseFlags_OnlyChangedFlagsOverride(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{}

	var pf parseFlags
	registerParseFlags(cmd, &pf)

	require.NoError(t, cmd.Flags().Set("legacy", "true"))

	cfg := &config.Config{Format: "current", Robust: true}
	pf.apply(cmd, cfg)

	assert.Equal(t, "legacy", cfg.Format)
	assert.True(t, cfg.Robust)
}

func TestCompareFlags_Resolve(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Compare: config.CompareConfig{Fields: []string{"targets"}, LeftLabel: "manual", RightLabel: "AUTO"},
		Output:  config.OutputConfig{Format: "yaml", Table: "wider"},
	}

	cf := compareFlags{fields: []string{"phonetic clusters"}, rightLabel: "v2"}

	fields, format, labels, err := cf.resolve(cfg)
	require.NoError(t, err)

	assert.Equal(t, []report.Field{report.FieldPhoneticInventory, report.FieldClusterInventory}, fields)
	assert.Equal(t, export.FormatYAML, format)
	assert.Equal(t, export.Labels{Left: "manual", Right: "v2"}, labels)

	kind, err := cf.tableKind(cfg)
	require.NoError(t, err)
	assert.Equal(t, export.TableWider, kind)
}

func TestCompareFlags_UnknownField(t *testing.T) {
	t.Parallel()

	cf := compareFlags{fields: []string{"vowels"}}

	_, _, _, err := cf.resolve(&config.Config{})
	require.ErrorIs(t, err, report.ErrUnknownField)
}
