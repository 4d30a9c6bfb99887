package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/autopatt/internal/config"
	"github.com/Sumatoshi-tech/autopatt/pkg/export"
	"github.com/Sumatoshi-tech/autopatt/pkg/observability"
	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

func validConfig() config.Config {
	return config.Config{
		Format: "current",
		Import: config.ImportConfig{
			Extensions:  []string{".csv"},
			MaxFileSize: "1MB",
		},
		Keys: config.KeysConfig{
			Mode:        config.KeyModeName,
			Participant: config.DefaultKeysParticipant,
			Phase:       config.DefaultKeysPhase,
			Language:    config.DefaultKeysLanguage,
		},
		Compare: config.CompareConfig{
			Fields:     []string{"targets"},
			LeftLabel:  "L",
			RightLabel: "R",
		},
		Output:  config.OutputConfig{Format: "json", Table: "mismatch"},
		Logging: config.LoggingConfig{Level: "debug"},
	}
}

func TestValidate_ValidConfig_NoError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_ZeroConfig_NoError(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	require.NoError(t, cfg.Validate())
}

func TestValidate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"format", func(c *config.Config) { c.Format = "v2" }, config.ErrInvalidFormat},
		{"substitution", func(c *config.Config) { c.Substitutions = []report.Substitution{{To: "x"}} }, config.ErrInvalidSubstitution},
		{"extension", func(c *config.Config) { c.Import.Extensions = []string{"csv"} }, config.ErrInvalidExtension},
		{"max file size", func(c *config.Config) { c.Import.MaxFileSize = "lots" }, config.ErrInvalidMaxFileSize},
		{"key mode", func(c *config.Config) { c.Keys.Mode = "hash" }, config.ErrInvalidKeyMode},
		{"key pattern", func(c *config.Config) { c.Keys.Phase = "(" }, config.ErrInvalidKeyPattern},
		{"field", func(c *config.Config) { c.Compare.Fields = []string{"vowels"} }, config.ErrInvalidCompareField},
		{"label", func(c *config.Config) { c.Compare.RightLabel = "" }, config.ErrInvalidLabel},
		{"output format", func(c *config.Config) { c.Output.Format = "pdf" }, config.ErrInvalidOutputFormat},
		{"table", func(c *config.Config) { c.Output.Table = "long" }, config.ErrInvalidTable},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, config.ErrInvalidLogLevel},
		{"sample ratio", func(c *config.Config) { c.Observability.SampleRatio = 2 }, config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestParseOptions(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Format = "legacy"
	cfg.Robust = true

	opts, err := cfg.ParseOptions()
	require.NoError(t, err)

	assert.Equal(t, report.FormatLegacy, opts.Format)
	assert.True(t, opts.Robust)
}

func TestImportOptions_PatternKeys(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Keys.Mode = config.KeyModePattern

	opts, err := cfg.ImportOptions(slog.Default(), nil)
	require.NoError(t, err)
	require.NotNil(t, opts.KeyFunc)
	assert.Equal(t, int64(1000000), opts.MaxFileSize)

	key, err := opts.KeyFunc("/data/S101_Pre_Spanish_final.csv")
	require.NoError(t, err)
	assert.Equal(t, "S101_Pre_Spanish", key)
}

func TestImportOptions_NameKeys(t *testing.T) {
	t.Parallel()

	cfg := validConfig()

	opts, err := cfg.ImportOptions(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, opts.KeyFunc)
}

func TestLabels_FallbackToDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	assert.Equal(t, export.DefaultLabels(), cfg.Labels())
}

func TestObservabilityConfig(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Logging.JSON = true
	cfg.Observability.OTLPHeaders = "a=1,b=2"
	cfg.Observability.MetricsFile = "/tmp/m.prom"

	obs, err := cfg.ObservabilityConfig("1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", obs.ServiceVersion)
	assert.Equal(t, slog.LevelDebug, obs.LogLevel)
	assert.True(t, obs.LogJSON)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, obs.OTLPHeaders)
	assert.Equal(t, observability.ModeBatch, obs.Mode)
}
