package config

import (
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/autopatt/pkg/export"
	"github.com/Sumatoshi-tech/autopatt/pkg/importer"
	"github.com/Sumatoshi-tech/autopatt/pkg/observability"
	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

// ParseOptions returns the report parse options.
func (c *Config) ParseOptions() (report.Options, error) {
	format, err := report.ParseFormat(c.Format)
	if err != nil {
		return report.Options{}, fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format)
	}

	return report.Options{
		Format:        format,
		Robust:        c.Robust,
		Substitutions: c.Substitutions,
		NFC:           c.NFC,
	}, nil
}

// MaxFileSize parses import.max_file_size into bytes.
func (c *Config) MaxFileSize() (int64, error) {
	size, err := importer.ParseMaxFileSize(c.Import.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidMaxFileSize, err)
	}

	return size, nil
}

// KeyParts compiles the participant, phase and language patterns.
func (c *Config) KeyParts() (importer.KeyParts, error) {
	parts, err := importer.CompileKeyParts(c.Keys.Participant, c.Keys.Phase, c.Keys.Language)
	if err != nil {
		return importer.KeyParts{}, fmt.Errorf("%w: %w", ErrInvalidKeyPattern, err)
	}

	return parts, nil
}

// ImportOptions assembles importer options from the parse, import and keys
// sections.
func (c *Config) ImportOptions(logger *slog.Logger, metrics *observability.ImportMetrics) (importer.Options, error) {
	parseOpts, err := c.ParseOptions()
	if err != nil {
		return importer.Options{}, err
	}

	size, err := c.MaxFileSize()
	if err != nil {
		return importer.Options{}, err
	}

	opts := importer.Options{
		Parse:       parseOpts,
		Extensions:  c.Import.Extensions,
		MaxFileSize: size,
		Repair:      c.Import.Repair,
		Logger:      logger,
		Metrics:     metrics,
	}

	if c.Keys.Mode == KeyModePattern {
		parts, partsErr := c.KeyParts()
		if partsErr != nil {
			return importer.Options{}, partsErr
		}

		opts.KeyFunc = importer.PatternKeys(parts)
	}

	return opts, nil
}

// CompareFields resolves compare.fields. Empty means the default field set.
func (c *Config) CompareFields() ([]report.Field, error) {
	if len(c.Compare.Fields) == 0 {
		return report.DefaultCompareFields(), nil
	}

	fields, err := report.ParseFields(c.Compare.Fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCompareField, err)
	}

	return fields, nil
}

// Labels returns the comparison side labels.
func (c *Config) Labels() export.Labels {
	if c.Compare.LeftLabel == "" || c.Compare.RightLabel == "" {
		return export.DefaultLabels()
	}

	return export.Labels{Left: c.Compare.LeftLabel, Right: c.Compare.RightLabel}
}

// ObservabilityConfig maps the logging and observability sections onto an
// observability.Config.
func (c *Config) ObservabilityConfig(version string) (observability.Config, error) {
	level, err := c.LogLevel()
	if err != nil {
		return observability.Config{}, err
	}

	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version
	cfg.Environment = c.Observability.Environment
	cfg.OTLPEndpoint = c.Observability.OTLPEndpoint
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Observability.OTLPHeaders)
	cfg.OTLPInsecure = c.Observability.OTLPInsecure
	cfg.SampleRatio = c.Observability.SampleRatio
	cfg.MetricsFile = c.Observability.MetricsFile
	cfg.LogLevel = level
	cfg.LogJSON = c.Logging.JSON

	if cfg.MetricsFile != "" {
		cfg.Mode = observability.ModeBatch
	}

	return cfg, nil
}
