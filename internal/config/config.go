// Package config loads autopatt settings from a YAML file, AUTOPATT_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/autopatt/pkg/export"
	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

// Config is the top-level configuration struct for autopatt.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Format        string                `mapstructure:"format"`
	Robust        bool                  `mapstructure:"robust"`
	NFC           bool                  `mapstructure:"nfc"`
	Substitutions []report.Substitution `mapstructure:"substitutions"`

	Import        ImportConfig        `mapstructure:"import"`
	Keys          KeysConfig          `mapstructure:"keys"`
	Compare       CompareConfig       `mapstructure:"compare"`
	Output        OutputConfig        `mapstructure:"output"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ImportConfig holds directory import settings.
type ImportConfig struct {
	Extensions  []string `mapstructure:"extensions"`
	MaxFileSize string   `mapstructure:"max_file_size"`
	Repair      bool     `mapstructure:"repair"`
}

// KeysConfig holds record keying settings.
type KeysConfig struct {
	// Mode is KeyModeName or KeyModePattern.
	Mode        string `mapstructure:"mode"`
	Participant string `mapstructure:"participant"`
	Phase       string `mapstructure:"phase"`
	Language    string `mapstructure:"language"`
}

// CompareConfig holds comparison settings.
type CompareConfig struct {
	Fields     []string `mapstructure:"fields"`
	LeftLabel  string   `mapstructure:"left_label"`
	RightLabel string   `mapstructure:"right_label"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Table  string `mapstructure:"table"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ObservabilityConfig holds OpenTelemetry export settings.
type ObservabilityConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Environment  string  `mapstructure:"environment"`
	MetricsFile  string  `mapstructure:"metrics_file"`
}

// Record keying modes.
const (
	KeyModeName    = "name"
	KeyModePattern = "pattern"
)

// sampleRatioMax is the upper bound for the trace sampling ratio.
const sampleRatioMax = 1.0

// Sentinel errors for configuration validation.
var (
	// ErrInvalidFormat indicates an unknown report format.
	ErrInvalidFormat = errors.New("format must be current or legacy")
	// ErrInvalidSubstitution indicates a substitution with an empty source.
	ErrInvalidSubstitution = errors.New("substitutions[].from must be non-empty")
	// ErrInvalidExtension indicates an import extension without a leading dot.
	ErrInvalidExtension = errors.New("import.extensions entries must start with a dot")
	// ErrInvalidMaxFileSize indicates an unparsable size.
	ErrInvalidMaxFileSize = errors.New("import.max_file_size must be a byte size such as 1MB")
	// ErrInvalidKeyMode indicates an unknown keying mode.
	ErrInvalidKeyMode = errors.New("keys.mode must be name or pattern")
	// ErrInvalidKeyPattern indicates a key pattern that does not compile.
	ErrInvalidKeyPattern = errors.New("keys patterns must be valid regular expressions")
	// ErrInvalidCompareField indicates an unknown field name.
	ErrInvalidCompareField = errors.New("compare.fields contains an unknown field")
	// ErrInvalidLabel indicates an empty comparison side label.
	ErrInvalidLabel = errors.New("compare labels must be non-empty")
	// ErrInvalidOutputFormat indicates an unknown output format.
	ErrInvalidOutputFormat = errors.New("output.format must be text, csv, markdown, html, json, yaml or diff")
	// ErrInvalidTable indicates an unknown table layout.
	ErrInvalidTable = errors.New("output.table must be results, mismatch or wider")
	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrInvalidSampleRatio indicates a sampling ratio out of range.
	ErrInvalidSampleRatio = errors.New("observability.sample_ratio must be between 0 and 1")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	reportErr := c.validateReport()
	if reportErr != nil {
		return reportErr
	}

	importErr := c.validateImport()
	if importErr != nil {
		return importErr
	}

	compareErr := c.validateCompare()
	if compareErr != nil {
		return compareErr
	}

	return c.validateOutput()
}

func (c *Config) validateReport() error {
	_, err := report.ParseFormat(c.Format)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format)
	}

	for _, s := range c.Substitutions {
		if s.From == "" {
			return ErrInvalidSubstitution
		}
	}

	return nil
}

func (c *Config) validateImport() error {
	for _, ext := range c.Import.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
	}

	_, sizeErr := c.MaxFileSize()
	if sizeErr != nil {
		return sizeErr
	}

	switch c.Keys.Mode {
	case "", KeyModeName, KeyModePattern:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKeyMode, c.Keys.Mode)
	}

	for _, pattern := range []string{c.Keys.Participant, c.Keys.Phase, c.Keys.Language} {
		_, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidKeyPattern, err)
		}
	}

	return nil
}

func (c *Config) validateCompare() error {
	_, err := report.ParseFields(c.Compare.Fields)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCompareField, err)
	}

	if c.Compare.LeftLabel == "" && c.Compare.RightLabel != "" ||
		c.Compare.RightLabel == "" && c.Compare.LeftLabel != "" {
		return ErrInvalidLabel
	}

	return nil
}

func (c *Config) validateOutput() error {
	switch export.ParseFormat(c.Output.Format) {
	case export.FormatText, export.FormatCSV, export.FormatMarkdown, export.FormatHTML,
		export.FormatJSON, export.FormatYAML, export.FormatDiff:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, c.Output.Format)
	}

	_, tableErr := export.ParseTableKind(c.Output.Table)
	if tableErr != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTable, c.Output.Table)
	}

	_, levelErr := c.LogLevel()
	if levelErr != nil {
		return levelErr
	}

	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > sampleRatioMax {
		return ErrInvalidSampleRatio
	}

	return nil
}

// LogLevel parses logging.level. Empty means info.
func (c *Config) LogLevel() (slog.Level, error) {
	if c.Logging.Level == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level

	err := level.UnmarshalText([]byte(c.Logging.Level))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return level, nil
}
