package config

import (
	"github.com/Sumatoshi-tech/autopatt/pkg/export"
	"github.com/Sumatoshi-tech/autopatt/pkg/importer"
)

// Default values for every configuration key.
const (
	DefaultFormat = "current"
	DefaultRobust = false
	DefaultNFC    = false

	DefaultImportMaxFileSize = importer.DefaultMaxFileSize
	DefaultImportRepair      = false

	DefaultKeysMode        = KeyModeName
	DefaultKeysParticipant = importer.DefaultParticipantPattern
	DefaultKeysPhase       = importer.DefaultPhasePattern
	DefaultKeysLanguage    = importer.DefaultLanguagePattern

	DefaultCompareLeftLabel  = "L"
	DefaultCompareRightLabel = "R"

	DefaultOutputFormat = string(export.FormatText)
	DefaultOutputTable  = string(export.TableResults)

	DefaultLoggingLevel = "info"
	DefaultLoggingJSON  = false

	DefaultObservabilityInsecure    = false
	DefaultObservabilitySampleRatio = 1.0
)

// DefaultImportExtensions returns the accepted report file extensions.
func DefaultImportExtensions() []string {
	return []string{importer.DefaultExtension}
}
