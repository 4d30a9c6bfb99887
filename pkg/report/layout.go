package report

import (
	"fmt"
	"strings"
)

// Format identifies an AutoPATT export revision. The caller declares it;
// there is no auto-detection.
type Format int

const (
	// FormatCurrent is the AutoPATT >= 0.7 export with a session header block.
	FormatCurrent Format = iota
	// FormatLegacy is the pre-0.7 export (and hand-made equivalents) without a header.
	FormatLegacy
)

const (
	formatNameCurrent = "current"
	formatNameLegacy  = "legacy"
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatCurrent:
		return formatNameCurrent
	case FormatLegacy:
		return formatNameLegacy
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat maps "current" or "legacy" (case-insensitive) to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case formatNameCurrent, "":
		return FormatCurrent, nil
	case formatNameLegacy:
		return FormatLegacy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}

// Section names one anchor-delimited region of a report.
type Section string

// Report sections.
const (
	SectionHeader            Section = "header"
	SectionPhoneticInventory Section = "phonetic_inventory"
	SectionMinimalPairs      Section = "minimal_pairs"
	SectionPhonemicInventory Section = "phonemic_inventory"
	SectionClusterInventory  Section = "cluster_inventory"
	SectionTargets           Section = "targets"
	SectionMonitoredPhones   Section = "monitored_phones"
	SectionMonitoredPhonemes Section = "monitored_phonemes"
	SectionMonitoredClusters Section = "monitored_clusters"
)

// MatchMode selects how a marker is compared with a cleaned line.
type MatchMode int

const (
	// MatchExact requires the line to equal the marker.
	MatchExact MatchMode = iota
	// MatchPrefix requires the line to start with the marker.
	MatchPrefix
)

// Kind selects how the content window of a section is turned into values.
type Kind int

const (
	// KindFlat splits each row on commas, drops the row label, flattens and drops blanks.
	KindFlat Kind = iota
	// KindRows splits each row on commas and keeps rows separate.
	KindRows
	// KindDelimited splits exactly one line on commas.
	KindDelimited
)

// SectionSpec is one row of a layout table.
//
// For KindFlat and KindRows the window is
// lines[marker+Start : marker(Next)+End]. For KindDelimited the value is the
// single line at marker+Start.
type SectionSpec struct {
	Section  Section
	Marker   string
	Match    MatchMode
	Kind     Kind
	Start    int
	Next     Section
	End      int
	Optional bool
}

// HeaderSpec locates the session header block that precedes the date marker.
// All line offsets are relative to the date marker.
type HeaderSpec struct {
	Marker string

	// Session rows are lines[SessionStart : marker+SessionEnd] stepping by
	// SessionStride; the rows in between are labels.
	SessionStart  int
	SessionEnd    int
	SessionStride int

	VersionLine  int
	VersionToken int
	LanguageLine int
	DateLine     int

	// SupportedVersion is the AutoPATT release the offsets were taken from.
	SupportedVersion float64
}

// Layout is the declarative description of one format revision.
type Layout struct {
	Format   Format
	Header   *HeaderSpec
	Sections []SectionSpec
}

// Spec returns the row for a section.
func (l Layout) Spec(section Section) (SectionSpec, bool) {
	for _, sect := range l.Sections {
		if sect.Section == section {
			return sect, true
		}
	}

	return SectionSpec{}, false
}

// Anchors shared by every revision.
const (
	MarkerAnalysisDate      = "Analysis date:"
	MarkerPhoneticInventory = "PHONETIC INVENTORY:"
	MarkerMinimalPairs      = "Minimal Pairs:"
	MarkerPhonemicInventory = "PHONEMIC INVENTORY:"
	MarkerClusterInventory  = "CLUSTER INVENTORY:"
	MarkerTargets           = "TARGETS"
	MarkerMonitoredPhones   = "Phones to monitor:"
	MarkerMonitoredPhonemes = "Phonemes to monitor:"
	MarkerMonitoredClusters = "Clusters to monitor:"
)

// SupportedVersion is the AutoPATT version whose export layout FormatCurrent describes.
const SupportedVersion = 0.7

// LayoutFor returns the layout table for a format revision. Adding a
// revision means adding a case here.
func LayoutFor(format Format) (Layout, error) {
	switch format {
	case FormatCurrent:
		return Layout{
			Format: FormatCurrent,
			Header: &HeaderSpec{
				Marker:        MarkerAnalysisDate,
				SessionStart:  1,
				SessionEnd:    -2,
				SessionStride: 2,
				VersionLine:   -2,
				VersionToken:  2,
				LanguageLine:  -1,
				DateLine:      1,

				SupportedVersion: SupportedVersion,
			},
			Sections: sectionRows(true),
		}, nil
	case FormatLegacy:
		return Layout{
			Format:   FormatLegacy,
			Sections: sectionRows(false),
		}, nil
	default:
		return Layout{}, fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}
}

// sectionRows builds the section table. Both revisions share the window
// offsets; the current export may omit the TARGETS block.
func sectionRows(targetsOptional bool) []SectionSpec {
	return []SectionSpec{
		{
			Section: SectionPhoneticInventory, Marker: MarkerPhoneticInventory, Kind: KindFlat,
			Start: 2, Next: SectionMinimalPairs, End: -1,
		},
		{
			Section: SectionMinimalPairs, Marker: MarkerMinimalPairs, Kind: KindRows,
			Start: 1, Next: SectionPhonemicInventory, End: -1,
		},
		{
			Section: SectionPhonemicInventory, Marker: MarkerPhonemicInventory, Kind: KindFlat,
			Start: 2, Next: SectionClusterInventory, End: 0,
		},
		{Section: SectionClusterInventory, Marker: MarkerClusterInventory, Kind: KindDelimited, Start: 1},
		{
			Section: SectionTargets, Marker: MarkerTargets, Match: MatchPrefix, Kind: KindDelimited,
			Start: 1, Optional: targetsOptional,
		},
		{Section: SectionMonitoredPhones, Marker: MarkerMonitoredPhones, Kind: KindDelimited, Start: 1},
		{Section: SectionMonitoredPhonemes, Marker: MarkerMonitoredPhonemes, Kind: KindDelimited, Start: 1},
		{Section: SectionMonitoredClusters, Marker: MarkerMonitoredClusters, Kind: KindDelimited, Start: 1},
	}
}
