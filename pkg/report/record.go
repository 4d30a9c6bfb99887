// Package report parses AutoPATT analysis exports into structured records.
//
// A report is a comma-separated text file organised into sections, each
// introduced by a literal marker line. Parsing first cleans the raw lines,
// then locates every marker and slices a fixed, marker-relative window of
// rows. The window offsets differ by export revision and live in a
// declarative Layout table (see LayoutFor).
package report

import "math"

const versionTolerance = 1e-9

// Session is one Phon session included in a current-format analysis.
type Session struct {
	Label       string `json:"label"        yaml:"label"`
	Corpus      string `json:"corpus"       yaml:"corpus"`
	RecordCount int    `json:"record_count" yaml:"record_count"`
}

// Header holds the fields only present in current-format reports.
type Header struct {
	Version          float64   `json:"version"            yaml:"version"`
	Language         string    `json:"language"           yaml:"language"`
	Sessions         []Session `json:"sessions"           yaml:"sessions"`
	TotalRecordCount int       `json:"total_record_count" yaml:"total_record_count"`
	AnalysisDate     string    `json:"analysis_date"      yaml:"analysis_date"`
	AnalysisTime     string    `json:"analysis_time"      yaml:"analysis_time"`
}

// Record is one parsed report. Every list field is non-nil after a
// successful parse except Targets, which is nil when the report has no
// TARGETS block.
type Record struct {
	Identifier string  `json:"identifier"       yaml:"identifier"`
	Source     string  `json:"source,omitempty" yaml:"source,omitempty"`
	Format     Format  `json:"format"           yaml:"format"`
	Header     *Header `json:"header,omitempty" yaml:"header,omitempty"`

	PhoneticInventory []string   `json:"phonetic_inventory" yaml:"phonetic_inventory"`
	MinimalPairs      [][]string `json:"minimal_pairs"      yaml:"minimal_pairs"`
	PhonemicInventory []string   `json:"phonemic_inventory" yaml:"phonemic_inventory"`
	ClusterInventory  []string   `json:"cluster_inventory"  yaml:"cluster_inventory"`
	Targets           []string   `json:"targets"            yaml:"targets"`
	MonitoredPhones   []string   `json:"monitored_phones"   yaml:"monitored_phones"`
	MonitoredPhonemes []string   `json:"monitored_phonemes" yaml:"monitored_phonemes"`
	MonitoredClusters []string   `json:"monitored_clusters" yaml:"monitored_clusters"`
}

// String implements fmt.Stringer.
func (r *Record) String() string {
	return "AutoPATT record " + r.Identifier
}

// VersionSupported reports whether the declared AutoPATT version matches the
// layout the record was parsed with. Records without a header always match.
func (r *Record) VersionSupported() bool {
	if r.Header == nil {
		return true
	}

	layout, err := LayoutFor(r.Format)
	if err != nil || layout.Header == nil || layout.Header.SupportedVersion == 0 {
		return true
	}

	return math.Abs(r.Header.Version-layout.Header.SupportedVersion) < versionTolerance
}

// SessionLabels returns the session labels, or nil for legacy records.
func (r *Record) SessionLabels() []string {
	if r.Header == nil {
		return nil
	}

	labels := make([]string, len(r.Header.Sessions))
	for i, s := range r.Header.Sessions {
		labels[i] = s.Label
	}

	return labels
}

// Corpora returns the corpus names, or nil for legacy records.
func (r *Record) Corpora() []string {
	if r.Header == nil {
		return nil
	}

	corpora := make([]string, len(r.Header.Sessions))
	for i, s := range r.Header.Sessions {
		corpora[i] = s.Corpus
	}

	return corpora
}

// RecordCounts returns the per-session record counts, or nil for legacy records.
func (r *Record) RecordCounts() []int {
	if r.Header == nil {
		return nil
	}

	counts := make([]int, len(r.Header.Sessions))
	for i, s := range r.Header.Sessions {
		counts[i] = s.RecordCount
	}

	return counts
}

// setSection stores extracted values into the matching record field.
func (r *Record) setSection(section Section, flat []string, rows [][]string) {
	switch section {
	case SectionPhoneticInventory:
		r.PhoneticInventory = flat
	case SectionMinimalPairs:
		r.MinimalPairs = rows
	case SectionPhonemicInventory:
		r.PhonemicInventory = flat
	case SectionClusterInventory:
		r.ClusterInventory = flat
	case SectionTargets:
		r.Targets = flat
	case SectionMonitoredPhones:
		r.MonitoredPhones = flat
	case SectionMonitoredPhonemes:
		r.MonitoredPhonemes = flat
	case SectionMonitoredClusters:
		r.MonitoredClusters = flat
	case SectionHeader:
	}
}

// lists returns every flat list field, skipping a nil Targets.
func (r *Record) lists() [][]string {
	lists := [][]string{
		r.PhoneticInventory,
		r.PhonemicInventory,
		r.ClusterInventory,
		r.MonitoredPhones,
		r.MonitoredPhonemes,
		r.MonitoredClusters,
	}

	if r.Targets != nil {
		lists = append(lists, r.Targets)
	}

	return append(lists, r.MinimalPairs...)
}
