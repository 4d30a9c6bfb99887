package report

import (
	"fmt"
	"strings"
)

// Field selects a comparable list-valued field of a Record.
type Field int

// Selectable fields.
const (
	FieldPhoneticInventory Field = iota + 1
	FieldMinimalPairs
	FieldPhonemicInventory
	FieldClusterInventory
	FieldTargets
	FieldMonitoredPhones
	FieldMonitoredPhonemes
	FieldMonitoredClusters
	FieldSessions
	FieldCorpora
)

// AllFields returns every selectable field in declaration order.
func AllFields() []Field {
	return []Field{
		FieldPhoneticInventory,
		FieldMinimalPairs,
		FieldPhonemicInventory,
		FieldClusterInventory,
		FieldTargets,
		FieldMonitoredPhones,
		FieldMonitoredPhonemes,
		FieldMonitoredClusters,
		FieldSessions,
		FieldCorpora,
	}
}

// DefaultCompareFields returns the fields compared by batch validation:
// every inventory and monitor list.
func DefaultCompareFields() []Field {
	return []Field{
		FieldPhoneticInventory,
		FieldPhonemicInventory,
		FieldClusterInventory,
		FieldTargets,
		FieldMonitoredPhones,
		FieldMonitoredPhonemes,
		FieldMonitoredClusters,
	}
}

// String returns the canonical field name.
func (f Field) String() string {
	switch f {
	case FieldPhoneticInventory:
		return string(SectionPhoneticInventory)
	case FieldMinimalPairs:
		return string(SectionMinimalPairs)
	case FieldPhonemicInventory:
		return string(SectionPhonemicInventory)
	case FieldClusterInventory:
		return string(SectionClusterInventory)
	case FieldTargets:
		return string(SectionTargets)
	case FieldMonitoredPhones:
		return string(SectionMonitoredPhones)
	case FieldMonitoredPhonemes:
		return string(SectionMonitoredPhonemes)
	case FieldMonitoredClusters:
		return string(SectionMonitoredClusters)
	case FieldSessions:
		return "sessions"
	case FieldCorpora:
		return "corpora"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// HeaderOnly reports whether the field only exists in current-format records.
func (f Field) HeaderOnly() bool {
	return f == FieldSessions || f == FieldCorpora
}

// fieldAliases maps the short attribute names used by older scripts.
func fieldAliases(name string) string {
	switch name {
	case "phonetic_inv", "phonetic":
		return string(SectionPhoneticInventory)
	case "phonemic_inv", "phonemic":
		return string(SectionPhonemicInventory)
	case "cluster_inv", "clusters":
		return string(SectionClusterInventory)
	case "out_phones":
		return string(SectionMonitoredPhones)
	case "out_phonemes":
		return string(SectionMonitoredPhonemes)
	case "out_clusters":
		return string(SectionMonitoredClusters)
	case "session":
		return "sessions"
	case "corpus":
		return "corpora"
	default:
		return name
	}
}

// ParseField resolves a canonical name or alias (case-insensitive, "-" and
// "_" interchangeable).
func ParseField(name string) (Field, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	key = fieldAliases(key)

	for _, f := range AllFields() {
		if f.String() == key {
			return f, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// ParseFields resolves a list of names, failing on the first unknown one.
func ParseFields(names []string) ([]Field, error) {
	fields := make([]Field, 0, len(names))

	for _, name := range names {
		f, err := ParseField(name)
		if err != nil {
			return nil, err
		}

		fields = append(fields, f)
	}

	return fields, nil
}

// MarshalText implements encoding.TextMarshaler.
func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}

// Values returns the field as a list of strings. Minimal-pair rows are
// joined with commas. Header-only fields are nil on legacy records.
func (r *Record) Values(f Field) []string {
	switch f {
	case FieldPhoneticInventory:
		return r.PhoneticInventory
	case FieldMinimalPairs:
		rows := make([]string, len(r.MinimalPairs))
		for i, row := range r.MinimalPairs {
			rows[i] = strings.Join(row, fieldSeparator)
		}

		return rows
	case FieldPhonemicInventory:
		return r.PhonemicInventory
	case FieldClusterInventory:
		return r.ClusterInventory
	case FieldTargets:
		return r.Targets
	case FieldMonitoredPhones:
		return r.MonitoredPhones
	case FieldMonitoredPhonemes:
		return r.MonitoredPhonemes
	case FieldMonitoredClusters:
		return r.MonitoredClusters
	case FieldSessions:
		return r.SessionLabels()
	case FieldCorpora:
		return r.Corpora()
	default:
		return nil
	}
}

// StrictValues is Values with errors: unknown fields return ErrUnknownField
// and header-only fields on legacy records return *UnsupportedFormatError.
func (r *Record) StrictValues(f Field) ([]string, error) {
	if f < FieldPhoneticInventory || f > FieldCorpora {
		return nil, fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}

	if f.HeaderOnly() && r.Header == nil {
		return nil, &UnsupportedFormatError{Identifier: r.Identifier, Field: f, Format: r.Format}
	}

	return r.Values(f), nil
}
