package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

const keySeparator = "_"

// Default key patterns of the treatment-study file naming scheme, e.g.
// "S101_Pre_Spanish_2021.csv".
const (
	DefaultParticipantPattern = `S\d\d\d`
	DefaultPhasePattern       = `_(Pre|Post|2moPost|2wkPost|1moPost)_`
	DefaultLanguagePattern    = `EFE|LittlePEEP|English|Spanish`
)

var (
	// ErrKeyPattern is returned when a file name does not match a key pattern.
	ErrKeyPattern = errors.New("file name does not match key pattern")
	// ErrDuplicateKey is returned when two files in a batch map to the same key.
	ErrDuplicateKey = errors.New("duplicate record key")
)

// KeyFunc derives a record key from a file path.
type KeyFunc func(path string) (string, error)

// BaseNameKey keys a record by its file name without extension.
func BaseNameKey(path string) (string, error) {
	return report.IdentifierFromPath(path), nil
}

// KeyParts holds the regular expressions that pull participant, phase and
// language out of a file name. When a pattern has a capture group, the
// first group is the value; otherwise the whole match is.
type KeyParts struct {
	Participant *regexp.Regexp
	Phase       *regexp.Regexp
	Language    *regexp.Regexp
}

// DefaultKeyParts returns the treatment-study patterns.
func DefaultKeyParts() KeyParts {
	return KeyParts{
		Participant: regexp.MustCompile(DefaultParticipantPattern),
		Phase:       regexp.MustCompile(DefaultPhasePattern),
		Language:    regexp.MustCompile(DefaultLanguagePattern),
	}
}

// CompileKeyParts compiles the three patterns.
func CompileKeyParts(participant, phase, language string) (KeyParts, error) {
	var parts KeyParts

	for _, p := range []struct {
		dst     **regexp.Regexp
		name    string
		pattern string
	}{
		{&parts.Participant, "participant", participant},
		{&parts.Phase, "phase", phase},
		{&parts.Language, "language", language},
	} {
		re, err := regexp.Compile(p.pattern)
		if err != nil {
			return KeyParts{}, fmt.Errorf("compile %s pattern: %w", p.name, err)
		}

		*p.dst = re
	}

	return parts, nil
}

// Split extracts participant, phase and language from name.
func (k KeyParts) Split(name string) (participant, phase, language string, err error) {
	participant, ok := firstMatch(k.Participant, name)
	if !ok {
		return "", "", "", fmt.Errorf("%w: participant in %q", ErrKeyPattern, name)
	}

	phase, ok = firstMatch(k.Phase, name)
	if !ok {
		return "", "", "", fmt.Errorf("%w: phase in %q", ErrKeyPattern, name)
	}

	language, ok = firstMatch(k.Language, name)
	if !ok {
		return "", "", "", fmt.Errorf("%w: language in %q", ErrKeyPattern, name)
	}

	return participant, phase, language, nil
}

// PatternKeys returns a KeyFunc producing "participant_phase_language".
func PatternKeys(k KeyParts) KeyFunc {
	return func(path string) (string, error) {
		participant, phase, language, err := k.Split(report.IdentifierFromPath(path))
		if err != nil {
			return "", err
		}

		return strings.Join([]string{participant, phase, language}, keySeparator), nil
	}
}

// PairPhases splits pattern-keyed records into the from and to phases,
// keyed by "participant_language" so that CompareAll lines them up.
// Records whose key does not split or that belong to another phase are left out.
func PairPhases(records map[string]*report.Record, k KeyParts, from, to string) (left, right map[string]*report.Record) {
	left = make(map[string]*report.Record)
	right = make(map[string]*report.Record)

	for key, rec := range records {
		participant, phase, language, err := k.Split(keySeparator + key + keySeparator)
		if err != nil {
			continue
		}

		pairKey := participant + keySeparator + language

		switch phase {
		case from:
			left[pairKey] = rec
		case to:
			right[pairKey] = rec
		}
	}

	return left, right
}

func firstMatch(re *regexp.Regexp, s string) (string, bool) {
	if re == nil {
		return "", false
	}

	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}

	if len(m) > 1 && m[1] != "" {
		return m[1], true
	}

	return m[0], true
}
