package report

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Substitution replaces a typographic stand-in with its IPA codepoint.
type Substitution struct {
	From string `json:"from" mapstructure:"from" yaml:"from"`
	To   string `json:"to"   mapstructure:"to"   yaml:"to"`
}

// DefaultSubstitutions returns the substitutions applied in robust mode:
// ASCII "g" (U+0067) becomes IPA script "ɡ" (U+0261).
func DefaultSubstitutions() []Substitution {
	return []Substitution{{From: "g", To: "ɡ"}}
}

// Normalize applies subs to every string of every list field, including
// nested minimal-pair rows, in place. Order and length are preserved.
func Normalize(rec *Record, subs []Substitution) {
	if rec == nil || len(subs) == 0 {
		return
	}

	pairs := make([]string, 0, len(subs)*2)
	for _, s := range subs {
		if s.From == "" {
			continue
		}

		pairs = append(pairs, s.From, s.To)
	}

	replacer := strings.NewReplacer(pairs...)

	apply(rec, replacer.Replace)
}

// NormalizeNFC rewrites every list string in canonical composition form so
// that precomposed and combining-diacritic spellings compare equal.
func NormalizeNFC(rec *Record) {
	if rec == nil {
		return
	}

	apply(rec, norm.NFC.String)
}

func apply(rec *Record, fn func(string) string) {
	for _, list := range rec.lists() {
		for i, v := range list {
			list[i] = fn(v)
		}
	}
}
