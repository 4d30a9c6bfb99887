package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/autopatt/pkg/textutil"
)

const (
	fieldSeparator = ","
	tokenSeparator = " "

	sessionLabelToken  = 0
	sessionCorpusToken = 1
	sessionCountToken  = 2
	sessionTokens      = 3

	dateToken = 0
	timeToken = 1

	floatBits = 64
)

// Options controls a parse.
type Options struct {
	// Format is the declared export revision.
	Format Format
	// Robust applies the IPA substitution pass after extraction.
	Robust bool
	// Substitutions overrides DefaultSubstitutions when Robust is set.
	Substitutions []Substitution
	// NFC normalizes every extracted string to Unicode NFC.
	NFC bool
}

// Parse builds a Record from a cleaned line sequence. The identifier is
// supplied by the caller (normally derived from the file name).
func Parse(id string, lines Lines, opts Options) (*Record, error) {
	layout, err := LayoutFor(opts.Format)
	if err != nil {
		return nil, err
	}

	anchors, err := locate(id, lines, layout)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Identifier: id,
		Format:     layout.Format,
	}

	if layout.Header != nil {
		header, headerErr := parseHeader(id, lines, *layout.Header)
		if headerErr != nil {
			return nil, headerErr
		}

		rec.Header = header
	}

	for _, sect := range layout.Sections {
		extractErr := extract(id, lines, sect, anchors, rec)
		if extractErr != nil {
			return nil, extractErr
		}
	}

	if opts.Robust {
		subs := opts.Substitutions
		if len(subs) == 0 {
			subs = DefaultSubstitutions()
		}

		Normalize(rec, subs)
	}

	if opts.NFC {
		NormalizeNFC(rec)
	}

	return rec, nil
}

// ParseFile reads, cleans and parses one report file. Files larger than
// maxSize bytes are rejected; maxSize <= 0 disables the check.
func ParseFile(path string, opts Options, maxSize int64) (*Record, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, statErr := os.Stat(absPath)
	if statErr != nil {
		return nil, fmt.Errorf("stat %s: %w", absPath, statErr)
	}

	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, absPath, info.Size())
	}

	data, readErr := os.ReadFile(absPath)
	if readErr != nil {
		return nil, fmt.Errorf("read %s: %w", absPath, readErr)
	}

	if textutil.IsBinary(data) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryFile, absPath)
	}

	rec, parseErr := Parse(IdentifierFromPath(absPath), ReadLines(data), opts)
	if parseErr != nil {
		return nil, parseErr
	}

	rec.Source = absPath

	return rec, nil
}

// IdentifierFromPath returns the file name without directory and extension.
func IdentifierFromPath(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// locate finds every section marker. Optional sections that are missing map to -1.
func locate(id string, lines Lines, layout Layout) (map[Section]int, error) {
	anchors := make(map[Section]int, len(layout.Sections))

	for _, sect := range layout.Sections {
		idx := lines.find(sect.Marker, sect.Match)
		if idx < 0 && !sect.Optional {
			return nil, malformed(id, sect, -1, ErrMissingAnchor)
		}

		anchors[sect.Section] = idx
	}

	return anchors, nil
}

func extract(id string, lines Lines, sect SectionSpec, anchors map[Section]int, rec *Record) error {
	idx := anchors[sect.Section]
	if idx < 0 {
		rec.setSection(sect.Section, nil, nil)

		return nil
	}

	switch sect.Kind {
	case KindFlat, KindRows:
		next, ok := anchors[sect.Next]
		if !ok || next < 0 {
			return malformed(id, sect, idx, fmt.Errorf("%w: bounding section %s", ErrMissingAnchor, sect.Next))
		}

		rows := lines.window(idx+sect.Start, next+sect.End)
		if sect.Kind == KindRows {
			rec.setSection(sect.Section, nil, splitRows(rows))
		} else {
			rec.setSection(sect.Section, flattenRows(rows), nil)
		}

	case KindDelimited:
		line, ok := lines.at(idx + sect.Start)
		if !ok {
			return malformed(id, sect, idx+sect.Start, ErrTruncated)
		}

		rec.setSection(sect.Section, strings.Split(line, fieldSeparator), nil)
	}

	return nil
}

// flattenRows drops the label token of every row, flattens the rest and
// removes blank tokens.
func flattenRows(rows Lines) []string {
	values := make([]string, 0, len(rows))

	for _, row := range rows {
		tokens := strings.Split(row, fieldSeparator)

		for _, tok := range tokens[1:] {
			if strings.TrimSpace(tok) == "" {
				continue
			}

			values = append(values, tok)
		}
	}

	return values
}

func splitRows(rows Lines) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = strings.Split(row, fieldSeparator)
	}

	return out
}

func parseHeader(id string, lines Lines, hs HeaderSpec) (*Header, error) {
	sect := SectionSpec{Section: SectionHeader, Marker: hs.Marker}

	marker := lines.find(hs.Marker, MatchExact)
	if marker < 0 {
		return nil, malformed(id, sect, -1, ErrMissingAnchor)
	}

	versionLine, ok := lines.at(marker + hs.VersionLine)
	if !ok {
		return nil, malformed(id, sect, marker+hs.VersionLine, ErrTruncated)
	}

	tokens := strings.Split(versionLine, tokenSeparator)
	if len(tokens) <= hs.VersionToken {
		return nil, malformed(id, sect, marker+hs.VersionLine, fmt.Errorf("%w: version line %q", ErrBadValue, versionLine))
	}

	version, parseErr := strconv.ParseFloat(strings.TrimSpace(tokens[hs.VersionToken]), floatBits)
	if parseErr != nil {
		return nil, malformed(id, sect, marker+hs.VersionLine, fmt.Errorf("%w: version %q", ErrBadValue, tokens[hs.VersionToken]))
	}

	languageLine, ok := lines.at(marker + hs.LanguageLine)
	if !ok {
		return nil, malformed(id, sect, marker+hs.LanguageLine, ErrTruncated)
	}

	dateLine, ok := lines.at(marker + hs.DateLine)
	if !ok {
		return nil, malformed(id, sect, marker+hs.DateLine, ErrTruncated)
	}

	sessions, err := parseSessions(id, sect, lines, hs, marker)
	if err != nil {
		return nil, err
	}

	header := &Header{
		Version:  version,
		Language: afterLastColon(languageLine),
		Sessions: sessions,
	}

	for _, s := range sessions {
		header.TotalRecordCount += s.RecordCount
	}

	dateTokens := strings.Split(dateLine, tokenSeparator)
	header.AnalysisDate = dateTokens[dateToken]

	if len(dateTokens) > timeToken {
		header.AnalysisTime = dateTokens[timeToken]
	}

	return header, nil
}

// parseSessions reads every SessionStride-th row of the header block; the
// rows in between are labels.
func parseSessions(id string, sect SectionSpec, lines Lines, hs HeaderSpec, marker int) ([]Session, error) {
	end := min(marker+hs.SessionEnd, len(lines))
	stride := max(hs.SessionStride, 1)
	sessions := make([]Session, 0)

	for i := hs.SessionStart; i < end; i += stride {
		tokens := strings.Split(lines[i], fieldSeparator)
		if len(tokens) < sessionTokens {
			return nil, malformed(id, sect, i, fmt.Errorf("%w: session row %q", ErrBadValue, lines[i]))
		}

		count, convErr := strconv.Atoi(strings.TrimSpace(tokens[sessionCountToken]))
		if convErr != nil {
			return nil, malformed(id, sect, i, fmt.Errorf("%w: record count %q", ErrBadValue, tokens[sessionCountToken]))
		}

		sessions = append(sessions, Session{
			Label:       tokens[sessionLabelToken],
			Corpus:      tokens[sessionCorpusToken],
			RecordCount: count,
		})
	}

	return sessions, nil
}

func afterLastColon(line string) string {
	idx := strings.LastIndex(line, ":")
	if idx < 0 {
		return strings.TrimSpace(line)
	}

	return strings.TrimSpace(line[idx+1:])
}
