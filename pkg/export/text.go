package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/autopatt/pkg/compare"
)

var (
	overlapColor = color.New(color.FgGreen)
	leftColor    = color.New(color.FgYellow)
	rightColor   = color.New(color.FgRed)
	titleColor   = color.New(color.Bold)
)

// WriteResult prints one partition as three labelled lines. Colors follow
// fatih/color's terminal detection.
func WriteResult(w io.Writer, title string, res compare.Result[string], labels Labels) error {
	lines := []string{
		titleColor.Sprint(title),
		"  " + overlapColor.Sprint(overlapLabel) + ": " + strings.Join(res.Overlap, valueSeparator),
		"  " + leftColor.Sprint(labels.LeftOnly()) + ": " + strings.Join(res.LeftUnique, valueSeparator),
		"  " + rightColor.Sprint(labels.RightOnly()) + ": " + strings.Join(res.RightUnique, valueSeparator),
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	return nil
}

// WriteDiff prints a line diff with unified-diff prefixes.
func WriteDiff(w io.Writer, title string, lines []compare.DiffLine) error {
	var b strings.Builder

	b.WriteString(titleColor.Sprint(title))
	b.WriteByte('\n')

	for _, l := range lines {
		text := l.Op.String() + " " + l.Text

		switch l.Op {
		case compare.DiffInsert:
			text = overlapColor.Sprint(text)
		case compare.DiffDelete:
			text = rightColor.Sprint(text)
		case compare.DiffEqual:
		}

		b.WriteString(text)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write diff: %w", err)
	}

	return nil
}
