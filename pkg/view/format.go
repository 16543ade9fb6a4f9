package view

import (
	"regexp"
	"strings"
)

// LineKind is how a line of result text is rendered.
type LineKind int

const (
	Paragraph LineKind = iota
	Heading
	ListItem
	Spacer
)

func (k LineKind) String() string {
	switch k {
	case Heading:
		return "heading"
	case ListItem:
		return "list_item"
	case Spacer:
		return "spacer"
	default:
		return "paragraph"
	}
}

// Line is one formatted line of result text.
type Line struct {
	Kind LineKind
	Text string
}

var (
	boldPairs    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	bulletPrefix = regexp.MustCompile(`^[*\-]\s*`)
)

// Format splits text into lines and classifies each one. It is not a
// markdown parser: emphasis markers are stripped, never rendered.
//
//   - heading: starts with "**" or "##", or ends with ":" (all '#' and '*' removed)
//   - list item: starts with '*' or '-' after leading blanks (bullet removed)
//   - spacer: blank
//   - paragraph: anything else
func Format(text string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]Line, 0, len(raw))
	for _, line := range raw {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "**") || strings.HasPrefix(line, "##") || strings.HasSuffix(trimmed, ":"):
			lines = append(lines, Line{Kind: Heading, Text: strings.TrimSpace(strings.NewReplacer("#", "", "*", "").Replace(line))})
		case strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "-"):
			item := bulletPrefix.ReplaceAllString(trimmed, "")
			lines = append(lines, Line{Kind: ListItem, Text: stripBold(item)})
		case trimmed == "":
			lines = append(lines, Line{Kind: Spacer})
		default:
			lines = append(lines, Line{Kind: Paragraph, Text: stripBold(line)})
		}
	}
	return lines
}

func stripBold(s string) string {
	return boldPairs.ReplaceAllString(s, "$1")
}
