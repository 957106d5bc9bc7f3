// Package layout turns normalized chapter blocks into width-constrained
// line sequences and slices them into viewport pages.
package layout

import (
	"strings"

	"lectern/content"
)

// Cell is a single display position: one grapheme cluster with its style.
// Deco marks cells the engine inserted for presentation (quote bars, list
// bullets, padding, hyphenation marks) rather than cells carrying span text.
type Cell struct {
	Grapheme string
	Style    content.Style
	Link     string
	Deco     bool
}

// Line is a wrapped display line. Block is the index of the source block in
// the chapter's block sequence; mode transitions rely on it to map a line
// back to content. Hyphen is set when the line ends with an inserted
// hyphenation mark.
type Line struct {
	Cells  []Cell
	Block  int
	Hyphen bool
}

// Width reports the display width of the line in cells.
func (l Line) Width() int { return len(l.Cells) }

// Blank reports whether the line carries no cells (block separator).
func (l Line) Blank() bool { return len(l.Cells) == 0 }

// Text returns the visible text of the line.
func (l Line) Text() string {
	var sb strings.Builder
	for _, c := range l.Cells {
		sb.WriteString(c.Grapheme)
	}
	return sb.String()
}

// ContentGraphemes counts cells that carry span text, skipping decoration
// and whitespace. Summed over a chapter this matches the non-whitespace
// grapheme count of the source spans.
func (l Line) ContentGraphemes() int {
	n := 0
	for _, c := range l.Cells {
		if c.Deco || isBlankGrapheme(c.Grapheme) {
			continue
		}
		n++
	}
	return n
}

func isBlankGrapheme(g string) bool {
	return strings.TrimSpace(g) == ""
}
