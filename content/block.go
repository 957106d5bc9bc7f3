// Package content turns sanitized chapter markup into the typed block
// sequence every other reader stage consumes. Blocks are created once per
// chapter and never mutated afterwards.
package content

import (
	"strings"
)

// Style is a set of inline style markers carried by a span. Markup is folded
// into these bits during normalization so re-wrapping never parses tags again.
type Style uint8

const (
	StyleNone      Style = 0
	StyleBold      Style = 1 << 0
	StyleItalic    Style = 1 << 1
	StyleUnderline Style = 1 << 2
	StyleLink      Style = 1 << 3
)

func (s Style) Has(flag Style) bool {
	return s&flag != 0
}

func (s Style) String() string {
	if s == StyleNone {
		return "none"
	}
	var parts []string
	if s.Has(StyleBold) {
		parts = append(parts, "bold")
	}
	if s.Has(StyleItalic) {
		parts = append(parts, "italic")
	}
	if s.Has(StyleUnderline) {
		parts = append(parts, "underline")
	}
	if s.Has(StyleLink) {
		parts = append(parts, "link")
	}
	return strings.Join(parts, "+")
}

// Span is a run of visible text sharing one style. Link holds the target
// anchor id when StyleLink is set. Spans of a block concatenate, in order, to
// the full visible text of the block.
type Span struct {
	Text  string
	Style Style
	Link  string
}

// Block is a closed set of chapter-level elements. The variant set is fixed,
// consumers are expected to switch exhaustively.
type Block interface {
	isBlock()
}

type Paragraph struct {
	Spans []Span
}

type Heading struct {
	Level int // 1..6
	Spans []Span
}

type ListItem struct {
	Depth   int // nesting level, 0 for a top level item
	Ordinal int // 1-based position in an ordered list, 0 for a bullet
	Spans   []Span
}

type Quote struct {
	Spans []Span
}

type CodeBlock struct {
	Lang  string
	Lines []string
}

// Image stands in for graphical content the reader cannot paint itself. Only
// the textual label survives normalization, actual data stays with the
// document loader.
type Image struct {
	Alt string
}

func (Paragraph) isBlock() {}
func (Heading) isBlock()   {}
func (ListItem) isBlock()  {}
func (Quote) isBlock()     {}
func (CodeBlock) isBlock() {}
func (Image) isBlock()     {}

// Spans returns inline spans of text-bearing blocks and nil for the rest.
func Spans(b Block) []Span {
	switch t := b.(type) {
	case Paragraph:
		return t.Spans
	case Heading:
		return t.Spans
	case ListItem:
		return t.Spans
	case Quote:
		return t.Spans
	}
	return nil
}

// PlainText returns visible text of a block without style information.
func PlainText(b Block) string {
	if c, ok := b.(CodeBlock); ok {
		return strings.Join(c.Lines, "\n")
	}
	var sb strings.Builder
	for _, s := range Spans(b) {
		sb.WriteString(s.Text)
	}
	return sb.String()
}
