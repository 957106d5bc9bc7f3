package layout

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"lectern/content"
	"lectern/content/text"
)

// MinWidth is the narrowest column the engine will lay out.
const MinWidth = 20

// Options controls a wrap run. A nil Hyphenator disables hyphenation.
type Options struct {
	Width      int
	Hyphenator *text.Hyphenator
	Justify    bool
}

// Wrap lays out a chapter's block sequence at the given column width.
//
// The engine is greedy: it packs Unicode line segments onto a line until the
// next one would not fit, then breaks. Grapheme clusters are never split.
// When a word does not fit the remaining space and hyphenation is on, the
// latest pattern break point that still fits is used. Headings come out
// bold and centered, quotes carry a bar prefix, list items are indented by
// depth, code lines are kept verbatim and truncated with a marker, images
// become a single placeholder line. Blocks are separated by blank lines.
//
// The result is deterministic: the same blocks at the same width always
// produce the same line sequence.
func Wrap(blocks []content.Block, opts Options) []Line {
	if opts.Width < MinWidth {
		opts.Width = MinWidth
	}
	w := &wrapper{opts: opts}

	for i, b := range blocks {
		start := len(w.lines)
		switch t := b.(type) {
		case content.Paragraph:
			w.flow(t.Spans, i, nil, nil)
		case content.Heading:
			w.flow(boldCopy(t.Spans), i, nil, nil)
			w.center(start)
		case content.ListItem:
			marker := decoCells(strings.Repeat("  ", t.Depth)+listMarker(t), content.StyleNone)
			// deep nesting must still leave room for content: cap the
			// prefix at half the column, dropping leading indent first
			if max := opts.Width / 2; len(marker) > max {
				marker = marker[len(marker)-max:]
			}
			cont := decoCells(strings.Repeat(" ", len(marker)), content.StyleNone)
			w.flow(t.Spans, i, marker, cont)
		case content.Quote:
			bar := decoCells("│ ", content.StyleItalic)
			w.flow(t.Spans, i, bar, bar)
		case content.CodeBlock:
			w.code(t, i)
		case content.Image:
			w.image(t, i)
		}
		// blank separator line between block outputs
		if len(w.lines) > start && start > 0 {
			w.lines = slices.Insert(w.lines, start, Line{Block: w.lines[start-1].Block})
		}
	}
	return w.lines
}

type wrapper struct {
	opts  Options
	lines []Line
}

type segSpan struct {
	start, end int
	mandatory  bool
}

// segment converts spans into per-grapheme cells plus UAX #14 line-break
// segments expressed as cell ranges. A segment carries its trailing
// whitespace; mandatory is set after hard breaks and at end of text.
func segment(spans []content.Span) ([]Cell, []segSpan) {
	var cells []Cell
	var full strings.Builder
	for _, sp := range spans {
		gr := uniseg.NewGraphemes(sp.Text)
		for gr.Next() {
			cells = append(cells, Cell{Grapheme: gr.Str(), Style: sp.Style, Link: sp.Link})
		}
		full.WriteString(sp.Text)
	}

	var segs []segSpan
	rest := full.String()
	state := -1
	pos := 0
	for len(rest) > 0 {
		var seg string
		var mustBreak bool
		seg, rest, mustBreak, state = uniseg.FirstLineSegmentInString(rest, state)
		n := uniseg.GraphemeClusterCount(seg)
		segs = append(segs, segSpan{start: pos, end: pos + n, mandatory: mustBreak})
		pos += n
	}
	return cells, segs
}

// flow wraps span content into lines. first is the decoration prefix of the
// opening line, cont the prefix of continuation lines.
func (w *wrapper) flow(spans []content.Span, blockIdx int, first, cont []Cell) {
	cells, segs := segment(spans)
	if len(cells) == 0 {
		return
	}

	cur := slices.Clone(first)
	base := len(first)

	emit := func(hyphen, fill bool) {
		line := trimTrailing(cur, base)
		if w.opts.Justify && fill {
			line = justify(line, base, w.opts.Width)
		}
		w.lines = append(w.lines, Line{Cells: line, Block: blockIdx, Hyphen: hyphen})
		cur = slices.Clone(cont)
		base = len(cont)
	}

	for _, s := range segs {
		seg := cells[s.start:s.end]
		tw := trimmedWidth(seg)

		if tw == 0 {
			// whitespace-only segment: dropped at line start
			if len(cur) > base {
				cur = append(cur, seg...)
			}
			if s.mandatory && len(cur) > base {
				emit(false, false)
			}
			continue
		}

		for tw > w.opts.Width-len(cur) {
			avail := w.opts.Width - len(cur)
			if prefix, restSeg, ok := w.hyphenSplit(seg, tw, avail); ok {
				cur = append(cur, prefix...)
				cur = append(cur, Cell{Grapheme: "-", Deco: true})
				emit(true, false)
				seg = restSeg
				tw = trimmedWidth(seg)
				continue
			}
			if len(cur) > base {
				emit(false, true)
				continue
			}
			// unbreakable word wider than the whole column
			if avail < 1 {
				avail = 1
			}
			cur = append(cur, seg[:avail]...)
			emit(false, false)
			seg = seg[avail:]
			tw = trimmedWidth(seg)
		}
		cur = append(cur, seg...)
		if s.mandatory {
			emit(false, false)
		}
	}
	if len(cur) > base {
		emit(false, false)
	}
}

// hyphenSplit tries to split the leading word of seg so that a prefix plus
// hyphen mark fits into avail cells. Only all-letter words are attempted.
func (w *wrapper) hyphenSplit(seg []Cell, tw, avail int) (prefix, rest []Cell, ok bool) {
	if w.opts.Hyphenator == nil || avail < 3 {
		return nil, nil, false
	}

	word := seg[:tw]
	runeAt := make([]int, tw+1)
	var sb strings.Builder
	runes := 0
	for i, c := range word {
		for _, r := range c.Grapheme {
			if !unicode.IsLetter(r) {
				return nil, nil, false
			}
			runes++
		}
		sb.WriteString(c.Grapheme)
		runeAt[i+1] = runes
	}

	best := -1
	for _, k := range w.opts.Hyphenator.Breaks(sb.String()) {
		for g := 1; g < tw; g++ {
			if runeAt[g] != k {
				continue
			}
			if g+1 <= avail && g > best {
				best = g
			}
			break
		}
	}
	if best < 0 {
		return nil, nil, false
	}
	return seg[:best], seg[best:], true
}

func (w *wrapper) code(cb content.CodeBlock, blockIdx int) {
	for _, raw := range cb.Lines {
		expanded := strings.ReplaceAll(raw, "\t", "    ")
		var cells []Cell
		gr := uniseg.NewGraphemes(expanded)
		for gr.Next() {
			cells = append(cells, Cell{Grapheme: gr.Str()})
		}
		// verbatim, no wrapping: overlong lines are cut with a marker
		if len(cells) > w.opts.Width {
			cells = append(cells[:w.opts.Width-1], Cell{Grapheme: "…", Deco: true})
		}
		w.lines = append(w.lines, Line{Cells: cells, Block: blockIdx})
	}
}

func (w *wrapper) image(img content.Image, blockIdx int) {
	label := "[image]"
	if img.Alt != "" {
		label = "[image: " + img.Alt + "]"
	}
	cells := decoCells(label, content.StyleItalic)
	if len(cells) > w.opts.Width {
		cells = append(cells[:w.opts.Width-1], Cell{Grapheme: "…", Deco: true})
	}
	w.lines = append(w.lines, Line{Cells: cells, Block: blockIdx})
}

// center pads every line produced since start so the heading sits in the
// middle of the column.
func (w *wrapper) center(start int) {
	for i := start; i < len(w.lines); i++ {
		ln := &w.lines[i]
		pad := (w.opts.Width - len(ln.Cells)) / 2
		if pad <= 0 {
			continue
		}
		cells := make([]Cell, 0, pad+len(ln.Cells))
		for range pad {
			cells = append(cells, Cell{Grapheme: " ", Deco: true})
		}
		ln.Cells = append(cells, ln.Cells...)
	}
}

func boldCopy(spans []content.Span) []content.Span {
	out := slices.Clone(spans)
	for i := range out {
		out[i].Style |= content.StyleBold
	}
	return out
}

func listMarker(li content.ListItem) string {
	if li.Ordinal > 0 {
		return fmt.Sprintf("%d. ", li.Ordinal)
	}
	return "• "
}

func decoCells(s string, style content.Style) []Cell {
	var cells []Cell
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cells = append(cells, Cell{Grapheme: gr.Str(), Style: style, Deco: true})
	}
	return cells
}

func trimmedWidth(seg []Cell) int {
	end := len(seg)
	for end > 0 && isBlankGrapheme(seg[end-1].Grapheme) {
		end--
	}
	return end
}

func trimTrailing(cells []Cell, base int) []Cell {
	end := len(cells)
	for end > base && !cells[end-1].Deco && isBlankGrapheme(cells[end-1].Grapheme) {
		end--
	}
	return slices.Clone(cells[:end])
}

// justify pads inter-word gaps so the line spans the full column width.
func justify(cells []Cell, base, width int) []Cell {
	extra := width - len(cells)
	if extra <= 0 {
		return cells
	}
	var gaps []int
	for i := base; i < len(cells); i++ {
		if !cells[i].Deco && isBlankGrapheme(cells[i].Grapheme) {
			gaps = append(gaps, i)
		}
	}
	if len(gaps) == 0 {
		return cells
	}

	perGap := make([]int, len(gaps))
	for i := range extra {
		perGap[i%len(gaps)]++
	}

	out := make([]Cell, 0, width)
	g := 0
	for i, c := range cells {
		out = append(out, c)
		if g < len(gaps) && i == gaps[g] {
			for range perGap[g] {
				out = append(out, Cell{Grapheme: " ", Deco: true})
			}
			g++
		}
	}
	return out
}
