package content

import (
	"fmt"
	"strconv"
	"strings"
)

// treeWriter accumulates an indented structure dump.
type treeWriter struct {
	w strings.Builder
}

func (tw *treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(&tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw *treeWriter) text(depth int, label, value string) {
	for range depth {
		tw.w.WriteString("  ")
	}
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	if len(value) > 0 {
		tw.w.WriteString(strconv.Quote(value))
	}
	tw.w.WriteByte('\n')
}

// DumpBlocks renders the normalized structure of a chapter for
// troubleshooting: one entry per block with its styled spans quoted.
func DumpBlocks(blocks []Block) string {
	tw := &treeWriter{}
	for i, b := range blocks {
		switch t := b.(type) {
		case Paragraph:
			tw.line(0, "[%d] paragraph", i)
		case Heading:
			tw.line(0, "[%d] heading level=%d", i, t.Level)
		case ListItem:
			if t.Ordinal > 0 {
				tw.line(0, "[%d] list item depth=%d ordinal=%d", i, t.Depth, t.Ordinal)
			} else {
				tw.line(0, "[%d] list item depth=%d", i, t.Depth)
			}
		case Quote:
			tw.line(0, "[%d] quote", i)
		case CodeBlock:
			tw.line(0, "[%d] code lang=%q lines=%d", i, t.Lang, len(t.Lines))
			continue
		case Image:
			tw.text(0, fmt.Sprintf("[%d] image", i), t.Alt)
			continue
		}
		for _, sp := range Spans(b) {
			label := sp.Style.String()
			if len(label) == 0 {
				label = "plain"
			}
			if len(sp.Link) > 0 {
				label += " -> " + sp.Link
			}
			tw.text(1, label, sp.Text)
		}
	}
	return tw.w.String()
}
