package layout

import (
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"lectern/content"
	"lectern/content/text"
)

func para(s string) content.Block {
	return content.Paragraph{Spans: []content.Span{{Text: s}}}
}

func sampleChapter() []content.Block {
	return []content.Block{
		content.Heading{Level: 1, Spans: []content.Span{{Text: "Ch.1"}}},
		para("A short test, with a comma."),
	}
}

func nonBlankGraphemes(blocks []content.Block) int {
	n := 0
	for _, b := range blocks {
		for _, r := range content.PlainText(b) {
			if !strings.ContainsRune(" \t\n", r) {
				n++
			}
		}
	}
	return n
}

func TestWrapConcreteScenario(t *testing.T) {
	lines := Wrap(sampleChapter(), Options{Width: 20})

	if len(lines) < 2 {
		t.Fatalf("expected at least 2 lines, got %d", len(lines))
	}
	if got := strings.TrimSpace(lines[0].Text()); got != "Ch.1" {
		t.Errorf("heading line: %q", lines[0].Text())
	}
	if lines[0].Block != 0 {
		t.Errorf("heading back-reference: %d", lines[0].Block)
	}

	var body []string
	for _, ln := range lines[1:] {
		if ln.Blank() {
			continue
		}
		if ln.Block != 1 {
			t.Errorf("paragraph back-reference: %d", ln.Block)
		}
		body = append(body, ln.Text())
	}
	want := []string{"A short test, with a", "comma."}
	if !reflect.DeepEqual(body, want) {
		t.Errorf("paragraph lines: got %q, want %q", body, want)
	}
}

func TestWrapDeterminism(t *testing.T) {
	blocks := sampleChapter()
	first := Wrap(blocks, Options{Width: 20})
	second := Wrap(blocks, Options{Width: 20})
	if !reflect.DeepEqual(first, second) {
		t.Error("two wraps of the same input differ")
	}
}

func TestWrapWidthInvariant(t *testing.T) {
	blocks := []content.Block{
		content.Heading{Level: 2, Spans: []content.Span{{Text: "On the Nature of Things"}}},
		para("It is a truth universally acknowledged, that a single man in possession of a good fortune, must be in want of a wife."),
		content.Quote{Spans: []content.Span{{Text: "Quoted material also has to respect the column width at all times."}}},
		content.ListItem{Ordinal: 1, Spans: []content.Span{{Text: "first item of an enumerated list that wraps"}}},
	}

	for _, width := range []int{20, 33, 47, 80} {
		for _, ln := range Wrap(blocks, Options{Width: width}) {
			if ln.Width() > width {
				t.Errorf("width %d: line %q is %d cells", width, ln.Text(), ln.Width())
			}
		}
	}
}

func TestWrapMinimumWidth(t *testing.T) {
	lines := Wrap([]content.Block{para("tiny column handling")}, Options{Width: 3})
	for _, ln := range lines {
		if ln.Width() > MinWidth {
			t.Errorf("line exceeds clamped minimum width: %q", ln.Text())
		}
	}
}

func TestWrapConservation(t *testing.T) {
	blocks := []content.Block{
		content.Heading{Level: 1, Spans: []content.Span{{Text: "Ch.1"}}},
		para("A short test, with a comma."),
		content.ListItem{Spans: []content.Span{{Text: "bullet content survives wrapping"}}},
		content.Quote{Spans: []content.Span{{Text: "so does quoted text"}}},
	}

	for _, width := range []int{20, 28, 60} {
		got := 0
		for _, ln := range Wrap(blocks, Options{Width: width}) {
			got += ln.ContentGraphemes()
		}
		if want := nonBlankGraphemes(blocks); got != want {
			t.Errorf("width %d: %d content graphemes, want %d", width, got, want)
		}
	}
}

func TestWrapGraphemeClustersNotSplit(t *testing.T) {
	// each emoji with its skin-tone modifier is a single multi-rune cluster
	word := strings.Repeat("👍🏽", 8)
	lines := Wrap([]content.Block{para(word + " " + word)}, Options{Width: 20})

	for _, ln := range lines {
		for _, c := range ln.Cells {
			if !c.Deco && !isBlankGrapheme(c.Grapheme) && c.Grapheme != "👍🏽" {
				t.Errorf("cluster split: cell %q", c.Grapheme)
			}
		}
	}
}

func TestWrapHyphenation(t *testing.T) {
	log, _ := zap.NewDevelopment()
	hyph := text.NewHyphenator(language.English, log)
	if hyph == nil {
		t.Fatal("failed to create hyphenator")
	}

	lines := Wrap([]content.Block{para("An example of hyphenation patterns")},
		Options{Width: 20, Hyphenator: hyph})

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(lines), lines)
	}
	if got := lines[0].Text(); got != "An example of hy-" {
		t.Errorf("first line: %q", got)
	}
	if !lines[0].Hyphen {
		t.Error("hyphenated line must carry the Hyphen flag")
	}
	if got := lines[1].Text(); got != "phenation patterns" {
		t.Errorf("second line: %q", got)
	}
}

func TestWrapHyphenationConserves(t *testing.T) {
	log, _ := zap.NewDevelopment()
	hyph := text.NewHyphenator(language.English, log)
	if hyph == nil {
		t.Fatal("failed to create hyphenator")
	}

	blocks := []content.Block{para("An example of hyphenation patterns")}
	got := 0
	for _, ln := range Wrap(blocks, Options{Width: 20, Hyphenator: hyph}) {
		got += ln.ContentGraphemes()
	}
	if want := nonBlankGraphemes(blocks); got != want {
		t.Errorf("hyphenation changed content grapheme count: %d, want %d", got, want)
	}
}

func TestWrapUnbreakableWord(t *testing.T) {
	word := strings.Repeat("x", 50)
	lines := Wrap([]content.Block{para(word)}, Options{Width: 20})

	total := 0
	for _, ln := range lines {
		if ln.Width() > 20 {
			t.Errorf("line overflows: %d cells", ln.Width())
		}
		total += ln.ContentGraphemes()
	}
	if total != 50 {
		t.Errorf("hard-broken word lost characters: %d of 50", total)
	}
}

func TestWrapQuoteDecoration(t *testing.T) {
	lines := Wrap([]content.Block{
		content.Quote{Spans: []content.Span{{Text: "a rather long quotation that needs more than one line"}}},
	}, Options{Width: 20})

	if len(lines) < 2 {
		t.Fatalf("expected wrapped quote, got %d lines", len(lines))
	}
	for _, ln := range lines {
		if !strings.HasPrefix(ln.Text(), "│ ") {
			t.Errorf("quote line missing bar: %q", ln.Text())
		}
		if !ln.Cells[0].Deco {
			t.Error("quote bar must be a decoration cell")
		}
	}
}

func TestWrapListMarkers(t *testing.T) {
	lines := Wrap([]content.Block{
		content.ListItem{Ordinal: 3, Spans: []content.Span{{Text: "ordered entry"}}},
		content.ListItem{Depth: 1, Spans: []content.Span{{Text: "nested bullet"}}},
	}, Options{Width: 40})

	var texts []string
	for _, ln := range lines {
		if !ln.Blank() {
			texts = append(texts, ln.Text())
		}
	}
	if want := []string{"3. ordered entry", "  • nested bullet"}; !reflect.DeepEqual(texts, want) {
		t.Errorf("list rendering: %q", texts)
	}
}

func TestWrapListContinuationIndent(t *testing.T) {
	lines := Wrap([]content.Block{
		content.ListItem{Spans: []content.Span{{Text: "a bullet item long enough to wrap onto another line"}}},
	}, Options{Width: 20})

	if len(lines) < 2 {
		t.Fatal("expected wrapped list item")
	}
	if !strings.HasPrefix(lines[0].Text(), "• ") {
		t.Errorf("first line marker: %q", lines[0].Text())
	}
	if !strings.HasPrefix(lines[1].Text(), "  ") {
		t.Errorf("continuation indent: %q", lines[1].Text())
	}
}

func TestWrapDeepListIndentClamped(t *testing.T) {
	lines := Wrap([]content.Block{
		content.ListItem{Depth: 9, Spans: []content.Span{{Text: "buried entry far down the outline"}}},
	}, Options{Width: 20})

	if len(lines) == 0 {
		t.Fatal("expected output lines")
	}
	for i, ln := range lines {
		if len(ln.Cells) > 20 {
			t.Errorf("line %d exceeds column: %d cells %q", i, len(ln.Cells), ln.Text())
		}
	}
	if !strings.Contains(lines[0].Text(), "• ") {
		t.Errorf("marker lost to clamping: %q", lines[0].Text())
	}
	if got := strings.TrimSpace(lines[0].Text()); got == "•" || got == "" {
		t.Errorf("no room left for content: %q", lines[0].Text())
	}
}

func TestWrapCodeVerbatim(t *testing.T) {
	lines := Wrap([]content.Block{
		content.CodeBlock{Lang: "go", Lines: []string{
			"short line",
			"a considerably longer code line that cannot fit",
		}},
	}, Options{Width: 20})

	if len(lines) != 2 {
		t.Fatalf("code must keep one display line per source line, got %d", len(lines))
	}
	if got := lines[0].Text(); got != "short line" {
		t.Errorf("verbatim line: %q", got)
	}
	if lines[1].Width() != 20 {
		t.Errorf("truncated line width: %d", lines[1].Width())
	}
	if last := lines[1].Cells[19]; last.Grapheme != "…" || !last.Deco {
		t.Errorf("truncation marker: %+v", last)
	}
}

func TestWrapImagePlaceholder(t *testing.T) {
	lines := Wrap([]content.Block{content.Image{Alt: "a map"}}, Options{Width: 40})
	if len(lines) != 1 {
		t.Fatalf("image must render as one line, got %d", len(lines))
	}
	if got := lines[0].Text(); got != "[image: a map]" {
		t.Errorf("placeholder: %q", got)
	}
	if lines[0].ContentGraphemes() != 0 {
		t.Error("placeholder cells must all be decoration")
	}
}

func TestWrapBlockSeparators(t *testing.T) {
	lines := Wrap([]content.Block{para("one"), para("two"), para("three")}, Options{Width: 20})

	want := []string{"one", "", "two", "", "three"}
	var got []string
	for _, ln := range lines {
		got = append(got, ln.Text())
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("separator layout: %q", got)
	}
	if lines[1].Block != 0 || lines[3].Block != 1 {
		t.Errorf("separator back-references: %d, %d", lines[1].Block, lines[3].Block)
	}
}

func TestWrapMandatoryBreak(t *testing.T) {
	lines := Wrap([]content.Block{para("first line\nsecond line")}, Options{Width: 40})

	var got []string
	for _, ln := range lines {
		got = append(got, ln.Text())
	}
	if want := []string{"first line", "second line"}; !reflect.DeepEqual(got, want) {
		t.Errorf("hard break layout: %q", got)
	}
}

func TestWrapJustify(t *testing.T) {
	lines := Wrap([]content.Block{para("alpha beta gamma delta epsilon zeta eta theta")},
		Options{Width: 20, Justify: true})

	if len(lines) < 2 {
		t.Fatal("expected multiple lines")
	}
	for _, ln := range lines[:len(lines)-1] {
		if ln.Width() != 20 {
			t.Errorf("justified line is %d cells: %q", ln.Width(), ln.Text())
		}
	}
	if last := lines[len(lines)-1]; last.Width() == 20 && strings.HasSuffix(last.Text(), " ") {
		t.Errorf("last line must not be padded: %q", last.Text())
	}
}

func TestWrapEmptyChapter(t *testing.T) {
	if lines := Wrap(nil, Options{Width: 20}); len(lines) != 0 {
		t.Errorf("empty chapter produced %d lines", len(lines))
	}
}
