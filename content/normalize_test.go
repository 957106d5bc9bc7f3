package content

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func normalizeString(t *testing.T, markup string) []Block {
	t.Helper()
	blocks, err := Normalize(strings.NewReader(markup), NormalizeOptions{AnchorPrefix: "ch1"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	return blocks
}

func TestNormalizeParagraphStyles(t *testing.T) {
	blocks := normalizeString(t, `<html><body>
		<p>Plain <b>bold <i>both</i></b> tail</p>
	</body></html>`)

	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	p, ok := blocks[0].(Paragraph)
	if !ok {
		t.Fatalf("expected Paragraph, got %T", blocks[0])
	}

	want := []Span{
		{Text: "Plain "},
		{Text: "bold ", Style: StyleBold},
		{Text: "both", Style: StyleBold | StyleItalic},
		{Text: " tail"},
	}
	if len(p.Spans) != len(want) {
		t.Fatalf("expected %d spans, got %d: %+v", len(want), len(p.Spans), p.Spans)
	}
	for i, w := range want {
		if p.Spans[i].Text != w.Text || p.Spans[i].Style != w.Style {
			t.Errorf("span %d: got %+v, want %+v", i, p.Spans[i], w)
		}
	}
}

func TestNormalizeSpanConcatenation(t *testing.T) {
	blocks := normalizeString(t, `<p>The <em>quick</em> brown <strong>fox</strong>.</p>`)
	if got := PlainText(blocks[0]); got != "The quick brown fox." {
		t.Errorf("concatenated text mismatch: %q", got)
	}
}

func TestNormalizeHeadings(t *testing.T) {
	blocks := normalizeString(t, `<body><h1>Title</h1><h3>Sub</h3><p>Body</p></body>`)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	h1, ok := blocks[0].(Heading)
	if !ok || h1.Level != 1 || PlainText(h1) != "Title" {
		t.Errorf("unexpected first heading: %+v", blocks[0])
	}
	h3, ok := blocks[1].(Heading)
	if !ok || h3.Level != 3 {
		t.Errorf("unexpected second heading: %+v", blocks[1])
	}
}

func TestNormalizeLists(t *testing.T) {
	blocks := normalizeString(t, `<body><ol>
		<li>First</li>
		<li>Second<ul><li>Nested</li></ul></li>
	</ol></body>`)

	if len(blocks) != 3 {
		t.Fatalf("expected 3 list items, got %d: %+v", len(blocks), blocks)
	}
	first := blocks[0].(ListItem)
	if first.Ordinal != 1 || first.Depth != 0 {
		t.Errorf("first item: %+v", first)
	}
	second := blocks[1].(ListItem)
	if second.Ordinal != 2 || PlainText(second) != "Second" {
		t.Errorf("second item: %+v", second)
	}
	nested := blocks[2].(ListItem)
	if nested.Ordinal != 0 || nested.Depth != 1 || PlainText(nested) != "Nested" {
		t.Errorf("nested item: %+v", nested)
	}
}

func TestNormalizeQuoteAndCode(t *testing.T) {
	blocks := normalizeString(t, `<body>
		<blockquote>To be or not to be</blockquote>
		<pre><code class="language-go">func main() {
	println("hi")
}</code></pre>
	</body>`)

	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	q, ok := blocks[0].(Quote)
	if !ok || PlainText(q) != "To be or not to be" {
		t.Errorf("unexpected quote: %+v", blocks[0])
	}
	cb, ok := blocks[1].(CodeBlock)
	if !ok {
		t.Fatalf("expected CodeBlock, got %T", blocks[1])
	}
	if cb.Lang != "go" {
		t.Errorf("expected language go, got %q", cb.Lang)
	}
	if len(cb.Lines) != 3 || cb.Lines[1] != "\tprintln(\"hi\")" {
		t.Errorf("code lines preserved incorrectly: %q", cb.Lines)
	}
}

func TestNormalizeFootnoteLink(t *testing.T) {
	blocks := normalizeString(t, `<p>Fact<sup><a href="notes.xhtml#fn_1">1</a></sup> stated.</p>`)
	p := blocks[0].(Paragraph)

	var ref *Span
	for i := range p.Spans {
		if p.Spans[i].Style.Has(StyleLink) {
			ref = &p.Spans[i]
		}
	}
	if ref == nil {
		t.Fatal("no link span produced")
	}
	if ref.Text != "1" {
		t.Errorf("link text: %q", ref.Text)
	}
	if ref.Link != "ch1-fn-1" {
		t.Errorf("anchor id: %q", ref.Link)
	}
}

func TestNormalizeImage(t *testing.T) {
	blocks := normalizeString(t, `<body>
		<img src="cover.png" alt="The cover"/>
		<figure><img src="a.png"/><figcaption>A map</figcaption></figure>
	</body>`)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if img := blocks[0].(Image); img.Alt != "The cover" {
		t.Errorf("alt text: %q", img.Alt)
	}
	if fig := blocks[1].(Image); fig.Alt != "A map" {
		t.Errorf("figure caption wins: %q", fig.Alt)
	}
}

func TestNormalizeDropsUnsafeContent(t *testing.T) {
	blocks := normalizeString(t, `<html><head><title>T</title><style>p{}</style></head><body>
		<script>alert(1)</script>
		<p>Visible</p>
		<iframe src="x"></iframe>
	</body></html>`)
	if len(blocks) != 1 {
		t.Fatalf("expected only visible paragraph, got %d blocks: %+v", len(blocks), blocks)
	}
	if got := PlainText(blocks[0]); got != "Visible" {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestNormalizeWhitespaceFolding(t *testing.T) {
	blocks := normalizeString(t, "<p>  Lots \t of\n   space  </p>")
	if got := PlainText(blocks[0]); got != "Lots of space" {
		t.Errorf("whitespace not folded: %q", got)
	}
}

func TestNormalizeStripsInvisibles(t *testing.T) {
	blocks := normalizeString(t, "<p>so\u00adft\u200bzero\ufeff</p>")
	if got := PlainText(blocks[0]); got != "softzero" {
		t.Errorf("invisible characters survived: %q", got)
	}
}

func TestNormalizeLineBreak(t *testing.T) {
	blocks := normalizeString(t, "<p>first line<br/>second line</p>")
	if got := PlainText(blocks[0]); got != "first line\nsecond line" {
		t.Errorf("br not preserved as mandatory break: %q", got)
	}
}

func TestNormalizeMalformedFallsBack(t *testing.T) {
	blocks := normalizeString(t, `<p>broken <b>markup`)
	if len(blocks) == 0 {
		t.Fatal("expected fallback content for malformed input")
	}
	text := PlainText(blocks[0])
	if !strings.Contains(text, "broken") || !strings.Contains(text, "markup") {
		t.Errorf("fallback lost text: %q", text)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	blocks, err := Normalize(strings.NewReader(""), NormalizeOptions{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(blocks) != 0 {
		t.Errorf("expected no blocks, got %+v", blocks)
	}
}

func TestNormalizeNamedEntities(t *testing.T) {
	blocks := normalizeString(t, `<p>fish&nbsp;&amp;&nbsp;chips&hellip;</p>`)
	if got := PlainText(blocks[0]); got != "fish & chips…" {
		t.Errorf("entity expansion: %q", got)
	}
}

func TestNormalizeTableRows(t *testing.T) {
	blocks := normalizeString(t, `<table><tr><th>Name</th><th>Age</th></tr><tr><td>Ada</td><td>36</td></tr></table>`)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 row paragraphs, got %d", len(blocks))
	}
	if got := PlainText(blocks[1]); got != "Ada | 36" {
		t.Errorf("row text: %q", got)
	}
}
