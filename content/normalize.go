package content

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// NormalizeOptions influences anchor id generation during normalization.
type NormalizeOptions struct {
	// AnchorPrefix is prepended to generated anchor ids so footnote targets
	// stay unique across chapters of a book.
	AnchorPrefix string
}

// Normalize parses raw chapter markup into an ordered Block sequence.
//
// Parsing is deliberately forgiving - the source material in the wild is
// rarely valid XHTML. Unsupported or unsafe elements (scripts, styles,
// embedded objects) are dropped silently, unparseable input degrades to a
// plain paragraph rendering of its visible text. An error is returned only
// when the input cannot be read at all.
func Normalize(r io.Reader, opts NormalizeOptions, log *zap.Logger) ([]Block, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read chapter markup: %w", err)
	}

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Entity:        namedEntities,
		ValidateInput: false,
		Permissive:    true,
	}

	if err := doc.ReadFromBytes(data); err != nil {
		log.Warn("Malformed chapter markup, degrading to plain text", zap.Error(err))
		return fallbackBlocks(data), nil
	}

	root := doc.Root()
	if root == nil {
		return fallbackBlocks(data), nil
	}

	// Chapter content normally lives under <body> but fragments are common.
	scope := root
	if body := root.FindElement("//body"); body != nil {
		scope = body
	}

	n := &normalizer{opts: opts, log: log}
	blocks := n.collect(scope, 0)
	if len(blocks) == 0 {
		return fallbackBlocks(data), nil
	}
	return blocks, nil
}

type normalizer struct {
	opts NormalizeOptions
	log  *zap.Logger
}

// Tags whose content must not appear in reader output.
func isUnsafeTag(tag string) bool {
	switch tag {
	case "script", "style", "head", "meta", "link", "noscript",
		"object", "embed", "iframe", "video", "audio", "form", "input", "button", "template":
		return true
	}
	return false
}

func isInlineTag(tag string) bool {
	switch tag {
	case "a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "del", "dfn", "em",
		"i", "ins", "kbd", "mark", "q", "s", "samp", "small", "span", "strike",
		"strong", "sub", "sup", "time", "u", "var", "wbr":
		return true
	}
	return false
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// collect walks element children, folding inline content between block
// elements into paragraphs of its own.
func (n *normalizer) collect(el *etree.Element, listDepth int) []Block {
	var out []Block

	sb := newSpanBuilder()
	flushPending := func() {
		if spans := sb.take(); len(spans) > 0 {
			out = append(out, Paragraph{Spans: spans})
		}
	}

	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.writeText(t.Data)
		case *etree.Element:
			tag := strings.ToLower(t.Tag)
			if isUnsafeTag(tag) {
				continue
			}
			if isInlineTag(tag) {
				n.inline(t, sb)
				continue
			}
			if b, ok := n.block(t, listDepth); ok {
				flushPending()
				out = append(out, b...)
				continue
			}
			// Unknown container - recurse, treating it as transparent.
			flushPending()
			out = append(out, n.collect(t, listDepth)...)
		}
	}
	flushPending()
	return out
}

// block converts a single block-level element, returning false when the
// element is not a block we understand.
func (n *normalizer) block(el *etree.Element, listDepth int) ([]Block, bool) {
	tag := strings.ToLower(el.Tag)

	if lvl := headingLevel(tag); lvl > 0 {
		spans := n.inlineSpans(el)
		if len(spans) == 0 {
			return nil, true
		}
		return []Block{Heading{Level: lvl, Spans: spans}}, true
	}

	switch tag {
	case "p", "div":
		if tag == "div" && hasBlockChildren(el) {
			return n.collect(el, listDepth), true
		}
		spans := n.inlineSpans(el)
		if len(spans) == 0 {
			return nil, true
		}
		return []Block{Paragraph{Spans: spans}}, true

	case "blockquote", "aside":
		var out []Block
		if hasBlockChildren(el) {
			for _, b := range n.collect(el, listDepth) {
				// inner structure is flattened into quotes
				if spans := Spans(b); len(spans) > 0 {
					out = append(out, Quote{Spans: spans})
				} else {
					out = append(out, b)
				}
			}
			return out, true
		}
		spans := n.inlineSpans(el)
		if len(spans) == 0 {
			return nil, true
		}
		return []Block{Quote{Spans: spans}}, true

	case "ul", "ol":
		return n.list(el, tag == "ol", listDepth), true

	case "pre":
		return []Block{n.codeBlock(el)}, true

	case "img":
		alt := strings.TrimSpace(el.SelectAttrValue("alt", ""))
		return []Block{Image{Alt: alt}}, true

	case "figure":
		return []Block{n.figure(el)}, true

	case "table":
		return n.table(el), true

	case "dl":
		return n.definitionList(el), true

	case "hr":
		return []Block{Paragraph{Spans: []Span{{Text: "───"}}}}, true

	case "math":
		return []Block{Image{Alt: "math"}}, true
	case "svg":
		return []Block{Image{Alt: "svg"}}, true
	}
	return nil, false
}

func hasBlockChildren(el *etree.Element) bool {
	for _, child := range el.ChildElements() {
		tag := strings.ToLower(child.Tag)
		if isInlineTag(tag) || isUnsafeTag(tag) {
			continue
		}
		return true
	}
	return false
}

func (n *normalizer) list(el *etree.Element, ordered bool, depth int) []Block {
	var out []Block
	ordinal := 0
	for _, li := range el.ChildElements() {
		if strings.ToLower(li.Tag) != "li" {
			continue
		}
		ord := 0
		if ordered {
			ordinal++
			ord = ordinal
		}
		spans := n.inlineSpans(li)
		if len(spans) > 0 {
			out = append(out, ListItem{Depth: depth, Ordinal: ord, Spans: spans})
		}
		// nested lists continue one level deeper
		for _, nested := range li.ChildElements() {
			switch strings.ToLower(nested.Tag) {
			case "ul":
				out = append(out, n.list(nested, false, depth+1)...)
			case "ol":
				out = append(out, n.list(nested, true, depth+1)...)
			}
		}
	}
	return out
}

func (n *normalizer) codeBlock(el *etree.Element) Block {
	lang := ""
	text := ""
	if code := el.FindElement("code"); code != nil {
		lang = langFromClass(code.SelectAttrValue("class", ""))
		// etree Text() stops at the first child element, gather everything
		text = rawText(code)
	} else {
		text = rawText(el)
	}
	text = strings.Trim(text, "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	return CodeBlock{Lang: lang, Lines: lines}
}

func langFromClass(class string) string {
	for _, c := range strings.Fields(class) {
		if l, ok := strings.CutPrefix(c, "language-"); ok {
			return l
		}
		if l, ok := strings.CutPrefix(c, "lang-"); ok {
			return l
		}
	}
	return ""
}

// rawText returns element text content verbatim, without whitespace folding.
func rawText(el *etree.Element) string {
	var sb strings.Builder
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			sb.WriteString(rawText(t))
		}
	}
	return sb.String()
}

func (n *normalizer) figure(el *etree.Element) Block {
	alt := ""
	if img := el.FindElement(".//img"); img != nil {
		alt = strings.TrimSpace(img.SelectAttrValue("alt", ""))
	}
	if cap := el.FindElement(".//figcaption"); cap != nil {
		sb := newSpanBuilder()
		n.inline(cap, sb)
		if caption := spanText(sb.take()); caption != "" {
			alt = caption
		}
	}
	return Image{Alt: alt}
}

// table flattens simple rows into paragraphs, one row per line with cells
// separated by a divider. Full table layout is out of scope.
func (n *normalizer) table(el *etree.Element) []Block {
	var out []Block
	for _, row := range el.FindElements(".//tr") {
		var cells []string
		for _, cell := range row.ChildElements() {
			tag := strings.ToLower(cell.Tag)
			if tag != "td" && tag != "th" {
				continue
			}
			if text := spanText(n.inlineSpans(cell)); text != "" {
				cells = append(cells, text)
			}
		}
		if len(cells) > 0 {
			out = append(out, Paragraph{Spans: []Span{{Text: strings.Join(cells, " | ")}}})
		}
	}
	return out
}

func (n *normalizer) definitionList(el *etree.Element) []Block {
	var out []Block
	for _, child := range el.ChildElements() {
		switch strings.ToLower(child.Tag) {
		case "dt":
			if spans := n.inlineSpans(child); len(spans) > 0 {
				for i := range spans {
					spans[i].Style |= StyleBold
				}
				out = append(out, Paragraph{Spans: spans})
			}
		case "dd":
			if spans := n.inlineSpans(child); len(spans) > 0 {
				out = append(out, Quote{Spans: spans})
			}
		}
	}
	return out
}

// inlineSpans gathers inline content of an element into a fresh span list.
func (n *normalizer) inlineSpans(el *etree.Element) []Span {
	sb := newSpanBuilder()
	n.inline(el, sb)
	return sb.take()
}

// inline walks inline content accumulating styled text.
func (n *normalizer) inline(el *etree.Element, sb *spanBuilder) {
	tag := strings.ToLower(el.Tag)

	var add Style
	link := ""
	switch tag {
	case "b", "strong":
		add = StyleBold
	case "i", "em", "cite", "dfn", "var":
		add = StyleItalic
	case "u", "ins":
		add = StyleUnderline
	case "a":
		if href := el.SelectAttrValue("href", ""); href != "" {
			add = StyleLink
			link = n.anchorID(href)
		}
	case "br":
		sb.writeBreak()
		return
	case "sub", "sup":
		// noteref anchors frequently live inside sup, style bleeds from <a>
	}
	if style := el.SelectAttrValue("style", ""); style != "" {
		add |= styleFromAttr(style)
	}

	sb.push(add, link)
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.writeText(t.Data)
		case *etree.Element:
			ctag := strings.ToLower(t.Tag)
			if isUnsafeTag(ctag) {
				continue
			}
			n.inline(t, sb)
		}
	}
	sb.pop(add, link)
}

// anchorID normalizes a link target to a stable anchor id. Fragment part
// wins when present so intra-book footnote references converge on the same
// id regardless of which file they were written in.
func (n *normalizer) anchorID(href string) string {
	target := href
	if i := strings.IndexByte(href, '#'); i >= 0 {
		target = href[i+1:]
	}
	if target == "" {
		target = href
	}
	id := slug.Make(target)
	if n.opts.AnchorPrefix != "" {
		return n.opts.AnchorPrefix + "-" + id
	}
	return id
}

func spanText(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return strings.TrimSpace(sb.String())
}

// fallbackBlocks renders unparseable markup as plain paragraph text, tags
// stripped. Recovery path - a broken chapter still has to show something.
func fallbackBlocks(data []byte) []Block {
	var sb strings.Builder
	inTag := false
	for _, r := range string(data) {
		switch {
		case r == '<':
			inTag = true
			sb.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	text := strings.Join(strings.Fields(sb.String()), " ")
	if text == "" {
		return nil
	}
	b := newSpanBuilder()
	b.writeText(text)
	spans := b.take()
	if len(spans) == 0 {
		return nil
	}
	return []Block{Paragraph{Spans: spans}}
}

// stripUnprintable drops zero-width and non-printable characters before span
// construction. Whitespace folding happens later in writeText.
func stripUnprintable(r rune) rune {
	switch r {
	// soft hyphen, zero-width spaces and joiners, directional marks,
	// word joiner, BOM.
	case '\u00AD', '\u200B', '\u200C', '\u200D', '\u200E', '\u200F', '\u2060', '\uFEFF':
		return -1
	}
	if r != '\n' && unicode.IsControl(r) {
		return ' '
	}
	return r
}

type spanBuilder struct {
	spans []Span

	cur       strings.Builder
	bold      int
	italic    int
	underline int
	links     []string

	wroteAny  bool
	lastSpace bool
}

func newSpanBuilder() *spanBuilder {
	return &spanBuilder{lastSpace: true} // swallow leading whitespace
}

func (b *spanBuilder) style() Style {
	st := StyleNone
	if b.bold > 0 {
		st |= StyleBold
	}
	if b.italic > 0 {
		st |= StyleItalic
	}
	if b.underline > 0 {
		st |= StyleUnderline
	}
	if len(b.links) > 0 {
		st |= StyleLink
	}
	return st
}

func (b *spanBuilder) link() string {
	if len(b.links) == 0 {
		return ""
	}
	return b.links[len(b.links)-1]
}

func (b *spanBuilder) flush() {
	if b.cur.Len() == 0 {
		return
	}
	b.spans = append(b.spans, Span{Text: b.cur.String(), Style: b.style(), Link: b.link()})
	b.cur.Reset()
}

func (b *spanBuilder) push(add Style, link string) {
	if add == StyleNone {
		return
	}
	b.flush()
	if add.Has(StyleBold) {
		b.bold++
	}
	if add.Has(StyleItalic) {
		b.italic++
	}
	if add.Has(StyleUnderline) {
		b.underline++
	}
	if add.Has(StyleLink) {
		b.links = append(b.links, link)
	}
}

func (b *spanBuilder) pop(add Style, link string) {
	if add == StyleNone {
		return
	}
	b.flush()
	if add.Has(StyleBold) && b.bold > 0 {
		b.bold--
	}
	if add.Has(StyleItalic) && b.italic > 0 {
		b.italic--
	}
	if add.Has(StyleUnderline) && b.underline > 0 {
		b.underline--
	}
	if add.Has(StyleLink) && len(b.links) > 0 {
		b.links = b.links[:len(b.links)-1]
	}
	_ = link
}

// writeText appends character data, collapsing whitespace runs to single
// spaces and stripping unprintable characters.
func (b *spanBuilder) writeText(text string) {
	for _, r := range text {
		r = stripUnprintable(r)
		if r < 0 {
			continue
		}
		if unicode.IsSpace(r) {
			if b.lastSpace {
				continue
			}
			b.cur.WriteRune(' ')
			b.lastSpace = true
			continue
		}
		b.cur.WriteRune(r)
		b.lastSpace = false
		b.wroteAny = true
	}
}

// writeBreak records a mandatory line break (<br>).
func (b *spanBuilder) writeBreak() {
	if !b.wroteAny {
		return
	}
	b.trimTrailingSpace()
	b.cur.WriteRune('\n')
	b.lastSpace = true
}

func (b *spanBuilder) trimTrailingSpace() {
	if b.cur.Len() > 0 {
		s := b.cur.String()
		if trimmed := strings.TrimRight(s, " "); trimmed != s {
			b.cur.Reset()
			b.cur.WriteString(trimmed)
		}
		return
	}
	for len(b.spans) > 0 {
		last := &b.spans[len(b.spans)-1]
		last.Text = strings.TrimRight(last.Text, " ")
		if last.Text != "" {
			return
		}
		b.spans = b.spans[:len(b.spans)-1]
	}
}

// take finalizes and returns accumulated spans, resetting the builder.
func (b *spanBuilder) take() []Span {
	b.flush()
	b.trimTrailingSpace()
	spans := b.spans
	b.spans = nil
	b.wroteAny = false
	b.lastSpace = true
	// drop spans that became empty after trimming
	out := spans[:0]
	for _, s := range spans {
		if s.Text != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
