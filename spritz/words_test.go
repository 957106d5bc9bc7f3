package spritz

import (
	"reflect"
	"testing"

	"lectern/content"
)

func testBlocks() []content.Block {
	return []content.Block{
		content.Heading{Level: 1, Spans: []content.Span{{Text: "Ch.1"}}},
		content.Paragraph{Spans: []content.Span{{Text: "A short test, with a comma."}}},
	}
}

func TestExtractWordsScenario(t *testing.T) {
	tokens := ExtractWords(0, testBlocks())

	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}
	want := []string{"Ch.1", "A", "short", "test,", "with", "a", "comma."}
	if !reflect.DeepEqual(texts, want) {
		t.Fatalf("tokens: got %q, want %q", texts, want)
	}

	classes := map[string]PunctClass{
		"A": PunctClassNone, "short": PunctClassNone, "with": PunctClassNone,
		"a": PunctClassNone, "test,": PunctClassComma, "comma.": PunctClassSentence,
	}
	for _, tok := range tokens[1:] {
		if tok.Punct != classes[tok.Text] {
			t.Errorf("%q: class %v, want %v", tok.Text, tok.Punct, classes[tok.Text])
		}
	}
}

func TestExtractWordsBackReferences(t *testing.T) {
	tokens := ExtractWords(3, testBlocks())

	if tokens[0].Block != 0 || tokens[0].Chapter != 3 {
		t.Errorf("heading token refs: %+v", tokens[0])
	}
	for _, tok := range tokens[1:] {
		if tok.Block != 1 {
			t.Errorf("%q: block %d, want 1", tok.Text, tok.Block)
		}
	}
}

func TestExtractWordsSkipsCodeAndImages(t *testing.T) {
	blocks := []content.Block{
		content.CodeBlock{Lines: []string{"func main() {}"}},
		content.Image{Alt: "picture"},
		content.Quote{Spans: []content.Span{{Text: "spoken words"}}},
		content.ListItem{Spans: []content.Span{{Text: "listed words"}}},
	}
	tokens := ExtractWords(0, blocks)

	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %+v", len(tokens), tokens)
	}
	for _, tok := range tokens {
		if tok.Block != 2 && tok.Block != 3 {
			t.Errorf("token %q from excluded block %d", tok.Text, tok.Block)
		}
	}
}

func TestExtractWordsEmpty(t *testing.T) {
	if tokens := ExtractWords(0, nil); len(tokens) != 0 {
		t.Errorf("empty chapter produced tokens: %+v", tokens)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		word string
		want PunctClass
	}{
		{"word", PunctClassNone},
		{"end.", PunctClassSentence},
		{"really!", PunctClassSentence},
		{"why?", PunctClassSentence},
		{"pause;", PunctClassSentence},
		{"intro:", PunctClassSentence},
		{"breath,", PunctClassComma},
		{"(aside)", PunctClassComma},
		{"well-", PunctClassComma},
		{"quoted.”", PunctClassSentence},
		{"nested.'\"", PunctClassSentence},
		{"plain”", PunctClassNone},
		{"", PunctClassNone},
		{"”", PunctClassNone},
	}
	for _, c := range cases {
		if got := Classify(c.word); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.word, got, c.want)
		}
	}
}

func TestPivotShortWords(t *testing.T) {
	// round(0.35*L) clamped to [0, L-1]
	want := map[int]int{
		1: 0, 2: 1, 3: 1, 4: 1, 5: 2, 6: 2, 7: 2,
		8: 3, 9: 3, 10: 4, 11: 4, 12: 4, 13: 5,
	}
	for l, p := range want {
		if got := pivotForLength(l); got != p {
			t.Errorf("length %d: pivot %d, want %d", l, got, p)
		}
	}
}

func TestPivotLongWords(t *testing.T) {
	if got := pivotForLength(14); got != 3 {
		t.Errorf("length 14: pivot %d, want 3", got)
	}
	if got := pivotForLength(20); got != 4 {
		t.Errorf("length 20: pivot %d, want 4", got)
	}
}

func TestPivotGraphemeAware(t *testing.T) {
	// five emoji clusters, not five-times-N runes
	word := "👍🏽👍🏽👍🏽👍🏽👍🏽"
	if got := Pivot(word); got != 2 {
		t.Errorf("emoji word pivot: %d, want 2", got)
	}
	if got := Pivot("a"); got != 0 {
		t.Errorf("single grapheme pivot: %d", got)
	}
	if got := Pivot(""); got != 0 {
		t.Errorf("empty word pivot: %d", got)
	}
}
