// Package spritz implements the RSVP word stream: extraction of display
// tokens from chapter blocks, optimal-recognition-point computation and the
// timed playback state machine.
package spritz

import (
	"math"
	"strings"

	"github.com/rivo/uniseg"

	"lectern/content"
	"lectern/content/text"
)

// Token is a single RSVP display unit. Text keeps the word as written,
// trailing punctuation included. Chapter and Block locate the word in the
// document so playback position can be mapped back to a page.
type Token struct {
	Text    string
	Punct   PunctClass
	Chapter int
	Block   int
}

// Pivot returns the highlighted character index for this token.
func (t Token) Pivot() int {
	return Pivot(t.Text)
}

// splitter is used receiver-less, purely for its word iteration.
var splitter *text.Splitter

// ExtractWords flattens a chapter's blocks into the RSVP token stream.
// Width plays no role here: tokens come straight from span text, split on
// the same whitespace rules the layout engine uses, so word counts agree
// between the page view and the stream. Code blocks and image placeholders
// contribute nothing.
func ExtractWords(chapter int, blocks []content.Block) []Token {
	var out []Token
	for i, b := range blocks {
		switch b.(type) {
		case content.CodeBlock, content.Image:
			continue
		}
		for word := range splitter.Words(content.PlainText(b), false) {
			out = append(out, Token{
				Text:    word,
				Punct:   Classify(word),
				Chapter: chapter,
				Block:   i,
			})
		}
	}
	return out
}

// Closing quotes and brackets that sit between a word and its effective
// trailing punctuation.
const closers = "\"'”’»]"

// Classify derives the pause class from a word's trailing punctuation:
// sentence-enders get PunctClassSentence, comma-like marks (including a
// closing parenthesis and a trailing hyphen) get PunctClassComma.
func Classify(word string) PunctClass {
	if word == "" {
		return PunctClassNone
	}
	trimmed := strings.TrimRight(word, closers)
	if trimmed == "" {
		trimmed = word
	}
	runes := []rune(trimmed)
	switch runes[len(runes)-1] {
	case '.', '!', '?', ';', ':':
		return PunctClassSentence
	case ',', ')', '-':
		return PunctClassComma
	}
	return PunctClassNone
}

// Pivot computes the optimal recognition point of a word: the grapheme
// index the eye should fixate on. Short words pivot near 35% of their
// length; very long words shift the pivot further left. Words of length
// <= 1 pivot at index 0.
func Pivot(word string) int {
	return pivotForLength(uniseg.GraphemeClusterCount(word))
}

func pivotForLength(l int) int {
	if l <= 1 {
		return 0
	}
	factor := 0.35
	if l > 13 {
		factor = 0.22
	}
	p := int(math.Round(factor * float64(l)))
	if p > l-1 {
		p = l - 1
	}
	return p
}
