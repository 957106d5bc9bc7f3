package text

import (
	"iter"
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Splitter segments text into sentences and words. A nil Splitter is valid;
// sentence splitting degrades to whole-input passthrough.
type Splitter struct {
	*sentences.DefaultSentenceTokenizer
}

// NewSplitter creates a sentence splitter for the given language. Only an
// English model ships with the binary; other languages disable splitting.
func NewSplitter(lang language.Tag, log *zap.Logger) *Splitter {
	base, confidence := lang.Base()
	if confidence == language.No {
		log.Warn("Unable to determine language base, turning off sentence splitting", zap.Stringer("tag", lang))
		return nil
	}
	if base.String() != "en" {
		log.Warn("No sentence tokenizer model for language, turning off sentence splitting", zap.Stringer("language", lang))
		return nil
	}
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		log.Warn("Unable to load sentence tokenizer model", zap.Stringer("language", lang), zap.Error(err))
		return nil
	}
	return &Splitter{tokenizer}
}

// Split returns a slice of sentences.
// For memory-efficient streaming, use Sentences iterator instead.
func (s *Splitter) Split(in string) []string {
	var result []string
	if s == nil {
		return append(result, in)
	}

	for _, sentence := range s.Tokenize(in) {
		result = append(result, sentence.Text)
	}

	// The tokenizer attributes trailing whitespace of one sentence to the
	// start of the next. Move it back so sentence boundaries line up with
	// the source text.
	for i := range len(result) - 1 {
		for idx, sym := range result[i+1] {
			if !unicode.IsSpace(sym) {
				result[i] = result[i] + result[i+1][0:idx]
				result[i+1] = result[i+1][idx:]
				break
			}
		}
	}
	return result
}

// Sentences returns an iterator over sentences, applying the same whitespace
// reattachment as Split without allocating the whole slice upfront.
func (s *Splitter) Sentences(in string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if s == nil {
			yield(in)
			return
		}

		parts := s.Tokenize(in)
		if len(parts) == 0 {
			return
		}

		for i := 0; i < len(parts)-1; i++ {
			text := parts[i].Text
			next := parts[i+1].Text
			for idx, sym := range next {
				if !unicode.IsSpace(sym) {
					text = text + next[0:idx]
					parts[i+1].Text = next[idx:]
					break
				}
			}
			if !yield(text) {
				return
			}
		}
		yield(parts[len(parts)-1].Text)
	}
}

// Words returns an iterator over whitespace-separated words. NBSP binds
// words together unless ignoreNBSP is set.
func (*Splitter) Words(in string, ignoreNBSP bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		var word strings.Builder
		for _, sym := range in {
			if isSeparator(sym, ignoreNBSP) {
				if word.Len() > 0 && !yield(word.String()) {
					return
				}
				word.Reset()
				continue
			}
			word.WriteRune(sym)
		}
		if word.Len() > 0 {
			yield(word.String())
		}
	}
}

// CountWords reports the number of whitespace-separated words in the input.
func (s *Splitter) CountWords(in string) int {
	n := 0
	for range s.Words(in, false) {
		n++
	}
	return n
}

func isSeparator(r rune, ignoreNBSP bool) bool {
	if uint32(r) <= unicode.MaxLatin1 {
		switch r {
		case '\t', '\n', '\v', '\f', '\r', ' ', 0x85:
			return true
		case 0xA0: // NBSP
			return ignoreNBSP
		}
		return false
	}
	return unicode.IsSpace(r)
}
