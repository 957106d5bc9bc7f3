// Package text provides language-aware hyphenation and sentence splitting
// for reader content (pattern handling forked from
// github.com/AlanQuatermain/go-hyphenator and heavily reworked).
package text

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"embed"
	"fmt"
	"io"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed patterns/*.gz
var patternFiles embed.FS

// SoftHyphen marks discretionary break points in hyphenated output.
const SoftHyphen = "\u00ad"

// Hyphenator finds discretionary break points inside words using TeX-style
// patterns. A nil Hyphenator is valid and performs no hyphenation.
type Hyphenator struct {
	*hyph
}

// Some languages require additional specification.
var langMap = map[string]string{
	"en":    "en-us",
	"en-gb": "en-us",
}

func getCompressedPatternData(name string) ([]byte, error) {
	data, err := patternFiles.ReadFile(name)
	if err != nil {
		return nil, err
	}
	r, err := gzip.NewReader(bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func tryLoadPatterns(name, suffix string) ([]byte, error) {
	return getCompressedPatternData(fmt.Sprintf("patterns/hyph-%s.%s.txt.gz", name, suffix))
}

// NewHyphenator loads the hyphenation pattern set for the specified language.
// Returns nil when no suitable pattern set exists; callers treat that as
// hyphenation turned off.
func NewHyphenator(lang language.Tag, log *zap.Logger) *Hyphenator {
	var langName string

	// Try language tag
	name := strings.ToLower(lang.String())
	dataPatterns, err := tryLoadPatterns(name, "pat")
	if err == nil {
		langName = name
	}

	// Try mapped language tag
	if langName == "" {
		if mapped, ok := langMap[name]; ok {
			dataPatterns, err = tryLoadPatterns(mapped, "pat")
			if err == nil {
				langName = mapped
			}
		}
	}

	// Try base language tag
	if langName == "" {
		base, confidence := lang.Base()
		if confidence != language.No {
			name = strings.ToLower(base.String())
			dataPatterns, err = tryLoadPatterns(name, "pat")
			if err == nil {
				langName = name
			}
		} else {
			log.Warn("Unable to determine language base", zap.Stringer("tag", lang), zap.Stringer("base", base))
		}
	}

	// Try mapped base language tag
	if langName == "" && name != "" {
		if mapped, ok := langMap[name]; ok {
			dataPatterns, err = tryLoadPatterns(mapped, "pat")
			if err == nil {
				langName = mapped
			}
		}
	}

	if langName == "" {
		log.Warn("Unable to find suitable hyphenation patterns, turning off hyphenation", zap.Stringer("language", lang))
		return nil
	}

	// Exceptions are optional
	dataExceptions, err := tryLoadPatterns(langName, "hyp")
	if err != nil {
		log.Debug("No hyphenation exceptions found, leaving empty", zap.Stringer("tag", lang), zap.String("name", langName))
		dataExceptions = []byte{}
	}

	h := &hyph{}
	if err = h.loadDictionary(langName, bytes.NewReader(dataPatterns), bytes.NewReader(dataExceptions)); err != nil {
		log.Warn("Unable to load hyphenation patterns", zap.Stringer("tag", lang), zap.Error(err))
		return nil
	}
	return &Hyphenator{h}
}

// Breaks returns ascending rune offsets at which word may be split. Offsets
// never fall inside the first two or last two runes. Exception entries
// override pattern results entirely.
func (h *Hyphenator) Breaks(word string) []int {
	if h == nil || h.hyph == nil {
		return nil
	}
	return h.breaks(word)
}

// Hyphenate inserts soft hyphens into every word of the input string.
func (h *Hyphenator) Hyphenate(in string) string {
	if h == nil || h.hyph == nil {
		return in
	}
	return h.hyphString(in, SoftHyphen)
}

// hyph is the actual implementation.
type hyph struct {
	patterns   *patternTrie
	exceptions map[string][]int
	language   string
}

// loadDictionary imports patterns and exceptions from the provided streams.
func (h *hyph) loadDictionary(language string, patterns, exceptions io.Reader) error {
	if h.language != language {
		h.patterns = nil
		h.exceptions = nil
		h.language = language
	}

	if h.patterns != nil && h.patterns.size() != 0 {
		// already set up
		return nil
	}

	h.patterns = newPatternTrie()
	h.exceptions = make(map[string][]int, 20)

	if err := h.loadPatterns(patterns); err != nil {
		return err
	}
	return h.loadExceptions(exceptions)
}

func (h *hyph) loadPatterns(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.patterns.insert(line)
		}
	}
	return scanner.Err()
}

// Exception lines carry explicit hyphens, e.g. "ta-ble". A line without
// hyphens forbids breaking the word at all.
func (h *hyph) loadExceptions(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var offsets []int
		runeIdx := 0
		for _, sym := range line {
			if sym == '-' {
				offsets = append(offsets, runeIdx)
				continue
			}
			runeIdx++
		}
		key := strings.ToLower(strings.ReplaceAll(line, "-", ""))
		h.exceptions[key] = offsets
	}
	return scanner.Err()
}

// breakPriorities runs the pattern match over ".word." and returns the
// priority of every boundary. Index i is the boundary before rune i of the
// extended string.
func (h *hyph) breakPriorities(word string) []int {
	ext := []rune("." + word + ".")
	prio := make([]int, len(ext)+1)
	for start := range ext {
		h.patterns.scanPrefixes(ext[start:], func(points []int) {
			for k, p := range points {
				if idx := start + k; p > prio[idx] {
					prio[idx] = p
				}
			}
		})
	}
	return prio
}

func (h *hyph) breaks(word string) []int {
	runes := []rune(word)
	if len(runes) < 4 {
		return nil
	}

	key := strings.ToLower(word)
	if offsets, ok := h.exceptions[key]; ok {
		return offsets
	}

	prio := h.breakPriorities(key)

	var out []int
	// boundary before word rune k is prio[k+1]; first and last two runes
	// are never split off
	for k := 2; k <= len(runes)-2; k++ {
		if prio[k+1]%2 != 0 {
			out = append(out, k)
		}
	}
	return out
}

// hyphString hyphenates every letter run of s, passing everything else
// through untouched.
func (h *hyph) hyphString(s, hyphen string) string {
	var out strings.Builder
	var word []rune

	flush := func() {
		if len(word) == 0 {
			return
		}
		w := string(word)
		prev := 0
		for _, k := range h.breaks(w) {
			out.WriteString(string(word[prev:k]))
			out.WriteString(hyphen)
			prev = k
		}
		out.WriteString(string(word[prev:]))
		word = word[:0]
	}

	for _, sym := range s {
		if unicode.IsLetter(sym) {
			word = append(word, sym)
			continue
		}
		flush()
		out.WriteRune(sym)
	}
	flush()
	return out.String()
}
