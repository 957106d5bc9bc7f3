package text

// patternTrie indexes TeX-style hyphenation patterns by rune. Each stored
// pattern carries a priority vector with one entry per inter-letter boundary,
// including the boundaries before the first and after the last letter.
type patternTrie struct {
	terminal bool
	points   []int
	children map[rune]*patternTrie
}

func newPatternTrie() *patternTrie {
	return &patternTrie{children: make(map[rune]*patternTrie)}
}

// insert parses a pattern of the form ".hy2p" and stores it. A digit sets
// the priority of the boundary before the following letter; boundaries
// without a digit default to zero.
func (t *patternTrie) insert(pattern string) {
	var letters []rune
	var points []int

	pending := 0
	for _, sym := range pattern {
		if sym >= '0' && sym <= '9' {
			pending = int(sym - '0')
			continue
		}
		letters = append(letters, sym)
		points = append(points, pending)
		pending = 0
	}
	if len(letters) == 0 {
		return
	}
	points = append(points, pending)

	node := t
	for _, sym := range letters {
		child := node.children[sym]
		if child == nil {
			child = newPatternTrie()
			node.children[sym] = child
		}
		node = child
	}
	node.terminal = true
	node.points = points
}

// scanPrefixes calls fn for every stored pattern matching an anchored prefix
// of runes, passing the pattern's priority vector. points[k] belongs to the
// boundary before runes[k].
func (t *patternTrie) scanPrefixes(runes []rune, fn func(points []int)) {
	node := t
	for _, sym := range runes {
		child := node.children[sym]
		if child == nil {
			return
		}
		if child.terminal {
			fn(child.points)
		}
		node = child
	}
}

// size counts all nodes excluding the root.
func (t *patternTrie) size() int {
	n := len(t.children)
	for _, child := range t.children {
		n += child.size()
	}
	return n
}
