package layout

import "sort"

// Page is a contiguous half-open range [Start, End) of line indices sized to
// a viewport. Pages are cheap stateless projections and are never cached.
type Page struct {
	Start, End int
}

// Paginate slices lineCount lines into pages of at most viewportHeight lines.
// No line is split across pages. An empty chapter yields no pages.
func Paginate(lineCount, viewportHeight int) []Page {
	if lineCount <= 0 || viewportHeight <= 0 {
		return nil
	}
	pages := make([]Page, 0, (lineCount+viewportHeight-1)/viewportHeight)
	for start := 0; start < lineCount; start += viewportHeight {
		end := min(start+viewportHeight, lineCount)
		pages = append(pages, Page{Start: start, End: end})
	}
	return pages
}

// PageForLine returns the index of the page containing the given line.
// Out-of-range lines clamp to the first or last page. Returns -1 only when
// there are no pages at all.
func PageForLine(pages []Page, line int) int {
	if len(pages) == 0 {
		return -1
	}
	if line < pages[0].Start {
		return 0
	}
	last := len(pages) - 1
	if line >= pages[last].End {
		return last
	}
	// page boundaries increase monotonically
	return sort.Search(len(pages), func(i int) bool { return pages[i].End > line })
}
