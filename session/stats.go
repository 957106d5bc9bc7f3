package session

import (
	"context"
	"time"

	"lectern/content"
)

// Stats summarizes a chapter's prose for progress display.
type Stats struct {
	Blocks      int
	Words       int
	Sentences   int
	ReadingTime time.Duration
}

// ChapterStats counts words and sentences of a chapter's prose blocks and
// estimates reading time at the current playback speed. Code blocks and
// image placeholders are skipped, matching word extraction.
func (s *Session) ChapterStats(ctx context.Context, chapter int) (Stats, error) {
	blocks, err := s.blocksFor(ctx, chapter)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{Blocks: len(blocks)}
	for _, b := range blocks {
		switch b.(type) {
		case content.CodeBlock, content.Image:
			continue
		}
		txt := content.PlainText(b)
		st.Words += s.split.CountWords(txt)
		for range s.split.Sentences(txt) {
			st.Sentences++
		}
	}
	if st.Words > 0 {
		st.ReadingTime = time.Duration(st.Words) * time.Minute / time.Duration(s.player.WPM())
	}
	return st, nil
}
