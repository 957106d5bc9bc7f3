package session

import (
	"context"
	"time"

	"lectern/layout"
	"lectern/spritz"
)

// Words returns the RSVP stream of a chapter.
func (s *Session) Words(ctx context.Context, chapter int) ([]spritz.Token, error) {
	blocks, err := s.blocksFor(ctx, chapter)
	if err != nil {
		return nil, err
	}
	return spritz.ExtractWords(chapter, blocks), nil
}

// EnterRSVP builds the word stream for the current chapter and positions
// the player, paused, on the word owning the first visible line. A
// chapter without words returns spritz.ErrNothingToPlay and the player
// stays stopped. The reading position itself does not move on entry.
//
// The first entry after opening a session resumes at the persisted word
// index, provided that word still belongs to the block under the current
// position.
func (s *Session) EnterRSVP(ctx context.Context) error {
	tokens, err := s.Words(ctx, s.pos.Chapter)
	if err != nil {
		return err
	}

	lines, err := s.Lines(ctx, 0)
	if err != nil {
		return err
	}
	block := 0
	if s.pos.Line >= 0 && s.pos.Line < len(lines) {
		block = lines[s.pos.Line].Block
	}
	start := firstTokenForBlock(tokens, block)
	if w := s.resumeWord; w >= 0 {
		s.resumeWord = -1
		if w < len(tokens) && tokens[w].Block == block {
			start = w
		}
	}
	return s.player.Load(tokens, start)
}

// ExitRSVP stops playback and maps the current word back to a page via
// its owning block. The position only moves when playback left the block
// it started in, so an immediate enter/exit round-trip lands on the same
// page.
func (s *Session) ExitRSVP(ctx context.Context) (Position, error) {
	tok, ok := s.player.Current()
	s.player.Stop()
	if !ok {
		return s.pos, nil
	}

	lines, err := s.Lines(ctx, 0)
	if err != nil {
		return s.pos, err
	}
	if !blockContainsLine(lines, tok.Block, s.pos.Line) {
		if ln := firstLineOfBlock(lines, tok.Block); ln >= 0 {
			s.pos.Line = ln
		}
	}
	// snap to the enclosing page boundary
	pages := layout.Paginate(len(lines), s.panes[0].Height)
	if pg := layout.PageForLine(pages, s.pos.Line); pg >= 0 {
		s.pos.Line = pages[pg].Start
	}
	return s.pos, nil
}

// TickRSVP drives timed playback from the foreground loop's wall clock.
// Reports whether the displayed word changed.
func (s *Session) TickRSVP(now time.Time) bool {
	return s.player.Advance(now)
}

// firstTokenForBlock finds the first token at or after the given block,
// falling back to the last token of the stream.
func firstTokenForBlock(tokens []spritz.Token, block int) int {
	for i, t := range tokens {
		if t.Block >= block {
			return i
		}
	}
	return max(len(tokens)-1, 0)
}

func blockContainsLine(lines []layout.Line, block, line int) bool {
	return line >= 0 && line < len(lines) && lines[line].Block == block
}

func firstLineOfBlock(lines []layout.Line, block int) int {
	for i, ln := range lines {
		if ln.Block == block {
			return i
		}
	}
	return -1
}
