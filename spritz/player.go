package spritz

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// Words-per-minute bounds enforced on every speed change.
const (
	MinWPM = 100
	MaxWPM = 1000
)

// ErrNothingToPlay signals an attempt to start playback over an empty
// stream; the player stays stopped.
var ErrNothingToPlay = errors.New("nothing to play")

// Player is the RSVP playback state machine. It owns the current word
// index and the Stopped/Playing/Paused status. The caller's foreground
// loop drives it with wall-clock timestamps; the player never sleeps and
// never spawns goroutines.
type Player struct {
	tokens []Token
	idx    int
	state  PlaybackState

	wpm          int
	pauseOnPunct bool
	punctPause   time.Duration
	lastAdvance  time.Time

	log *zap.Logger
}

// NewPlayer creates a stopped player with the given playback settings.
func NewPlayer(wpm int, pauseOnPunct bool, punctPause time.Duration, log *zap.Logger) *Player {
	p := &Player{
		pauseOnPunct: pauseOnPunct,
		punctPause:   punctPause,
		log:          log,
	}
	p.SetWPM(wpm)
	return p
}

// Load installs a token stream and positions the player at start, paused.
// An empty stream keeps the player stopped and returns ErrNothingToPlay.
func (p *Player) Load(tokens []Token, start int) error {
	if len(tokens) == 0 {
		p.Stop()
		return ErrNothingToPlay
	}
	p.tokens = tokens
	p.idx = clamp(start, 0, len(tokens)-1)
	p.state = PlaybackStatePaused
	p.log.Debug("Word stream loaded", zap.Int("tokens", len(tokens)), zap.Int("start", p.idx))
	return nil
}

// Stop drops the token stream and returns to the initial state.
func (p *Player) Stop() {
	p.tokens = nil
	p.idx = 0
	p.state = PlaybackStateStopped
}

func (p *Player) State() PlaybackState { return p.state }
func (p *Player) Index() int           { return p.idx }
func (p *Player) WPM() int             { return p.wpm }

// Current returns the token under the cursor. ok is false when stopped.
func (p *Player) Current() (Token, bool) {
	if p.state == PlaybackStateStopped || len(p.tokens) == 0 {
		return Token{}, false
	}
	return p.tokens[p.idx], true
}

// Play starts timed advancement. No effect when stopped.
func (p *Player) Play(now time.Time) {
	if p.state != PlaybackStatePaused {
		return
	}
	p.state = PlaybackStatePlaying
	p.lastAdvance = now
}

// Pause halts timed advancement, keeping the position. No effect when
// stopped.
func (p *Player) Pause() {
	if p.state == PlaybackStatePlaying {
		p.state = PlaybackStatePaused
	}
}

// Toggle flips between Playing and Paused. No effect when stopped.
func (p *Player) Toggle(now time.Time) {
	switch p.state {
	case PlaybackStatePlaying:
		p.Pause()
	case PlaybackStatePaused:
		p.Play(now)
	}
}

// Delay returns the display duration of the current word: the base
// per-word delay of 60000/wpm ms, extended by the punctuation pause for
// sentence-enders and, when pause-on-punctuation is enabled, comma-class
// words.
func (p *Player) Delay() time.Duration {
	delay := time.Duration(60000/p.wpm) * time.Millisecond
	tok, ok := p.Current()
	if !ok {
		return delay
	}
	switch tok.Punct {
	case PunctClassSentence:
		delay += p.punctPause
	case PunctClassComma:
		if p.pauseOnPunct {
			delay += p.punctPause
		}
	}
	return delay
}

// Advance moves to the next word once the current word's delay has
// elapsed. Only meaningful while playing. Reaching the end of the stream
// pauses playback on the last word. Reports whether the index moved.
func (p *Player) Advance(now time.Time) bool {
	if p.state != PlaybackStatePlaying {
		return false
	}
	if now.Sub(p.lastAdvance) < p.Delay() {
		return false
	}
	if p.idx >= len(p.tokens)-1 {
		p.state = PlaybackStatePaused
		p.log.Debug("Reached end of word stream", zap.Int("index", p.idx))
		return false
	}
	p.idx++
	p.lastAdvance = now
	return true
}

// Step moves the cursor by n words, independent of the timer, clamped to
// the stream bounds. No effect when stopped.
func (p *Player) Step(n int) {
	if p.state == PlaybackStateStopped || len(p.tokens) == 0 {
		return
	}
	p.idx = clamp(p.idx+n, 0, len(p.tokens)-1)
}

// RewindToChapterStart jumps to the first token of the given chapter.
func (p *Player) RewindToChapterStart(chapter int) {
	if p.state == PlaybackStateStopped {
		return
	}
	for i, tok := range p.tokens {
		if tok.Chapter == chapter {
			p.idx = i
			return
		}
	}
}

// FastForwardToChapterEnd jumps to the last token of the given chapter.
func (p *Player) FastForwardToChapterEnd(chapter int) {
	if p.state == PlaybackStateStopped {
		return
	}
	for i := len(p.tokens) - 1; i >= 0; i-- {
		if p.tokens[i].Chapter == chapter {
			p.idx = i
			return
		}
	}
}

// SetWPM sets the playback rate, clamped to [MinWPM, MaxWPM].
func (p *Player) SetWPM(wpm int) {
	p.wpm = clamp(wpm, MinWPM, MaxWPM)
}

// AdjustWPM changes the playback rate by delta, clamped to the bounds.
func (p *Player) AdjustWPM(delta int) {
	p.SetWPM(p.wpm + delta)
}

// Progress reports how far the cursor is through the current chapter's
// tokens, in [0, 1]. Returns 0 when stopped.
func (p *Player) Progress() float64 {
	tok, ok := p.Current()
	if !ok {
		return 0
	}
	total, before := 0, 0
	for i, t := range p.tokens {
		if t.Chapter != tok.Chapter {
			continue
		}
		total++
		if i <= p.idx {
			before++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(before) / float64(total)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
