// Package session owns one open book: its chapter set, the layout cache,
// pane geometry, the reading position and the RSVP player. All session
// methods are driven by the foreground loop; background workers only warm
// the layout cache and report through the result channel.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"lectern/config"
	"lectern/content"
	"lectern/content/text"
	"lectern/layout"
	"lectern/spritz"
)

// Position is a reading position: chapter index plus the first visible
// line of the current page at the primary pane's width.
type Position struct {
	Chapter int
	Line    int
}

// Pane is one independently wrapped and paginated view of the current
// chapter. Dual-pane reading uses two panes at possibly different widths.
type Pane struct {
	Width  int
	Height int
}

type Session struct {
	log    *zap.Logger
	cfg    config.ReaderConfig
	loader Loader
	store  *Store

	refs  []ChapterRef
	split *text.Splitter

	mu     sync.Mutex
	blocks map[int][]content.Block

	cache  *layout.Cache
	panes  []Pane
	pos    Position
	player *spritz.Player
	worker *worker

	// restored playback word index, consumed by the first EnterRSVP
	resumeWord int
}

// New opens a reading session over the loader's book. When a store is
// given, the previous reading position, playback speed and playback word
// are restored.
func New(ctx context.Context, loader Loader, cfg config.ReaderConfig, store *Store, log *zap.Logger) (*Session, error) {
	refs, err := loader.Chapters(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to list chapters: %w", err)
	}

	tag, err := language.Parse(cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("invalid language tag %q: %w", cfg.Language, err)
	}
	var hyph *text.Hyphenator
	if cfg.Hyphenate {
		hyph = text.NewHyphenator(tag, log)
	}

	s := &Session{
		log:    log,
		cfg:    cfg,
		loader: loader,
		store:  store,
		refs:   refs,
		split:  text.NewSplitter(tag, log),
		blocks: make(map[int][]content.Block),
		cache:  layout.NewCache(hyph, cfg.Justify, log),
		panes:  []Pane{{Width: cfg.MinColumnWidth, Height: 24}},
		player: spritz.NewPlayer(cfg.WordsPerMinute, cfg.PauseOnPunctuation,
			time.Duration(cfg.PunctuationPauseMs)*time.Millisecond, log),
		resumeWord: -1,
	}
	s.worker = newWorker(s.computeLines, log)

	if store != nil {
		if pos, ok, err := store.LoadPosition(loader.BookID()); err != nil {
			log.Warn("Unable to restore reading position", zap.Error(err))
		} else if ok && pos.Chapter >= 0 && pos.Chapter < len(refs) {
			s.pos = pos
		}
		if word, wpm, ok, err := store.LoadPlayback(loader.BookID()); err == nil && ok {
			s.player.SetWPM(wpm)
			s.resumeWord = word
		}
	}
	return s, nil
}

func (s *Session) ChapterCount() int      { return len(s.refs) }
func (s *Session) Position() Position     { return s.pos }
func (s *Session) Player() *spritz.Player { return s.player }
func (s *Session) Panes() []Pane          { return s.panes }

// Title returns the display title of a chapter.
func (s *Session) Title(chapter int) string {
	if chapter < 0 || chapter >= len(s.refs) {
		return ""
	}
	return s.refs[chapter].Title
}

func (s *Session) clampWidth(w int) int {
	if w < s.cfg.MinColumnWidth {
		return s.cfg.MinColumnWidth
	}
	if w > s.cfg.MaxColumnWidth {
		return s.cfg.MaxColumnWidth
	}
	return w
}

// blocksFor returns the normalized block sequence of a chapter, fetching
// and normalizing on first use. Safe for worker use.
func (s *Session) blocksFor(ctx context.Context, chapter int) ([]content.Block, error) {
	if chapter < 0 || chapter >= len(s.refs) {
		return nil, fmt.Errorf("chapter %d out of range", chapter)
	}

	s.mu.Lock()
	blocks, ok := s.blocks[chapter]
	s.mu.Unlock()
	if ok {
		return blocks, nil
	}

	rc, err := s.loader.Fetch(ctx, s.refs[chapter].ID)
	if err != nil {
		return nil, fmt.Errorf("unable to load chapter %q: %w", s.refs[chapter].ID, err)
	}
	defer rc.Close()

	blocks, err = content.Normalize(rc, content.NormalizeOptions{AnchorPrefix: fmt.Sprintf("ch%d", chapter+1)}, s.log)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.blocks[chapter] = blocks
	s.mu.Unlock()
	return blocks, nil
}

// Blocks returns the normalized content of a chapter.
func (s *Session) Blocks(ctx context.Context, chapter int) ([]content.Block, error) {
	return s.blocksFor(ctx, chapter)
}

// Lines returns the current chapter wrapped at the pane's width, using the
// cache when warm.
func (s *Session) Lines(ctx context.Context, pane int) ([]layout.Line, error) {
	if pane < 0 || pane >= len(s.panes) {
		return nil, fmt.Errorf("pane %d out of range", pane)
	}
	blocks, err := s.blocksFor(ctx, s.pos.Chapter)
	if err != nil {
		return nil, err
	}
	return s.cache.Lines(s.refs[s.pos.Chapter].ID, s.panes[pane].Width, blocks), nil
}

// Page returns the visible lines and the page range of the current
// position in the given pane. An empty chapter yields an empty page.
func (s *Session) Page(ctx context.Context, pane int) ([]layout.Line, layout.Page, error) {
	lines, err := s.Lines(ctx, pane)
	if err != nil {
		return nil, layout.Page{}, err
	}
	pages := layout.Paginate(len(lines), s.panes[pane].Height)
	pg := layout.PageForLine(pages, s.pos.Line)
	if pg < 0 {
		return nil, layout.Page{}, nil
	}
	page := pages[pg]
	return lines[page.Start:page.End], page, nil
}

// Resize installs the new pane geometry, evicts cache entries for widths
// no pane uses anymore and prefetches layouts for the new widths.
func (s *Session) Resize(panes ...Pane) {
	if len(panes) == 0 {
		return
	}
	s.panes = s.panes[:0]
	widths := make([]int, 0, len(panes))
	for _, p := range panes {
		p.Width = s.clampWidth(p.Width)
		s.panes = append(s.panes, p)
		widths = append(widths, p.Width)
	}
	s.cache.EvictWidths(widths...)
	s.prefetch()
}

// NextPage advances one page, rolling over to the next chapter from the
// last page. Clamps at the end of the book.
func (s *Session) NextPage(ctx context.Context) error {
	lines, err := s.Lines(ctx, 0)
	if err != nil {
		return err
	}
	pages := layout.Paginate(len(lines), s.panes[0].Height)
	cur := layout.PageForLine(pages, s.pos.Line)
	if cur >= 0 && cur < len(pages)-1 {
		s.pos.Line = pages[cur+1].Start
		return nil
	}
	if s.pos.Chapter < len(s.refs)-1 {
		return s.GoToChapter(ctx, s.pos.Chapter+1)
	}
	return nil
}

// PrevPage goes back one page, rolling over to the end of the previous
// chapter from the first page. Clamps at the start of the book.
func (s *Session) PrevPage(ctx context.Context) error {
	lines, err := s.Lines(ctx, 0)
	if err != nil {
		return err
	}
	pages := layout.Paginate(len(lines), s.panes[0].Height)
	cur := layout.PageForLine(pages, s.pos.Line)
	if cur > 0 {
		s.pos.Line = pages[cur-1].Start
		return nil
	}
	if s.pos.Chapter == 0 {
		return nil
	}
	if err := s.GoToChapter(ctx, s.pos.Chapter-1); err != nil {
		return err
	}
	// land on the last page of the previous chapter
	lines, err = s.Lines(ctx, 0)
	if err != nil {
		return err
	}
	if pages := layout.Paginate(len(lines), s.panes[0].Height); len(pages) > 0 {
		s.pos.Line = pages[len(pages)-1].Start
	}
	return nil
}

// GoToChapter jumps to the start of a chapter. Playback state does not
// survive a chapter change. Chapters far outside the prefetch window are
// dropped from memory.
func (s *Session) GoToChapter(ctx context.Context, chapter int) error {
	if chapter < 0 || chapter >= len(s.refs) {
		return fmt.Errorf("chapter %d out of range", chapter)
	}
	if chapter != s.pos.Chapter {
		s.player.Stop()
		s.resumeWord = -1
	}
	s.pos = Position{Chapter: chapter}
	s.evictFarChapters()
	s.prefetch()
	if _, err := s.blocksFor(ctx, chapter); err != nil {
		return err
	}
	return nil
}

// prefetch queues background wraps for the chapters ahead of the reading
// position at every active pane width.
func (s *Session) prefetch() {
	for d := 1; d <= s.cfg.PrefetchWindow; d++ {
		ch := s.pos.Chapter + d
		if ch >= len(s.refs) {
			break
		}
		for _, p := range s.panes {
			if !s.cache.Cached(s.refs[ch].ID, p.Width) {
				s.worker.enqueue(wrapTask{chapter: ch, width: p.Width})
			}
		}
	}
}

// evictFarChapters drops normalized blocks and layouts of chapters well
// outside the prefetch window around the current position.
func (s *Session) evictFarChapters() {
	low := s.pos.Chapter - 1
	high := s.pos.Chapter + s.cfg.PrefetchWindow

	s.mu.Lock()
	var dropped []int
	for ch := range s.blocks {
		if ch < low || ch > high {
			delete(s.blocks, ch)
			dropped = append(dropped, ch)
		}
	}
	s.mu.Unlock()

	for _, ch := range dropped {
		s.cache.Invalidate(s.refs[ch].ID)
	}
}

// computeLines runs on the worker goroutine: it warms the layout cache
// for one (chapter, width) pair.
func (s *Session) computeLines(ctx context.Context, t wrapTask) ([]layout.Line, error) {
	blocks, err := s.blocksFor(ctx, t.chapter)
	if err != nil {
		return nil, err
	}
	return s.cache.Lines(s.refs[t.chapter].ID, t.width, blocks), nil
}

// Poll drains one background result without blocking. It reports whether
// a layout relevant to the current view arrived; stale results (retired
// widths, chapters outside the window) stay in the cache but trigger no
// redraw.
func (s *Session) Poll() bool {
	res, ok := s.worker.poll()
	if !ok {
		return false
	}
	if res.err != nil {
		s.log.Warn("Background wrap failed",
			zap.Int("chapter", res.chapter), zap.Int("width", res.width), zap.Error(res.err))
		return false
	}
	for _, p := range s.panes {
		if p.Width == res.width && res.chapter == s.pos.Chapter {
			return true
		}
	}
	return false
}

// Close stops background work and persists position and playback state.
// The store itself stays open; it belongs to the caller.
func (s *Session) Close() error {
	s.worker.stop()
	if s.store == nil {
		return nil
	}
	var err error
	err = multierr.Append(err, s.store.SavePosition(s.loader.BookID(), s.pos))
	err = multierr.Append(err, s.store.SavePlayback(s.loader.BookID(), s.player.Index(), s.player.WPM()))
	return err
}
