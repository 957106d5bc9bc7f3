package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"lectern/layout"
)

type wrapTask struct {
	chapter int
	width   int
}

type wrapResult struct {
	chapter int
	width   int
	lines   []layout.Line
	err     error
}

// worker runs layout computations off the foreground loop. Tasks go in
// through a bounded queue, results come back through a channel the
// foreground drains with poll. The layout cache keeps finished work even
// when a result is dropped or arrives stale.
type worker struct {
	tasks   chan wrapTask
	results chan wrapResult
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	log     *zap.Logger
}

func newWorker(run func(ctx context.Context, t wrapTask) ([]layout.Line, error), log *zap.Logger) *worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &worker{
		tasks:   make(chan wrapTask, 16),
		results: make(chan wrapResult, 16),
		cancel:  cancel,
		log:     log,
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-w.tasks:
				lines, err := run(ctx, t)
				select {
				case w.results <- wrapResult{chapter: t.chapter, width: t.width, lines: lines, err: err}:
				case <-ctx.Done():
					return
				default:
					// foreground fell behind; the cache holds the result
				}
			}
		}
	}()
	return w
}

// enqueue posts a task without blocking; a full queue drops the request,
// the next prefetch pass will retry.
func (w *worker) enqueue(t wrapTask) bool {
	select {
	case w.tasks <- t:
		return true
	default:
		w.log.Debug("Prefetch queue full, dropping task",
			zap.Int("chapter", t.chapter), zap.Int("width", t.width))
		return false
	}
}

// poll fetches one finished result without blocking.
func (w *worker) poll() (wrapResult, bool) {
	select {
	case res := <-w.results:
		return res, true
	default:
		return wrapResult{}, false
	}
}

// stop cancels in-flight work and waits for the worker goroutine.
func (w *worker) stop() {
	w.cancel()
	w.wg.Wait()
}
