package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"lectern/layout"
)

func awaitResult(t *testing.T, w *worker) wrapResult {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if res, ok := w.poll(); ok {
			return res
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no result from worker")
	return wrapResult{}
}

func TestWorkerComputesInBackground(t *testing.T) {
	w := newWorker(func(_ context.Context, task wrapTask) ([]layout.Line, error) {
		return make([]layout.Line, task.chapter*10), nil
	}, zaptest.NewLogger(t))
	defer w.stop()

	if !w.enqueue(wrapTask{chapter: 3, width: 40}) {
		t.Fatal("enqueue refused")
	}
	res := awaitResult(t, w)
	if res.chapter != 3 || res.width != 40 || len(res.lines) != 30 || res.err != nil {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestWorkerReportsErrors(t *testing.T) {
	boom := errors.New("boom")
	w := newWorker(func(context.Context, wrapTask) ([]layout.Line, error) {
		return nil, boom
	}, zaptest.NewLogger(t))
	defer w.stop()

	w.enqueue(wrapTask{chapter: 1, width: 20})
	if res := awaitResult(t, w); !errors.Is(res.err, boom) {
		t.Errorf("error not propagated: %v", res.err)
	}
}

func TestWorkerPollEmpty(t *testing.T) {
	w := newWorker(func(context.Context, wrapTask) ([]layout.Line, error) {
		return nil, nil
	}, zaptest.NewLogger(t))
	defer w.stop()

	if _, ok := w.poll(); ok {
		t.Error("poll returned a result with nothing queued")
	}
}

func TestWorkerStopUnblocks(t *testing.T) {
	started := make(chan struct{})
	w := newWorker(func(ctx context.Context, _ wrapTask) ([]layout.Line, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}, zaptest.NewLogger(t))

	w.enqueue(wrapTask{})
	<-started
	w.stop() // must not hang
}
