package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastask/fastask/internal/api"
)

// Completer is the slice of the API client the relay needs.
type Completer interface {
	Complete(ctx context.Context, req api.CompletionRequest) string
}

// Events are the signals a running session emits back toward the UI. All of
// them fire from the worker's single goroutine, so chunk events are strictly
// ordered and always precede the completion event.
type Events struct {
	// OnChunk fires for every streamed piece of text, in arrival order.
	OnChunk func(text string)
	// OnComplete fires once when a streamed generation completes normally,
	// carrying the full concatenated text. Not fired after cancellation.
	OnComplete func(full string)
	// OnResponse fires once with the whole response of a non-streaming call.
	OnResponse func(text string)
	// OnDone fires when the worker goroutine exits, on every path.
	OnDone func()
}

// Worker executes one API call off the UI loop and relays its results. One
// worker goroutine exists per in-flight request; there is no pool.
type Worker struct {
	client Completer
	log    *zap.SugaredLogger
}

func New(client Completer, log *zap.SugaredLogger) *Worker {
	return &Worker{client: client, log: log}
}

// Run starts the relay goroutine for one request and returns immediately.
func (w *Worker) Run(ctx context.Context, req api.CompletionRequest, ev Events) {
	go w.run(ctx, req, ev)
}

func (w *Worker) run(ctx context.Context, req api.CompletionRequest, ev Events) {
	defer func() {
		if ev.OnDone != nil {
			ev.OnDone()
		}
	}()

	if req.Stream {
		// Accumulate the aggregate here so the completion event carries
		// exactly the concatenation of the forwarded chunks.
		var full string
		req.OnChunk = func(text string) {
			full += text
			if ev.OnChunk != nil {
				ev.OnChunk(text)
			}
		}
		req.OnFinish = func() {
			if ev.OnComplete != nil {
				ev.OnComplete(full)
			}
		}
		w.client.Complete(ctx, req)
		return
	}

	text := w.client.Complete(ctx, req)
	if ev.OnResponse != nil {
		ev.OnResponse(text)
	}
}
