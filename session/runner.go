package session

import (
	"context"
	"errors"
	"sync"

	"github.com/alexschlessinger/martool/events"
	"go.uber.org/zap"
)

// Operation is one streaming generation call. Implementations block
// until the stream ends, emitting each decoded event in order, and
// return nil on clean stream close, ctx.Err() on cancellation, or the
// transport/protocol failure otherwise.
type Operation func(ctx context.Context, emit func(*events.Event)) error

// Runner drives operations against a single Session. At most one run
// is live at a time; starting a new one tears down its predecessor so
// there are never two writers to the same session state.
type Runner struct {
	session *Session

	mu      sync.Mutex
	current *Handle
}

// Handle identifies one in-flight run. Cancel aborts the underlying
// request; cancellation is caller-initiated and silent, so the session
// is left as-is and it is the caller's job to Reset.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel aborts the run's request and stream.
func (h *Handle) Cancel() {
	h.cancel()
}

// Wait blocks until the run has fully settled.
func (h *Handle) Wait() {
	<-h.done
}

func NewRunner() *Runner {
	return &Runner{session: New()}
}

// Session exposes the runner's session for rendering and inspection.
func (r *Runner) Session() *Session {
	return r.session
}

// Start begins a new run. Any in-flight run is aborted and awaited
// first, then the session is cleared and the operation launched. The
// returned handle settles when the stream ends, the server sends a
// terminal event followed by stream close, or the run is cancelled.
func (r *Runner) Start(parent context.Context, op Operation) *Handle {
	r.mu.Lock()
	prev := r.current
	r.mu.Unlock()
	if prev != nil {
		prev.Cancel()
		prev.Wait()
	}

	ctx, cancel := context.WithCancel(parent)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	r.mu.Lock()
	r.current = h
	r.mu.Unlock()

	r.session.Begin()

	go func() {
		defer close(h.done)
		defer cancel()

		err := op(ctx, func(ev *events.Event) {
			// A cancelled run must not keep mutating session state.
			if ctx.Err() != nil {
				return
			}
			r.session.Apply(ev)
		})

		switch {
		case err == nil:
			r.session.Settle()
		case errors.Is(err, context.Canceled):
			// Caller-initiated, silent. The caller resets when ready.
			zap.S().Debugw("generation run cancelled")
		case errors.Is(err, ErrInterrupted):
			zap.S().Debugw("transport interrupted, downgrading to advisory", "error", err)
			r.session.Interrupt()
		default:
			r.session.Fail(err)
		}
	}()

	return h
}

// Reset aborts any in-flight run and clears the session.
func (r *Runner) Reset() {
	r.mu.Lock()
	prev := r.current
	r.current = nil
	r.mu.Unlock()
	if prev != nil {
		prev.Cancel()
		prev.Wait()
	}
	r.session.Reset()
}
