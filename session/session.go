// Package session owns the state of one generation run: the ordered
// event log, the loading flag, the terminal error, and the final
// result payload. It is the single writer of that state; transports
// push decoded events in, views read snapshots out.
package session

import (
	"errors"
	"sync"

	"github.com/alexschlessinger/martool/events"
)

// InterruptMessage is the advisory appended when the transport drops
// before the server responds. The generation job keeps running
// server-side, so this is deliberately not an error.
const InterruptMessage = "Connection interrupted. Generation continues on server."

// ErrInterrupted classifies a transport failure where the request
// never produced a response. Operation implementations wrap their
// transport errors with it so the runner can downgrade the failure to
// a warn event instead of surfacing an error.
var ErrInterrupted = errors.New("connection interrupted")

// Session accumulates events for a single generation run.
type Session struct {
	mu      sync.Mutex
	events  []*events.Event
	loading bool
	err     error
	result  *events.Event
}

// Snapshot is a point-in-time copy of session state.
type Snapshot struct {
	Events  []*events.Event
	Loading bool
	Err     error
	Result  *events.Event
}

func New() *Session {
	return &Session{}
}

// Begin clears any prior run and marks the session loading. Starting a
// run always implies a reset first.
func (s *Session) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	s.loading = true
}

// Apply appends a decoded event and performs terminal-event
// bookkeeping. Every event is appended regardless of type, including
// empty or unrecognized payloads; only done and error get special
// handling. If the server keeps talking after a done event, the extra
// events are logged but the result is not overwritten and loading is
// not resurrected.
func (s *Session) Apply(ev *events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, ev)

	switch ev.Type {
	case events.EventTypeDone:
		if s.result == nil {
			s.result = ev
		}
		s.loading = false
	case events.EventTypeError:
		if s.err == nil {
			s.err = errors.New(ev.ErrorText())
		}
		s.loading = false
	}
}

// Fail records a transport or protocol failure and ends the run. The
// collected events stay visible for diagnosis.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
	s.loading = false
}

// Interrupt ends the run with the synthetic warn advisory. It
// explicitly leaves the error nil: a dropped connection does not mean
// the server-side job failed.
func (s *Session) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events.Warn(InterruptMessage))
	s.loading = false
}

// Settle stops loading without recording an outcome. Used when the
// stream closes cleanly but the server never sent a terminal event.
func (s *Session) Settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

// Reset returns the session to its initial state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Session) clearLocked() {
	s.events = nil
	s.err = nil
	s.result = nil
	s.loading = false
}

// Snapshot returns a copy of the current state. The event slice is
// copied; the events themselves are immutable once applied.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	evs := make([]*events.Event, len(s.events))
	copy(evs, s.events)
	return Snapshot{
		Events:  evs,
		Loading: s.loading,
		Err:     s.err,
		Result:  s.result,
	}
}

// Loading reports whether a run is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
