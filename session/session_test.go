package session

import (
	"errors"
	"testing"

	"github.com/alexschlessinger/martool/events"
)

func ev(t *testing.T, line string) *events.Event {
	t.Helper()
	e, ok := events.TryParse([]byte(line))
	if !ok {
		t.Fatalf("bad test payload: %s", line)
	}
	return e
}

func TestApplyAppendsInOrder(t *testing.T) {
	s := New()
	s.Begin()

	s.Apply(ev(t, `{"type":"status","agent":"Writer"}`))
	s.Apply(ev(t, `{"type":"chunk","content":"hello"}`))
	s.Apply(ev(t, `{}`))

	snap := s.Snapshot()
	if len(snap.Events) != 3 {
		t.Fatalf("events = %d, want 3", len(snap.Events))
	}
	if !snap.Loading {
		t.Error("session should still be loading")
	}
	if snap.Result != nil || snap.Err != nil {
		t.Error("no terminal event yet, result and err must be nil")
	}
}

func TestDoneSettlesSession(t *testing.T) {
	s := New()
	s.Begin()

	done := ev(t, `{"type":"done","masterContentId":"mc-1"}`)
	s.Apply(done)

	snap := s.Snapshot()
	if snap.Loading {
		t.Error("loading must be false after done")
	}
	if snap.Result != done {
		t.Error("result must hold the done event")
	}
	if snap.Err != nil {
		t.Errorf("err = %v, want nil", snap.Err)
	}
}

func TestErrorSettlesSessionAndKeepsEvents(t *testing.T) {
	s := New()
	s.Begin()

	s.Apply(ev(t, `{"type":"status"}`))
	s.Apply(ev(t, `{"type":"error","error":"model unavailable","step":"drafting"}`))

	snap := s.Snapshot()
	if snap.Loading {
		t.Error("loading must be false after error")
	}
	if snap.Err == nil || snap.Err.Error() != "model unavailable" {
		t.Errorf("err = %v, want model unavailable", snap.Err)
	}
	if len(snap.Events) != 2 {
		t.Errorf("prior events must remain visible, got %d", len(snap.Events))
	}
}

// Terminal idempotence: events arriving after done are logged but the
// result stands and loading stays false.
func TestEventsAfterDone(t *testing.T) {
	s := New()
	s.Begin()

	first := ev(t, `{"type":"done","masterContentId":"mc-1"}`)
	s.Apply(first)
	s.Apply(ev(t, `{"type":"chunk","content":"late"}`))
	s.Apply(ev(t, `{"type":"done","masterContentId":"mc-2"}`))

	snap := s.Snapshot()
	if len(snap.Events) != 3 {
		t.Fatalf("events = %d, want 3", len(snap.Events))
	}
	if snap.Loading {
		t.Error("loading must not resurrect")
	}
	if snap.Result != first {
		t.Error("first done result must not be overwritten")
	}
}

func TestInterruptAppendsWarnWithoutError(t *testing.T) {
	s := New()
	s.Begin()
	s.Interrupt()

	snap := s.Snapshot()
	if len(snap.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(snap.Events))
	}
	w := snap.Events[0]
	if w.Type != events.EventTypeWarn || w.Message != InterruptMessage {
		t.Errorf("warn event = %+v", w)
	}
	if snap.Err != nil {
		t.Errorf("err = %v, interruption must not set an error", snap.Err)
	}
	if snap.Loading {
		t.Error("loading must be false after interruption")
	}
}

func TestFail(t *testing.T) {
	s := New()
	s.Begin()
	s.Fail(errors.New("boom"))

	snap := s.Snapshot()
	if snap.Err == nil || snap.Err.Error() != "boom" {
		t.Errorf("err = %v, want boom", snap.Err)
	}
	if snap.Loading {
		t.Error("loading must be false after failure")
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := New()
	s.Begin()
	s.Apply(ev(t, `{"type":"chunk","content":"x"}`))
	s.Apply(ev(t, `{"type":"done"}`))
	s.Fail(errors.New("late failure"))

	s.Reset()

	snap := s.Snapshot()
	if len(snap.Events) != 0 || snap.Err != nil || snap.Result != nil || snap.Loading {
		t.Errorf("reset left state behind: %+v", snap)
	}
}

func TestBeginImpliesReset(t *testing.T) {
	s := New()
	s.Begin()
	s.Apply(ev(t, `{"type":"done"}`))

	s.Begin()
	snap := s.Snapshot()
	if len(snap.Events) != 0 || snap.Result != nil {
		t.Error("Begin must clear the previous run")
	}
	if !snap.Loading {
		t.Error("Begin must set loading")
	}
}
