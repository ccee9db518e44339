package events

import "testing"

func TestTryParse(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantOK   bool
		wantType EventType
	}{
		{"status event", `{"type":"status","agent":"Writer","step":"drafting"}`, true, EventTypeStatus},
		{"done event", `{"type":"done","masterContentId":"mc-1"}`, true, EventTypeDone},
		{"empty object", `{}`, true, ""},
		{"unknown type", `{"type":"telemetry","cpu":42}`, true, "telemetry"},
		{"not json", `NOT_JSON`, false, ""},
		{"truncated json", `{"type":"done"`, false, ""},
		{"json array", `[1,2,3]`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := TryParse([]byte(tt.line))
			if ok != tt.wantOK {
				t.Fatalf("TryParse ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if ev.Type != tt.wantType {
				t.Errorf("type = %q, want %q", ev.Type, tt.wantType)
			}
			if string(ev.Raw) != tt.line {
				t.Errorf("raw payload = %s, want %s", ev.Raw, tt.line)
			}
		})
	}
}

func TestFieldAccessors(t *testing.T) {
	ev, ok := TryParse([]byte(`{"type":"done","masterContentId":"mc-9","platformCount":3,"variants":["a","b"]}`))
	if !ok {
		t.Fatal("parse failed")
	}

	if got := ev.StringField("masterContentId"); got != "mc-9" {
		t.Errorf("StringField = %q, want mc-9", got)
	}
	if n, ok := ev.IntField("platformCount"); !ok || n != 3 {
		t.Errorf("IntField = %d, %v; want 3, true", n, ok)
	}
	if _, ok := ev.Field("missing"); ok {
		t.Error("Field(missing) should not be present")
	}
	if got := ev.StringField("platformCount"); got != "" {
		t.Errorf("StringField on number = %q, want empty", got)
	}
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		typ  EventType
		want bool
	}{
		{EventTypeDone, true},
		{EventTypeError, true},
		{EventTypeStatus, false},
		{EventTypeChunk, false},
		{EventTypeWarn, false},
	}
	for _, tt := range tests {
		ev := &Event{Type: tt.typ}
		if ev.Terminal() != tt.want {
			t.Errorf("Terminal(%q) = %v, want %v", tt.typ, !tt.want, tt.want)
		}
	}
}

func TestErrorText(t *testing.T) {
	ev := &Event{Type: EventTypeError, Error: "boom", Message: "ignored"}
	if ev.ErrorText() != "boom" {
		t.Errorf("ErrorText = %q, want boom", ev.ErrorText())
	}
	ev = &Event{Type: EventTypeError, Message: "fallback"}
	if ev.ErrorText() != "fallback" {
		t.Errorf("ErrorText = %q, want fallback", ev.ErrorText())
	}
}

func TestWarn(t *testing.T) {
	ev := Warn("careful")
	if ev.Type != EventTypeWarn || ev.Message != "careful" {
		t.Fatalf("Warn built %+v", ev)
	}
	if len(ev.Raw) == 0 {
		t.Error("warn event should carry a raw payload for display")
	}
	if got := ev.StringField("message"); got != "careful" {
		t.Errorf("StringField(message) = %q, want careful", got)
	}
}
