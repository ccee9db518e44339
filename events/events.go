package events

import (
	"encoding/json"
)

// EventType discriminates the streamed event variants emitted by the
// agent service.
type EventType string

const (
	// EventTypeStatus indicates a named sub-task started
	EventTypeStatus EventType = "status"
	// EventTypeChunk carries an incremental fragment of generated text
	EventTypeChunk EventType = "chunk"
	// EventTypePlatform marks a per-platform sub-job boundary
	EventTypePlatform EventType = "platform"
	// EventTypeToolStart indicates an external tool invocation began
	EventTypeToolStart EventType = "tool_start"
	// EventTypeToolEnd indicates an external tool invocation finished
	EventTypeToolEnd EventType = "tool_end"
	// EventTypeDone is the terminal success event
	EventTypeDone EventType = "done"
	// EventTypeError is the terminal failure event reported by the server
	EventTypeError EventType = "error"
	// EventTypeWarn is a client-synthesized advisory; the server never sends it
	EventTypeWarn EventType = "warn"
)

// Platform action values for EventTypePlatform.
const (
	PlatformStarted   = "started"
	PlatformCompleted = "completed"
)

// Event is a single streamed event from the agent service. Only the
// fields documented for the event's Type are meaningful; everything
// else is left at its zero value. Raw retains the undecoded payload so
// unrecognized variants can still be displayed and so done events can
// expose their operation-specific result fields.
type Event struct {
	Type EventType `json:"type"`

	// status
	Agent  string `json:"agent,omitempty"`
	Step   string `json:"step,omitempty"`
	Status string `json:"status,omitempty"`

	// chunk
	Content string `json:"content,omitempty"`

	// platform
	Action    string `json:"action,omitempty"`
	Platform  string `json:"platform,omitempty"`
	VariantID string `json:"variantId,omitempty"`

	// tool_start / tool_end
	Tool   string `json:"tool,omitempty"`
	Input  any    `json:"input,omitempty"`
	Output any    `json:"output,omitempty"`

	// error / warn
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`

	// Raw is the full wire payload. Done events carry ad hoc result
	// fields (masterContent, variants, counts) that are only reachable
	// through Field.
	Raw json.RawMessage `json:"-"`

	fields map[string]any
}

// Terminal reports whether the event ends a generation session.
// The synthetic warn event also settles a session, but that is the
// session's doing, not the server's.
func (e *Event) Terminal() bool {
	return e.Type == EventTypeDone || e.Type == EventTypeError
}

// Field returns an arbitrary payload field by name. Used for the
// loosely shaped result fields of done events.
func (e *Event) Field(key string) (any, bool) {
	if e.fields == nil {
		return nil, false
	}
	v, ok := e.fields[key]
	return v, ok
}

// StringField returns a payload field as a string, or "" if absent or
// not a string.
func (e *Event) StringField(key string) string {
	if v, ok := e.Field(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// IntField returns a numeric payload field, or (0, false) if absent.
// JSON numbers decode as float64; anything with a fractional part is
// truncated.
func (e *Event) IntField(key string) (int, bool) {
	if v, ok := e.Field(key); ok {
		if f, ok := v.(float64); ok {
			return int(f), true
		}
	}
	return 0, false
}

// ErrorText returns the failure text of an error event, preferring the
// error field over message.
func (e *Event) ErrorText() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// Warn builds the client-side advisory event used when the transport
// drops but the server-side job is presumed to continue.
func Warn(message string) *Event {
	ev := &Event{
		Type:    EventTypeWarn,
		Message: message,
		fields:  map[string]any{"type": string(EventTypeWarn), "message": message},
	}
	ev.Raw, _ = json.Marshal(ev)
	return ev
}
