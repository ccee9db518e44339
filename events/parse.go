package events

import "encoding/json"

// TryParse decodes one JSON event payload. Malformed payloads return
// (nil, false) and are expected to be dropped by the caller; a bad line
// must never take down the stream. Valid objects with an absent or
// unrecognized type still parse, so the session log can show them.
func TryParse(line []byte) (*Event, bool) {
	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return nil, false
	}
	// Keep the loose payload around for done-event result fields and
	// for displaying unknown variants.
	_ = json.Unmarshal(line, &ev.fields)
	ev.Raw = append(json.RawMessage(nil), line...)
	return &ev, true
}
