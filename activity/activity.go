// Package activity turns stream events into display entries for the
// generation activity log. It is independent of transport and
// terminal; rendering decides what an icon or color name means.
package activity

import (
	"fmt"

	"github.com/alexschlessinger/martool/events"
)

// Color names map to renderer styles.
const (
	ColorBlue   = "blue"
	ColorGreen  = "green"
	ColorRed    = "red"
	ColorYellow = "yellow"
	ColorPurple = "purple"
	ColorGray   = "gray"
)

const chunkPreviewLen = 50

// Entry is one rendered activity-log line.
type Entry struct {
	Icon    string
	Color   string
	Message string
}

// Describe maps an event to its log entry. It never panics; events of
// unknown type get their raw payload dumped verbatim.
func Describe(ev *events.Event) Entry {
	switch ev.Type {
	case events.EventTypeStatus:
		agent := ev.Agent
		if agent == "" {
			agent = "System"
		}
		step := ev.Step
		if step == "" {
			step = ev.Status
		}
		return Entry{Icon: "⚙", Color: ColorBlue, Message: fmt.Sprintf("%s: %s", agent, step)}

	case events.EventTypeChunk:
		return Entry{Icon: "✎", Color: ColorGray, Message: preview(ev.Content)}

	case events.EventTypePlatform:
		icon, color := "▶", ColorBlue
		if ev.Action == events.PlatformCompleted {
			icon, color = "✔", ColorGreen
		}
		msg := fmt.Sprintf("Platform %s: %s", ev.Action, ev.Platform)
		if ev.VariantID != "" {
			msg += fmt.Sprintf(" (ID: %s)", ev.VariantID)
		}
		return Entry{Icon: icon, Color: color, Message: msg}

	case events.EventTypeToolStart:
		return Entry{Icon: "🔧", Color: ColorPurple, Message: fmt.Sprintf("Tool: %s - Started", ev.Tool)}

	case events.EventTypeToolEnd:
		return Entry{Icon: "🔧", Color: ColorPurple, Message: fmt.Sprintf("Tool: %s - Completed", ev.Tool)}

	case events.EventTypeDone:
		msg := "Generation complete"
		if id := ev.StringField("masterContentId"); id != "" {
			msg += fmt.Sprintf(" - content %s", id)
		}
		if n, ok := ev.IntField("platformCount"); ok {
			msg += fmt.Sprintf(" (%d platforms)", n)
		}
		return Entry{Icon: "✅", Color: ColorGreen, Message: msg}

	case events.EventTypeError:
		msg := fmt.Sprintf("Error: %s", ev.ErrorText())
		if ev.Step != "" {
			msg += fmt.Sprintf(" (%s)", ev.Step)
		}
		return Entry{Icon: "✗", Color: ColorRed, Message: msg}

	case events.EventTypeWarn:
		msg := ev.Message
		if msg == "" {
			msg = "Generation may still be running on the server."
		}
		return Entry{Icon: "⚠", Color: ColorYellow, Message: msg}

	default:
		return Entry{Icon: "•", Color: ColorGray, Message: string(ev.Raw)}
	}
}

// preview truncates chunk content to its first characters. Rune-based
// so a multi-byte character is never cut in half.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= chunkPreviewLen {
		return content
	}
	return string(runes[:chunkPreviewLen]) + "..."
}
