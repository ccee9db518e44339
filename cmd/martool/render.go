package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/alexschlessinger/martool/activity"
	"github.com/alexschlessinger/martool/events"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// renderer prints activity-log entries as they stream in.
type renderer struct {
	output *termenv.Output
	styled bool
	quiet  bool

	mu       sync.Mutex
	rendered int
}

func newRenderer(quiet bool) *renderer {
	return &renderer{
		output: termenv.NewOutput(os.Stderr),
		styled: isTerminal(),
		quiet:  quiet,
	}
}

// isTerminal checks if output is going to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func (r *renderer) style(color string) termenv.Style {
	s := r.output.String()
	if !r.styled {
		return s
	}
	switch color {
	case activity.ColorBlue:
		return s.Foreground(r.output.Color("32"))
	case activity.ColorGreen:
		return s.Foreground(r.output.Color("65"))
	case activity.ColorRed:
		return s.Foreground(r.output.Color("124"))
	case activity.ColorYellow:
		return s.Foreground(r.output.Color("179"))
	case activity.ColorPurple:
		return s.Foreground(r.output.Color("141"))
	default:
		return s.Faint()
	}
}

// printEvent renders one event line to stderr, keeping stdout free for
// the final result payload.
func (r *renderer) printEvent(ev *events.Event) {
	r.mu.Lock()
	r.rendered++
	r.mu.Unlock()

	if r.quiet {
		return
	}
	entry := activity.Describe(ev)
	line := fmt.Sprintf("%s %s", entry.Icon, entry.Message)
	fmt.Fprintln(os.Stderr, r.style(entry.Color).Styled(line))
}

// printTrailing renders events the live loop never saw, e.g. the
// synthetic interruption advisory appended after the stream died.
func (r *renderer) printTrailing(evs []*events.Event) {
	r.mu.Lock()
	start := r.rendered
	r.mu.Unlock()
	for _, ev := range evs[min(start, len(evs)):] {
		r.printEvent(ev)
	}
}

// printNotice writes an advisory line outside the event flow.
func (r *renderer) printNotice(msg string) {
	fmt.Fprintln(os.Stderr, r.style(activity.ColorYellow).Styled("⚠ "+msg))
}

// printErrorLine writes a failure line.
func (r *renderer) printErrorLine(msg string) {
	fmt.Fprintln(os.Stderr, r.style(activity.ColorRed).Styled("✗ "+msg))
}
