package activity

import (
	"sync"
	"time"
)

// LongRunDelay is how long a run must stay loading before the
// server-side advisory fires.
const LongRunDelay = 30 * time.Second

// LongRunNotice fires a callback once per run after the session has
// been continuously loading for the configured delay. The advisory
// tells the user the job is server-driven and the client may be closed
// safely. When loading stops the pending timer is dropped and the
// notice re-arms for the next run.
type LongRunNotice struct {
	delay  time.Duration
	notify func()

	mu    sync.Mutex
	timer *time.Timer
	fired bool
}

func NewLongRunNotice(delay time.Duration, notify func()) *LongRunNotice {
	if delay <= 0 {
		delay = LongRunDelay
	}
	return &LongRunNotice{delay: delay, notify: notify}
}

// LoadingChanged tracks the session's loading flag. Safe to call
// repeatedly with the same value.
func (n *LongRunNotice) LoadingChanged(loading bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !loading {
		if n.timer != nil {
			n.timer.Stop()
			n.timer = nil
		}
		n.fired = false
		return
	}

	if n.fired || n.timer != nil {
		return
	}
	n.timer = time.AfterFunc(n.delay, func() {
		n.mu.Lock()
		n.fired = true
		n.timer = nil
		n.mu.Unlock()
		n.notify()
	})
}

// Stop drops any pending timer.
func (n *LongRunNotice) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
