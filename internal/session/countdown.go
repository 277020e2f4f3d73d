package session

import (
	"sync"
	"time"
)

// Gate is the countdown ceremony interposed between "learner requested
// level N" and the question loader actually running. It never touches
// network or question state; its single job is sequencing — firing its
// completion callback exactly once after the delay, or never if it is
// cancelled first.
type Gate struct {
	mu    sync.Mutex
	timer *time.Timer
	done  bool
}

// NewGate schedules fire to run once after d. A zero or negative d
// fires on the timer's earliest tick, which keeps tests fast.
func NewGate(d time.Duration, fire func()) *Gate {
	g := &Gate{}
	g.timer = time.AfterFunc(d, func() {
		g.mu.Lock()
		if g.done {
			g.mu.Unlock()
			return
		}
		g.done = true
		g.mu.Unlock()
		fire()
	})
	return g
}

// Cancel suppresses the pending fire. Safe to call multiple times and
// after the gate has fired.
func (g *Gate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return
	}
	g.done = true
	g.timer.Stop()
}
