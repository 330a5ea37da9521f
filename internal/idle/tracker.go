// Package idle tracks whether the user has interacted with the dashboard
// within a configured window.
//
// Touch only records the time of the last activity. At most one timer is
// pending at a time; when it fires early relative to the last activity it
// is re-armed for the remainder of the window, so the switch to Idle
// happens once per quiet window however much input arrives.
package idle

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// State is the activity state.
type State int

const (
	Active State = iota
	Idle
)

func (s State) String() string {
	if s == Idle {
		return "idle"
	}
	return "active"
}

// TimeoutMsg is delivered when the timer armed for Gen elapses.
type TimeoutMsg struct {
	Gen uint64
}

// Tracker holds the idle state machine. It is not safe for concurrent use;
// the dashboard mutates it only from Update.
type Tracker struct {
	window       time.Duration
	state        State
	gen          uint64
	started      bool
	pending      bool
	lastActivity time.Time
	now          func() time.Time
}

// NewTracker creates a tracker in the Active state.
func NewTracker(window time.Duration) *Tracker {
	return &Tracker{window: window, now: time.Now}
}

// SetClock replaces the time source.
func (t *Tracker) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	t.now = now
}

// Start marks the tracker running and returns the first timer.
func (t *Tracker) Start() tea.Cmd {
	t.started = true
	t.state = Active
	t.lastActivity = t.now()
	return t.arm(t.window)
}

// Touch records user activity and makes the state Active. It returns a
// timer only when none is pending, and nil before Start.
func (t *Tracker) Touch() tea.Cmd {
	if !t.started {
		return nil
	}
	t.lastActivity = t.now()
	t.state = Active
	if t.pending {
		return nil
	}
	return t.arm(t.window)
}

// Expire handles a timeout. It reports true when the tracker switched to
// Idle. If there was activity within the window it instead returns a timer
// for the remaining time.
func (t *Tracker) Expire(gen uint64) (bool, tea.Cmd) {
	if !t.started || gen != t.gen {
		return false, nil
	}
	t.pending = false
	if t.state == Idle {
		return false, nil
	}
	if remaining := t.window - t.now().Sub(t.lastActivity); remaining > 0 {
		return false, t.arm(remaining)
	}
	t.state = Idle
	return true, nil
}

// arm starts a new generation and returns a command that delivers its
// TimeoutMsg after d.
func (t *Tracker) arm(d time.Duration) tea.Cmd {
	t.gen++
	t.pending = true
	gen := t.gen
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TimeoutMsg{Gen: gen}
	})
}

// SetWindow changes the idle window. A pending timer checks against the
// new window when it fires.
func (t *Tracker) SetWindow(window time.Duration) {
	t.window = window
}

// Window returns the idle window.
func (t *Tracker) Window() time.Duration {
	return t.window
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// IsIdle reports whether the tracker is in the Idle state.
func (t *Tracker) IsIdle() bool {
	return t.state == Idle
}

// Pending reports whether a timer is armed.
func (t *Tracker) Pending() bool {
	return t.pending
}

// Generation returns the generation of the most recently armed timer.
func (t *Tracker) Generation() uint64 {
	return t.gen
}
