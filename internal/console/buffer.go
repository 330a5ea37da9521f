// Package console holds the log panel state: a capped line buffer with
// pause and filtering, the markup policy for backend text, and the
// scrollable panel that follows new output.
package console

import (
	"strings"

	"github.com/sysmon-tui/sysmon/internal/api"
)

// Control labels for the pause toggle.
const (
	LabelPause  = "Pause"
	LabelResume = "Resume"
)

// DefaultMaxLines is used when a buffer is created without a positive cap.
const DefaultMaxLines = 100

// Buffer is a FIFO of console lines capped at a maximum length.
// While paused, appended lines are discarded, not queued.
type Buffer struct {
	lines   []api.ConsoleLine
	max     int
	paused  bool
	filters []string

	dropped  int
	filtered int
}

// NewBuffer creates a buffer holding at most maxLines lines. Lines whose
// text contains any of filters are never stored.
func NewBuffer(maxLines int, filters []string) *Buffer {
	if maxLines < 1 {
		maxLines = DefaultMaxLines
	}
	return &Buffer{
		lines:   []api.ConsoleLine{},
		max:     maxLines,
		filters: append([]string(nil), filters...),
	}
}

// Append adds lines in order and evicts the oldest beyond the cap.
// It returns how many lines were stored.
func (b *Buffer) Append(lines []api.ConsoleLine) int {
	if len(lines) == 0 {
		return 0
	}
	if b.paused {
		b.dropped += len(lines)
		return 0
	}

	added := 0
	for _, l := range lines {
		if b.Filtered(l.Text) {
			b.filtered++
			continue
		}
		b.lines = append(b.lines, l)
		added++
	}

	if over := len(b.lines) - b.max; over > 0 {
		b.lines = append([]api.ConsoleLine(nil), b.lines[over:]...)
	}
	return added
}

// Filtered reports whether text matches one of the configured filters.
func (b *Buffer) Filtered(text string) bool {
	for _, f := range b.filters {
		if f != "" && strings.Contains(text, f) {
			return true
		}
	}
	return false
}

// Lines returns the buffered lines, oldest first.
func (b *Buffer) Lines() []api.ConsoleLine {
	return b.lines
}

// Len returns the number of buffered lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Max returns the line cap.
func (b *Buffer) Max() int {
	return b.max
}

// SetMax changes the cap and evicts the oldest lines if needed.
func (b *Buffer) SetMax(maxLines int) {
	if maxLines < 1 {
		maxLines = DefaultMaxLines
	}
	b.max = maxLines
	if over := len(b.lines) - b.max; over > 0 {
		b.lines = append([]api.ConsoleLine(nil), b.lines[over:]...)
	}
}

// Clear empties the buffer. The pause state is unchanged.
func (b *Buffer) Clear() {
	b.lines = []api.ConsoleLine{}
}

// Paused reports whether incoming lines are being discarded.
func (b *Buffer) Paused() bool {
	return b.paused
}

// TogglePause flips the pause state and returns the new value.
func (b *Buffer) TogglePause() bool {
	b.paused = !b.paused
	return b.paused
}

// PauseLabel is the label of the pause control for the current state.
func (b *Buffer) PauseLabel() string {
	if b.paused {
		return LabelResume
	}
	return LabelPause
}

// Dropped returns how many lines arrived while paused.
func (b *Buffer) Dropped() int {
	return b.dropped
}

// FilteredCount returns how many lines the filters removed.
func (b *Buffer) FilteredCount() int {
	return b.filtered
}
