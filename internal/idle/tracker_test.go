package idle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker(window time.Duration) (*Tracker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	tr := NewTracker(window)
	tr.SetClock(clock.now)
	return tr, clock
}

func TestNewTracker(t *testing.T) {
	tr := NewTracker(time.Minute)
	assert.Equal(t, Active, tr.State())
	assert.False(t, tr.IsIdle())
	assert.False(t, tr.Pending())
	assert.Equal(t, time.Minute, tr.Window())
	assert.Equal(t, "active", tr.State().String())
}

func TestTracker_TouchBeforeStartIsNoop(t *testing.T) {
	tr := NewTracker(time.Minute)
	assert.Nil(t, tr.Touch())
	idle, cmd := tr.Expire(0)
	assert.False(t, idle)
	assert.Nil(t, cmd)
}

func TestTracker_ExpiresOnceAfterQuietWindow(t *testing.T) {
	tr, clock := newTestTracker(time.Minute)
	require.NotNil(t, tr.Start())
	gen := tr.Generation()

	clock.advance(time.Minute)
	idle, cmd := tr.Expire(gen)
	assert.True(t, idle)
	assert.Nil(t, cmd)
	assert.True(t, tr.IsIdle())
	assert.False(t, tr.Pending())
	assert.Equal(t, "idle", tr.State().String())

	idle, cmd = tr.Expire(gen)
	assert.False(t, idle, "second timeout for the same window is ignored")
	assert.Nil(t, cmd)
	assert.True(t, tr.IsIdle())
}

func TestTracker_OneTimerForAnyAmountOfInput(t *testing.T) {
	tr, clock := newTestTracker(time.Minute)
	require.NotNil(t, tr.Start())

	armed := 0
	for i := 0; i < 1000; i++ {
		clock.advance(10 * time.Millisecond)
		if tr.Touch() != nil {
			armed++
		}
	}

	assert.Zero(t, armed, "input while a timer is pending arms nothing")
	assert.True(t, tr.Pending())
}

func TestTracker_ReArmsForRemainingTime(t *testing.T) {
	tr, clock := newTestTracker(time.Minute)
	tr.Start()
	gen := tr.Generation()

	clock.advance(40 * time.Second)
	tr.Touch()
	clock.advance(20 * time.Second)

	idle, cmd := tr.Expire(gen)
	assert.False(t, idle, "activity 20s ago keeps the user active")
	require.NotNil(t, cmd)
	assert.True(t, tr.Pending())
	assert.NotEqual(t, gen, tr.Generation())

	clock.advance(40 * time.Second)
	idle, cmd = tr.Expire(tr.Generation())
	assert.True(t, idle)
	assert.Nil(t, cmd)
}

func TestTracker_TouchWhileIdleReactivates(t *testing.T) {
	tr, clock := newTestTracker(time.Minute)
	tr.Start()
	clock.advance(time.Minute)
	idle, _ := tr.Expire(tr.Generation())
	require.True(t, idle)

	require.NotNil(t, tr.Touch(), "no timer was pending, so input arms one")
	assert.Equal(t, Active, tr.State())

	clock.advance(time.Minute)
	idle, _ = tr.Expire(tr.Generation())
	assert.True(t, idle, "a new quiet window expires again")
}

func TestTracker_StaleGenerationIgnored(t *testing.T) {
	tr, clock := newTestTracker(time.Minute)
	tr.Start()
	stale := tr.Generation()

	clock.advance(time.Minute)
	_, cmd := tr.Expire(stale)
	require.Nil(t, cmd)
	require.True(t, tr.IsIdle())
	tr.Touch()

	idle, cmd := tr.Expire(stale)
	assert.False(t, idle)
	assert.Nil(t, cmd)
	assert.False(t, tr.IsIdle())
	assert.True(t, tr.Pending())
}

func TestTracker_ExactlyOneTransitionPerWindow(t *testing.T) {
	tr, clock := newTestTracker(time.Minute)
	tr.Start()
	first := tr.Generation()

	clock.advance(30 * time.Second)
	tr.Touch()
	clock.advance(30 * time.Second)
	_, cmd := tr.Expire(first)
	require.NotNil(t, cmd)
	second := tr.Generation()

	clock.advance(time.Minute)
	transitions := 0
	for _, g := range []uint64{first, second, first, second} {
		if idle, _ := tr.Expire(g); idle {
			transitions++
		}
	}
	assert.Equal(t, 1, transitions)
}

func TestTracker_ArmDeliversCurrentGeneration(t *testing.T) {
	tr := NewTracker(time.Millisecond)
	cmd := tr.Start()
	require.NotNil(t, cmd)

	msg := cmd()
	timeout, ok := msg.(TimeoutMsg)
	require.True(t, ok)
	assert.Equal(t, tr.Generation(), timeout.Gen)
}

func TestTracker_SetWindow(t *testing.T) {
	tr, clock := newTestTracker(time.Minute)
	tr.Start()
	tr.SetWindow(2 * time.Minute)
	assert.Equal(t, 2*time.Minute, tr.Window())

	clock.advance(time.Minute)
	idle, cmd := tr.Expire(tr.Generation())
	assert.False(t, idle, "the pending timer checks the new window")
	assert.NotNil(t, cmd)
}
