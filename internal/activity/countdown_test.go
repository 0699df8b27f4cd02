package activity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_RejectsNonPositiveDuration(t *testing.T) {
	var c Countdown
	for _, secs := range []int{0, -5} {
		_, _, err := c.Start("Drink water", secs)
		assert.True(t, errors.Is(err, ErrInvalidDuration))
	}
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestTick_CompletesExactlyOnce(t *testing.T) {
	var c Countdown
	_, _, err := c.Start("10 push-ups", 30)
	require.NoError(t, err)

	completions := 0
	for i := 0; i < 35; i++ {
		s, done := c.Tick()
		if done {
			completions++
			assert.Equal(t, 29, i, "completes on the 30th tick")
			assert.Equal(t, StateCompleted, s.State)
			assert.Equal(t, 0, s.RemainingSeconds)
		}
	}
	assert.Equal(t, 1, completions)
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestPause_TicksDoNotCount(t *testing.T) {
	var c Countdown
	_, _, err := c.Start("10 push-ups", 30)
	require.NoError(t, err)

	require.True(t, c.Pause())
	for i := 0; i < 5; i++ {
		_, done := c.Tick()
		require.False(t, done)
	}
	assert.Equal(t, 30, c.Snapshot().RemainingSeconds)
	assert.Equal(t, StatePaused, c.Snapshot().State)

	require.True(t, c.Resume())
	var done bool
	for i := 0; i < 30; i++ {
		_, done = c.Tick()
		if done {
			assert.Equal(t, 29, i)
			break
		}
	}
	assert.True(t, done)
}

func TestPauseResume_InvalidTransitions(t *testing.T) {
	var c Countdown
	assert.False(t, c.Pause(), "idle")
	assert.False(t, c.Resume(), "idle")
	_, done := c.Tick()
	assert.False(t, done, "idle tick is a no-op")

	_, _, err := c.Start("Drink water", 5)
	require.NoError(t, err)
	assert.False(t, c.Resume(), "already running")
	assert.True(t, c.Pause())
	assert.False(t, c.Pause(), "already paused")
}

func TestCancel_NoCompletion(t *testing.T) {
	var c Countdown
	_, _, err := c.Start("Drink water", 5)
	require.NoError(t, err)
	c.Tick()

	s, ok := c.Cancel()
	require.True(t, ok)
	assert.Equal(t, StateCancelled, s.State)
	assert.Equal(t, 4, s.RemainingSeconds)

	for i := 0; i < 10; i++ {
		_, done := c.Tick()
		assert.False(t, done)
	}
	_, ok = c.Cancel()
	assert.False(t, ok)
}

func TestStart_ReplacesActiveSession(t *testing.T) {
	var c Countdown
	first, replaced, err := c.Start("Drink water", 5)
	require.NoError(t, err)
	assert.Nil(t, replaced)

	second, replaced, err := c.Start("Look away (20-20-20 rule)", 20)
	require.NoError(t, err)
	require.NotNil(t, replaced)
	assert.Equal(t, first.ID, replaced.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 20, c.Snapshot().RemainingSeconds)
}

func TestComplete_Early(t *testing.T) {
	var c Countdown
	_, _, err := c.Start("Drink water", 5)
	require.NoError(t, err)

	s, ok := c.Complete()
	require.True(t, ok)
	assert.Equal(t, StateCompleted, s.State)
	assert.Equal(t, 1.0, s.Progress())

	_, ok = c.Complete()
	assert.False(t, ok)
}

func TestProgress(t *testing.T) {
	var c Countdown
	assert.Equal(t, 0.0, c.Progress())

	_, _, err := c.Start("Look away (20-20-20 rule)", 20)
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Progress())

	for i := 0; i < 5; i++ {
		c.Tick()
	}
	assert.InDelta(t, 0.25, c.Progress(), 1e-9)

	c.Pause()
	assert.InDelta(t, 0.25, c.Progress(), 1e-9)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "paused", StatePaused.String())
	assert.Equal(t, "State(9)", State(9).String())
}
