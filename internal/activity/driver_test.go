package activity

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorder struct {
	mu        sync.Mutex
	completed []Session
	cancelled []Session
}

func (r *recorder) Completed(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, s)
}

func (r *recorder) Cancelled(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, s)
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.completed), len(r.cancelled)
}

func newTestDriver(t *testing.T) (*Driver, *recorder) {
	t.Helper()
	rec := &recorder{}
	d := NewDriver(rec, zap.NewNop(), nil)
	d.every = 2 * time.Millisecond
	t.Cleanup(d.Close)
	return d, rec
}

func TestDriver_RunsToCompletion(t *testing.T) {
	d, rec := newTestDriver(t)

	h, err := d.Start("Drink water", 5)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		done, _ := rec.counts()
		return done == 1
	}, time.Second, time.Millisecond)

	assert.Equal(t, StateIdle, h.Snapshot().State)
	rec.mu.Lock()
	assert.Equal(t, "Drink water", rec.completed[0].Label)
	rec.mu.Unlock()

	time.Sleep(20 * time.Millisecond)
	done, cancelled := rec.counts()
	assert.Equal(t, 1, done, "completion fires once")
	assert.Equal(t, 0, cancelled)
	assert.False(t, h.Pause(), "finished handle is inert")
}

func TestDriver_PauseStopsTicking(t *testing.T) {
	d, rec := newTestDriver(t)

	h, err := d.Start("10 push-ups", 1000)
	require.NoError(t, err)
	require.True(t, h.Pause())

	before := h.Snapshot().RemainingSeconds
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, h.Snapshot().RemainingSeconds)
	assert.Equal(t, StatePaused, h.Snapshot().State)

	require.True(t, h.Resume())
	require.Eventually(t, func() bool {
		return h.Snapshot().RemainingSeconds < before
	}, time.Second, time.Millisecond)

	require.True(t, h.Cancel())
	_, cancelled := rec.counts()
	assert.Equal(t, 1, cancelled)
}

func TestDriver_ReplacementRetiresOldHandle(t *testing.T) {
	d, rec := newTestDriver(t)

	old, err := d.Start("Drink water", 1000)
	require.NoError(t, err)
	cur, err := d.Start("Look away (20-20-20 rule)", 1000)
	require.NoError(t, err)

	assert.False(t, old.Pause())
	assert.False(t, old.Cancel())
	assert.False(t, old.Complete())
	assert.Equal(t, StateIdle, old.Snapshot().State)

	assert.Equal(t, cur.ID(), d.Current().ID())
	require.True(t, cur.Complete())

	done, cancelled := rec.counts()
	assert.Equal(t, 1, done)
	assert.Equal(t, 0, cancelled)
	assert.Nil(t, d.Current())
}

func TestDriver_InvalidDuration(t *testing.T) {
	d, _ := newTestDriver(t)
	_, err := d.Start("Drink water", 0)
	assert.True(t, errors.Is(err, ErrInvalidDuration))
	assert.Nil(t, d.Current())
}

func TestDriver_CloseIsIdempotent(t *testing.T) {
	d, rec := newTestDriver(t)
	_, err := d.Start("Drink water", 1000)
	require.NoError(t, err)

	d.Close()
	d.Close()

	_, cancelled := rec.counts()
	assert.Equal(t, 1, cancelled)

	_, err = d.Start("Drink water", 5)
	assert.True(t, errors.Is(err, ErrClosed))
}
