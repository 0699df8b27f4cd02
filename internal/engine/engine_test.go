package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Manoj-V-348/well-remind/internal/activity"
	"github.com/Manoj-V-348/well-remind/internal/clock"
	"github.com/Manoj-V-348/well-remind/internal/domain"
	"github.com/Manoj-V-348/well-remind/internal/reminder"
	"github.com/Manoj-V-348/well-remind/internal/store"
)

type sink struct {
	mu    sync.Mutex
	title string
	body  string
}

func (s *sink) Present(title, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title, s.body = title, body
}

func newEngine(t *testing.T) (*Engine, *sink) {
	t.Helper()
	rs := reminder.New(store.NewMemory(), clock.NewFake(time.Date(2025, time.May, 5, 9, 0, 0, 0, time.UTC)), zap.NewNop(), nil)
	rs.Load(context.Background())
	t.Cleanup(func() { _ = rs.Close(context.Background()) })

	out := &sink{}
	d := activity.NewDriver(CompletionNotifier{Sink: out}, zap.NewNop(), nil)
	t.Cleanup(d.Close)
	return New(rs, d), out
}

func TestStartActivity_UsesReminderCustomization(t *testing.T) {
	e, _ := newEngine(t)
	reps, name := 12, "Squats"
	_, err := e.UpdateReminder("exercise-reminder", reminder.UpdateFields{Repetitions: &reps, CustomExercise: &name})
	require.NoError(t, err)

	h, err := e.StartActivity(domain.TypeExercise)
	require.NoError(t, err)

	s := h.Snapshot()
	assert.Equal(t, "12 Squats", s.Label)
	assert.Equal(t, domain.ExerciseActivitySeconds, s.TotalSeconds)
	assert.Equal(t, activity.StateRunning, s.State)
	assert.Equal(t, h.ID(), e.CurrentActivity().ID())
}

func TestStartActivity_CompletionIsPresented(t *testing.T) {
	e, out := newEngine(t)

	h, err := e.StartActivity(domain.TypeWater)
	require.NoError(t, err)
	require.True(t, h.Complete())

	out.mu.Lock()
	defer out.mu.Unlock()
	assert.Equal(t, "Activity Completed", out.title)
	assert.Equal(t, "Great job completing: Drink water", out.body)
	assert.Equal(t, activity.StateIdle, e.ActivitySnapshot().State)
}

func TestReminderOperations(t *testing.T) {
	e, _ := newEngine(t)

	r, err := e.ToggleReminder("water-reminder")
	require.NoError(t, err)
	assert.False(t, r.Enabled)

	_, err = e.ToggleReminder("missing")
	assert.True(t, errors.Is(err, reminder.ErrUnknownReminder))

	assert.Equal(t, domain.Defaults(), e.ResetReminders())
	assert.Len(t, e.ListReminders(), 3)
}
