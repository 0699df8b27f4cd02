package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Manoj-V-348/well-remind/internal/clock"
	"github.com/Manoj-V-348/well-remind/internal/domain"
	"github.com/Manoj-V-348/well-remind/internal/reminder"
	"github.com/Manoj-V-348/well-remind/internal/store"
)

var t0 = time.Date(2025, time.May, 5, 9, 0, 0, 0, time.UTC)

type note struct{ title, body string }

type captureSink struct {
	mu    sync.Mutex
	notes []note
	panic bool
}

func (c *captureSink) Present(title, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = append(c.notes, note{title, body})
	if c.panic && title == "Eye Rest" {
		panic("sink exploded")
	}
}

func (c *captureSink) take() []note {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.notes
	c.notes = nil
	return out
}

func setup(t *testing.T) (*Scheduler, *reminder.Store, *captureSink, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(t0)
	rs := reminder.New(store.NewMemory(), clk, zap.NewNop(), nil)
	rs.Load(context.Background())
	t.Cleanup(func() { _ = rs.Close(context.Background()) })

	sink := &captureSink{}
	return New(rs, sink, clk, zap.NewNop(), nil), rs, sink, clk
}

func TestTick_FirstPollFiresUnscheduled(t *testing.T) {
	s, _, sink, _ := setup(t)

	s.tick()
	notes := sink.take()
	require.Len(t, notes, 3)
	// id order: exercise-reminder, eyes-reminder, water-reminder
	assert.Equal(t, note{"Activity Break", "Time for 10 Push-ups!"}, notes[0])
	assert.Equal(t, note{"Eye Rest", "Look at something 20 feet away for 20 seconds"}, notes[1])
	assert.Equal(t, note{"Hydration Break", "Time to hydrate"}, notes[2])
}

func TestTick_FiresExactlyAtNextTrigger(t *testing.T) {
	s, rs, sink, clk := setup(t)
	s.tick()
	sink.take()

	eyes, err := rs.Get("eyes-reminder")
	require.NoError(t, err)
	due := *eyes.NextTrigger
	require.Equal(t, t0.Add(20*time.Minute), due)

	clk.Set(due.Add(-time.Second))
	s.tick()
	assert.Empty(t, sink.take())

	clk.Set(due)
	s.tick()
	notes := sink.take()
	require.Len(t, notes, 1)
	assert.Equal(t, "Eye Rest", notes[0].title)

	eyes, err = rs.Get("eyes-reminder")
	require.NoError(t, err)
	assert.Equal(t, due, *eyes.LastTriggered)
	assert.Equal(t, due.Add(20*time.Minute), *eyes.NextTrigger)
}

func TestTick_MissedTicksFireOnce(t *testing.T) {
	s, rs, sink, clk := setup(t)
	s.tick()
	sink.take()

	// process suspended for most of a day
	late := clk.Advance(17 * time.Hour)
	s.tick()
	assert.Len(t, sink.take(), 3, "one trigger per reminder, no catch-up burst")

	s.tick()
	assert.Empty(t, sink.take())

	eyes, err := rs.Get("eyes-reminder")
	require.NoError(t, err)
	assert.Equal(t, late.Add(20*time.Minute), *eyes.NextTrigger, "rescheduled from the poll time")
}

func TestTick_DisabledReminderSkipped(t *testing.T) {
	s, rs, sink, clk := setup(t)
	s.tick()
	sink.take()

	_, err := rs.Toggle("eyes-reminder")
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	s.tick()
	for _, n := range sink.take() {
		assert.NotEqual(t, "Eye Rest", n.title)
	}
}

func TestTick_OneBadReminderDoesNotBlockOthers(t *testing.T) {
	s, _, sink, _ := setup(t)
	sink.panic = true

	assert.NotPanics(t, s.tick)
	assert.Len(t, sink.take(), 3)
}

type typedSink struct {
	captureSink
	types []domain.Type
}

func (s *typedSink) PresentReminder(r domain.Reminder, title, body string) {
	s.mu.Lock()
	s.types = append(s.types, r.Type)
	s.mu.Unlock()
	s.Present(title, body)
}

func TestTick_ReminderSinkReceivesReminder(t *testing.T) {
	clk := clock.NewFake(t0)
	rs := reminder.New(store.NewMemory(), clk, zap.NewNop(), nil)
	rs.Load(context.Background())
	t.Cleanup(func() { _ = rs.Close(context.Background()) })

	sink := &typedSink{}
	New(rs, sink, clk, zap.NewNop(), nil).tick()

	assert.Equal(t, []domain.Type{domain.TypeExercise, domain.TypeEyes, domain.TypeWater}, sink.types)
	assert.Len(t, sink.take(), 3)
}

type fakeReminders struct{ fired []domain.Reminder }

func (f fakeReminders) ApplyDue(time.Time) []domain.Reminder { return f.fired }

func TestTick_UnknownTypeIsLoggedAndSkipped(t *testing.T) {
	next := t0.Add(time.Hour)
	sink := &captureSink{}
	s := New(fakeReminders{fired: []domain.Reminder{
		{ID: "a", Type: "yoga", Enabled: true, NextTrigger: &next},
		{ID: "b", Type: domain.TypeWater, Enabled: true, NextTrigger: &next},
	}}, sink, clock.NewFake(t0), zap.NewNop(), nil)

	s.tick()
	notes := sink.take()
	require.Len(t, notes, 1)
	assert.Equal(t, "Hydration Break", notes[0].title)
}

func TestRun_StopIsIdempotent(t *testing.T) {
	s, _, sink, _ := setup(t)
	s.interval = 5 * time.Millisecond

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		return len(sink.notes) == 3
	}, time.Second, time.Millisecond, "Run polls immediately")

	s.Stop()
	s.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestRun_ContextCancel(t *testing.T) {
	s, _, _, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
