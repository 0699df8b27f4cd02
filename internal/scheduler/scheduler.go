package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Manoj-V-348/well-remind/internal/clock"
	"github.com/Manoj-V-348/well-remind/internal/domain"
	"github.com/Manoj-V-348/well-remind/internal/metrics"
	"github.com/Manoj-V-348/well-remind/internal/notify"
)

// PollInterval is the fixed scheduling cadence. A reminder fires at most one
// poll period after it becomes due.
const PollInterval = 10 * time.Second

// Reminders is the part of the reminder store the scheduler needs.
type Reminders interface {
	ApplyDue(now time.Time) []domain.Reminder
}

// Scheduler periodically polls the reminder store and presents due reminders.
type Scheduler struct {
	reminders Reminders
	sink      notify.Sink
	clock     clock.Clock
	log       *zap.Logger
	m         *metrics.Metrics
	interval  time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a Scheduler polling every PollInterval.
func New(reminders Reminders, sink notify.Sink, clk clock.Clock, log *zap.Logger, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		sink:      sink,
		clock:     clk,
		log:       log,
		m:         m,
		interval:  PollInterval,
		stop:      make(chan struct{}),
	}
}

// Run polls immediately and then on every tick until ctx is canceled or Stop is called.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-s.stop:
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// Stop ends Run. Safe to call more than once, before or after Run.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// tick performs one scheduling cycle: fire and reschedule everything due,
// then notify. The store persists once per cycle.
func (s *Scheduler) tick() {
	now := s.clock.Now()
	s.m.Polled()

	fired := s.reminders.ApplyDue(now)
	for _, r := range fired {
		if err := s.present(r); err != nil {
			s.log.Error("present reminder failed", zap.Error(err), zap.String("id", r.ID))
			continue
		}
		s.m.Triggered(string(r.Type))
		s.log.Debug("reminder fired",
			zap.String("id", r.ID),
			zap.Time("next", *r.NextTrigger),
		)
	}
}

// present isolates a single reminder: neither an error nor a panic in one
// notification stops the others.
func (s *Scheduler) present(r domain.Reminder) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sink panic: %v", p)
		}
	}()

	title, body, err := domain.Notification(r)
	if err != nil {
		return err
	}
	if rs, ok := s.sink.(notify.ReminderSink); ok {
		rs.PresentReminder(r, title, body)
		return nil
	}
	s.sink.Present(title, body)
	return nil
}
