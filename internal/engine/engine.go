// Package engine is the application-facing surface over the reminder store
// and the activity countdown.
package engine

import (
	"fmt"

	"github.com/Manoj-V-348/well-remind/internal/activity"
	"github.com/Manoj-V-348/well-remind/internal/domain"
	"github.com/Manoj-V-348/well-remind/internal/notify"
	"github.com/Manoj-V-348/well-remind/internal/reminder"
)

// Engine exposes reminder and activity operations to transports.
type Engine struct {
	reminders  *reminder.Store
	activities *activity.Driver
}

func New(reminders *reminder.Store, activities *activity.Driver) *Engine {
	return &Engine{reminders: reminders, activities: activities}
}

func (e *Engine) ListReminders() []domain.Reminder {
	return e.reminders.List()
}

func (e *Engine) ToggleReminder(id string) (domain.Reminder, error) {
	return e.reminders.Toggle(id)
}

func (e *Engine) UpdateReminder(id string, f reminder.UpdateFields) (domain.Reminder, error) {
	return e.reminders.Update(id, f)
}

func (e *Engine) ResetReminders() []domain.Reminder {
	return e.reminders.Reset()
}

// ReminderByType returns the reminder of type t.
func (e *Engine) ReminderByType(t domain.Type) (domain.Reminder, error) {
	r, ok := e.reminders.ByType(t)
	if !ok {
		return domain.Reminder{}, fmt.Errorf("%w: no %s reminder", reminder.ErrUnknownReminder, t)
	}
	return r, nil
}

// StartActivity starts the countdown for an activity of type t. Label and
// duration are read from the reminder's current customization.
func (e *Engine) StartActivity(t domain.Type) (*activity.Handle, error) {
	r, err := e.ReminderByType(t)
	if err != nil {
		return nil, err
	}
	label, seconds, err := domain.Activity(r)
	if err != nil {
		return nil, err
	}
	return e.activities.Start(label, seconds)
}

// CurrentActivity returns the active session handle, or nil when idle.
func (e *Engine) CurrentActivity() *activity.Handle {
	return e.activities.Current()
}

// ActivitySnapshot returns the active session, or an Idle session.
func (e *Engine) ActivitySnapshot() activity.Session {
	return e.activities.Snapshot()
}

// CompletionNotifier presents a congratulation when an activity completes.
type CompletionNotifier struct {
	Sink notify.Sink
}

func (n CompletionNotifier) Completed(s activity.Session) {
	n.Sink.Present("Activity Completed", "Great job completing: "+s.Label)
}

func (n CompletionNotifier) Cancelled(activity.Session) {}
