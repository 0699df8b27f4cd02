package domain

import "time"

// IsDue reports whether r must fire at now: it is enabled and either has never
// been scheduled or its next trigger is at or before now.
func IsDue(r Reminder, now time.Time) bool {
	if !r.Enabled {
		return false
	}
	return r.NextTrigger == nil || !r.NextTrigger.After(now)
}

// NextFire computes the next trigger time for r relative to now.
// Missed occurrences are never replayed: the schedule always restarts from now.
func NextFire(now time.Time, r Reminder) time.Time {
	return now.UTC().Add(r.Interval())
}

// Arm schedules r from now if it is enabled and clears the schedule otherwise.
func Arm(r *Reminder, now time.Time) {
	if !r.Enabled {
		r.NextTrigger = nil
		return
	}
	next := NextFire(now, *r)
	r.NextTrigger = &next
}

// MarkTriggered records a fire at now and reschedules r.
// LastTriggered never moves backwards, even if the clock does.
func MarkTriggered(r *Reminder, now time.Time) {
	now = now.UTC()
	if r.LastTriggered == nil || now.After(*r.LastTriggered) {
		last := now
		r.LastTriggered = &last
	}
	Arm(r, now)
}
