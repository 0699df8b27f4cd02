package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Manoj-V-348/well-remind/internal/domain"
)

// RemindersKey is the fixed key the reminder list is stored under.
const RemindersKey = "reminders"

// reminderRecord is the persisted shape of a domain.Reminder.
// Timestamps are ISO-8601 (RFC 3339) strings or null.
type reminderRecord struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	IntervalMinutes int        `json:"intervalMinutes"`
	Enabled         bool       `json:"enabled"`
	LastTriggered   *time.Time `json:"lastTriggered"`
	NextTrigger     *time.Time `json:"nextTrigger"`
	CustomMessage   string     `json:"customMessage,omitempty"`
	CustomExercise  string     `json:"customExercise,omitempty"`
	Repetitions     int        `json:"repetitions,omitempty"`
}

// EncodeReminders serializes the list in order.
func EncodeReminders(list []domain.Reminder) ([]byte, error) {
	recs := make([]reminderRecord, 0, len(list))
	for _, r := range list {
		recs = append(recs, reminderRecord{
			ID:              r.ID,
			Type:            string(r.Type),
			IntervalMinutes: r.IntervalMinutes,
			Enabled:         r.Enabled,
			LastTriggered:   toUTC(r.LastTriggered),
			NextTrigger:     toUTC(r.NextTrigger),
			CustomMessage:   r.CustomMessage,
			CustomExercise:  r.CustomExercise,
			Repetitions:     r.Repetitions,
		})
	}
	return json.Marshal(recs)
}

// DecodeReminders parses a list written by EncodeReminders. It does not
// validate entries; callers repair or reject them.
func DecodeReminders(b []byte) ([]domain.Reminder, error) {
	var recs []reminderRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("decode reminders: %w", err)
	}
	if recs == nil {
		return nil, fmt.Errorf("decode reminders: null list")
	}
	out := make([]domain.Reminder, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.Reminder{
			ID:              rec.ID,
			Type:            domain.Type(rec.Type),
			IntervalMinutes: rec.IntervalMinutes,
			Enabled:         rec.Enabled,
			LastTriggered:   toUTC(rec.LastTriggered),
			NextTrigger:     toUTC(rec.NextTrigger),
			CustomMessage:   rec.CustomMessage,
			CustomExercise:  rec.CustomExercise,
			Repetitions:     rec.Repetitions,
		})
	}
	return out, nil
}

func toUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
