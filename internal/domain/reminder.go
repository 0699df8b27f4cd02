package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Type identifies the wellness activity a reminder is about.
type Type string

const (
	TypeWater    Type = "water"
	TypeEyes     Type = "eyes"
	TypeExercise Type = "exercise"
)

// Types lists every reminder type in default-set order.
var Types = []Type{TypeWater, TypeEyes, TypeExercise}

var ErrUnknownType = errors.New("unknown reminder type")

// Interval and repetition bounds.
const (
	MinIntervalMinutes = 5
	MaxIntervalMinutes = 180
	MinRepetitions     = 1
	MaxRepetitions     = 30
	DefaultRepetitions = 10
)

// Reminder is one recurring wellness reminder.
type Reminder struct {
	ID              string
	Type            Type
	IntervalMinutes int
	Enabled         bool
	LastTriggered   *time.Time // UTC, nullable
	NextTrigger     *time.Time // UTC, nil while disabled or not yet scheduled
	CustomMessage   string     // water, eyes
	CustomExercise  string     // exercise
	Repetitions     int        // exercise; 0 means default
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	switch t {
	case TypeWater, TypeEyes, TypeExercise:
		return true
	}
	return false
}

// ParseType accepts a type name case-insensitively, plus a couple of aliases.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "water", "hydration":
		return TypeWater, nil
	case "eyes", "eye":
		return TypeEyes, nil
	case "exercise", "activity":
		return TypeExercise, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Defaults returns a fresh copy of the default reminder set, one per type.
func Defaults() []Reminder {
	return []Reminder{
		{
			ID:              "water-reminder",
			Type:            TypeWater,
			IntervalMinutes: 90,
			Enabled:         true,
			CustomMessage:   "Time to hydrate",
		},
		{
			ID:              "eyes-reminder",
			Type:            TypeEyes,
			IntervalMinutes: 20,
			Enabled:         true,
			CustomMessage:   "Look at something 20 feet away for 20 seconds",
		},
		{
			ID:              "exercise-reminder",
			Type:            TypeExercise,
			IntervalMinutes: 90,
			Enabled:         true,
			CustomExercise:  "Push-ups",
			Repetitions:     DefaultRepetitions,
		},
	}
}

// DefaultFor returns the default reminder of type t.
func DefaultFor(t Type) (Reminder, bool) {
	for _, r := range Defaults() {
		if r.Type == t {
			return r, true
		}
	}
	return Reminder{}, false
}

// Clone returns a copy that shares no timestamp pointers with r.
func (r Reminder) Clone() Reminder {
	r.LastTriggered = cloneTime(r.LastTriggered)
	r.NextTrigger = cloneTime(r.NextTrigger)
	return r
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// ClampInterval forces minutes into [MinIntervalMinutes, MaxIntervalMinutes].
func ClampInterval(minutes int) int {
	if minutes < MinIntervalMinutes {
		return MinIntervalMinutes
	}
	if minutes > MaxIntervalMinutes {
		return MaxIntervalMinutes
	}
	return minutes
}

// ClampRepetitions forces n into [MinRepetitions, MaxRepetitions].
func ClampRepetitions(n int) int {
	if n < MinRepetitions {
		return MinRepetitions
	}
	if n > MaxRepetitions {
		return MaxRepetitions
	}
	return n
}

// Reps returns the effective repetition count.
func (r Reminder) Reps() int {
	if r.Repetitions <= 0 {
		return DefaultRepetitions
	}
	return r.Repetitions
}

// Interval returns the reminder period as a duration.
func (r Reminder) Interval() time.Duration {
	return time.Duration(ClampInterval(r.IntervalMinutes)) * time.Minute
}
