package domain

import "fmt"

// Fallback texts used whenever a custom field is empty.
const (
	defaultWaterBody    = "Time to drink some water!"
	defaultEyesBody     = "Follow the 20-20-20 rule: look 20 feet away for 20 seconds."
	defaultExercise     = "push-ups"
	defaultExerciseCard = "Push-ups"
	defaultWaterCard    = "Time to drink water"
	defaultEyesCard     = "Look 20 feet away for 20 seconds"
)

// Activity countdown presets, in seconds.
const (
	WaterActivitySeconds    = 5
	EyesActivitySeconds     = 20
	ExerciseActivitySeconds = 30
)

// ExerciseName resolves the exercise label, defaulting to push-ups.
func (r Reminder) ExerciseName() string {
	if r.CustomExercise != "" {
		return r.CustomExercise
	}
	return defaultExercise
}

// Notification returns the title and body presented when r fires.
func Notification(r Reminder) (title, body string, err error) {
	switch r.Type {
	case TypeWater:
		return "Hydration Break", orDefault(r.CustomMessage, defaultWaterBody), nil
	case TypeEyes:
		return "Eye Rest", orDefault(r.CustomMessage, defaultEyesBody), nil
	case TypeExercise:
		return "Activity Break", fmt.Sprintf("Time for %d %s!", r.Reps(), r.ExerciseName()), nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnknownType, r.Type)
}

// DisplayTitle is the heading of a reminder card.
func DisplayTitle(r Reminder) string {
	switch r.Type {
	case TypeWater:
		return "Hydration Reminder"
	case TypeEyes:
		return "Eye Rest (20-20-20)"
	case TypeExercise:
		return "Exercise: " + orDefault(r.CustomExercise, defaultExerciseCard)
	}
	return "Reminder"
}

// Describe is the one-line body of a reminder card.
func Describe(r Reminder) string {
	switch r.Type {
	case TypeWater:
		return orDefault(r.CustomMessage, defaultWaterCard)
	case TypeEyes:
		return orDefault(r.CustomMessage, defaultEyesCard)
	case TypeExercise:
		return fmt.Sprintf("%d %s", r.Reps(), r.ExerciseName())
	}
	return ""
}

// Activity returns the countdown label and duration for an activity of r's type.
func Activity(r Reminder) (label string, seconds int, err error) {
	switch r.Type {
	case TypeWater:
		return "Drink water", WaterActivitySeconds, nil
	case TypeEyes:
		return "Look away (20-20-20 rule)", EyesActivitySeconds, nil
	case TypeExercise:
		return fmt.Sprintf("%d %s", r.Reps(), r.ExerciseName()), ExerciseActivitySeconds, nil
	}
	return "", 0, fmt.Errorf("%w: %q", ErrUnknownType, r.Type)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
