package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyInterval   = errors.New("empty interval")
	ErrInvalidInterval = errors.New("invalid interval")
	ErrTooSmall        = errors.New("interval too small")
	ErrTooLarge        = errors.New("interval too large")
)

var (
	hoursRe   = regexp.MustCompile(`(\d+)\s*h`)
	minutesRe = regexp.MustCompile(`(\d+)\s*m`)
)

// ParseInterval parses human-friendly intervals like "20", "45m", "1h30m", "2h"
// into whole minutes. A bare number means minutes.
// Constraints: MinIntervalMinutes <= minutes <= MaxIntervalMinutes.
func ParseInterval(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, ErrEmptyInterval
	}

	var total time.Duration
	if isAllDigits(s) {
		mins, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidInterval, s)
		}
		total = time.Duration(mins) * time.Minute
	} else {
		matched := false
		if mh := hoursRe.FindStringSubmatch(s); len(mh) == 2 {
			h, _ := strconv.Atoi(mh[1])
			total += time.Duration(h) * time.Hour
			matched = true
		}
		if mm := minutesRe.FindStringSubmatch(s); len(mm) == 2 {
			m, _ := strconv.Atoi(mm[1])
			total += time.Duration(m) * time.Minute
			matched = true
		}
		if !matched {
			return 0, fmt.Errorf("%w: %s", ErrInvalidInterval, s)
		}
	}

	mins := int(total / time.Minute)
	if mins < MinIntervalMinutes {
		return 0, fmt.Errorf("%w: min %dm", ErrTooSmall, MinIntervalMinutes)
	}
	if mins > MaxIntervalMinutes {
		return 0, fmt.Errorf("%w: max %dm", ErrTooLarge, MaxIntervalMinutes)
	}
	return mins, nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// FormatInterval renders minutes the way reminder cards show them:
// "Every 20 min", "Every 2h", "Every 1h 30m".
func FormatInterval(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("Every %d min", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("Every %dh", h)
	}
	return fmt.Sprintf("Every %dh %dm", h, m)
}

// FormatClock formats t in loc as HH:MM, falling back to UTC.
func FormatClock(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("15:04")
}
