package reminder

import (
	"go.uber.org/zap"

	"github.com/Manoj-V-348/well-remind/internal/domain"
)

// repair turns a decoded list into one that satisfies the store invariants:
// known types only, unique ids, one reminder per type, clamped intervals and
// no schedule on disabled reminders. Persisted order is kept; missing types
// are appended from the defaults.
func repair(list []domain.Reminder, log *zap.Logger) []domain.Reminder {
	seenID := make(map[string]bool, len(list))
	seenType := make(map[domain.Type]bool, len(domain.Types))
	out := make([]domain.Reminder, 0, len(domain.Types))

	for _, r := range list {
		switch {
		case !r.Type.Valid():
			log.Warn("dropping reminder with unknown type", zap.String("id", r.ID), zap.String("type", string(r.Type)))
			continue
		case r.ID == "" || seenID[r.ID]:
			log.Warn("dropping reminder with missing or duplicate id", zap.String("id", r.ID))
			continue
		case seenType[r.Type]:
			log.Warn("dropping extra reminder of type", zap.String("id", r.ID), zap.String("type", string(r.Type)))
			continue
		}
		seenID[r.ID] = true
		seenType[r.Type] = true

		r.IntervalMinutes = domain.ClampInterval(r.IntervalMinutes)
		if r.Repetitions != 0 {
			r.Repetitions = domain.ClampRepetitions(r.Repetitions)
		}
		if !r.Enabled {
			r.NextTrigger = nil
		}
		out = append(out, r)
	}

	for _, t := range domain.Types {
		if seenType[t] {
			continue
		}
		d, _ := domain.DefaultFor(t)
		if seenID[d.ID] {
			continue
		}
		log.Info("restoring missing reminder", zap.String("type", string(t)))
		out = append(out, d)
	}
	return out
}
