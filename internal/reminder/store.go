package reminder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Manoj-V-348/well-remind/internal/clock"
	"github.com/Manoj-V-348/well-remind/internal/domain"
	"github.com/Manoj-V-348/well-remind/internal/metrics"
	"github.com/Manoj-V-348/well-remind/internal/store"
)

var (
	ErrUnknownReminder = errors.New("unknown reminder id")
	ErrInvalidUpdate   = errors.New("invalid reminder update")
)

// MaxCustomTextLen bounds custom message and exercise texts, in runes.
const MaxCustomTextLen = 512

// UpdateFields holds optional fields for a partial update.
type UpdateFields struct {
	IntervalMinutes *int
	CustomMessage   *string
	CustomExercise  *string
	Repetitions     *int
}

// Store owns the reminder list. Every mutation runs under one lock and queues
// a full-list snapshot for persistence before the lock is released.
type Store struct {
	mu    sync.RWMutex
	items []domain.Reminder

	clock clock.Clock
	log   *zap.Logger
	kv    store.KV
	p     *persister
}

// New creates a Store holding the default set. Call Load to restore persisted state.
func New(kv store.KV, clk clock.Clock, log *zap.Logger, m *metrics.Metrics) *Store {
	return &Store{
		items: domain.Defaults(),
		clock: clk,
		log:   log,
		kv:    kv,
		p:     newPersister(kv, store.RemindersKey, log, m),
	}
}

// Load restores the persisted list. Missing or unreadable data falls back to
// the default set; this is logged and never returned as an error.
func (s *Store) Load(ctx context.Context) {
	list := s.read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = list
	s.persistLocked()
}

func (s *Store) read(ctx context.Context) []domain.Reminder {
	b, err := s.kv.Get(ctx, store.RemindersKey)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Info("no saved reminders, using defaults")
		return domain.Defaults()
	}
	if err != nil {
		s.log.Warn("read reminders failed, using defaults", zap.Error(err))
		return domain.Defaults()
	}
	list, err := store.DecodeReminders(b)
	if err != nil {
		s.log.Warn("parse reminders failed, using defaults", zap.Error(err))
		return domain.Defaults()
	}
	return repair(list, s.log)
}

// List returns a snapshot of all reminders in stable order.
func (s *Store) List() []domain.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Reminder, len(s.items))
	for i, r := range s.items {
		out[i] = r.Clone()
	}
	return out
}

// Get returns one reminder by id.
func (s *Store) Get(id string) (domain.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.Reminder{}, fmt.Errorf("%w: %s", ErrUnknownReminder, id)
	}
	return s.items[i].Clone(), nil
}

// ByType returns the first reminder of type t.
func (s *Store) ByType(t domain.Type) (domain.Reminder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.items {
		if r.Type == t {
			return r.Clone(), true
		}
	}
	return domain.Reminder{}, false
}

// Update applies f to the reminder with the given id. A changed interval
// reschedules an enabled reminder from now; nothing else touches NextTrigger.
func (s *Store) Update(id string, f UpdateFields) (domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return domain.Reminder{}, fmt.Errorf("%w: %s", ErrUnknownReminder, id)
	}
	r := s.items[i].Clone()
	if err := validate(r.Type, f); err != nil {
		return domain.Reminder{}, err
	}

	if f.IntervalMinutes != nil {
		minutes := domain.ClampInterval(*f.IntervalMinutes)
		if minutes != r.IntervalMinutes {
			r.IntervalMinutes = minutes
			if r.Enabled {
				domain.Arm(&r, s.clock.Now())
			}
		}
	}
	if f.CustomMessage != nil {
		r.CustomMessage = *f.CustomMessage
	}
	if f.CustomExercise != nil {
		r.CustomExercise = *f.CustomExercise
	}
	if f.Repetitions != nil {
		r.Repetitions = domain.ClampRepetitions(*f.Repetitions)
	}

	s.items[i] = r
	s.persistLocked()
	return r.Clone(), nil
}

func validate(t domain.Type, f UpdateFields) error {
	if f.CustomMessage != nil {
		if t == domain.TypeExercise {
			return fmt.Errorf("%w: %s reminders have no custom message", ErrInvalidUpdate, t)
		}
		if utf8.RuneCountInString(*f.CustomMessage) > MaxCustomTextLen {
			return fmt.Errorf("%w: message longer than %d characters", ErrInvalidUpdate, MaxCustomTextLen)
		}
	}
	if f.CustomExercise != nil || f.Repetitions != nil {
		if t != domain.TypeExercise {
			return fmt.Errorf("%w: %s reminders have no exercise settings", ErrInvalidUpdate, t)
		}
		if f.CustomExercise != nil && utf8.RuneCountInString(*f.CustomExercise) > MaxCustomTextLen {
			return fmt.Errorf("%w: exercise longer than %d characters", ErrInvalidUpdate, MaxCustomTextLen)
		}
	}
	return nil
}

// Toggle flips Enabled. Enabling schedules from now, disabling clears
// NextTrigger and keeps LastTriggered.
func (s *Store) Toggle(id string) (domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return domain.Reminder{}, fmt.Errorf("%w: %s", ErrUnknownReminder, id)
	}
	r := s.items[i].Clone()
	r.Enabled = !r.Enabled
	domain.Arm(&r, s.clock.Now())

	s.items[i] = r
	s.persistLocked()
	return r.Clone(), nil
}

// Reset replaces the whole list with the default set.
func (s *Store) Reset() []domain.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = domain.Defaults()
	s.persistLocked()

	out := make([]domain.Reminder, len(s.items))
	copy(out, s.items)
	return out
}

// ApplyDue marks every reminder due at now as triggered and reschedules it
// from now. The fired reminders are returned in id order; the list is
// persisted once if anything fired.
func (s *Store) ApplyDue(now time.Time) []domain.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []int
	for i, r := range s.items {
		if domain.IsDue(r, now) {
			due = append(due, i)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(a, b int) bool { return s.items[due[a]].ID < s.items[due[b]].ID })

	fired := make([]domain.Reminder, 0, len(due))
	for _, i := range due {
		r := s.items[i].Clone()
		domain.MarkTriggered(&r, now)
		s.items[i] = r
		fired = append(fired, r.Clone())
	}
	s.persistLocked()
	return fired
}

// Save queues the current list and waits for it to reach storage.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	s.persistLocked()
	s.mu.Unlock()
	return s.p.flush(ctx)
}

// Flush waits for queued writes and returns the newest write result.
func (s *Store) Flush(ctx context.Context) error {
	return s.p.flush(ctx)
}

// Close flushes pending writes and stops the background writer.
func (s *Store) Close(ctx context.Context) error {
	return s.p.close(ctx)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked() {
	b, err := store.EncodeReminders(s.items)
	if err != nil {
		s.log.Error("encode reminders failed", zap.Error(err))
		return
	}
	s.p.enqueue(b)
}
