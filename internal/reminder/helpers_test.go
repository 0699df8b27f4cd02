package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Manoj-V-348/well-remind/internal/clock"
	"github.com/Manoj-V-348/well-remind/internal/domain"
	"github.com/Manoj-V-348/well-remind/internal/store"
)

var t0 = time.Date(2025, time.May, 5, 9, 0, 0, 0, time.UTC)

// recordingKV wraps store.Memory, counts writes and can be told to fail.
type recordingKV struct {
	*store.Memory

	mu     sync.Mutex
	writes int
	fail   bool
}

func newRecordingKV() *recordingKV {
	return &recordingKV{Memory: store.NewMemory()}
}

func (k *recordingKV) Set(ctx context.Context, key string, value []byte) error {
	k.mu.Lock()
	k.writes++
	fail := k.fail
	k.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return k.Memory.Set(ctx, key, value)
}

func (k *recordingKV) setFail(v bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.fail = v
}

func (k *recordingKV) writeCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.writes
}

func (k *recordingKV) saved(t *testing.T) []domain.Reminder {
	t.Helper()
	b, err := k.Memory.Get(context.Background(), store.RemindersKey)
	require.NoError(t, err)
	list, err := store.DecodeReminders(b)
	require.NoError(t, err)
	return list
}

func newTestStore(t *testing.T) (*Store, *recordingKV, *clock.Fake) {
	t.Helper()
	kv := newRecordingKV()
	clk := clock.NewFake(t0)
	s := New(kv, clk, zap.NewNop(), nil)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	s.Load(context.Background())
	require.NoError(t, s.Flush(context.Background()))
	return s, kv, clk
}

func flush(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Flush(ctx))
}

// assertInvariants checks enabled <=> scheduled for every reminder that has
// been scheduled at least once. Safe to call from other goroutines.
func assertInvariants(t *testing.T, list []domain.Reminder) {
	t.Helper()
	for _, r := range list {
		if !r.Enabled {
			assert.Nil(t, r.NextTrigger, "%s disabled but scheduled", r.ID)
		}
		if r.Enabled && r.LastTriggered != nil {
			assert.NotNil(t, r.NextTrigger, "%s enabled, fired, but unscheduled", r.ID)
		}
	}
}

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }
