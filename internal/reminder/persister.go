package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Manoj-V-348/well-remind/internal/metrics"
	"github.com/Manoj-V-348/well-remind/internal/store"
)

// ErrStorageWrite wraps a failed write of the reminder list.
var ErrStorageWrite = errors.New("storage write failed")

const writeTimeout = 5 * time.Second

// persister writes full-list snapshots on a single background goroutine.
// Only the latest queued snapshot is written, so a snapshot queued later is
// never overwritten by an earlier one.
type persister struct {
	kv  store.KV
	key string
	log *zap.Logger
	m   *metrics.Metrics

	mu        sync.Mutex
	pending   []byte
	queued    uint64 // sequence of the newest snapshot
	attempted uint64 // sequence of the newest snapshot whose write finished
	lastErr   error
	progress  chan struct{} // closed and replaced after every write attempt

	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newPersister(kv store.KV, key string, log *zap.Logger, m *metrics.Metrics) *persister {
	p := &persister{
		kv:       kv,
		key:      key,
		log:      log,
		m:        m,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.loop()
	return p
}

// enqueue replaces the pending snapshot and returns immediately.
func (p *persister) enqueue(b []byte) {
	p.mu.Lock()
	p.pending = b
	p.queued++
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) loop() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.writePending()
		case <-p.stop:
			p.writePending()
			return
		}
	}
}

func (p *persister) writePending() {
	p.mu.Lock()
	b, seq := p.pending, p.queued
	if seq == p.attempted {
		p.mu.Unlock()
		return
	}
	p.pending = nil
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	err := p.kv.Set(ctx, p.key, b)
	cancel()

	p.m.Persisted(err)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrStorageWrite, err)
		p.log.Error("persist reminders failed", zap.Error(err), zap.Uint64("seq", seq))
	}

	p.mu.Lock()
	p.attempted = seq
	p.lastErr = err
	close(p.progress)
	p.progress = make(chan struct{})
	p.mu.Unlock()
}

// flush waits until every snapshot queued before the call has been attempted
// and returns the result of the newest attempt.
func (p *persister) flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.queued
	p.mu.Unlock()

	for {
		p.mu.Lock()
		if p.attempted >= target {
			err := p.lastErr
			p.mu.Unlock()
			return err
		}
		progress := p.progress
		p.mu.Unlock()

		select {
		case <-progress:
		case <-p.done:
			p.mu.Lock()
			err := p.lastErr
			if p.attempted < target {
				err = fmt.Errorf("%w: persister closed", ErrStorageWrite)
			}
			p.mu.Unlock()
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// close writes whatever is pending and stops the writer. Safe to call twice.
func (p *persister) close(ctx context.Context) error {
	p.closeOnce.Do(func() { close(p.stop) })
	select {
	case <-p.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}
