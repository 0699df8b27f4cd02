package activity

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Manoj-V-348/well-remind/internal/metrics"
)

// Listener receives session outcomes. It is called from the ticker goroutine
// or the caller's goroutine and must not block.
type Listener interface {
	Completed(s Session)
	Cancelled(s Session)
}

// Driver feeds a Countdown one tick per second. A tick source exists only
// while a session is running; pausing, finishing or replacing the session
// retires it.
type Driver struct {
	cd       Countdown
	every    time.Duration
	listener Listener
	log      *zap.Logger
	m        *metrics.Metrics

	mu        sync.Mutex
	tickerGen uint64
	stopTick  chan struct{}
	closed    bool
	wg        sync.WaitGroup
}

// NewDriver creates a Driver ticking once per second.
func NewDriver(listener Listener, log *zap.Logger, m *metrics.Metrics) *Driver {
	return &Driver{
		every:    time.Second,
		listener: listener,
		log:      log,
		m:        m,
	}
}

// Start begins a session, replacing any active one, and returns its handle.
func (d *Driver) Start(label string, seconds int) (*Handle, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrClosed
	}
	s, replaced, err := d.cd.Start(label, seconds)
	if err != nil {
		d.mu.Unlock()
		return nil, err
	}
	d.restartTickerLocked(s.ID)
	d.mu.Unlock()

	if replaced != nil {
		d.m.Activity("replaced")
		d.log.Info("activity replaced", zap.String("label", replaced.Label))
	}
	d.m.Activity("started")
	d.log.Info("activity started", zap.String("label", label), zap.Int("seconds", seconds))
	return &Handle{d: d, id: s.ID}, nil
}

// Snapshot returns the active session, or an Idle session.
func (d *Driver) Snapshot() Session {
	return d.cd.Snapshot()
}

// Current returns a handle to the active session, or nil when idle.
func (d *Driver) Current() *Handle {
	id := d.cd.Current()
	if id == 0 {
		return nil
	}
	return &Handle{d: d, id: id}
}

// Close cancels the active session and waits for the tick source to exit.
// Safe to call more than once.
func (d *Driver) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.stopTickerLocked()
	s, ok := d.cd.Cancel()
	d.mu.Unlock()

	if ok {
		d.cancelled(s)
	}
	d.wg.Wait()
}

func (d *Driver) pause(id uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cd.Current() != id || !d.cd.Pause() {
		return false
	}
	d.stopTickerLocked()
	return true
}

func (d *Driver) resume(id uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.cd.Current() != id || !d.cd.Resume() {
		return false
	}
	d.restartTickerLocked(id)
	return true
}

func (d *Driver) cancel(id uint64) bool {
	d.mu.Lock()
	if d.cd.Current() != id {
		d.mu.Unlock()
		return false
	}
	d.stopTickerLocked()
	s, ok := d.cd.Cancel()
	d.mu.Unlock()

	if ok {
		d.cancelled(s)
	}
	return ok
}

func (d *Driver) complete(id uint64) bool {
	d.mu.Lock()
	if d.cd.Current() != id {
		d.mu.Unlock()
		return false
	}
	d.stopTickerLocked()
	s, ok := d.cd.Complete()
	d.mu.Unlock()

	if ok {
		d.completed(s)
	}
	return ok
}

// restartTickerLocked retires the current tick source and starts a new one.
func (d *Driver) restartTickerLocked(id uint64) {
	d.stopTickerLocked()
	stop := make(chan struct{})
	d.stopTick = stop
	gen := d.tickerGen

	d.wg.Add(1)
	go d.runTicker(gen, id, stop)
}

func (d *Driver) stopTickerLocked() {
	d.tickerGen++
	if d.stopTick != nil {
		close(d.stopTick)
		d.stopTick = nil
	}
}

func (d *Driver) runTicker(gen, id uint64, stop <-chan struct{}) {
	defer d.wg.Done()
	t := time.NewTicker(d.every)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
		}

		d.mu.Lock()
		if gen != d.tickerGen || d.cd.Current() != id {
			d.mu.Unlock()
			return
		}
		s, done := d.cd.Tick()
		if done {
			// session is gone; retire this source
			d.stopTickerLocked()
		}
		d.mu.Unlock()

		if done {
			d.completed(s)
			return
		}
	}
}

func (d *Driver) completed(s Session) {
	d.m.Activity("completed")
	d.log.Info("activity completed", zap.String("label", s.Label))
	if d.listener != nil {
		d.listener.Completed(s)
	}
}

func (d *Driver) cancelled(s Session) {
	d.m.Activity("cancelled")
	d.log.Info("activity cancelled", zap.String("label", s.Label), zap.Int("remaining", s.RemainingSeconds))
	if d.listener != nil {
		d.listener.Cancelled(s)
	}
}
