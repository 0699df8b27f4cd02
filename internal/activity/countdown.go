// Package activity runs the foreground countdown for a single wellness
// activity: drink water, rest the eyes, do an exercise set.
package activity

import (
	"errors"
	"fmt"
	"sync"
)

var ErrInvalidDuration = errors.New("countdown duration must be positive")

type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session is a point-in-time view of a countdown session.
type Session struct {
	ID               uint64
	Label            string
	TotalSeconds     int
	RemainingSeconds int
	State            State
}

// Progress is the completed fraction in [0, 1]; 0 when no session is active.
func (s Session) Progress() float64 {
	if s.TotalSeconds <= 0 {
		return 0
	}
	switch s.State {
	case StateRunning, StatePaused:
		return 1 - float64(s.RemainingSeconds)/float64(s.TotalSeconds)
	case StateCompleted:
		return 1
	}
	return 0
}

// Countdown is a single-session state machine driven by explicit Tick calls.
// Completed and cancelled sessions are discarded; the countdown is Idle again.
// Operations without an active session are no-ops.
type Countdown struct {
	mu     sync.Mutex
	cur    *Session
	nextID uint64
}

// Start begins a new session, replacing any current one. The replaced
// session, if it was active, is returned with replaced set.
func (c *Countdown) Start(label string, seconds int) (started Session, replaced *Session, err error) {
	if seconds <= 0 {
		return Session{}, nil, fmt.Errorf("%w: %d", ErrInvalidDuration, seconds)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur != nil {
		old := *c.cur
		old.State = StateCancelled
		replaced = &old
	}
	c.nextID++
	c.cur = &Session{
		ID:               c.nextID,
		Label:            label,
		TotalSeconds:     seconds,
		RemainingSeconds: seconds,
		State:            StateRunning,
	}
	return *c.cur, replaced, nil
}

// Tick counts one elapsed second. It reports done exactly once per session,
// on the tick that reaches zero; the returned session is then Completed.
func (c *Countdown) Tick() (s Session, done bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur == nil || c.cur.State != StateRunning {
		return c.snapshotLocked(), false
	}
	c.cur.RemainingSeconds--
	if c.cur.RemainingSeconds > 0 {
		return *c.cur, false
	}
	return c.finishLocked(StateCompleted), true
}

// Pause stops counting. Valid only while running.
func (c *Countdown) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil || c.cur.State != StateRunning {
		return false
	}
	c.cur.State = StatePaused
	return true
}

// Resume continues a paused session from where it stopped.
func (c *Countdown) Resume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil || c.cur.State != StatePaused {
		return false
	}
	c.cur.State = StateRunning
	return true
}

// Cancel discards the active session without completing it.
func (c *Countdown) Cancel() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return Session{}, false
	}
	return c.finishLocked(StateCancelled), true
}

// Complete finishes the active session early, as if its last tick elapsed.
func (c *Countdown) Complete() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return Session{}, false
	}
	c.cur.RemainingSeconds = 0
	return c.finishLocked(StateCompleted), true
}

// Snapshot returns the active session, or an Idle session if there is none.
func (c *Countdown) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Progress of the active session.
func (c *Countdown) Progress() float64 {
	return c.Snapshot().Progress()
}

// Current reports the id of the active session, 0 if idle.
func (c *Countdown) Current() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return 0
	}
	return c.cur.ID
}

func (c *Countdown) snapshotLocked() Session {
	if c.cur == nil {
		return Session{State: StateIdle}
	}
	return *c.cur
}

func (c *Countdown) finishLocked(st State) Session {
	s := *c.cur
	s.State = st
	c.cur = nil
	return s
}
