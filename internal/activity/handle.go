package activity

import "errors"

var ErrClosed = errors.New("activity driver closed")

// Handle controls one session. Once the session has ended or been replaced,
// every method is a no-op returning false.
type Handle struct {
	d  *Driver
	id uint64
}

func (h *Handle) ID() uint64 { return h.id }

func (h *Handle) Pause() bool    { return h.d.pause(h.id) }
func (h *Handle) Resume() bool   { return h.d.resume(h.id) }
func (h *Handle) Cancel() bool   { return h.d.cancel(h.id) }
func (h *Handle) Complete() bool { return h.d.complete(h.id) }

// Snapshot returns the session state, or Idle once it is no longer active.
func (h *Handle) Snapshot() Session {
	s := h.d.cd.Snapshot()
	if s.ID != h.id {
		return Session{ID: h.id, State: StateIdle}
	}
	return s
}
