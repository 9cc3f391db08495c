package engine

import "github.com/wippyai/hotreload/errors"

// Slot holds at most one live engine. It replaces a process-wide
// existence flag: whoever owns the Slot owns the engine lifecycle.
type Slot struct {
	live *Device
}

// Create constructs an engine. It fails while another engine is live.
func (s *Slot) Create(b Backend, opts ...Option) (*Device, error) {
	if s.live != nil {
		return nil, errors.ProtocolViolation("engine already exists")
	}
	d, err := New(b, opts...)
	if err != nil {
		return nil, err
	}
	s.live = d
	return d, nil
}

// Live returns the live engine, or nil.
func (s *Slot) Live() *Device {
	return s.live
}

// Destroy releases e. It fails for a nil engine, when no engine is live, or
// when e is not the engine this slot created. A still-initialized engine is
// deinitialized first.
func (s *Slot) Destroy(e *Device) error {
	if e == nil {
		return errors.ProtocolViolation("destroy nil engine")
	}
	if s.live == nil {
		return errors.ProtocolViolation("no engine exists")
	}
	if e != s.live {
		return errors.ProtocolViolation("engine not owned by this slot")
	}

	s.live = nil
	if e.State() == StateInitialized {
		return e.Deinitialize()
	}
	return nil
}
