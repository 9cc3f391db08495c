package engine

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/hotreload/errors"
	"github.com/wippyai/hotreload/event"
)

// State is the lifecycle state of a Device.
type State uint8

const (
	StateUninitialized State = iota
	StateInitialized
	StateFailed
	StateDeinitialized
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateFailed:
		return "failed"
	case StateDeinitialized:
		return "deinitialized"
	default:
		return "unknown"
	}
}

// source is the native side of a backend.
type source interface {
	open(ctx context.Context, config string) error
	poll() (NativeEvent, bool)
	close() error
	capabilities() Capability
	screen() io.Writer
}

// Device is the Engine implementation shared by all backends. It owns the
// lifecycle and the binding-table translation; the backend only supplies
// native events.
//
// Device is NOT thread-safe. It is driven from the loop goroutine.
type Device struct {
	src     source
	logger  *zap.Logger
	initErr error
	backend Backend
	state   State
}

var _ Engine = (*Device)(nil)

// Backend returns the backend this device was created with.
func (d *Device) Backend() Backend {
	return d.backend
}

// State returns the current lifecycle state.
func (d *Device) State() State {
	return d.state
}

// Initialize opens the backend. It is a no-op when already initialized and
// returns the original diagnostic when a previous attempt failed.
func (d *Device) Initialize(ctx context.Context, config string) error {
	switch d.state {
	case StateInitialized:
		return nil
	case StateFailed:
		return d.initErr
	case StateDeinitialized:
		return errors.InvalidState(errors.PhaseInput, "initialize", d.state.String())
	}

	if err := d.src.open(ctx, config); err != nil {
		d.state = StateFailed
		d.initErr = errors.New(errors.PhaseInput, errors.KindNotInitialized).
			Detail("initialize %s backend", d.backend).
			Cause(err).
			Build()
		return d.initErr
	}

	d.state = StateInitialized
	d.logger.Debug("engine initialized", zap.Stringer("capabilities", d.Capabilities()))
	return nil
}

// ReadInput returns the next bound event. Unbound native events are dropped.
func (d *Device) ReadInput() (event.Event, bool) {
	if d.state != StateInitialized {
		return 0, false
	}
	for {
		n, ok := d.src.poll()
		if !ok {
			return 0, false
		}
		if e, ok := Translate(n); ok {
			return e, true
		}
		d.logger.Debug("dropped unbound input",
			zap.Uint8("kind", uint8(n.Kind)),
			zap.Uint16("key", uint16(n.Key)))
	}
}

// Deinitialize closes the backend. Calling it outside the Initialized state
// is a protocol violation.
func (d *Device) Deinitialize() error {
	if d.state != StateInitialized {
		return errors.New(errors.PhaseInput, errors.KindProtocolViolation).
			Detail("deinitialize in state %s", d.state).
			Build()
	}
	d.state = StateDeinitialized
	if err := d.src.close(); err != nil {
		return errors.Wrap(errors.PhaseInput, errors.KindIO, err, "close backend")
	}
	d.logger.Debug("engine deinitialized")
	return nil
}

func (d *Device) Capabilities() Capability {
	return d.src.capabilities()
}

func (d *Device) Screen() io.Writer {
	return d.src.screen()
}
