package engine

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/hotreload/errors"
	"github.com/wippyai/hotreload/event"
)

// Engine is the input source driven by the loop.
type Engine interface {
	// Initialize sets up the backend. The returned error's message is the
	// diagnostic shown to the user.
	Initialize(ctx context.Context, config string) error
	// ReadInput returns the next translated event, or false when the
	// native queue is empty.
	ReadInput() (event.Event, bool)
	// Deinitialize releases the backend. It must be called exactly once.
	Deinitialize() error
	// Capabilities reports what the backend supports; games receive it at
	// construction.
	Capabilities() Capability
	// Screen is where games render.
	Screen() io.Writer
}

// Capability is a bitmask of backend features.
type Capability uint32

const (
	CapKeyRelease       Capability = 1 << iota // native key release events
	CapSyntheticRelease                        // releases emitted right after presses
	CapQuit                                    // native quit signal
	CapScreen                                  // render output is displayed
)

var capNames = []struct {
	c    Capability
	name string
}{
	{CapKeyRelease, "key_release"},
	{CapSyntheticRelease, "synthetic_release"},
	{CapQuit, "quit"},
	{CapScreen, "screen"},
}

// Has reports whether all bits of f are set.
func (c Capability) Has(f Capability) bool {
	return c&f == f
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, cn := range capNames {
		if c.Has(cn.c) {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}

// Backend names an input backend implementation.
type Backend string

const (
	BackendScripted Backend = "scripted"
	BackendTerminal Backend = "terminal"
	BackendTUI      Backend = "tui"
)

// Backends returns every supported backend.
func Backends() []Backend {
	return []Backend{BackendScripted, BackendTerminal, BackendTUI}
}

// ParseBackend resolves a backend name.
func ParseBackend(name string) (Backend, error) {
	for _, b := range Backends() {
		if string(b) == name {
			return b, nil
		}
	}
	return "", errors.NotFound(errors.PhaseStartup, "backend", name)
}

type options struct {
	logger *zap.Logger
	in     io.Reader
	out    io.Writer
	script *Script
}

// Option configures a Device.
type Option func(*options)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithInput overrides the input stream of the terminal and tui backends.
func WithInput(r io.Reader) Option {
	return func(o *options) { o.in = r }
}

// WithOutput overrides the screen of the terminal and tui backends.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithScript supplies the event queue of the scripted backend.
func WithScript(s *Script) Option {
	return func(o *options) { o.script = s }
}

// New creates an uninitialized engine on the given backend.
func New(b Backend, opts ...Option) (*Device, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	var src source
	switch b {
	case BackendScripted:
		if o.script == nil {
			o.script = NewScript()
		}
		src = o.script
	case BackendTerminal:
		src = newTerminal(o.in, o.out, o.logger)
	case BackendTUI:
		src = newTUI(o.in, o.out, o.logger)
	default:
		return nil, errors.NotFound(errors.PhaseStartup, "backend", string(b))
	}

	return &Device{
		backend: b,
		src:     src,
		logger:  o.logger.With(zap.String("backend", string(b))),
	}, nil
}
