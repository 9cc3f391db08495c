package runtime

import (
	"context"
	"io"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/hotreload/abi"
	"github.com/wippyai/hotreload/errors"
)

type options struct {
	logger           *zap.Logger
	screen           io.Writer
	memoryLimitPages uint32
}

// Option configures a Runtime.
type Option func(*options)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithScreen sets where the write host function sends guest output.
// Defaults to io.Discard.
func WithScreen(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.screen = w
		}
	}
}

// WithMemoryLimitPages caps the linear memory of every module, in 64KiB
// pages. Zero keeps the wazero default.
func WithMemoryLimitPages(pages uint32) Option {
	return func(o *options) { o.memoryLimitPages = pages }
}

// Runtime owns a wazero runtime and the host module shared by every game
// module loaded into it.
type Runtime struct {
	runtime wazero.Runtime
	host    api.Module
	screen  io.Writer
	logger  *zap.Logger
	modules map[string]*Module
	mu      sync.Mutex
	closed  bool
}

// New creates a Runtime and instantiates the host module.
func New(ctx context.Context, opts ...Option) (*Runtime, error) {
	o := options{logger: zap.NewNop(), screen: io.Discard}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := wazero.NewRuntimeConfig()
	if o.memoryLimitPages > 0 {
		cfg = cfg.WithMemoryLimitPages(o.memoryLimitPages)
	}

	r := &Runtime{
		runtime: wazero.NewRuntimeWithConfig(ctx, cfg),
		screen:  o.screen,
		logger:  o.logger,
		modules: make(map[string]*Module),
	}

	host, err := r.instantiateHost(ctx)
	if err != nil {
		r.runtime.Close(ctx)
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInstantiation, err, "instantiate host module "+abi.HostModule)
	}
	r.host = host
	return r, nil
}

// LoadModule compiles, validates and instantiates a game module.
func (r *Runtime) LoadModule(ctx context.Context, wasm []byte) (*Module, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, errors.InvalidState(errors.PhaseLoad, "load module", "closed")
	}

	compiled, err := r.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}

	if err := validateExports(compiled); err != nil {
		compiled.Close(ctx)
		return nil, err
	}

	m, err := r.instantiate(ctx, compiled)
	if err != nil {
		compiled.Close(ctx)
		return nil, err
	}

	if err := m.checkVersion(ctx); err != nil {
		m.Close(ctx)
		return nil, err
	}

	r.mu.Lock()
	r.modules[m.id] = m
	r.mu.Unlock()

	r.logger.Debug("module loaded", zap.String("module", m.id), zap.Int("size", len(wasm)))
	return m, nil
}

// LiveModules returns the number of loaded modules not yet closed.
func (r *Runtime) LiveModules() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.modules)
}

// Close closes every module and the wazero runtime.
func (r *Runtime) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	modules := make([]*Module, 0, len(r.modules))
	for _, m := range r.modules {
		modules = append(modules, m)
	}
	r.mu.Unlock()

	for _, m := range modules {
		m.Close(ctx)
	}
	return r.runtime.Close(ctx)
}

func (r *Runtime) forget(id string) {
	r.mu.Lock()
	delete(r.modules, id)
	r.mu.Unlock()
}

// validateExports checks the required exports of a compiled module before
// any of its code runs.
func validateExports(compiled wazero.CompiledModule) error {
	if _, ok := compiled.ExportedMemories()[abi.MemoryExport]; !ok {
		return errors.MissingExport(abi.MemoryExport)
	}

	exports := compiled.ExportedFunctions()
	for _, f := range abi.Exports {
		def, ok := exports[f.Name]
		if !ok {
			return errors.MissingExport(f.Name)
		}
		if !f.Matches(def.ParamTypes(), def.ResultTypes()) {
			return errors.SignatureMismatch(f.Name, f.Signature(), abi.Signature(def.ParamTypes(), def.ResultTypes()))
		}
	}
	return nil
}
