package runtime

import (
	"context"

	"github.com/google/uuid"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/hotreload/abi"
	"github.com/wippyai/hotreload/errors"
)

// Module is an instantiated game module with its resolved export table.
type Module struct {
	runtime  *Runtime
	compiled wazero.CompiledModule
	instance api.Module

	version    api.Function
	create     api.Function
	destroy    api.Function
	initialize api.Function
	onEvent    api.Function
	update     api.Function
	render     api.Function

	id     string
	games  int
	closed bool
}

func (r *Runtime) instantiate(ctx context.Context, compiled wazero.CompiledModule) (*Module, error) {
	id := "game-" + uuid.NewString()
	instance, err := r.runtime.InstantiateModule(ctx, compiled,
		wazero.NewModuleConfig().WithName(id).WithStartFunctions())
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	return &Module{
		runtime:    r,
		compiled:   compiled,
		instance:   instance,
		id:         id,
		version:    instance.ExportedFunction(abi.ExportVersion),
		create:     instance.ExportedFunction(abi.ExportCreate),
		destroy:    instance.ExportedFunction(abi.ExportDestroy),
		initialize: instance.ExportedFunction(abi.ExportInitialize),
		onEvent:    instance.ExportedFunction(abi.ExportOnEvent),
		update:     instance.ExportedFunction(abi.ExportUpdate),
		render:     instance.ExportedFunction(abi.ExportRender),
	}, nil
}

func (m *Module) checkVersion(ctx context.Context) error {
	res, err := m.version.Call(ctx)
	if err != nil {
		return errors.Trap(errors.PhaseValidate, abi.ExportVersion, err)
	}
	if got := api.DecodeU32(res[0]); got != abi.Version {
		return errors.VersionMismatch(got, abi.Version)
	}
	return nil
}

// ID returns the unique instance name of the module.
func (m *Module) ID() string {
	return m.id
}

// Games returns the number of live games created by this module.
func (m *Module) Games() int {
	return m.games
}

// Closed reports whether the module has been closed.
func (m *Module) Closed() bool {
	return m.closed
}

// NewGame invokes the factory with the engine capabilities. A null handle
// is reported as FactoryFailed.
func (m *Module) NewGame(ctx context.Context, caps uint32) (*Game, error) {
	if m.closed {
		return nil, errors.InvalidState(errors.PhaseCreate, abi.ExportCreate, "closed")
	}

	res, err := m.create.Call(ctx, api.EncodeU32(caps))
	if err != nil {
		return nil, errors.Trap(errors.PhaseCreate, abi.ExportCreate, err)
	}
	handle := api.DecodeU32(res[0])
	if handle == 0 {
		return nil, errors.FactoryFailed(abi.ExportCreate)
	}

	m.games++
	m.runtime.logger.Debug("game created",
		zap.String("module", m.id),
		zap.Uint32("handle", handle),
		zap.Uint32("caps", caps))
	return &Game{module: m, handle: handle}, nil
}

// Close unloads the module. Games it created become unusable. Close is
// idempotent.
func (m *Module) Close(ctx context.Context) error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.runtime.forget(m.id)

	if m.games > 0 {
		m.runtime.logger.Warn("module closed with live games",
			zap.String("module", m.id), zap.Int("games", m.games))
	}

	err := m.instance.Close(ctx)
	if cerr := m.compiled.Close(ctx); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(errors.PhaseRuntime, errors.KindIO, err, "close module "+m.id)
	}
	m.runtime.logger.Debug("module closed", zap.String("module", m.id))
	return nil
}
