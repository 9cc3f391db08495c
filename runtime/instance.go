package runtime

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/hotreload/abi"
	"github.com/wippyai/hotreload/errors"
	"github.com/wippyai/hotreload/event"
	"github.com/wippyai/hotreload/game"
)

// Game is a game instance living inside a Module.
type Game struct {
	module    *Module
	handle    uint32
	destroyed bool
}

var _ game.Game = (*Game)(nil)

// Handle returns the guest handle returned by the factory.
func (g *Game) Handle() uint32 {
	return g.handle
}

// Module returns the module that created the game.
func (g *Game) Module() *Module {
	return g.module
}

func (g *Game) Initialize(ctx context.Context) error {
	return g.call(ctx, g.module.initialize, abi.ExportInitialize)
}

// OnEvent validates e before passing it to the guest.
func (g *Game) OnEvent(ctx context.Context, e event.Event) error {
	if _, err := e.Name(); err != nil {
		return err
	}
	return g.call(ctx, g.module.onEvent, abi.ExportOnEvent, api.EncodeU32(uint32(e)))
}

func (g *Game) Update(ctx context.Context) error {
	return g.call(ctx, g.module.update, abi.ExportUpdate)
}

func (g *Game) Render(ctx context.Context) error {
	return g.call(ctx, g.module.render, abi.ExportRender)
}

// Destroy releases the game inside its module. It must run before the
// module is closed. Destroying twice is an error.
func (g *Game) Destroy(ctx context.Context) error {
	if err := g.call(ctx, g.module.destroy, abi.ExportDestroy); err != nil {
		return err
	}
	g.destroyed = true
	g.module.games--
	return nil
}

func (g *Game) call(ctx context.Context, fn api.Function, export string, args ...uint64) error {
	switch {
	case g.destroyed:
		return errors.InvalidState(errors.PhaseGame, export, "destroyed")
	case g.module.closed:
		return errors.InvalidState(errors.PhaseGame, export, "module closed")
	}

	params := make([]uint64, 0, 1+len(args))
	params = append(params, api.EncodeU32(g.handle))
	params = append(params, args...)
	if _, err := fn.Call(ctx, params...); err != nil {
		return errors.Trap(errors.PhaseGame, export, err)
	}
	return nil
}
