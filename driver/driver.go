// Package driver runs the tick loop that ties an engine, a reloader and the
// live game together.
package driver

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/hotreload/engine"
	"github.com/wippyai/hotreload/event"
	"github.com/wippyai/hotreload/game"
)

// Reloader runs one reload detection cycle per call. It returns the new game
// and true when the live game was replaced.
type Reloader interface {
	Poll(ctx context.Context) (game.Game, bool)
}

type options struct {
	logger        *zap.Logger
	frameInterval time.Duration
}

// Option configures a Loop.
type Option func(*options)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFrameInterval sets the minimum time between tick starts. Zero runs
// ticks back to back.
func WithFrameInterval(d time.Duration) Option {
	return func(o *options) { o.frameInterval = d }
}

// Loop drives one engine and the games its reloader produces.
//
// Loop is NOT thread-safe. Run and Tick must be called from one goroutine.
type Loop struct {
	engine      engine.Engine
	reloader    Reloader
	logger      *zap.Logger
	game        game.Game
	interval    time.Duration
	ticks       uint64
	terminating bool
}

// New creates a loop. The engine is not initialized until Run.
func New(e engine.Engine, r Reloader, opts ...Option) *Loop {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Loop{
		engine:   e,
		reloader: r,
		logger:   o.logger,
		interval: o.frameInterval,
	}
}

// Run initializes the engine, ticks until a TurnOff event arrives or ctx is
// done, and deinitializes the engine. An engine initialization failure is
// returned unchanged; its message is the diagnostic for the user.
func (l *Loop) Run(ctx context.Context, config string) error {
	if err := l.engine.Initialize(ctx, config); err != nil {
		return err
	}
	l.logger.Info("engine initialized", zap.Stringer("capabilities", l.engine.Capabilities()))

	var frames <-chan time.Time
	if l.interval > 0 {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		frames = ticker.C
	}

	for l.Tick(ctx) {
		if frames == nil {
			if ctx.Err() != nil {
				break
			}
			continue
		}
		select {
		case <-frames:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}

	if ctx.Err() != nil {
		l.logger.Info("loop canceled", zap.Error(ctx.Err()), zap.Uint64("ticks", l.ticks))
	} else {
		l.logger.Info("loop stopped", zap.Uint64("ticks", l.ticks))
	}
	return l.engine.Deinitialize()
}

// Tick runs one cycle: reload check, input drain, then Update and Render
// unless a TurnOff was seen. It reports whether the loop should continue.
func (l *Loop) Tick(ctx context.Context) bool {
	if l.terminating {
		return false
	}
	l.ticks++

	if g, ok := l.reloader.Poll(ctx); ok {
		l.game = g
		if err := g.Initialize(ctx); err != nil {
			l.logger.Error("game initialize failed", zap.Error(err))
		}
	}

	for {
		e, ok := l.engine.ReadInput()
		if !ok {
			break
		}
		l.logger.Debug("event", zap.Stringer("event", e))
		if e == event.TurnOff {
			l.terminating = true
			continue
		}
		if l.game == nil {
			continue
		}
		if err := l.game.OnEvent(ctx, e); err != nil {
			l.logger.Error("game on_event failed", zap.Stringer("event", e), zap.Error(err))
		}
	}

	if l.terminating {
		return false
	}
	if l.game != nil {
		if err := l.game.Update(ctx); err != nil {
			l.logger.Error("game update failed", zap.Uint64("tick", l.ticks), zap.Error(err))
		}
		if err := l.game.Render(ctx); err != nil {
			l.logger.Error("game render failed", zap.Uint64("tick", l.ticks), zap.Error(err))
		}
	}
	return true
}

// Game returns the game the loop is driving, or nil before the first load.
func (l *Loop) Game() game.Game {
	return l.game
}

// Ticks returns the number of ticks started.
func (l *Loop) Ticks() uint64 {
	return l.ticks
}

// Terminating reports whether a TurnOff event has been seen.
func (l *Loop) Terminating() bool {
	return l.terminating
}
