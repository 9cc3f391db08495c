package reload

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/hotreload/errors"
	"github.com/wippyai/hotreload/game"
	"github.com/wippyai/hotreload/runtime"
)

// ModuleLoader loads a game module from its binary.
type ModuleLoader interface {
	LoadModule(ctx context.Context, wasm []byte) (*runtime.Module, error)
}

// Record is the live game module: the loaded module, the game it created,
// the source modification time it was loaded from and its generation.
type Record struct {
	ModTime    time.Time
	Module     *runtime.Module
	Game       *runtime.Game
	Generation uint64
}

type options struct {
	logger   *zap.Logger
	stat     StatFunc
	sleep    SleepFunc
	interval time.Duration
	caps     uint32
}

// Option configures a Loader.
type Option func(*options)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStabilizeInterval sets the pause between modification-time reads
// while a change settles. Defaults to DefaultStabilizeInterval.
func WithStabilizeInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// WithCapabilities sets the capability mask passed to game factories.
func WithCapabilities(caps uint32) Option {
	return func(o *options) { o.caps = caps }
}

// WithStat replaces the modification-time source.
func WithStat(fn StatFunc) Option {
	return func(o *options) { o.stat = fn }
}

// WithSleep replaces the stabilization pause.
func WithSleep(fn SleepFunc) Option {
	return func(o *options) { o.sleep = fn }
}

// Loader owns the live game module record and replaces it transactionally.
//
// Loader is NOT thread-safe. It is polled from the loop goroutine.
type Loader struct {
	modules    ModuleLoader
	watcher    *Watcher
	logger     *zap.Logger
	live       *Record
	failedAt   time.Time
	staging    string
	generation uint64
	caps       uint32
	statFailed bool
}

// New creates a loader that watches source and stages copies at staging.
// No module is loaded until the first Poll.
func New(modules ModuleLoader, source, staging string, opts ...Option) (*Loader, error) {
	switch {
	case modules == nil:
		return nil, errors.InvalidInput(errors.PhaseStartup, "nil module loader")
	case source == "" || staging == "":
		return nil, errors.InvalidInput(errors.PhaseStartup, "source and staging paths are required")
	case SamePath(source, staging):
		return nil, errors.InvalidInput(errors.PhaseStartup, "source and staging must differ")
	}

	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Loader{
		modules: modules,
		watcher: NewWatcher(source, o.interval, o.stat, o.sleep),
		logger:  o.logger.With(zap.String("source", source), zap.String("staging", staging)),
		staging: staging,
		caps:    o.caps,
	}, nil
}

// Poll runs one detection cycle. It returns the new game and true when a
// reload happened; the caller must Initialize it before the next Update.
func (l *Loader) Poll(ctx context.Context) (game.Game, bool) {
	var last time.Time
	if l.live != nil {
		last = l.live.ModTime
	}

	mt, changed, err := l.watcher.Changed(last)
	if err != nil {
		if !l.statFailed {
			l.logger.Warn("cannot stat game module", zap.Error(err))
			l.statFailed = true
		}
		return nil, false
	}
	if l.statFailed {
		l.logger.Info("game module reappeared")
		l.statFailed = false
	}
	if !changed {
		return nil, false
	}

	stable, err := l.watcher.Stabilize(ctx, mt)
	if err != nil {
		l.logger.Warn("game module did not settle", zap.Error(err))
		return nil, false
	}

	rec, err := l.load(ctx, stable)
	if err != nil {
		l.reportFailure(stable, err)
		return nil, false
	}

	l.swap(ctx, rec)
	return rec.Game, true
}

func (l *Loader) load(ctx context.Context, mt time.Time) (*Record, error) {
	l.logger.Info("reloading game", zap.Time("mtime", mt))

	wasm, err := stage(l.watcher.Path(), l.staging)
	if err != nil {
		return nil, err
	}

	mod, err := l.modules.LoadModule(ctx, wasm)
	if err != nil {
		return nil, err
	}

	g, err := mod.NewGame(ctx, l.caps)
	if err != nil {
		if cerr := mod.Close(ctx); cerr != nil {
			l.logger.Warn("close rejected module", zap.String("module", mod.ID()), zap.Error(cerr))
		}
		return nil, err
	}

	return &Record{
		ModTime:    mt,
		Module:     mod,
		Game:       g,
		Generation: l.generation + 1,
	}, nil
}

// reportFailure logs a failed reload at error level once per source
// modification time and at debug level for retries of the same file.
func (l *Loader) reportFailure(mt time.Time, err error) {
	fields := []zap.Field{zap.Time("mtime", mt), zap.Error(err)}
	if l.live != nil {
		fields = append(fields, zap.Uint64("kept_generation", l.live.Generation))
	}
	if mt.Equal(l.failedAt) {
		l.logger.Debug("game reload retry failed", fields...)
		return
	}
	l.failedAt = mt
	l.logger.Error("game reload failed", fields...)
}

// swap makes rec live, then retires the previous record.
func (l *Loader) swap(ctx context.Context, rec *Record) {
	old := l.live
	l.live = rec
	l.generation = rec.Generation
	l.failedAt = time.Time{}

	l.logger.Info("game reloaded",
		zap.Uint64("generation", rec.Generation),
		zap.String("module", rec.Module.ID()),
		zap.Time("mtime", rec.ModTime))

	if old != nil {
		l.retire(ctx, old)
	}
}

func (l *Loader) retire(ctx context.Context, rec *Record) {
	if err := rec.Game.Destroy(ctx); err != nil {
		l.logger.Warn("destroy game failed",
			zap.String("module", rec.Module.ID()),
			zap.Uint64("generation", rec.Generation),
			zap.Error(err))
	}
	if err := rec.Module.Close(ctx); err != nil {
		l.logger.Warn("close module failed",
			zap.String("module", rec.Module.ID()),
			zap.Uint64("generation", rec.Generation),
			zap.Error(err))
	}
}

// Current returns the live game, or nil before the first successful load.
func (l *Loader) Current() game.Game {
	if l.live == nil {
		return nil
	}
	return l.live.Game
}

// Live returns a copy of the live record.
func (l *Loader) Live() (Record, bool) {
	if l.live == nil {
		return Record{}, false
	}
	return *l.live, true
}

// Generation returns the number of successful loads.
func (l *Loader) Generation() uint64 {
	return l.generation
}

// Close destroys the live game and closes its module.
func (l *Loader) Close(ctx context.Context) error {
	if l.live == nil {
		return nil
	}
	rec := l.live
	l.live = nil

	err := rec.Game.Destroy(ctx)
	if cerr := rec.Module.Close(ctx); err == nil {
		err = cerr
	}
	return err
}
