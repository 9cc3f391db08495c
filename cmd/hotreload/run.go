package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/hotreload/config"
	"github.com/wippyai/hotreload/driver"
	"github.com/wippyai/hotreload/engine"
	"github.com/wippyai/hotreload/reload"
	"github.com/wippyai/hotreload/runtime"
)

type runFlags struct {
	source            string
	staging           string
	backend           string
	engineConfig      string
	stabilizeInterval time.Duration
	frameInterval     time.Duration
	memoryLimitPages  uint32
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the game loop",
		Long: "Initializes the engine, loads the game module and ticks until the " +
			"engine reports turn off. The module is reloaded whenever it changes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd, f.apply(cmd))
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logger.Sync()

			return runLoop(cmd.Context(), cfg, logger, opts.engineOptions...)
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringVarP(&f.source, "source", "s", defaults.Source, "game module to watch")
	flags.StringVar(&f.staging, "staging", defaults.Staging, "staging copy of the module")
	flags.StringVarP(&f.backend, "backend", "b", defaults.Backend, "input backend (scripted|terminal|tui)")
	flags.StringVar(&f.engineConfig, "engine-config", defaults.EngineConfig, "backend configuration string")
	flags.DurationVar(&f.stabilizeInterval, "stabilize-interval", defaults.StabilizeInterval, "pause between mtime reads while a write settles")
	flags.DurationVar(&f.frameInterval, "frame-interval", defaults.FrameInterval, "minimum time between ticks")
	flags.Uint32Var(&f.memoryLimitPages, "memory-limit-pages", defaults.MemoryLimitPages, "module memory cap in 64KiB pages (0 = unlimited)")

	return cmd
}

// apply copies the flags that were set explicitly over cfg.
func (f *runFlags) apply(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("source") {
			cfg.Source = f.source
		}
		if flags.Changed("staging") {
			cfg.Staging = f.staging
		}
		if flags.Changed("backend") {
			cfg.Backend = f.backend
		}
		if flags.Changed("engine-config") {
			cfg.EngineConfig = f.engineConfig
		}
		if flags.Changed("stabilize-interval") {
			cfg.StabilizeInterval = f.stabilizeInterval
		}
		if flags.Changed("frame-interval") {
			cfg.FrameInterval = f.frameInterval
		}
		if flags.Changed("memory-limit-pages") {
			cfg.MemoryLimitPages = f.memoryLimitPages
		}
	}
}

// runLoop wires engine, runtime, loader and driver for one session.
func runLoop(ctx context.Context, cfg config.Config, logger *zap.Logger, engineOpts ...engine.Option) (err error) {
	backend, err := engine.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}

	var slot engine.Slot
	eng, err := slot.Create(backend, append([]engine.Option{engine.WithLogger(logger)}, engineOpts...)...)
	if err != nil {
		return err
	}
	defer func() {
		if derr := slot.Destroy(eng); derr != nil && err == nil {
			err = derr
		}
	}()

	rt, err := runtime.New(ctx,
		runtime.WithLogger(logger),
		runtime.WithScreen(eng.Screen()),
		runtime.WithMemoryLimitPages(cfg.MemoryLimitPages))
	if err != nil {
		return err
	}
	defer rt.Close(context.WithoutCancel(ctx))

	loader, err := reload.New(rt, cfg.Source, cfg.Staging,
		reload.WithLogger(logger),
		reload.WithStabilizeInterval(cfg.StabilizeInterval),
		reload.WithCapabilities(uint32(eng.Capabilities())))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := loader.Close(context.WithoutCancel(ctx)); cerr != nil {
			logger.Warn("unload game failed", zap.Error(cerr))
		}
	}()

	loop := driver.New(eng, loader,
		driver.WithLogger(logger),
		driver.WithFrameInterval(cfg.FrameInterval))

	if err := loop.Run(ctx, cfg.EngineConfig); err != nil {
		logger.Error("engine failed", zap.Error(err))
		return err
	}
	logger.Info("shutdown", zap.Uint64("generation", loader.Generation()))
	return nil
}
