package main

import (
	"github.com/spf13/cobra"

	"github.com/wippyai/hotreload/config"
	"github.com/wippyai/hotreload/engine"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	// engineOptions are appended when the run command creates the engine.
	engineOptions []engine.Option
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hotreload",
		Short: "Hot-reloading game loop",
		Long: "Runs a game module in a fixed-tick loop and swaps in a fresh copy " +
			"whenever the module file changes on disk.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (console|json)")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newBuildGameCommand())
	cmd.AddCommand(newEventsCommand())

	return cmd
}

// loadConfig layers the config file, the environment and the flags that
// were set explicitly, then validates the result.
func (o *rootOptions) loadConfig(cmd *cobra.Command, apply func(*config.Config)) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	if apply != nil {
		apply(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
