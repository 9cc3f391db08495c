// Package config loads the hotreload configuration.
//
// Values are layered: Default, then an optional YAML file, then HOTRELOAD_*
// environment variables. Command-line flags are applied by the caller on
// top, after which Validate must pass.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/hotreload/engine"
	"github.com/wippyai/hotreload/errors"
	"github.com/wippyai/hotreload/reload"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "HOTRELOAD_"

// Config is the complete runtime configuration.
type Config struct {
	// Source is the game module the loader watches.
	Source string `yaml:"source" env:"SOURCE"`
	// Staging is where the module is copied before loading.
	Staging string `yaml:"staging" env:"STAGING"`
	// Backend selects the engine input backend.
	Backend string `yaml:"backend" env:"BACKEND"`
	// EngineConfig is passed to the backend's Initialize.
	EngineConfig string `yaml:"engine_config" env:"ENGINE_CONFIG"`
	// StabilizeInterval is the pause between mtime reads while a write
	// settles.
	StabilizeInterval time.Duration `yaml:"stabilize_interval" env:"STABILIZE_INTERVAL"`
	// FrameInterval paces ticks. Zero runs them back to back.
	FrameInterval time.Duration `yaml:"frame_interval" env:"FRAME_INTERVAL"`
	// MemoryLimitPages caps module memory in 64KiB pages. Zero is unlimited.
	MemoryLimitPages uint32 `yaml:"memory_limit_pages" env:"MEMORY_LIMIT_PAGES"`
	LogLevel         string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat        string `yaml:"log_format" env:"LOG_FORMAT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source:            "./libgame.wasm",
		Staging:           "./temp.wasm",
		Backend:           string(engine.BackendTerminal),
		StabilizeInterval: reload.DefaultStabilizeInterval,
		FrameInterval:     20 * time.Millisecond,
		LogLevel:          "info",
		LogFormat:         "console",
	}
}

// Load applies the YAML file at path (skipped when empty) and the
// environment over Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.IO(errors.PhaseConfig, path, "read config", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, errors.New(errors.PhaseConfig, errors.KindInvalidData).
				Path(path).
				Detail("parse yaml").
				Cause(err).
				Build()
		}
	}
	if err := ApplyEnv(&cfg, nil); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from environment variables. A nil environ reads
// the process environment.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse env")
	}
	return nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Source == "":
		return invalid("source path is empty")
	case c.Staging == "":
		return invalid("staging path is empty")
	case reload.SamePath(c.Source, c.Staging):
		return invalid("source and staging must differ")
	case c.StabilizeInterval <= 0:
		return invalid("stabilize_interval must be positive")
	case c.FrameInterval < 0:
		return invalid("frame_interval must not be negative")
	}
	if _, err := engine.ParseBackend(c.Backend); err != nil {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("unknown backend %q", c.Backend).
			Cause(err).
			Build()
	}
	if !contains(logLevels, c.LogLevel) {
		return invalid("unknown log_level " + c.LogLevel)
	}
	if !contains(logFormats, c.LogFormat) {
		return invalid("unknown log_format " + c.LogFormat)
	}
	return nil
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func invalid(detail string) error {
	return errors.InvalidInput(errors.PhaseConfig, detail)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
