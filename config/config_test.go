package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/hotreload/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hotreload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	out, err := cfg.Marshal()
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "default_config", out)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, `
source: build/game.wasm
staging: build/staged.wasm
backend: tui
engine_config: inline
stabilize_interval: 250ms
frame_interval: 0s
memory_limit_pages: 16
log_level: debug
log_format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Source:            "build/game.wasm",
		Staging:           "build/staged.wasm",
		Backend:           "tui",
		EngineConfig:      "inline",
		StabilizeInterval: 250 * time.Millisecond,
		FrameInterval:     0,
		MemoryLimitPages:  16,
		LogLevel:          "debug",
		LogFormat:         "json",
	}, cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_PartialYAMLKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "backend: scripted\n"))
	require.NoError(t, err)

	want := Default()
	want.Backend = "scripted"
	assert.Equal(t, want, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "sorce: typo.wasm\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidData})
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOTRELOAD_SOURCE", "env.wasm")
	t.Setenv("HOTRELOAD_STABILIZE_INTERVAL", "1s")

	cfg, err := Load(writeFile(t, "source: file.wasm\nbackend: scripted\n"))
	require.NoError(t, err)
	assert.Equal(t, "env.wasm", cfg.Source)
	assert.Equal(t, time.Second, cfg.StabilizeInterval)
	assert.Equal(t, "scripted", cfg.Backend)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(&cfg, map[string]string{
		"HOTRELOAD_BACKEND":            "tui",
		"HOTRELOAD_MEMORY_LIMIT_PAGES": "32",
		"HOTRELOAD_LOG_LEVEL":          "warn",
		"UNRELATED":                    "x",
	})
	require.NoError(t, err)
	assert.Equal(t, "tui", cfg.Backend)
	assert.Equal(t, uint32(32), cfg.MemoryLimitPages)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, Default().Source, cfg.Source)

	err = ApplyEnv(&cfg, map[string]string{"HOTRELOAD_FRAME_INTERVAL": "soon"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty_source", func(c *Config) { c.Source = "" }},
		{"empty_staging", func(c *Config) { c.Staging = "" }},
		{"same_paths", func(c *Config) { c.Staging = c.Source }},
		{"aliased_paths", func(c *Config) { c.Source, c.Staging = "libgame.wasm", "./libgame.wasm" }},
		{"zero_stabilize", func(c *Config) { c.StabilizeInterval = 0 }},
		{"negative_frame", func(c *Config) { c.FrameInterval = -time.Millisecond }},
		{"unknown_backend", func(c *Config) { c.Backend = "sdl" }},
		{"unknown_level", func(c *Config) { c.LogLevel = "trace" }},
		{"unknown_format", func(c *Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidInput})
		})
	}
}
