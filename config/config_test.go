package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 598.0, cfg.Window.Width)
	assert.Equal(t, 676.0, cfg.Window.Height)
	assert.InDelta(t, 1.0/60, cfg.DeltaTime(), 1e-12)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "invaders.toml", `
[simulation]
tick_rate = 30
seed = 42

[enemy]
max_active = 5

[logging]
level = "debug"
format = "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Simulation.TickRate)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.Equal(t, 5, cfg.Enemy.MaxActive)
	assert.Equal(t, "json", cfg.Logging.Format)

	// untouched sections keep their defaults
	assert.Equal(t, 500.0, cfg.Player.Speed)
	assert.Equal(t, 60, cfg.Enemy.SpawnInterval)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")

	cfg, err := LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadBadTOML(t *testing.T) {
	path := writeFile(t, "bad.toml", "[simulation\ntick_rate = ")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	_, err = LoadOrDefault(path)
	assert.Error(t, err, "only a missing file falls back to defaults")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Simulation.TickRate = 0
	cfg.Player.FireCooldown = 0
	cfg.Explosion.FrameTicks = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
	assert.Contains(t, err.Error(), "tick_rate")
	assert.Contains(t, err.Error(), "fire_cooldown")
	assert.Contains(t, err.Error(), "frame_ticks")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeFile(t, "invalid.toml", "[enemy]\nside_margin = 400\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "side_margin")
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvPath, "")
	path, explicit := Resolve("", "invaders.toml")
	assert.Equal(t, "invaders.toml", path)
	assert.False(t, explicit)

	t.Setenv(EnvPath, "/etc/invaders.toml")
	path, explicit = Resolve("", "invaders.toml")
	assert.Equal(t, "/etc/invaders.toml", path)
	assert.True(t, explicit)

	path, explicit = Resolve("cli.toml", "invaders.toml")
	assert.Equal(t, "cli.toml", path)
	assert.True(t, explicit)
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(LoggingConfig{Level: "warn", Format: "console"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log, err = NewLogger(LoggingConfig{Level: "bogus", Format: "json"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
