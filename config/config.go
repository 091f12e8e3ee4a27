// Package config loads simulation settings from TOML and sprite metadata from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

// EnvPath names the environment variable consulted when no -config flag is given.
const EnvPath = "INVADERS_CONFIG"

type Config struct {
	Window     WindowConfig     `toml:"window"`
	Simulation SimulationConfig `toml:"simulation"`
	Player     PlayerConfig     `toml:"player"`
	Laser      LaserConfig      `toml:"laser"`
	Enemy      EnemyConfig      `toml:"enemy"`
	Explosion  ExplosionConfig  `toml:"explosion"`
	Logging    LoggingConfig    `toml:"logging"`
	Assets     AssetsConfig     `toml:"assets"`
}

type WindowConfig struct {
	Title  string  `toml:"title"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type SimulationConfig struct {
	TickRate int    `toml:"tick_rate"` // ticks per second
	Seed     uint64 `toml:"seed"`      // enemy placement RNG seed
	Ticks    int    `toml:"ticks"`     // headless run length
}

type PlayerConfig struct {
	Speed        float64 `toml:"speed"`         // pixels per second
	BottomMargin float64 `toml:"bottom_margin"` // gap between sprite and window bottom
	Z            float64 `toml:"z"`
	FireCooldown int     `toml:"fire_cooldown"` // ticks between shots
}

type LaserConfig struct {
	Speed float64 `toml:"speed"`
}

type EnemyConfig struct {
	SpawnInterval int     `toml:"spawn_interval"` // ticks
	MaxActive     int     `toml:"max_active"`
	TopMargin     float64 `toml:"top_margin"`
	SideMargin    float64 `toml:"side_margin"`
}

type ExplosionConfig struct {
	FrameTicks int `toml:"frame_ticks"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type AssetsConfig struct {
	SpriteTable string `toml:"sprite_table"` // empty uses the built-in table
}

// DeltaTime is the fixed simulation step in seconds.
func (c *Config) DeltaTime() float64 {
	return 1.0 / float64(c.Simulation.TickRate)
}

// Load reads the TOML file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Resolve picks the config path: the flag value if set, otherwise $INVADERS_CONFIG,
// otherwise fallback. explicit reports whether the user named the file.
func Resolve(flagValue, fallback string) (path string, explicit bool) {
	if flagValue != "" {
		return flagValue, true
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env, true
	}
	return fallback, false
}

// Validate reports every out-of-range setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("window size %gx%g must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Simulation.TickRate <= 0 {
		err = multierr.Append(err, fmt.Errorf("simulation.tick_rate %d must be positive", c.Simulation.TickRate))
	}
	if c.Simulation.Ticks < 0 {
		err = multierr.Append(err, fmt.Errorf("simulation.ticks %d must not be negative", c.Simulation.Ticks))
	}
	if c.Player.Speed < 0 || c.Laser.Speed < 0 {
		err = multierr.Append(err, errors.New("speeds must not be negative"))
	}
	if c.Player.FireCooldown < 1 {
		err = multierr.Append(err, fmt.Errorf("player.fire_cooldown %d must be at least 1", c.Player.FireCooldown))
	}
	if c.Enemy.SpawnInterval < 1 {
		err = multierr.Append(err, fmt.Errorf("enemy.spawn_interval %d must be at least 1", c.Enemy.SpawnInterval))
	}
	if c.Enemy.MaxActive < 0 {
		err = multierr.Append(err, fmt.Errorf("enemy.max_active %d must not be negative", c.Enemy.MaxActive))
	}
	if 2*c.Enemy.SideMargin >= c.Window.Width {
		err = multierr.Append(err, fmt.Errorf("enemy.side_margin %g leaves no spawn width", c.Enemy.SideMargin))
	}
	if c.Explosion.FrameTicks < 1 {
		err = multierr.Append(err, fmt.Errorf("explosion.frame_ticks %d must be at least 1", c.Explosion.FrameTicks))
	}
	return err
}

// Default returns the built-in settings: a 598x676 play area at 60 ticks per second.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Invaders",
			Width:  598,
			Height: 676,
		},
		Simulation: SimulationConfig{
			TickRate: 60,
			Seed:     1,
			Ticks:    3600,
		},
		Player: PlayerConfig{
			Speed:        500,
			BottomMargin: 5,
			Z:            10,
			FireCooldown: 10,
		},
		Laser: LaserConfig{
			Speed: 500,
		},
		Enemy: EnemyConfig{
			SpawnInterval: 60,
			MaxActive:     2,
			TopMargin:     50,
			SideMargin:    50,
		},
		Explosion: ExplosionConfig{
			FrameTicks: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
