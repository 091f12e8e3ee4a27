package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed sprites.yaml
var defaultSprites []byte

// Sprite names every simulation needs.
const (
	SpritePlayer    = "player"
	SpriteLaser     = "laser"
	SpriteEnemy     = "enemy"
	SpriteExplosion = "explosion"
)

// SpriteInfo is the static metadata for one sprite or sprite sheet.
type SpriteInfo struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Scale  float64 `yaml:"scale"`
	Frames int     `yaml:"frames"`
}

type spriteListFile struct {
	Sprites []SpriteInfo `yaml:"sprites"`
}

// SpriteTable holds sprite metadata indexed by name.
type SpriteTable struct {
	sprites map[string]*SpriteInfo
}

// LoadSpriteTable loads sprite metadata from a YAML file. An empty path loads
// the built-in table.
func LoadSpriteTable(path string) (*SpriteTable, error) {
	if path == "" {
		return parseSpriteTable(defaultSprites)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sprite table: %w", err)
	}
	return parseSpriteTable(data)
}

func parseSpriteTable(data []byte) (*SpriteTable, error) {
	var f spriteListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sprite table: %w", err)
	}

	t := &SpriteTable{sprites: make(map[string]*SpriteInfo, len(f.Sprites))}
	for i := range f.Sprites {
		s := &f.Sprites[i]
		if s.Width <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("sprite %q: size %gx%g must be positive", s.Name, s.Width, s.Height)
		}
		if s.Scale == 0 {
			s.Scale = 1
		}
		if s.Frames < 1 {
			s.Frames = 1
		}
		t.sprites[s.Name] = s
	}

	for _, name := range []string{SpritePlayer, SpriteLaser, SpriteEnemy, SpriteExplosion} {
		if _, ok := t.sprites[name]; !ok {
			return nil, fmt.Errorf("sprite table: missing %q", name)
		}
	}
	return t, nil
}

// Get returns a sprite by name, or nil if not found.
func (t *SpriteTable) Get(name string) *SpriteInfo {
	return t.sprites[name]
}

// Count returns the number of loaded sprites.
func (t *SpriteTable) Count() int {
	return len(t.sprites)
}
