// Package invaders implements the arcade shooter simulation on top of the ecs package:
// a player ship that moves and fires lasers, periodically spawned enemies,
// laser/enemy collisions and the explosion effects they leave behind.
package invaders

import (
	"github.com/plus3/invaders/ecs"
)

// AssetHandle is an opaque reference to a host-loaded image.
type AssetHandle uint32

// Transform places an entity in play-area coordinates: origin at the centre, y up.
// Z only orders drawing.
type Transform struct {
	X, Y, Z        float64
	ScaleX, ScaleY float64
}

// Speed is a scalar velocity in pixels per second.
type Speed float64

// DefaultSpeed is the speed of both the player ship and its lasers.
const DefaultSpeed Speed = 500

// Sprite is the drawable image of an entity and its unscaled size.
type Sprite struct {
	Handle        AssetHandle
	Width, Height float64
	// Frame indexes into a sprite sheet; zero for single images.
	Frame int
}

// Extent returns the scaled bounding box size centred on t.
func (s *Sprite) Extent(t *Transform) (w, h float64) {
	return s.Width * t.ScaleX, s.Height * t.ScaleY
}

// Player is the fire state of the ship.
type Player struct {
	// ReadyToFire is cleared on each shot and rearmed once the trigger is
	// released and Cooldown has run out.
	ReadyToFire bool
	// Cooldown is the number of ticks left before the player may rearm.
	Cooldown int
}

// Laser tags projectiles fired by the player.
type Laser struct{}

// Enemy tags stationary targets.
type Enemy struct{}

// ExplosionRequest marks a position where an explosion should appear on the next tick.
type ExplosionRequest struct{}

// Explosion is a short sprite-sheet animation.
type Explosion struct {
	Frame      int
	Frames     int
	FrameTicks int
	Remaining  int
}

// ActiveEnemies counts enemies alive or queued to spawn.
type ActiveEnemies struct {
	Count int
}

// WinSize is the play-area size, fixed at startup.
type WinSize struct {
	W, H float64
}

// Materials holds the image handles supplied by the host.
type Materials struct {
	Player    AssetHandle
	Laser     AssetHandle
	Enemy     AssetHandle
	Explosion AssetHandle
}

// Tally accumulates lifetime counters for reporting.
type Tally struct {
	PlayersSpawned  int
	LasersFired     int
	EnemiesSpawned  int
	Kills           int
	ExplosionsShown int
}

// RegisterComponents registers every entity component the simulation spawns.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Speed](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Laser](registry)
	ecs.RegisterComponent[Enemy](registry)
	ecs.RegisterComponent[ExplosionRequest](registry)
	ecs.RegisterComponent[Explosion](registry)
}
