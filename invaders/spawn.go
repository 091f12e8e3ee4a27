package invaders

import (
	"math/rand/v2"

	"github.com/plus3/invaders/ecs"
	"go.uber.org/zap"
)

// SpriteSize is the unscaled size and scale an entity kind is spawned with.
type SpriteSize struct {
	Width, Height float64
	Scale         float64
}

// PlayerSpawnSystem places the ship near the bottom centre. It runs in the startup
// stage; running it a second time is an invariant violation and spawns nothing.
type PlayerSpawnSystem struct {
	Players   ecs.Query[struct{ *Player }]
	Tally     ecs.Singleton[Tally]
	Win       ecs.Singleton[WinSize]
	Materials ecs.Singleton[Materials]

	Sprite       SpriteSize
	Speed        Speed
	BottomMargin float64
	Z            float64
}

func (s *PlayerSpawnSystem) Execute(frame *ecs.UpdateFrame) {
	tally := s.Tally.Get()
	if tally.PlayersSpawned > 0 || s.Players.Len() > 0 {
		frame.Storage.ReportViolation("player spawned twice")
		return
	}
	tally.PlayersSpawned++

	bottom := -s.Win.Get().H / 2
	t := Transform{
		X:      0,
		Y:      bottom + s.Sprite.Height*s.Sprite.Scale/2 + s.BottomMargin,
		Z:      s.Z,
		ScaleX: s.Sprite.Scale,
		ScaleY: s.Sprite.Scale,
	}

	frame.Commands.Spawn(
		Player{ReadyToFire: true},
		t,
		s.Speed,
		Sprite{Handle: s.Materials.Get().Player, Width: s.Sprite.Width, Height: s.Sprite.Height},
	)
	frame.Storage.Logger().Info("player spawned", zap.Float64("x", t.X), zap.Float64("y", t.Y))
}

// EnemySpawnSystem adds one enemy every Interval ticks while fewer than MaxActive
// are alive. Enemies appear at a fixed height with a uniformly random x.
type EnemySpawnSystem struct {
	Active    ecs.Singleton[ActiveEnemies]
	Tally     ecs.Singleton[Tally]
	Win       ecs.Singleton[WinSize]
	Materials ecs.Singleton[Materials]

	Sprite     SpriteSize
	Interval   int
	MaxActive  int
	TopMargin  float64
	SideMargin float64
	Rand       *rand.Rand
}

func (s *EnemySpawnSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Interval <= 0 || frame.Tick%uint64(s.Interval) != 0 {
		return
	}

	active := s.Active.Get()
	if active.Count >= s.MaxActive {
		return
	}

	win := s.Win.Get()
	minX := -win.W/2 + s.SideMargin
	maxX := win.W/2 - s.SideMargin
	x := minX + s.Rand.Float64()*(maxX-minX)
	y := win.H/2 - s.TopMargin

	s.SpawnAt(frame, x, y)
	frame.Storage.Logger().Debug("enemy spawned",
		zap.Uint64("tick", frame.Tick),
		zap.Float64("x", x),
		zap.Int("active", active.Count))
}

// SpawnAt queues an enemy at (x, y) and counts it as active.
func (s *EnemySpawnSystem) SpawnAt(frame *ecs.UpdateFrame, x, y float64) {
	s.Active.Get().Count++
	s.Tally.Get().EnemiesSpawned++

	frame.Commands.Spawn(
		Enemy{},
		Transform{X: x, Y: y, Z: 5, ScaleX: s.Sprite.Scale, ScaleY: s.Sprite.Scale},
		Sprite{Handle: s.Materials.Get().Enemy, Width: s.Sprite.Width, Height: s.Sprite.Height},
	)
}

// LaserSpawnSystem fires a laser from the ship when the trigger is held and the
// ship is ready. Firing is edge-triggered: the trigger must be released and
// Cooldown ticks must pass before the next shot.
type LaserSpawnSystem struct {
	Players ecs.Query[struct {
		*Player
		*Transform
	}]
	Input     ecs.Singleton[InputState]
	Tally     ecs.Singleton[Tally]
	Materials ecs.Singleton[Materials]

	Sprite   SpriteSize
	Speed    Speed
	Cooldown int
}

func (s *LaserSpawnSystem) Execute(frame *ecs.UpdateFrame) {
	input := s.Input.Get()
	fire := input != nil && input.Fire

	for _, p := range s.Players.Iter() {
		if p.Player.Cooldown > 0 {
			p.Player.Cooldown--
		}
		if !fire && p.Player.Cooldown == 0 {
			p.Player.ReadyToFire = true
		}

		if !fire || !p.Player.ReadyToFire {
			continue
		}

		p.Player.ReadyToFire = false
		p.Player.Cooldown = s.Cooldown
		s.Tally.Get().LasersFired++

		frame.Commands.Spawn(
			Laser{},
			Transform{X: p.Transform.X, Y: p.Transform.Y, Z: 0, ScaleX: s.Sprite.Scale, ScaleY: s.Sprite.Scale},
			s.Speed,
			Sprite{Handle: s.Materials.Get().Laser, Width: s.Sprite.Width, Height: s.Sprite.Height},
		)
	}
}
