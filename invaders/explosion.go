package invaders

import (
	"github.com/plus3/invaders/ecs"
)

// ExplosionMaterializeSystem turns each ExplosionRequest into an Explosion at the
// same position and retires the request, so a request lives exactly one tick.
type ExplosionMaterializeSystem struct {
	Requests ecs.Query[struct {
		ecs.EntityId
		*ExplosionRequest
		*Transform
	}]
	Materials ecs.Singleton[Materials]
	Tally     ecs.Singleton[Tally]

	Sprite     SpriteSize
	Frames     int
	FrameTicks int
}

func (s *ExplosionMaterializeSystem) Execute(frame *ecs.UpdateFrame) {
	for id, req := range s.Requests.Iter() {
		frame.Commands.Delete(id)

		frame.Commands.Spawn(
			Explosion{
				Frames:     s.Frames,
				FrameTicks: s.FrameTicks,
				Remaining:  s.Frames * s.FrameTicks,
			},
			Transform{X: req.Transform.X, Y: req.Transform.Y, Z: req.Transform.Z, ScaleX: s.Sprite.Scale, ScaleY: s.Sprite.Scale},
			Sprite{Handle: s.Materials.Get().Explosion, Width: s.Sprite.Width, Height: s.Sprite.Height},
		)
		s.Tally.Get().ExplosionsShown++
	}
}

// ExplosionAgingSystem advances explosion animations one tick and despawns them
// once their lifetime is used up.
type ExplosionAgingSystem struct {
	Explosions ecs.Query[struct {
		ecs.EntityId
		*Explosion
		*Sprite
	}]
}

func (s *ExplosionAgingSystem) Execute(frame *ecs.UpdateFrame) {
	for id, e := range s.Explosions.Iter() {
		e.Explosion.Remaining--
		if e.Explosion.Remaining <= 0 {
			frame.Commands.Delete(id)
			continue
		}

		elapsed := e.Explosion.Frames*e.Explosion.FrameTicks - e.Explosion.Remaining
		e.Explosion.Frame = min(elapsed/e.Explosion.FrameTicks, e.Explosion.Frames-1)
		e.Sprite.Frame = e.Explosion.Frame
	}
}
