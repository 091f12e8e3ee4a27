package invaders

import (
	"github.com/plus3/invaders/ecs"
)

// MovementSystem moves the player horizontally from the controls and lasers straight up.
// Positions are not clamped to the play area.
type MovementSystem struct {
	Players ecs.Query[struct {
		*Player
		*Transform
		*Speed
	}]
	Lasers ecs.Query[struct {
		*Laser
		*Transform
		*Speed
	}]
	Input ecs.Singleton[InputState]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	input := s.Input.Get()

	for _, p := range s.Players.Iter() {
		p.Transform.X += direction(input) * float64(*p.Speed) * frame.DeltaTime
	}

	for _, l := range s.Lasers.Iter() {
		l.Transform.Y += float64(*l.Speed) * frame.DeltaTime
	}
}

// direction maps the controls to -1, 0 or +1. Left wins when both are held.
func direction(input *InputState) float64 {
	switch {
	case input == nil:
		return 0
	case input.Left:
		return -1
	case input.Right:
		return 1
	}
	return 0
}

// LaserBoundsSystem despawns lasers once they are entirely above the play area.
type LaserBoundsSystem struct {
	Lasers ecs.Query[struct {
		ecs.EntityId
		*Laser
		*Transform
		*Sprite
	}]
	Win ecs.Singleton[WinSize]
}

func (s *LaserBoundsSystem) Execute(frame *ecs.UpdateFrame) {
	top := s.Win.Get().H / 2

	for id, l := range s.Lasers.Iter() {
		_, h := l.Sprite.Extent(l.Transform)
		if l.Transform.Y-h/2 > top {
			frame.Commands.Delete(id)
		}
	}
}
