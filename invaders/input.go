package invaders

import (
	"github.com/plus3/invaders/ecs"
)

// Action is a logical control the host maps physical keys to.
type Action int

const (
	ActionLeft Action = iota
	ActionRight
	ActionFire
)

func (a Action) String() string {
	switch a {
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionFire:
		return "fire"
	}
	return "unknown"
}

// InputSource reports which actions are held during the current tick.
type InputSource interface {
	Pressed(Action) bool
}

// InputState is the per-tick snapshot of the controls.
type InputState struct {
	Left, Right, Fire bool
}

// Pressed implements InputSource, so a fixed InputState can drive the simulation.
func (s InputState) Pressed(a Action) bool {
	switch a {
	case ActionLeft:
		return s.Left
	case ActionRight:
		return s.Right
	case ActionFire:
		return s.Fire
	}
	return false
}

// InputSystem copies the host controls into the InputState singleton.
// With no Source the singleton is left as is.
type InputSystem struct {
	Input  ecs.Singleton[InputState]
	Source InputSource
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Source == nil {
		return
	}

	state := s.Input.Get()
	state.Left = s.Source.Pressed(ActionLeft)
	state.Right = s.Source.Pressed(ActionRight)
	state.Fire = s.Source.Pressed(ActionFire)
}
