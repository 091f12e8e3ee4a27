package ecs_test

import (
	"fmt"

	"github.com/plus3/invaders/ecs"
)

type Transform struct {
	X, Y float32
}

type Speed struct {
	DX, DY float32
}

type Lifetime struct {
	Ticks int
}

type PhysicsSystem struct {
	Entities ecs.Query[struct {
		*Transform
		*Speed
	}]
}

func (s *PhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	for _, entity := range s.Entities.Iter() {
		entity.Transform.X += entity.Speed.DX * float32(frame.DeltaTime)
		entity.Transform.Y += entity.Speed.DY * float32(frame.DeltaTime)
	}
}

type LifetimeSystem struct {
	Entities ecs.Query[struct{ *Lifetime }]
}

func (s *LifetimeSystem) Execute(frame *ecs.UpdateFrame) {
	for id, entity := range s.Entities.Iter() {
		entity.Lifetime.Ticks--
		if entity.Lifetime.Ticks <= 0 {
			frame.Commands.Delete(id)
		}
	}
}

// ExampleScheduler demonstrates a fixed-step loop with multiple systems.
// The Scheduler initializes Query fields, refreshes each system's queries right
// before it runs, and flushes the shared command buffer at the end of the tick.
func ExampleScheduler() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Speed](registry)
	ecs.RegisterComponent[Lifetime](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(Transform{}, Speed{DX: 10, DY: 5}, Lifetime{Ticks: 2})
	storage.Spawn(Transform{X: 100, Y: 100}, Speed{DX: -5, DY: -5}, Lifetime{Ticks: 5})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&PhysicsSystem{})
	scheduler.Register(&LifetimeSystem{})

	view := ecs.NewView[struct {
		*Transform
		*Lifetime
	}](storage)

	for tick := 1; tick <= 3; tick++ {
		scheduler.Once(1.0)
		fmt.Printf("tick %d:\n", tick)
		for item := range view.Values() {
			fmt.Printf("  at (%.0f, %.0f), %d ticks left\n", item.Transform.X, item.Transform.Y, item.Lifetime.Ticks)
		}
	}

	// Output:
	// tick 1:
	//   at (10, 5), 1 ticks left
	//   at (95, 95), 4 ticks left
	// tick 2:
	//   at (90, 90), 3 ticks left
	// tick 3:
	//   at (85, 85), 2 ticks left
}
