package ecs

// iComponentStorage is a type-erased column of components addressed by slot index.
// Slot allocation and liveness belong to the owning Archetype.
type iComponentStorage interface {
	Set(index int, item any) bool
	Clear(index int)
	Get(index int) any
	Cap() int
}
