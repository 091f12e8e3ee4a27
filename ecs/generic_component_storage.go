package ecs

import (
	"reflect"
)

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent simulations to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be spawned.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	r.factories[t] = func() iComponentStorage {
		return &genericComponentStorage[T]{}
	}
}

// Registered reports whether the component type has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

// getFactory returns the factory function for a given component type.
// Returns nil if the type is not registered.
func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const (
	genericBlockSize = 64
)

// genericComponentStorage stores components of a specific type `T` in fixed-size blocks.
// Blocks are heap allocated individually so pointers handed out by Get stay valid
// when the column grows.
type genericComponentStorage[T any] struct {
	blocks []*[genericBlockSize]T
}

// Set writes a component into the given slot, growing the column as needed.
func (cs *genericComponentStorage[T]) Set(index int, item any) bool {
	if index < 0 {
		return false
	}

	var concreteItem T
	if ptr, ok := item.(*T); ok {
		concreteItem = *ptr
	} else if val, ok := item.(T); ok {
		concreteItem = val
	} else {
		return false
	}

	blockIdx := index / genericBlockSize
	for blockIdx >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([genericBlockSize]T))
	}

	cs.blocks[blockIdx][index%genericBlockSize] = concreteItem
	return true
}

// Get returns a pointer to the component at the given slot.
func (cs *genericComponentStorage[T]) Get(index int) any {
	if index < 0 {
		return nil
	}

	blockIdx := index / genericBlockSize
	if blockIdx >= len(cs.blocks) {
		return nil
	}

	return &cs.blocks[blockIdx][index%genericBlockSize]
}

// Clear zeroes the slot so freed components do not pin memory.
func (cs *genericComponentStorage[T]) Clear(index int) {
	if index < 0 {
		return
	}

	blockIdx := index / genericBlockSize
	if blockIdx >= len(cs.blocks) {
		return
	}

	var zero T
	cs.blocks[blockIdx][index%genericBlockSize] = zero
}

// Cap returns the number of allocated slots.
func (cs *genericComponentStorage[T]) Cap() int {
	return len(cs.blocks) * genericBlockSize
}
