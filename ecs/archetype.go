package ecs

import (
	"iter"
	"reflect"
	"slices"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype represents a unique combination of component types.
// It owns slot allocation for its entities: every component column shares the same
// slot index, and each slot carries a generation that is bumped when the slot is freed.
type Archetype struct {
	id       uint16
	types    []reflect.Type
	storages []iComponentStorage

	generations []uint16
	alive       []bool
	freeSlots   []uint32
	count       int
}

// NewArchetype creates a new archetype with the given ID and sorted component types
func NewArchetype(id uint16, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]iComponentStorage, len(types)),
	}

	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[idx] = factory()
	}

	return a
}

// allocate returns a free slot, preferring the most recently released one.
func (a *Archetype) allocate() uint32 {
	if n := len(a.freeSlots); n > 0 {
		slot := a.freeSlots[n-1]
		a.freeSlots = a.freeSlots[:n-1]
		a.alive[slot] = true
		return slot
	}

	slot := uint32(len(a.alive))
	a.alive = append(a.alive, true)
	a.generations = append(a.generations, 0)
	return slot
}

// Spawn creates a new entity in this archetype with the given components
func (a *Archetype) Spawn(components []any) EntityId {
	slot := a.allocate()
	for _, comp := range components {
		compType := reflect.TypeOf(comp)
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		for idx, typ := range a.types {
			if typ == compType {
				a.storages[idx].Set(int(slot), comp)
			}
		}
	}
	a.count++

	return NewEntityId(a.id, a.generations[slot], slot)
}

// Alive reports whether the id refers to a live entity of this archetype
func (a *Archetype) Alive(id EntityId) bool {
	if id.ArchetypeId() != a.id {
		return false
	}
	slot := id.Index()
	if int(slot) >= len(a.alive) {
		return false
	}
	return a.alive[slot] && a.generations[slot] == id.Generation()
}

// GetComponent returns the component of the given type for the entity, or nil
// if the entity is not alive or the archetype lacks the component.
func (a *Archetype) GetComponent(id EntityId, compType reflect.Type) any {
	if !a.Alive(id) {
		return nil
	}

	for i, typ := range a.types {
		if typ == compType {
			return a.storages[i].Get(int(id.Index()))
		}
	}
	return nil
}

// Delete frees the entity's slot. Returns false if the id was already dead.
func (a *Archetype) Delete(id EntityId) bool {
	if !a.Alive(id) {
		return false
	}

	slot := id.Index()
	for _, storage := range a.storages {
		storage.Clear(int(slot))
	}

	a.alive[slot] = false
	a.generations[slot]++
	a.freeSlots = append(a.freeSlots, slot)
	a.count--
	return true
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's identifier
func (a *Archetype) ID() uint16 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in this archetype
func (a *Archetype) Len() int {
	return a.count
}

// slots yields the live slot indices in ascending order
func (a *Archetype) slots() iter.Seq[int] {
	return func(yield func(int) bool) {
		for slot, live := range a.alive {
			if !live {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// Iter returns an iterator over all live EntityIds in this archetype, in slot order
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for slot := range a.slots() {
			if !yield(NewEntityId(a.id, a.generations[slot], uint32(slot))) {
				return
			}
		}
	}
}

// Cap returns the number of slots ever allocated, live or free
func (a *Archetype) Cap() int {
	return len(a.alive)
}
