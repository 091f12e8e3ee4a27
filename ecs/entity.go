package ecs

// EntityId is a stable handle to an entity. It packs the archetype ID (upper 16 bits),
// the slot generation (next 16 bits) and the slot index (lower 32 bits).
// A slot's generation is bumped every time the slot is freed, so an id held past
// its entity's destruction never resolves again, even after the slot is reused.
type EntityId uint64

// NewEntityId creates an EntityId from an archetype ID, slot generation and slot index
func NewEntityId(archetypeId uint16, generation uint16, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<48 | uint64(generation)<<32 | uint64(index))
}

// ArchetypeId extracts the archetype ID from the entity ID
func (e EntityId) ArchetypeId() uint16 {
	return uint16(e >> 48)
}

// Generation extracts the slot generation from the entity ID
func (e EntityId) Generation() uint16 {
	return uint16(e >> 32)
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// IsZero reports whether the id is the zero handle, which is never issued.
func (e EntityId) IsZero() bool {
	return e == 0
}
