package ecs

import (
	"reflect"
	"slices"
	"sort"
	"unsafe"

	"go.uber.org/zap"
)

// Storage is the entity store: archetype tables, singletons, and the
// invariant-violation channel shared by every system operating on it.
type Storage struct {
	archetypes []*Archetype
	byKey      map[uint32]*Archetype
	registry   *ComponentRegistry

	singletons     map[reflect.Type]*singletonEntry
	singletonOrder []reflect.Type

	log        *zap.Logger
	violations int
}

// NewStorage creates a new ECS storage with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		byKey:      make(map[uint32]*Archetype),
		registry:   registry,
		singletons: make(map[reflect.Type]*singletonEntry),
		log:        zap.NewNop(),
	}
}

// SetLogger replaces the logger used to report invariant violations.
func (s *Storage) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	s.log = log
}

// Logger returns the storage logger.
func (s *Storage) Logger() *zap.Logger {
	return s.log
}

// ReportViolation records a broken programmer invariant. Builds with the
// ecsdebug tag panic; other builds log a warning and carry on.
func (s *Storage) ReportViolation(msg string, fields ...zap.Field) {
	s.violations++
	if panicOnViolation {
		panic("ecs: invariant violation: " + msg)
	}
	s.log.Warn(msg, fields...)
}

// Violations returns how many invariant violations have been reported.
func (s *Storage) Violations() int {
	return s.violations
}

// GetArchetypes returns every archetype in creation order
func (s *Storage) GetArchetypes() []*Archetype {
	return s.archetypes
}

// GetArchetype returns an archetype storage (if one exists)
func (s *Storage) GetArchetype(components ...any) *Archetype {
	return s.byKey[hashTypesToUint32(extractComponentTypes(components))]
}

// GetArchetypeByTypes returns an archetype storage (if one exists) based on reflect.Type
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := slices.Clone(types)
	sort.Sort(byTypeName(sorted))
	return s.byKey[hashTypesToUint32(sorted)]
}

func (s *Storage) archetypeOf(id EntityId) *Archetype {
	archetypeId := int(id.ArchetypeId())
	if archetypeId == 0 || archetypeId > len(s.archetypes) {
		return nil
	}
	return s.archetypes[archetypeId-1]
}

func (s *Storage) getOrCreateArchetype(types []reflect.Type) *Archetype {
	key := hashTypesToUint32(types)
	if archetype, ok := s.byKey[key]; ok {
		return archetype
	}

	if len(s.archetypes) >= 0xFFFF {
		panic("ecs: archetype limit reached")
	}

	archetype := NewArchetype(uint16(len(s.archetypes)+1), types, s.registry)
	s.archetypes = append(s.archetypes, archetype)
	s.byKey[key] = archetype
	return archetype
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)
	return s.getOrCreateArchetype(types).Spawn(components)
}

// Alive reports whether the id refers to a live entity
func (s *Storage) Alive(id EntityId) bool {
	archetype := s.archetypeOf(id)
	return archetype != nil && archetype.Alive(id)
}

// Delete removes all data related to the entity ID. Deleting a dead or stale
// id is reported as an invariant violation and otherwise ignored.
func (s *Storage) Delete(id EntityId) bool {
	archetype := s.archetypeOf(id)
	if archetype == nil || !archetype.Delete(id) {
		s.ReportViolation("delete of dead entity", zap.Uint64("entity", uint64(id)))
		return false
	}
	return true
}

// GetComponent returns the component for the given entity ID and component type,
// or nil if the entity is dead or does not carry that component.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype := s.archetypeOf(id)
	if archetype == nil {
		return nil
	}
	return archetype.GetComponent(id, compType)
}

// HasComponent checks if a live entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype := s.archetypeOf(id)
	if archetype == nil || !archetype.Alive(id) {
		return false
	}
	return archetype.HasComponent(compType)
}

// Count returns the number of live entities across all archetypes carrying compType
func (s *Storage) Count(compType reflect.Type) int {
	total := 0
	for _, archetype := range s.archetypes {
		if archetype.HasComponent(compType) {
			total += archetype.Len()
		}
	}
	return total
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := reflect.TypeOf(comp)

		// If it's a pointer, get the underlying type
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		if compType.Kind() == reflect.Ptr || compType.Kind() == reflect.Map ||
			compType.Kind() == reflect.Chan || compType.Kind() == reflect.Func {
			panic("components cannot be pointers, maps, channels, or functions")
		}

		types = append(types, compType)
	}
	sort.Sort(byTypeName(types))
	return types
}

// hashTypesToUint32 generates a uint32 hash for a sorted slice of types
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261     // FNV-1a 32-bit offset basis
	const prime uint32 = 16777619 // FNV-1a 32-bit prime

	for _, t := range types {
		// Use the type's pointer as a unique identifier
		ptr := (*iface)(unsafe.Pointer(&t)).data
		val := uint32(uintptr(ptr))

		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(uintptr(ptr) >> 32)
		}

		h ^= val
		h *= prime
	}

	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns a typed pointer to the entity's component, or nil when
// the entity is gone or lacks it.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp := reader.GetComponent(entityId, reflect.TypeFor[T]())
	if comp == nil {
		return nil
	}
	return comp.(*T)
}
