package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/invaders/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 1.0, Y: 2.0}, &Velocity{DX: 0.5, DY: 0.5}, Score(32))
	assert.False(t, id.IsZero())
	assert.Greater(t, id.ArchetypeId(), uint16(0))
	assert.True(t, storage.Alive(id))
}

func TestSpawnWithoutComponentsPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	assert.Panics(t, func() { storage.Spawn() })
}

func TestSpawnUnregisteredComponentPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	assert.Panics(t, func() { storage.Spawn(uint8(1)) })
}

func TestGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 3.0, Y: 4.0}, Name{Value: "Test Entity"})

	posComp := storage.GetComponent(id, reflect.TypeOf(Position{}))
	require.NotNil(t, posComp)
	pos := posComp.(*Position)
	assert.Equal(t, float32(3.0), pos.X)
	assert.Equal(t, float32(4.0), pos.Y)

	name := ecs.ReadComponent[Name](storage, id)
	require.NotNil(t, name)
	assert.Equal(t, "Test Entity", name.Value)

	assert.Nil(t, storage.GetComponent(id, reflect.TypeOf(Velocity{})))
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
}

func TestComponentPointerIsStable(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := storage.Spawn(Position{X: 1})
	ptr := ecs.ReadComponent[Position](storage, first)
	require.NotNil(t, ptr)

	for i := 0; i < 500; i++ {
		storage.Spawn(Position{X: float32(i)})
	}

	ptr.X = 42
	assert.Equal(t, float32(42), ecs.ReadComponent[Position](storage, first).X)
}

func TestDeleteEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 1})
	other := storage.Spawn(Position{X: 3, Y: 4}, Velocity{DX: 2})

	assert.True(t, storage.Delete(id))
	assert.False(t, storage.Alive(id))
	assert.Nil(t, ecs.ReadComponent[Position](storage, id))
	assert.False(t, storage.HasComponent(id, reflect.TypeOf(Position{})))

	require.True(t, storage.Alive(other))
	assert.Equal(t, float32(3), ecs.ReadComponent[Position](storage, other).X)
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	old := storage.Spawn(Position{X: 1})
	require.True(t, storage.Delete(old))

	reused := storage.Spawn(Position{X: 2})
	assert.Equal(t, old.Index(), reused.Index(), "freed slot should be recycled")
	assert.NotEqual(t, old.Generation(), reused.Generation())

	assert.False(t, storage.Alive(old))
	assert.Nil(t, ecs.ReadComponent[Position](storage, old))
	assert.True(t, storage.Alive(reused))
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, reused).X)
}

func TestArchetypesAreSharedAndOrdered(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{}, Velocity{})
	b := storage.Spawn(Velocity{}, Position{})
	c := storage.Spawn(Name{})

	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.NotEqual(t, a.ArchetypeId(), c.ArchetypeId())

	archetypes := storage.GetArchetypes()
	require.Len(t, archetypes, 2)
	assert.Equal(t, uint16(1), archetypes[0].ID())
	assert.Equal(t, uint16(2), archetypes[1].ID())
	assert.Equal(t, 2, archetypes[0].Len())

	assert.Same(t, archetypes[0], storage.GetArchetype(Velocity{}, Position{}))
	assert.Same(t, archetypes[1], storage.GetArchetypeByTypes([]reflect.Type{reflect.TypeOf(Name{})}))
	assert.Nil(t, storage.GetArchetype(Health{}))
}

func TestCount(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{}, Velocity{})
	storage.Spawn(Position{})
	dead := storage.Spawn(Position{}, Name{})
	storage.Delete(dead)

	assert.Equal(t, 2, storage.Count(reflect.TypeOf(Position{})))
	assert.Equal(t, 1, storage.Count(reflect.TypeOf(Velocity{})))
	assert.Equal(t, 0, storage.Count(reflect.TypeOf(Name{})))
}

func TestArchetypeIterSlotOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	ids := make([]ecs.EntityId, 4)
	for i := range ids {
		ids[i] = storage.Spawn(Score(i))
	}
	storage.Delete(ids[1])

	archetype := storage.GetArchetype(Score(0))
	require.NotNil(t, archetype)

	var seen []ecs.EntityId
	for id := range archetype.Iter() {
		seen = append(seen, id)
	}
	assert.Equal(t, []ecs.EntityId{ids[0], ids[2], ids[3]}, seen)
	assert.Equal(t, 4, archetype.Cap())
}

func TestPrimitiveComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Score(100), Temperature(36.6))

	assert.Equal(t, Score(100), *ecs.ReadComponent[Score](storage, id))
	assert.Equal(t, Temperature(36.6), *ecs.ReadComponent[Temperature](storage, id))
}

func TestComponentRegistryRegistered(t *testing.T) {
	registry := newTestRegistry()
	assert.True(t, registry.Registered(reflect.TypeOf(Position{})))
	assert.False(t, registry.Registered(reflect.TypeOf(uint8(0))))
}
