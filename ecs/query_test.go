package ecs_test

import (
	"testing"

	"github.com/plus3/invaders/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryPanicsBeforeExecute(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Position }](storage)

	assert.Panics(t, func() { query.Iter() })
	assert.Panics(t, func() { query.Values() })
}

func TestQuerySnapshot(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	a := storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2})

	query := ecs.NewQuery[struct{ *Position }](storage)
	query.Execute()
	assert.Equal(t, 2, query.Len())

	storage.Spawn(Position{X: 3})
	assert.Equal(t, 2, query.Len(), "snapshot ignores spawns until the next Execute")

	query.Execute()
	assert.Equal(t, 3, query.Len())

	storage.Delete(a)
	query.Execute()
	assert.Equal(t, 2, query.Len())
}

func TestQueryPicksUpNewArchetypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 1})

	query := ecs.NewQuery[struct{ *Position }](storage)
	query.Execute()
	require.Equal(t, 1, query.Len())

	storage.Spawn(Position{X: 2}, Velocity{})
	query.Execute()
	assert.Equal(t, 2, query.Len())
}

func TestQueryNestedIteration(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 3; i++ {
		storage.Spawn(Score(i))
	}

	query := ecs.NewQuery[struct{ *Score }](storage)
	query.Execute()

	pairs := 0
	for outer := range query.Iter() {
		for inner := range query.Iter() {
			if outer != inner {
				pairs++
			}
		}
	}
	assert.Equal(t, 6, pairs)
}

func TestQueryValuesShareStorage(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Health{Current: 1, Max: 10})

	query := ecs.NewQuery[struct{ *Health }](storage)
	query.Execute()

	for item := range query.Values() {
		item.Health.Current = item.Health.Max
	}
	assert.Equal(t, 10, ecs.ReadComponent[Health](storage, id).Current)
}
