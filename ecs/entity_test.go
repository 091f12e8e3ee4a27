package ecs_test

import (
	"fmt"
	"testing"

	"github.com/plus3/invaders/ecs"
	"github.com/stretchr/testify/assert"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint16
		generation  uint16
		index       uint32
	}{
		{0, 0, 0},
		{1, 0, 0},
		{0xFFFF, 0xFFFF, 0xFFFFFFFF},
		{7, 3, 12},
		{0x1234, 0x5678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,gen=%d,index=%d", tt.archetypeId, tt.generation, tt.index), func(t *testing.T) {
			id := ecs.NewEntityId(tt.archetypeId, tt.generation, tt.index)
			assert.Equal(t, tt.archetypeId, id.ArchetypeId())
			assert.Equal(t, tt.generation, id.Generation())
			assert.Equal(t, tt.index, id.Index())
		})
	}
}

func TestEntityIdZero(t *testing.T) {
	assert.True(t, ecs.EntityId(0).IsZero())
	assert.False(t, ecs.NewEntityId(1, 0, 0).IsZero())
}

func TestEntityIdGenerationDistinguishesHandles(t *testing.T) {
	a := ecs.NewEntityId(1, 0, 5)
	b := ecs.NewEntityId(1, 1, 5)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a.Index(), b.Index())
}
