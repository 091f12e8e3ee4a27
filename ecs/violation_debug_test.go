//go:build ecsdebug

package ecs_test

import (
	"testing"

	"github.com/plus3/invaders/ecs"
	"github.com/stretchr/testify/assert"
)

func TestDeleteDeadEntityPanicsInDebugBuilds(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})
	storage.Delete(id)

	assert.Panics(t, func() { storage.Delete(id) })
}
