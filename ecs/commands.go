package ecs

import (
	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// Commands provides a buffer for deferred ECS operations that are executed at the end of a frame.
// This prevents structural changes to the ECS storage during system execution: queries
// keep seeing every entity that was live when the frame started, and deletions are
// applied together in Flush.
type Commands struct {
	storage *Storage
	spawns  []spawnCommand
	deletes []EntityId
	pending *intmap.Map[EntityId, struct{}]
	defers  []deferCommand
}

func newCommands(storage *Storage) *Commands {
	return &Commands{
		storage: storage,
		pending: intmap.New[EntityId, struct{}](64),
	}
}

type deferCommand struct {
	fn func()
}

type spawnCommand struct {
	components []any
}

// Defer queues a function to run after all deletions and spawns have been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues an entity deletion operation. Queuing the same entity twice in one
// frame, or queuing an entity that is already dead, is an invariant violation and
// the second request is dropped.
func (c *Commands) Delete(entity EntityId) {
	if _, ok := c.pending.Get(entity); ok {
		c.storage.ReportViolation("entity deleted twice in one frame", zap.Uint64("entity", uint64(entity)))
		return
	}
	if !c.storage.Alive(entity) {
		c.storage.ReportViolation("delete of dead entity", zap.Uint64("entity", uint64(entity)))
		return
	}

	c.pending.Put(entity, struct{}{})
	c.deletes = append(c.deletes, entity)
}

// Pending reports whether the entity is queued for deletion this frame.
func (c *Commands) Pending(entity EntityId) bool {
	_, ok := c.pending.Get(entity)
	return ok
}

// PendingDeletes returns the number of queued deletions.
func (c *Commands) PendingDeletes() int {
	return len(c.deletes)
}

// PendingSpawns returns the number of queued spawns.
func (c *Commands) PendingSpawns() int {
	return len(c.spawns)
}

// Flush applies all queued commands to the storage and resets the buffer.
// Deletions run first so freed slots are recycled by the spawns that follow.
func (c *Commands) Flush(storage *Storage) {
	for _, id := range c.deletes {
		storage.Delete(id)
	}

	for _, cmd := range c.spawns {
		storage.Spawn(cmd.components...)
	}

	for _, df := range c.defers {
		df.fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.defers = c.defers[:0]
	c.pending.Clear()
}
