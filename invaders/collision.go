package invaders

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/invaders/ecs"
	"go.uber.org/zap"
)

// CollisionSystem tests every live laser against every live enemy. A laser kills at
// most one enemy per tick, the first it overlaps in enemy iteration order. Both are
// despawned, the enemy count drops by one and an explosion is requested at the
// enemy's position.
type CollisionSystem struct {
	Lasers ecs.Query[struct {
		ecs.EntityId
		*Laser
		*Transform
		*Sprite
	}]
	Enemies ecs.Query[struct {
		ecs.EntityId
		*Enemy
		*Transform
		*Sprite
	}]
	Active ecs.Singleton[ActiveEnemies]
	Tally  ecs.Singleton[Tally]

	// kills maps each enemy hit this tick to the laser that hit it.
	kills *intmap.Map[ecs.EntityId, ecs.EntityId]
}

func (s *CollisionSystem) Execute(frame *ecs.UpdateFrame) {
	if s.kills == nil {
		s.kills = intmap.New[ecs.EntityId, ecs.EntityId](16)
	}
	s.kills.Clear()

	for laserId, laser := range s.Lasers.Iter() {
		if frame.Commands.Pending(laserId) {
			continue
		}

		for enemyId, enemy := range s.Enemies.Iter() {
			if _, hit := s.kills.Get(enemyId); hit || frame.Commands.Pending(enemyId) {
				continue
			}
			if !overlaps(laser.Transform, laser.Sprite, enemy.Transform, enemy.Sprite) {
				continue
			}

			s.kill(frame, laserId, enemyId, enemy.Transform)
			break
		}
	}
}

func (s *CollisionSystem) kill(frame *ecs.UpdateFrame, laserId, enemyId ecs.EntityId, at *Transform) {
	s.kills.Put(enemyId, laserId)

	frame.Commands.Delete(enemyId)
	frame.Commands.Delete(laserId)

	active := s.Active.Get()
	if active.Count <= 0 {
		frame.Storage.ReportViolation("active enemy count underflow", zap.Int("count", active.Count))
	} else {
		active.Count--
	}
	s.Tally.Get().Kills++

	frame.Commands.Spawn(
		ExplosionRequest{},
		Transform{X: at.X, Y: at.Y, Z: at.Z, ScaleX: 1, ScaleY: 1},
	)

	frame.Storage.Logger().Debug("enemy destroyed",
		zap.Uint64("tick", frame.Tick),
		zap.Uint64("enemy", uint64(enemyId)),
		zap.Uint64("laser", uint64(laserId)))
}

// KillsThisTick returns how many enemies were hit during the last Execute.
func (s *CollisionSystem) KillsThisTick() int {
	if s.kills == nil {
		return 0
	}
	return s.kills.Len()
}

// overlaps reports whether two centred boxes intersect. Touching edges do not count.
func overlaps(at *Transform, as *Sprite, bt *Transform, bs *Sprite) bool {
	aw, ah := as.Extent(at)
	bw, bh := bs.Extent(bt)

	return at.X-aw/2 < bt.X+bw/2 &&
		at.X+aw/2 > bt.X-bw/2 &&
		at.Y-ah/2 < bt.Y+bh/2 &&
		at.Y+ah/2 > bt.Y-bh/2
}
