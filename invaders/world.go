package invaders

import (
	"context"
	"fmt"
	"math/rand/v2"
	"reflect"
	"time"

	"github.com/plus3/invaders/config"
	"github.com/plus3/invaders/ecs"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Options configures a World.
type Options struct {
	Config    *config.Config
	Sprites   *config.SpriteTable
	Materials Materials
	Input     InputSource
	Logger    *zap.Logger
}

// World owns the entity store and the fixed system pipeline:
// input, movement, laser bounds, enemy spawn, laser spawn, collision,
// explosion materialization and explosion aging. The player spawns in the
// startup stage before the first tick.
type World struct {
	Registry  *ecs.ComponentRegistry
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler

	cfg       *config.Config
	log       *zap.Logger
	dt        float64
	input     *InputSystem
	collision *CollisionSystem
	enemies   *EnemySpawnSystem

	active *ecs.Singleton[ActiveEnemies]
	state  *ecs.Singleton[InputState]
	tally  *ecs.Singleton[Tally]
}

// NewWorld builds a world from the options. A nil Config or Sprites falls back to
// the built-in defaults.
func NewWorld(opts Options) (*World, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	sprites := opts.Sprites
	if sprites == nil {
		var err error
		if sprites, err = config.LoadSpriteTable(cfg.Assets.SpriteTable); err != nil {
			return nil, err
		}
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	storage.SetLogger(log)

	ecs.NewSingleton[WinSize](storage, WinSize{W: cfg.Window.Width, H: cfg.Window.Height})
	ecs.NewSingleton[Materials](storage, opts.Materials)

	w := &World{
		Registry:  registry,
		Storage:   storage,
		Scheduler: ecs.NewScheduler(storage),
		cfg:       cfg,
		log:       log,
		dt:        cfg.DeltaTime(),
		active:    ecs.NewSingleton[ActiveEnemies](storage),
		state:     ecs.NewSingleton[InputState](storage),
		tally:     ecs.NewSingleton[Tally](storage),
	}

	player := spriteSize(sprites.Get(config.SpritePlayer))
	laser := spriteSize(sprites.Get(config.SpriteLaser))
	explosion := sprites.Get(config.SpriteExplosion)

	w.Scheduler.RegisterStartup(&PlayerSpawnSystem{
		Sprite:       player,
		Speed:        Speed(cfg.Player.Speed),
		BottomMargin: cfg.Player.BottomMargin,
		Z:            cfg.Player.Z,
	})

	w.input = &InputSystem{Source: opts.Input}
	w.enemies = &EnemySpawnSystem{
		Sprite:     spriteSize(sprites.Get(config.SpriteEnemy)),
		Interval:   cfg.Enemy.SpawnInterval,
		MaxActive:  cfg.Enemy.MaxActive,
		TopMargin:  cfg.Enemy.TopMargin,
		SideMargin: cfg.Enemy.SideMargin,
		Rand:       rand.New(rand.NewPCG(cfg.Simulation.Seed, cfg.Simulation.Seed^0x9E3779B97F4A7C15)),
	}
	w.collision = &CollisionSystem{}

	w.Scheduler.Register(w.input)
	w.Scheduler.Register(&MovementSystem{})
	w.Scheduler.Register(&LaserBoundsSystem{})
	w.Scheduler.Register(w.enemies)
	w.Scheduler.Register(&LaserSpawnSystem{
		Sprite:   laser,
		Speed:    Speed(cfg.Laser.Speed),
		Cooldown: cfg.Player.FireCooldown,
	})
	w.Scheduler.Register(w.collision)
	w.Scheduler.Register(&ExplosionMaterializeSystem{
		Sprite:     spriteSize(explosion),
		Frames:     explosion.Frames,
		FrameTicks: cfg.Explosion.FrameTicks,
	})
	w.Scheduler.Register(&ExplosionAgingSystem{})

	log.Info("world created",
		zap.Float64("width", cfg.Window.Width),
		zap.Float64("height", cfg.Window.Height),
		zap.Int("tick_rate", cfg.Simulation.TickRate),
		zap.Uint64("seed", cfg.Simulation.Seed))

	return w, nil
}

func spriteSize(info *config.SpriteInfo) SpriteSize {
	return SpriteSize{Width: info.Width, Height: info.Height, Scale: info.Scale}
}

// SetInput replaces the control source. A nil source leaves Input() in charge.
func (w *World) SetInput(src InputSource) {
	w.input.Source = src
}

// Input returns the live control snapshot. Writes to it take effect on the
// next tick when no InputSource is set.
func (w *World) Input() *InputState {
	return w.state.Get()
}

// Tick advances the simulation by one fixed step.
func (w *World) Tick() {
	w.Scheduler.Once(w.dt)
}

// Run ticks at the configured rate until ctx is cancelled.
func (w *World) Run(ctx context.Context) {
	w.log.Info("simulation started")
	w.Scheduler.Run(ctx, time.Duration(float64(time.Second)*w.dt))
	w.log.Info("simulation stopped", zap.Uint64("ticks", w.Scheduler.Tick()))
}

// DeltaTime returns the fixed step in seconds.
func (w *World) DeltaTime() float64 {
	return w.dt
}

// Config returns the settings the world was built with.
func (w *World) Config() *config.Config {
	return w.cfg
}

// SpawnEnemy places an enemy directly, bypassing the spawn timer and budget.
// The enemy counts as active and becomes visible immediately.
func (w *World) SpawnEnemy(x, y float64) ecs.EntityId {
	w.active.Get().Count++
	w.tally.Get().EnemiesSpawned++

	size := w.enemies.Sprite
	return w.Storage.Spawn(
		Enemy{},
		Transform{X: x, Y: y, Z: 5, ScaleX: size.Scale, ScaleY: size.Scale},
		Sprite{Handle: w.materials().Enemy, Width: size.Width, Height: size.Height},
	)
}

func (w *World) materials() Materials {
	var m *Materials
	if !w.Storage.ReadSingleton(&m) {
		return Materials{}
	}
	return *m
}

// Counts is a census of live entities by kind.
type Counts struct {
	Players           int
	Lasers            int
	Enemies           int
	ExplosionRequests int
	Explosions        int
	ActiveEnemies     int
}

func (w *World) Counts() Counts {
	return Counts{
		Players:           w.Storage.Count(reflect.TypeFor[Player]()),
		Lasers:            w.Storage.Count(reflect.TypeFor[Laser]()),
		Enemies:           w.Storage.Count(reflect.TypeFor[Enemy]()),
		ExplosionRequests: w.Storage.Count(reflect.TypeFor[ExplosionRequest]()),
		Explosions:        w.Storage.Count(reflect.TypeFor[Explosion]()),
		ActiveEnemies:     w.active.Get().Count,
	}
}

// Tally returns the lifetime counters.
func (w *World) Tally() Tally {
	return *w.tally.Get()
}

// KillsThisTick returns the number of enemies destroyed during the last tick.
func (w *World) KillsThisTick() int {
	return w.collision.KillsThisTick()
}

// Player returns the ship's transform and fire state, or nils before startup.
func (w *World) Player() (*Transform, *Player) {
	view := ecs.NewView[struct {
		*Player
		*Transform
	}](w.Storage)
	for _, p := range view.Iter() {
		return p.Transform, p.Player
	}
	return nil, nil
}

// CheckInvariants verifies the cross-tick consistency rules: the active enemy
// count matches the live enemy population and is never negative, exactly one
// player exists once started, and explosion requests never outnumber the kills
// of the tick that queued them.
func (w *World) CheckInvariants() error {
	c := w.Counts()

	var err error
	if c.ActiveEnemies < 0 {
		err = multierr.Append(err, fmt.Errorf("active enemy count %d is negative", c.ActiveEnemies))
	}
	if c.ActiveEnemies != c.Enemies {
		err = multierr.Append(err, fmt.Errorf("active enemy count %d != live enemies %d", c.ActiveEnemies, c.Enemies))
	}
	if w.Scheduler.Tick() > 0 && c.Players != 1 {
		err = multierr.Append(err, fmt.Errorf("expected one player, found %d", c.Players))
	}
	if c.ExplosionRequests > w.KillsThisTick() {
		err = multierr.Append(err, fmt.Errorf("%d explosion requests outlived their tick", c.ExplosionRequests-w.KillsThisTick()))
	}
	return err
}
