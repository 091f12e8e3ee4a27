package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/invaders/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movementSystem struct {
	Movers ecs.Query[struct {
		*Position
		*Velocity
	}]
	lastDt float64
}

func (s *movementSystem) Execute(frame *ecs.UpdateFrame) {
	s.lastDt = frame.DeltaTime
	for _, m := range s.Movers.Iter() {
		m.Position.X += m.Velocity.DX * float32(frame.DeltaTime)
		m.Position.Y += m.Velocity.DY * float32(frame.DeltaTime)
	}
}

type spawnerSystem struct{}

func (s *spawnerSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(Position{}, Velocity{DX: 1})
}

type counterSystem struct {
	Movers ecs.Query[struct{ *Position }]
	seen   []int
}

func (s *counterSystem) Execute(frame *ecs.UpdateFrame) {
	s.seen = append(s.seen, s.Movers.Len())
}

func TestSchedulerInitializesQueries(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{}, Velocity{DX: 10, DY: 20})

	scheduler := ecs.NewScheduler(storage)
	system := &movementSystem{}
	scheduler.Register(system)

	scheduler.Once(0.5)

	pos := ecs.ReadComponent[Position](storage, id)
	assert.Equal(t, float32(5), pos.X)
	assert.Equal(t, float32(10), pos.Y)
	assert.Equal(t, 0.5, system.lastDt)
}

func TestSchedulerQueriesPreparedPerSystem(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&spawnerSystem{})
	counter := &counterSystem{}
	scheduler.Register(counter)

	scheduler.Once(0)
	scheduler.Once(0)
	scheduler.Once(0)

	// spawns become visible one tick after they are queued
	assert.Equal(t, []int{0, 1, 2}, counter.seen)
}

type startupSystem struct {
	runs int
}

func (s *startupSystem) Execute(frame *ecs.UpdateFrame) {
	s.runs++
	frame.Commands.Spawn(PlayerController{}, Position{})
}

type tickRecorder struct {
	Players ecs.Query[struct{ *PlayerController }]
	ticks   []uint64
	players []int
}

func (s *tickRecorder) Execute(frame *ecs.UpdateFrame) {
	s.ticks = append(s.ticks, frame.Tick)
	s.players = append(s.players, s.Players.Len())
}

func TestSchedulerStartupRunsOnce(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	scheduler := ecs.NewScheduler(storage)
	startup := &startupSystem{}
	scheduler.RegisterStartup(startup)
	recorder := &tickRecorder{}
	scheduler.Register(recorder)

	scheduler.Once(0)
	scheduler.Once(0)
	scheduler.Startup()

	assert.Equal(t, 1, startup.runs)
	assert.Equal(t, []uint64{1, 2}, recorder.ticks)
	assert.Equal(t, []int{1, 1}, recorder.players, "startup spawns are flushed before the first tick")
	assert.Equal(t, uint64(2), scheduler.Tick())

	assert.Panics(t, func() { scheduler.RegisterStartup(&startupSystem{}) })
}

type singletonSystem struct {
	Counter ecs.Singleton[Score]
}

func (s *singletonSystem) Execute(frame *ecs.UpdateFrame) {
	*s.Counter.Get()++
}

func TestSchedulerInitializesSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton[Score](storage, 10)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&singletonSystem{})
	scheduler.Once(0)
	scheduler.Once(0)

	var score *Score
	require.True(t, storage.ReadSingleton(&score))
	assert.Equal(t, Score(12), *score)
}

func TestSchedulerStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	scheduler := ecs.NewScheduler(storage)
	scheduler.RegisterStartup(&startupSystem{})
	scheduler.Register(&movementSystem{})
	scheduler.Register(&counterSystem{})

	for i := 0; i < 3; i++ {
		scheduler.Once(0.016)
	}

	stats := scheduler.GetStats()
	assert.Equal(t, 3, stats.SystemCount)
	assert.Equal(t, uint64(3), stats.Ticks)
	assert.Equal(t, int64(7), stats.TotalExecutions)

	require.Len(t, stats.Systems, 3)
	assert.Equal(t, "startupSystem", stats.Systems[0].Name)
	assert.Equal(t, int64(1), stats.Systems[0].ExecutionCount)
	assert.Equal(t, "movementSystem", stats.Systems[1].Name)
	assert.Equal(t, int64(3), stats.Systems[1].ExecutionCount)
	assert.LessOrEqual(t, stats.Systems[1].MinDuration, stats.Systems[1].MaxDuration)
	assert.Equal(t, stats.Systems[1].TotalDuration/3, stats.Systems[1].AvgDuration)
}

func TestSchedulerStatsBeforeFirstTick(t *testing.T) {
	scheduler := ecs.NewScheduler(ecs.NewStorage(newTestRegistry()))
	scheduler.Register(&counterSystem{})

	stats := scheduler.GetStats()
	require.Len(t, stats.Systems, 1)
	assert.Equal(t, time.Duration(0), stats.Systems[0].MinDuration)
	assert.Equal(t, int64(0), stats.TotalExecutions)
}

func TestSchedulerRunUsesFixedStep(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	scheduler := ecs.NewScheduler(storage)
	system := &movementSystem{}
	scheduler.Register(system)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	assert.Greater(t, scheduler.Tick(), uint64(0))
	assert.Equal(t, (5 * time.Millisecond).Seconds(), system.lastDt)
}
