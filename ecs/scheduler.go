package ecs

import (
	"context"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Ticks           uint64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (st *systemStatsInternal) record(d time.Duration) {
	st.executionCount++
	st.lastDuration = d
	st.totalDuration += d
	if d < st.minDuration {
		st.minDuration = d
	}
	if d > st.maxDuration {
		st.maxDuration = d
	}
}

type registeredSystem struct {
	system    System
	preparers []preparer
	stats     *systemStatsInternal
}

// Scheduler manages and executes systems in registration order.
//
// Startup systems run exactly once, before the first regular tick. Every tick
// shares one Commands buffer, which is flushed after the last system returns.
type Scheduler struct {
	storage  *Storage
	commands *Commands
	startup  []*registeredSystem
	systems  []*registeredSystem
	tick     uint64
	started  bool
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage:  storage,
		commands: newCommands(storage),
	}
}

// Register adds a system to the scheduler and initializes its Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, s.prepare(system))
}

// RegisterStartup adds a system that runs once before the first tick.
func (s *Scheduler) RegisterStartup(system System) {
	if s.started {
		panic("RegisterStartup called after the scheduler started")
	}
	s.startup = append(s.startup, s.prepare(system))
}

func (s *Scheduler) prepare(system System) *registeredSystem {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	rs := &registeredSystem{
		system:    system,
		preparers: s.initializeFields(system),
		stats: &systemStatsInternal{
			name:        systemType.Name(),
			minDuration: time.Duration(1<<63 - 1),
		},
	}

	s.storage.Logger().Debug("system registered",
		zap.String("system", rs.stats.name),
		zap.Int("queries", len(rs.preparers)))
	return rs
}

func (s *Scheduler) initializeFields(system System) []preparer {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	systemType := systemValue.Type()
	var preparers []preparer

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()

		if strings.HasPrefix(typeName, "Query[") || strings.HasPrefix(typeName, "Singleton[") {
			initMethod := field.Addr().MethodByName("Init")
			if !initMethod.IsValid() {
				panic("Init method not found on field: " + fieldType.Name)
			}

			initMethod.Call([]reflect.Value{
				reflect.ValueOf(s.storage),
			})
		}

		if strings.HasPrefix(typeName, "Query[") {
			if p, ok := field.Addr().Interface().(preparer); ok {
				preparers = append(preparers, p)
			}
		}
	}

	return preparers
}

// Startup runs the startup systems and flushes their commands. It is a no-op after
// the first call; Once calls it implicitly.
func (s *Scheduler) Startup() {
	if s.started {
		return
	}
	s.started = true

	frame := newUpdateFrame(0, 0, s.storage, s.commands)
	for _, rs := range s.startup {
		s.execute(rs, frame)
	}
	s.commands.Flush(s.storage)
}

// Once executes all registered systems once with the given delta time.
func (s *Scheduler) Once(dt float64) {
	s.Startup()

	s.tick++
	frame := newUpdateFrame(s.tick, dt, s.storage, s.commands)

	for _, rs := range s.systems {
		s.execute(rs, frame)
	}

	s.commands.Flush(s.storage)
}

func (s *Scheduler) execute(rs *registeredSystem, frame *UpdateFrame) {
	start := time.Now()
	for _, p := range rs.preparers {
		p.Execute()
	}
	rs.system.Execute(frame)
	rs.stats.record(time.Since(start))
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
// Every tick advances the simulation by exactly interval, regardless of wall-clock jitter.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := interval.Seconds()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Once(dt)
		}
	}
}

// Tick returns the number of regular ticks executed so far.
func (s *Scheduler) Tick() uint64 {
	return s.tick
}

// Storage returns the storage the scheduler operates on.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// GetStats returns statistics about system execution. Startup systems are listed first.
func (s *Scheduler) GetStats() *SchedulerStats {
	all := make([]*registeredSystem, 0, len(s.startup)+len(s.systems))
	all = append(all, s.startup...)
	all = append(all, s.systems...)

	stats := &SchedulerStats{
		SystemCount: len(all),
		Ticks:       s.tick,
		Systems:     make([]SystemStats, len(all)),
	}

	for i, rs := range all {
		internal := rs.stats
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		stats.TotalExecutions += internal.executionCount
	}

	return stats
}
