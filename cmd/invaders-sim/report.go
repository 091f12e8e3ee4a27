package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/invaders/ecs"
	"github.com/plus3/invaders/invaders"
)

type Report struct {
	// Configuration
	Ticks    int
	TickRate int
	Seed     uint64
	Width    float64
	Height   float64

	// Results
	TicksRun          uint64
	TotalTime         time.Duration
	TickTime          Stats
	Tally             invaders.Tally
	Final             invaders.Counts
	Violations        int
	InvariantFailures []string
	Systems           []ecs.SystemStats
	GCPauseMetrics    bool
	MemStatsStart     runtime.MemStats
	MemStatsEnd       runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) collect(world *invaders.World) {
	r.TicksRun = world.Scheduler.Tick()
	r.Tally = world.Tally()
	r.Final = world.Counts()
	r.Violations = world.Storage.Violations()
	r.Systems = world.Scheduler.GetStats().Systems
}

const reportTemplate = `
# Invaders Simulation Report

## Configuration
- **Play Area:** {{.Width}}x{{.Height}}
- **Tick Rate:** {{.TickRate}} Hz
- **Seed:** {{.Seed}}
- **Requested Ticks:** {{.Ticks}}

## Gameplay
- **Ticks Run:** {{.TicksRun}}
- **Enemies Spawned:** {{.Tally.EnemiesSpawned}}
- **Lasers Fired:** {{.Tally.LasersFired}}
- **Kills:** {{.Tally.Kills}}
- **Explosions Shown:** {{.Tally.ExplosionsShown}}
- **Live At End:** {{.Final.Players}} player, {{.Final.Enemies}} enemies ({{.Final.ActiveEnemies}} counted), {{.Final.Lasers}} lasers, {{.Final.Explosions}} explosions

## Consistency
- **Invariant Violations:** {{.Violations}}
- **Invariant Check Failures:** {{len .InvariantFailures}}
{{- range .InvariantFailures}}
  - {{.}}
{{- end}}

## Performance
- **Total Time:** {{.TotalTime}}
- **Tick Time:**
  - **Avg:** {{.TickTime.Avg}}
  - **Min:** {{.TickTime.Min}}
  - **Max:** {{.TickTime.Max}}

| System | Runs | Avg | Max |
|---|---|---|---|
{{- range .Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

var reportFuncs = template.FuncMap{
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
	"ns": func(ns uint64) string {
		return time.Duration(ns).String()
	},
}

func (r *Report) Generate(w io.Writer) error {
	tmpl, err := template.New("report").Funcs(reportFuncs).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
