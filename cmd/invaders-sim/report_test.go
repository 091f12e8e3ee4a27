package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/plus3/invaders/config"
	"github.com/plus3/invaders/invaders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 5 * time.Millisecond}}
	s.Finalize()

	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 5*time.Millisecond, s.Max)
	assert.Equal(t, 3*time.Millisecond, s.Avg)

	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportFromRun(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Ticks = 600
	cfg.Enemy.SpawnInterval = 20

	world, err := invaders.NewWorld(invaders.Options{Config: cfg})
	require.NoError(t, err)
	world.SetInput(invaders.NewAutopilot(world, 8))

	report := &Report{Ticks: cfg.Simulation.Ticks, TickRate: 60, Width: 598, Height: 676}
	for i := 0; i < report.Ticks; i++ {
		tick(world, report)
	}
	report.TickTime.Finalize()
	report.collect(world)

	assert.Equal(t, uint64(600), report.TicksRun)
	assert.Empty(t, report.InvariantFailures)
	assert.Len(t, report.TickTime.Samples, 600)
	assert.NotEmpty(t, report.Systems)

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "# Invaders Simulation Report")
	assert.Contains(t, out, "**Ticks Run:** 600")
	assert.Contains(t, out, "| CollisionSystem |")
	assert.Contains(t, out, "**Invariant Check Failures:** 0")
}

func TestReportListsInvariantFailures(t *testing.T) {
	report := &Report{InvariantFailures: []string{"tick 3: active enemy count 2 != live enemies 1"}}

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	assert.Contains(t, buf.String(), "  - tick 3: active enemy count 2 != live enemies 1")
}
