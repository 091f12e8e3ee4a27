// Command invaders-sim runs the simulation headless under a scripted autopilot,
// checks the invariants after every tick and prints a report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/plus3/invaders/config"
	"github.com/plus3/invaders/invaders"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to the TOML config file (default $"+config.EnvPath+" or invaders.toml).")
	ticks := flag.Int("ticks", 0, "Number of ticks to simulate (default simulation.ticks from the config).")
	firePeriod := flag.Int("fire-period", 8, "Autopilot press/release cycle in ticks.")
	realtime := flag.Bool("realtime", false, "Pace ticks at the configured tick rate instead of running flat out.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	path, explicit := config.Resolve(*configPath, "invaders.toml")
	var (
		cfg *config.Config
		err error
	)
	if explicit {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return err
	}
	if *ticks > 0 {
		cfg.Simulation.Ticks = *ticks
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	sprites, err := config.LoadSpriteTable(cfg.Assets.SpriteTable)
	if err != nil {
		return err
	}

	world, err := invaders.NewWorld(invaders.Options{
		Config:  cfg,
		Sprites: sprites,
		Logger:  log,
	})
	if err != nil {
		return err
	}
	world.SetInput(invaders.NewAutopilot(world, *firePeriod))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := &Report{
		Ticks:          cfg.Simulation.Ticks,
		TickRate:       cfg.Simulation.TickRate,
		Seed:           cfg.Simulation.Seed,
		Width:          cfg.Window.Width,
		Height:         cfg.Window.Height,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Info("simulation starting", zap.Int("ticks", cfg.Simulation.Ticks), zap.Bool("realtime", *realtime))
	startTime := time.Now()

	if *realtime {
		runPaced(ctx, world, report)
	} else {
		runFlatOut(ctx, world, report)
	}

	report.TotalTime = time.Since(startTime)
	report.TickTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.collect(world)

	log.Info("simulation finished",
		zap.Uint64("ticks", report.TicksRun),
		zap.Int("invariant_failures", len(report.InvariantFailures)))

	fmt.Println("\n--- Simulation Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")

	if n := len(report.InvariantFailures); n > 0 {
		return fmt.Errorf("%d invariant failures", n)
	}
	return nil
}

func runFlatOut(ctx context.Context, world *invaders.World, report *Report) {
	for i := 0; i < report.Ticks; i++ {
		if ctx.Err() != nil {
			return
		}
		tick(world, report)
	}
}

func runPaced(ctx context.Context, world *invaders.World, report *Report) {
	ticker := time.NewTicker(time.Duration(float64(time.Second) * world.DeltaTime()))
	defer ticker.Stop()

	for i := 0; i < report.Ticks; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(world, report)
		}
	}
}

func tick(world *invaders.World, report *Report) {
	start := time.Now()
	world.Tick()
	report.TickTime.Samples = append(report.TickTime.Samples, time.Since(start))

	if err := world.CheckInvariants(); err != nil {
		report.InvariantFailures = append(report.InvariantFailures,
			fmt.Sprintf("tick %d: %v", world.Scheduler.Tick(), err))
	}
}
