// Command invaders plays the simulation in an Ebiten window. Sprites are drawn
// as coloured boxes; -debug adds the Dear ImGui overlay.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/invaders/config"
	"github.com/plus3/invaders/ecs"
	"github.com/plus3/invaders/ecs/debugui"
	debugui_ebiten "github.com/plus3/invaders/ecs/debugui/ebiten"
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
	debug := flag.Bool("debug", false, "Show the ECS debug overlay.")
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

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	sprites, err := config.LoadSpriteTable(cfg.Assets.SpriteTable)
	if err != nil {
		return err
	}

	game := &Game{width: int(cfg.Window.Width), height: int(cfg.Window.Height)}

	world, err := invaders.NewWorld(invaders.Options{
		Config:    cfg,
		Sprites:   sprites,
		Materials: materials,
		Input:     game,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	game.world = world

	if *debug {
		backend := debugui_ebiten.NewImguiBackend(cfg.Window.Title, game.width, game.height)
		game.imgui = &backend
		debugui.Install(world.Registry, world.Storage, world.Scheduler)
		game.capture = ecs.NewSingleton[debugui.ImguiInputState](world.Storage)
	} else {
		ebiten.SetWindowSize(game.width, game.height)
		ebiten.SetWindowTitle(cfg.Window.Title)
	}
	ebiten.SetTPS(cfg.Simulation.TickRate)

	log.Info("window opened",
		zap.String("title", cfg.Window.Title),
		zap.Int("tps", cfg.Simulation.TickRate),
		zap.Bool("debug", *debug))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}

	tally := world.Tally()
	log.Info("game closed",
		zap.Uint64("ticks", world.Scheduler.Tick()),
		zap.Int("kills", tally.Kills),
		zap.Int("lasers_fired", tally.LasersFired))
	return nil
}
