package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

func main() {
	configFile := flag.String("config", "", "JSON or TOML configuration file (2D)")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			log.Fatalf("💥 failed to load config: %v", err)
		}
	}
	if cfg.WorldDepth > 0 {
		log.Fatalf("💥 the window renderer only draws 2D worlds, use flock-term or flock-headless for %q", *configFile)
	}

	ctx := context.Background()
	engine, err := simulation.Start(ctx, cfg, simulation.NewLogger(cfg.LogLevel, os.Stdout))
	if err != nil {
		log.Fatalf("💥 failed to start simulation: %v", err)
	}
	defer engine.Stop(ctx)

	ebiten.SetTPS(cfg.TicksPerSecond)
	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids: flocking (arrows move the target, H/Tab hide/show panel)")
	if err := ebiten.RunGame(NewGame(ctx, engine, cfg)); err != nil {
		log.Fatal(err)
	}
}
