// Command flock-headless runs a simulation without rendering, for benchmarks
// and parameter exploration. Statistics are logged every -every ticks.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

func main() {
	configFile := flag.String("config", "", "JSON or TOML configuration file")
	steps := flag.Int("steps", 1000, "number of ticks to run")
	every := flag.Int("every", 100, "log statistics every n ticks")
	use3D := flag.Bool("3d", false, "start from the 3D preset when no config is given")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *use3D {
		cfg = simulation.Default3DConfig()
	}
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			log.Fatalf("💥 failed to load config: %v", err)
		}
	}

	logger := simulation.NewLogger(cfg.LogLevel, os.Stdout)
	ctx := context.Background()
	engine, err := simulation.Start(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("💥 failed to start simulation: %v", err)
	}
	defer engine.Stop(ctx)

	// the first snapshot is published once the flock is spawned
	first := <-engine.Snapshots
	logger.Infof("spawned %d boids in %v", len(first.Agents), &first.Boundary)

	start := time.Now()
	dt := time.Second / time.Duration(cfg.TicksPerSecond)
	for i := 1; i <= *steps; i++ {
		if err := engine.Tick(ctx, dt); err != nil {
			log.Fatalf("💥 tick %d: %v", i, err)
		}
		// Wait for the tick to land so the world never runs ahead of us.
		s := <-engine.Snapshots
		if *every > 0 && (i%*every == 0 || i == *steps) {
			logger.Infof("tick %d | centroid %.2v | mean distance %.3f | avg speed %.4f | max speed %.4f | polarization %.3f",
				s.Tick, s.Stats.Centroid, s.Stats.MeanDistance, s.Stats.AverageSpeed, s.Stats.MaxSpeed, s.Stats.Polarization)
		}
	}
	elapsed := time.Since(start)
	logger.Infof("ran %d ticks in %s (%.1f ticks/sec)", *steps, elapsed, float64(*steps)/elapsed.Seconds())
}
