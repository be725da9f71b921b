package simulation

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
)

// snapshotBuffer is sized so a render loop running slightly behind does not
// make the world drop frames.
const snapshotBuffer = 10

// Engine is a running actor system hosting one WorldActor.
type Engine struct {
	System    actor.ActorSystem
	World     *actor.PID
	Snapshots <-chan *Snapshot
}

// NewLogger returns a goakt logger writing to w at the named level
// ("debug", "info", "warn" or "error"; anything else means info).
func NewLogger(level string, w io.Writer) log.Logger {
	lvl := log.InfoLevel
	switch level {
	case "debug":
		lvl = log.DebugLevel
	case "warn":
		lvl = log.WarningLevel
	case "error":
		lvl = log.ErrorLevel
	}
	return log.New(lvl, w)
}

// Start boots an actor system and spawns the world described by cfg.
// The world spawns its flock and publishes a first snapshot once started.
func Start(ctx context.Context, cfg *Config, logger log.Logger) (*Engine, error) {
	snapshotCh := make(chan *Snapshot, snapshotBuffer) // Buffer to avoid blocking
	world, err := NewWorldActor(snapshotCh, cfg)
	if err != nil {
		return nil, err
	}

	system, err := actor.NewActorSystem("FlockSimulation", actor.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	pid, err := system.Spawn(ctx, "world", world)
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}
	return &Engine{System: system, World: pid, Snapshots: snapshotCh}, nil
}

// Tick asks the world to advance one step.
func (e *Engine) Tick(ctx context.Context, dt time.Duration) error {
	return actor.Tell(ctx, e.World, TickMessage(dt))
}

// SetInput sends the current directional input state.
func (e *Engine) SetInput(ctx context.Context, in flock.Input) error {
	return actor.Tell(ctx, e.World, InputMessage(in))
}

// UpdateParams sends a live parameter update. Invalid updates are rejected
// and logged by the world; the previous parameters stay in force.
func (e *Engine) UpdateParams(ctx context.Context, update map[string]any) error {
	msg, err := ParamsMessage(update)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return actor.Tell(ctx, e.World, msg)
}

// Randomize scatters the population again.
func (e *Engine) Randomize(ctx context.Context) error {
	return actor.Tell(ctx, e.World, RandomizeMessage())
}

// Latest drains every snapshot waiting in the channel and returns the newest,
// or prev when none is waiting. It never blocks.
func (e *Engine) Latest(prev *Snapshot) *Snapshot {
	for {
		select {
		case s := <-e.Snapshots:
			prev = s
		default:
			return prev
		}
	}
}

// Stop shuts the actor system down.
func (e *Engine) Stop(ctx context.Context) error {
	return e.System.Stop(ctx)
}
