package simulation

import (
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// WorldActor owns the authoritative flock. It is driven by tick messages from
// the game loop and publishes a Snapshot after every change.
// Only the actor goroutine touches the flock, so no locking is needed.
type WorldActor struct {
	flock *flock.Flock
	cfg   *Config
	input flock.Input
	// Communication with UI
	snapshotCh chan<- *Snapshot
	// --- Benchmark Stats ---
	tickCount   int
	dropCount   int
	simulated   time.Duration
	lastLogTime time.Time
}

// NewWorldActor creates the world logic unit. The flock is built here so a
// bad configuration is reported before the actor system is involved.
func NewWorldActor(snapshotCh chan<- *Snapshot, cfg *Config) (*WorldActor, error) {
	f, err := cfg.NewFlock()
	if err != nil {
		return nil, err
	}
	return &WorldActor{
		flock:       f,
		cfg:         cfg,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}, nil
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is preparing %d boids in %v (%s containment, %s update)",
		w.flock.Capacity(), w.flock.Boundary(), w.flock.Containment(), w.cfg.UpdatePolicy)
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		ctx.Logger().Info("World Started. Spawning flock...")
		w.flock.Spawn()
		w.pushSnapshot()

	// The Main Simulation Step (Driven by Game Loop)
	case *durationpb.Duration:
		if !w.flock.Spawned() {
			ctx.Logger().Warn("tick received before the flock was spawned, ignored")
			return
		}
		if t := w.flock.Target(); t != nil {
			t.Update(w.input)
		}
		w.flock.Tick()
		w.tickCount++
		w.simulated += msg.AsDuration()
		w.logBenchmarks(ctx)
		w.pushSnapshot()

	// Handle dynamic slider updates from UI
	case *structpb.Struct:
		w.applyParams(ctx, msg.AsMap())

	case *wrapperspb.UInt32Value:
		w.input = flock.Input(msg.GetValue())

	case *emptypb.Empty:
		ctx.Logger().Info("Randomizing flock positions")
		w.flock.RandomLocation()
		if t := w.flock.Target(); t != nil {
			t.RandomLocation(w.flock.Boundary(), w.flock.Rand())
		}
		w.pushSnapshot()

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) applyParams(ctx *actor.ReceiveContext, update map[string]any) {
	next, err := w.cfg.ApplyParams(update)
	if err != nil {
		ctx.Logger().Warnf("rejected parameter update: %v", err)
		return
	}
	if err := w.flock.SetParams(next.Params()); err != nil {
		ctx.Logger().Warnf("rejected parameter update: %v", err)
		return
	}
	w.cfg = next
	ctx.Logger().Debugf("parameters updated: %v", update)
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		stats := w.flock.Stats()
		ctx.Logger().Infof("📊 TICK RATE: %d/sec (dropped snapshots: %d) | Boids: %d | avg speed %.3f | polarization %.2f | simulated %s",
			w.tickCount, w.dropCount, stats.Count, stats.AverageSpeed, stats.Polarization, w.simulated)
		w.tickCount = 0
		w.dropCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- buildSnapshot(w.flock, w.cfg):
	default:
		// UI busy, skip frame
		w.dropCount++
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is shutdown after %d ticks...", w.flock.Ticks())
	return nil
}
