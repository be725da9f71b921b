package simulation

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// AgentView is the read-only render state of one agent.
type AgentView struct {
	ID       uuid.UUID
	Position mgl64.Vec3
	Heading  mgl64.Vec3
	Speed    float64
}

// Snapshot is the world state published to the render side after each step.
// It shares no memory with the running flock.
type Snapshot struct {
	Tick     uint64
	Boundary geometry.Box
	Agents   []AgentView
	Target   *flock.Target // nil when the world has no target
	Stats    flock.Stats
	Params   flock.Params

	DisplayPerceptionCircle bool
}

func buildSnapshot(f *flock.Flock, cfg *Config) *Snapshot {
	s := &Snapshot{
		Tick:                    f.Ticks(),
		Boundary:                *f.Boundary(),
		Agents:                  make([]AgentView, 0, f.Len()),
		Stats:                   f.Stats(),
		Params:                  f.Params(),
		DisplayPerceptionCircle: cfg.DisplayPerceptionCircle,
	}
	for _, a := range f.Agents() {
		s.Agents = append(s.Agents, AgentView{
			ID:       a.ID,
			Position: a.Position,
			Heading:  a.Heading(),
			Speed:    a.Speed(),
		})
	}
	if t := f.Target(); t != nil {
		target := *t
		s.Target = &target
	}
	return s
}

// Messages understood by the WorldActor. They are protobuf well-known types
// so they travel through the actor system as they are.

// TickMessage asks the world to advance one step. dt is the wall time the
// step stands for; the flock itself always integrates with a unit step.
func TickMessage(dt time.Duration) *durationpb.Duration {
	return durationpb.New(dt)
}

// ParamsMessage wraps a live parameter update, keyed like Config's JSON fields.
func ParamsMessage(update map[string]any) (*structpb.Struct, error) {
	return structpb.NewStruct(update)
}

// InputMessage carries the directional input state driving the target.
func InputMessage(in flock.Input) *wrapperspb.UInt32Value {
	return wrapperspb.UInt32(uint32(in))
}

// RandomizeMessage asks the world to scatter the population again.
func RandomizeMessage() *emptypb.Empty {
	return &emptypb.Empty{}
}
