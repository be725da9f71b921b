// Package flock implements the boids flocking simulation engine: a population
// of agents moving under separation, alignment and cohesion, kept inside an
// axis-aligned boundary.
//
// A Flock is driven by an external fixed-rate loop calling Tick. It is not safe
// for concurrent use; the optional parallelism of WithWorkers is internal to a
// single Tick.
package flock

import (
	"fmt"
	"iter"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"golang.org/x/sync/errgroup"
)

// Flock owns a population of agents and drives their per-tick update.
type Flock struct {
	agents   []*Agent
	capacity int
	boundary *geometry.Box
	params   Params
	target   *Target

	containment Containment
	policy      UpdatePolicy
	search      NeighborSearch
	workers     int

	rng     *rand.Rand
	spawned bool
	ticks   uint64

	// per tick scratch, reused between ticks
	snapshot []kinematics
	next     []mgl64.Vec3
	grid     *grid
}

// Option configures a Flock at construction time.
type Option func(*Flock)

// WithParams sets the initial tuning of every agent.
func WithParams(p Params) Option {
	return func(f *Flock) { f.params = p }
}

// WithContainment selects the boundary policy for the whole simulation.
func WithContainment(c Containment) Option {
	return func(f *Flock) { f.containment = c }
}

// WithUpdatePolicy selects snapshot or sequential update semantics.
func WithUpdatePolicy(u UpdatePolicy) Option {
	return func(f *Flock) { f.policy = u }
}

// WithNeighborSearch selects how neighbors are found. SearchGrid requires UpdateSnapshot.
func WithNeighborSearch(n NeighborSearch) Option {
	return func(f *Flock) { f.search = n }
}

// WithWorkers spreads the compute phase of a tick over n goroutines.
// It requires UpdateSnapshot; values below 2 keep everything on the caller goroutine.
func WithWorkers(n int) Option {
	return func(f *Flock) { f.workers = n }
}

// WithSeed makes placement deterministic.
func WithSeed(seed1, seed2 uint64) Option {
	return func(f *Flock) { f.rng = rand.New(rand.NewPCG(seed1, seed2)) }
}

// WithTarget gives every agent an obstacle to flee from.
func WithTarget(t *Target) Option {
	return func(f *Flock) { f.target = t }
}

// New creates an unspawned flock of the given capacity inside boundary.
func New(capacity int, boundary *geometry.Box, opts ...Option) (*Flock, error) {
	f := &Flock{
		capacity: capacity,
		boundary: boundary,
		params:   DefaultParams(),
		workers:  1,
	}
	for _, opt := range opts {
		opt(f)
	}

	if capacity < 0 {
		return nil, fmt.Errorf("flock capacity must be non-negative, got %d", capacity)
	}
	if !boundary.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBoundary, boundary)
	}
	if err := f.params.Validate(); err != nil {
		return nil, err
	}
	if _, ok := containmentNames[f.containment]; !ok {
		return nil, fmt.Errorf("unknown containment policy %d", int(f.containment))
	}
	if f.policy == UpdateSequential && (f.workers > 1 || f.search == SearchGrid) {
		return nil, fmt.Errorf("the %s update policy supports neither workers nor grid search", f.policy)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return f, nil
}

// Spawn creates Capacity agents at random locations. It may only be called once;
// use RandomLocation to scatter an existing population again.
func (f *Flock) Spawn() {
	if f.spawned {
		panic("flock: Spawn called twice, use RandomLocation to re-randomize")
	}
	if f.boundary == nil {
		panic("flock: Spawn called without a boundary")
	}
	f.agents = make([]*Agent, 0, f.capacity)
	for i := 0; i < f.capacity; i++ {
		a := NewAgent(mgl64.Vec3{}, mgl64.Vec3{}, f.params, f.containment)
		a.Target = f.target
		f.agents = append(f.agents, a)
	}
	f.spawned = true
	f.RandomLocation()
}

// RandomLocation moves every agent to a random location with a random heading.
func (f *Flock) RandomLocation() {
	for _, a := range f.agents {
		a.RandomLocation(f.boundary, f.rng)
	}
}

// Tick advances the simulation by one step.
func (f *Flock) Tick() {
	if !f.spawned {
		panic("flock: Tick called before Spawn")
	}
	if f.boundary == nil {
		panic("flock: Tick called without a boundary")
	}

	if f.policy == UpdateSequential {
		for _, a := range f.agents {
			a.Update(f.boundary, f.agents)
		}
	} else {
		f.tickSnapshot()
	}
	f.ticks++
}

// tickSnapshot copies the pre-tick state, computes every new velocity against
// that copy, then moves everybody. The copy is read-only during the compute
// phase, which is what makes the parallel path safe.
func (f *Flock) tickSnapshot() {
	f.snapshot = f.snapshot[:0]
	for _, a := range f.agents {
		f.snapshot = append(f.snapshot, kinematics{owner: a, position: a.Position, velocity: a.Velocity})
	}
	if cap(f.next) < len(f.agents) {
		f.next = make([]mgl64.Vec3, len(f.agents))
	}
	f.next = f.next[:len(f.agents)]

	useGrid := f.search == SearchGrid && f.cellSize() > 0
	if useGrid {
		if f.grid == nil {
			f.grid = newGrid(f.boundary.Dims)
		}
		f.grid.rebuild(f.snapshot, f.cellSize(), f.boundary.Dims)
	}

	compute := func(i int) {
		a := f.agents[i]
		var neighbors iter.Seq[kinematics]
		if useGrid {
			neighbors = f.grid.near(a.Position)
		} else {
			neighbors = f.all()
		}
		f.next[i] = a.steer(f.boundary, neighbors)
	}

	if n := len(f.agents); f.workers > 1 && n > 1 {
		var g errgroup.Group
		g.SetLimit(f.workers)
		chunk := (n + f.workers - 1) / f.workers
		for start := 0; start < n; start += chunk {
			end := min(start+chunk, n)
			g.Go(func() error {
				for i := start; i < end; i++ {
					compute(i)
				}
				return nil
			})
		}
		_ = g.Wait() // compute never fails; Wait is the read/write barrier
	} else {
		for i := range f.agents {
			compute(i)
		}
	}

	for i, a := range f.agents {
		a.move(f.boundary, f.next[i])
	}
}

func (f *Flock) all() iter.Seq[kinematics] {
	return func(yield func(kinematics) bool) {
		for _, s := range f.snapshot {
			if !yield(s) {
				return
			}
		}
	}
}

func (f *Flock) cellSize() float64 {
	return math.Max(f.params.PerceptionRadius, f.params.SeparationRadius)
}

// SetParams validates p and pushes it into every agent. It may be called
// between any two ticks.
func (f *Flock) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	f.params = p
	for _, a := range f.agents {
		a.Params = p
	}
	return nil
}

// Params returns the current tuning.
func (f *Flock) Params() Params {
	return f.params
}

// SetBoundary replaces the containing region, e.g. after a window resize.
func (f *Flock) SetBoundary(b *geometry.Box) error {
	if !b.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidBoundary, b)
	}
	f.boundary = b
	return nil
}

// Boundary returns the containing region.
func (f *Flock) Boundary() *geometry.Box {
	return f.boundary
}

// SetTarget gives every agent t as obstacle; nil removes it.
func (f *Flock) SetTarget(t *Target) {
	f.target = t
	for _, a := range f.agents {
		a.Target = t
	}
}

// Target returns the current obstacle, if any.
func (f *Flock) Target() *Target {
	return f.target
}

// Rand exposes the flock random source, e.g. to place the target.
func (f *Flock) Rand() *rand.Rand {
	return f.rng
}

// Agents returns the population. The slice must be treated as read-only.
func (f *Flock) Agents() []*Agent {
	return f.agents
}

// Len returns the current population size.
func (f *Flock) Len() int {
	return len(f.agents)
}

// Capacity returns the population size fixed at construction.
func (f *Flock) Capacity() int {
	return f.capacity
}

// Spawned reports whether Spawn has been called.
func (f *Flock) Spawned() bool {
	return f.spawned
}

// Ticks returns the number of completed ticks.
func (f *Flock) Ticks() uint64 {
	return f.ticks
}

// Containment returns the boundary policy of the simulation.
func (f *Flock) Containment() Containment {
	return f.containment
}
