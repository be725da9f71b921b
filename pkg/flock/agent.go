package flock

import (
	"iter"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Agent represents a single boid of the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// The name "boid" corresponds to a shortened version of "bird-oid object".
// https://en.wikipedia.org/wiki/Boids
// We export the kinematic fields so the renderer can read them.
type Agent struct {
	ID       uuid.UUID
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Params   Params
	Target   *Target // optional obstacle to flee from

	containment Containment
}

// NewAgent creates an agent at the given position and velocity.
func NewAgent(position, velocity mgl64.Vec3, params Params, containment Containment) *Agent {
	return &Agent{
		ID:          uuid.New(),
		Position:    position,
		Velocity:    velocity,
		Params:      params,
		containment: containment,
	}
}

// Containment returns the boundary policy this agent was created with.
func (a *Agent) Containment() Containment {
	return a.containment
}

// Speed returns |velocity|.
func (a *Agent) Speed() float64 {
	return a.Velocity.Len()
}

// Heading returns the facing direction (normalized velocity) for the renderer.
func (a *Agent) Heading() mgl64.Vec3 {
	return geometry.Heading(a.Velocity)
}

// Update performs one simulation step: it evaluates the flocking rules against
// neighbors (the whole population, self included), then moves the agent.
// Neighbors are read as they are right now, so calling Update in a loop over the
// population gives sequential semantics.
func (a *Agent) Update(boundary *geometry.Box, neighbors []*Agent) {
	if boundary == nil {
		panic("flock: Agent.Update called with a nil boundary")
	}
	if neighbors == nil {
		panic("flock: Agent.Update called with a nil neighbor list")
	}
	a.move(boundary, a.steer(boundary, live(neighbors)))
}

// RandomLocation places the agent uniformly inside the boundary and gives it a
// random heading. The speed is kept, or set to MaxSpeed when the agent is still.
func (a *Agent) RandomLocation(boundary *geometry.Box, rng *rand.Rand) {
	if boundary == nil {
		panic("flock: Agent.RandomLocation called with a nil boundary")
	}
	speed := math.Min(a.Velocity.Len(), a.Params.MaxSpeed)
	if speed < geometry.Epsilon {
		speed = a.Params.MaxSpeed
	}
	a.Position = boundary.RandomPoint(rng)
	a.Velocity = geometry.RandomDirection(rng, boundary.Dims).Mul(speed)
}

// kinematics is what an agent senses of another one during a tick.
// owner identifies the agent, so two agents sharing a position stay distinct.
type kinematics struct {
	owner    *Agent
	position mgl64.Vec3
	velocity mgl64.Vec3
}

func live(agents []*Agent) iter.Seq[kinematics] {
	return func(yield func(kinematics) bool) {
		for _, o := range agents {
			if !yield(kinematics{owner: o, position: o.Position, velocity: o.Velocity}) {
				return
			}
		}
	}
}

// steer calculates the next velocity from the flocking rules. It only reads
// the agent and its neighbors.
func (a *Agent) steer(boundary *geometry.Box, neighbors iter.Seq[kinematics]) mgl64.Vec3 {
	p := a.Params
	vel := a.Velocity
	separationSq := p.SeparationRadius * p.SeparationRadius
	perceptionSq := p.PerceptionRadius * p.PerceptionRadius

	// Initialize force accumulators
	var push, velSum, posSum mgl64.Vec3
	neighborCount := 0.0

	for other := range neighbors {
		diff := a.Position.Sub(other.position)
		distSq := geometry.LenSqr(diff)

		// 1. Separation
		if other.owner != a && distSq < separationSq {
			push = push.Add(diff)
		}

		// Check perception for Alignment/Cohesion
		if distSq < perceptionSq {
			velSum = velSum.Add(other.velocity)
			posSum = posSum.Add(other.position)
			neighborCount++
		}
	}

	// Apply Separation
	vel = vel.Add(push.Mul(p.SeparationWeight))

	// Apply Alignment and Cohesion
	if neighborCount > 0 {
		avgVel := velSum.Mul(1 / neighborCount)
		if p.Alignment == AlignAdditive {
			vel = vel.Add(avgVel.Mul(p.AlignmentWeight))
		} else {
			vel = vel.Add(avgVel.Sub(vel).Mul(p.AlignmentWeight))
		}

		center := posSum.Mul(1 / neighborCount)
		vel = vel.Add(center.Sub(a.Position).Mul(p.CohesionWeight))
	}

	// Flee the target
	if t := a.Target; t != nil {
		toTarget := t.Position.Sub(a.Position)
		if toTarget.Len() < 2*t.Radius {
			vel = vel.Sub(toTarget.Mul(p.TargetWeight))
		}
	}

	// Edges (soft turn), before the speed limit so the cap always holds
	if a.containment == ContainSteer {
		vel = steerInside(vel, a.Position, boundary, p)
	}

	return limitSpeed(vel, boundary.Dims, p)
}

// move commits the new velocity and integrates the position (unit time step).
func (a *Agent) move(boundary *geometry.Box, vel mgl64.Vec3) {
	a.Velocity = vel
	a.Position = a.Position.Add(vel)

	switch a.containment {
	case ContainWrap:
		for axis := 0; axis < boundary.Dims; axis++ {
			if a.Position[axis] > boundary.Max[axis] {
				a.Position[axis] = boundary.Min[axis]
			} else if a.Position[axis] < boundary.Min[axis] {
				a.Position[axis] = boundary.Max[axis]
			}
		}
	case ContainClamp:
		for axis := 0; axis < boundary.Dims; axis++ {
			a.Position[axis] = mgl64.Clamp(a.Position[axis], boundary.Min[axis], boundary.Max[axis])
		}
	}
}

func steerInside(vel, pos mgl64.Vec3, boundary *geometry.Box, p Params) mgl64.Vec3 {
	for axis := 0; axis < boundary.Dims; axis++ {
		if pos[axis] < boundary.Min[axis]+p.BoundaryMargin {
			vel[axis] += p.BoundaryTurnFactor
		}
		if pos[axis] > boundary.Max[axis]-p.BoundaryMargin {
			vel[axis] -= p.BoundaryTurnFactor
		}
	}
	return vel
}

// limitSpeed clamps |vel| to [MinSpeed, MaxSpeed], then in 3D clamps the
// vertical (Y) component on its own. The second clamp can only shrink the vector.
func limitSpeed(vel mgl64.Vec3, dims int, p Params) mgl64.Vec3 {
	if speed := vel.Len(); p.MinSpeed > 0 && speed < p.MinSpeed && speed > geometry.Epsilon {
		vel = vel.Mul(p.MinSpeed / speed)
	} else {
		vel = geometry.ClampLength(vel, p.MaxSpeed)
	}

	if dims == 3 && p.MaxVerticalSpeed > 0 {
		vel[1] = mgl64.Clamp(vel[1], -p.MaxVerticalSpeed, p.MaxVerticalSpeed)
	}
	return vel
}
