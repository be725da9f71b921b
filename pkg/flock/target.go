package flock

import (
	"math/rand/v2"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Input is the directional input state of one frame, as a bit set.
// It is handed explicitly to whatever consumes it each tick.
type Input uint32

const (
	InputUp Input = 1 << iota
	InputDown
	InputLeft
	InputRight
)

// Has reports whether every direction of d is pressed.
func (in Input) Has(d Input) bool {
	return in&d == d
}

func (in Input) String() string {
	if in == 0 {
		return "none"
	}
	var parts []string
	for _, d := range []struct {
		bit  Input
		name string
	}{{InputUp, "up"}, {InputDown, "down"}, {InputLeft, "left"}, {InputRight, "right"}} {
		if in.Has(d.bit) {
			parts = append(parts, d.name)
		}
	}
	return strings.Join(parts, "+")
}

const (
	DefaultTargetRadius = 20.0
	DefaultTargetStep   = 15.0
)

// Target is a user controlled obstacle. Agents closer than twice its radius
// are repelled from it. It has no velocity and follows no flocking rule.
type Target struct {
	Position mgl64.Vec3
	Radius   float64
	Step     float64 // distance moved per tick for each pressed direction
	// DepthKeys makes up/down move along Z instead of Y, for 3D worlds seen
	// from above.
	DepthKeys bool
}

// NewTarget creates a target with the default radius and step.
func NewTarget(position mgl64.Vec3) *Target {
	return &Target{Position: position, Radius: DefaultTargetRadius, Step: DefaultTargetStep}
}

// Update moves the target according to the input. Screen coordinates: up is -Y,
// or -Z with DepthKeys.
func (t *Target) Update(in Input) {
	axis := 1
	if t.DepthKeys {
		axis = 2
	}
	if in.Has(InputRight) {
		t.Position[0] += t.Step
	}
	if in.Has(InputLeft) {
		t.Position[0] -= t.Step
	}
	if in.Has(InputUp) {
		t.Position[axis] -= t.Step
	}
	if in.Has(InputDown) {
		t.Position[axis] += t.Step
	}
}

// RandomLocation moves the target to a uniformly random point of the boundary.
func (t *Target) RandomLocation(boundary *geometry.Box, rng *rand.Rand) {
	if boundary == nil {
		panic("flock: Target.RandomLocation called with a nil boundary")
	}
	t.Position = boundary.RandomPoint(rng)
}
