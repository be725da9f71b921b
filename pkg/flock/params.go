package flock

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidParams is returned when a Params value breaks one of its invariants.
	ErrInvalidParams = errors.New("invalid flock parameters")
	// ErrInvalidBoundary is returned when a boundary is missing or inverted.
	ErrInvalidBoundary = errors.New("invalid flock boundary")
)

// AlignmentForm selects how the average heading of the neighbors is applied.
type AlignmentForm int

const (
	// AlignSteer adds (average - velocity) * weight. Numerically stable.
	AlignSteer AlignmentForm = iota
	// AlignAdditive adds average * weight, as the simplest prototypes did.
	AlignAdditive
)

func (f AlignmentForm) String() string {
	switch f {
	case AlignSteer:
		return "steer"
	case AlignAdditive:
		return "additive"
	default:
		return fmt.Sprintf("AlignmentForm(%d)", int(f))
	}
}

// ParseAlignmentForm converts the configuration name of a form to its value.
func ParseAlignmentForm(s string) (AlignmentForm, error) {
	switch s {
	case "", "steer":
		return AlignSteer, nil
	case "additive":
		return AlignAdditive, nil
	}
	return 0, fmt.Errorf("%w: unknown alignment form %q", ErrInvalidParams, s)
}

// Params controls the physics constants of one agent.
// The flock pushes the same Params into every agent, and they may change
// between any two ticks (live tuning from a GUI).
type Params struct {
	MaxSpeed         float64 // Isotropic speed cap
	MinSpeed         float64 // Lower speed bound, 0 disables it
	MaxVerticalSpeed float64 // Cap on |velocity.Y| in 3D, 0 disables it

	PerceptionRadius float64 // How far can they see? (alignment and cohesion)
	SeparationRadius float64 // Personal space radius

	SeparationWeight float64 // Separation strength
	AlignmentWeight  float64 // Alignment strength
	CohesionWeight   float64 // Cohesion strength
	TargetWeight     float64 // Target avoidance strength

	BoundaryMargin     float64 // Distance from a wall at which steering starts
	BoundaryTurnFactor float64 // Edge turning strength

	Alignment AlignmentForm
}

// DefaultParams returns the tuning of the 2D canvas prototype.
func DefaultParams() Params {
	return Params{
		MaxSpeed:           3,
		PerceptionRadius:   50,
		SeparationRadius:   10,
		SeparationWeight:   0.05,
		AlignmentWeight:    0.05,
		CohesionWeight:     0.005,
		TargetWeight:       1,
		BoundaryMargin:     50,
		BoundaryTurnFactor: 2,
	}
}

// Validate checks the invariants the simulation relies on.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"maxSpeed", p.MaxSpeed},
		{"minSpeed", p.MinSpeed},
		{"maxVerticalSpeed", p.MaxVerticalSpeed},
		{"perceptionRadius", p.PerceptionRadius},
		{"separationRadius", p.SeparationRadius},
		{"separationWeight", p.SeparationWeight},
		{"alignmentWeight", p.AlignmentWeight},
		{"cohesionWeight", p.CohesionWeight},
		{"targetWeight", p.TargetWeight},
		{"boundaryMargin", p.BoundaryMargin},
		{"boundaryTurnFactor", p.BoundaryTurnFactor},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%w: %s must be a finite non-negative number, got %v", ErrInvalidParams, f.name, f.value)
		}
	}
	if p.SeparationRadius > p.PerceptionRadius {
		return fmt.Errorf("%w: separationRadius (%v) must not exceed perceptionRadius (%v)",
			ErrInvalidParams, p.SeparationRadius, p.PerceptionRadius)
	}
	if p.MinSpeed > p.MaxSpeed {
		return fmt.Errorf("%w: minSpeed (%v) must not exceed maxSpeed (%v)", ErrInvalidParams, p.MinSpeed, p.MaxSpeed)
	}
	if p.Alignment != AlignSteer && p.Alignment != AlignAdditive {
		return fmt.Errorf("%w: unknown alignment form %d", ErrInvalidParams, int(p.Alignment))
	}
	return nil
}
