package flock

import "fmt"

// Containment is the boundary policy of a simulation. It is chosen once per
// Flock and applied identically to every agent on every axis.
type Containment int

const (
	// ContainSteer nudges the velocity away from a wall once the agent is
	// within BoundaryMargin of it. Agents may still leave the box transiently.
	ContainSteer Containment = iota
	// ContainWrap teleports a coordinate that left the box to the opposite wall
	// (toroidal world). Velocity is untouched.
	ContainWrap
	// ContainClamp pins the position on the wall it crossed.
	ContainClamp
	// ContainNone leaves the world unbounded.
	ContainNone
)

var containmentNames = map[Containment]string{
	ContainSteer: "steer",
	ContainWrap:  "wrap",
	ContainClamp: "clamp",
	ContainNone:  "none",
}

func (c Containment) String() string {
	if s, ok := containmentNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Containment(%d)", int(c))
}

// ParseContainment converts a configuration name to a Containment.
func ParseContainment(s string) (Containment, error) {
	if s == "" {
		return ContainSteer, nil
	}
	for c, name := range containmentNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown containment policy %q", s)
}

// UpdatePolicy decides what an agent senses of its neighbors during a tick.
type UpdatePolicy int

const (
	// UpdateSnapshot makes every agent sense the same pre-tick world: all new
	// velocities are computed first, then every agent moves.
	UpdateSnapshot UpdatePolicy = iota
	// UpdateSequential updates agents one after the other; later agents see
	// the already moved earlier ones.
	UpdateSequential
)

func (u UpdatePolicy) String() string {
	switch u {
	case UpdateSnapshot:
		return "snapshot"
	case UpdateSequential:
		return "sequential"
	default:
		return fmt.Sprintf("UpdatePolicy(%d)", int(u))
	}
}

// ParseUpdatePolicy converts a configuration name to an UpdatePolicy.
func ParseUpdatePolicy(s string) (UpdatePolicy, error) {
	switch s {
	case "", "snapshot":
		return UpdateSnapshot, nil
	case "sequential":
		return UpdateSequential, nil
	}
	return 0, fmt.Errorf("unknown update policy %q", s)
}

// NeighborSearch selects how candidate neighbors are found each tick.
type NeighborSearch int

const (
	// SearchBruteForce scans the whole population for every agent, O(n²).
	SearchBruteForce NeighborSearch = iota
	// SearchGrid buckets agents in a uniform spatial hash and only scans the
	// cells around each agent.
	SearchGrid
)

func (n NeighborSearch) String() string {
	switch n {
	case SearchBruteForce:
		return "brute"
	case SearchGrid:
		return "grid"
	default:
		return fmt.Sprintf("NeighborSearch(%d)", int(n))
	}
}

// ParseNeighborSearch converts a configuration name to a NeighborSearch.
func ParseNeighborSearch(s string) (NeighborSearch, error) {
	switch s {
	case "", "brute":
		return SearchBruteForce, nil
	case "grid":
		return SearchGrid, nil
	}
	return 0, fmt.Errorf("unknown neighbor search %q", s)
}
