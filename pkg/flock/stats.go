package flock

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Stats summarizes the collective state of a population.
type Stats struct {
	Count        int
	Centroid     mgl64.Vec3
	MeanDistance float64 // average distance from an agent to the centroid
	AverageSpeed float64
	MaxSpeed     float64
	// Polarization is |mean of the unit headings|: 1 when everybody flies the
	// same way, close to 0 for random headings.
	Polarization float64
}

// Stats computes the statistics of the current population.
func (f *Flock) Stats() Stats {
	return ComputeStats(f.agents)
}

// ComputeStats computes the statistics of agents.
func ComputeStats(agents []*Agent) Stats {
	s := Stats{Count: len(agents)}
	if len(agents) == 0 {
		return s
	}
	n := float64(len(agents))

	var headings mgl64.Vec3
	for _, a := range agents {
		s.Centroid = s.Centroid.Add(a.Position)
		speed := a.Speed()
		s.AverageSpeed += speed
		if speed > s.MaxSpeed {
			s.MaxSpeed = speed
		}
		headings = headings.Add(geometry.Heading(a.Velocity))
	}
	s.Centroid = s.Centroid.Mul(1 / n)
	s.AverageSpeed /= n
	s.Polarization = headings.Len() / n

	for _, a := range agents {
		s.MeanDistance += a.Position.Sub(s.Centroid).Len()
	}
	s.MeanDistance /= n
	return s
}
