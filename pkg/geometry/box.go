package geometry

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon Precision constant used for float64 comparisons.
const (
	Epsilon = 1e-9
)

// Box is an axis-aligned region (a rectangle when Dims is 2, a box when Dims is 3).
// In 2D the Z extent is ignored by every operation, so agents living on the
// plane keep Z == 0.
// We use public fields because the boundary is plain data handed around by the
// render side; the simulation only ever reads it.
type Box struct {
	Min  mgl64.Vec3 `json:"min"`
	Max  mgl64.Vec3 `json:"max"`
	Dims int        `json:"dims"`
}

// NewRect creates a 2D boundary.
func NewRect(minX, minY, maxX, maxY float64) *Box {
	return &Box{
		Min:  mgl64.Vec3{minX, minY, 0},
		Max:  mgl64.Vec3{maxX, maxY, 0},
		Dims: 2,
	}
}

// NewBox creates a 3D boundary from its two corners.
func NewBox(min, max mgl64.Vec3) *Box {
	return &Box{Min: min, Max: max, Dims: 3}
}

// NewCenteredBox creates a boundary of the given size centred on the origin,
// like a box geometry dropped in a scene at (0,0,0).
// A zero depth yields a 2D rectangle.
func NewCenteredBox(width, height, depth float64) *Box {
	if depth == 0 {
		return NewRect(-width/2, -height/2, width/2, height/2)
	}
	half := mgl64.Vec3{width / 2, height / 2, depth / 2}
	return NewBox(half.Mul(-1), half)
}

// String implements the fmt.Stringer interface.
func (b *Box) String() string {
	if b.Dims == 2 {
		return fmt.Sprintf("[%.2f,%.2f]x[%.2f,%.2f]", b.Min.X(), b.Max.X(), b.Min.Y(), b.Max.Y())
	}
	return fmt.Sprintf("[%.2f,%.2f]x[%.2f,%.2f]x[%.2f,%.2f]",
		b.Min.X(), b.Max.X(), b.Min.Y(), b.Max.Y(), b.Min.Z(), b.Max.Z())
}

// Valid reports whether the box has a supported dimensionality and
// Min <= Max on every active axis.
func (b *Box) Valid() bool {
	if b == nil || (b.Dims != 2 && b.Dims != 3) {
		return false
	}
	for axis := 0; axis < b.Dims; axis++ {
		if math.IsNaN(b.Min[axis]) || math.IsNaN(b.Max[axis]) || b.Min[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// Size returns the extent of the box on each axis (zero on inactive axes).
func (b *Box) Size() mgl64.Vec3 {
	var s mgl64.Vec3
	for axis := 0; axis < b.Dims; axis++ {
		s[axis] = b.Max[axis] - b.Min[axis]
	}
	return s
}

// Center returns the middle point of the box.
func (b *Box) Center() mgl64.Vec3 {
	var c mgl64.Vec3
	for axis := 0; axis < b.Dims; axis++ {
		c[axis] = (b.Min[axis] + b.Max[axis]) / 2
	}
	return c
}

// Contains reports whether p lies inside the box, borders included.
func (b *Box) Contains(p mgl64.Vec3) bool {
	for axis := 0; axis < b.Dims; axis++ {
		if p[axis] < b.Min[axis] || p[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// RandomPoint draws a point uniformly inside the box, independently on each axis.
func (b *Box) RandomPoint(rng *rand.Rand) mgl64.Vec3 {
	var p mgl64.Vec3
	for axis := 0; axis < b.Dims; axis++ {
		p[axis] = b.Min[axis] + rng.Float64()*(b.Max[axis]-b.Min[axis])
	}
	return p
}

// ---------------------------------------------------------------------
// Vector helpers
// mgl64 gives us the arithmetic; these cover what the flock needs on top.
// ---------------------------------------------------------------------

// RandomDirection returns a unit vector uniformly distributed on the circle
// (dims == 2) or on the sphere (dims == 3).
func RandomDirection(rng *rand.Rand, dims int) mgl64.Vec3 {
	theta := rng.Float64() * 2 * math.Pi
	if dims == 2 {
		return mgl64.Vec3{math.Cos(theta), math.Sin(theta), 0}
	}
	// Archimedes: uniform height on the axis gives uniform area on the sphere.
	u := rng.Float64()*2 - 1
	f := math.Sqrt(1 - u*u)
	return mgl64.Vec3{f * math.Cos(theta), u, f * math.Sin(theta)}
}

// LenSqr returns the squared magnitude of v.
// This is faster than Len() as it avoids the square root. Use for comparisons.
func LenSqr(v mgl64.Vec3) float64 {
	return v.Dot(v)
}

// ClampLength rescales v so that its magnitude does not exceed max,
// preserving its direction.
func ClampLength(v mgl64.Vec3, max float64) mgl64.Vec3 {
	l := v.Len()
	if l <= max || l < Epsilon {
		return v
	}
	return v.Mul(max / l)
}

// Heading returns a unit vector in the same direction as v.
// Returns a zero vector if the length is effectively zero.
func Heading(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < Epsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Angle returns the angle (in radians) of the XY projection of v relative to the X-axis.
// Range: [-Pi, Pi]
func Angle(v mgl64.Vec3) float64 {
	return math.Atan2(v.Y(), v.X())
}
