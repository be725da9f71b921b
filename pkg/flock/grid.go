package flock

import (
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type cellKey struct {
	x, y, z int
}

// grid is a uniform spatial hash: map cellKey -> agents sensed in that cell.
// With a cell side equal to the largest interaction radius, every neighbor of
// an agent lies in the 3x3 (2D) or 3x3x3 (3D) block of cells around it.
type grid struct {
	cellSize float64
	dims     int
	cells    map[cellKey][]kinematics
}

func newGrid(dims int) *grid {
	return &grid{
		dims:  dims,
		cells: make(map[cellKey][]kinematics),
	}
}

func (g *grid) rebuild(states []kinematics, cellSize float64, dims int) {
	// Cells left empty by the previous rebuild are dropped, so a flock drifting
	// through an unbounded world keeps at most two ticks' worth of cells.
	// The others keep their capacity for reuse.
	for k, list := range g.cells {
		if len(list) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = list[:0]
	}
	g.cellSize = cellSize
	g.dims = dims

	for _, s := range states {
		key := g.key(s.position)
		g.cells[key] = append(g.cells[key], s)
	}
}

func (g *grid) key(p mgl64.Vec3) cellKey {
	k := cellKey{
		x: int(math.Floor(p.X() / g.cellSize)),
		y: int(math.Floor(p.Y() / g.cellSize)),
	}
	if g.dims == 3 {
		k.z = int(math.Floor(p.Z() / g.cellSize))
	}
	return k
}

// near yields everything sensed in the cells in and around p.
func (g *grid) near(p mgl64.Vec3) iter.Seq[kinematics] {
	return func(yield func(kinematics) bool) {
		c := g.key(p)
		zFrom, zTo := c.z, c.z
		if g.dims == 3 {
			zFrom, zTo = c.z-1, c.z+1
		}
		for i := c.x - 1; i <= c.x+1; i++ {
			for j := c.y - 1; j <= c.y+1; j++ {
				for k := zFrom; k <= zTo; k++ {
					for _, s := range g.cells[cellKey{x: i, y: j, z: k}] {
						if !yield(s) {
							return
						}
					}
				}
			}
		}
	}
}

// occupied returns the number of non-empty cells.
func (g *grid) occupied() int {
	n := 0
	for _, list := range g.cells {
		if len(list) > 0 {
			n++
		}
	}
	return n
}
