package systems

import "fmt"

// MotionGrid holds the absolute velocity of the driven plate per cell.
// The motion-gated force model samples it to decide whether a particle
// gets kicked (high motion) or drifts toward calmer regions.
type MotionGrid struct {
	size  int
	cells []float32
}

// NewMotionGrid creates a zeroed size x size motion grid.
// Panics if size is not positive.
func NewMotionGrid(size int) *MotionGrid {
	if size <= 0 {
		panic(fmt.Sprintf("systems: motion grid size must be positive, got %d", size))
	}
	return &MotionGrid{
		size:  size,
		cells: make([]float32, size*size),
	}
}

// Size returns the grid resolution.
func (g *MotionGrid) Size() int {
	return g.size
}

// Fill updates the grid from a raw velocity field, taking the absolute
// value per cell. velocity must have size*size elements.
func (g *MotionGrid) Fill(velocity []float32) {
	if len(velocity) != len(g.cells) {
		panic(fmt.Sprintf("systems: motion grid fill length mismatch: %d != %d", len(velocity), len(g.cells)))
	}
	for i, v := range velocity {
		g.cells[i] = absFloat(v)
	}
}

// At samples local motion at the nearest cell, clamped to the grid.
func (g *MotionGrid) At(x, y float32) float32 {
	return g.cells[g.cellIndex(x, y)]
}

// GradientAt returns the central-difference gradient of the motion
// field. The negative gradient points toward calmer regions.
func (g *MotionGrid) GradientAt(x, y float32) (gx, gy float32) {
	const eps = 1.0

	xp := g.At(x+eps, y)
	xn := g.At(x-eps, y)
	yp := g.At(x, y+eps)
	yn := g.At(x, y-eps)

	gx = (xp - xn) / (2 * eps)
	gy = (yp - yn) / (2 * eps)
	return gx, gy
}

// cellIndex maps a point to its nearest in-bounds cell.
func (g *MotionGrid) cellIndex(x, y float32) int {
	cx := int(x)
	cy := int(y)
	if cx < 0 {
		cx = 0
	} else if cx > g.size-1 {
		cx = g.size - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy > g.size-1 {
		cy = g.size - 1
	}
	return cy*g.size + cx
}
