package flowfield

import (
	"errors"
	"fmt"

	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
)

var (
	ErrShapeMismatch = errors.New("distance grid and terrain have different dimensions")
)

// FlowField. per-cell unit direction toward the steepest descent of a distance field, stored as two grids.
type FlowField struct {
	x *da.Grid[float64]
	y *da.Grid[float64]
}

func (f *FlowField) Width() int {
	return f.x.Width()
}

func (f *FlowField) Height() int {
	return f.x.Height()
}

func (f *FlowField) At(x, y int) da.Vector {
	return da.NewVector(f.x.Get(x, y), f.y.Get(x, y))
}

// X. copy of the x component grid.
func (f *FlowField) X() *da.Grid[float64] {
	return f.x.Clone()
}

// Y. copy of the y component grid.
func (f *FlowField) Y() *da.Grid[float64] {
	return f.y.Clone()
}

// Extract. build the flow field of a converged (or capped) distance grid.
// every passable reached cell points to the neighbour with the strictly smallest reached distance; ties keep the
// first neighbour in da.AllDirections order, cells with no smaller neighbour get the zero vector.
// diagonal corner gating is not applied here.
func Extract(terrain *da.TerrainMap, distance *da.Grid[float64]) (*FlowField, error) {
	if terrain.Width() != distance.Width() || terrain.Height() != distance.Height() {
		return nil, fmt.Errorf("%w: terrain %dx%d, distance %dx%d", ErrShapeMismatch,
			terrain.Width(), terrain.Height(), distance.Width(), distance.Height())
	}

	fx, err := da.NewGrid[float64](distance.Width(), distance.Height())
	if err != nil {
		return nil, err
	}
	fy, _ := da.NewGrid[float64](distance.Width(), distance.Height())

	for y := 0; y < distance.Height(); y++ {
		for x := 0; x < distance.Width(); x++ {
			dir, ok := SteepestDescent(terrain, distance, x, y)
			if !ok {
				continue
			}
			v := dir.UnitVector()
			fx.Set(x, y, v.X)
			fy.Set(x, y, v.Y)
		}
	}

	return &FlowField{x: fx, y: fy}, nil
}

// SteepestDescent. direction of the lowest strictly smaller neighbour of (x,y), false for unreached or
// impassable cells and local minima.
func SteepestDescent(terrain *da.TerrainMap, distance *da.Grid[float64], x, y int) (da.Direction, bool) {
	if !terrain.IsPassable(x, y) {
		return da.NUM_DIRECTIONS, false
	}
	minVal := distance.Get(x, y)
	if minVal <= 0 {
		return da.NUM_DIRECTIONS, false
	}

	best := da.NUM_DIRECTIONS
	for _, d := range da.AllDirections {
		dx, dy := d.Offset()
		nx, ny := x+dx, y+dy
		if !terrain.InBounds(nx, ny) || !terrain.IsPassable(nx, ny) {
			continue
		}
		nVal := distance.Get(nx, ny)
		if nVal > 0 && nVal < minVal {
			minVal = nVal
			best = d
		}
	}

	return best, best != da.NUM_DIRECTIONS
}
