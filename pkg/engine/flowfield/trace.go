package flowfield

import (
	"errors"
	"fmt"

	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
)

var (
	ErrStartOutOfBounds = errors.New("trace start outside grid")
)

type Cell struct {
	X, Y int
}

// Trace. follow the steepest descent from (sx,sy) until a cell with no lower neighbour (a source or a plateau)
// or maxSteps moves. the returned path starts with the start cell. reached reports whether the walk ended in a
// sink rather than by the step limit.
func Trace(terrain *da.TerrainMap, distance *da.Grid[float64], sx, sy, maxSteps int) ([]Cell, bool, error) {
	if !distance.InBounds(sx, sy) {
		return nil, false, fmt.Errorf("%w: (%d,%d)", ErrStartOutOfBounds, sx, sy)
	}
	if terrain.Width() != distance.Width() || terrain.Height() != distance.Height() {
		return nil, false, ErrShapeMismatch
	}

	path := []Cell{{X: sx, Y: sy}}
	if !terrain.IsPassable(sx, sy) || distance.Get(sx, sy) <= 0 {
		return path, false, nil
	}

	x, y := sx, sy
	for step := 0; step < maxSteps; step++ {
		dir, ok := SteepestDescent(terrain, distance, x, y)
		if !ok {
			return path, true, nil
		}
		dx, dy := dir.Offset()
		x, y = x+dx, y+dy
		path = append(path, Cell{X: x, Y: y})
	}

	// distances strictly decrease along the walk, so hitting maxSteps only means the limit was too small
	_, more := SteepestDescent(terrain, distance, x, y)
	return path, !more, nil
}
