package datastructure

// TerrainMap. immutable per-cell traversal cost grid.
// 0 = impassable, (0,1) = difficult, 1 = normal, >1 = easy. negative values multiply the base distance by |v|
// (see costfunction.TravelCost).
type TerrainMap struct {
	grid *Grid[float64]
}

// NewTerrainMap. the cost slice is copied, later changes by the caller are not visible to the map.
func NewTerrainMap(width, height int, costs []float64) (*TerrainMap, error) {
	g, err := NewGridFromSlice(width, height, costs)
	if err != nil {
		return nil, err
	}
	return &TerrainMap{grid: g}, nil
}

// NewUniformTerrainMap. every cell has the same cost.
func NewUniformTerrainMap(width, height int, cost float64) (*TerrainMap, error) {
	g, err := NewGrid[float64](width, height)
	if err != nil {
		return nil, err
	}
	g.Fill(cost)
	return &TerrainMap{grid: g}, nil
}

func NewTerrainMapFromGrid(g *Grid[float64]) *TerrainMap {
	return &TerrainMap{grid: g.Clone()}
}

func (t *TerrainMap) Width() int {
	return t.grid.Width()
}

func (t *TerrainMap) Height() int {
	return t.grid.Height()
}

func (t *TerrainMap) InBounds(x, y int) bool {
	return t.grid.InBounds(x, y)
}

func (t *TerrainMap) Cost(x, y int) float64 {
	return t.grid.Get(x, y)
}

func (t *TerrainMap) IsPassable(x, y int) bool {
	return t.grid.Get(x, y) != 0
}

// Grid. copy of the underlying cost grid.
func (t *TerrainMap) Grid() *Grid[float64] {
	return t.grid.Clone()
}

// CountImpassable. number of cells with cost 0.
func (t *TerrainMap) CountImpassable() int {
	n := 0
	for i := 0; i < t.grid.Len(); i++ {
		if t.grid.At(i) == 0 {
			n++
		}
	}
	return n
}

// CountDifficult. number of passable cells costlier than normal terrain. positive values divide the base
// distance and negative values multiply it by |v|, so (0,1) and (-inf,-1) are the costly ranges.
func (t *TerrainMap) CountDifficult() int {
	n := 0
	for i := 0; i < t.grid.Len(); i++ {
		if IsDifficult(t.grid.At(i)) {
			n++
		}
	}
	return n
}

func IsDifficult(v float64) bool {
	return (v > 0 && v < 1) || v < -1
}

// DiagonalAccessible. a diagonal step between (x,y) and (x+dx,y+dy) is allowed only when both gate cells
// (x+dx,y) and (x,y+dy) are outside the grid or passable, so that a move never cuts through a wall corner.
func DiagonalAccessible(t *TerrainMap, x, y, dx, dy int) bool {
	gx, gy := x+dx, y
	if t.InBounds(gx, gy) && !t.IsPassable(gx, gy) {
		return false
	}
	gx, gy = x, y+dy
	if t.InBounds(gx, gy) && !t.IsPassable(gx, gy) {
		return false
	}
	return true
}
