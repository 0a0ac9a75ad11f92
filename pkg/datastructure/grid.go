package datastructure

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

var (
	ErrInvalidGridDimensions = errors.New("grid width and height must be positive")
	ErrGridSizeMismatch      = errors.New("grid cell count does not match width*height")
)

// Grid. fixed size width x height grid stored row-major (index = y*width + x).
type Grid[T constraints.Integer | constraints.Float] struct {
	width  int
	height int
	cells  []T
}

func NewGrid[T constraints.Integer | constraints.Float](width, height int) (*Grid[T], error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidGridDimensions, width, height)
	}
	return &Grid[T]{
		width:  width,
		height: height,
		cells:  make([]T, width*height),
	}, nil
}

// NewGridFromSlice. build a grid from row-major values, the slice is copied.
func NewGridFromSlice[T constraints.Integer | constraints.Float](width, height int, cells []T) (*Grid[T], error) {
	g, err := NewGrid[T](width, height)
	if err != nil {
		return nil, err
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("%w: %d cells for %dx%d", ErrGridSizeMismatch, len(cells), width, height)
	}
	copy(g.cells, cells)
	return g, nil
}

func (g *Grid[T]) Width() int {
	return g.width
}

func (g *Grid[T]) Height() int {
	return g.height
}

func (g *Grid[T]) Len() int {
	return len(g.cells)
}

func (g *Grid[T]) Index(x, y int) int {
	return y*g.width + x
}

func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get. caller must bounds-check with InBounds first.
func (g *Grid[T]) Get(x, y int) T {
	return g.cells[y*g.width+x]
}

func (g *Grid[T]) Set(x, y int, v T) {
	g.cells[y*g.width+x] = v
}

func (g *Grid[T]) At(i int) T {
	return g.cells[i]
}

func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// CopyFrom. overwrite g with the contents of src, both grids must share dimensions.
func (g *Grid[T]) CopyFrom(src *Grid[T]) error {
	if !g.SameShape(src) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrGridSizeMismatch, g.width, g.height, src.width, src.height)
	}
	copy(g.cells, src.cells)
	return nil
}

func (g *Grid[T]) SameShape(o *Grid[T]) bool {
	return g.width == o.width && g.height == o.height
}

func (g *Grid[T]) Clone() *Grid[T] {
	cells := make([]T, len(g.cells))
	copy(cells, g.cells)
	return &Grid[T]{width: g.width, height: g.height, cells: cells}
}

// Cells. row-major copy of the grid values.
func (g *Grid[T]) Cells() []T {
	cells := make([]T, len(g.cells))
	copy(cells, g.cells)
	return cells
}

// Row. copy of row y.
func (g *Grid[T]) Row(y int) []T {
	row := make([]T, g.width)
	copy(row, g.cells[y*g.width:(y+1)*g.width])
	return row
}

func (g *Grid[T]) Equal(o *Grid[T]) bool {
	if !g.SameShape(o) {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}
