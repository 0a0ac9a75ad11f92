package datastructure

import "math"

// Direction. one of the 8 grid neighbours. the enumeration order is also the tie-break order of the flow field.
type Direction uint8

const (
	RIGHT Direction = iota
	DOWN
	LEFT
	UP
	DOWN_RIGHT
	DOWN_LEFT
	UP_LEFT
	UP_RIGHT
	NUM_DIRECTIONS
)

var directionOffsets = [NUM_DIRECTIONS][2]int{
	{1, 0},
	{0, 1},
	{-1, 0},
	{0, -1},
	{1, 1},
	{-1, 1},
	{-1, -1},
	{1, -1},
}

var directionNames = [NUM_DIRECTIONS]string{
	"right", "down", "left", "up", "down-right", "down-left", "up-left", "up-right",
}

var (
	OrthogonalDirections = [4]Direction{RIGHT, DOWN, LEFT, UP}
	DiagonalDirections   = [4]Direction{DOWN_RIGHT, DOWN_LEFT, UP_LEFT, UP_RIGHT}
	AllDirections        = [NUM_DIRECTIONS]Direction{RIGHT, DOWN, LEFT, UP, DOWN_RIGHT, DOWN_LEFT, UP_LEFT, UP_RIGHT}
)

func (d Direction) Offset() (int, int) {
	o := directionOffsets[d]
	return o[0], o[1]
}

func (d Direction) IsDiagonal() bool {
	return d >= DOWN_RIGHT && d < NUM_DIRECTIONS
}

// UnitVector. axis neighbours give axis unit vectors, diagonals give (±1/√2, ±1/√2).
func (d Direction) UnitVector() Vector {
	dx, dy := d.Offset()
	if d.IsDiagonal() {
		return Vector{X: float64(dx) / math.Sqrt2, Y: float64(dy) / math.Sqrt2}
	}
	return Vector{X: float64(dx), Y: float64(dy)}
}

func (d Direction) String() string {
	if d >= NUM_DIRECTIONS {
		return "none"
	}
	return directionNames[d]
}
