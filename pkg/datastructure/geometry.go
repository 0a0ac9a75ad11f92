package datastructure

import (
	"math"
)

// Vector. 2d float vector in grid coordinates (x grows right, y grows down).
type Vector struct {
	X, Y float64
}

func NewVector(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalize. unit vector with the same direction, zero vector stays zero.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vector{X: v.X / l, Y: v.Y / l}
}
