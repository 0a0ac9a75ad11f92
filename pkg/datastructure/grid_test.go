package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridInvalidDimensions(t *testing.T) {
	testCases := []struct {
		name          string
		width, height int
	}{
		{name: "zero width", width: 0, height: 3},
		{name: "zero height", width: 3, height: 0},
		{name: "negative", width: -1, height: -2},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid[float64](tt.width, tt.height)
			assert.ErrorIs(t, err, ErrInvalidGridDimensions)
		})
	}
}

func TestGridRowMajorLayout(t *testing.T) {
	g, err := NewGridFromSlice(3, 2, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	require.NoError(t, err)

	assert.Equal(t, 3.0, g.Get(2, 0))
	assert.Equal(t, 4.0, g.Get(0, 1))
	assert.Equal(t, 5, g.Index(2, 1))
	assert.Equal(t, []float64{4, 5, 6}, g.Row(1))
	assert.True(t, g.InBounds(2, 1))
	assert.False(t, g.InBounds(3, 0))
	assert.False(t, g.InBounds(0, -1))
}

func TestGridSizeMismatch(t *testing.T) {
	_, err := NewGridFromSlice(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrGridSizeMismatch)

	a, _ := NewGrid[float64](2, 2)
	b, _ := NewGrid[float64](3, 2)
	assert.ErrorIs(t, a.CopyFrom(b), ErrGridSizeMismatch)
}

func TestGridCloneIsIndependent(t *testing.T) {
	g, err := NewGrid[float64](2, 2)
	require.NoError(t, err)
	g.Set(1, 1, 7)

	c := g.Clone()
	c.Set(1, 1, 9)

	assert.Equal(t, 7.0, g.Get(1, 1))
	assert.False(t, g.Equal(c))

	cells := g.Cells()
	cells[0] = 100
	assert.Equal(t, 0.0, g.Get(0, 0))
}

func TestDirectionUnitVectors(t *testing.T) {
	for _, d := range AllDirections {
		v := d.UnitVector()
		assert.InDelta(t, 1.0, v.Length(), 1e-12, d.String())
	}

	v := UP_LEFT.UnitVector()
	assert.InDelta(t, -0.7071, v.X, 1e-4)
	assert.InDelta(t, -0.7071, v.Y, 1e-4)

	assert.Equal(t, Vector{X: 1, Y: 0}, RIGHT.UnitVector())
	assert.Equal(t, Vector{X: 0, Y: 1}, DOWN.UnitVector())
	assert.False(t, LEFT.IsDiagonal())
	assert.True(t, UP_RIGHT.IsDiagonal())
}
