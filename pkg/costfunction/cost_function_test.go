package costfunction

import (
	"math"
	"testing"

	"github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTravelCost(t *testing.T) {
	testCases := []struct {
		name    string
		base    float64
		terrain float64
		want    float64
	}{
		{name: "normal orthogonal", base: 1, terrain: 1, want: 1},
		{name: "normal diagonal", base: math.Sqrt2, terrain: 1, want: math.Sqrt2},
		{name: "easy terrain is cheaper", base: 1, terrain: 2, want: 0.5},
		{name: "difficult terrain is costlier", base: 1, terrain: 0.5, want: 2},
		{name: "negative uses magnitude as multiplier", base: 2, terrain: -0.5, want: 1},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TravelCost(tt.base, tt.terrain), 1e-12)
		})
	}

	assert.True(t, math.IsInf(TravelCost(1, 0), 1))
}

func TestTerrainCostFunctionUsesDestinationCell(t *testing.T) {
	// entering the swamp at x=1 is expensive, entering x=0 from the swamp is not
	tm, err := datastructure.NewTerrainMap(2, 1, []float64{1, 0.25})
	require.NoError(t, err)

	cf := NewTerrainCostFunction(tm)
	assert.InDelta(t, 4.0, cf.GetWeight(1, 1, 0), 1e-12)
	assert.InDelta(t, 1.0, cf.GetWeight(1, 0, 0), 1e-12)
	assert.True(t, cf.IsPassable(1, 0))
}
