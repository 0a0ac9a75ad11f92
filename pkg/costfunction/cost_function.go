package costfunction

import (
	"math"

	"github.com/lintang-b-s/gridnav/pkg/datastructure"
)

type CostFunction interface {
	// GetWeight. cost of entering cell (x,y) with a step of length baseDistance.
	GetWeight(baseDistance float64, x, y int) float64
	IsPassable(x, y int) bool
}

// TravelCost. movement cost of a step of length baseDistance into a cell with the given terrain value.
// 0 is impassable (+Inf), positive values divide the distance (>1 cheaper, <1 costlier) and negative values
// multiply it by their magnitude.
func TravelCost(baseDistance, terrainValue float64) float64 {
	if terrainValue == 0 {
		return math.Inf(1)
	}
	if terrainValue < 0 {
		// negative terrain has no shortcut semantics, it collapses to a plain multiplier
		return baseDistance * math.Abs(terrainValue)
	}
	return baseDistance / terrainValue
}

// TerrainCostFunction. travel cost evaluated on the destination cell of a step.
type TerrainCostFunction struct {
	terrain *datastructure.TerrainMap
}

func NewTerrainCostFunction(terrain *datastructure.TerrainMap) *TerrainCostFunction {
	return &TerrainCostFunction{terrain: terrain}
}

func (tf *TerrainCostFunction) GetWeight(baseDistance float64, x, y int) float64 {
	return TravelCost(baseDistance, tf.terrain.Cost(x, y))
}

func (tf *TerrainCostFunction) IsPassable(x, y int) bool {
	return tf.terrain.IsPassable(x, y)
}
