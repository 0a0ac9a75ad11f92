package pkg

import "math"

const (
	ORTHOGONAL_DISTANCE = 1.0
	DIAGONAL_DISTANCE   = math.Sqrt2

	// value written into a seed cell when the caller does not specify one
	DEFAULT_SEED_VALUE = 1.0

	DEFAULT_MAX_ITERATIONS = 512

	// terrain values used by the maze generator
	TERRAIN_IMPASSABLE = 0.0
	TERRAIN_DIFFICULT  = 0.3
	TERRAIN_NORMAL     = 1.0
)
