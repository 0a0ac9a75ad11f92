package metrics

import (
	"math"

	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
)

// FieldStats. summary of a distance field, used to scale renderings and to report progress.
type FieldStats struct {
	MaxDistance       float64 `json:"max_distance"`
	MeanDistance      float64 `json:"mean_distance"`
	ReachedCells      int     `json:"reached_cells"`
	UnreachedPassable int     `json:"unreached_passable_cells"`
	ImpassableCells   int     `json:"impassable_cells"`
}

func ComputeFieldStats(terrain *da.TerrainMap, distance *da.Grid[float64]) FieldStats {
	var (
		st  FieldStats
		sum float64
	)
	for y := 0; y < distance.Height(); y++ {
		for x := 0; x < distance.Width(); x++ {
			if !terrain.IsPassable(x, y) {
				st.ImpassableCells++
				continue
			}
			v := distance.Get(x, y)
			if v <= 0 {
				st.UnreachedPassable++
				continue
			}
			st.ReachedCells++
			sum += v
			st.MaxDistance = math.Max(st.MaxDistance, v)
		}
	}
	if st.ReachedCells > 0 {
		st.MeanDistance = sum / float64(st.ReachedCells)
	}
	return st
}

// InitialDisplayMax. starting colour-scale maximum for a terrain before any distance is known: grows with the
// share of obstacles and difficult cells.
func InitialDisplayMax(terrain *da.TerrainMap) float64 {
	cells := float64(terrain.Width() * terrain.Height())
	complexity := (float64(terrain.CountImpassable()) + float64(terrain.CountDifficult())*0.5) / cells
	size := float64(max(terrain.Width(), terrain.Height()))
	baseMax := math.Max(size*0.5, 10.0)
	return baseMax * (1 + complexity*2)
}

// AdjustDisplayMax. adapt the colour-scale maximum to the current field so the gradient stays readable while
// the wavefront grows. fields with 10 or fewer reached cells keep the current maximum.
func AdjustDisplayMax(current float64, st FieldStats) float64 {
	if st.ReachedCells <= 10 {
		return current
	}

	maxDist := st.MaxDistance
	switch {
	case maxDist < current*0.4:
		current = math.Max(maxDist*1.4, 5.0)
	case maxDist < current*0.7:
		current = math.Max(maxDist*1.2, 8.0)
	case maxDist > current*0.9:
		current = maxDist * 1.15
	}

	// a few far outliers should not wash out the rest of the field
	if st.MeanDistance > 0 && maxDist/st.MeanDistance > 10 {
		conservative := st.MeanDistance * 3
		if conservative < current*0.8 {
			current = math.Max(conservative, 10.0)
		}
	}
	return current
}
