package preprocessor

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/gridnav/pkg"
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/util"
	"go.uber.org/zap"
)

var (
	ErrNonFiniteTerrain = errors.New("terrain contains NaN or infinite values")
	ErrNoOpenCell       = errors.New("terrain has no normal cell to place a goal on")
)

// Preprocessor. turns terrain files into validated TerrainMaps before a run.
type Preprocessor struct {
	log *zap.Logger
}

func NewPreprocessor(log *zap.Logger) *Preprocessor {
	return &Preprocessor{log: log}
}

// LoadTerrain. read a delimited terrain grid (optionally .bz2) and validate it.
func (p *Preprocessor) LoadTerrain(filename, delimiter string) (*da.TerrainMap, error) {
	p.log.Info("Reading terrain from ", zap.String("terrainFilePath", filename))
	g, err := da.ReadGridFile(filename, delimiter)
	if err != nil {
		return nil, err
	}

	tm, err := BuildTerrain(g)
	if err != nil {
		return nil, err
	}

	p.log.Info("Terrain loaded",
		zap.Int("width", tm.Width()), zap.Int("height", tm.Height()),
		zap.Int("impassable", tm.CountImpassable()), zap.Int("difficult", tm.CountDifficult()))
	return tm, nil
}

// BuildTerrain. reject NaN/Inf costs, they have no meaning as a travel cost.
func BuildTerrain(g *da.Grid[float64]) (*da.TerrainMap, error) {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			v := g.Get(x, y)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %v at (%d,%d)", ErrNonFiniteTerrain, v, x, y)
			}
		}
	}
	return da.NewTerrainMapFromGrid(g), nil
}

// FallbackMaze. deterministic maze: border walls, a lattice of wall cells, some difficult cells and an open
// centre.
func FallbackMaze(width, height int) (*da.TerrainMap, error) {
	g, err := da.NewGrid[float64](width, height)
	if err != nil {
		return nil, err
	}
	g.Fill(pkg.TERRAIN_NORMAL)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch {
			case x == 0 || x == width-1 || y == 0 || y == height-1:
				g.Set(x, y, pkg.TERRAIN_IMPASSABLE)
			case (x%4 == 0 && y%2 == 0) || (y%4 == 0 && x%2 == 0):
				g.Set(x, y, pkg.TERRAIN_IMPASSABLE)
			case (x+y)%7 == 0:
				g.Set(x, y, pkg.TERRAIN_DIFFICULT)
			}
		}
	}
	g.Set(width/2, height/2, pkg.TERRAIN_NORMAL)

	return da.NewTerrainMapFromGrid(g), nil
}

// FindGoal. the normal-terrain cell closest to the grid centre, searching square rings of growing radius.
func FindGoal(terrain *da.TerrainMap) (int, int, error) {
	cx, cy := terrain.Width()/2, terrain.Height()/2
	maxRadius := util.MaxInt(terrain.Width(), terrain.Height())

	for radius := 0; radius <= maxRadius; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if util.MaxInt(util.Abs(dx), util.Abs(dy)) != radius {
					continue
				}
				x, y := cx+dx, cy+dy
				if terrain.InBounds(x, y) && terrain.Cost(x, y) == pkg.TERRAIN_NORMAL {
					return x, y, nil
				}
			}
		}
	}
	return 0, 0, ErrNoOpenCell
}
