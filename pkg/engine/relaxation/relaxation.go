package relaxation

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/gridnav/pkg"
	"github.com/lintang-b-s/gridnav/pkg/concurrent"
	"github.com/lintang-b-s/gridnav/pkg/costfunction"
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/util"
)

var (
	ErrInvalidGridDimensions = da.ErrInvalidGridDimensions
	ErrOutOfBoundsSeed       = errors.New("seed coordinate outside grid")
	ErrImpassableSeed        = errors.New("seed placed on impassable terrain")
	ErrInvalidSeedValue      = errors.New("seed value must be positive and finite")
	ErrNoSeeds               = errors.New("at least one seed is required")
	ErrInvalidIterationCap   = errors.New("iteration cap must be positive")
	ErrNilTerrain            = errors.New("terrain map is nil")

	// ErrNonConvergence. not fatal, the capped field is still a usable best-effort result.
	ErrNonConvergence = errors.New("iteration cap reached before the distance field converged")
)

// Seed. source cell, pre-initialized to Value before the first sweep.
type Seed struct {
	X, Y  int
	Value float64
}

func NewSeed(x, y int) Seed {
	return Seed{X: x, Y: y, Value: pkg.DEFAULT_SEED_VALUE}
}

type Options struct {
	MaxIterations int
	// SnapshotCapacity. number of most recent per-iteration grids kept in the result, 0 disables retention.
	SnapshotCapacity int
	// Workers. goroutines sweeping row bands in parallel, <= 1 sweeps on the calling goroutine.
	Workers int
	// DisableRelaxation. once a cell is reached its first value is kept (plain wavefront fill).
	DisableRelaxation bool
	// OnIteration. called after every sweep with a copy of the resulting grid.
	OnIteration func(iteration int, field *da.Grid[float64])
}

func DefaultOptions() Options {
	return Options{
		MaxIterations: pkg.DEFAULT_MAX_ITERATIONS,
		Workers:       1,
	}
}

type Snapshot struct {
	Iteration int
	Field     *da.Grid[float64]
}

type Result struct {
	Distance   *da.Grid[float64]
	Iterations int
	Converged  bool
	Snapshots  []Snapshot
}

// Warning. ErrNonConvergence when the iteration cap stopped the run, nil otherwise.
func (r *Result) Warning() error {
	if r.Converged {
		return nil
	}
	return ErrNonConvergence
}

// Relaxer. synchronous (jacobi) distance field solver over a TerrainMap.
// the two distance buffers are owned by the Relaxer; Run must not be called concurrently on the same Relaxer.
type Relaxer struct {
	terrain *da.TerrainMap
	cost    costfunction.CostFunction
	opts    Options

	buffers [2]*da.Grid[float64] // ping/pong, selected by iteration parity
	bands   []band
}

type band struct {
	y0, y1 int
}

func NewRelaxer(terrain *da.TerrainMap, opts Options) (*Relaxer, error) {
	if terrain == nil {
		return nil, ErrNilTerrain
	}
	if opts.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterationCap, opts.MaxIterations)
	}
	if opts.SnapshotCapacity < 0 {
		opts.SnapshotCapacity = 0
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	ping, err := da.NewGrid[float64](terrain.Width(), terrain.Height())
	if err != nil {
		return nil, err
	}
	pong, _ := da.NewGrid[float64](terrain.Width(), terrain.Height())

	return &Relaxer{
		terrain: terrain,
		cost:    costfunction.NewTerrainCostFunction(terrain),
		opts:    opts,
		buffers: [2]*da.Grid[float64]{ping, pong},
		bands:   splitRows(terrain.Height(), opts.Workers),
	}, nil
}

// ValidateSeeds. seeds must be in bounds, on passable terrain and carry a positive finite value.
func ValidateSeeds(terrain *da.TerrainMap, seeds []Seed) error {
	if len(seeds) == 0 {
		return ErrNoSeeds
	}
	for _, s := range seeds {
		if !terrain.InBounds(s.X, s.Y) {
			return fmt.Errorf("%w: (%d,%d) on %dx%d grid", ErrOutOfBoundsSeed, s.X, s.Y, terrain.Width(), terrain.Height())
		}
		if !terrain.IsPassable(s.X, s.Y) {
			return fmt.Errorf("%w: (%d,%d)", ErrImpassableSeed, s.X, s.Y)
		}
		if !(s.Value > 0) || math.IsInf(s.Value, 1) {
			return fmt.Errorf("%w: %v at (%d,%d)", ErrInvalidSeedValue, s.Value, s.X, s.Y)
		}
	}
	return nil
}

// Run. relax until a sweep changes nothing or MaxIterations sweeps were done.
// on context cancellation the partial result computed so far is returned together with ctx.Err().
func (r *Relaxer) Run(ctx context.Context, seeds []Seed) (*Result, error) {
	if err := ValidateSeeds(r.terrain, seeds); err != nil {
		return nil, err
	}

	r.buffers[0].Fill(0)
	for _, s := range seeds {
		// several seeds on one cell keep the smallest value
		if cur := r.buffers[0].Get(s.X, s.Y); cur == 0 || s.Value < cur {
			r.buffers[0].Set(s.X, s.Y, s.Value)
		}
	}
	_ = r.buffers[1].CopyFrom(r.buffers[0])

	var (
		snapshots = newSnapshotRing(r.opts.SnapshotCapacity)
		final     = r.buffers[0]
		res       = &Result{}
	)

	for iter := 0; iter < r.opts.MaxIterations; iter++ {
		if util.StopConcurrentOperation(ctx) {
			res.Distance = final.Clone()
			res.Snapshots = snapshots.ordered()
			return res, ctx.Err()
		}

		current := r.buffers[iter%2]
		next := r.buffers[(iter+1)%2]
		_ = next.CopyFrom(current)

		changed := r.sweep(current, next)

		final = next
		res.Iterations = iter + 1
		snapshots.push(iter+1, next)
		if r.opts.OnIteration != nil {
			r.opts.OnIteration(iter+1, next.Clone())
		}

		if !changed {
			res.Converged = true
			break
		}
	}

	res.Distance = final.Clone()
	res.Snapshots = snapshots.ordered()
	return res, nil
}

// sweep. one jacobi iteration, every cell reads current only and writes its own slot of next.
func (r *Relaxer) sweep(current, next *da.Grid[float64]) bool {
	relax := !r.opts.DisableRelaxation
	changedPerBand := concurrent.RunBatch(r.opts.Workers, r.bands, func(b band) bool {
		return sweepRows(r.terrain, r.cost, current, next, b.y0, b.y1, relax)
	})

	for _, changed := range changedPerBand {
		if changed {
			return true
		}
	}
	return false
}

func sweepRows(terrain *da.TerrainMap, cf costfunction.CostFunction, current, next *da.Grid[float64],
	y0, y1 int, relax bool) bool {
	changed := false
	for y := y0; y < y1; y++ {
		for x := 0; x < terrain.Width(); x++ {
			if !terrain.IsPassable(x, y) {
				next.Set(x, y, 0)
				continue
			}
			if val, updated := RelaxCell(terrain, cf, current, x, y, relax); updated {
				next.Set(x, y, val)
				changed = true
			}
		}
	}
	return changed
}

// RelaxCell. best value for passable cell (x,y) given the previous iteration's grid.
// updated is true when a strictly smaller value was found or an unreached cell became reachable.
func RelaxCell(terrain *da.TerrainMap, cf costfunction.CostFunction, current *da.Grid[float64], x, y int,
	relax bool) (float64, bool) {
	currentVal := current.Get(x, y)
	if currentVal > 0 && !relax {
		return currentVal, false
	}

	best := math.Inf(1)
	if currentVal > 0 {
		best = currentVal
	}
	improved := false

	for _, d := range da.OrthogonalDirections {
		dx, dy := d.Offset()
		if c, ok := neighborCandidate(terrain, cf, current, x, y, dx, dy, pkg.ORTHOGONAL_DISTANCE); ok && c < best {
			best = c
			improved = true
		}
	}

	for _, d := range da.DiagonalDirections {
		dx, dy := d.Offset()
		if !da.DiagonalAccessible(terrain, x, y, dx, dy) {
			continue
		}
		if c, ok := neighborCandidate(terrain, cf, current, x, y, dx, dy, pkg.DIAGONAL_DISTANCE); ok && c < best {
			best = c
			improved = true
		}
	}

	if improved || (currentVal == 0 && !math.IsInf(best, 1)) {
		return best, true
	}
	return currentVal, false
}

// neighborCandidate. distance of (x,y) when reached from (x+dx,y+dy). the terrain cost is taken from (x,y),
// the cell being entered.
func neighborCandidate(terrain *da.TerrainMap, cf costfunction.CostFunction, current *da.Grid[float64],
	x, y, dx, dy int, baseDistance float64) (float64, bool) {
	nx, ny := x+dx, y+dy
	if !terrain.InBounds(nx, ny) || !terrain.IsPassable(nx, ny) {
		return 0, false
	}
	nVal := current.Get(nx, ny)
	if nVal <= 0 {
		return 0, false
	}
	return nVal + cf.GetWeight(baseDistance, x, y), true
}

func splitRows(height, workers int) []band {
	n := util.MinInt(workers, height)
	bands := make([]band, 0, n)
	size := height / n
	rest := height % n
	y := 0
	for i := 0; i < n; i++ {
		h := size
		if i < rest {
			h++
		}
		bands = append(bands, band{y0: y, y1: y + h})
		y += h
	}
	return bands
}
