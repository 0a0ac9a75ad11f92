package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/engine"
	"github.com/lintang-b-s/gridnav/pkg/engine/flowfield"
	"github.com/lintang-b-s/gridnav/pkg/engine/relaxation"
	"github.com/lintang-b-s/gridnav/pkg/metrics"
	"github.com/lintang-b-s/gridnav/pkg/preprocessor"
	"github.com/lintang-b-s/gridnav/pkg/util"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

type FlowFieldService struct {
	log       *zap.Logger
	engine    SolverEngine
	seedValue float64
	timeout   time.Duration
}

// NewFlowFieldService. timeout bounds every solve, <= 0 leaves only the caller's context.
func NewFlowFieldService(log *zap.Logger, engine SolverEngine, seedValue float64,
	timeout time.Duration) *FlowFieldService {
	return &FlowFieldService{
		log:       log,
		engine:    engine,
		seedValue: seedValue,
		timeout:   timeout,
	}
}

func (fs *FlowFieldService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if fs.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, fs.timeout)
}

// DistanceField. relaxed distance field without flow extraction. Solution.Flow is nil.
func (fs *FlowFieldService) DistanceField(ctx context.Context, width, height int, terrain []float64,
	seeds []relaxation.Seed, settings engine.Settings) (*engine.Solution, error) {
	q, err := fs.buildQuery(width, height, terrain, seeds, settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := fs.withTimeout(ctx)
	defer cancel()

	res, err := fs.engine.DistanceField(ctx, q)
	if err != nil {
		return nil, fs.wrapSolveError(err)
	}

	return &engine.Solution{
		Terrain:    q.Terrain,
		Distance:   res.Distance,
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Snapshots:  res.Snapshots,
		Stats:      metrics.ComputeFieldStats(q.Terrain, res.Distance),
	}, nil
}

func (fs *FlowFieldService) FlowField(ctx context.Context, width, height int, terrain []float64,
	seeds []relaxation.Seed, settings engine.Settings) (*engine.Solution, error) {
	return fs.Simulate(ctx, width, height, terrain, seeds, settings, nil)
}

// Simulate. like FlowField but reports every intermediate grid to onIteration.
func (fs *FlowFieldService) Simulate(ctx context.Context, width, height int, terrain []float64,
	seeds []relaxation.Seed, settings engine.Settings,
	onIteration func(int, *datastructure.Grid[float64])) (*engine.Solution, error) {
	q, err := fs.buildQuery(width, height, terrain, seeds, settings)
	if err != nil {
		return nil, err
	}
	q.OnIteration = onIteration

	ctx, cancel := fs.withTimeout(ctx)
	defer cancel()

	sol, err := fs.engine.Solve(ctx, q)
	if err != nil {
		return nil, fs.wrapSolveError(err)
	}
	return sol, nil
}

// TracePath. walk the flow from (x,y) towards a source. the path is also returned as an encoded polyline
// of (row, column) pairs so clients can reuse polyline decoders. maxSteps <= 0 allows width*height moves.
func (fs *FlowFieldService) TracePath(sol *engine.Solution, x, y, maxSteps int) ([]flowfield.Cell, string, bool, error) {
	if maxSteps <= 0 {
		maxSteps = sol.Distance.Len()
	}

	path, reached, err := flowfield.Trace(sol.Terrain, sol.Distance, x, y, maxSteps)
	if err != nil {
		if errors.Is(err, flowfield.ErrStartOutOfBounds) {
			return nil, "", false, util.WrapErrorf(err, util.ErrBadParamInput, "invalid trace start")
		}
		return nil, "", false, util.WrapErrorf(err, util.ErrInternalServerError, util.MessageInternalServerError)
	}

	coords := make([][]float64, 0, len(path))
	for _, c := range path {
		coords = append(coords, []float64{float64(c.Y), float64(c.X)})
	}
	return path, string(polyline.EncodeCoords(coords)), reached, nil
}

func (fs *FlowFieldService) buildQuery(width, height int, terrain []float64, seeds []relaxation.Seed,
	settings engine.Settings) (engine.Query, error) {
	grid, err := datastructure.NewGridFromSlice(width, height, terrain)
	if err != nil {
		return engine.Query{}, util.WrapErrorf(err, util.ErrBadParamInput, "invalid terrain grid")
	}
	tm, err := preprocessor.BuildTerrain(grid)
	if err != nil {
		return engine.Query{}, util.WrapErrorf(err, util.ErrBadParamInput, "invalid terrain grid")
	}

	qSeeds := make([]relaxation.Seed, len(seeds))
	for i, s := range seeds {
		if s.Value == 0 {
			s.Value = fs.seedValue
		}
		qSeeds[i] = s
	}

	return engine.Query{
		Terrain:  tm,
		Seeds:    qSeeds,
		Settings: settings,
	}, nil
}

func (fs *FlowFieldService) wrapSolveError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, relaxation.ErrOutOfBoundsSeed),
		errors.Is(err, relaxation.ErrImpassableSeed),
		errors.Is(err, relaxation.ErrInvalidSeedValue),
		errors.Is(err, relaxation.ErrNoSeeds),
		errors.Is(err, relaxation.ErrInvalidIterationCap),
		errors.Is(err, engine.ErrSnapshotBudget):
		return util.WrapErrorf(err, util.ErrBadParamInput, "invalid seeds or solver settings")
	default:
		fs.log.Error("solver failed", zap.Error(err))
		return util.WrapErrorf(err, util.ErrInternalServerError, util.MessageInternalServerError)
	}
}
