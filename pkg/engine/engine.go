package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/engine/flowfield"
	"github.com/lintang-b-s/gridnav/pkg/engine/relaxation"
	"github.com/lintang-b-s/gridnav/pkg/metrics"
	"github.com/lintang-b-s/gridnav/pkg/util"
	"go.uber.org/zap"
)

var (
	ErrSnapshotBudget = errors.New("snapshot capacity times grid size exceeds the snapshot cell budget")
)

// Engine. runs the relaxation solver and flow field extraction with solver defaults from the configuration.
type Engine struct {
	log *zap.Logger
	cfg util.SolverConfig
}

func NewEngine(log *zap.Logger, cfg util.SolverConfig) *Engine {
	return &Engine{log: log, cfg: cfg}
}

// Settings. per-request solver overrides, nil fields fall back to the engine configuration.
type Settings struct {
	MaxIterations     *int
	SnapshotCapacity  *int
	DisableRelaxation bool
}

type Query struct {
	Terrain *da.TerrainMap
	Seeds   []relaxation.Seed
	Settings

	OnIteration func(iteration int, field *da.Grid[float64])
}

type Solution struct {
	Terrain    *da.TerrainMap
	Distance   *da.Grid[float64]
	Flow       *flowfield.FlowField
	Iterations int
	Converged  bool
	Snapshots  []relaxation.Snapshot
	Stats      metrics.FieldStats
}

// Warning. relaxation.ErrNonConvergence when the iteration cap was hit.
func (s *Solution) Warning() error {
	if s.Converged {
		return nil
	}
	return relaxation.ErrNonConvergence
}

func (e *Engine) options(q Query) relaxation.Options {
	opts := relaxation.Options{
		MaxIterations:     e.cfg.MaxIterations,
		SnapshotCapacity:  e.cfg.SnapshotCapacity,
		Workers:           e.cfg.Workers,
		DisableRelaxation: !e.cfg.Relaxation || q.DisableRelaxation,
		OnIteration:       q.OnIteration,
	}
	if q.MaxIterations != nil {
		opts.MaxIterations = *q.MaxIterations
	}
	if q.SnapshotCapacity != nil {
		opts.SnapshotCapacity = *q.SnapshotCapacity
	}
	return opts
}

// checkSnapshotBudget. retained snapshots cost capacity full grids, bound them before allocating anything.
func (e *Engine) checkSnapshotBudget(q Query, opts relaxation.Options) error {
	if e.cfg.MaxSnapshotCells <= 0 || q.Terrain == nil || opts.SnapshotCapacity <= 0 {
		return nil
	}
	cells := q.Terrain.Width() * q.Terrain.Height()
	if opts.SnapshotCapacity > e.cfg.MaxSnapshotCells/cells {
		return fmt.Errorf("%w: %d snapshots of %dx%d, budget %d cells", ErrSnapshotBudget,
			opts.SnapshotCapacity, q.Terrain.Width(), q.Terrain.Height(), e.cfg.MaxSnapshotCells)
	}
	return nil
}

// DistanceField. relax the distance field only.
func (e *Engine) DistanceField(ctx context.Context, q Query) (*relaxation.Result, error) {
	opts := e.options(q)
	if err := e.checkSnapshotBudget(q, opts); err != nil {
		return nil, err
	}

	relaxer, err := relaxation.NewRelaxer(q.Terrain, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := relaxer.Run(ctx, q.Seeds)
	if err != nil {
		return res, err
	}

	if !res.Converged {
		e.log.Warn("distance field did not converge, returning capped field",
			zap.Int("iterations", res.Iterations), zap.Error(res.Warning()))
	} else {
		e.log.Debug("distance field converged",
			zap.Int("iterations", res.Iterations), zap.Duration("elapsed", time.Since(start)))
	}
	return res, nil
}

// Solve. relax the distance field, then derive the flow field from the final snapshot.
func (e *Engine) Solve(ctx context.Context, q Query) (*Solution, error) {
	res, err := e.DistanceField(ctx, q)
	if err != nil {
		return nil, err
	}

	flow, err := flowfield.Extract(q.Terrain, res.Distance)
	if err != nil {
		return nil, err
	}

	return &Solution{
		Terrain:    q.Terrain,
		Distance:   res.Distance,
		Flow:       flow,
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Snapshots:  res.Snapshots,
		Stats:      metrics.ComputeFieldStats(q.Terrain, res.Distance),
	}, nil
}
