package controllers

import (
	"context"

	"github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/engine"
	"github.com/lintang-b-s/gridnav/pkg/engine/flowfield"
	"github.com/lintang-b-s/gridnav/pkg/engine/relaxation"
)

type FlowFieldService interface {
	DistanceField(ctx context.Context, width, height int, terrain []float64, seeds []relaxation.Seed,
		settings engine.Settings) (*engine.Solution, error)
	FlowField(ctx context.Context, width, height int, terrain []float64, seeds []relaxation.Seed,
		settings engine.Settings) (*engine.Solution, error)
	Simulate(ctx context.Context, width, height int, terrain []float64, seeds []relaxation.Seed,
		settings engine.Settings, onIteration func(int, *datastructure.Grid[float64])) (*engine.Solution, error)
	TracePath(sol *engine.Solution, x, y, maxSteps int) ([]flowfield.Cell, string, bool, error)
}
