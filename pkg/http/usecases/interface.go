package usecases

import (
	"context"

	"github.com/lintang-b-s/gridnav/pkg/engine"
	"github.com/lintang-b-s/gridnav/pkg/engine/relaxation"
)

type SolverEngine interface {
	DistanceField(ctx context.Context, q engine.Query) (*relaxation.Result, error)
	Solve(ctx context.Context, q engine.Query) (*engine.Solution, error)
}
