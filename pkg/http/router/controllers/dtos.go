package controllers

import (
	"github.com/lintang-b-s/gridnav/pkg/engine"
	"github.com/lintang-b-s/gridnav/pkg/engine/flowfield"
	"github.com/lintang-b-s/gridnav/pkg/engine/relaxation"
	"github.com/lintang-b-s/gridnav/pkg/metrics"
)

type seedRequest struct {
	X int `json:"x" validate:"min=0"`
	Y int `json:"y" validate:"min=0"`
	// Value. 0 means the configured default seed value.
	Value float64 `json:"value" validate:"gte=0"`
}

type fieldRequest struct {
	Width            int           `json:"width" validate:"required,min=1,max=4096"`
	Height           int           `json:"height" validate:"required,min=1,max=4096"`
	Terrain          []float64     `json:"terrain" validate:"required,min=1"`
	Seeds            []seedRequest `json:"seeds" validate:"required,min=1,dive"`
	// MaxIterations, SnapshotCapacity. omitted fields use the server configuration, an explicit 0 snapshot
	// capacity turns retention off.
	MaxIterations    *int          `json:"max_iterations" validate:"omitempty,min=1,max=1000000"`
	SnapshotCapacity *int          `json:"snapshot_capacity" validate:"omitempty,min=0,max=256"`
	Relaxation       *bool         `json:"relaxation"`
}

func (r fieldRequest) seeds() []relaxation.Seed {
	seeds := make([]relaxation.Seed, 0, len(r.Seeds))
	for _, s := range r.Seeds {
		seeds = append(seeds, relaxation.Seed{X: s.X, Y: s.Y, Value: s.Value})
	}
	return seeds
}

func (r fieldRequest) settings() engine.Settings {
	return engine.Settings{
		MaxIterations:     r.MaxIterations,
		SnapshotCapacity:  r.SnapshotCapacity,
		DisableRelaxation: r.Relaxation != nil && !*r.Relaxation,
	}
}

type traceRequest struct {
	X        int `json:"x" validate:"min=0"`
	Y        int `json:"y" validate:"min=0"`
	MaxSteps int `json:"max_steps" validate:"min=0"`
}

type flowFieldRequest struct {
	fieldRequest
	Trace *traceRequest `json:"trace"`
}

type snapshotResponse struct {
	Iteration int       `json:"iteration"`
	Distance  []float64 `json:"distance"`
}

type distanceFieldResponse struct {
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Distance   []float64          `json:"distance"`
	Iterations int                `json:"iterations"`
	Converged  bool               `json:"converged"`
	Warning    string             `json:"warning,omitempty"`
	Stats      metrics.FieldStats `json:"stats"`
	Snapshots  []snapshotResponse `json:"snapshots,omitempty"`
}

func NewDistanceFieldResponse(sol *engine.Solution) distanceFieldResponse {
	resp := distanceFieldResponse{
		Width:      sol.Distance.Width(),
		Height:     sol.Distance.Height(),
		Distance:   sol.Distance.Cells(),
		Iterations: sol.Iterations,
		Converged:  sol.Converged,
		Stats:      sol.Stats,
	}
	if w := sol.Warning(); w != nil {
		resp.Warning = w.Error()
	}
	for _, s := range sol.Snapshots {
		resp.Snapshots = append(resp.Snapshots, snapshotResponse{
			Iteration: s.Iteration,
			Distance:  s.Field.Cells(),
		})
	}
	return resp
}

type cellResponse struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type flowFieldResponse struct {
	distanceFieldResponse
	FlowX             []float64      `json:"flow_x"`
	FlowY             []float64      `json:"flow_y"`
	Path              []cellResponse `json:"path,omitempty"`
	PathPolyline      string         `json:"path_polyline,omitempty"`
	PathReachesSource bool           `json:"path_reaches_source,omitempty"`
}

func NewFlowFieldResponse(sol *engine.Solution, path []flowfield.Cell, pathPolyline string,
	reached bool) flowFieldResponse {
	resp := flowFieldResponse{
		distanceFieldResponse: NewDistanceFieldResponse(sol),
		FlowX:                 sol.Flow.X().Cells(),
		FlowY:                 sol.Flow.Y().Cells(),
		PathPolyline:          pathPolyline,
		PathReachesSource:     reached,
	}
	for _, c := range path {
		resp.Path = append(resp.Path, cellResponse{X: c.X, Y: c.Y})
	}
	return resp
}

// simulateMessage. websocket frame payload, Type is "iteration", "result" or "error".
type simulateMessage struct {
	Type      string             `json:"type"`
	Iteration int                `json:"iteration,omitempty"`
	Distance  []float64          `json:"distance,omitempty"`
	Result    *flowFieldResponse `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}
