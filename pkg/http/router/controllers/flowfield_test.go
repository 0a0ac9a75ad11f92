package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/gridnav/pkg/engine"
	helper "github.com/lintang-b-s/gridnav/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/gridnav/pkg/http/usecases"
	"github.com/lintang-b-s/gridnav/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/lintang-b-s/gridnav/pkg/engine/relaxation"
	"github.com/spf13/viper"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

func testSolverConfig() util.SolverConfig {
	return util.SolverConfig{
		MaxIterations: 512,
		Workers:       2,
		Relaxation:    true,
		SeedValue:     1,
		Delimiter:     ",",
	}
}

func newTestRouter() *httprouter.Router {
	return newTestRouterWithConfig(testSolverConfig())
}

func newTestRouterWithConfig(cfg util.SolverConfig) *httprouter.Router {
	log := zap.NewNop()
	eng := engine.NewEngine(log, cfg)
	return newTestRouterWithService(usecases.NewFlowFieldService(log, eng, cfg.SeedValue, cfg.SolveTimeout))
}

func newTestRouterWithService(svc FlowFieldService) *httprouter.Router {
	log := zap.NewNop()
	router := httprouter.New()
	api := New(svc, log)
	api.Routes(helper.NewRouteGroup(router, "/api"))
	api.WebsocketRoutes(helper.NewRouteGroup(router, "/ws"))
	return router
}

func uniformTerrain(n int) []float64 {
	terrain := make([]float64, n)
	for i := range terrain {
		terrain[i] = 1
	}
	return terrain
}

type flowFieldEnvelope struct {
	Data  flowFieldResponse `json:"data"`
	Error errorBody         `json:"error"`
}

func post(t *testing.T, router http.Handler, path string, body interface{}) (*httptest.ResponseRecorder, flowFieldEnvelope) {
	t.Helper()
	js, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(js))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env flowFieldEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestFlowFieldEndpoint(t *testing.T) {
	router := newTestRouter()

	rec, env := post(t, router, "/api/flowField", map[string]interface{}{
		"width":   4,
		"height":  4,
		"terrain": uniformTerrain(16),
		"seeds":   []map[string]interface{}{{"x": 0, "y": 0}},
		"trace":   map[string]interface{}{"x": 3, "y": 3},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := env.Data
	assert.Equal(t, 4, data.Width)
	assert.Equal(t, 4, data.Height)
	assert.True(t, data.Converged)
	assert.Empty(t, data.Warning)
	assert.Equal(t, 4, data.Iterations)

	assert.InDelta(t, 1.0, data.Distance[0], 1e-9)
	assert.InDelta(t, 2.0, data.Distance[1], 1e-9)
	assert.InDelta(t, 1+math.Sqrt2, data.Distance[5], 1e-9)
	assert.InDelta(t, 1+3*math.Sqrt2, data.Distance[15], 1e-9)

	assert.InDelta(t, -1/math.Sqrt2, data.FlowX[5], 1e-9)
	assert.InDelta(t, -1/math.Sqrt2, data.FlowY[5], 1e-9)
	assert.Equal(t, 0.0, data.FlowX[0])
	assert.Equal(t, 0.0, data.FlowY[0])

	assert.Equal(t, []cellResponse{{3, 3}, {2, 2}, {1, 1}, {0, 0}}, data.Path)
	assert.True(t, data.PathReachesSource)

	coords, _, err := polyline.DecodeCoords([]byte(data.PathPolyline))
	require.NoError(t, err)
	require.Len(t, coords, 4)
	for i, c := range data.Path {
		assert.InDelta(t, float64(c.Y), coords[i][0], 1e-5)
		assert.InDelta(t, float64(c.X), coords[i][1], 1e-5)
	}

	assert.Equal(t, 16, data.Stats.ReachedCells)
}

func TestDistanceFieldEndpoint(t *testing.T) {
	router := newTestRouter()

	t.Run("snapshots and no flow", func(t *testing.T) {
		rec, env := post(t, router, "/api/distanceField", map[string]interface{}{
			"width":             4,
			"height":            4,
			"terrain":           uniformTerrain(16),
			"seeds":             []map[string]interface{}{{"x": 0, "y": 0}},
			"snapshot_capacity": 2,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, env.Data.Snapshots, 2)
		assert.Equal(t, 3, env.Data.Snapshots[0].Iteration)
		assert.Equal(t, 4, env.Data.Snapshots[1].Iteration)
		assert.Equal(t, env.Data.Distance, env.Data.Snapshots[1].Distance)
		assert.Nil(t, env.Data.FlowX)
	})

	t.Run("iteration cap reports warning", func(t *testing.T) {
		rec, env := post(t, router, "/api/distanceField", map[string]interface{}{
			"width":          6,
			"height":         1,
			"terrain":        uniformTerrain(6),
			"seeds":          []map[string]interface{}{{"x": 0, "y": 0}},
			"max_iterations": 2,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, env.Data.Converged)
		assert.NotEmpty(t, env.Data.Warning)
		assert.Equal(t, []float64{1, 2, 3, 0, 0, 0}, env.Data.Distance)
	})

	t.Run("relaxation disabled keeps first wavefront value", func(t *testing.T) {
		rec, env := post(t, router, "/api/distanceField", map[string]interface{}{
			"width":      3,
			"height":     3,
			"terrain":    []float64{1, 0.01, 1, 1, 0, 1, 1, 1, 1},
			"seeds":      []map[string]interface{}{{"x": 0, "y": 0}},
			"relaxation": false,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.InDelta(t, 102.0, env.Data.Distance[2], 1e-9)
	})
}

func TestFieldEndpointErrors(t *testing.T) {
	router := newTestRouter()

	testCases := []struct {
		name string
		body interface{}
		want int
	}{
		{
			name: "zero width",
			body: map[string]interface{}{
				"width": 0, "height": 2, "terrain": uniformTerrain(2),
				"seeds": []map[string]interface{}{{"x": 0, "y": 0}},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "terrain size mismatch",
			body: map[string]interface{}{
				"width": 3, "height": 3, "terrain": uniformTerrain(8),
				"seeds": []map[string]interface{}{{"x": 0, "y": 0}},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "seed out of bounds",
			body: map[string]interface{}{
				"width": 2, "height": 2, "terrain": uniformTerrain(4),
				"seeds": []map[string]interface{}{{"x": 5, "y": 0}},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "seed on wall",
			body: map[string]interface{}{
				"width": 2, "height": 1, "terrain": []float64{0, 1},
				"seeds": []map[string]interface{}{{"x": 0, "y": 0}},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "negative seed value",
			body: map[string]interface{}{
				"width": 2, "height": 1, "terrain": uniformTerrain(2),
				"seeds": []map[string]interface{}{{"x": 0, "y": 0, "value": -1}},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "no seeds",
			body: map[string]interface{}{
				"width": 2, "height": 1, "terrain": uniformTerrain(2),
				"seeds": []map[string]interface{}{},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "trace start out of bounds",
			body: map[string]interface{}{
				"width": 2, "height": 1, "terrain": uniformTerrain(2),
				"seeds": []map[string]interface{}{{"x": 0, "y": 0}},
				"trace": map[string]interface{}{"x": 9, "y": 0},
			},
			want: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := post(t, router, "/api/flowField", tc.body)
			assert.Equal(t, tc.want, rec.Code)
			assert.NotEmpty(t, env.Error.Message)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/distanceField", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSimulateWebsocket(t *testing.T) {
	srv := httptest.NewServer(newTestRouter())
	defer srv.Close()

	ctx := context.Background()
	conn, br, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/simulate")
	require.NoError(t, err)
	defer conn.Close()

	var src io.Reader = conn
	if br != nil {
		src = br
	}
	rw := struct {
		io.Reader
		io.Writer
	}{src, conn}

	req, err := json.Marshal(map[string]interface{}{
		"width":   4,
		"height":  4,
		"terrain": uniformTerrain(16),
		"seeds":   []map[string]interface{}{{"x": 0, "y": 0}},
	})
	require.NoError(t, err)
	require.NoError(t, wsutil.WriteClientText(conn, req))

	var (
		iterations []simulateMessage
		result     *simulateMessage
	)
	for result == nil {
		data, err := wsutil.ReadServerText(rw)
		require.NoError(t, err)

		var msg simulateMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		switch msg.Type {
		case "iteration":
			iterations = append(iterations, msg)
		case "result":
			result = &msg
		default:
			t.Fatalf("unexpected message %q: %s", msg.Type, msg.Error)
		}
	}

	require.Len(t, iterations, 4)
	for i, msg := range iterations {
		assert.Equal(t, i+1, msg.Iteration)
		assert.Len(t, msg.Distance, 16)
	}
	require.NotNil(t, result.Result)
	assert.Equal(t, 4, result.Iteration)
	assert.Equal(t, iterations[3].Distance, result.Result.Distance)
	assert.InDelta(t, -1/math.Sqrt2, result.Result.FlowX[5], 1e-9)
}

func TestSimulateWebsocketValidationError(t *testing.T) {
	srv := httptest.NewServer(newTestRouter())
	defer srv.Close()

	conn, br, _, err := ws.Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/simulate")
	require.NoError(t, err)
	defer conn.Close()

	var src io.Reader = conn
	if br != nil {
		src = br
	}

	require.NoError(t, wsutil.WriteClientText(conn, []byte(`{"width":0}`)))

	data, err := wsutil.ReadServerText(struct {
		io.Reader
		io.Writer
	}{src, conn})
	require.NoError(t, err)

	var msg simulateMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Error, "validation error")
}

func TestSnapshotBudgetRejected(t *testing.T) {
	cfg := testSolverConfig()
	cfg.MaxSnapshotCells = 100
	router := newTestRouterWithConfig(cfg)

	body := map[string]interface{}{
		"width":             5,
		"height":            5,
		"terrain":           uniformTerrain(25),
		"seeds":             []map[string]interface{}{{"x": 0, "y": 0}},
		"snapshot_capacity": 5,
	}
	rec, env := post(t, router, "/api/distanceField", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error.Message, "snapshot")

	body["snapshot_capacity"] = 4
	rec, _ = post(t, router, "/api/distanceField", body)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExplicitZeroSnapshotCapacity(t *testing.T) {
	cfg := testSolverConfig()
	cfg.SnapshotCapacity = 3
	router := newTestRouterWithConfig(cfg)

	body := map[string]interface{}{
		"width":   4,
		"height":  1,
		"terrain": uniformTerrain(4),
		"seeds":   []map[string]interface{}{{"x": 0, "y": 0}},
	}
	rec, env := post(t, router, "/api/distanceField", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data.Snapshots, 3)

	body["snapshot_capacity"] = 0
	rec, env = post(t, router, "/api/distanceField", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.Data.Snapshots)
}

// stalledEngine. never converges on its own, returns once the context is done.
type stalledEngine struct{}

func (stalledEngine) DistanceField(ctx context.Context, q engine.Query) (*relaxation.Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (stalledEngine) Solve(ctx context.Context, q engine.Query) (*engine.Solution, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestSolveTimeout(t *testing.T) {
	svc := usecases.NewFlowFieldService(zap.NewNop(), stalledEngine{}, 1, 20*time.Millisecond)
	router := newTestRouterWithService(svc)

	for _, path := range []string{"/api/distanceField", "/api/flowField"} {
		t.Run(path, func(t *testing.T) {
			rec, env := post(t, router, path, map[string]interface{}{
				"width":   2,
				"height":  1,
				"terrain": uniformTerrain(2),
				"seeds":   []map[string]interface{}{{"x": 0, "y": 0}},
			})
			assert.Equal(t, http.StatusRequestTimeout, rec.Code)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestSimulateWebsocketRequestDeadline(t *testing.T) {
	viper.Set("WS_REQUEST_TIMEOUT", "50ms")
	defer viper.Set("WS_REQUEST_TIMEOUT", "10s")

	srv := httptest.NewServer(newTestRouter())
	defer srv.Close()

	conn, br, _, err := ws.Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/simulate")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var src io.Reader = conn
	if br != nil {
		src = br
	}

	// no request frame is sent, the server gives up after the request deadline
	data, err := wsutil.ReadServerText(struct {
		io.Reader
		io.Writer
	}{src, conn})
	require.NoError(t, err)

	var msg simulateMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "error", msg.Type)
}
