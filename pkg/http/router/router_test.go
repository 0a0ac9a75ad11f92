package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lintang-b-s/gridnav/pkg/engine"
	"github.com/lintang-b-s/gridnav/pkg/http/usecases"
	"github.com/lintang-b-s/gridnav/pkg/util"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(useRateLimit bool) http.Handler {
	log := zap.NewNop()
	eng := engine.NewEngine(log, util.SolverConfig{MaxIterations: 64, Workers: 1, Relaxation: true, SeedValue: 1})
	return NewAPI(log).Handler(useRateLimit, usecases.NewFlowFieldService(log, eng, 1, 0))
}

const smallRequest = `{"width":2,"height":1,"terrain":[1,1],"seeds":[{"x":0,"y":0}]}`

func TestHandlerMiddleware(t *testing.T) {
	h := newTestHandler(false)

	t.Run("heartbeat", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, ".", rec.Body.String())
	})

	t.Run("json body required", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/flowField", strings.NewReader(smallRequest))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("request id label", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/flowField", strings.NewReader(smallRequest))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		req.Header.Set("X-Request-Id", "abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "abc", rec.Header().Get("X-Request-Id"))
		assert.Contains(t, rec.Body.String(), `"flow_x":[0,-1]`)
	})

	t.Run("generated request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/distanceField", strings.NewReader(smallRequest))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, rec.Header().Get("X-Request-Id"), 16)
	})
}

func TestRealIP(t *testing.T) {
	var got string
	h := RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "10.0.0.1", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "192.168.1.9")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "192.168.1.9", got)
}

func TestRecoverPanic(t *testing.T) {
	api := NewAPI(zap.NewNop())
	h := api.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "close", rec.Header().Get("Connection"))
}

func TestLimit(t *testing.T) {
	viper.Set("RATE_LIMIT_RPS", 0.001)
	viper.Set("RATE_LIMIT_BURST", 1)
	defer func() {
		viper.Set("RATE_LIMIT_RPS", 20)
		viper.Set("RATE_LIMIT_BURST", 40)
	}()

	h := newTestHandler(true)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/distanceField", strings.NewReader(smallRequest))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())

	// heartbeat is answered before the limiter
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
