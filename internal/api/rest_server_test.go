package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-engine/internal/game"
	"github.com/annel0/voxel-engine/internal/raycast"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

type staticSource struct {
	snap game.Snapshot
}

func (s staticSource) Snapshot() game.Snapshot { return s.snap }

func newTestServer(t *testing.T) (*DebugServer, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	src := staticSource{snap: game.Snapshot{
		SessionID:      "test-session",
		Step:           42,
		Position:       mgl32.Vec3{1.5, 1.901, -3},
		Velocity:       mgl32.Vec3{0, 0, 10},
		OnGround:       true,
		Held:           block.StoneBlockID,
		Selected:       &raycast.Hit{Position: vec.Vec3{X: 1, Y: 0, Z: -5}, Normal: vec.Vec3{Z: 1}, Distance: 1.5},
		ChunksLoaded:   3,
		MeshesCached:   2,
		VerticesCached: 9216,
		LastStep:       1500 * time.Microsecond,
	}}
	ds, err := NewDebugServer(Config{Source: src, Registry: reg})
	require.NoError(t, err)
	return ds, reg
}

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDebugServer_Health(t *testing.T) {
	ds, _ := newTestServer(t)
	rec := doGet(t, ds.Handler(), "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestDebugServer_Player(t *testing.T) {
	ds, _ := newTestServer(t)
	rec := doGet(t, ds.Handler(), "/debug/player")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool       `json:"success"`
		Data    PlayerInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "test-session", resp.Data.SessionID)
	assert.Equal(t, [3]float32{1.5, 1.901, -3}, resp.Data.Position)
	assert.True(t, resp.Data.OnGround)
	assert.Equal(t, "Stone", resp.Data.Held)
	require.NotNil(t, resp.Data.Selected)
	assert.Equal(t, [3]int{1, 0, -5}, resp.Data.Selected.Position)
	assert.Equal(t, [3]int{0, 0, 1}, resp.Data.Selected.Normal)
}

func TestDebugServer_World(t *testing.T) {
	ds, _ := newTestServer(t)
	rec := doGet(t, ds.Handler(), "/debug/world")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data WorldInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(42), resp.Data.Step)
	assert.Equal(t, 3, resp.Data.ChunksLoaded)
	assert.Equal(t, 9216, resp.Data.VerticesCached)
	assert.InDelta(t, 1.5, resp.Data.LastStepMs, 1e-9)
}

func TestDebugServer_ProcessAndMetrics(t *testing.T) {
	ds, _ := newTestServer(t)

	rec := doGet(t, ds.Handler(), "/debug/process")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goroutines")

	rec = doGet(t, ds.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "voxel_debug_api_http_request_duration_seconds"),
		"HTTP-метрики регистрируются в переданном регистре")
}

func TestDebugServer_RequiresSource(t *testing.T) {
	_, err := NewDebugServer(Config{Registry: prometheus.NewRegistry()})
	assert.Error(t, err)
}
