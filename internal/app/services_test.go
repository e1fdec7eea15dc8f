package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-engine/internal/config"
	"github.com/annel0/voxel-engine/internal/game"
	"github.com/annel0/voxel-engine/internal/observability"
)

func TestStart_MetricsDisabled(t *testing.T) {
	t.Setenv("VOXEL_DEBUG_ADDR", "")
	cfg := config.Default()
	cfg.Debug.MetricsEnabled = false
	cfg.Debug.APIAddr = ""
	cfg.Events.Enabled = false

	s, err := Start(context.Background(), cfg, "voxel-test")
	require.NoError(t, err)

	assert.Nil(t, s.Registry)
	assert.Nil(t, s.Metrics)
	assert.Empty(t, s.SessionOptions())
	assert.NoError(t, s.ServeDebug("", nil))
	assert.NoError(t, s.Close(context.Background()))
}

func TestStart_DebugServer(t *testing.T) {
	t.Setenv("VOXEL_NATS_URL", "")
	cfg := config.Default()
	cfg.Debug.MetricsEnabled = true
	cfg.Player.Spawn = [3]float32{8.5, 3, 8.5}

	s, err := Start(context.Background(), cfg, "voxel-test")
	require.NoError(t, err)
	require.NotNil(t, s.Registry)
	require.NotNil(t, s.Events, "Без NATS шина работает в памяти")
	require.Len(t, s.SessionOptions(), 2)

	session, err := game.NewSession(cfg, nil, s.SessionOptions()...)
	require.NoError(t, err)

	require.NoError(t, s.ServeDebug("127.0.0.1:0", session))
	assert.NoError(t, s.Close(context.Background()))
}

func TestStart_FailureStopsStartedServices(t *testing.T) {
	t.Setenv("VOXEL_NATS_URL", "")
	stopped := 0
	initTelemetry = func(context.Context, string, ...attribute.KeyValue) (func(context.Context) error, error) {
		return func(context.Context) error {
			stopped++
			return nil
		}, nil
	}
	t.Cleanup(func() { initTelemetry = observability.InitTelemetry })

	cfg := config.Default()
	cfg.Debug.Telemetry = true
	cfg.Events.Enabled = true
	cfg.Events.NATSURL = "nats://127.0.0.1:1"

	s, err := Start(context.Background(), cfg, "voxel-test")
	require.Error(t, err)
	assert.ErrorContains(t, err, "connect event bus")
	assert.Nil(t, s)
	assert.Equal(t, 1, stopped, "Телеметрия останавливается при ошибке запуска")
}
