package game

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/annel0/voxel-engine/internal/camera"
	"github.com/annel0/voxel-engine/internal/config"
	"github.com/annel0/voxel-engine/internal/eventbus"
	"github.com/annel0/voxel-engine/internal/input"
	"github.com/annel0/voxel-engine/internal/metrics"
	"github.com/annel0/voxel-engine/internal/raycast"
	"github.com/annel0/voxel-engine/internal/render"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

const frame = float32(1.0 / 60)

// testConfig ставит игрока в середину чанка невысоко над травой
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Player.Spawn = [3]float32{8.5, 3, 8.5}
	return cfg
}

func runFrames(t *testing.T, s *Session, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, s.Update(context.Background(), frame))
	}
}

func TestNewSession_LoadsSpawnColumn(t *testing.T) {
	s, err := NewSession(config.Default(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, s.World.ChunkCount())
	for y := -1; y <= 1; y++ {
		assert.True(t, s.World.IsLoaded(vec.Vec3{X: 0, Y: y, Z: 1}), "чанк y=%d", y)
	}
	assert.InDelta(t, 32.8, s.Camera.Position.Y(), 1e-5, "Камера на 0.8 выше центра игрока")
	assert.Equal(t, mgl32.Vec3{0, 32, 16}, s.Player.Position)
	assert.Equal(t, block.StoneBlockID, s.Held)
	assert.NotEmpty(t, s.Snapshot().SessionID)
}

func TestNewSession_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.World.Generator = "caves"
	_, err := NewSession(cfg, nil)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Raycast.MaxSteps = 0
	_, err = NewSession(cfg, nil)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestSession_PlayerLandsAndMeshesBuilt(t *testing.T) {
	s, err := NewSession(testConfig(), nil)
	require.NoError(t, err)

	runFrames(t, s, 120)

	snap := s.Snapshot()
	assert.True(t, snap.OnGround, "Игрок должен приземлиться на траву")
	assert.InDelta(t, 1.901, snap.Position.Y(), 0.005)
	assert.Equal(t, uint64(120), snap.Step)
	assert.Equal(t, 2, snap.MeshesCached, "Воздушный чанк не имеет геометрии")
	assert.Positive(t, snap.VerticesCached)
	assert.InDelta(t, snap.Position.Y()+0.8, s.Camera.Position.Y(), 1e-5)
}

func TestSession_SelectBreakAndPlace(t *testing.T) {
	s, err := NewSession(testConfig(), nil)
	require.NoError(t, err)
	runFrames(t, s, 60)

	// Взгляд прямо перед собой: ничего не выбрано
	assert.Nil(t, s.Selected)

	s.Camera.SetPitch(-camera.MaxPitch)
	runFrames(t, s, 1)
	require.NotNil(t, s.Selected, "Под ногами трава")
	assert.Equal(t, vec.Vec3{X: 8, Y: 0, Z: 8}, s.Selected.Position)
	assert.Equal(t, vec.Vec3{Y: 1}, s.Selected.Normal)

	assert.False(t, s.PlaceBlock(), "Нельзя поставить блок в игрока")

	assert.True(t, s.BreakBlock())
	id, ok := s.World.GetVoxel(8, 0, 8)
	require.True(t, ok)
	assert.Equal(t, block.AirBlockID, id)
	assert.Equal(t, []vec.Vec3{{X: 0, Y: 0, Z: 0}}, s.World.TakeDirtyChunks())
}

func TestSession_PlaceBlockAwayFromPlayer(t *testing.T) {
	s, err := NewSession(testConfig(), nil)
	require.NoError(t, err)

	assert.False(t, s.PlaceBlock(), "Без выбора ничего не ставится")
	assert.False(t, s.BreakBlock())

	s.Selected = &raycast.Hit{Position: vec.Vec3{X: 8, Y: 0, Z: 12}, Normal: vec.Vec3{Y: 1}}
	s.CycleHeld()
	assert.True(t, s.PlaceBlock())

	id, _ := s.World.GetVoxel(8, 1, 12)
	assert.Equal(t, block.DirtBlockID, id)
}

func TestSession_EditClearsSelection(t *testing.T) {
	s, err := NewSession(testConfig(), nil)
	require.NoError(t, err)

	hit := raycast.Hit{Position: vec.Vec3{X: 8, Y: 0, Z: 12}, Normal: vec.Vec3{Y: 1}}
	s.Selected = &hit
	require.True(t, s.BreakBlock())
	assert.Nil(t, s.Selected)
	writes := s.World.VoxelWrites()

	assert.False(t, s.BreakBlock(), "Повторное разрушение без Update")
	assert.False(t, s.PlaceBlock())

	// Устаревший выбор указывает на уже разрушенный блок
	s.Selected = &hit
	assert.False(t, s.BreakBlock())
	assert.False(t, s.PlaceBlock(), "Блок не ставится на воздух")
	assert.Equal(t, writes, s.World.VoxelWrites())

	id, _ := s.World.GetVoxel(8, 1, 12)
	assert.Equal(t, block.AirBlockID, id)
}

func TestSession_PlaceBlockAgainstAir(t *testing.T) {
	s, err := NewSession(testConfig(), nil)
	require.NoError(t, err)
	writes := s.World.VoxelWrites()

	s.Selected = &raycast.Hit{Position: vec.Vec3{X: 8, Y: 5, Z: 12}, Normal: vec.Vec3{Y: 1}}
	assert.False(t, s.PlaceBlock())
	assert.NotNil(t, s.Selected, "Отклонённая правка не сбрасывает выбор")

	id, _ := s.World.GetVoxel(8, 6, 12)
	assert.Equal(t, block.AirBlockID, id)
	assert.Equal(t, writes, s.World.VoxelWrites())
}

func TestSession_PublishesWorldEdits(t *testing.T) {
	bus := eventbus.NewMemoryBus(16)
	var received []*eventbus.Envelope
	_, err := bus.Subscribe(context.Background(), eventbus.Filter{}, func(_ context.Context, ev *eventbus.Envelope) {
		received = append(received, ev)
	})
	require.NoError(t, err)

	s, err := NewSession(testConfig(), nil, WithEventBus(bus))
	require.NoError(t, err)

	hit := raycast.Hit{Position: vec.Vec3{X: 8, Y: 0, Z: 12}, Normal: vec.Vec3{Y: 1}}
	s.Selected = &hit
	require.True(t, s.PlaceBlock())
	s.Selected = &hit
	require.True(t, s.BreakBlock())
	s.ToggleFly()
	require.NoError(t, bus.Close())

	require.Len(t, received, 3)
	assert.Equal(t, eventbus.TypeBlockPlaced, received[0].EventType)
	assert.Equal(t, eventbus.TypeBlockBroken, received[1].EventType)
	assert.Equal(t, eventbus.TypeFlyToggled, received[2].EventType)
	assert.Equal(t, s.ID.String(), received[0].SessionID)

	var placed eventbus.BlockEvent
	require.NoError(t, received[0].Decode(&placed))
	assert.Equal(t, vec.Vec3{X: 8, Y: 1, Z: 12}, placed.Position)
	assert.Equal(t, "Stone", placed.Block)
	assert.Equal(t, "Air", placed.Previous)

	var broken eventbus.BlockEvent
	require.NoError(t, received[1].Decode(&broken))
	assert.Equal(t, vec.Vec3{X: 8, Y: 0, Z: 12}, broken.Position)
	assert.Equal(t, "Grass", broken.Previous)

	var fly eventbus.FlyEvent
	require.NoError(t, received[2].Decode(&fly))
	assert.True(t, fly.Enabled)
}

func TestSession_CycleHeld(t *testing.T) {
	s, err := NewSession(testConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, block.DirtBlockID, s.CycleHeld())
	assert.Equal(t, block.GrassBlockID, s.CycleHeld())
	assert.Equal(t, block.StoneBlockID, s.CycleHeld())
}

func TestSession_FlyModeSkipsPhysics(t *testing.T) {
	s, err := NewSession(testConfig(), nil)
	require.NoError(t, err)

	assert.True(t, s.ToggleFly())
	start := s.Camera.Position
	runFrames(t, s, 30)

	assert.Equal(t, start, s.Camera.Position, "Без клавиш камера в полёте неподвижна")
	assert.False(t, s.Snapshot().OnGround)
}

func TestSession_NegativeStepIgnored(t *testing.T) {
	s, err := NewSession(testConfig(), nil)
	require.NoError(t, err)

	s.ToggleFly()
	s.Controller.HandleKey(input.KeyForward, true)
	start := s.Camera.Position

	require.NoError(t, s.Update(context.Background(), -1))
	assert.Equal(t, start, s.Camera.Position, "Отрицательный шаг не двигает камеру назад")

	require.NoError(t, s.Update(context.Background(), frame))
	assert.NotEqual(t, start, s.Camera.Position)
}

func TestSession_UploadErrorReported(t *testing.T) {
	up := render.NewMemoryUploader()
	errBoom := errors.New("device lost")
	up.Fail = func(vec.Vec3) error { return errBoom }

	s, err := NewSession(testConfig(), up)
	require.NoError(t, err)

	err = s.Update(context.Background(), frame)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, uint64(1), s.Snapshot().Step, "Шаг засчитывается несмотря на ошибку")
}

func TestSession_MetricsAndTracing(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	s, err := NewSession(testConfig(), nil, WithMetrics(m), WithTracer(tp.Tracer("test")))
	require.NoError(t, err)
	runFrames(t, s, 3)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[f.GetName()] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[f.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, float64(3), values["voxel_game_steps_total"])
	assert.Equal(t, float64(3), values["voxel_world_chunks_loaded"])
	assert.Equal(t, float64(2), values["voxel_render_remesh_total"])

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "game.Update", spans[0].Name())
}

func TestSession_SnapshotConcurrentRead(t *testing.T) {
	s, err := NewSession(testConfig(), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_ = s.Snapshot()
			}
		}
	}()

	runFrames(t, s, 20)
	close(stop)
	wg.Wait()

	assert.Equal(t, uint64(20), s.Snapshot().Step)
}
