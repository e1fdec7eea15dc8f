// Package game связывает мир, игрока, камеру, выбор блока и кэш рендера в один шаг симуляции.
package game

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/voxel-engine/internal/camera"
	"github.com/annel0/voxel-engine/internal/config"
	"github.com/annel0/voxel-engine/internal/eventbus"
	"github.com/annel0/voxel-engine/internal/input"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/metrics"
	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/annel0/voxel-engine/internal/raycast"
	"github.com/annel0/voxel-engine/internal/render"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
	_ "github.com/annel0/voxel-engine/internal/world/block/implementations"
)

// StartYaw - камера при старте смотрит вдоль -Z
const StartYaw = -math.Pi / 2

// Snapshot - копия состояния сессии для чтения из других горутин (отладочный API)
type Snapshot struct {
	SessionID      string
	Step           uint64
	Position       mgl32.Vec3
	Velocity       mgl32.Vec3
	OnGround       bool
	Yaw            float32
	Pitch          float32
	Selected       *raycast.Hit
	Held           block.BlockID
	Fly            bool
	ChunksLoaded   int
	MeshesCached   int
	VerticesCached int
	VoxelWrites    uint64
	LastStep       time.Duration
	UpdatedAt      time.Time
}

// Session - одна игровая сессия. Симуляция однопоточная: Update, BreakBlock,
// PlaceBlock и обработка ввода вызываются из одного цикла. Snapshot безопасен из любой горутины.
type Session struct {
	ID         uuid.UUID
	World      *world.World
	Player     *physics.Player
	Camera     *camera.Camera
	Controller *input.Controller
	Cache      *render.ChunkRenderCache

	Selected *raycast.Hit
	Held     block.BlockID
	// Fly отключает физику игрока: камера летает свободно
	Fly bool

	params    physics.Params
	reach     float32
	maxSteps  int
	eyeOffset float32
	metrics   *metrics.Collectors
	events    eventbus.EventBus
	tracer    trace.Tracer
	logger    *logging.Logger

	step uint64

	snapMu sync.RWMutex
	snap   Snapshot
}

// Option настраивает сессию при создании
type Option func(*Session)

// WithMetrics включает экспорт метрик шага
func WithMetrics(m *metrics.Collectors) Option {
	return func(s *Session) { s.metrics = m }
}

// WithEventBus включает публикацию правок мира в шину событий
func WithEventBus(bus eventbus.EventBus) Option {
	return func(s *Session) { s.events = bus }
}

// WithTracer задаёт трейсер вместо глобального
func WithTracer(t trace.Tracer) Option {
	return func(s *Session) { s.tracer = t }
}

// NewSession создаёт мир по конфигурации, загружает стартовую область
// и ставит игрока в точку появления.
func NewSession(cfg *config.Config, uploader render.Uploader, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gen, err := world.NewGenerator(cfg.World.Generator, cfg.World.GetSeed(), cfg.World.SurfaceY)
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}
	if uploader == nil {
		uploader = render.NewMemoryUploader()
	}

	spawn := mgl32.Vec3{cfg.Player.Spawn[0], cfg.Player.Spawn[1], cfg.Player.Spawn[2]}
	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)

	s := &Session{
		ID:         uuid.New(),
		World:      world.NewWorld(gen),
		Player:     physics.NewPlayerSized(spawn, cfg.Player.Width, cfg.Player.Height),
		Camera:     camera.New(spawn.Add(mgl32.Vec3{0, cfg.Player.EyeOffset, 0}), StartYaw, 0, aspect),
		Controller: input.NewController(cfg.Input.MoveSpeed, cfg.Input.JumpStrength, cfg.Input.MouseSensitivity),
		Cache:      render.NewChunkRenderCache(nil, uploader),
		Held:       block.StoneBlockID,
		params: physics.Params{
			Gravity: cfg.Physics.Gravity,
			MaxStep: cfg.Physics.MaxStep,
			Epsilon: cfg.Physics.Epsilon,
		},
		reach:     cfg.Raycast.Reach,
		maxSteps:  cfg.Raycast.MaxSteps,
		eyeOffset: cfg.Player.EyeOffset,
		logger:    logging.GetGameLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("github.com/annel0/voxel-engine/internal/game")
	}

	s.loadSpawnArea(spawn, cfg.World.SpawnRadius)
	s.publish(0)

	s.logger.Info("🎮 Сессия %s создана: генератор=%s, чанков=%d", s.ID, cfg.World.Generator, s.World.ChunkCount())
	return s, nil
}

// loadSpawnArea загружает столбец чанков y=-1..1 вокруг точки появления по XZ
func (s *Session) loadSpawnArea(spawn mgl32.Vec3, radius int) {
	center := vec.FloorVec3(spawn.X(), 0, spawn.Z()).ToChunkCoords()
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			for y := 1; y >= -1; y-- {
				s.World.LoadChunk(vec.Vec3{X: center.X + dx, Y: y, Z: center.Z + dz})
			}
		}
	}
}

// Update выполняет один шаг: ввод, физика, камера, выбор блока, перестройка мешей.
// Ошибка означает сбой загрузки части мешей; симуляция при этом продолжается.
func (s *Session) Update(ctx context.Context, dt float32) error {
	_, span := s.tracer.Start(ctx, "game.Update", trace.WithAttributes(
		attribute.String("session.id", s.ID.String()),
	))
	defer span.End()

	start := time.Now()

	if dt > s.params.MaxStep {
		dt = s.params.MaxStep
	}
	if dt < 0 {
		dt = 0
	}

	if s.Fly {
		s.Controller.Fly(s.Camera, dt)
		s.Player.Position = s.Camera.Position.Sub(mgl32.Vec3{0, s.eyeOffset, 0})
		s.Player.Velocity = mgl32.Vec3{}
	} else {
		s.Controller.UpdateVelocity(s.Player, s.Camera)
		s.Player.Step(s.World, dt, s.params)
		s.Camera.Position = s.Player.Position.Add(mgl32.Vec3{0, s.eyeOffset, 0})
	}

	s.Selected = nil
	if hit, ok := raycast.CastSteps(s.World, s.Camera.Position, s.Camera.Direction(), s.reach, s.maxSteps); ok {
		s.Selected = &hit
	}

	stats, err := s.Cache.Update(s.World)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "mesh upload failed")
		s.logger.Warn("Часть мешей не загружена: %v", err)
	}

	s.step++
	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.Int("render.remeshed", stats.Remeshed),
		attribute.Int("render.removed", stats.Removed),
	)

	if s.metrics != nil {
		s.metrics.Observe(metrics.StepObservation{
			Duration:       elapsed,
			ChunksLoaded:   s.World.ChunkCount(),
			MeshesCached:   s.Cache.Len(),
			VerticesCached: s.Cache.VertexCount(),
			VoxelWrites:    s.World.VoxelWrites(),
			Remeshed:       stats.Remeshed,
			Removed:        stats.Removed,
			UploadFailures: stats.Failed,
		})
	}
	s.publish(elapsed)

	return err
}

// selectedSolid возвращает выбранный блок, если он всё ещё стоит в мире.
// Выбор обновляется только в Update, поэтому между кадрами он может устареть.
func (s *Session) selectedSolid() (block.BlockID, bool) {
	if s.Selected == nil {
		return block.AirBlockID, false
	}
	p := s.Selected.Position
	id, ok := s.World.GetVoxel(p.X, p.Y, p.Z)
	if !ok || id == block.AirBlockID {
		return block.AirBlockID, false
	}
	return id, true
}

// BreakBlock заменяет выбранный блок воздухом. После правки выбор сбрасывается
// до следующего Update.
func (s *Session) BreakBlock() bool {
	prev, ok := s.selectedSolid()
	if !ok {
		return false
	}
	p := s.Selected.Position
	s.Selected = nil
	s.World.SetVoxel(p.X, p.Y, p.Z, block.AirBlockID)
	s.logger.Debug("⛏ Блок %v разрушен", p)
	s.emit(eventbus.TypeBlockBroken, eventbus.BlockEvent{Position: p, Block: block.AirBlockID.String(), Previous: prev.String()})
	return true
}

// PlaceBlock ставит удерживаемый блок перед выбранной гранью.
// Отклоняется без выбора, если выбранного блока уже нет,
// и если новый блок пересёкся бы с игроком.
func (s *Session) PlaceBlock() bool {
	if _, ok := s.selectedSolid(); !ok {
		return false
	}
	p := s.Selected.Adjacent()
	if s.Player.OverlapsBlock(p) {
		return false
	}
	s.Selected = nil
	prev, _ := s.World.GetVoxel(p.X, p.Y, p.Z)
	s.World.SetVoxel(p.X, p.Y, p.Z, s.Held)
	s.logger.Debug("🧱 Блок %s поставлен в %v", s.Held, p)
	s.emit(eventbus.TypeBlockPlaced, eventbus.BlockEvent{Position: p, Block: s.Held.String(), Previous: prev.String()})
	return true
}

// heldCycle - порядок переключения удерживаемого блока
var heldCycle = []block.BlockID{block.StoneBlockID, block.DirtBlockID, block.GrassBlockID}

// CycleHeld переключает удерживаемый блок на следующий
func (s *Session) CycleHeld() block.BlockID {
	next := heldCycle[0]
	for i, id := range heldCycle {
		if id == s.Held {
			next = heldCycle[(i+1)%len(heldCycle)]
			break
		}
	}
	s.Held = next
	return next
}

// ToggleFly переключает режим свободного полёта
func (s *Session) ToggleFly() bool {
	s.Fly = !s.Fly
	s.Player.Velocity = mgl32.Vec3{}
	s.emit(eventbus.TypeFlyToggled, eventbus.FlyEvent{Enabled: s.Fly})
	return s.Fly
}

// emit публикует событие, если шина подключена. Ошибки шины не прерывают игру.
func (s *Session) emit(eventType string, payload any) {
	if s.events == nil {
		return
	}
	ev, err := eventbus.NewEnvelope("voxel-engine", eventType, s.ID.String(), payload)
	if err == nil {
		err = s.events.Publish(context.Background(), ev)
	}
	if err != nil {
		s.logger.Warn("Событие %s не опубликовано: %v", eventType, err)
	}
}

// publish обновляет снимок состояния
func (s *Session) publish(elapsed time.Duration) {
	var selected *raycast.Hit
	if s.Selected != nil {
		hit := *s.Selected
		selected = &hit
	}

	snap := Snapshot{
		SessionID:      s.ID.String(),
		Step:           s.step,
		Position:       s.Player.Position,
		Velocity:       s.Player.Velocity,
		OnGround:       s.Player.OnGround,
		Yaw:            s.Camera.Yaw,
		Pitch:          s.Camera.Pitch,
		Selected:       selected,
		Held:           s.Held,
		Fly:            s.Fly,
		ChunksLoaded:   s.World.ChunkCount(),
		MeshesCached:   s.Cache.Len(),
		VerticesCached: s.Cache.VertexCount(),
		VoxelWrites:    s.World.VoxelWrites(),
		LastStep:       elapsed,
		UpdatedAt:      time.Now(),
	}

	s.snapMu.Lock()
	s.snap = snap
	s.snapMu.Unlock()
}

// Snapshot возвращает последний опубликованный снимок состояния
func (s *Session) Snapshot() Snapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snap
}
