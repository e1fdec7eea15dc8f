package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/voxel-engine/internal/game"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/middleware"
)

// SnapshotSource - источник состояния сессии. API только читает снимки
// и никогда не трогает мир напрямую.
type SnapshotSource interface {
	Snapshot() game.Snapshot
}

// DebugServer - отладочный HTTP API: состояние игрока, мира и процесса, метрики
type DebugServer struct {
	router  *gin.Engine
	source  SnapshotSource
	addr    string
	process *ProcessSampler
	server  *http.Server
}

// Config содержит конфигурацию отладочного сервера
type Config struct {
	Addr     string              // адрес для запуска сервера
	Source   SnapshotSource      // источник снимков сессии
	Registry *prometheus.Registry // регистр для HTTP-метрик и /metrics; nil - глобальный
}

// GenericResponse - общий формат ответа
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PlayerInfo - ответ /debug/player
type PlayerInfo struct {
	SessionID string     `json:"session_id"`
	Position  [3]float32 `json:"position"`
	Velocity  [3]float32 `json:"velocity"`
	OnGround  bool       `json:"on_ground"`
	Yaw       float32    `json:"yaw"`
	Pitch     float32    `json:"pitch"`
	Held      string     `json:"held"`
	Fly       bool       `json:"fly"`
	Selected  *Selection `json:"selected,omitempty"`
}

// Selection - выбранный лучом блок
type Selection struct {
	Position [3]int  `json:"position"`
	Normal   [3]int  `json:"normal"`
	Distance float32 `json:"distance"`
}

// WorldInfo - ответ /debug/world
type WorldInfo struct {
	Step           uint64  `json:"step"`
	ChunksLoaded   int     `json:"chunks_loaded"`
	MeshesCached   int     `json:"meshes_cached"`
	VerticesCached int     `json:"vertices_cached"`
	VoxelWrites    uint64  `json:"voxel_writes"`
	LastStepMs     float64 `json:"last_step_ms"`
}

// NewDebugServer создает отладочный сервер
func NewDebugServer(config Config) (*DebugServer, error) {
	if config.Source == nil {
		return nil, errors.New("debug api: snapshot source is required")
	}
	if config.Addr == "" {
		config.Addr = "127.0.0.1:8089"
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("voxel_debug_api"))

	loggerMw := middleware.NewRequestLogger()
	router.Use(loggerMw.Handler())

	var reg prometheus.Registerer
	var gatherer prometheus.Gatherer
	if config.Registry != nil {
		reg, gatherer = config.Registry, config.Registry
	}
	promMw, err := middleware.NewPrometheusMiddleware("voxel_debug_api", reg, gatherer)
	if err != nil {
		return nil, fmt.Errorf("debug api metrics: %w", err)
	}
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	ds := &DebugServer{
		router:  router,
		source:  config.Source,
		addr:    config.Addr,
		process: NewProcessSampler(),
	}
	ds.setupRoutes()
	ds.server = &http.Server{
		Addr:              config.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return ds, nil
}

// setupRoutes настраивает маршруты
func (ds *DebugServer) setupRoutes() {
	ds.router.GET("/health", ds.handleHealth)

	debug := ds.router.Group("/debug")
	{
		debug.GET("/player", ds.handlePlayer)
		debug.GET("/world", ds.handleWorld)
		debug.GET("/process", ds.handleProcess)
	}
}

// Handler возвращает http.Handler сервера (для тестов и встраивания)
func (ds *DebugServer) Handler() http.Handler {
	return ds.router
}

func (ds *DebugServer) handleHealth(c *gin.Context) {
	snap := ds.source.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().Unix(),
		"session": snap.SessionID,
		"step":    snap.Step,
	})
}

func (ds *DebugServer) handlePlayer(c *gin.Context) {
	snap := ds.source.Snapshot()

	info := PlayerInfo{
		SessionID: snap.SessionID,
		Position:  snap.Position,
		Velocity:  snap.Velocity,
		OnGround:  snap.OnGround,
		Yaw:       snap.Yaw,
		Pitch:     snap.Pitch,
		Held:      snap.Held.String(),
		Fly:       snap.Fly,
	}
	if hit := snap.Selected; hit != nil {
		info.Selected = &Selection{
			Position: [3]int{hit.Position.X, hit.Position.Y, hit.Position.Z},
			Normal:   [3]int{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
			Distance: hit.Distance,
		}
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация об игроке",
		Data:    info,
	})
}

func (ds *DebugServer) handleWorld(c *gin.Context) {
	snap := ds.source.Snapshot()

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Состояние мира",
		Data: WorldInfo{
			Step:           snap.Step,
			ChunksLoaded:   snap.ChunksLoaded,
			MeshesCached:   snap.MeshesCached,
			VerticesCached: snap.VerticesCached,
			VoxelWrites:    snap.VoxelWrites,
			LastStepMs:     float64(snap.LastStep.Microseconds()) / 1000,
		},
	})
}

func (ds *DebugServer) handleProcess(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация о процессе",
		Data:    ds.process.Sample(ds.source.Snapshot()),
	})
}

// Start запускает HTTP сервер и блокируется до остановки
func (ds *DebugServer) Start() error {
	logging.GetAPILogger().Info("🔧 Отладочный API доступен по адресу %s", ds.addr)

	if err := ds.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает сервер
func (ds *DebugServer) Shutdown(ctx context.Context) error {
	return ds.server.Shutdown(ctx)
}
