// Package app собирает вспомогательные сервисы процесса вокруг игровой сессии:
// уровень логов, трейсинг, метрики, шину событий и отладочный API.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/annel0/voxel-engine/internal/api"
	"github.com/annel0/voxel-engine/internal/config"
	"github.com/annel0/voxel-engine/internal/eventbus"
	"github.com/annel0/voxel-engine/internal/game"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/metrics"
	"github.com/annel0/voxel-engine/internal/observability"
)

// Services - сервисы, живущие столько же, сколько процесс
type Services struct {
	Registry *prometheus.Registry
	Metrics  *metrics.Collectors
	Events   eventbus.EventBus

	debug         *api.DebugServer
	debugErr      chan error
	stopTelemetry func(context.Context) error
}

// initTelemetry подменяется в тестах
var initTelemetry = observability.InitTelemetry

// Start настраивает уровень логов, телеметрию и метрики по конфигурации.
// При ошибке уже запущенные сервисы останавливаются.
func Start(ctx context.Context, cfg *config.Config, serviceName string) (_ *Services, err error) {
	if cfg.Debug.LogLevel != "" {
		logging.SetLevel(logging.ParseLevel(cfg.Debug.LogLevel))
	}

	s := &Services{}
	defer func() {
		if err != nil {
			if closeErr := s.Close(ctx); closeErr != nil {
				logging.Warn("⚠️ Остановка сервисов после ошибки запуска: %v", closeErr)
			}
		}
	}()

	if cfg.Debug.Telemetry {
		shutdown, err := initTelemetry(ctx, serviceName,
			attribute.String("world.generator", cfg.World.Generator),
			attribute.Int64("world.seed", cfg.World.GetSeed()))
		if err != nil {
			// Без коллектора движок продолжает работать
			logging.Warn("⚠️ Телеметрия недоступна: %v", err)
		} else {
			s.stopTelemetry = shutdown
		}
	}

	if cfg.Debug.MetricsEnabled || cfg.Debug.GetAPIAddr() != "" {
		s.Registry = prometheus.NewRegistry()
		s.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m, err := metrics.New(s.Registry)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		s.Metrics = m
	}

	if cfg.Events.Enabled {
		bus, err := newEventBus(cfg.Events)
		if err != nil {
			return nil, err
		}
		s.Events = bus
		if _, err := eventbus.StartLoggingListener(bus); err != nil {
			return nil, fmt.Errorf("start event listener: %w", err)
		}
		if s.Registry != nil {
			if err := eventbus.RegisterMetrics(s.Registry, bus); err != nil {
				return nil, fmt.Errorf("register event metrics: %w", err)
			}
		}
	}

	return s, nil
}

// newEventBus выбирает JetStream при заданном адресе NATS, иначе шину в памяти
func newEventBus(cfg config.EventsConfig) (eventbus.EventBus, error) {
	url := cfg.GetNATSURL()
	if url == "" {
		return eventbus.NewMemoryBus(cfg.Buffer), nil
	}
	bus, err := eventbus.NewJetStreamBus(url, cfg.Stream, cfg.Retention)
	if err != nil {
		return nil, fmt.Errorf("connect event bus: %w", err)
	}
	logging.Info("📨 События мира публикуются в NATS %s (stream %s)", url, cfg.Stream)
	return bus, nil
}

// SessionOptions возвращает опции сессии, подключающие метрики и шину событий
func (s *Services) SessionOptions() []game.Option {
	var opts []game.Option
	if s.Metrics != nil {
		opts = append(opts, game.WithMetrics(s.Metrics))
	}
	if s.Events != nil {
		opts = append(opts, game.WithEventBus(s.Events))
	}
	return opts
}

// ServeDebug запускает отладочный API в отдельной горутине. Пустой адрес - API выключен.
func (s *Services) ServeDebug(addr string, source api.SnapshotSource) error {
	if addr == "" {
		return nil
	}
	server, err := api.NewDebugServer(api.Config{
		Addr:     addr,
		Source:   source,
		Registry: s.Registry,
	})
	if err != nil {
		return fmt.Errorf("create debug api: %w", err)
	}
	s.debug = server
	s.debugErr = make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil {
			logging.Error("❌ Отладочный API остановлен с ошибкой: %v", err)
			s.debugErr <- err
		}
		close(s.debugErr)
	}()

	logging.Info("🌐 Отладочный API: http://%s/debug/player", addr)
	return nil
}

// Close останавливает отладочный API, шину событий и сбрасывает трейсы
func (s *Services) Close(ctx context.Context) error {
	var errs []error
	if s.debug != nil {
		if err := s.debug.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown debug api: %w", err))
		}
		if err, ok := <-s.debugErr; ok {
			errs = append(errs, err)
		}
	}
	if s.Events != nil {
		if err := s.Events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close event bus: %w", err))
		}
	}
	if s.stopTelemetry != nil {
		if err := s.stopTelemetry(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown telemetry: %w", err))
		}
	}
	return errors.Join(errs...)
}
