// Package metrics экспортирует состояние мира, кэша рендера и игрового цикла в Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "voxel"

// StepObservation - срез состояния после одного шага симуляции.
// Счётчики (VoxelWrites, Steps) кумулятивные, экспортёр сам считает приращения.
type StepObservation struct {
	Duration       time.Duration
	ChunksLoaded   int
	MeshesCached   int
	VerticesCached int
	VoxelWrites    uint64
	Remeshed       int
	Removed        int
	UploadFailures int
}

// Collectors хранит Prometheus-метрики движка
type Collectors struct {
	chunksLoaded   prometheus.Gauge
	meshesCached   prometheus.Gauge
	verticesCached prometheus.Gauge
	remesh         prometheus.Counter
	removed        prometheus.Counter
	uploadErrors   prometheus.Counter
	voxelWrites    prometheus.Counter
	steps          prometheus.Counter
	stepSeconds    prometheus.Histogram

	// Для коррекции Counter нужно хранить прошлое значение и прибавлять дельту
	prevWrites uint64
}

// New создаёт метрики и регистрирует их в reg.
// nil означает глобальный регистр Prometheus.
func New(reg prometheus.Registerer) (*Collectors, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collectors{
		chunksLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "chunks_loaded",
			Help:      "Число загруженных чанков.",
		}),
		meshesCached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "meshes_cached",
			Help:      "Число чанков с загруженной геометрией.",
		}),
		verticesCached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "vertices_cached",
			Help:      "Суммарное число вершин в кэше рендера.",
		}),
		remesh: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "remesh_total",
			Help:      "Общее число перестроенных мешей.",
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "removed_total",
			Help:      "Геометрия, удалённая из кэша (чанк выгружен или пуст).",
		}),
		uploadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "upload_errors_total",
			Help:      "Ошибки загрузки мешей на устройство.",
		}),
		voxelWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "voxel_writes_total",
			Help:      "Общее число записей вокселей.",
		}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "steps_total",
			Help:      "Общее число шагов симуляции.",
		}),
		stepSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "step_seconds",
			Help:      "Длительность шага симуляции.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016, 0.033, 0.05, 0.1, 0.25},
		}),
	}

	for _, collector := range []prometheus.Collector{
		c.chunksLoaded, c.meshesCached, c.verticesCached,
		c.remesh, c.removed, c.uploadErrors,
		c.voxelWrites, c.steps, c.stepSeconds,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe обновляет метрики по результату шага
func (c *Collectors) Observe(obs StepObservation) {
	c.steps.Inc()
	c.stepSeconds.Observe(obs.Duration.Seconds())

	c.chunksLoaded.Set(float64(obs.ChunksLoaded))
	c.meshesCached.Set(float64(obs.MeshesCached))
	c.verticesCached.Set(float64(obs.VerticesCached))

	if obs.Remeshed > 0 {
		c.remesh.Add(float64(obs.Remeshed))
	}
	if obs.Removed > 0 {
		c.removed.Add(float64(obs.Removed))
	}
	if obs.UploadFailures > 0 {
		c.uploadErrors.Add(float64(obs.UploadFailures))
	}

	if obs.VoxelWrites > c.prevWrites {
		c.voxelWrites.Add(float64(obs.VoxelWrites - c.prevWrites))
	}
	c.prevWrites = obs.VoxelWrites
}
