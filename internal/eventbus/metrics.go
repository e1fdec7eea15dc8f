package eventbus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics экспортирует счётчики шины в регистр Prometheus.
// Значения читаются из Metrics() в момент сбора, без фонового опроса.
func RegisterMetrics(reg prometheus.Registerer, bus EventBus) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	stat := func(pick func(Stats) float64) func() float64 {
		return func() float64 { return pick(bus.Metrics()) }
	}

	cs := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "voxel_eventbus",
			Name:      "messages_published_total",
			Help:      "Общее число опубликованных событий.",
		}, stat(func(s Stats) float64 { return float64(s.Published) })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "voxel_eventbus",
			Name:      "messages_consumed_total",
			Help:      "Общее число доставленных событий подписчикам.",
		}, stat(func(s Stats) float64 { return float64(s.Consumed) })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "voxel_eventbus",
			Name:      "messages_dropped_total",
			Help:      "Число событий, отброшенных из-за переполнения или ошибки отправки.",
		}, stat(func(s Stats) float64 { return float64(s.Dropped) })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "voxel_eventbus",
			Name:      "messages_inflight",
			Help:      "Текущее число сообщений в очереди.",
		}, stat(func(s Stats) float64 { return float64(s.InFlight) })),
	}

	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
