package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics counts per-item outcomes by pipeline stage (extract,
// classify, promote) and tracks batch durations.
type PipelineMetrics struct {
	registry *prometheus.Registry

	itemsTotal    *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec
	itemsInFlight prometheus.Gauge
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()

	itemsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "docflow",
			Subsystem:   "pipeline",
			Name:        "items_total",
			Help:        "Processed items by stage and outcome.",
			ConstLabels: prometheus.Labels{"service": service},
		},
		[]string{"stage", "status"},
	)
	batchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   "docflow",
			Subsystem:   "pipeline",
			Name:        "batch_duration_seconds",
			Help:        "Wall-clock duration of batch runs by stage.",
			Buckets:     []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
			ConstLabels: prometheus.Labels{"service": service},
		},
		[]string{"stage"},
	)
	itemsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "docflow",
			Subsystem:   "pipeline",
			Name:        "items_in_flight",
			Help:        "Items currently being processed.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	registry.MustRegister(itemsTotal, batchDuration, itemsInFlight)

	return &PipelineMetrics{
		registry:      registry,
		itemsTotal:    itemsTotal,
		batchDuration: batchDuration,
		itemsInFlight: itemsInFlight,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) StartItem() {
	m.itemsInFlight.Inc()
}

func (m *PipelineMetrics) FinishItem(stage string, err error) {
	m.itemsInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}
	m.itemsTotal.WithLabelValues(stage, status).Inc()
}

func (m *PipelineMetrics) ObserveBatch(stage string, duration time.Duration) {
	m.batchDuration.WithLabelValues(stage).Observe(duration.Seconds())
}
