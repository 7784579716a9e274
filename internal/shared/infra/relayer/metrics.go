package relayer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics son las métricas del procesador de outbox.
type Metrics struct {
	published prometheus.Counter
	failed    prometheus.Counter
	dead      prometheus.Counter
	pending   prometheus.Gauge
}

// NewMetrics registra las métricas en reg. Con reg nil usa un registro propio (tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		published: f.NewCounter(prometheus.CounterOpts{
			Namespace: "meetups",
			Subsystem: "outbox",
			Name:      "published_total",
			Help:      "Messages published and removed from the outbox.",
		}),
		failed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "meetups",
			Subsystem: "outbox",
			Name:      "failed_total",
			Help:      "Failed publish attempts.",
		}),
		dead: f.NewCounter(prometheus.CounterOpts{
			Namespace: "meetups",
			Subsystem: "outbox",
			Name:      "dead_total",
			Help:      "Messages moved to the dead letter store.",
		}),
		pending: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "meetups",
			Subsystem: "outbox",
			Name:      "pending",
			Help:      "Rows left in the outbox after the last run.",
		}),
	}
}
