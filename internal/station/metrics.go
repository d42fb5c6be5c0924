package station

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records poll outcomes per station.
type Metrics struct {
	polls        *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	measurements *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherlink",
			Name:      "polls_total",
			Help:      "Number of station polls by result.",
		}, []string{"station", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weatherlink",
			Name:      "poll_duration_seconds",
			Help:      "Duration of station polls, retries included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"station"}),
		measurements: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "weatherlink",
			Name:      "measurements",
			Help:      "Measurements published by the last successful poll.",
		}, []string{"station"}),
	}
	reg.MustRegister(m.polls, m.duration, m.measurements)
	return m
}

func (m *Metrics) observe(station string, begin time.Time, err error, count int) {
	m.duration.WithLabelValues(station).Observe(time.Since(begin).Seconds())
	if err != nil {
		m.polls.WithLabelValues(station, "failure").Inc()
		return
	}
	m.polls.WithLabelValues(station, "success").Inc()
	m.measurements.WithLabelValues(station).Set(float64(count))
}
