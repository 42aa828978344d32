package reader

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

type metrics struct {
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oascompiler_reader_fetch_total",
				Help: "Document fetches by result (hit, miss, error)",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "oascompiler_reader_fetch_duration_seconds",
				Help:    "Time spent loading uncached documents",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
	}
	if err := reg.Register(m.fetches); err != nil {
		return nil, err
	}
	if err := reg.Register(m.duration); err != nil {
		reg.Unregister(m.fetches)
		return nil, err
	}
	return m, nil
}

// observe records one fetch. Cache hits carry no duration. A nil receiver
// is a no-op so that readers without metrics need no checks.
func (m *metrics) observe(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(result).Inc()
	if result != resultHit {
		m.duration.WithLabelValues(result).Observe(d.Seconds())
	}
}
