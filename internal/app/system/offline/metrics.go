package offline

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the worker's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	Responses      *prometheus.CounterVec
	FetchFailures  *prometheus.CounterVec
	PrecacheErrors prometheus.Counter
	BucketsDeleted prometheus.Counter
	CacheBytes     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "starterkit",
			Subsystem: "offline",
			Name:      "responses_total",
			Help:      "Intercepted responses by request category and response source.",
		}, []string{"category", "source"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "starterkit",
			Subsystem: "offline",
			Name:      "fetch_failures_total",
			Help:      "Network fetches that failed, by bucket.",
		}, []string{"bucket"}),
		PrecacheErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "starterkit",
			Subsystem: "offline",
			Name:      "precache_errors_total",
			Help:      "Precache entries skipped during install.",
		}),
		BucketsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "starterkit",
			Subsystem: "offline",
			Name:      "buckets_deleted_total",
			Help:      "Buckets deleted by activation or cache clearing.",
		}),
		CacheBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "starterkit",
			Subsystem: "offline",
			Name:      "cache_bytes",
			Help:      "Total body bytes across buckets at the last size report.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Responses, m.FetchFailures, m.PrecacheErrors, m.BucketsDeleted, m.CacheBytes)
	}
	return m
}

func (m *Metrics) response(c Category, s Source) {
	if m != nil {
		m.Responses.WithLabelValues(c.String(), s.String()).Inc()
	}
}

func (m *Metrics) fetchFailed(bucket string) {
	if m != nil {
		m.FetchFailures.WithLabelValues(bucket).Inc()
	}
}

func (m *Metrics) precacheFailed() {
	if m != nil {
		m.PrecacheErrors.Inc()
	}
}

func (m *Metrics) bucketDeleted() {
	if m != nil {
		m.BucketsDeleted.Inc()
	}
}

func (m *Metrics) cacheSize(n int64) {
	if m != nil {
		m.CacheBytes.Set(float64(n))
	}
}
