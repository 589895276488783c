package tracklib

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "iptracker"

type metrics struct {
	registry  *prometheus.Registry
	lookups   *prometheus.CounterVec
	upstreams *prometheus.CounterVec
	duration  prometheus.Histogram
}

func (m *metrics) observeLookup(err error, started time.Time) {
	m.duration.Observe(time.Since(started).Seconds())
	m.lookups.WithLabelValues(lookupStatus(err)).Inc()
}

func (m *metrics) observeUpstream(kind, name string, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}

	m.upstreams.WithLabelValues(kind, name, status).Inc()
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func lookupStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEmptyQuery), errors.Is(err, ErrInvalidQuery):
		return "invalid"
	case errors.Is(err, ErrReservedAddress):
		return "reserved"
	case errors.Is(err, ErrNoAddress):
		return "no_address"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	}

	return "error"
}

func newMetrics() *metrics {
	rv := &metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "lookups_total",
			Help:      "How many lookups were done, by outcome",
		}, []string{"status"}),
		upstreams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_requests_total",
			Help:      "How many requests were sent to resolvers and providers",
		}, []string{"kind", "upstream", "status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "lookup_duration_seconds",
			Help:      "How long does it take to complete a lookup",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	rv.registry.MustRegister(rv.lookups, rv.upstreams, rv.duration)

	return rv
}
