package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	conversions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	sessions    prometheus.Gauge

	handler http.Handler
}

func newMetrics() *metrics {
	m := &metrics{
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hexpic",
			Name:      "conversions_total",
			Help:      "Conversions by image source and outcome.",
		}, []string{"source", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hexpic",
			Name:      "conversion_duration_seconds",
			Help:      "Time spent loading and converting one image.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"source"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hexpic",
			Name:      "ws_sessions",
			Help:      "Open websocket sessions.",
		}),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		m.conversions,
		m.duration,
		m.sessions,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	return m
}

func (m *metrics) observe(source string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.conversions.WithLabelValues(source, outcome).Inc()
	m.duration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}
