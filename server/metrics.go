package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelRoute  = "route"
	LabelCode   = "code"
	LabelResult = "result"
)

type serverMetrics struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	predictions    prometheus.Counter
	reloads        *prometheus.CounterVec
	modelSlope     prometheus.Gauge
	modelIntercept prometheus.Gauge
}

// newServerMetrics registers the HTTP collectors on reg. Each Server owns its
// registry so several can coexist in one process.
func newServerMetrics(reg *prometheus.Registry) *serverMetrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &serverMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "icesales",
			Subsystem: "http",
			Name:      "requests_total",
		}, []string{LabelRoute, LabelCode}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "icesales",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{LabelRoute}),
		predictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "icesales",
			Subsystem: "model",
			Name:      "predictions_total",
		}),
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "icesales",
			Subsystem: "model",
			Name:      "reloads_total",
		}, []string{LabelResult}),
		modelSlope: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "icesales",
			Subsystem: "model",
			Name:      "slope",
		}),
		modelIntercept: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "icesales",
			Subsystem: "model",
			Name:      "intercept",
		}),
	}
}
