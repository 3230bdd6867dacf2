package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	documentsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "runpack",
			Subsystem: "export",
			Name:      "documents_total",
			Help:      "Number of documents written, by document name.",
		}, []string{"name"},
	)
	bytesWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "runpack",
			Subsystem: "export",
			Name:      "bytes_total",
			Help:      "Total bytes written to msgpack artifacts.",
		},
	)
	exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "runpack",
			Subsystem: "export",
			Name:      "runs_total",
			Help:      "Number of export calls, by result (success or error).",
		}, []string{"result"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{documentsWritten, bytesWritten, exports}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
// The caller is responsible for starting an HTTP server and wiring the route.
func Handler() http.Handler { return promhttp.Handler() }

// Below are lightweight helpers used by the CLI to record export activity.
// They no-op if Register hasn't been called.

func IncDocument(name string) {
	if regOK.Load() {
		documentsWritten.WithLabelValues(name).Inc()
	}
}

func AddBytes(n int64) {
	if regOK.Load() && n > 0 {
		bytesWritten.Add(float64(n))
	}
}

func IncExport(result string) {
	if regOK.Load() {
		exports.WithLabelValues(result).Inc()
	}
}
