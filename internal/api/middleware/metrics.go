package middleware

import (
	"net/http"
	"sync/atomic"

	"github.com/valefinance/vale/internal/telemetry"
)

// MetricsCollector counts requests and errors for the runtime metrics
// endpoint and mirrors them into prometheus.
type MetricsCollector struct {
	requestCount *atomic.Int64
	errorCount   *atomic.Int64
	prom         *telemetry.Metrics
}

// NewMetricsCollector creates a new metrics collector. prom may be nil.
func NewMetricsCollector(requestCount, errorCount *atomic.Int64, prom *telemetry.Metrics) *MetricsCollector {
	return &MetricsCollector{
		requestCount: requestCount,
		errorCount:   errorCount,
		prom:         prom,
	}
}

// Middleware returns middleware that counts requests and errors.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.requestCount.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		// 4xx and 5xx
		if rw.statusCode >= 400 {
			mc.errorCount.Add(1)
		}
		mc.prom.HTTPRequest(r.Method, rw.statusCode)
	})
}
