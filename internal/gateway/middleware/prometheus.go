package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/metrics"
)

// PrometheusMiddleware records request counts, latency and in-flight requests.
// It must sit directly in front of the ServeMux so r.Pattern is populated after
// routing; unmatched requests are labelled "unmatched".
func PrometheusMiddleware(next http.Handler, m *metrics.Metrics) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.HTTPInflight.Inc()
		defer m.HTTPInflight.Dec()

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
