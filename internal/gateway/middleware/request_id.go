package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/logger"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with an id (taken from the incoming
// header when present), stores a request scoped log entry in the context and
// writes one access log line per request.
func RequestIDMiddleware(next http.Handler, log *logrus.Logger) http.Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		entry := log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
		})

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r.WithContext(logger.WithContext(r.Context(), entry)))

		entry.WithFields(logrus.Fields{
			"status":      rw.status,
			"bytes":       rw.bytes,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Request completed")
	})
}
