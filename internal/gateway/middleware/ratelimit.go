package middleware

import (
	"net/http"

	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/logger"
	"github.com/saransh1220/s3-uploader/internal/shared/utils"
	"golang.org/x/time/rate"
)

// NewUploadLimiter returns a process wide token bucket, or nil when perSecond is not positive
func NewUploadLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// RateLimitMiddleware rejects requests with 429 once the limiter is exhausted.
// A nil limiter disables it; a nil reject answers with the JSON error body.
func RateLimitMiddleware(next http.Handler, limiter *rate.Limiter, reject http.HandlerFunc) http.Handler {
	if limiter == nil {
		return next
	}
	if reject == nil {
		reject = func(w http.ResponseWriter, r *http.Request) {
			utils.WriteError(w, http.StatusTooManyRequests, "Too many uploads, slow down", nil)
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			logger.FromContext(r.Context()).Warn("Upload rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			reject(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
