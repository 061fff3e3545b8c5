package gateway

import (
	"net/http"

	"github.com/saransh1220/s3-uploader/internal/gateway/middleware"
	filestorage_http "github.com/saransh1220/s3-uploader/internal/modules/filestorage/interfaces/http"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/config"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/metrics"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RouterConfig holds all the handlers and middleware needed for routing
type RouterConfig struct {
	FileHandler *filestorage_http.FileHandler
	Metrics     *metrics.Metrics
	Logger      *logrus.Logger
	Server      config.ServerConfig
	ServiceName string
}

// SetupRoutes creates and configures all application routes
func SetupRoutes(config RouterConfig) *Router {
	router := NewRouter()
	files := config.FileHandler
	uploadLimiter := middleware.NewUploadLimiter(config.Server.UploadRateLimit, config.Server.UploadRateBurst)

	// Upload page
	router.HandleFunc("GET /{$}", files.Index)

	// Upload Routes
	router.Handle("POST /upload", middleware.RateLimitMiddleware(http.HandlerFunc(files.Upload), uploadLimiter, nil))
	router.Handle("POST /upload-web", middleware.RateLimitMiddleware(http.HandlerFunc(files.UploadWeb), uploadLimiter, files.UploadWebRateLimited))

	// File Routes
	router.HandleFunc("GET /files", files.List)
	router.HandleFunc("GET /download/{key...}", files.Download)

	// Health Check
	router.HandleFunc("GET /health", files.Health)

	// Prometheus Metrics Endpoint
	if config.Metrics != nil {
		router.Handle("GET /metrics", config.Metrics.Handler())
	}

	serviceName := config.ServiceName
	if serviceName == "" {
		serviceName = "s3-uploader"
	}
	router.Use(
		func(next http.Handler) http.Handler { return otelhttp.NewHandler(next, serviceName) },
		func(next http.Handler) http.Handler { return middleware.RequestIDMiddleware(next, config.Logger) },
		func(next http.Handler) http.Handler {
			return middleware.CORSMiddleware(next, config.Server.AllowedOrigins)
		},
		func(next http.Handler) http.Handler {
			return middleware.TimeoutMiddleware(next, config.Server.RequestTimeout)
		},
		func(next http.Handler) http.Handler { return middleware.PrometheusMiddleware(next, config.Metrics) },
	)

	return router
}
