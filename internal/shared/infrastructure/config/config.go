package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	FileStorage FileStorageConfig
	Log         LogConfig
	Tracing     TracingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	AllowedOrigins  string
	MaxUploadBytes  int64
	RequestTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	UploadRateLimit float64 // uploads per second, 0 disables limiting
	UploadRateBurst int
	Gops            bool
}

// FileStorageConfig holds file storage configuration
type FileStorageConfig struct {
	UseS3         bool
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3BucketName  string
	S3UseSSL      bool
	S3MaxAttempts int
	CreateBucket  bool
	LocalPath     string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	SampleRatio float64
	ServiceName string
}

// binding ties a config key to its default and the environment variable that overrides it
type binding struct {
	key  string
	env  string
	dflt any
}

var bindings = []binding{
	{"server.port", "PORT", "8080"},
	{"server.allowed_origins", "ALLOWED_ORIGINS", "*"},
	{"server.max_upload_bytes", "MAX_UPLOAD_BYTES", int64(16 << 20)},
	{"server.request_timeout", "REQUEST_TIMEOUT", "30s"},
	{"server.read_timeout", "READ_TIMEOUT", "60s"},
	{"server.write_timeout", "WRITE_TIMEOUT", "60s"},
	{"server.idle_timeout", "IDLE_TIMEOUT", "120s"},
	{"server.upload_rate_limit", "UPLOAD_RATE_LIMIT", 0.0},
	{"server.upload_rate_burst", "UPLOAD_RATE_BURST", 10},
	{"server.gops", "GOPS_AGENT", false},

	{"storage.use_s3", "USE_S3", true},
	{"storage.s3_region", "S3_REGION", "us-east-1"},
	{"storage.s3_endpoint", "S3_ENDPOINT", "http://localhost:4566"},
	{"storage.s3_access_key", "S3_ACCESS_KEY", "tester"},
	{"storage.s3_secret_key", "S3_SECRET_KEY", "test"},
	{"storage.s3_bucket", "S3_BUCKET", "my-new-bucket"},
	{"storage.s3_use_ssl", "S3_USE_SSL", false},
	{"storage.s3_max_attempts", "S3_MAX_ATTEMPTS", 1},
	{"storage.create_bucket", "S3_CREATE_BUCKET", false},
	{"storage.local_path", "LOCAL_STORAGE_PATH", "./uploads"},

	{"log.level", "LOG_LEVEL", "info"},
	{"log.format", "LOG_FORMAT", "text"},

	{"tracing.enabled", "OTEL_TRACING_ENABLED", false},
	{"tracing.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT", ""},
	{"tracing.sample_ratio", "OTEL_SAMPLE_RATIO", 1.0},
	{"tracing.service_name", "OTEL_SERVICE_NAME", "s3-uploader"},
}

// NewViper returns a viper instance with every default and environment binding registered.
// Callers may add a config file or flag bindings before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	for _, b := range bindings {
		v.SetDefault(b.key, b.dflt)
		_ = v.BindEnv(b.key, b.env)
	}
	return v
}

// Load reads configuration from v. Precedence: flags, environment, config file, defaults.
func Load(v *viper.Viper) Config {
	return Config{
		Server: ServerConfig{
			Port:            v.GetString("server.port"),
			AllowedOrigins:  v.GetString("server.allowed_origins"),
			MaxUploadBytes:  v.GetInt64("server.max_upload_bytes"),
			RequestTimeout:  parseDuration(v.GetString("server.request_timeout"), 30*time.Second),
			ReadTimeout:     parseDuration(v.GetString("server.read_timeout"), 60*time.Second),
			WriteTimeout:    parseDuration(v.GetString("server.write_timeout"), 60*time.Second),
			IdleTimeout:     parseDuration(v.GetString("server.idle_timeout"), 120*time.Second),
			UploadRateLimit: v.GetFloat64("server.upload_rate_limit"),
			UploadRateBurst: v.GetInt("server.upload_rate_burst"),
			Gops:            v.GetBool("server.gops"),
		},
		FileStorage: FileStorageConfig{
			UseS3:         v.GetBool("storage.use_s3"),
			S3Region:      v.GetString("storage.s3_region"),
			S3Endpoint:    v.GetString("storage.s3_endpoint"),
			S3AccessKey:   v.GetString("storage.s3_access_key"),
			S3SecretKey:   v.GetString("storage.s3_secret_key"),
			S3BucketName:  v.GetString("storage.s3_bucket"),
			S3UseSSL:      v.GetBool("storage.s3_use_ssl"),
			S3MaxAttempts: v.GetInt("storage.s3_max_attempts"),
			CreateBucket:  v.GetBool("storage.create_bucket"),
			LocalPath:     v.GetString("storage.local_path"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Tracing: TracingConfig{
			Enabled:     v.GetBool("tracing.enabled"),
			Endpoint:    v.GetString("tracing.endpoint"),
			SampleRatio: v.GetFloat64("tracing.sample_ratio"),
			ServiceName: v.GetString("tracing.service_name"),
		},
	}
}

// parseDuration parses a duration string or returns a default value
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
