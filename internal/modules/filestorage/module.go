package filestorage

import (
	"context"
	"fmt"

	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/application"
	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/domain"
	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/infrastructure/instrumented"
	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/infrastructure/local"
	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/infrastructure/s3"
	filestorageHTTP "github.com/saransh1220/s3-uploader/internal/modules/filestorage/interfaces/http"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/config"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/logger"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/metrics"
	"github.com/sirupsen/logrus"
)

// Module represents the FileStorage module
type Module struct {
	service *application.FileService
	storage domain.ObjectStorage
	handler *filestorageHTTP.FileHandler
}

// NewModule creates and initializes the FileStorage module.
// m may be nil, in which case storage calls are not instrumented.
func NewModule(ctx context.Context, cfg config.FileStorageConfig, maxUploadBytes int64, m *metrics.Metrics) (*Module, error) {
	storage, err := NewStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	storage = instrumented.New(storage, m)

	service := application.NewFileService(storage)
	// the local backend has nothing to provision, so its bucket directory always exists
	if cfg.CreateBucket || !cfg.UseS3 {
		if err := service.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure bucket %q: %w", storage.Bucket(), err)
		}
		logger.FromContext(ctx).WithField("bucket", storage.Bucket()).Info("Bucket ready")
	}

	return &Module{
		service: service,
		storage: storage,
		handler: filestorageHTTP.NewFileHandler(service, maxUploadBytes),
	}, nil
}

// NewStorage builds the configured backend: S3 when UseS3 is set, the local filesystem otherwise
func NewStorage(ctx context.Context, cfg config.FileStorageConfig) (domain.ObjectStorage, error) {
	if cfg.UseS3 {
		storage, err := s3.NewS3Storage(ctx, s3.S3Config{
			BucketName:  cfg.S3BucketName,
			Region:      cfg.S3Region,
			Endpoint:    cfg.S3Endpoint,
			AccessKey:   cfg.S3AccessKey,
			SecretKey:   cfg.S3SecretKey,
			UseSSL:      cfg.S3UseSSL,
			MaxAttempts: cfg.S3MaxAttempts,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		logger.FromContext(ctx).WithFields(logrus.Fields{
			"bucket":   cfg.S3BucketName,
			"endpoint": cfg.S3Endpoint,
			"region":   cfg.S3Region,
		}).Debug("Using S3 storage")
		return storage, nil
	}

	storage, err := local.NewLocalStorage(cfg.LocalPath, cfg.S3BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}
	logger.FromContext(ctx).WithField("path", cfg.LocalPath).Debug("Using local storage")
	return storage, nil
}

// Service returns the file service for use by other modules
func (m *Module) Service() *application.FileService {
	return m.service
}

// Handler returns the HTTP handler for the module's routes
func (m *Module) Handler() *filestorageHTTP.FileHandler {
	return m.handler
}
