package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/domain"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/logger"
	"github.com/sirupsen/logrus"
)

// FileService maps upload, list, download and health requests onto the object store
type FileService struct {
	storage domain.ObjectStorage
}

// NewFileService creates a new file service
func NewFileService(storage domain.ObjectStorage) *FileService {
	return &FileService{
		storage: storage,
	}
}

// Bucket returns the bucket the service writes to
func (s *FileService) Bucket() string {
	return s.storage.Bucket()
}

// Upload sanitizes filename, derives the content type and stores content under images/.
// Errors wrap domain.ErrValidation or domain.ErrBackend.
func (s *FileService) Upload(ctx context.Context, filename string, content io.Reader) (*domain.UploadedObject, error) {
	if filename == "" {
		return nil, domain.ErrEmptyFilename
	}
	name := domain.SanitizeFilename(filename)
	if name == "" {
		return nil, domain.ErrInvalidFilename
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", filename, err)
	}

	obj := &domain.UploadedObject{
		Filename:    name,
		Key:         domain.ObjectKey(name),
		ContentType: domain.ContentTypeFor(name),
		Size:        int64(len(data)),
	}
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"key":          obj.Key,
		"size":         obj.Size,
		"content_type": obj.ContentType,
	})

	var metadata map[string]string
	if domain.IsImage(obj.ContentType) {
		if w, h, err := imageDimensions(data); err != nil {
			log.WithField("err", err).Debug("Could not decode image dimensions")
		} else {
			obj.Width, obj.Height = w, h
			metadata = map[string]string{
				"width":  strconv.Itoa(w),
				"height": strconv.Itoa(h),
			}
		}
	}

	if err := s.storage.PutObject(ctx, obj.Key, bytes.NewReader(data), obj.Size, obj.ContentType, metadata); err != nil {
		log.WithField("err", err).Error("Upload to object storage failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}

	log.WithField("bucket", s.storage.Bucket()).Info("File uploaded")
	return obj, nil
}

// List returns every object in the bucket. Backend failures are logged and yield an empty listing.
func (s *FileService) List(ctx context.Context) []domain.FileListingEntry {
	entries, err := s.storage.ListObjects(ctx, "")
	if err != nil {
		logger.FromContext(ctx).WithFields(logrus.Fields{
			"bucket": s.storage.Bucket(),
			"err":    err,
		}).Error("Listing objects failed")
		return []domain.FileListingEntry{}
	}
	if entries == nil {
		entries = []domain.FileListingEntry{}
	}
	return entries
}

// Fetch opens images/<name> for streaming. The error wraps domain.ErrNotFound
// when the object does not exist and domain.ErrBackend otherwise.
func (s *FileService) Fetch(ctx context.Context, name string) (*domain.StoredObject, error) {
	key := domain.ObjectKey(name)
	obj, err := s.storage.GetObject(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		logger.FromContext(ctx).WithFields(logrus.Fields{
			"key": key,
			"err": err,
		}).Error("Fetching object failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	if obj.ContentType == "" {
		obj.ContentType = domain.DefaultContentType
	}
	return obj, nil
}

// Health probes the bucket
func (s *FileService) Health(ctx context.Context) error {
	if err := s.storage.HeadBucket(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	return nil
}

// EnsureBucket creates the bucket when missing
func (s *FileService) EnsureBucket(ctx context.Context) error {
	if err := s.storage.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	return nil
}
