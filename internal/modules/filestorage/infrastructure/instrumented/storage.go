package instrumented

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/domain"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/metrics"
)

// Storage decorates a domain.ObjectStorage with Prometheus counters and latency histograms
type Storage struct {
	next    domain.ObjectStorage
	metrics *metrics.Metrics
}

// New wraps next; a nil metrics returns next unchanged
func New(next domain.ObjectStorage, m *metrics.Metrics) domain.ObjectStorage {
	if m == nil {
		return next
	}
	return &Storage{next: next, metrics: m}
}

func (s *Storage) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	s.metrics.StorageOps.WithLabelValues(op, result).Inc()
	s.metrics.StorageDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *Storage) Bucket() string { return s.next.Bucket() }

func (s *Storage) PutObject(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string, metadata map[string]string) (err error) {
	defer func(start time.Time) {
		s.observe("put", start, err)
		if err == nil {
			s.metrics.UploadedBytes.Add(float64(size))
		}
	}(time.Now())
	return s.next.PutObject(ctx, key, body, size, contentType, metadata)
}

func (s *Storage) ListObjects(ctx context.Context, prefix string) (entries []domain.FileListingEntry, err error) {
	defer func(start time.Time) { s.observe("list", start, err) }(time.Now())
	return s.next.ListObjects(ctx, prefix)
}

func (s *Storage) GetObject(ctx context.Context, key string) (obj *domain.StoredObject, err error) {
	defer func(start time.Time) { s.observe("get", start, err) }(time.Now())
	return s.next.GetObject(ctx, key)
}

func (s *Storage) HeadBucket(ctx context.Context) (err error) {
	defer func(start time.Time) { s.observe("head_bucket", start, err) }(time.Now())
	return s.next.HeadBucket(ctx)
}

func (s *Storage) EnsureBucket(ctx context.Context) (err error) {
	defer func(start time.Time) { s.observe("ensure_bucket", start, err) }(time.Now())
	return s.next.EnsureBucket(ctx)
}
