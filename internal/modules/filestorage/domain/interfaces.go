package domain

import (
	"context"
	"io"
)

// ObjectStorage defines the operations the service needs from an object store.
// Implemented by S3 (AWS, LocalStack, MinIO) and the local filesystem.
type ObjectStorage interface {
	// PutObject stores body under key. size is the content length in bytes.
	PutObject(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string, metadata map[string]string) error

	// ListObjects returns every object whose key starts with prefix ("" lists the whole bucket)
	ListObjects(ctx context.Context, prefix string) ([]FileListingEntry, error)

	// GetObject opens an object for reading. Returns an error wrapping ErrNotFound when the key does not exist.
	GetObject(ctx context.Context, key string) (*StoredObject, error)

	// HeadBucket is a lightweight reachability probe on the configured bucket
	HeadBucket(ctx context.Context) error

	// EnsureBucket creates the configured bucket when it does not exist yet
	EnsureBucket(ctx context.Context) error

	// Bucket returns the configured bucket name
	Bucket() string
}
