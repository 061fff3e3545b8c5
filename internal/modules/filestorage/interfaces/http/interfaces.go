package http

import (
	"context"
	"io"

	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/domain"
)

// FileService defines the operations the handler needs from the application layer
type FileService interface {
	Upload(ctx context.Context, filename string, content io.Reader) (*domain.UploadedObject, error)
	List(ctx context.Context) []domain.FileListingEntry
	Fetch(ctx context.Context, name string) (*domain.StoredObject, error)
	Health(ctx context.Context) error
	Bucket() string
}
