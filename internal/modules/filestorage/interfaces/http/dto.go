package http

import (
	"time"

	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/domain"
)

// UploadResponse is returned by POST /upload
type UploadResponse struct {
	Message     string `json:"message"`
	Filename    string `json:"filename"`
	S3Path      string `json:"s3_path"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// FileEntry is one object in the listing
type FileEntry struct {
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified"`
	ETag         string `json:"etag"`
}

type ListResponse struct {
	Files []FileEntry `json:"files"`
	Count int         `json:"count"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	S3Connection string `json:"s3_connection,omitempty"`
	Error        string `json:"error,omitempty"`
	Bucket       string `json:"bucket"`
}

const uploadSuccessMessage = "File uploaded successfully!"

// ToUploadResponse maps the domain result to its JSON form
func ToUploadResponse(obj *domain.UploadedObject) UploadResponse {
	return UploadResponse{
		Message:     uploadSuccessMessage,
		Filename:    obj.Filename,
		S3Path:      obj.Key,
		Size:        obj.Size,
		ContentType: obj.ContentType,
		Width:       obj.Width,
		Height:      obj.Height,
	}
}

// ToListResponse converts listing entries; timestamps are RFC 3339 in UTC
func ToListResponse(entries []domain.FileListingEntry) ListResponse {
	files := make([]FileEntry, 0, len(entries))
	for _, e := range entries {
		files = append(files, FileEntry{
			Key:          e.Key,
			Size:         e.Size,
			LastModified: e.LastModified.UTC().Format(time.RFC3339),
			ETag:         e.ETag,
		})
	}
	return ListResponse{
		Files: files,
		Count: len(files),
	}
}
