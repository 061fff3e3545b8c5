package domain

import (
	"io"
	"time"
)

// KeyPrefix is the folder every uploaded object is stored under
const KeyPrefix = "images/"

// UploadedObject describes a file that was accepted and handed to the backend.
// The raw bytes are not retained once the upload finishes.
type UploadedObject struct {
	Filename    string
	Key         string
	ContentType string
	Size        int64
	Width       int
	Height      int
}

// FileListingEntry is a read-only projection of an object stored in the bucket
type FileListingEntry struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
}

// StoredObject is the result of fetching an object. Body must be closed by the caller.
type StoredObject struct {
	Key         string
	ContentType string
	Size        int64 // -1 when the backend did not report a length
	Body        io.ReadCloser
}

// ObjectKey builds the storage key for a sanitized filename
func ObjectKey(filename string) string {
	return KeyPrefix + filename
}
