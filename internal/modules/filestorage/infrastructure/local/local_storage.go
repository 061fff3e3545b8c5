package local

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/domain"
)

// LocalStorage implements domain.ObjectStorage on the local filesystem.
// Objects live under <basePath>/<bucket>/<key>; content type and ETag are kept
// in a sidecar file under <basePath>/.meta/<bucket>/<key>.json.
type LocalStorage struct {
	basePath string
	bucket   string
}

// tempPrefix marks in-flight uploads; ListObjects skips them
const tempPrefix = ".upload-"

type sidecar struct {
	ContentType string            `json:"content_type"`
	ETag        string            `json:"etag"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewLocalStorage creates a new local filesystem storage
func NewLocalStorage(basePath, bucket string) (*LocalStorage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
		bucket:   bucket,
	}, nil
}

// Bucket returns the configured bucket name
func (l *LocalStorage) Bucket() string {
	return l.bucket
}

func (l *LocalStorage) root() string {
	return filepath.Join(l.basePath, l.bucket)
}

func (l *LocalStorage) metaRoot() string {
	return filepath.Join(l.basePath, ".meta", l.bucket)
}

// resolve maps a key to a path below root, rejecting keys that escape it
func resolve(root, key string) (string, error) {
	full := filepath.Join(root, filepath.FromSlash(key))
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return full, nil
}

// PutObject writes the object and its sidecar
func (l *LocalStorage) PutObject(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string, metadata map[string]string) error {
	if _, err := os.Stat(l.root()); err != nil {
		return fmt.Errorf("bucket %q: %w", l.bucket, err)
	}
	fullPath, err := resolve(l.root(), key)
	if err != nil {
		return err
	}
	metaPath, err := resolve(l.metaRoot(), key+".json")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// write to a temp file in the same directory so a failed copy never leaves a partial object
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to create file: %w", err)
	}

	hash := md5.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hash), body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("failed to store file: %w", err)
	}

	meta, err := json.Marshal(sidecar{
		ContentType: contentType,
		ETag:        hex.EncodeToString(hash.Sum(nil)),
		Metadata:    metadata,
	})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(metaPath), 0o755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}
	if err := os.WriteFile(metaPath, meta, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// ListObjects walks the bucket directory and returns entries sorted by key
func (l *LocalStorage) ListObjects(ctx context.Context, prefix string) ([]domain.FileListingEntry, error) {
	root := l.root()
	entries := []domain.FileListingEntry{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		meta := l.readSidecar(key)
		entries = append(entries, domain.FileListingEntry{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime().UTC(),
			ETag:         meta.ETag,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", root, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// GetObject opens the object file for streaming
func (l *LocalStorage) GetObject(ctx context.Context, key string) (*domain.StoredObject, error) {
	fullPath, err := resolve(l.root(), key)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", key, domain.ErrNotFound)
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%q: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open %q: %w", key, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", key, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%q: %w", key, domain.ErrNotFound)
	}

	contentType := l.readSidecar(key).ContentType
	if contentType == "" {
		contentType = domain.ContentTypeFor(key)
	}

	return &domain.StoredObject{
		Key:         key,
		ContentType: contentType,
		Size:        info.Size(),
		Body:        f,
	}, nil
}

// HeadBucket checks the bucket directory exists
func (l *LocalStorage) HeadBucket(ctx context.Context) error {
	info, err := os.Stat(l.root())
	if err != nil {
		return fmt.Errorf("head bucket %q: %w", l.bucket, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("head bucket %q: not a directory", l.bucket)
	}
	return nil
}

// EnsureBucket creates the bucket directory
func (l *LocalStorage) EnsureBucket(ctx context.Context) error {
	if err := os.MkdirAll(l.root(), 0o755); err != nil {
		return fmt.Errorf("create bucket %q: %w", l.bucket, err)
	}
	return nil
}

func (l *LocalStorage) readSidecar(key string) sidecar {
	var meta sidecar
	metaPath, err := resolve(l.metaRoot(), key+".json")
	if err != nil {
		return meta
	}
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return meta
	}
	_ = json.Unmarshal(data, &meta)
	return meta
}
