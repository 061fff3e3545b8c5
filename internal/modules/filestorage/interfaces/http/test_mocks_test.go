package http_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"

	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFileService struct{ mock.Mock }

func (m *mockFileService) Upload(ctx context.Context, filename string, content io.Reader) (*domain.UploadedObject, error) {
	data, _ := io.ReadAll(content)
	args := m.Called(ctx, filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadedObject), args.Error(1)
}

func (m *mockFileService) List(ctx context.Context) []domain.FileListingEntry {
	args := m.Called(ctx)
	return args.Get(0).([]domain.FileListingEntry)
}

func (m *mockFileService) Fetch(ctx context.Context, name string) (*domain.StoredObject, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredObject), args.Error(1)
}

func (m *mockFileService) Health(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockFileService) Bucket() string { return "my-new-bucket" }

// multipartBody builds a form with a single file part
func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
