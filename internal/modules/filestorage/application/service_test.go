package application_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/application"
	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStorage struct{ mock.Mock }

func (m *mockStorage) PutObject(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string, metadata map[string]string) error {
	data, _ := io.ReadAll(body)
	args := m.Called(ctx, key, data, size, contentType, metadata)
	return args.Error(0)
}

func (m *mockStorage) ListObjects(ctx context.Context, prefix string) ([]domain.FileListingEntry, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileListingEntry), args.Error(1)
}

func (m *mockStorage) GetObject(ctx context.Context, key string) (*domain.StoredObject, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredObject), args.Error(1)
}

func (m *mockStorage) HeadBucket(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStorage) EnsureBucket(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStorage) Bucket() string { return "my-new-bucket" }

func TestFileService_UploadSuccess(t *testing.T) {
	st := new(mockStorage)
	svc := application.NewFileService(st)

	st.On("PutObject", mock.Anything, "images/report.pdf", []byte("%PDF"), int64(4), "application/pdf", map[string]string(nil)).
		Return(nil).Once()

	obj, err := svc.Upload(context.Background(), "report.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", obj.Filename)
	assert.Equal(t, "images/report.pdf", obj.Key)
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.Equal(t, int64(4), obj.Size)
	st.AssertExpectations(t)
}

func TestFileService_UploadSanitizesAndFallsBackToBinary(t *testing.T) {
	st := new(mockStorage)
	svc := application.NewFileService(st)

	st.On("PutObject", mock.Anything, "images/etc_passwd", []byte("root"), int64(4), domain.DefaultContentType, map[string]string(nil)).
		Return(nil).Once()

	obj, err := svc.Upload(context.Background(), "../../etc/passwd", strings.NewReader("root"))
	require.NoError(t, err)
	assert.Equal(t, "etc_passwd", obj.Filename)
	assert.Equal(t, domain.DefaultContentType, obj.ContentType)
	st.AssertExpectations(t)
}

func TestFileService_UploadValidationNeverTouchesBackend(t *testing.T) {
	st := new(mockStorage)
	svc := application.NewFileService(st)

	_, err := svc.Upload(context.Background(), "", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrEmptyFilename)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Upload(context.Background(), "../..", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidFilename)
	assert.ErrorIs(t, err, domain.ErrValidation)

	st.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFileService_UploadBackendErrorIsTyped(t *testing.T) {
	st := new(mockStorage)
	svc := application.NewFileService(st)

	boom := errors.New("connection refused")
	st.On("PutObject", mock.Anything, "images/a.txt", mock.Anything, mock.Anything, "text/plain", mock.Anything).Return(boom).Once()

	obj, err := svc.Upload(context.Background(), "a.txt", strings.NewReader("hi"))
	assert.Nil(t, obj)
	assert.ErrorIs(t, err, domain.ErrBackend)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, domain.ErrValidation))
}

func TestFileService_UploadImageRecordsDimensions(t *testing.T) {
	st := new(mockStorage)
	svc := application.NewFileService(st)

	img := image.NewRGBA(image.Rect(0, 0, 7, 3))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	st.On("PutObject", mock.Anything, "images/pixel.png", buf.Bytes(), int64(buf.Len()), "image/png",
		map[string]string{"width": "7", "height": "3"}).Return(nil).Once()

	obj, err := svc.Upload(context.Background(), "pixel.png", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 7, obj.Width)
	assert.Equal(t, 3, obj.Height)
	st.AssertExpectations(t)
}

func TestFileService_UploadUndecodableImageStillUploads(t *testing.T) {
	st := new(mockStorage)
	svc := application.NewFileService(st)

	st.On("PutObject", mock.Anything, "images/fake.jpg", []byte("not a jpeg"), int64(10), "image/jpeg", map[string]string(nil)).
		Return(nil).Once()

	obj, err := svc.Upload(context.Background(), "fake.jpg", strings.NewReader("not a jpeg"))
	require.NoError(t, err)
	assert.Zero(t, obj.Width)
	st.AssertExpectations(t)
}

func TestFileService_List(t *testing.T) {
	st := new(mockStorage)
	svc := application.NewFileService(st)
	ctx := context.Background()

	st.On("ListObjects", mock.Anything, "").Return(nil, nil).Once()
	entries := svc.List(ctx)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	st.On("ListObjects", mock.Anything, "").Return(nil, errors.New("denied")).Once()
	entries = svc.List(ctx)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	want := []domain.FileListingEntry{{Key: "images/a.txt", Size: 1, ETag: "abc"}}
	st.On("ListObjects", mock.Anything, "").Return(want, nil).Once()
	assert.Equal(t, want, svc.List(ctx))
}

func TestFileService_Fetch(t *testing.T) {
	st := new(mockStorage)
	svc := application.NewFileService(st)
	ctx := context.Background()

	st.On("GetObject", mock.Anything, "images/a.txt").
		Return(&domain.StoredObject{Key: "images/a.txt", Size: 2, Body: io.NopCloser(strings.NewReader("hi"))}, nil).Once()
	obj, err := svc.Fetch(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultContentType, obj.ContentType)

	st.On("GetObject", mock.Anything, "images/missing.txt").Return(nil, domain.ErrNotFound).Once()
	_, err = svc.Fetch(ctx, "missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, errors.Is(err, domain.ErrBackend))

	st.On("GetObject", mock.Anything, "images/broken.txt").Return(nil, errors.New("timeout")).Once()
	_, err = svc.Fetch(ctx, "broken.txt")
	assert.ErrorIs(t, err, domain.ErrBackend)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestFileService_HealthAndEnsureBucket(t *testing.T) {
	st := new(mockStorage)
	svc := application.NewFileService(st)
	ctx := context.Background()

	assert.Equal(t, "my-new-bucket", svc.Bucket())

	st.On("HeadBucket", mock.Anything).Return(nil).Once()
	require.NoError(t, svc.Health(ctx))

	st.On("HeadBucket", mock.Anything).Return(errors.New("unreachable")).Once()
	assert.ErrorIs(t, svc.Health(ctx), domain.ErrBackend)

	st.On("EnsureBucket", mock.Anything).Return(nil).Once()
	require.NoError(t, svc.EnsureBucket(ctx))

	st.On("EnsureBucket", mock.Anything).Return(errors.New("denied")).Once()
	assert.ErrorIs(t, svc.EnsureBucket(ctx), domain.ErrBackend)
}
