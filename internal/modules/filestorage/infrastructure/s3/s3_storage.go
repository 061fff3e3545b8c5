package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/domain"
)

// S3Config holds configuration for S3 / LocalStack / MinIO storage
type S3Config struct {
	BucketName  string
	Region      string
	Endpoint    string // Custom endpoint (e.g., http://localhost:4566); empty means AWS
	AccessKey   string
	SecretKey   string
	UseSSL      bool
	MaxAttempts int // SDK attempts per call, 1 disables retries
}

// S3Storage implements domain.ObjectStorage on top of aws-sdk-go-v2
type S3Storage struct {
	client *s3.Client
	config S3Config
}

// NewS3Storage creates a new S3 storage implementation
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(cfg.Endpoint, cfg.UseSSL))
			o.UsePathStyle = true // Required for MinIO / LocalStack
		}
		if cfg.MaxAttempts > 0 {
			o.RetryMaxAttempts = cfg.MaxAttempts
		}
		// S3-compatible stores do not all understand the default flexible checksums
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &S3Storage{
		client: client,
		config: cfg,
	}, nil
}

// Bucket returns the configured bucket name
func (s *S3Storage) Bucket() string {
	return s.config.BucketName
}

// PutObject uploads body under key
func (s *S3Storage) PutObject(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string, metadata map[string]string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.BucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}
	if len(metadata) > 0 {
		input.Metadata = metadata
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %q to s3: %w", key, err)
	}
	return nil
}

// ListObjects lists every object under prefix, following continuation tokens
func (s *S3Storage) ListObjects(ctx context.Context, prefix string) ([]domain.FileListingEntry, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.config.BucketName),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	entries := []domain.FileListingEntry{}
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list s3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			entries = append(entries, domain.FileListingEntry{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
				ETag:         strings.Trim(aws.ToString(obj.ETag), `"`),
			})
		}
	}
	return entries, nil
}

// GetObject opens an object for streaming
func (s *S3Storage) GetObject(ctx context.Context, key string) (*domain.StoredObject, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%q: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %q from s3: %w", key, err)
	}

	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}

	return &domain.StoredObject{
		Key:         key,
		ContentType: aws.ToString(out.ContentType),
		Size:        size,
		Body:        out.Body,
	}, nil
}

// HeadBucket checks that the bucket exists and is reachable with the configured credentials
func (s *S3Storage) HeadBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.config.BucketName),
	})
	if err != nil {
		return fmt.Errorf("head bucket %q: %w", s.config.BucketName, err)
	}
	return nil
}

// EnsureBucket creates the bucket when HeadBucket reports it missing
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	err := s.HeadBucket(ctx)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return err
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(s.config.BucketName),
	}
	// us-east-1 rejects an explicit location constraint
	if s.config.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.config.Region),
		}
	}

	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return fmt.Errorf("create bucket %q: %w", s.config.BucketName, err)
	}
	return nil
}

// isNotFound reports whether err is S3's way of saying the key or bucket does not exist
func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		case "NoSuchBucket":
			return false
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() == http.StatusNotFound
	}
	return false
}

// endpointURL adds a scheme to bare host:port endpoints
func endpointURL(endpoint string, useSSL bool) string {
	if hasHTTPPrefix(endpoint) {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

// hasHTTPPrefix checks if a string has http:// or https:// prefix
func hasHTTPPrefix(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
