package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	cfg "github.com/templui/userfiles/internal/config"
	"github.com/templui/userfiles/internal/model"
)

var ErrObjectNotFound = errors.New("object not found")

// Storage is the blob gateway: it issues upload targets, resolves
// retrieval URLs and deletes stored objects.
type Storage interface {
	// UploadTarget mints a single-use destination for the client to send bytes to
	UploadTarget(ctx context.Context) (*model.UploadTarget, error)

	// URL returns a time-bounded retrieval URL, or ErrObjectNotFound if nothing is stored under the handle
	URL(ctx context.Context, storageID string) (string, error)

	// Delete removes the object stored under the handle
	Delete(ctx context.Context, storageID string) error
}

type objectAPI interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Storage implements Storage for S3-compatible storage
// Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.
type S3Storage struct {
	client         objectAPI
	presignClient  presignAPI
	bucket         string
	uploadExpiry   time.Duration
	downloadExpiry time.Duration
	now            func() time.Time
}

var _ Storage = (*S3Storage)(nil)

// S3Config holds configuration for S3 storage
type S3Config struct {
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	Endpoint       string // Optional: for S3-compatible services
	UploadExpiry   time.Duration
	DownloadExpiry time.Duration
}

// New creates an S3-compatible storage instance from app config
func New(c *cfg.Config) (*S3Storage, error) {
	slog.Info("initializing S3 storage",
		"bucket", c.S3Bucket,
		"region", c.S3Region,
		"endpoint", c.S3Endpoint,
	)
	return NewS3Storage(S3Config{
		Region:         c.S3Region,
		Bucket:         c.S3Bucket,
		AccessKey:      c.S3AccessKey,
		SecretKey:      c.S3SecretKey,
		Endpoint:       c.S3Endpoint,
		UploadExpiry:   c.S3UploadExpiry,
		DownloadExpiry: c.S3DownloadExpiry,
	})
}

// NewS3Storage creates a new S3 storage instance and makes sure the bucket exists
func NewS3Storage(c S3Config) (*S3Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(c.Region))

	// Add static credentials if provided
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if c.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true // Required for MinIO and some S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	storage := newS3Storage(client, s3.NewPresignClient(client), c)

	if err := storage.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return storage, nil
}

func newS3Storage(client objectAPI, presignClient presignAPI, c S3Config) *S3Storage {
	uploadExpiry := c.UploadExpiry
	if uploadExpiry <= 0 {
		uploadExpiry = 15 * time.Minute
	}
	downloadExpiry := c.DownloadExpiry
	if downloadExpiry <= 0 {
		downloadExpiry = time.Hour
	}

	return &S3Storage{
		client:         client,
		presignClient:  presignClient,
		bucket:         c.Bucket,
		uploadExpiry:   uploadExpiry,
		downloadExpiry: downloadExpiry,
		now:            time.Now,
	}
}

// ensureBucket checks if bucket exists, creates it if not
func (s *S3Storage) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

// UploadTarget presigns a PUT for a freshly minted storage handle
func (s *S3Storage) UploadTarget(ctx context.Context) (*model.UploadTarget, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storageID := NewStorageID()

	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageID),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.uploadExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	headers := map[string]string{}
	for name, values := range req.SignedHeader {
		// Host is set by the browser itself
		if http.CanonicalHeaderKey(name) == "Host" || len(values) == 0 {
			continue
		}
		headers[name] = values[0]
	}

	return &model.UploadTarget{
		URL:       req.URL,
		Method:    req.Method,
		Headers:   headers,
		StorageID: storageID,
		ExpiresAt: s.now().Add(s.uploadExpiry),
	}, nil
}

// URL presigns a GET for an existing object
func (s *S3Storage) URL(ctx context.Context, storageID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageID),
	})
	if err != nil {
		if isNotFound(err) {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("failed to stat object: %w", err)
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageID),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.downloadExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}

	return req.URL, nil
}

// Delete removes an object from S3. Deleting a missing key succeeds.
func (s *S3Storage) Delete(ctx context.Context, storageID string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
