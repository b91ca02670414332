// Package s3store implements an AWS S3 storage backend.
package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/discochess/squash/internal/store"
)

// Scheme is the URI scheme handled by this store.
const Scheme = "s3"

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// API is the subset of the S3 client used by Store.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store is an AWS S3 storage backend addressing objects as "s3://bucket/key".
type Store struct {
	client  API
	tempDir string
}

// New creates a new S3 store from the default AWS configuration.
func New(ctx context.Context, opts ...Option) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	s := &Store{client: s3.NewFromConfig(cfg)}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewWithClient creates a store on an existing client.
func NewWithClient(client API, opts ...Option) (*Store, error) {
	s := &Store{client: client}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Option configures a Store.
type Option func(*Store) error

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(s *Store) error {
		cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
		if err != nil {
			return fmt.Errorf("loading AWS config with region: %w", err)
		}
		s.client = s3.NewFromConfig(cfg)
		return nil
	}
}

// WithEndpoint sets a custom endpoint (for S3-compatible services like MinIO).
func WithEndpoint(endpoint string) Option {
	return func(s *Store) error {
		cfg, err := config.LoadDefaultConfig(context.Background())
		if err != nil {
			return fmt.Errorf("loading AWS config for endpoint: %w", err)
		}
		s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
		return nil
	}
}

// WithTempDir sets the directory used to stage uploads.
func WithTempDir(dir string) Option {
	return func(s *Store) error {
		s.tempDir = dir
		return nil
	}
}

// Open opens an object for reading.
func (s *Store) Open(ctx context.Context, name string) (*store.Object, error) {
	// Check for cancellation before starting.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bucket, key, err := store.ParseURI(name, Scheme)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, name)
		}
		return nil, fmt.Errorf("reading object: %w", err)
	}

	return &store.Object{
		Body:    result.Body,
		Size:    aws.ToInt64(result.ContentLength),
		ModTime: aws.ToTime(result.LastModified),
	}, nil
}

// Create stages written bytes in a temporary file and uploads them on Close.
// PutObject needs a seekable body to sign the payload, so the object is not
// streamed directly.
func (s *Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bucket, key, err := store.ParseURI(name, Scheme)
	if err != nil {
		return nil, err
	}

	staging, err := os.CreateTemp(s.tempDir, "squash-s3-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging file: %w", err)
	}

	return &uploadWriter{
		ctx:     ctx,
		client:  s.client,
		bucket:  bucket,
		key:     key,
		staging: staging,
	}, nil
}

// Close releases resources.
func (s *Store) Close() error {
	// S3 client doesn't need explicit closing.
	return nil
}

type uploadWriter struct {
	ctx     context.Context
	client  API
	bucket  string
	key     string
	staging *os.File
	closed  bool
}

func (w *uploadWriter) Write(p []byte) (int, error) {
	return w.staging.Write(p)
}

func (w *uploadWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer os.Remove(w.staging.Name())
	defer w.staging.Close()

	if _, err := w.staging.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding staging file: %w", err)
	}

	if _, err := w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   w.staging,
	}); err != nil {
		return fmt.Errorf("uploading object: %w", err)
	}
	return nil
}
