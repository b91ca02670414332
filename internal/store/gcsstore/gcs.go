// Package gcsstore implements a Google Cloud Storage backend.
package gcsstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/discochess/squash/internal/store"
)

// Scheme is the URI scheme handled by this store.
const Scheme = "gs"

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a Google Cloud Storage backend addressing objects as
// "gs://bucket/key".
type Store struct {
	client    *storage.Client
	chunkSize int
}

// Option configures a Store.
type Option func(*Store)

// WithChunkSize sets the upload chunk size for created objects.
func WithChunkSize(n int) Option {
	return func(s *Store) { s.chunkSize = n }
}

// New creates a new GCS store using application default credentials.
func New(ctx context.Context, opts ...Option) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}
	return NewWithClient(client, opts...), nil
}

// NewWithClient creates a store on an existing client.
func NewWithClient(client *storage.Client, opts ...Option) *Store {
	s := &Store{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens an object for reading.
func (s *Store) Open(ctx context.Context, name string) (*store.Object, error) {
	// Check for cancellation before starting.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	obj, err := s.object(name)
	if err != nil {
		return nil, err
	}

	reader, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, name)
		}
		return nil, fmt.Errorf("creating reader: %w", err)
	}

	return &store.Object{
		Body:    reader,
		Size:    reader.Attrs.Size,
		ModTime: reader.Attrs.LastModified,
	}, nil
}

// Create opens an object for writing. The upload is committed on Close.
func (s *Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	obj, err := s.object(name)
	if err != nil {
		return nil, err
	}

	writer := obj.NewWriter(ctx)
	if s.chunkSize > 0 {
		writer.ChunkSize = s.chunkSize
	}
	return writer, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) object(name string) (*storage.ObjectHandle, error) {
	bucket, key, err := store.ParseURI(name, Scheme)
	if err != nil {
		return nil, err
	}
	return s.client.Bucket(bucket).Object(key), nil
}
