// Package diskstore implements a local filesystem storage backend.
package diskstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/discochess/squash/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a local filesystem storage backend.
type Store struct {
	root string
	perm os.FileMode
}

// Option configures a Store.
type Option func(*Store)

// WithRoot resolves relative names against dir.
func WithRoot(dir string) Option {
	return func(s *Store) { s.root = dir }
}

// WithPerm sets the permission bits for created files.
func WithPerm(perm os.FileMode) Option {
	return func(s *Store) { s.perm = perm }
}

// New creates a new disk store.
// Relative names resolve against the working directory unless WithRoot is set.
func New(opts ...Option) *Store {
	s := &Store{perm: 0o644}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens a local file for reading.
func (s *Store) Open(ctx context.Context, name string) (*store.Object, error) {
	// Check for cancellation before starting I/O.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, name)
		}
		return nil, fmt.Errorf("opening file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%s is a directory", name)
	}

	return &store.Object{
		Body:    file,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Create creates or truncates a local file.
func (s *Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(s.path(name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, s.perm)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	return file, nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}

func (s *Store) path(name string) string {
	if s.root == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.root, name)
}
