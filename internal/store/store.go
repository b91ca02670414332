// Package store defines the storage backend interface for pipeline sources
// and sinks.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrNotFound is returned when a source object does not exist.
var ErrNotFound = errors.New("store: object not found")

// Object is an open source.
type Object struct {
	// Body is read sequentially and closed by the caller.
	Body io.ReadCloser
	// Size is the total size in bytes, or 0 when unknown.
	Size int64
	// ModTime is the last modification time, if known.
	ModTime time.Time
}

// Store defines the interface for storage backends.
// Implementations handle path formats and storage details internally.
type Store interface {
	// Open opens the named object for reading.
	// Returns ErrNotFound if it does not exist.
	Open(ctx context.Context, name string) (*Object, error)

	// Create creates or truncates the named object for writing.
	// The object is complete once the returned writer is closed.
	Create(ctx context.Context, name string) (io.WriteCloser, error)

	// Close releases any resources held by the store.
	Close() error
}

// Scheme returns the URI scheme of name ("gs" for "gs://b/k"), or "" for
// plain paths.
func Scheme(name string) string {
	scheme, _, ok := strings.Cut(name, "://")
	if !ok {
		return ""
	}
	return scheme
}

// ParseURI parses "scheme://bucket/key" into bucket and key.
func ParseURI(name, scheme string) (bucket, key string, err error) {
	prefix := scheme + "://"
	if !strings.HasPrefix(name, prefix) {
		return "", "", fmt.Errorf("invalid %s path %q: must start with %s", scheme, name, prefix)
	}

	path := strings.TrimPrefix(name, prefix)
	bucket, key, _ = strings.Cut(path, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid %s path %q: missing bucket name", scheme, name)
	}
	if key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("invalid %s path %q: missing object key", scheme, name)
	}
	return bucket, key, nil
}
