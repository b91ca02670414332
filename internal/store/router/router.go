// Package router dispatches store operations by URI scheme.
package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/discochess/squash/internal/store"
	"github.com/discochess/squash/internal/store/gcsstore"
	"github.com/discochess/squash/internal/store/httpstore"
	"github.com/discochess/squash/internal/store/s3store"
)

// Compile-time check that Router implements store.Store.
var _ store.Store = (*Router)(nil)

// Factory creates a backend on first use.
type Factory func(ctx context.Context) (store.Store, error)

// Router sends plain paths to a local store and "scheme://" names to the
// backend registered for that scheme. Remote backends are created lazily so
// that purely local runs never load cloud credentials.
type Router struct {
	local store.Store

	mu        sync.Mutex
	factories map[string]Factory
	backends  map[string]store.Store
}

// New creates a router that serves plain paths from local.
func New(local store.Store) *Router {
	return &Router{
		local:     local,
		factories: make(map[string]Factory),
		backends:  make(map[string]store.Store),
	}
}

// Register sets the factory for a scheme.
func (r *Router) Register(scheme string, f Factory) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[scheme] = f
	return r
}

// Open opens name on the backend that owns it.
func (r *Router) Open(ctx context.Context, name string) (*store.Object, error) {
	s, err := r.backend(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, name)
}

// Create creates name on the backend that owns it.
func (r *Router) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	s, err := r.backend(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, name)
}

// Close closes the local store and every backend created so far.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if err := r.local.Close(); err != nil {
		errs = append(errs, err)
	}
	for scheme, s := range r.backends {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s store: %w", scheme, err))
		}
		delete(r.backends, scheme)
	}
	return errors.Join(errs...)
}

func (r *Router) backend(ctx context.Context, name string) (store.Store, error) {
	scheme := store.Scheme(name)
	if scheme == "" {
		return r.local, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.backends[scheme]; ok {
		return s, nil
	}
	factory, ok := r.factories[scheme]
	if !ok {
		return nil, fmt.Errorf("unsupported storage scheme %q in %q", scheme, name)
	}

	s, err := factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating %s store: %w", scheme, err)
	}
	r.backends[scheme] = s
	return s, nil
}

// Default returns a router serving plain paths from local, "gs://" names
// from Google Cloud Storage, "s3://" names from Amazon S3 and http(s) URLs
// as read-only inputs. Remote clients use the ambient credentials of each SDK.
func Default(local store.Store, tempDir string) *Router {
	web := func(ctx context.Context) (store.Store, error) {
		return httpstore.New(), nil
	}
	return New(local).
		Register(httpstore.SchemeHTTP, web).
		Register(httpstore.SchemeHTTPS, web).
		Register(gcsstore.Scheme, func(ctx context.Context) (store.Store, error) {
			return gcsstore.New(ctx)
		}).
		Register(s3store.Scheme, func(ctx context.Context) (store.Store, error) {
			return s3store.New(ctx, s3store.WithTempDir(tempDir))
		})
}
