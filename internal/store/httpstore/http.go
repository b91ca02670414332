// Package httpstore reads inputs from http:// and https:// URLs.
package httpstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/discochess/squash/internal/store"
)

// Schemes handled by this store.
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// DefaultResponseHeaderTimeout is the default timeout for receiving response headers.
const DefaultResponseHeaderTimeout = 30 * time.Second

// ErrReadOnly is returned by Create.
var ErrReadOnly = errors.New("httpstore: URLs can only be read")

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store downloads objects over HTTP.
type Store struct {
	client *http.Client
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) {
		s.client = client
	}
}

// New creates a new HTTP store. There is no overall request timeout since
// bodies are streamed for as long as the copy runs.
func New(opts ...Option) *Store {
	s := &Store{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open issues a GET for url. Size is the response's Content-Length, or 0
// when the server does not send one.
func (s *Store) Open(ctx context.Context, url string) (*store.Object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, url)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	size := resp.ContentLength
	if size < 0 {
		size = 0
	}

	var modTime time.Time
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			modTime = t
		}
	}

	return &store.Object{Body: resp.Body, Size: size, ModTime: modTime}, nil
}

// Create always fails with ErrReadOnly.
func (s *Store) Create(ctx context.Context, url string) (io.WriteCloser, error) {
	return nil, fmt.Errorf("%w: %s", ErrReadOnly, url)
}

// Close releases idle connections.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
