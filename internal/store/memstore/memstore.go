// Package memstore provides an in-memory store implementation for testing.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/discochess/squash/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an in-memory store for testing.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
	created map[string]int
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		objects: make(map[string][]byte),
		created: make(map[string]int),
	}
}

// Put sets the content of an object (for test setup).
// The data is copied to prevent caller mutations from affecting the store.
func (s *Store) Put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.objects[name] = copied
}

// Get returns the content of an object.
func (s *Store) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[name]
	return data, ok
}

// Created reports how many times Create was called for name.
func (s *Store) Created(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.created[name]
}

// Open reads an object from memory.
func (s *Store) Open(ctx context.Context, name string) (*store.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, name)
	}
	return &store.Object{
		Body:    io.NopCloser(bytes.NewReader(data)),
		Size:    int64(len(data)),
		ModTime: time.Time{},
	}, nil
}

// Create returns a writer that stores its content under name on Close.
// The object exists, empty, from the moment Create returns.
func (s *Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = []byte{}
	s.created[name]++
	return &objectWriter{store: s, name: name}, nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}

type objectWriter struct {
	store *Store
	name  string
	buf   bytes.Buffer
}

func (w *objectWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *objectWriter) Close() error {
	w.store.Put(w.name, w.buf.Bytes())
	return nil
}
