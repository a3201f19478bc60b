// Package store persists named graph descriptions.
//
// The HTTP service lets clients save a description under a name and
// evaluate it later by name. Two backends are provided:
//   - MemoryStore: in-process storage for development and tests
//   - MongoStore: MongoDB-backed storage for deployments
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/hweiss/calcgraph/pkg/graphfile"
)

// ErrNotFound is returned when no description exists under a name.
var ErrNotFound = errors.New("not found")

// Store saves and loads graph descriptions by name.
type Store interface {
	// Get returns the description saved under name, or ErrNotFound.
	Get(ctx context.Context, name string) (graphfile.Description, error)

	// Put saves a description under name, replacing any previous one.
	Put(ctx context.Context, name string, d graphfile.Description) error

	// Delete removes a description. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns all saved names in sorted order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	descs map[string]graphfile.Description
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{descs: make(map[string]graphfile.Description)}
}

// Get returns the description saved under name.
func (s *MemoryStore) Get(ctx context.Context, name string) (graphfile.Description, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.descs[name]
	if !ok {
		return graphfile.Description{}, ErrNotFound
	}
	return d, nil
}

// Put saves a description under name.
func (s *MemoryStore) Put(ctx context.Context, name string, d graphfile.Description) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descs[name] = d
	return nil
}

// Delete removes a description.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.descs, name)
	return nil
}

// List returns all saved names in sorted order.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.descs))
	for name := range s.descs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
