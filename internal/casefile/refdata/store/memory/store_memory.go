// Package memory provides a seedable in-memory reference-data lookup. It
// favours clarity over performance and backs unit tests and local runs.
package memory

import (
	"context"
	"sync"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata"
)

// Store is an in-memory reference-data lookup.
type Store struct {
	mu      sync.RWMutex
	records map[refdata.Kind]map[string][]refdata.Record
}

// New returns an empty store.
func New() *Store {
	return &Store{records: make(map[refdata.Kind]map[string][]refdata.Record)}
}

// Seed replaces the records held for kind/key.
func (s *Store) Seed(kind refdata.Kind, key string, records ...refdata.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[kind] == nil {
		s.records[kind] = make(map[string][]refdata.Record)
	}
	s.records[kind][key] = append([]refdata.Record{}, records...)
}

// Retrieve returns the seeded records for kind/key. Missing entries yield an
// empty result, never an error.
func (s *Store) Retrieve(_ context.Context, kind refdata.Kind, key string) ([]refdata.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]refdata.Record{}, s.records[kind][key]...), nil
}
