// Package memory provides in-memory store implementations used by unit
// tests and single-run command invocations that need no persistence.
package memory

import (
	"context"
	"sort"
	"sync"

	"trendlab/internal/domain"
	"trendlab/internal/storage"
)

// InstrumentStore is an in-memory implementation of storage.InstrumentStore.
type InstrumentStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Instrument // keyed by name
}

// NewInstrumentStore creates a new in-memory instrument store.
func NewInstrumentStore() *InstrumentStore {
	return &InstrumentStore{
		data: make(map[string]*domain.Instrument),
	}
}

// Insert adds a new instrument. Returns ErrDuplicateKey if name exists.
func (s *InstrumentStore) Insert(_ context.Context, inst *domain.Instrument) error {
	if inst == nil || inst.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[inst.Name]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *inst
	s.data[inst.Name] = &copy
	return nil
}

// GetByName retrieves an instrument by name. Returns ErrNotFound if not exists.
func (s *InstrumentStore) GetByName(_ context.Context, name string) (*domain.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inst, exists := s.data[name]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *inst
	return &copy, nil
}

// List retrieves all instruments, ordered by name ASC.
func (s *InstrumentStore) List(_ context.Context) ([]*domain.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Instrument, 0, len(s.data))
	for _, inst := range s.data {
		copy := *inst
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

var _ storage.InstrumentStore = (*InstrumentStore)(nil)
