package memory

import (
	"context"
	"sort"
	"sync"

	"trendlab/internal/domain"
	"trendlab/internal/storage"
)

// EquityCurveStore is an in-memory implementation of storage.EquityCurveStore.
type EquityCurveStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.EquityPoint // keyed by run_id
}

// NewEquityCurveStore creates a new in-memory equity curve store.
func NewEquityCurveStore() *EquityCurveStore {
	return &EquityCurveStore{
		data: make(map[string][]*domain.EquityPoint),
	}
}

// InsertBulk adds the equity points of one run. Fails entire batch on
// duplicate (run_id, date).
func (s *EquityCurveStore) InsertBulk(_ context.Context, runID string, points []*domain.EquityPoint) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[int64]struct{}, len(s.data[runID]))
	for _, p := range s.data[runID] {
		existing[p.Date.Unix()] = struct{}{}
	}

	batchKeys := make(map[int64]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.Date.IsZero() {
			return storage.ErrInvalidInput
		}
		key := p.Date.Unix()
		if _, exists := existing[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range points {
		copy := *p
		s.data[runID] = append(s.data[runID], &copy)
	}
	sort.Slice(s.data[runID], func(i, j int) bool {
		return s.data[runID][i].Date.Before(s.data[runID][j].Date)
	})

	return nil
}

// GetByRunID retrieves the equity curve of a run, ordered by date ASC.
func (s *EquityCurveStore) GetByRunID(_ context.Context, runID string) ([]*domain.EquityPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points := s.data[runID]
	result := make([]*domain.EquityPoint, 0, len(points))
	for _, p := range points {
		copy := *p
		result = append(result, &copy)
	}

	return result, nil
}

var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)
