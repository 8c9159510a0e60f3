package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"trendlab/internal/domain"
	"trendlab/internal/storage"
)

// DailyPriceStore is an in-memory implementation of storage.DailyPriceStore.
type DailyPriceStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.DailyBar // keyed by instrument name
}

// NewDailyPriceStore creates a new in-memory daily price store.
func NewDailyPriceStore() *DailyPriceStore {
	return &DailyPriceStore{
		data: make(map[string][]*domain.DailyBar),
	}
}

// InsertBulk adds multiple bars for one instrument. Fails entire batch on
// duplicate (instrument, date).
func (s *DailyPriceStore) InsertBulk(_ context.Context, instrument string, bars []*domain.DailyBar) error {
	if instrument == "" {
		return storage.ErrInvalidInput
	}
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[int64]struct{}, len(s.data[instrument]))
	for _, b := range s.data[instrument] {
		existing[b.Date.Unix()] = struct{}{}
	}

	// First pass: check duplicates (existing + intra-batch)
	batchKeys := make(map[int64]struct{}, len(bars))
	for _, b := range bars {
		if b == nil || b.Date.IsZero() {
			return storage.ErrInvalidInput
		}
		key := b.Date.Unix()
		if _, exists := existing[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all, keeping the series date-sorted
	for _, b := range bars {
		copy := *b
		s.data[instrument] = append(s.data[instrument], &copy)
	}
	sort.Slice(s.data[instrument], func(i, j int) bool {
		return s.data[instrument][i].Date.Before(s.data[instrument][j].Date)
	})

	return nil
}

// GetByInstrument retrieves all bars for an instrument, ordered by date ASC.
func (s *DailyPriceStore) GetByInstrument(_ context.Context, instrument string) ([]*domain.DailyBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bars := s.data[instrument]
	result := make([]*domain.DailyBar, 0, len(bars))
	for _, b := range bars {
		copy := *b
		result = append(result, &copy)
	}

	return result, nil
}

// GetByDateRange retrieves bars for an instrument within [start, end] (inclusive).
func (s *DailyPriceStore) GetByDateRange(_ context.Context, instrument string, start, end time.Time) ([]*domain.DailyBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DailyBar
	for _, b := range s.data[instrument] {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		copy := *b
		result = append(result, &copy)
	}

	return result, nil
}

var _ storage.DailyPriceStore = (*DailyPriceStore)(nil)
