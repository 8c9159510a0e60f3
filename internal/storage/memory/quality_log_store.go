package memory

import (
	"context"
	"sync"

	"trendlab/internal/domain"
	"trendlab/internal/storage"
)

// QualityLogStore is an in-memory implementation of storage.QualityLogStore.
// Append-only; repeated findings are allowed.
type QualityLogStore struct {
	mu   sync.RWMutex
	data []*domain.QualityIssue
}

// NewQualityLogStore creates a new in-memory quality log store.
func NewQualityLogStore() *QualityLogStore {
	return &QualityLogStore{}
}

// Insert appends one quality issue.
func (s *QualityLogStore) Insert(_ context.Context, issue *domain.QualityIssue) error {
	if issue == nil || issue.Instrument == "" || issue.CheckType == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *issue
	s.data = append(s.data, &copy)
	return nil
}

// InsertBulk appends multiple issues.
func (s *QualityLogStore) InsertBulk(ctx context.Context, issues []*domain.QualityIssue) error {
	for _, issue := range issues {
		if err := s.Insert(ctx, issue); err != nil {
			return err
		}
	}
	return nil
}

// GetByInstrument retrieves all issues for an instrument.
func (s *QualityLogStore) GetByInstrument(_ context.Context, instrument string) ([]*domain.QualityIssue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.QualityIssue
	for _, issue := range s.data {
		if issue.Instrument == instrument {
			copy := *issue
			result = append(result, &copy)
		}
	}

	return result, nil
}

// GetBySeverity retrieves all issues with the given severity.
func (s *QualityLogStore) GetBySeverity(_ context.Context, severity string) ([]*domain.QualityIssue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.QualityIssue
	for _, issue := range s.data {
		if issue.Severity == severity {
			copy := *issue
			result = append(result, &copy)
		}
	}

	return result, nil
}

var _ storage.QualityLogStore = (*QualityLogStore)(nil)
