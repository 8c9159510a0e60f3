package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"trendlab/internal/domain"
	"trendlab/internal/storage"
)

// QualityLogStore implements storage.QualityLogStore using PostgreSQL.
// The quality_log table is append-only with a serial primary key, so
// repeated findings never collide.
type QualityLogStore struct {
	pool *Pool
}

// NewQualityLogStore creates a new QualityLogStore.
func NewQualityLogStore(pool *Pool) *QualityLogStore {
	return &QualityLogStore{pool: pool}
}

// Compile-time interface check.
var _ storage.QualityLogStore = (*QualityLogStore)(nil)

// Insert appends one quality issue.
func (s *QualityLogStore) Insert(ctx context.Context, issue *domain.QualityIssue) error {
	if issue == nil || issue.Instrument == "" || issue.CheckType == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO quality_log (instrument, date, check_type, severity, message)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		issue.Instrument, issue.Date, issue.CheckType, issue.Severity, issue.Message,
	)
	if err != nil {
		return fmt.Errorf("insert quality issue: %w", err)
	}
	return nil
}

// InsertBulk appends multiple issues atomically.
func (s *QualityLogStore) InsertBulk(ctx context.Context, issues []*domain.QualityIssue) error {
	if len(issues) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO quality_log (instrument, date, check_type, severity, message)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, issue := range issues {
		if issue == nil || issue.Instrument == "" || issue.CheckType == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			issue.Instrument, issue.Date, issue.CheckType, issue.Severity, issue.Message,
		)
		if err != nil {
			return fmt.Errorf("insert quality issue in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByInstrument retrieves all issues for an instrument.
func (s *QualityLogStore) GetByInstrument(ctx context.Context, instrument string) ([]*domain.QualityIssue, error) {
	query := `
		SELECT instrument, date, check_type, severity, message
		FROM quality_log
		WHERE instrument = $1
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query, instrument)
	if err != nil {
		return nil, fmt.Errorf("get quality issues by instrument: %w", err)
	}
	defer rows.Close()

	return scanQualityIssues(rows)
}

// GetBySeverity retrieves all issues with the given severity.
func (s *QualityLogStore) GetBySeverity(ctx context.Context, severity string) ([]*domain.QualityIssue, error) {
	query := `
		SELECT instrument, date, check_type, severity, message
		FROM quality_log
		WHERE severity = $1
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query, severity)
	if err != nil {
		return nil, fmt.Errorf("get quality issues by severity: %w", err)
	}
	defer rows.Close()

	return scanQualityIssues(rows)
}

// scanQualityIssues scans multiple rows into a slice of QualityIssue.
func scanQualityIssues(rows pgx.Rows) ([]*domain.QualityIssue, error) {
	var issues []*domain.QualityIssue

	for rows.Next() {
		var issue domain.QualityIssue

		err := rows.Scan(
			&issue.Instrument, &issue.Date, &issue.CheckType, &issue.Severity, &issue.Message,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quality issue row: %w", err)
		}

		issues = append(issues, &issue)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quality issue rows: %w", err)
	}

	return issues, nil
}
