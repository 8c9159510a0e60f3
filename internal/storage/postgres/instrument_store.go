package postgres

import (
	"context"
	"fmt"

	"trendlab/internal/domain"
	"trendlab/internal/storage"
)

// InstrumentStore implements storage.InstrumentStore using PostgreSQL.
type InstrumentStore struct {
	pool *Pool
}

// NewInstrumentStore creates a new InstrumentStore.
func NewInstrumentStore(pool *Pool) *InstrumentStore {
	return &InstrumentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.InstrumentStore = (*InstrumentStore)(nil)

// Insert adds a new instrument. Returns ErrDuplicateKey if name exists.
func (s *InstrumentStore) Insert(ctx context.Context, inst *domain.Instrument) error {
	if inst == nil || inst.Name == "" || inst.PointValue <= 0 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO instruments (name, ticker, sector, point_value, currency, type)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		inst.Name, inst.Ticker, inst.Sector, inst.PointValue, inst.Currency, inst.Type,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert instrument: %w", err)
	}
	return nil
}

// GetByName retrieves an instrument by name. Returns ErrNotFound if not exists.
func (s *InstrumentStore) GetByName(ctx context.Context, name string) (*domain.Instrument, error) {
	query := `
		SELECT name, ticker, sector, point_value, currency, type
		FROM instruments
		WHERE name = $1
	`

	var inst domain.Instrument
	err := s.pool.QueryRow(ctx, query, name).Scan(
		&inst.Name, &inst.Ticker, &inst.Sector, &inst.PointValue, &inst.Currency, &inst.Type,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get instrument by name: %w", err)
	}
	return &inst, nil
}

// List retrieves all instruments, ordered by name ASC.
func (s *InstrumentStore) List(ctx context.Context) ([]*domain.Instrument, error) {
	query := `
		SELECT name, ticker, sector, point_value, currency, type
		FROM instruments
		ORDER BY name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list instruments: %w", err)
	}
	defer rows.Close()

	var instruments []*domain.Instrument
	for rows.Next() {
		var inst domain.Instrument
		err := rows.Scan(
			&inst.Name, &inst.Ticker, &inst.Sector, &inst.PointValue, &inst.Currency, &inst.Type,
		)
		if err != nil {
			return nil, fmt.Errorf("scan instrument row: %w", err)
		}
		instruments = append(instruments, &inst)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instrument rows: %w", err)
	}

	return instruments, nil
}
