package clickhouse

import (
	"context"
	"fmt"
	"time"

	"trendlab/internal/domain"
	"trendlab/internal/storage"
)

// DailyPriceStore implements storage.DailyPriceStore using ClickHouse.
// Only raw OHLCV columns are persisted; indicator columns are derived at
// load time.
type DailyPriceStore struct {
	conn *Conn
}

// NewDailyPriceStore creates a new DailyPriceStore.
func NewDailyPriceStore(conn *Conn) *DailyPriceStore {
	return &DailyPriceStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DailyPriceStore = (*DailyPriceStore)(nil)

// InsertBulk adds multiple bars for one instrument. Fails entire batch on
// duplicate (instrument, date).
func (s *DailyPriceStore) InsertBulk(ctx context.Context, instrument string, bars []*domain.DailyBar) error {
	if instrument == "" {
		return storage.ErrInvalidInput
	}
	if len(bars) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[time.Time]struct{}, len(bars))
	for _, b := range bars {
		if b == nil || b.Date.IsZero() {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[b.Date]; exists {
			return storage.ErrDuplicateKey
		}
		seen[b.Date] = struct{}{}
	}

	// Check for duplicates against existing rows. MergeTree does not enforce
	// uniqueness at insert time.
	for _, b := range bars {
		exists, err := s.exists(ctx, instrument, b.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_prices (
			instrument, date, open, high, low, close, adj_close, volume
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			instrument, b.Date, b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByInstrument retrieves all bars for an instrument, ordered by date ASC.
func (s *DailyPriceStore) GetByInstrument(ctx context.Context, instrument string) ([]*domain.DailyBar, error) {
	query := `
		SELECT date, open, high, low, close, adj_close, volume
		FROM daily_prices
		WHERE instrument = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, instrument)
	if err != nil {
		return nil, fmt.Errorf("query by instrument: %w", err)
	}
	defer rows.Close()

	return scanDailyBars(rows)
}

// GetByDateRange retrieves bars for an instrument within [start, end] (inclusive).
func (s *DailyPriceStore) GetByDateRange(ctx context.Context, instrument string, start, end time.Time) ([]*domain.DailyBar, error) {
	query := `
		SELECT date, open, high, low, close, adj_close, volume
		FROM daily_prices
		WHERE instrument = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, instrument, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by date range: %w", err)
	}
	defer rows.Close()

	return scanDailyBars(rows)
}

// exists checks if a bar with the given key exists.
func (s *DailyPriceStore) exists(ctx context.Context, instrument string, date time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM daily_prices
		WHERE instrument = ? AND date = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, instrument, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanDailyBars scans multiple rows.
func scanDailyBars(rows chRows) ([]*domain.DailyBar, error) {
	var bars []*domain.DailyBar

	for rows.Next() {
		var b domain.DailyBar

		err := rows.Scan(
			&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.AdjClose, &b.Volume,
		)
		if err != nil {
			return nil, fmt.Errorf("scan daily price row: %w", err)
		}

		b.Date = b.Date.UTC()
		bars = append(bars, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily price rows: %w", err)
	}

	return bars, nil
}
