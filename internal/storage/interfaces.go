package storage

import (
	"context"
	"time"

	"trendlab/internal/domain"
)

// InstrumentStore provides access to instruments storage.
type InstrumentStore interface {
	// Insert adds a new instrument. Returns ErrDuplicateKey if name exists.
	Insert(ctx context.Context, inst *domain.Instrument) error

	// GetByName retrieves an instrument by name. Returns ErrNotFound if not exists.
	GetByName(ctx context.Context, name string) (*domain.Instrument, error)

	// List retrieves all instruments, ordered by name ASC.
	List(ctx context.Context) ([]*domain.Instrument, error)
}

// DailyPriceStore provides access to daily_prices storage.
type DailyPriceStore interface {
	// InsertBulk adds multiple bars for one instrument. Fails entire batch
	// on duplicate (instrument, date).
	InsertBulk(ctx context.Context, instrument string, bars []*domain.DailyBar) error

	// GetByInstrument retrieves all bars for an instrument, ordered by date ASC.
	GetByInstrument(ctx context.Context, instrument string) ([]*domain.DailyBar, error)

	// GetByDateRange retrieves bars for an instrument within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, instrument string, start, end time.Time) ([]*domain.DailyBar, error)
}

// TradeStore provides access to trades storage.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.Trade) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.Trade) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.Trade, error)

	// GetByRunID retrieves all trades of a run, ordered by entry_date ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.Trade, error)

	// GetByInstrument retrieves all trades for an instrument, ordered by entry_date ASC.
	GetByInstrument(ctx context.Context, instrument string) ([]*domain.Trade, error)
}

// QualityLogStore provides access to quality_log storage. The log is
// append-only; repeated findings for the same bar are allowed.
type QualityLogStore interface {
	// Insert appends one quality issue.
	Insert(ctx context.Context, issue *domain.QualityIssue) error

	// InsertBulk appends multiple issues.
	InsertBulk(ctx context.Context, issues []*domain.QualityIssue) error

	// GetByInstrument retrieves all issues for an instrument.
	GetByInstrument(ctx context.Context, instrument string) ([]*domain.QualityIssue, error)

	// GetBySeverity retrieves all issues with the given severity.
	GetBySeverity(ctx context.Context, severity string) ([]*domain.QualityIssue, error)
}

// EquityCurveStore provides access to equity_curve storage.
type EquityCurveStore interface {
	// InsertBulk adds the equity points of one run. Fails entire batch on
	// duplicate (run_id, date).
	InsertBulk(ctx context.Context, runID string, points []*domain.EquityPoint) error

	// GetByRunID retrieves the equity curve of a run, ordered by date ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.EquityPoint, error)
}
