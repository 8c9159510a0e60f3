// Package strategy holds the trend-following rule sets. A strategy is a pure
// signal function over the enriched bar for one instrument on one day; it
// never sees future bars and never mutates engine state.
package strategy

import (
	"time"

	"trendlab/internal/domain"
)

// Strategy produces a target direction from one day's enriched bar.
type Strategy interface {
	// Evaluate returns the desired direction after the given day's close:
	// domain.Long, domain.Short or domain.Flat. A return that differs from
	// the current direction is a signal; the engine executes it at the next
	// trading day's open.
	Evaluate(date time.Time, bar domain.DailyBar, instrument string, positions PositionView) int

	// ID returns strategy identifier (includes parameters).
	ID() string
}

// PositionView is the read-only view of open positions a strategy may
// consult. Strategies react to their own exposure (exit rules) but cannot
// modify it.
type PositionView interface {
	// Direction returns the current direction for the instrument, or
	// domain.Flat when no position is open.
	Direction(instrument string) int

	// Get returns a copy of the open position and whether one exists.
	Get(instrument string) (domain.Position, bool)
}

// Func adapts a plain signal function to the Strategy interface.
type Func struct {
	Name string
	Fn   func(date time.Time, bar domain.DailyBar, instrument string, positions PositionView) int
}

// Evaluate calls the wrapped function.
func (f Func) Evaluate(date time.Time, bar domain.DailyBar, instrument string, positions PositionView) int {
	return f.Fn(date, bar, instrument, positions)
}

// ID returns the wrapped function's name.
func (f Func) ID() string {
	return f.Name
}

// Ensure Func implements Strategy
var _ Strategy = Func{}
