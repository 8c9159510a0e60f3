package domain

import "time"

// Trade is an immutable closed-position record. Appended once at position
// close and never mutated afterward; the ordered Trade sequence is the
// complete trading record of a run. Corresponds to the trades table.
type Trade struct {
	TradeID    string // deterministic hash, see internal/idhash
	RunID      string // set when the trade is persisted
	StrategyID string // strategy identifier, set when persisted

	Instrument string
	Direction  int
	Contracts  float64
	EntryPrice float64
	ExitPrice  float64
	EntryDate  time.Time
	ExitDate   time.Time

	NetPnL      float64 // gross PnL minus exit cost (entry cost charged at open)
	PnLPct      float64 // net PnL over the entry-time capital proxy
	GrossPnL    float64 // before costs
	Costs       float64 // entry + exit costs, for reporting
	HoldingDays int     // calendar days between entry and exit dates
}
