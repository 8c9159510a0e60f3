package domain

// Strategy type identifiers for the factory.
const (
	StrategyTypeMACrossover = "MA_CROSSOVER"
	StrategyTypeBreakout    = "BREAKOUT"
	StrategyTypeCore        = "CORE"
)

// StrategyConfig selects a strategy type and its parameters.
// Pointer fields are optional; the factory validates what each type requires
// and falls back to documented defaults where a parameter is nil.
type StrategyConfig struct {
	StrategyType string

	// Moving average periods (MA_CROSSOVER, CORE).
	FastPeriod *int // default 50
	SlowPeriod *int // default 100

	// Donchian channel periods (BREAKOUT, CORE).
	EntryPeriod *int // default 100
	ExitPeriod  *int // default 50
}
