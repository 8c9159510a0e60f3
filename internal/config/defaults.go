package config

// Indicator and sizing defaults (Clenow, Following the Trend).
const (
	ATRPeriod        = 20  // ATR smoothing, days
	EMAFastPeriod    = 50  // fast moving average
	EMASlowPeriod    = 100 // slow moving average
	VolatilityWindow = 256 // rolling annualization window, trading days

	EntryChannelPeriod = 100 // Donchian entry window, days
	ExitChannelPeriod  = 50  // Donchian exit window, days

	// DefaultRiskFactor targets a constant daily dollar impact per position:
	// contracts = capital × rf / (ATR × point value). 0.002 = 20 bps.
	DefaultRiskFactor = 0.002

	// TradingDaysPerYear is the annualization base (Carver uses 256).
	TradingDaysPerYear = 256
)

// Data quality thresholds.
const (
	// OutlierReturnThreshold flags daily moves beyond ±15%. Flag only,
	// never delete.
	OutlierReturnThreshold = 0.15

	// MaxGapDays is the longest tolerated run of calendar days without
	// data. Weekends come through as 3-day spans and pass.
	MaxGapDays = 5
)
