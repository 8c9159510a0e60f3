package domain

// BacktestMetrics is the full statistics record derived from one run's equity
// curve and trade ledger. All values are derived; recomputing on the same
// inputs yields identical results. The three series are read-only outputs for
// reporting and must not feed back into simulation decisions.
type BacktestMetrics struct {
	// Return
	TotalReturnPct      float64
	CAGRPct             float64
	BestMonthPct        float64
	WorstMonthPct       float64
	PctProfitableMonths float64

	// Risk
	AnnualizedVolPct        float64
	MaxDrawdownPct          float64
	MaxDrawdownDurationDays int

	// Ratios
	SharpeRatio  float64
	SortinoRatio float64
	CalmarRatio  float64

	// Trades
	TotalTrades          int
	WinningTrades        int
	LosingTrades         int
	WinRatePct           float64
	AvgWinPct            float64
	AvgLossPct           float64
	ProfitFactor         float64 // +Inf when there are no losing trades
	PayoffRatio          float64 // +Inf when average loss is zero
	SampleErrorPct       float64 // 100/sqrt(trade count) heuristic
	AvgTradeDurationDays float64

	// Derived series
	EquityCurve    []EquityPoint
	DrawdownSeries []DrawdownPoint
	MonthlyReturns []MonthlyReturn
}
