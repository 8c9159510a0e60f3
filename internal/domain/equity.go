package domain

import "time"

// EquityPoint is one (date, total equity) observation from a simulation run.
// Total equity is cash capital plus unrealized PnL of open positions.
type EquityPoint struct {
	Date   time.Time
	Equity float64
}

// DrawdownPoint is the percentage decline from the running equity peak on a
// given date. Zero or negative; -0.20 means 20% below the peak.
type DrawdownPoint struct {
	Date     time.Time
	Drawdown float64
}

// MonthlyReturn is the compounded return of one calendar month.
type MonthlyReturn struct {
	Year   int
	Month  time.Month
	Return float64
}
