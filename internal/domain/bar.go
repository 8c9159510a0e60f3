package domain

import "time"

// DailyBar is one daily OHLCV observation plus the indicator columns the
// bundled strategies read. Indicator fields are nil during a warm-up period
// (not enough history to compute them), never NaN sentinels.
// Price rows correspond to the daily_prices table; indicator columns are
// derived at load time and never persisted.
type DailyBar struct {
	Date     time.Time // normalized to UTC midnight
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose *float64
	Volume   *int64

	// Indicators (nil until warm-up completes).
	EMAFast   *float64 // fast exponential moving average (default span 50)
	EMASlow   *float64 // slow exponential moving average (default span 100)
	ATR       *float64 // average true range, price units
	ATRPct    *float64 // ATR as percent of Close
	AnnVol    *float64 // rolling annualized volatility
	ExpVol    *float64 // exponentially weighted annualized volatility
	EntryHigh *float64 // Donchian entry channel high (default 100d)
	EntryLow  *float64 // Donchian entry channel low (default 100d)
	ExitHigh  *float64 // Donchian exit channel high (default 50d)
	ExitLow   *float64 // Donchian exit channel low (default 50d)
	EWMAC     *float64 // EWMAC forecast, capped to ±20
}

// Day builds a UTC-midnight date, the canonical form for DailyBar.Date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
