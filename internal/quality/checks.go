// Package quality validates daily price series before they are simulated.
// Bad data is the most common way a backtest lies; every anomaly found here
// ends up in the quality log rather than silently skewing results.
package quality

import (
	"fmt"
	"math"
	"time"

	"trendlab/internal/domain"
)

// Config holds the thresholds for the validation checks.
type Config struct {
	// OutlierReturnThreshold flags daily close-to-close moves beyond this
	// fraction (0.15 means ±15%).
	OutlierReturnThreshold float64
	// MaxGapDays is the longest acceptable calendar gap between consecutive
	// bars. Weekends plus a holiday span 4 days; anything longer is suspect.
	MaxGapDays int
	// MinHistoryYears is the recommended minimum series length.
	MinHistoryYears float64
	// TradingDaysPerYear converts bar counts to years.
	TradingDaysPerYear int
}

// DefaultConfig matches the standard thresholds: ±15% outliers, 5-day gaps,
// 10 years of history at 252 trading days per year.
func DefaultConfig() Config {
	return Config{
		OutlierReturnThreshold: 0.15,
		MaxGapDays:             5,
		MinHistoryYears:        10,
		TradingDaysPerYear:     252,
	}
}

// Validate runs every check over the instrument's bars and returns the
// detected issues. Bars must be in ascending date order. An empty slice
// means the series is clean.
func Validate(instrument string, bars []domain.DailyBar, cfg Config) []domain.QualityIssue {
	var issues []domain.QualityIssue

	issues = append(issues, checkOHLC(instrument, bars)...)
	issues = append(issues, checkOutliers(instrument, bars, cfg.OutlierReturnThreshold)...)
	issues = append(issues, checkGaps(instrument, bars, cfg.MaxGapDays)...)
	issues = append(issues, checkPrices(instrument, bars)...)
	issues = append(issues, checkHistory(instrument, bars, cfg)...)

	return issues
}

// checkOHLC flags bars where the high is below the open or close, or the low
// is above them.
func checkOHLC(instrument string, bars []domain.DailyBar) []domain.QualityIssue {
	var issues []domain.QualityIssue
	for _, b := range bars {
		if b.High < b.Open || b.High < b.Close {
			issues = append(issues, issueOn(instrument, b.Date, domain.CheckOHLCConsistency, domain.SeverityError,
				fmt.Sprintf("high (%.4f) below open (%.4f) or close (%.4f)", b.High, b.Open, b.Close)))
		}
		if b.Low > b.Open || b.Low > b.Close {
			issues = append(issues, issueOn(instrument, b.Date, domain.CheckOHLCConsistency, domain.SeverityError,
				fmt.Sprintf("low (%.4f) above open (%.4f) or close (%.4f)", b.Low, b.Open, b.Close)))
		}
	}
	return issues
}

// checkOutliers flags daily close-to-close returns beyond the threshold.
func checkOutliers(instrument string, bars []domain.DailyBar, threshold float64) []domain.QualityIssue {
	var issues []domain.QualityIssue
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev == 0 {
			continue
		}
		ret := bars[i].Close/prev - 1
		if math.Abs(ret) > threshold {
			issues = append(issues, issueOn(instrument, bars[i].Date, domain.CheckOutlierReturn, domain.SeverityWarning,
				fmt.Sprintf("extreme daily return %+.2f%% (threshold ±%.0f%%)", ret*100, threshold*100)))
		}
	}
	return issues
}

// checkGaps flags calendar gaps between consecutive bars longer than
// maxGapDays. The issue is dated at the bar before the gap.
func checkGaps(instrument string, bars []domain.DailyBar, maxGapDays int) []domain.QualityIssue {
	var issues []domain.QualityIssue
	for i := 1; i < len(bars); i++ {
		gap := int(bars[i].Date.Sub(bars[i-1].Date).Hours() / 24)
		if gap > maxGapDays {
			issues = append(issues, issueOn(instrument, bars[i-1].Date, domain.CheckDateGap, domain.SeverityWarning,
				fmt.Sprintf("%d calendar day gap (%s to %s)", gap,
					bars[i-1].Date.Format("2006-01-02"), bars[i].Date.Format("2006-01-02"))))
		}
	}
	return issues
}

// checkPrices flags zero or negative prices in any OHLC column.
func checkPrices(instrument string, bars []domain.DailyBar) []domain.QualityIssue {
	var issues []domain.QualityIssue
	for _, b := range bars {
		cols := []struct {
			name  string
			value float64
		}{
			{"open", b.Open},
			{"high", b.High},
			{"low", b.Low},
			{"close", b.Close},
		}
		for _, c := range cols {
			if c.value <= 0 {
				issues = append(issues, issueOn(instrument, b.Date, domain.CheckZeroNegativePrice, domain.SeverityError,
					fmt.Sprintf("%s price %.4f is zero or negative", c.name, c.value)))
			}
		}
	}
	return issues
}

// checkHistory warns when the series is shorter than the recommended
// minimum.
func checkHistory(instrument string, bars []domain.DailyBar, cfg Config) []domain.QualityIssue {
	if len(bars) == 0 {
		return nil
	}
	years := float64(len(bars)) / float64(cfg.TradingDaysPerYear)
	if years >= cfg.MinHistoryYears {
		return nil
	}
	return []domain.QualityIssue{{
		Instrument: instrument,
		CheckType:  domain.CheckInsufficientHistory,
		Severity:   domain.SeverityWarning,
		Message: fmt.Sprintf("only %.1f years of data (%d bars), recommended minimum %.0f years",
			years, len(bars), cfg.MinHistoryYears),
	}}
}

func issueOn(instrument string, date time.Time, checkType, severity, message string) domain.QualityIssue {
	d := date
	return domain.QualityIssue{
		Instrument: instrument,
		Date:       &d,
		CheckType:  checkType,
		Severity:   severity,
		Message:    message,
	}
}

// HasErrors reports whether any issue carries ERROR severity. Warning-only
// series are still simulated; errors should block the run.
func HasErrors(issues []domain.QualityIssue) bool {
	for _, is := range issues {
		if is.Severity == domain.SeverityError {
			return true
		}
	}
	return false
}
