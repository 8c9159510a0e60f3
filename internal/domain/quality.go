package domain

import "time"

// Quality check severities.
const (
	SeverityWarning = "WARNING"
	SeverityError   = "ERROR"
)

// Quality check type codes.
const (
	CheckOHLCConsistency     = "OHLC_CONSISTENCY"
	CheckOutlierReturn       = "OUTLIER_RETURN"
	CheckDateGap             = "DATE_GAP"
	CheckZeroNegativePrice   = "ZERO_NEGATIVE_PRICE"
	CheckInsufficientHistory = "INSUFFICIENT_HISTORY"
)

// QualityIssue is one anomaly detected in a price series.
// Corresponds to the quality_log table.
type QualityIssue struct {
	Instrument string
	Date       *time.Time // nil for series-level issues
	CheckType  string
	Severity   string // SeverityWarning or SeverityError
	Message    string
}
