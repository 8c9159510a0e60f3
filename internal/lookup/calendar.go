package lookup

import (
	"errors"
	"sort"
	"time"

	"trendlab/internal/domain"
)

// Errors returned by calendar lookups.
var (
	ErrNoBarData   = errors.New("no bar data available")
	ErrNoLaterDay  = errors.New("no later trading day")
	ErrDateUnknown = errors.New("date not in calendar")
)

// Calendar indexes an instrument's daily bars by date for O(1) lookups.
// Bars must be in ascending date order; each instrument trades on its own
// calendar, so one Calendar per instrument.
type Calendar struct {
	bars  []domain.DailyBar
	index map[int64]int
}

// NewCalendar builds the date index over the bars.
func NewCalendar(bars []domain.DailyBar) *Calendar {
	index := make(map[int64]int, len(bars))
	for i, b := range bars {
		index[dayKey(b.Date)] = i
	}
	return &Calendar{bars: bars, index: index}
}

// Len returns the number of trading days in the calendar.
func (c *Calendar) Len() int {
	return len(c.bars)
}

// BarOn returns the bar for the given date. Returns ErrDateUnknown when the
// instrument did not trade that day.
func (c *Calendar) BarOn(date time.Time) (domain.DailyBar, error) {
	if len(c.bars) == 0 {
		return domain.DailyBar{}, ErrNoBarData
	}
	i, ok := c.index[dayKey(date)]
	if !ok {
		return domain.DailyBar{}, ErrDateUnknown
	}
	return c.bars[i], nil
}

// Next returns the first bar strictly after the given date in this
// instrument's own calendar. Returns ErrNoLaterDay past the final bar.
func (c *Calendar) Next(date time.Time) (domain.DailyBar, error) {
	if len(c.bars) == 0 {
		return domain.DailyBar{}, ErrNoBarData
	}

	key := dayKey(date)
	if i, ok := c.index[key]; ok {
		if i+1 >= len(c.bars) {
			return domain.DailyBar{}, ErrNoLaterDay
		}
		return c.bars[i+1], nil
	}

	// Date not a trading day for this instrument: binary search for the
	// first bar after it.
	i := sort.Search(len(c.bars), func(j int) bool {
		return dayKey(c.bars[j].Date) > key
	})
	if i == len(c.bars) {
		return domain.DailyBar{}, ErrNoLaterDay
	}
	return c.bars[i], nil
}

// UnionDates merges the trading dates of several calendars into one sorted,
// deduplicated timeline. The simulation clock runs over this union.
func UnionDates(calendars map[string]*Calendar) []time.Time {
	seen := make(map[int64]time.Time)
	for _, c := range calendars {
		for _, b := range c.bars {
			seen[dayKey(b.Date)] = b.Date
		}
	}

	keys := make([]int64, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]time.Time, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}

// dayKey collapses a timestamp to its UTC day number.
func dayKey(t time.Time) int64 {
	return t.UTC().Truncate(24*time.Hour).Unix() / 86400
}
