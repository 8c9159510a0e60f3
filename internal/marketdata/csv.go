package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"trendlab/internal/domain"
)

// CSV loader errors.
var (
	ErrBadHeader       = errors.New("unexpected csv header")
	ErrDatesNotOrdered = errors.New("dates must be strictly increasing")
)

// csvHeader is the required column layout of a price file.
var csvHeader = []string{"date", "open", "high", "low", "close", "adj_close", "volume"}

// LoadCSV reads daily bars from a price file. Dates must be strictly
// increasing; adj_close and volume may be empty.
func LoadCSV(path string) ([]*domain.DailyBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	bars, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return bars, nil
}

// ReadCSV parses daily bars from a reader.
func ReadCSV(r io.Reader) ([]*domain.DailyBar, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var bars []*domain.DailyBar
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line++

		bar, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if len(bars) > 0 && !bar.Date.After(bars[len(bars)-1].Date) {
			return nil, fmt.Errorf("line %d: %w", line, ErrDatesNotOrdered)
		}

		bars = append(bars, bar)
	}

	return bars, nil
}

func checkHeader(header []string) error {
	if len(header) != len(csvHeader) {
		return fmt.Errorf("%w: got %d columns, want %d", ErrBadHeader, len(header), len(csvHeader))
	}
	for i, col := range header {
		if strings.ToLower(strings.TrimSpace(col)) != csvHeader[i] {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i, col, csvHeader[i])
		}
	}
	return nil
}

func parseRecord(record []string) (*domain.DailyBar, error) {
	if len(record) != len(csvHeader) {
		return nil, fmt.Errorf("got %d fields, want %d", len(record), len(csvHeader))
	}

	date, err := time.Parse("2006-01-02", record[0])
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", record[0], err)
	}

	bar := &domain.DailyBar{Date: date.UTC()}

	if bar.Open, err = strconv.ParseFloat(record[1], 64); err != nil {
		return nil, fmt.Errorf("parse open %q: %w", record[1], err)
	}
	if bar.High, err = strconv.ParseFloat(record[2], 64); err != nil {
		return nil, fmt.Errorf("parse high %q: %w", record[2], err)
	}
	if bar.Low, err = strconv.ParseFloat(record[3], 64); err != nil {
		return nil, fmt.Errorf("parse low %q: %w", record[3], err)
	}
	if bar.Close, err = strconv.ParseFloat(record[4], 64); err != nil {
		return nil, fmt.Errorf("parse close %q: %w", record[4], err)
	}

	if s := strings.TrimSpace(record[5]); s != "" {
		adj, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parse adj_close %q: %w", s, err)
		}
		bar.AdjClose = &adj
	}
	if s := strings.TrimSpace(record[6]); s != "" {
		vol, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse volume %q: %w", s, err)
		}
		bar.Volume = &vol
	}

	return bar, nil
}
