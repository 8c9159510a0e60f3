package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(instrument|direction|contracts|entry_date|exit_date)
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(
	instrument string,
	direction int,
	contracts float64,
	entryDate time.Time,
	exitDate time.Time,
) string {
	data := fmt.Sprintf("%s|%d|%g|%s|%s",
		instrument,
		direction,
		contracts,
		entryDate.UTC().Format("2006-01-02"),
		exitDate.UTC().Format("2006-01-02"),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeRunID computes a deterministic run_id for a backtest run.
// Formula: SHA256(strategy_id|universe|start_date|initial_capital)
func ComputeRunID(
	strategyID string,
	universe string,
	startDate time.Time,
	initialCapital float64,
) string {
	data := fmt.Sprintf("%s|%s|%s|%g",
		strategyID,
		universe,
		startDate.UTC().Format("2006-01-02"),
		initialCapital,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
