// Package config holds the instrument universe and the run parameter
// defaults. Everything is plain data passed explicitly into constructors,
// with no package-level mutable state.
package config

import (
	"math"

	"trendlab/internal/domain"
)

// Universe is the full multi-sector instrument set: the most liquid contracts
// per sector with 15+ years of daily history. Point values are the real
// CME/CBOT/Eurex contract specifications and drive position sizing even in
// fractional mode.
var Universe = []domain.Instrument{
	// Agricultural
	{Name: "Corn", Ticker: "ZC=F", Sector: "agricultural", PointValue: 50.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "Soybeans", Ticker: "ZS=F", Sector: "agricultural", PointValue: 50.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "Wheat", Ticker: "ZW=F", Sector: "agricultural", PointValue: 50.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "Sugar", Ticker: "SB=F", Sector: "agricultural", PointValue: 1120.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "Cotton", Ticker: "CT=F", Sector: "agricultural", PointValue: 500.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "Coffee", Ticker: "KC=F", Sector: "agricultural", PointValue: 375.0, Currency: "USD", Type: domain.InstrumentTypeFutures},

	// Non-agricultural
	{Name: "Gold", Ticker: "GC=F", Sector: "non_agricultural", PointValue: 100.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "Silver", Ticker: "SI=F", Sector: "non_agricultural", PointValue: 5000.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "Crude Oil", Ticker: "CL=F", Sector: "non_agricultural", PointValue: 1000.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "Natural Gas", Ticker: "NG=F", Sector: "non_agricultural", PointValue: 10000.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "Copper", Ticker: "HG=F", Sector: "non_agricultural", PointValue: 25000.0, Currency: "USD", Type: domain.InstrumentTypeFutures},

	// Currencies
	{Name: "EURUSD", Ticker: "EURUSD=X", Sector: "currencies", PointValue: 125000.0, Currency: "USD", Type: domain.InstrumentTypeFX},
	{Name: "GBPUSD", Ticker: "GBPUSD=X", Sector: "currencies", PointValue: 62500.0, Currency: "USD", Type: domain.InstrumentTypeFX},
	{Name: "AUDUSD", Ticker: "AUDUSD=X", Sector: "currencies", PointValue: 100000.0, Currency: "USD", Type: domain.InstrumentTypeFX},
	{Name: "JPYUSD", Ticker: "JPY=X", Sector: "currencies", PointValue: 12500000.0, Currency: "USD", Type: domain.InstrumentTypeFX},
	{Name: "CADUSD", Ticker: "CADUSD=X", Sector: "currencies", PointValue: 100000.0, Currency: "USD", Type: domain.InstrumentTypeFX},

	// Equities
	{Name: "S&P 500", Ticker: "ES=F", Sector: "equities", PointValue: 50.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "Nasdaq 100", Ticker: "NQ=F", Sector: "equities", PointValue: 20.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "Euro Stoxx 50", Ticker: "^STOXX50E", Sector: "equities", PointValue: 10.0, Currency: "EUR", Type: domain.InstrumentTypeIndex},
	{Name: "Nikkei 225", Ticker: "^N225", Sector: "equities", PointValue: 1000.0, Currency: "JPY", Type: domain.InstrumentTypeIndex},
	{Name: "FTSE 100", Ticker: "^FTSE", Sector: "equities", PointValue: 10.0, Currency: "GBP", Type: domain.InstrumentTypeIndex},

	// Rates
	{Name: "US 10Y Note", Ticker: "ZN=F", Sector: "rates", PointValue: 1000.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "US 30Y Bond", Ticker: "ZB=F", Sector: "rates", PointValue: 1000.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "US 5Y Note", Ticker: "ZF=F", Sector: "rates", PointValue: 1000.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
	{Name: "Eurodollar", Ticker: "GE=F", Sector: "rates", PointValue: 2500.0, Currency: "USD", Type: domain.InstrumentTypeFutures},
}

// starterNames is the reduced five-instrument starter set, one per sector.
var starterNames = map[string]bool{
	"S&P 500": true, "Gold": true, "Corn": true, "Euro Stoxx 50": true, "AUDUSD": true,
}

// microNames is the small-capital two-instrument set (two asset classes).
var microNames = map[string]bool{"AUDUSD": true, "Gold": true}

// StarterUniverse returns the five-instrument starter subset.
func StarterUniverse() []domain.Instrument { return subset(starterNames) }

// MicroUniverse returns the two-instrument small-capital subset.
func MicroUniverse() []domain.Instrument { return subset(microNames) }

func subset(names map[string]bool) []domain.Instrument {
	var out []domain.Instrument
	for _, inst := range Universe {
		if names[inst.Name] {
			out = append(out, inst)
		}
	}
	return out
}

// UniverseMap indexes a universe by instrument name.
func UniverseMap(universe []domain.Instrument) map[string]domain.Instrument {
	m := make(map[string]domain.Instrument, len(universe))
	for _, inst := range universe {
		m[inst.Name] = inst
	}
	return m
}

// carverParams maps instrument count to the Carver leverage parameters
// (Leveraged Trading, Tables 43-44). Counts above five use the five-row.
var carverParams = map[int]struct {
	idm              float64
	accountTarget    float64
	instrumentTarget float64
}{
	1: {1.00, 0.12, 0.120},
	2: {1.20, 0.13, 0.156},
	3: {1.48, 0.14, 0.207},
	4: {1.56, 0.17, 0.265},
	5: {1.70, 0.19, 0.323},
}

// CarverRiskFactor converts the Carver instrument risk target for a universe
// of n instruments into the per-position daily risk factor used by sizing:
// rf = instrument_target / (n × √256).
func CarverRiskFactor(n int) float64 {
	p, ok := carverParams[n]
	if !ok {
		p = carverParams[5]
	}
	return p.instrumentTarget / (float64(n) * math.Sqrt(256))
}
