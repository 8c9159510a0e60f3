package domain

// Instrument types.
const (
	InstrumentTypeFutures = "futures"
	InstrumentTypeFX      = "fx"
	InstrumentTypeETF     = "etf"
	InstrumentTypeIndex   = "index"
)

// Instrument describes one tradable contract in the universe.
// Corresponds to the instruments table. Immutable for the duration of a run.
type Instrument struct {
	Name       string  // human-readable identifier, unique
	Ticker     string  // data-vendor ticker
	Sector     string  // asset class tag for diversification reporting
	PointValue float64 // currency value of one point of price movement per contract
	Currency   string  // contract currency
	Type       string  // futures, fx, etf, index
}
