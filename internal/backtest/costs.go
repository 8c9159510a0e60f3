package backtest

// CostConfig holds the transaction cost parameters. Costs are charged per
// side: once at entry, once at exit.
type CostConfig struct {
	CommissionPerContract  float64 // broker commission
	ExchangeFeePerContract float64 // exchange fee
	SlippagePct            float64 // estimated slippage, fraction of price
}

// DefaultCostConfig returns the standard futures cost assumptions:
// $0.85 commission, $1.50 exchange fee, 5 bps slippage.
func DefaultCostConfig() CostConfig {
	return CostConfig{
		CommissionPerContract:  0.85,
		ExchangeFeePerContract: 1.50,
		SlippagePct:            0.0005,
	}
}

// TotalPerContract returns the fixed per-contract charge.
func (c CostConfig) TotalPerContract() float64 {
	return c.CommissionPerContract + c.ExchangeFeePerContract
}

// Cost computes the total transaction cost for one fill:
// fixed per-contract charges plus price-proportional slippage.
func (c CostConfig) Cost(contracts, price float64) float64 {
	commission := contracts * c.TotalPerContract()
	slippage := contracts * price * c.SlippagePct
	return commission + slippage
}
