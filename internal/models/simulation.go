package models

import "math/big"

// TradeAttempt records one simulated swap at a single notional size. It is
// created once by the simulator and never mutated afterwards.
type TradeAttempt struct {
	AmountIn       *big.Int `json:"amount_in"`
	Success        bool     `json:"success"`
	AmountOut      *big.Int `json:"amount_out,omitempty"`
	TheoreticalOut *big.Int `json:"theoretical_out,omitempty"`
	TaxPercent     float64  `json:"tax_percent"`
	SlippagePct    float64  `json:"slippage_percent"`
	Error          string   `json:"error,omitempty"`
}

// SimulationReport aggregates the buy and sell attempts of one simulation
// run. Owned by the simulator; read-only downstream.
type SimulationReport struct {
	BuyAttempts  []TradeAttempt `json:"buy_attempts"`
	SellAttempts []TradeAttempt `json:"sell_attempts"`
	CanBuy       bool           `json:"can_buy"`
	CanSell      bool           `json:"can_sell"`
	AvgBuyTax    float64        `json:"buy_tax_avg"`
	AvgSellTax   float64        `json:"sell_tax_avg"`
	Errors       []string       `json:"errors,omitempty"`
}
