package models

// PatternFinding is one keyword hit in the verified source text.
type PatternFinding struct {
	Pattern  string   `json:"pattern"`
	Keyword  string   `json:"keyword"`
	Severity Severity `json:"severity"`
	Points   int      `json:"points"`
}

// PatternReport is the outcome of scanning source text for honeypot
// indicators.
type PatternReport struct {
	Score      int              `json:"pattern_score"`
	Confidence int              `json:"confidence"`
	Findings   []PatternFinding `json:"suspicious_patterns,omitempty"`
	HasSource  bool             `json:"has_source"`
}

// LiquiditySnapshot is the liquidity prober's view of the token's pool.
type LiquiditySnapshot struct {
	HasLiquidity bool   `json:"has_liquidity"`
	PairAddress  string `json:"pair_address,omitempty"`
	CodeSize     int    `json:"code_size,omitempty"`
	ReserveBNB   string `json:"reserve_bnb,omitempty"`
	ReserveToken string `json:"reserve_token,omitempty"`
	Error        string `json:"error,omitempty"`
}

// TxHistory is the transaction-history signal. Event-log based analysis is
// not wired yet, so AnalysisAvailable stays false and the aggregator treats
// it as absent evidence.
type TxHistory struct {
	RecentTransactions int     `json:"recent_transactions"`
	SuccessfulSells    int     `json:"successful_sells"`
	FailedSells        int     `json:"failed_sells"`
	SellSuccessRate    float64 `json:"sell_success_rate"`
	AnalysisAvailable  bool    `json:"analysis_available"`
}

// HoneypotVerdict fuses simulation, pattern, liquidity and history signals
// into the final honeypot decision.
type HoneypotVerdict struct {
	IsHoneypot     bool      `json:"is_honeypot"`
	Confidence     int       `json:"confidence"`
	RiskLevel      RiskLevel `json:"risk_level"`
	Indicators     []string  `json:"indicators"`
	Recommendation string    `json:"recommendation"`

	CanBuy  bool    `json:"can_buy"`
	CanSell bool    `json:"can_sell"`
	BuyTax  float64 `json:"buy_tax"`
	SellTax float64 `json:"sell_tax"`

	Simulation *SimulationReport  `json:"simulation_results,omitempty"`
	Patterns   *PatternReport     `json:"pattern_analysis,omitempty"`
	Liquidity  *LiquiditySnapshot `json:"liquidity_analysis,omitempty"`
	History    *TxHistory         `json:"transaction_analysis,omitempty"`

	// AnalysisMethod feeds the scorer's confidence term: "full_simulation"
	// when the trade simulator ran, "degraded" otherwise.
	AnalysisMethod string `json:"analysis_method"`
	Error          string `json:"error,omitempty"`
}
