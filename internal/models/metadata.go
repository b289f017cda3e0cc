package models

import "math/big"

// Holder is one entry of a token's holder list.
type Holder struct {
	Address string   `json:"address"`
	Balance *big.Int `json:"balance"`
	Percent float64  `json:"percent"`
}

// LPInfo describes the token's main liquidity pool as supplied by the
// metadata provider.
type LPInfo struct {
	PairAddress   string   `json:"pair_address"`
	ReserveToken  *big.Int `json:"reserve_token,omitempty"`
	ReserveBNB    *big.Int `json:"reserve_bnb,omitempty"`
	Locked        bool     `json:"locked"`
	PercentLocked float64  `json:"percent_locked"`
	LPHolders     []Holder `json:"lp_holders,omitempty"`
}

// TokenMetadata is the immutable snapshot of a token handed to the engine
// per analysis request.
type TokenMetadata struct {
	Address     string   `json:"address"`
	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	Decimals    uint8    `json:"decimals"`
	TotalSupply *big.Int `json:"total_supply"`

	SourceVerified bool   `json:"source_verified"`
	SourceCode     string `json:"source_code,omitempty"`
	IsProxy        bool   `json:"is_proxy"`

	Holders []Holder `json:"holders,omitempty"`
	LP      *LPInfo  `json:"lp_info,omitempty"`
}
