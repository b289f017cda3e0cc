// Package onchain derives holder-distribution and liquidity-lock findings
// from a token metadata snapshot.
package onchain

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/inertlabs/tokenguard/internal/models"
)

// Locker contracts commonly used to time-lock LP tokens on BSC.
var knownLockers = map[string]string{
	"0x1fe80fc86816b778b529d3c2a3830e44a6519a25": "PinkLock",
	"0x88b8e5f5b052f9b38b3b7f529d6bd0a09c84c3a0": "Mudra Locker",
	"0x407993575c91ce7643a4d4ccacc9a98c36ee1bbe": "Unicrypt",
	"0x17e00383a843a9922bca3b280c0ade9f8ba48449": "Team.Finance",
}

// Report summarizes the on-chain signals the scorer consumes.
type Report struct {
	TopHolderPercent float64 `json:"top_holder_percent"`
	Top10Percent     float64 `json:"top10_percent"`
	HasLP            bool    `json:"has_lp"`
	LPLocked         bool    `json:"lp_locked"`
	LPPercentLocked  float64 `json:"lp_percent_locked"`
	LockerName       string  `json:"locker_name,omitempty"`
}

// Analyze works purely over the metadata snapshot; no chain access happens
// here.
func Analyze(meta *models.TokenMetadata) *Report {
	report := &Report{}
	if meta == nil {
		return report
	}

	report.TopHolderPercent, report.Top10Percent = holderConcentration(meta)

	if meta.LP != nil {
		report.HasLP = meta.LP.PairAddress != ""
		report.LPLocked = meta.LP.Locked
		report.LPPercentLocked = meta.LP.PercentLocked

		// An LP holder list lets us verify the lock instead of trusting the
		// provider's flag.
		if locked, name := lockerHoldings(meta.LP); locked > 0 {
			report.LPLocked = true
			report.LockerName = name
			if locked > report.LPPercentLocked {
				report.LPPercentLocked = locked
			}
		}
	}

	return report
}

// holderConcentration returns the largest holder's share and the top-10
// share, both as percentages of total supply. Provider-supplied percentages
// win; balances are the fallback.
func holderConcentration(meta *models.TokenMetadata) (top1, top10 float64) {
	if len(meta.Holders) == 0 {
		return 0, 0
	}

	supply := decimal.Zero
	if meta.TotalSupply != nil {
		supply = decimal.NewFromBigInt(meta.TotalSupply, 0)
	}

	count := 0
	for _, holder := range meta.Holders {
		if count >= 10 {
			break
		}
		pct := holder.Percent
		if pct == 0 && holder.Balance != nil && supply.Sign() > 0 {
			share := decimal.NewFromBigInt(holder.Balance, 0).Div(supply).Mul(decimal.NewFromInt(100))
			pct, _ = share.Float64()
		}
		if pct > top1 {
			top1 = pct
		}
		top10 += pct
		count++
	}
	return top1, top10
}

// lockerHoldings sums the LP supply held by known locker contracts.
func lockerHoldings(lp *models.LPInfo) (percent float64, name string) {
	for _, holder := range lp.LPHolders {
		if lockerName, ok := knownLockers[strings.ToLower(holder.Address)]; ok {
			percent += holder.Percent
			name = lockerName
		}
	}
	return percent, name
}
