package scoring

import (
	"fmt"
	"math"

	"github.com/inertlabs/tokenguard/internal/models"
	"github.com/inertlabs/tokenguard/internal/onchain"
	"github.com/inertlabs/tokenguard/internal/static"
)

// securityFactors covers honeypot evidence, trade restrictions, and the
// worst dangerous functions from static analysis.
func securityFactors(staticReport *static.Report, verdict *models.HoneypotVerdict) []models.RiskFactor {
	var factors []models.RiskFactor

	canBuy, canSell := true, true
	if verdict != nil {
		canBuy, canSell = verdict.CanBuy, verdict.CanSell

		if verdict.IsHoneypot {
			confidence := float64(verdict.Confidence) / 100.0
			severity := models.SeverityHigh
			if confidence >= 0.8 {
				severity = models.SeverityCritical
			}
			factors = append(factors, models.RiskFactor{
				Category:       models.CategorySecurity,
				Severity:       severity,
				Weight:         1.0,
				ScoreImpact:    80 * confidence,
				Title:          "Honeypot Detected",
				Description:    fmt.Sprintf("Token appears to be a honeypot (confidence: %.1f%%)", confidence*100),
				Recommendation: verdict.Recommendation,
				Confidence:     confidence,
				Evidence: map[string]any{
					"indicators": verdict.Indicators,
					"can_buy":    verdict.CanBuy,
					"can_sell":   verdict.CanSell,
				},
			})
		}
	}

	if !canSell {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategorySecurity,
			Severity:       models.SeverityCritical,
			Weight:         1.0,
			ScoreImpact:    70,
			Title:          "Sell Restriction",
			Description:    "Token selling appears to be blocked",
			Recommendation: "Cannot sell tokens - avoid this token",
			Confidence:     0.9,
			Evidence:       map[string]any{"can_sell": false},
		})
	}
	if !canBuy {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategorySecurity,
			Severity:       models.SeverityHigh,
			Weight:         0.2,
			ScoreImpact:    20,
			Title:          "Buy Restriction",
			Description:    "Token buying appears to be blocked",
			Recommendation: "Cannot buy tokens - check contract status",
			Confidence:     0.8,
			Evidence:       map[string]any{"can_buy": false},
		})
	}

	// Only the three worst functions count; dozens of medium hits must not
	// drown the category.
	for i, fn := range staticReport.DangerousFunctions {
		if i >= 3 {
			break
		}
		factors = append(factors, models.RiskFactor{
			Category:       models.CategorySecurity,
			Severity:       fn.Severity,
			Weight:         0.1,
			ScoreImpact:    15 * fn.Severity.Weight(),
			Title:          "Dangerous Function: " + fn.Name,
			Description:    fn.Message,
			Recommendation: "Review function implementation carefully",
			Confidence:     0.7,
			Evidence:       map[string]any{"function": fn.Name},
		})
	}

	return factors
}

// liquidityFactors covers lock status (only meaningful when a pool exists)
// and pool absence.
func liquidityFactors(chainReport *onchain.Report, verdict *models.HoneypotVerdict) []models.RiskFactor {
	var factors []models.RiskFactor

	if chainReport.HasLP {
		if !chainReport.LPLocked {
			factors = append(factors, models.RiskFactor{
				Category:       models.CategoryLiquidity,
				Severity:       models.SeverityHigh,
				Weight:         0.6,
				ScoreImpact:    25,
				Title:          "Liquidity Not Locked",
				Description:    "Liquidity pool is not locked - rug pull risk",
				Recommendation: "High rug pull risk - exercise extreme caution",
				Confidence:     0.9,
				Evidence:       map[string]any{"locked": false},
			})
		} else if chainReport.LPPercentLocked < 80 {
			factors = append(factors, models.RiskFactor{
				Category:       models.CategoryLiquidity,
				Severity:       models.SeverityMedium,
				Weight:         0.4,
				ScoreImpact:    15,
				Title:          "Partial Liquidity Lock",
				Description:    fmt.Sprintf("Only %.0f%% of liquidity is locked", chainReport.LPPercentLocked),
				Recommendation: "Partial rug pull risk - be cautious",
				Confidence:     0.8,
				Evidence:       map[string]any{"locked": true, "locked_percent": chainReport.LPPercentLocked},
			})
		}
	}

	if verdict != nil && verdict.Liquidity != nil && !verdict.Liquidity.HasLiquidity {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategoryLiquidity,
			Severity:       models.SeverityHigh,
			Weight:         0.4,
			ScoreImpact:    20,
			Title:          "No Liquidity Pool",
			Description:    "No liquidity pool found for trading",
			Recommendation: "Cannot trade - no liquidity available",
			Confidence:     0.9,
			Evidence:       map[string]any{"has_liquidity": false},
		})
	}

	return factors
}

func ownershipFactors(staticReport *static.Report) []models.RiskFactor {
	var factors []models.RiskFactor

	if !staticReport.OwnershipRenounced {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategoryOwnership,
			Severity:       models.SeverityMedium,
			Weight:         0.5,
			ScoreImpact:    12,
			Title:          "Ownership Not Renounced",
			Description:    "Contract owner can still modify contract",
			Recommendation: "Owner has control - verify owner trustworthiness",
			Confidence:     0.8,
		})
	}
	if staticReport.HasMint {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategoryOwnership,
			Severity:       models.SeverityMedium,
			Weight:         0.3,
			ScoreImpact:    10,
			Title:          "Mint Function Present",
			Description:    "Contract can create new tokens",
			Recommendation: "Inflation risk - check mint controls",
			Confidence:     0.7,
		})
	}
	if staticReport.HasPause {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategoryOwnership,
			Severity:       models.SeverityMedium,
			Weight:         0.2,
			ScoreImpact:    8,
			Title:          "Pause Function Present",
			Description:    "Contract can be paused by owner",
			Recommendation: "Trading can be halted - check pause controls",
			Confidence:     0.7,
		})
	}

	return factors
}

func tradingFactors(verdict *models.HoneypotVerdict) []models.RiskFactor {
	if verdict == nil {
		return nil
	}
	var factors []models.RiskFactor

	buyTax, sellTax := verdict.BuyTax, verdict.SellTax
	if buyTax > 20 || sellTax > 20 {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategoryTrading,
			Severity:       models.SeverityHigh,
			Weight:         0.4,
			ScoreImpact:    20,
			Title:          "Extremely High Fees",
			Description:    fmt.Sprintf("Very high trading fees: Buy %.1f%%, Sell %.1f%%", buyTax, sellTax),
			Recommendation: "Extremely high fees - avoid trading",
			Confidence:     0.9,
			Evidence:       map[string]any{"buy_tax": buyTax, "sell_tax": sellTax},
		})
	} else if buyTax > 10 || sellTax > 10 {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategoryTrading,
			Severity:       models.SeverityMedium,
			Weight:         0.3,
			ScoreImpact:    12,
			Title:          "High Trading Fees",
			Description:    fmt.Sprintf("High trading fees: Buy %.1f%%, Sell %.1f%%", buyTax, sellTax),
			Recommendation: "High fees reduce profitability",
			Confidence:     0.8,
			Evidence:       map[string]any{"buy_tax": buyTax, "sell_tax": sellTax},
		})
	}

	if diff := math.Abs(buyTax - sellTax); diff > 15 {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategoryTrading,
			Severity:       models.SeverityMedium,
			Weight:         0.3,
			ScoreImpact:    10,
			Title:          "Large Fee Discrepancy",
			Description:    fmt.Sprintf("Large difference between buy (%.1f%%) and sell (%.1f%%) fees", buyTax, sellTax),
			Recommendation: "Unusual fee structure - investigate further",
			Confidence:     0.7,
			Evidence:       map[string]any{"buy_tax": buyTax, "sell_tax": sellTax, "difference": diff},
		})
	}

	return factors
}

func technicalFactors(staticReport *static.Report) []models.RiskFactor {
	var factors []models.RiskFactor

	if !staticReport.Verified {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategoryTechnical,
			Severity:       models.SeverityMedium,
			Weight:         0.4,
			ScoreImpact:    8,
			Title:          "Contract Not Verified",
			Description:    "Source code is not verified on blockchain explorer",
			Recommendation: "Cannot audit code - higher risk",
			Confidence:     0.9,
		})
	}
	if staticReport.HasBlacklist {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategoryTechnical,
			Severity:       models.SeverityMedium,
			Weight:         0.3,
			ScoreImpact:    6,
			Title:          "Blacklist Function",
			Description:    "Contract can blacklist addresses",
			Recommendation: "Addresses can be blocked from trading",
			Confidence:     0.7,
		})
	}
	if staticReport.IsProxy {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategoryTechnical,
			Severity:       models.SeverityLow,
			Weight:         0.3,
			ScoreImpact:    4,
			Title:          "Proxy Contract",
			Description:    "Contract uses proxy pattern",
			Recommendation: "Implementation can be changed - verify upgrade controls",
			Confidence:     0.6,
		})
	}

	return factors
}

func marketFactors(chainReport *onchain.Report) []models.RiskFactor {
	var factors []models.RiskFactor

	top := chainReport.TopHolderPercent
	if top > 50 {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategoryMarket,
			Severity:       models.SeverityHigh,
			Weight:         0.6,
			ScoreImpact:    15,
			Title:          "High Holder Concentration",
			Description:    fmt.Sprintf("Top holder owns %.1f%% of supply", top),
			Recommendation: "Whale risk - large holder can manipulate price",
			Confidence:     0.8,
			Evidence:       map[string]any{"top_holder_percent": top},
		})
	} else if top > 20 {
		factors = append(factors, models.RiskFactor{
			Category:       models.CategoryMarket,
			Severity:       models.SeverityMedium,
			Weight:         0.4,
			ScoreImpact:    8,
			Title:          "Moderate Holder Concentration",
			Description:    fmt.Sprintf("Top holder owns %.1f%% of supply", top),
			Recommendation: "Some concentration risk",
			Confidence:     0.7,
			Evidence:       map[string]any{"top_holder_percent": top},
		})
	}

	return factors
}
