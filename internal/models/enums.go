// Package models defines the shared data model for the token risk engine.
package models

// RiskCategory groups risk factors into the dimensions the scorer weighs.
type RiskCategory string

const (
	CategorySecurity  RiskCategory = "security"
	CategoryLiquidity RiskCategory = "liquidity"
	CategoryOwnership RiskCategory = "ownership"
	CategoryTrading   RiskCategory = "trading"
	CategoryTechnical RiskCategory = "technical"
	CategoryMarket    RiskCategory = "market"
)

// AllCategories lists every category in scoring order. The scorer iterates
// this slice so a category with no factors still gets a score.
var AllCategories = []RiskCategory{
	CategorySecurity,
	CategoryLiquidity,
	CategoryOwnership,
	CategoryTrading,
	CategoryTechnical,
	CategoryMarket,
}

// Severity classifies how bad a single risk factor is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// Weight returns the numeric penalty weight attached to the severity.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityCritical:
		return 1.0
	case SeverityHigh:
		return 0.7
	case SeverityMedium:
		return 0.4
	case SeverityLow:
		return 0.2
	default:
		return 0.1
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return "info"
	}
}

// SeverityFromString maps explorer/static-analysis severity tags onto the
// closed enum. Unknown tags land on medium.
func SeverityFromString(s string) Severity {
	switch s {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	case "info":
		return SeverityInfo
	default:
		return SeverityMedium
	}
}

// RiskLevel is the human-facing risk bucket. The honeypot verdict uses the
// LOW..CRITICAL end plus UNKNOWN; the scorer uses the full VERY_LOW..CRITICAL
// ladder.
type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "VERY_LOW"
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskVeryHigh RiskLevel = "VERY_HIGH"
	RiskCritical RiskLevel = "CRITICAL"
	RiskUnknown  RiskLevel = "UNKNOWN"
)

// Grade is the letter grade derived from the final score.
type Grade string
