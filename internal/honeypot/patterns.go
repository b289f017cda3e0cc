package honeypot

import (
	"strings"

	"github.com/inertlabs/tokenguard/internal/models"
)

// patternGroup is one named family of honeypot-indicative keywords.
type patternGroup struct {
	name     string
	keywords []string
}

// Keyword families observed in real BSC honeypots. Matching is
// case-insensitive substring search; this is deliberately not a Solidity
// parser.
var honeypotIndicators = []patternGroup{
	{"transfer restrictions", []string{"onlyOwner", "require(from == owner", "require(to == owner"}},
	{"sell blocking", []string{"revert()", "require(false)", "assert(false)"}},
	{"balance manipulation", []string{"balanceOf[", "_balances[", "return 0"}},
	{"approval blocking", []string{"approve(", "allowance(", "return false"}},
	{"blacklist functions", []string{"blacklist", "isBlacklisted", "blocked"}},
	{"pause functions", []string{"pause", "paused", "whenNotPaused"}},
	{"max transaction", []string{"maxTxAmount", "maxTransactionAmount", "require(amount <"}},
	{"cooldown mechanisms", []string{"cooldown", "lastTx", "block.timestamp"}},
}

// highSeverityGroups score double: these patterns directly block exits.
var highSeverityGroups = map[string]bool{
	"sell blocking":        true,
	"balance manipulation": true,
}

// Well-known security-library markers. Each verbatim occurrence deducts two
// points: contracts built on audited libraries trip keyword matches (pause,
// onlyOwner) without being honeypots.
var legitimateMarkers = []string{
	"OpenZeppelin",
	"SafeMath",
	"IERC20",
	"Context",
	"Ownable",
}

// ScanSource scans verified source text for honeypot-indicative keywords.
// Empty source yields a zero report; verification status is the metadata
// provider's concern.
func ScanSource(sourceCode string) *models.PatternReport {
	if sourceCode == "" {
		return &models.PatternReport{}
	}

	lower := strings.ToLower(sourceCode)
	report := &models.PatternReport{HasSource: true}

	for _, group := range honeypotIndicators {
		points := 5
		severity := models.SeverityMedium
		if highSeverityGroups[group.name] {
			points = 10
			severity = models.SeverityHigh
		}
		for _, keyword := range group.keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				report.Findings = append(report.Findings, models.PatternFinding{
					Pattern:  group.name,
					Keyword:  keyword,
					Severity: severity,
					Points:   points,
				})
				report.Score += points
			}
		}
	}

	for _, marker := range legitimateMarkers {
		if strings.Contains(sourceCode, marker) {
			report.Score -= 2
			if report.Score < 0 {
				report.Score = 0
			}
		}
	}

	report.Confidence = report.Score * 2
	if report.Confidence > 100 {
		report.Confidence = 100
	}
	return report
}
