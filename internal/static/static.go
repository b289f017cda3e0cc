// Package static scans verified contract source for dangerous functions and
// modifiers. Detection is keyword/regex based, not semantic.
package static

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/inertlabs/tokenguard/internal/models"
)

// Functions that let a privileged party change trading conditions after
// launch.
var dangerousFunctions = []string{
	"mint", "setFee", "setFees", "excludeFromReward", "includeInReward",
	"setTaxFeePercent", "setBuyFee", "setSellFee", "setSellTax",
	"blacklist", "pause", "unpause", "transferOwnership", "renounceOwnership",
}

var dangerousModifiers = []string{
	"onlyOwner", "admin", "isOwner", "hasRole",
}

var renounceRe = regexp.MustCompile(`function\s+renounceOwnership\s*\(`)

// Finding is one dangerous function hit.
type Finding struct {
	Name     string          `json:"name"`
	Severity models.Severity `json:"severity"`
	Message  string          `json:"message"`
}

// Report is the static analysis outcome for one contract.
type Report struct {
	Verified bool `json:"is_verified"`

	HasMint      bool `json:"has_mint"`
	HasBlacklist bool `json:"has_blacklist"`
	HasSetFee    bool `json:"has_set_fee"`
	HasOnlyOwner bool `json:"has_only_owner"`
	HasPause     bool `json:"has_pause"`
	IsProxy      bool `json:"is_proxy"`

	OwnershipRenounced bool `json:"ownership_renounced"`

	DangerousFunctions []Finding `json:"dangerous_functions_found"`
	DangerousModifiers []string  `json:"dangerous_modifiers_found"`
	TotalMatches       int       `json:"total_dangerous_matches"`
}

// Analyze scans source text. Empty source means the contract is unverified;
// the report carries that as its only signal.
func Analyze(sourceCode string) *Report {
	if sourceCode == "" {
		return &Report{}
	}

	report := &Report{Verified: true}

	if renounceRe.MatchString(sourceCode) {
		report.OwnershipRenounced = true
	}

	for _, fn := range dangerousFunctions {
		re := regexp.MustCompile(`(?i)function\s+` + regexp.QuoteMeta(fn) + `\s*\(`)
		if !re.MatchString(sourceCode) {
			continue
		}
		severity := classifyFunction(fn, report)
		report.DangerousFunctions = append(report.DangerousFunctions, Finding{
			Name:     fn,
			Severity: severity,
			Message:  fmt.Sprintf("Dangerous function '%s' found in contract", fn),
		})
		report.TotalMatches++
	}

	for _, mod := range dangerousModifiers {
		modRe := regexp.MustCompile(`(?i)(modifier\s+` + regexp.QuoteMeta(mod) + `|\b` + regexp.QuoteMeta(mod) + `\s*\()`)
		if !modRe.MatchString(sourceCode) {
			continue
		}
		report.DangerousModifiers = append(report.DangerousModifiers, mod)
		report.TotalMatches++
		if strings.Contains(strings.ToLower(mod), "owner") {
			report.HasOnlyOwner = true
		}
	}

	if strings.Contains(strings.ToLower(sourceCode), "delegatecall") {
		report.IsProxy = true
	}

	return report
}

// classifyFunction assigns severity and flips the matching capability flag.
func classifyFunction(fn string, report *Report) models.Severity {
	lower := strings.ToLower(fn)
	switch {
	case fn == "mint":
		report.HasMint = true
		return models.SeverityHigh
	case fn == "blacklist":
		report.HasBlacklist = true
		return models.SeverityHigh
	case fn == "pause" || fn == "unpause":
		report.HasPause = true
		return models.SeverityMedium
	case strings.Contains(lower, "fee") || strings.Contains(lower, "tax"):
		report.HasSetFee = true
		return models.SeverityMedium
	default:
		return models.SeverityMedium
	}
}
