// Package scoring computes the multi-dimensional risk score: six weighted
// categories, each folded from immutable risk factors into a 0-100 score.
package scoring

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/inertlabs/tokenguard/internal/models"
	"github.com/inertlabs/tokenguard/internal/onchain"
	"github.com/inertlabs/tokenguard/internal/static"
)

const baseScore = 100.0

// CategoryWeights must sum to 1.0.
var CategoryWeights = map[models.RiskCategory]float64{
	models.CategorySecurity:  0.35,
	models.CategoryLiquidity: 0.20,
	models.CategoryOwnership: 0.15,
	models.CategoryTrading:   0.15,
	models.CategoryTechnical: 0.10,
	models.CategoryMarket:    0.05,
}

type Scorer struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{log: log}
}

// Score fuses static, honeypot and on-chain findings into a breakdown. It is
// a pure function of its inputs; any internal failure degrades to the
// conservative zero-score breakdown instead of propagating.
func (s *Scorer) Score(staticReport *static.Report, verdict *models.HoneypotVerdict, chainReport *onchain.Report) (breakdown *models.ScoreBreakdown) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("risk scoring panicked", zap.Any("panic", r))
			breakdown = errorBreakdown(fmt.Sprintf("internal failure: %v", r))
		}
	}()

	if staticReport == nil {
		staticReport = &static.Report{}
	}
	if chainReport == nil {
		chainReport = &onchain.Report{}
	}

	var factors []models.RiskFactor
	factors = append(factors, securityFactors(staticReport, verdict)...)
	factors = append(factors, liquidityFactors(chainReport, verdict)...)
	factors = append(factors, ownershipFactors(staticReport)...)
	factors = append(factors, tradingFactors(verdict)...)
	factors = append(factors, technicalFactors(staticReport)...)
	factors = append(factors, marketFactors(chainReport)...)

	categoryScores := calculateCategoryScores(factors)
	finalScore := weightedScore(categoryScores)

	breakdown = &models.ScoreBreakdown{
		BaseScore:       baseScore,
		CategoryScores:  categoryScores,
		RiskFactors:     factors,
		FinalScore:      finalScore,
		ConfidenceLevel: confidenceLevel(factors, staticReport, verdict),
		Grade:           GradeForScore(finalScore),
		RiskLevel:       RiskLevelForScore(finalScore),
	}

	s.log.Info("risk scoring completed",
		zap.Float64("final_score", breakdown.FinalScore),
		zap.String("grade", string(breakdown.Grade)),
		zap.String("risk_level", string(breakdown.RiskLevel)),
		zap.Int("total_factors", len(factors)),
		zap.Duration("duration", time.Since(start)),
	)
	return breakdown
}

// calculateCategoryScores folds each category's factors multiplicatively:
// every factor shaves a fraction of whatever score is left, so stacked
// penalties have diminishing returns and the result stays in [0,100].
func calculateCategoryScores(factors []models.RiskFactor) map[models.RiskCategory]float64 {
	scores := make(map[models.RiskCategory]float64, len(models.AllCategories))

	for _, category := range models.AllCategories {
		score := baseScore
		for _, factor := range factors {
			if factor.Category != category {
				continue
			}
			penaltyMultiplier := factor.Severity.Weight() * factor.Confidence * factor.Weight
			penaltyFraction := factor.ScoreImpact * penaltyMultiplier / 100.0
			score *= 1.0 - penaltyFraction
		}
		if score < 0 {
			score = 0
		}
		scores[category] = round1(score)
	}
	return scores
}

// weightedScore folds in AllCategories order: float addition is
// order-sensitive and map iteration is not.
func weightedScore(categoryScores map[models.RiskCategory]float64) float64 {
	var sum float64
	for _, category := range models.AllCategories {
		score, ok := categoryScores[category]
		if !ok {
			score = baseScore
		}
		sum += score * CategoryWeights[category]
	}
	return round1(clamp(sum))
}

// confidenceLevel is the unweighted mean of three terms: source verification,
// analysis method depth, and the mean factor confidence (omitted when there
// are no factors).
func confidenceLevel(factors []models.RiskFactor, staticReport *static.Report, verdict *models.HoneypotVerdict) float64 {
	terms := make([]float64, 0, 3)

	if staticReport.Verified {
		terms = append(terms, 0.9)
	} else {
		terms = append(terms, 0.6)
	}

	if verdict != nil && verdict.AnalysisMethod == "full_simulation" {
		terms = append(terms, 0.9)
	} else {
		terms = append(terms, 0.7)
	}

	if len(factors) > 0 {
		var sum float64
		for _, f := range factors {
			sum += f.Confidence
		}
		terms = append(terms, sum/float64(len(factors)))
	}

	var total float64
	for _, t := range terms {
		total += t
	}
	return round2(total / float64(len(terms)))
}

// GradeForScore maps a 0-100 score onto the letter-grade ladder.
func GradeForScore(score float64) models.Grade {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 85:
		return "A-"
	case score >= 80:
		return "B+"
	case score >= 75:
		return "B"
	case score >= 70:
		return "B-"
	case score >= 65:
		return "C+"
	case score >= 60:
		return "C"
	case score >= 55:
		return "C-"
	case score >= 50:
		return "D+"
	case score >= 45:
		return "D"
	case score >= 40:
		return "D-"
	default:
		return "F"
	}
}

// RiskLevelForScore maps a 0-100 score onto the scorer's risk ladder.
func RiskLevelForScore(score float64) models.RiskLevel {
	switch {
	case score >= 85:
		return models.RiskVeryLow
	case score >= 75:
		return models.RiskLow
	case score >= 65:
		return models.RiskModerate
	case score >= 50:
		return models.RiskHigh
	case score >= 30:
		return models.RiskVeryHigh
	default:
		return models.RiskCritical
	}
}

// errorBreakdown is the conservative result when scoring itself fails: zero
// everywhere, one critical technical factor describing the failure.
func errorBreakdown(errMsg string) *models.ScoreBreakdown {
	categoryScores := make(map[models.RiskCategory]float64, len(models.AllCategories))
	for _, category := range models.AllCategories {
		categoryScores[category] = 0
	}
	return &models.ScoreBreakdown{
		BaseScore:      baseScore,
		CategoryScores: categoryScores,
		RiskFactors: []models.RiskFactor{{
			Category:       models.CategoryTechnical,
			Severity:       models.SeverityCritical,
			Weight:         1.0,
			ScoreImpact:    100,
			Title:          "Analysis Failed",
			Description:    "Risk analysis failed: " + errMsg,
			Recommendation: "Cannot assess risk - avoid trading",
			Confidence:     0,
		}},
		FinalScore:      0,
		ConfidenceLevel: 0,
		Grade:           "F",
		RiskLevel:       models.RiskCritical,
	}
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
