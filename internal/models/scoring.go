package models

// RiskFactor is one immutable fact emitted by a category analyzer. ScoreImpact
// is a non-negative magnitude in points; the direction (penalty) is implicit.
type RiskFactor struct {
	Category       RiskCategory   `json:"category"`
	Severity       Severity       `json:"severity"`
	Weight         float64        `json:"weight"`
	ScoreImpact    float64        `json:"score_impact"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Recommendation string         `json:"recommendation"`
	Confidence     float64        `json:"confidence"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// ScoreBreakdown is the scorer's full output. A new breakdown is produced per
// analysis; it is never updated in place.
type ScoreBreakdown struct {
	BaseScore       float64                  `json:"base_score"`
	CategoryScores  map[RiskCategory]float64 `json:"category_scores"`
	RiskFactors     []RiskFactor             `json:"risk_factors"`
	FinalScore      float64                  `json:"final_score"`
	ConfidenceLevel float64                  `json:"confidence_level"`
	Grade           Grade                    `json:"grade"`
	RiskLevel       RiskLevel                `json:"risk_level"`
}
