// Package honeypot detects sell-blocking token contracts by fusing trade
// simulation, source pattern scanning and liquidity probing into one verdict.
package honeypot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/inertlabs/tokenguard/internal/models"
)

// TradeSimulator runs the buy/sell quote simulation. *simulator.Simulator
// satisfies it.
type TradeSimulator interface {
	Simulate(ctx context.Context, token common.Address) *models.SimulationReport
}

type Detector struct {
	sim   TradeSimulator
	chain Prober
	log   *zap.Logger
}

func NewDetector(sim TradeSimulator, chain Prober, log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{sim: sim, chain: chain, log: log}
}

// Detect runs the three analyzers concurrently and fuses their outputs. It
// always returns a structurally valid verdict; an internal panic degrades to
// the conservative worst-case verdict.
func (d *Detector) Detect(ctx context.Context, token common.Address, meta *models.TokenMetadata) (verdict *models.HoneypotVerdict) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("honeypot detection panicked",
				zap.String("token", token.Hex()),
				zap.Any("panic", r),
			)
			verdict = errorVerdict(fmt.Sprintf("internal failure: %v", r))
		}
	}()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		failures  []string
		sim       *models.SimulationReport
		patterns  *models.PatternReport
		liquidity models.LiquiditySnapshot
	)

	sourceCode := ""
	if meta != nil {
		sourceCode = meta.SourceCode
	}

	// Each analyzer carries its own recover: a panic escaping a goroutine
	// kills the process before the deferred recover above could see it.
	guarded := func(fn func()) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%v", r))
				mu.Unlock()
			}
		}()
		fn()
	}

	// The three signal sources share no state; only the fusion waits on all.
	wg.Add(3)
	go guarded(func() { sim = d.sim.Simulate(ctx, token) })
	go guarded(func() { patterns = ScanSource(sourceCode) })
	go guarded(func() { liquidity = ProbeLiquidity(ctx, d.chain, token) })
	wg.Wait()

	if len(failures) > 0 {
		d.log.Error("honeypot analyzer panicked",
			zap.String("token", token.Hex()),
			zap.Strings("failures", failures),
		)
		return errorVerdict("internal failure: " + strings.Join(failures, "; "))
	}

	// Event-log based history analysis is not wired yet; the aggregator
	// treats the signal as absent evidence.
	history := &models.TxHistory{}

	verdict = Combine(sim, patterns, &liquidity, history)

	d.log.Info("honeypot detection completed",
		zap.String("token", token.Hex()),
		zap.Bool("is_honeypot", verdict.IsHoneypot),
		zap.Int("confidence", verdict.Confidence),
		zap.String("risk_level", string(verdict.RiskLevel)),
		zap.Duration("duration", time.Since(start)),
	)
	return verdict
}

// Combine is the pure fusion step. Branches are evaluated in priority order;
// each contributes one indicator and one confidence candidate. Candidates are
// reduced with max, never summed or averaged: one strong signal must not be
// diluted by weaker ones.
func Combine(sim *models.SimulationReport, patterns *models.PatternReport, liquidity *models.LiquiditySnapshot, history *models.TxHistory) *models.HoneypotVerdict {
	if sim == nil {
		sim = &models.SimulationReport{}
	}
	if patterns == nil {
		patterns = &models.PatternReport{}
	}
	if liquidity == nil {
		liquidity = &models.LiquiditySnapshot{}
	}

	var indicators []string
	var candidates []int

	switch {
	case sim.CanBuy && !sim.CanSell:
		indicators = append(indicators, "Cannot sell after buying")
		candidates = append(candidates, 90)
	case !sim.CanBuy:
		indicators = append(indicators, "Cannot buy tokens")
		candidates = append(candidates, 70)
	case sim.AvgSellTax > 50:
		indicators = append(indicators, fmt.Sprintf("Extremely high sell tax: %.1f%%", sim.AvgSellTax))
		candidates = append(candidates, 80)
	case sim.AvgSellTax > 20:
		indicators = append(indicators, fmt.Sprintf("High sell tax: %.1f%%", sim.AvgSellTax))
		candidates = append(candidates, 60)
	}

	switch {
	case patterns.Score > 30:
		indicators = append(indicators, "Multiple suspicious code patterns")
		candidates = append(candidates, 70)
	case patterns.Score > 15:
		indicators = append(indicators, "Some suspicious code patterns")
		candidates = append(candidates, 40)
	}

	if !liquidity.HasLiquidity {
		indicators = append(indicators, "No liquidity pool found")
		candidates = append(candidates, 30)
	}

	maxConfidence := 0
	for _, c := range candidates {
		if c > maxConfidence {
			maxConfidence = c
		}
	}

	isHoneypot := len(indicators) > 0 && maxConfidence > 60
	confidence := 5
	if len(indicators) > 0 {
		confidence = maxConfidence
	}

	return &models.HoneypotVerdict{
		IsHoneypot:     isHoneypot,
		Confidence:     confidence,
		RiskLevel:      riskLevelFor(confidence),
		Indicators:     indicators,
		Recommendation: recommendation(isHoneypot, confidence),
		CanBuy:         sim.CanBuy,
		CanSell:        sim.CanSell,
		BuyTax:         sim.AvgBuyTax,
		SellTax:        sim.AvgSellTax,
		Simulation:     sim,
		Patterns:       patterns,
		Liquidity:      liquidity,
		History:        history,
		AnalysisMethod: "full_simulation",
	}
}

func riskLevelFor(confidence int) models.RiskLevel {
	switch {
	case confidence >= 80:
		return models.RiskCritical
	case confidence >= 60:
		return models.RiskHigh
	case confidence >= 30:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func recommendation(isHoneypot bool, confidence int) string {
	switch {
	case isHoneypot && confidence >= 80:
		return "🚨 AVOID - High probability honeypot detected"
	case isHoneypot && confidence >= 60:
		return "⚠️ HIGH RISK - Likely honeypot, avoid trading"
	case confidence >= 30:
		return "⚡ MODERATE RISK - Exercise caution, small test trades only"
	default:
		return "✅ LOW RISK - No significant honeypot indicators found"
	}
}

// errorVerdict assumes the worst when detection itself fails.
func errorVerdict(errMsg string) *models.HoneypotVerdict {
	return &models.HoneypotVerdict{
		IsHoneypot:     true,
		Confidence:     0,
		RiskLevel:      models.RiskUnknown,
		Indicators:     []string{"Analysis failed"},
		Recommendation: "⚠️ UNKNOWN RISK - Analysis failed, proceed with extreme caution",
		AnalysisMethod: "degraded",
		Error:          errMsg,
	}
}
