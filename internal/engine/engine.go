// Package engine runs the full analysis pipeline: metadata snapshot, then
// honeypot detection and static analysis in parallel, then on-chain analysis
// and the final risk score.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inertlabs/tokenguard/internal/models"
	"github.com/inertlabs/tokenguard/internal/onchain"
	"github.com/inertlabs/tokenguard/internal/scoring"
	"github.com/inertlabs/tokenguard/internal/static"
)

// MetadataSource supplies token snapshots. *metadata.Provider satisfies it.
type MetadataSource interface {
	TokenMetadata(ctx context.Context, token common.Address) (*models.TokenMetadata, error)
}

// HoneypotDetector runs the honeypot pipeline. *honeypot.Detector satisfies it.
type HoneypotDetector interface {
	Detect(ctx context.Context, token common.Address, meta *models.TokenMetadata) *models.HoneypotVerdict
}

type Engine struct {
	source   MetadataSource
	detector HoneypotDetector
	scorer   *scoring.Scorer
	log      *zap.Logger
}

func New(source MetadataSource, detector HoneypotDetector, scorer *scoring.Scorer, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{source: source, detector: detector, scorer: scorer, log: log}
}

// Analysis is the complete result for one token.
type Analysis struct {
	RequestID string                 `json:"request_id"`
	Token     *models.TokenMetadata  `json:"token"`
	Verdict   *models.HoneypotVerdict `json:"honeypot"`
	Static    *static.Report         `json:"static_analysis"`
	OnChain   *onchain.Report        `json:"onchain_analysis"`
	Breakdown *models.ScoreBreakdown `json:"score"`
	Duration  time.Duration          `json:"-"`
}

// Analyze runs the pipeline for one token address. A bad address is the only
// caller error; everything downstream degrades to conservative values.
func (e *Engine) Analyze(ctx context.Context, address string) (*Analysis, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid token address: %q", address)
	}
	token := common.HexToAddress(address)
	requestID := uuid.NewString()
	start := time.Now()

	log := e.log.With(zap.String("request_id", requestID), zap.String("token", token.Hex()))
	log.Info("token analysis started")

	meta, err := e.source.TokenMetadata(ctx, token)
	if err != nil {
		log.Warn("metadata fetch failed, analyzing with minimal snapshot", zap.Error(err))
		meta = &models.TokenMetadata{Address: token.Hex()}
	}

	var (
		wg           sync.WaitGroup
		verdict      *models.HoneypotVerdict
		staticReport *static.Report
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		verdict = e.detector.Detect(ctx, token, meta)
	}()
	go func() {
		defer wg.Done()
		staticReport = static.Analyze(meta.SourceCode)
	}()
	wg.Wait()

	// The explorer's proxy flag supplements the delegatecall heuristic:
	// a proxy's verified source is the thin shim, not the implementation.
	if meta.IsProxy {
		staticReport.IsProxy = true
	}

	chainReport := onchain.Analyze(meta)
	breakdown := e.scorer.Score(staticReport, verdict, chainReport)

	analysis := &Analysis{
		RequestID: requestID,
		Token:     meta,
		Verdict:   verdict,
		Static:    staticReport,
		OnChain:   chainReport,
		Breakdown: breakdown,
		Duration:  time.Since(start),
	}

	log.Info("token analysis completed",
		zap.Bool("is_honeypot", verdict.IsHoneypot),
		zap.Float64("final_score", breakdown.FinalScore),
		zap.String("grade", string(breakdown.Grade)),
		zap.Duration("duration", analysis.Duration),
	)
	return analysis, nil
}
