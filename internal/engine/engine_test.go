package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/inertlabs/tokenguard/internal/models"
	"github.com/inertlabs/tokenguard/internal/scoring"
)

type fakeSource struct {
	meta *models.TokenMetadata
	err  error
}

func (f *fakeSource) TokenMetadata(context.Context, common.Address) (*models.TokenMetadata, error) {
	return f.meta, f.err
}

type fakeDetector struct {
	verdict *models.HoneypotVerdict
}

func (f *fakeDetector) Detect(context.Context, common.Address, *models.TokenMetadata) *models.HoneypotVerdict {
	return f.verdict
}

func cleanVerdict() *models.HoneypotVerdict {
	return &models.HoneypotVerdict{
		CanBuy:         true,
		CanSell:        true,
		Liquidity:      &models.LiquiditySnapshot{HasLiquidity: true},
		RiskLevel:      models.RiskLow,
		AnalysisMethod: "full_simulation",
	}
}

const testAddress = "0x1111111111111111111111111111111111111111"

func TestAnalyzeInvalidAddress(t *testing.T) {
	eng := New(&fakeSource{}, &fakeDetector{verdict: cleanVerdict()}, scoring.New(nil), nil)

	for _, bad := range []string{"", "not-an-address", "0x123", "1111111111111111111111111111111111111111ZZ"} {
		if _, err := eng.Analyze(context.Background(), bad); err == nil {
			t.Errorf("address %q must be rejected", bad)
		}
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	meta := &models.TokenMetadata{
		Address:    testAddress,
		Name:       "Test Token",
		Symbol:     "TST",
		SourceCode: "function renounceOwnership() public {}",
	}
	eng := New(&fakeSource{meta: meta}, &fakeDetector{verdict: cleanVerdict()}, scoring.New(nil), nil)

	analysis, err := eng.Analyze(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.RequestID == "" {
		t.Fatal("request id missing")
	}
	if analysis.Token.Symbol != "TST" {
		t.Fatalf("metadata lost: %+v", analysis.Token)
	}
	if analysis.Verdict == nil || analysis.Verdict.IsHoneypot {
		t.Fatalf("verdict %+v", analysis.Verdict)
	}
	if analysis.Static == nil || !analysis.Static.Verified {
		t.Fatal("static analysis must run on the source")
	}
	if !analysis.Static.OwnershipRenounced {
		t.Fatal("renounce not picked up from source")
	}
	if analysis.OnChain == nil {
		t.Fatal("on-chain report missing")
	}
	if analysis.Breakdown == nil || analysis.Breakdown.FinalScore <= 0 {
		t.Fatalf("breakdown %+v", analysis.Breakdown)
	}
}

func TestAnalyzeDegradesOnMetadataFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("explorer down")}
	eng := New(source, &fakeDetector{verdict: cleanVerdict()}, scoring.New(nil), nil)

	analysis, err := eng.Analyze(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("metadata failure must not fail the analysis: %v", err)
	}
	if analysis.Token == nil || analysis.Token.Address == "" {
		t.Fatal("minimal snapshot must carry the address")
	}
	// no source means unverified static analysis
	if analysis.Static.Verified {
		t.Fatal("minimal snapshot cannot be verified")
	}
	if analysis.Breakdown == nil {
		t.Fatal("scoring must still run")
	}
}

// A proxy's verified source is the shim, so the delegatecall heuristic never
// fires on it; the explorer's proxy flag must reach the static report.
func TestAnalyzeExplorerProxyFlag(t *testing.T) {
	meta := &models.TokenMetadata{
		Address:    testAddress,
		SourceCode: "contract Shim { fallback() external payable {} }",
		IsProxy:    true,
	}
	eng := New(&fakeSource{meta: meta}, &fakeDetector{verdict: cleanVerdict()}, scoring.New(nil), nil)

	analysis, err := eng.Analyze(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !analysis.Static.IsProxy {
		t.Fatal("explorer proxy flag must mark the static report")
	}
}

func TestAnalyzeUniqueRequestIDs(t *testing.T) {
	eng := New(&fakeSource{meta: &models.TokenMetadata{Address: testAddress}},
		&fakeDetector{verdict: cleanVerdict()}, scoring.New(nil), nil)

	first, err := eng.Analyze(context.Background(), testAddress)
	if err != nil {
		t.Fatal(err)
	}
	second, err := eng.Analyze(context.Background(), testAddress)
	if err != nil {
		t.Fatal(err)
	}
	if first.RequestID == second.RequestID {
		t.Fatal("request ids must be unique per run")
	}
}
