package onchain

import (
	"math"
	"math/big"
	"testing"

	"github.com/inertlabs/tokenguard/internal/models"
)

func TestAnalyzeNilMetadata(t *testing.T) {
	report := Analyze(nil)
	if report == nil {
		t.Fatal("report must not be nil")
	}
	if report.HasLP || report.LPLocked || report.TopHolderPercent != 0 {
		t.Fatalf("nil metadata must yield a zero report, got %+v", report)
	}
}

func TestHolderConcentrationFromPercent(t *testing.T) {
	meta := &models.TokenMetadata{
		Holders: []models.Holder{
			{Address: "0xaaa", Percent: 40},
			{Address: "0xbbb", Percent: 25},
			{Address: "0xccc", Percent: 10},
		},
	}
	report := Analyze(meta)
	if report.TopHolderPercent != 40 {
		t.Fatalf("top holder %v, want 40", report.TopHolderPercent)
	}
	if report.Top10Percent != 75 {
		t.Fatalf("top10 %v, want 75", report.Top10Percent)
	}
}

func TestHolderConcentrationFromBalances(t *testing.T) {
	meta := &models.TokenMetadata{
		TotalSupply: big.NewInt(1000),
		Holders: []models.Holder{
			{Address: "0xaaa", Balance: big.NewInt(500)},
			{Address: "0xbbb", Balance: big.NewInt(250)},
		},
	}
	report := Analyze(meta)
	if math.Abs(report.TopHolderPercent-50) > 1e-9 {
		t.Fatalf("top holder %v, want 50", report.TopHolderPercent)
	}
	if math.Abs(report.Top10Percent-75) > 1e-9 {
		t.Fatalf("top10 %v, want 75", report.Top10Percent)
	}
}

func TestHolderConcentrationCapsAtTen(t *testing.T) {
	holders := make([]models.Holder, 15)
	for i := range holders {
		holders[i] = models.Holder{Percent: 5}
	}
	report := Analyze(&models.TokenMetadata{Holders: holders})
	if report.Top10Percent != 50 {
		t.Fatalf("top10 must stop at ten holders: %v, want 50", report.Top10Percent)
	}
}

func TestLockerDetection(t *testing.T) {
	meta := &models.TokenMetadata{
		LP: &models.LPInfo{
			PairAddress: "0x2222222222222222222222222222222222222222",
			LPHolders: []models.Holder{
				// PinkLock, mixed case on purpose
				{Address: "0x1FE80fC86816B778b529D3C2A3830E44A6519a25", Percent: 85},
				{Address: "0xdead000000000000000000000000000000000000", Percent: 10},
			},
		},
	}
	report := Analyze(meta)
	if !report.HasLP {
		t.Fatal("pair address means has_lp")
	}
	if !report.LPLocked {
		t.Fatal("locker holding must mark LP as locked")
	}
	if report.LPPercentLocked != 85 {
		t.Fatalf("locked percent %v, want 85", report.LPPercentLocked)
	}
	if report.LockerName != "PinkLock" {
		t.Fatalf("locker name %q, want PinkLock", report.LockerName)
	}
}

func TestProviderLockFlagKept(t *testing.T) {
	meta := &models.TokenMetadata{
		LP: &models.LPInfo{
			PairAddress:   "0x2222222222222222222222222222222222222222",
			Locked:        true,
			PercentLocked: 95,
		},
	}
	report := Analyze(meta)
	if !report.LPLocked || report.LPPercentLocked != 95 {
		t.Fatalf("provider lock flag lost: %+v", report)
	}
	if report.LockerName != "" {
		t.Fatalf("no locker verified, name must be empty, got %q", report.LockerName)
	}
}

func TestUnlockedLP(t *testing.T) {
	meta := &models.TokenMetadata{
		LP: &models.LPInfo{
			PairAddress: "0x2222222222222222222222222222222222222222",
			LPHolders: []models.Holder{
				{Address: "0xdeployer00000000000000000000000000000000", Percent: 100},
			},
		},
	}
	report := Analyze(meta)
	if report.LPLocked {
		t.Fatal("no locker holds LP, must not read as locked")
	}
}
