package metadata

import (
	"bytes"
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/inertlabs/tokenguard/internal/cache"
	"github.com/inertlabs/tokenguard/internal/models"
)

var (
	metaWBNB  = common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaeBF2De08d9173bc095c")
	metaToken = common.HexToAddress("0x1111111111111111111111111111111111111111")
	metaPair  = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

type fakeView struct {
	viewCalls int
	pair      common.Address
	reserve0  *big.Int
	reserve1  *big.Int
	token0    common.Address
}

func (f *fakeView) WBNB() common.Address { return metaWBNB }

func (f *fakeView) CallView(_ context.Context, _ common.Address, data []byte) ([]byte, error) {
	f.viewCalls++
	switch {
	case bytes.Equal(data, selName):
		return encodeABIString("Test Token"), nil
	case bytes.Equal(data, selSymbol):
		return encodeABIString("TST"), nil
	case bytes.Equal(data, selDecimals):
		return common.LeftPadBytes(big.NewInt(18).Bytes(), 32), nil
	case bytes.Equal(data, selTotalSupply):
		return common.LeftPadBytes(big.NewInt(1_000_000).Bytes(), 32), nil
	}
	return nil, nil
}

func (f *fakeView) GetPair(context.Context, common.Address, common.Address) (common.Address, error) {
	return f.pair, nil
}

func (f *fakeView) GetReserves(context.Context, common.Address) (*big.Int, *big.Int, error) {
	return f.reserve0, f.reserve1, nil
}

func (f *fakeView) Token0(context.Context, common.Address) (common.Address, error) {
	return f.token0, nil
}

func encodeABIString(s string) []byte {
	out := make([]byte, 0, 96)
	out = append(out, common.LeftPadBytes(big.NewInt(32).Bytes(), 32)...)
	out = append(out, common.LeftPadBytes(big.NewInt(int64(len(s))).Bytes(), 32)...)
	padded := make([]byte, (len(s)+31)/32*32)
	copy(padded, s)
	return append(out, padded...)
}

func TestTokenMetadataSnapshot(t *testing.T) {
	fake := &fakeView{
		pair:     metaPair,
		reserve0: big.NewInt(500),
		reserve1: big.NewInt(1000),
		token0:   metaWBNB,
	}
	provider := NewProvider(fake, nil, cache.NewMemoryStore(), time.Minute, nil)

	meta, err := provider.TokenMetadata(context.Background(), metaToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Name != "Test Token" || meta.Symbol != "TST" {
		t.Fatalf("basics %q/%q", meta.Name, meta.Symbol)
	}
	if meta.Decimals != 18 {
		t.Fatalf("decimals %d", meta.Decimals)
	}
	if meta.TotalSupply.Int64() != 1_000_000 {
		t.Fatalf("total supply %v", meta.TotalSupply)
	}
	if meta.LP == nil || meta.LP.PairAddress != metaPair.Hex() {
		t.Fatalf("LP info missing: %+v", meta.LP)
	}
	if meta.LP.ReserveBNB.Int64() != 500 || meta.LP.ReserveToken.Int64() != 1000 {
		t.Fatalf("reserves %v/%v, want 500/1000", meta.LP.ReserveBNB, meta.LP.ReserveToken)
	}
}

func TestTokenMetadataCached(t *testing.T) {
	fake := &fakeView{}
	provider := NewProvider(fake, nil, cache.NewMemoryStore(), time.Minute, nil)

	if _, err := provider.TokenMetadata(context.Background(), metaToken); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	callsAfterFirst := fake.viewCalls
	if callsAfterFirst == 0 {
		t.Fatal("first fetch must hit the chain")
	}

	meta, err := provider.TokenMetadata(context.Background(), metaToken)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if fake.viewCalls != callsAfterFirst {
		t.Fatalf("second fetch must come from cache, calls went %d -> %d", callsAfterFirst, fake.viewCalls)
	}
	if meta.Name != "Test Token" {
		t.Fatalf("cached snapshot lost fields: %+v", meta)
	}
}

func TestLPReserveOrientation(t *testing.T) {
	fake := &fakeView{
		pair:     metaPair,
		reserve0: big.NewInt(1000),
		reserve1: big.NewInt(500),
		token0:   metaToken, // token side first: reserves must swap
	}
	provider := NewProvider(fake, nil, cache.NewMemoryStore(), time.Minute, nil)

	meta, err := provider.TokenMetadata(context.Background(), metaToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.LP.ReserveBNB.Int64() != 500 || meta.LP.ReserveToken.Int64() != 1000 {
		t.Fatalf("reserves %v/%v, want 500/1000", meta.LP.ReserveBNB, meta.LP.ReserveToken)
	}
}

func TestWithPercentages(t *testing.T) {
	holders := []models.Holder{
		{Address: "0xaaa", Balance: big.NewInt(500)},
		{Address: "0xbbb", Balance: big.NewInt(250)},
		{Address: "0xccc"},
	}
	out := withPercentages(holders, big.NewInt(1000))
	if out[0].Percent != 50 || out[1].Percent != 25 {
		t.Fatalf("percentages %v/%v, want 50/25", out[0].Percent, out[1].Percent)
	}
	if out[2].Percent != 0 {
		t.Fatalf("holder without balance must stay at 0, got %v", out[2].Percent)
	}

	// no supply: holders pass through untouched
	same := withPercentages(holders, nil)
	if same[0].Percent != 0 {
		t.Fatal("no supply means no percentages")
	}
}

func TestDecodeABIString(t *testing.T) {
	if got := decodeABIString(encodeABIString("CAKE")); got != "CAKE" {
		t.Fatalf("dynamic string decoded as %q", got)
	}

	// nonstandard tokens return raw padded bytes
	raw := make([]byte, 32)
	copy(raw, "BNB")
	if got := decodeABIString(raw); got != "BNB" {
		t.Fatalf("raw bytes decoded as %q", got)
	}

	if got := decodeABIString(nil); got != "" {
		t.Fatalf("empty response decoded as %q", got)
	}
}
