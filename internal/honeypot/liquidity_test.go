package honeypot

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	probeWBNB  = common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaeBF2De08d9173bc095c")
	probeToken = common.HexToAddress("0x1111111111111111111111111111111111111111")
	probePair  = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

type fakeProber struct {
	pair        common.Address
	pairErr     error
	codeSize    int
	codeErr     error
	reserve0    *big.Int
	reserve1    *big.Int
	reservesErr error
	token0      common.Address
}

func (f *fakeProber) WBNB() common.Address { return probeWBNB }

func (f *fakeProber) GetPair(context.Context, common.Address, common.Address) (common.Address, error) {
	return f.pair, f.pairErr
}

func (f *fakeProber) CodeSize(context.Context, common.Address) (int, error) {
	return f.codeSize, f.codeErr
}

func (f *fakeProber) GetReserves(context.Context, common.Address) (*big.Int, *big.Int, error) {
	return f.reserve0, f.reserve1, f.reservesErr
}

func (f *fakeProber) Token0(context.Context, common.Address) (common.Address, error) {
	return f.token0, nil
}

func TestProbeLiquidityNoPair(t *testing.T) {
	snapshot := ProbeLiquidity(context.Background(), &fakeProber{}, probeToken)
	if snapshot.HasLiquidity {
		t.Fatal("zero pair address means no pool")
	}
	if snapshot.Error != "" {
		t.Fatalf("no pool is not an error, got %q", snapshot.Error)
	}
}

func TestProbeLiquidityLivePool(t *testing.T) {
	fake := &fakeProber{
		pair:     probePair,
		codeSize: 9000,
		reserve0: big.NewInt(500),
		reserve1: big.NewInt(1000),
		token0:   probeWBNB,
	}
	snapshot := ProbeLiquidity(context.Background(), fake, probeToken)
	if !snapshot.HasLiquidity {
		t.Fatal("deployed pair code means a live pool")
	}
	if snapshot.PairAddress != probePair.Hex() {
		t.Fatalf("pair address %q", snapshot.PairAddress)
	}
	if snapshot.CodeSize != 9000 {
		t.Fatalf("code size %d", snapshot.CodeSize)
	}
	if snapshot.ReserveBNB != "500" || snapshot.ReserveToken != "1000" {
		t.Fatalf("reserves %s/%s, want 500/1000", snapshot.ReserveBNB, snapshot.ReserveToken)
	}
}

func TestProbeLiquidityReserveOrientation(t *testing.T) {
	// token0 is the token, not WBNB: reserves must swap
	fake := &fakeProber{
		pair:     probePair,
		codeSize: 9000,
		reserve0: big.NewInt(1000),
		reserve1: big.NewInt(500),
		token0:   probeToken,
	}
	snapshot := ProbeLiquidity(context.Background(), fake, probeToken)
	if snapshot.ReserveBNB != "500" || snapshot.ReserveToken != "1000" {
		t.Fatalf("reserves %s/%s, want 500/1000", snapshot.ReserveBNB, snapshot.ReserveToken)
	}
}

func TestProbeLiquidityEmptyPairContract(t *testing.T) {
	fake := &fakeProber{pair: probePair, codeSize: 0}
	snapshot := ProbeLiquidity(context.Background(), fake, probeToken)
	if snapshot.HasLiquidity {
		t.Fatal("a pair address with no deployed code is not a live pool")
	}
}

func TestProbeLiquidityRPCFailure(t *testing.T) {
	fake := &fakeProber{pairErr: errors.New("connection refused")}
	snapshot := ProbeLiquidity(context.Background(), fake, probeToken)
	if snapshot.HasLiquidity {
		t.Fatal("RPC failure must degrade to has_liquidity=false")
	}
	if snapshot.Error == "" {
		t.Fatal("RPC failure must be recorded")
	}
}

func TestProbeLiquidityReserveFailureIsNonFatal(t *testing.T) {
	fake := &fakeProber{
		pair:        probePair,
		codeSize:    9000,
		reservesErr: errors.New("execution aborted"),
	}
	snapshot := ProbeLiquidity(context.Background(), fake, probeToken)
	if !snapshot.HasLiquidity {
		t.Fatal("reserve read failure must not flip the liquidity verdict")
	}
	if snapshot.ReserveBNB != "" {
		t.Fatal("reserves must stay empty when the read fails")
	}
}
