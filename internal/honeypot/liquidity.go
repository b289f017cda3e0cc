package honeypot

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/inertlabs/tokenguard/internal/models"
)

// Prober is the chain surface the liquidity probe needs.
type Prober interface {
	GetPair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error)
	GetReserves(ctx context.Context, pair common.Address) (*big.Int, *big.Int, error)
	Token0(ctx context.Context, pair common.Address) (common.Address, error)
	CodeSize(ctx context.Context, addr common.Address) (int, error)
	WBNB() common.Address
}

// ProbeLiquidity asks the factory for the (token, WBNB) pair. A zero address
// means no pool. Nonzero deployed code at the pair is sufficient evidence of
// a live pool; reserves are enrichment and their failure does not flip the
// verdict. RPC failure degrades to has_liquidity=false with the error kept.
func ProbeLiquidity(ctx context.Context, p Prober, token common.Address) models.LiquiditySnapshot {
	pair, err := p.GetPair(ctx, token, p.WBNB())
	if err != nil {
		return models.LiquiditySnapshot{Error: err.Error()}
	}
	if pair == (common.Address{}) {
		return models.LiquiditySnapshot{}
	}

	snapshot := models.LiquiditySnapshot{PairAddress: pair.Hex()}

	size, err := p.CodeSize(ctx, pair)
	if err != nil {
		snapshot.Error = err.Error()
		return snapshot
	}
	if size == 0 {
		return snapshot
	}
	snapshot.HasLiquidity = true
	snapshot.CodeSize = size

	r0, r1, err := p.GetReserves(ctx, pair)
	if err != nil {
		return snapshot
	}
	token0, err := p.Token0(ctx, pair)
	if err != nil {
		return snapshot
	}
	if token0 == p.WBNB() {
		snapshot.ReserveBNB, snapshot.ReserveToken = r0.String(), r1.String()
	} else {
		snapshot.ReserveBNB, snapshot.ReserveToken = r1.String(), r0.String()
	}
	return snapshot
}
