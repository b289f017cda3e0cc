// Package metadata assembles the immutable TokenMetadata snapshot the engine
// analyzes: ERC-20 view calls for the basics, the explorer for verified
// source and holders. Snapshots are cached with a TTL behind an injected
// store; the scoring core stays cache-free.
package metadata

import (
	"context"
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/inertlabs/tokenguard/internal/cache"
	"github.com/inertlabs/tokenguard/internal/models"
)

// ERC-20 view selectors.
var (
	selName        = common.FromHex("0x06fdde03")
	selSymbol      = common.FromHex("0x95d89b41")
	selDecimals    = common.FromHex("0x313ce567")
	selTotalSupply = common.FromHex("0x18160ddd")
)

const topHolderLimit = 10

// ViewCaller is the chain surface the provider needs.
type ViewCaller interface {
	CallView(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	GetPair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error)
	GetReserves(ctx context.Context, pair common.Address) (*big.Int, *big.Int, error)
	Token0(ctx context.Context, pair common.Address) (common.Address, error)
	WBNB() common.Address
}

type Provider struct {
	chain ViewCaller
	scan  *BscScanClient
	store cache.Store
	ttl   time.Duration
	log   *zap.Logger
}

func NewProvider(chain ViewCaller, scan *BscScanClient, store cache.Store, ttl time.Duration, log *zap.Logger) *Provider {
	if store == nil {
		store = cache.NewMemoryStore()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{chain: chain, scan: scan, store: store, ttl: ttl, log: log}
}

// TokenMetadata returns the cached snapshot or fetches a fresh one. Partial
// failures degrade individual fields rather than failing the snapshot; only
// a token with no readable basics at all is an error.
func (p *Provider) TokenMetadata(ctx context.Context, token common.Address) (*models.TokenMetadata, error) {
	key := "token_metadata:" + token.Hex()
	if b, ok, err := p.store.Get(ctx, key); err == nil && ok {
		var cached models.TokenMetadata
		if err := json.Unmarshal(b, &cached); err == nil {
			p.log.Debug("metadata cache hit", zap.String("token", token.Hex()))
			return &cached, nil
		}
	}

	meta := &models.TokenMetadata{Address: token.Hex()}
	p.fillERC20Basics(ctx, token, meta)

	if p.scan != nil {
		source, verified, proxy, err := p.scan.GetContractSource(ctx, token.Hex())
		if err != nil {
			p.log.Warn("source fetch failed", zap.String("token", token.Hex()), zap.Error(err))
		} else {
			meta.SourceCode = source
			meta.SourceVerified = verified
			meta.IsProxy = proxy
		}

		holders, err := p.scan.GetTopHolders(ctx, token.Hex(), topHolderLimit)
		if err != nil {
			p.log.Warn("holder fetch failed", zap.String("token", token.Hex()), zap.Error(err))
		} else {
			meta.Holders = withPercentages(holders, meta.TotalSupply)
		}
	}

	p.fillLPInfo(ctx, token, meta)

	if b, err := json.Marshal(meta); err == nil {
		if err := p.store.Set(ctx, key, b, p.ttl); err != nil {
			p.log.Warn("metadata cache write failed", zap.Error(err))
		}
	}
	return meta, nil
}

func (p *Provider) fillERC20Basics(ctx context.Context, token common.Address, meta *models.TokenMetadata) {
	if out, err := p.chain.CallView(ctx, token, selName); err == nil {
		meta.Name = decodeABIString(out)
	}
	if out, err := p.chain.CallView(ctx, token, selSymbol); err == nil {
		meta.Symbol = decodeABIString(out)
	}
	if out, err := p.chain.CallView(ctx, token, selDecimals); err == nil && len(out) > 0 {
		meta.Decimals = uint8(new(big.Int).SetBytes(out).Uint64())
	}
	if out, err := p.chain.CallView(ctx, token, selTotalSupply); err == nil && len(out) > 0 {
		meta.TotalSupply = new(big.Int).SetBytes(out)
	}
}

func (p *Provider) fillLPInfo(ctx context.Context, token common.Address, meta *models.TokenMetadata) {
	pair, err := p.chain.GetPair(ctx, token, p.chain.WBNB())
	if err != nil || pair == (common.Address{}) {
		return
	}
	lp := &models.LPInfo{PairAddress: pair.Hex()}

	r0, r1, err := p.chain.GetReserves(ctx, pair)
	if err == nil {
		if token0, terr := p.chain.Token0(ctx, pair); terr == nil {
			if token0 == p.chain.WBNB() {
				lp.ReserveBNB, lp.ReserveToken = r0, r1
			} else {
				lp.ReserveBNB, lp.ReserveToken = r1, r0
			}
		}
	}
	meta.LP = lp
}

// withPercentages annotates holders with their share of total supply.
func withPercentages(holders []models.Holder, totalSupply *big.Int) []models.Holder {
	if totalSupply == nil || totalSupply.Sign() == 0 {
		return holders
	}
	supply := decimal.NewFromBigInt(totalSupply, 0)
	out := make([]models.Holder, len(holders))
	for i, h := range holders {
		out[i] = h
		if h.Balance != nil {
			pct := decimal.NewFromBigInt(h.Balance, 0).Div(supply).Mul(decimal.NewFromInt(100))
			out[i].Percent, _ = pct.Round(4).Float64()
		}
	}
	return out
}

// decodeABIString handles both dynamic ABI strings and the raw bytes some
// nonstandard tokens return.
func decodeABIString(out []byte) string {
	if len(out) >= 64 {
		offset := new(big.Int).SetBytes(out[0:32]).Uint64()
		if offset == 32 {
			length := new(big.Int).SetBytes(out[32:64]).Uint64()
			if 64+length <= uint64(len(out)) {
				return string(out[64 : 64+length])
			}
		}
	}
	trimmed := make([]byte, 0, len(out))
	for _, b := range out {
		if b >= 0x20 && b < 0x7f {
			trimmed = append(trimmed, b)
		}
	}
	return string(trimmed)
}
