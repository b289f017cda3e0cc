// Package simulator measures real transfer tax and sell-blocking behavior by
// quoting buy and sell swaps against the AMM router. All calls are read-only;
// no transaction is ever signed or sent.
package simulator

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/inertlabs/tokenguard/internal/chain"
	"github.com/inertlabs/tokenguard/internal/models"
)

// Quoter is the chain surface the simulator needs. *chain.Client satisfies it.
type Quoter interface {
	GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) (chain.QuoteResult, error)
	GetPair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error)
	GetReserves(ctx context.Context, pair common.Address) (*big.Int, *big.Int, error)
	Token0(ctx context.Context, pair common.Address) (common.Address, error)
	WBNB() common.Address
}

type Simulator struct {
	chain Quoter
	sizes []*big.Int
	log   *zap.Logger
}

// New builds a simulator testing the given notional sizes, in BNB.
func New(q Quoter, sizesBNB []float64, log *zap.Logger) *Simulator {
	if len(sizesBNB) == 0 {
		sizesBNB = []float64{0.001, 0.01, 0.1}
	}
	if log == nil {
		log = zap.NewNop()
	}
	sizes := make([]*big.Int, len(sizesBNB))
	for i, s := range sizesBNB {
		sizes[i] = bnbToWei(s)
	}
	return &Simulator{chain: q, sizes: sizes, log: log}
}

// reserves is the pool snapshot taken once per run, oriented so In is the
// WBNB side. The fee-less constant-product output over these reserves is the
// theoretical baseline tax is measured against.
type reserves struct {
	bnb   *big.Int
	token *big.Int
}

// Simulate quotes a buy at every notional size and, for each successful buy,
// a sell of the received tokens. It never returns an error: failed quotes
// become failed TradeAttempts carrying the revert or transport message.
func (s *Simulator) Simulate(ctx context.Context, token common.Address) *models.SimulationReport {
	pool := s.snapshotReserves(ctx, token)

	buys := make([]models.TradeAttempt, len(s.sizes))
	sells := make([]*models.TradeAttempt, len(s.sizes))

	// Buys at different sizes are independent; each sell depends only on its
	// own size's buy, so the whole (buy, sell) pair runs in one goroutine.
	// The recover keeps a panic inside its own goroutine; escaping it would
	// kill the process, where a failed quote must become a failed attempt.
	var wg sync.WaitGroup
	for i, size := range s.sizes {
		wg.Add(1)
		go func(i int, size *big.Int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failure := models.TradeAttempt{AmountIn: size, Error: fmt.Sprintf("internal failure: %v", r)}
					if buys[i].Success {
						failure.AmountIn = buys[i].AmountOut
						sells[i] = &failure
					} else {
						buys[i] = failure
						sells[i] = nil
					}
				}
			}()
			buy := s.simulateBuy(ctx, token, size, pool)
			buys[i] = buy
			if buy.Success && buy.AmountOut != nil && buy.AmountOut.Sign() > 0 {
				sell := s.simulateSell(ctx, token, buy.AmountOut, pool)
				sells[i] = &sell
			}
		}(i, size)
	}
	wg.Wait()

	report := &models.SimulationReport{BuyAttempts: buys}
	for _, sell := range sells {
		if sell != nil {
			report.SellAttempts = append(report.SellAttempts, *sell)
		}
	}

	var buyTaxes, sellTaxes []float64
	for _, b := range buys {
		if b.Success {
			report.CanBuy = true
			buyTaxes = append(buyTaxes, b.TaxPercent)
		} else if b.Error != "" {
			report.Errors = append(report.Errors, b.Error)
		}
	}
	for _, sl := range report.SellAttempts {
		if sl.Success {
			report.CanSell = true
			sellTaxes = append(sellTaxes, sl.TaxPercent)
		} else if sl.Error != "" {
			report.Errors = append(report.Errors, sl.Error)
		}
	}
	report.AvgBuyTax = mean(buyTaxes)
	report.AvgSellTax = mean(sellTaxes)

	s.log.Debug("trade simulation finished",
		zap.String("token", token.Hex()),
		zap.Bool("can_buy", report.CanBuy),
		zap.Bool("can_sell", report.CanSell),
		zap.Float64("buy_tax_avg", report.AvgBuyTax),
		zap.Float64("sell_tax_avg", report.AvgSellTax),
	)
	return report
}

func (s *Simulator) simulateBuy(ctx context.Context, token common.Address, bnbIn *big.Int, pool *reserves) models.TradeAttempt {
	attempt := models.TradeAttempt{AmountIn: bnbIn}

	quote, err := s.chain.GetAmountsOut(ctx, bnbIn, []common.Address{s.chain.WBNB(), token})
	if err != nil {
		attempt.Error = err.Error()
		return attempt
	}
	if quote.Reverted {
		attempt.Error = "contract logic error: " + quote.Reason
		return attempt
	}

	tokensOut := lastAmount(quote.Amounts)
	if tokensOut == nil || tokensOut.Sign() == 0 {
		attempt.Error = "no tokens received"
		return attempt
	}

	attempt.Success = true
	attempt.AmountOut = tokensOut
	if pool != nil {
		attempt.TheoreticalOut = constantProductOut(bnbIn, pool.bnb, pool.token)
	}
	attempt.TaxPercent = taxPercent(attempt.TheoreticalOut, tokensOut)
	attempt.SlippagePct = attempt.TaxPercent
	return attempt
}

func (s *Simulator) simulateSell(ctx context.Context, token common.Address, tokensIn *big.Int, pool *reserves) models.TradeAttempt {
	attempt := models.TradeAttempt{AmountIn: tokensIn}

	quote, err := s.chain.GetAmountsOut(ctx, tokensIn, []common.Address{token, s.chain.WBNB()})
	if err != nil {
		attempt.Error = err.Error()
		return attempt
	}
	if quote.Reverted {
		attempt.Error = "contract logic error: " + quote.Reason
		return attempt
	}

	bnbOut := lastAmount(quote.Amounts)
	if bnbOut == nil || bnbOut.Sign() == 0 {
		attempt.Error = "no BNB received"
		return attempt
	}

	attempt.Success = true
	attempt.AmountOut = bnbOut
	if pool != nil {
		attempt.TheoreticalOut = constantProductOut(tokensIn, pool.token, pool.bnb)
	}
	attempt.TaxPercent = taxPercent(attempt.TheoreticalOut, bnbOut)
	attempt.SlippagePct = attempt.TaxPercent
	return attempt
}

// snapshotReserves reads the pool once before quoting. The router quote for
// a taxed token already reflects the tax, so quoting again cannot serve as a
// baseline; raw reserves can. Returns nil when no pool or the read fails, in
// which case tax defaults to 0.
func (s *Simulator) snapshotReserves(ctx context.Context, token common.Address) *reserves {
	pair, err := s.chain.GetPair(ctx, token, s.chain.WBNB())
	if err != nil || pair == (common.Address{}) {
		return nil
	}
	r0, r1, err := s.chain.GetReserves(ctx, pair)
	if err != nil {
		return nil
	}
	token0, err := s.chain.Token0(ctx, pair)
	if err != nil {
		return nil
	}
	if token0 == s.chain.WBNB() {
		return &reserves{bnb: r0, token: r1}
	}
	return &reserves{bnb: r1, token: r0}
}

// constantProductOut applies the Uniswap V2 formula with the 0.3% pool fee:
// out = reserveOut*in*997 / (reserveIn*1000 + in*997).
func constantProductOut(in, reserveIn, reserveOut *big.Int) *big.Int {
	if in == nil || reserveIn == nil || reserveOut == nil ||
		in.Sign() <= 0 || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil
	}
	inWithFee := new(big.Int).Mul(in, big.NewInt(997))
	num := new(big.Int).Mul(reserveOut, inWithFee)
	den := new(big.Int).Mul(reserveIn, big.NewInt(1000))
	den.Add(den, inWithFee)
	return num.Div(num, den)
}

// taxPercent is max(0, 100*(theoretical-realized)/theoretical), or 0 when no
// baseline is available.
func taxPercent(theoretical, realized *big.Int) float64 {
	if theoretical == nil || theoretical.Sign() <= 0 || realized == nil {
		return 0
	}
	t := decimal.NewFromBigInt(theoretical, 0)
	r := decimal.NewFromBigInt(realized, 0)
	pct := t.Sub(r).Div(t).Mul(decimal.NewFromInt(100))
	if pct.IsNegative() {
		return 0
	}
	f, _ := pct.Round(2).Float64()
	return f
}

func lastAmount(amounts []*big.Int) *big.Int {
	if len(amounts) == 0 {
		return nil
	}
	return amounts[len(amounts)-1]
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func bnbToWei(bnb float64) *big.Int {
	wei := decimal.NewFromFloat(bnb).Mul(decimal.New(1, 18))
	return wei.BigInt()
}
