// Package chain wraps the BSC RPC endpoint behind a small, fakeable surface.
// Contract reverts on view calls are returned as data, not errors: an
// unsellable path is a honeypot signal the caller must see.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Caller is the subset of ethclient.Client the engine needs. Tests provide
// fakes; production uses a real client.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// QuoteResult is the outcome of a router quote. Exactly one of the variants
// holds: Amounts on success, Reverted+Reason on a contract-logic failure.
type QuoteResult struct {
	Amounts  []*big.Int
	Reverted bool
	Reason   string
}

type Client struct {
	caller  Caller
	router  common.Address
	factory common.Address
	wbnb    common.Address
	retries int
	log     *zap.Logger
}

type Options struct {
	Router  common.Address
	Factory common.Address
	WBNB    common.Address
	Retries int
}

func NewClient(caller Caller, opts Options, log *zap.Logger) *Client {
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		caller:  caller,
		router:  opts.Router,
		factory: opts.Factory,
		wbnb:    opts.WBNB,
		retries: opts.Retries,
		log:     log,
	}
}

// Dial connects to the primary RPC endpoint, falling back to the backup.
func Dial(ctx context.Context, primary, backup string, log *zap.Logger) (*ethclient.Client, error) {
	ec, err := ethclient.DialContext(ctx, primary)
	if err == nil {
		if _, cerr := ec.ChainID(ctx); cerr == nil {
			return ec, nil
		}
		ec.Close()
	}
	log.Warn("primary RPC unreachable, trying backup", zap.String("primary", primary))
	ec, err = ethclient.DialContext(ctx, backup)
	if err != nil {
		return nil, fmt.Errorf("dial backup RPC: %w", err)
	}
	if _, err := ec.ChainID(ctx); err != nil {
		ec.Close()
		return nil, fmt.Errorf("backup RPC not responding: %w", err)
	}
	return ec, nil
}

func (c *Client) WBNB() common.Address    { return c.wbnb }
func (c *Client) Router() common.Address  { return c.router }
func (c *Client) Factory() common.Address { return c.factory }

// GetAmountsOut quotes amountIn along path via the router. A revert is a
// legitimate negative signal and comes back inside the QuoteResult; the
// error return is reserved for transport failures after retries.
func (c *Client) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) (QuoteResult, error) {
	data, err := routerABI.Pack("getAmountsOut", amountIn, path)
	if err != nil {
		return QuoteResult{}, fmt.Errorf("pack getAmountsOut: %w", err)
	}

	out, err := c.callView(ctx, c.router, data)
	if err != nil {
		if isRevert(err) {
			return QuoteResult{Reverted: true, Reason: err.Error()}, nil
		}
		return QuoteResult{}, err
	}

	var amounts []*big.Int
	if err := routerABI.UnpackIntoInterface(&amounts, "getAmountsOut", out); err != nil {
		return QuoteResult{}, fmt.Errorf("unpack getAmountsOut: %w", err)
	}
	return QuoteResult{Amounts: amounts}, nil
}

// GetPair resolves the V2 pair for (tokenA, tokenB). The zero address means
// no pool exists.
func (c *Client) GetPair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	data, err := factoryABI.Pack("getPair", tokenA, tokenB)
	if err != nil {
		return common.Address{}, fmt.Errorf("pack getPair: %w", err)
	}
	out, err := c.callView(ctx, c.factory, data)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) < 32 {
		return common.Address{}, fmt.Errorf("short getPair response: %d bytes", len(out))
	}
	return common.BytesToAddress(out[12:32]), nil
}

// GetReserves returns the pair's raw reserves in token0/token1 order.
func (c *Client) GetReserves(ctx context.Context, pair common.Address) (reserve0, reserve1 *big.Int, err error) {
	data, err := pairABI.Pack("getReserves")
	if err != nil {
		return nil, nil, fmt.Errorf("pack getReserves: %w", err)
	}
	out, err := c.callView(ctx, pair, data)
	if err != nil {
		return nil, nil, err
	}
	if len(out) < 64 {
		return nil, nil, fmt.Errorf("short getReserves response: %d bytes", len(out))
	}
	return new(big.Int).SetBytes(out[0:32]), new(big.Int).SetBytes(out[32:64]), nil
}

// Token0 returns the pair's token0 so callers can orient the reserves.
func (c *Client) Token0(ctx context.Context, pair common.Address) (common.Address, error) {
	data, err := pairABI.Pack("token0")
	if err != nil {
		return common.Address{}, fmt.Errorf("pack token0: %w", err)
	}
	out, err := c.callView(ctx, pair, data)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) < 32 {
		return common.Address{}, fmt.Errorf("short token0 response: %d bytes", len(out))
	}
	return common.BytesToAddress(out[12:32]), nil
}

// CodeSize returns the byte length of the code deployed at addr.
func (c *Client) CodeSize(ctx context.Context, addr common.Address) (int, error) {
	var code []byte
	err := c.withRetries(ctx, func() error {
		var cerr error
		code, cerr = c.caller.CodeAt(ctx, addr, nil)
		return cerr
	})
	if err != nil {
		return 0, err
	}
	return len(code), nil
}

// CallView performs a bare eth_call against to. Used by the metadata layer
// for ERC-20 selector calls.
func (c *Client) CallView(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return c.callView(ctx, to, data)
}

func (c *Client) callView(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	var out []byte
	err := c.withRetries(ctx, func() error {
		var cerr error
		out, cerr = c.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
		return cerr
	})
	return out, err
}

// withRetries runs fn with exponential backoff. Reverts are surfaced
// immediately: retrying a deterministic view call cannot change its outcome.
func (c *Client) withRetries(ctx context.Context, fn func() error) error {
	var last error
	backoff := 100 * time.Millisecond
	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		last = fn()
		if last == nil || isRevert(last) {
			return last
		}
		c.log.Debug("RPC call failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(last),
		)
	}
	return fmt.Errorf("RPC call failed after %d attempts: %w", c.retries, last)
}

func isRevert(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "execution reverted") ||
		strings.Contains(msg, "revert") ||
		strings.Contains(msg, "vm execution error")
}
