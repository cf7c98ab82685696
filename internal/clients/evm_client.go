package clients

import (
	"context"
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/custodian/internal/services/batch"
)

const defaultEVMTimeout = 15 * time.Second

// EVMClient connects to an EVM-compatible JSON-RPC node. It exposes typed
// single queries and implements batch.Transport so grouped per-address reads
// go out in one round trip. Every call carries its own deadline: an
// unreachable node must fail one adapter's fetch, not hang the whole cycle.
type EVMClient struct {
	rpc     *rpc.Client
	eth     *ethclient.Client
	timeout time.Duration
}

// NewEVMClient dials the node at rawurl.
func NewEVMClient(ctx context.Context, rawurl string, timeout time.Duration) (*EVMClient, error) {
	if timeout <= 0 {
		timeout = defaultEVMTimeout
	}
	rpcClient, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, errors.Wrapf(err, "dial evm node %s", rawurl)
	}
	return &EVMClient{rpc: rpcClient, eth: ethclient.NewClient(rpcClient), timeout: timeout}, nil
}

func (c *EVMClient) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// BalanceAt returns the account's wei balance at the given block (nil for latest).
func (c *EVMClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	return c.eth.BalanceAt(ctx, account, blockNumber)
}

// SuggestGasPrice returns the node's current gas price suggestion.
func (c *EVMClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	return c.eth.SuggestGasPrice(ctx)
}

// CallContract executes a read-only contract call.
func (c *EVMClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	return c.eth.CallContract(ctx, msg, blockNumber)
}

// BatchCall implements batch.Transport: one JSON-RPC round trip for all
// calls, one outcome per call in call order. Per-entry node errors land in
// the outcome; only the round trip itself failing returns an error.
func (c *EVMClient) BatchCall(ctx context.Context, calls []batch.Call) ([]batch.Outcome, error) {
	if len(calls) == 0 {
		return nil, nil
	}

	results := make([]json.RawMessage, len(calls))
	elems := make([]rpc.BatchElem, len(calls))
	for i, call := range calls {
		elems[i] = rpc.BatchElem{
			Method: call.Method,
			Args:   call.Params,
			Result: &results[i],
		}
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.rpc.BatchCallContext(ctx, elems); err != nil {
		return nil, errors.Wrap(err, "evm batch call")
	}

	outcomes := make([]batch.Outcome, len(calls))
	for i := range elems {
		outcomes[i] = batch.Outcome{Result: results[i], Err: elems[i].Error}
	}
	return outcomes, nil
}

// Close tears down the underlying connection.
func (c *EVMClient) Close() {
	c.rpc.Close()
}
