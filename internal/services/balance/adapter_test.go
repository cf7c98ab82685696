package balance

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/custodian/internal/domain"
	"github.com/vadiminshakov/custodian/internal/services/batch"
)

type fakeLedger struct {
	addresses []string
	err       error
}

func (f *fakeLedger) ListUnpooled(_ context.Context, _ domain.AssetKey) ([]string, error) {
	return f.addresses, f.err
}

type fakeEVM struct {
	balance      *big.Int
	gasPrice     *big.Int
	contractData []byte
	balanceErr   error
	gasErr       error
	callErr      error
}

func (f *fakeEVM) BalanceAt(_ context.Context, _ common.Address, _ *big.Int) (*big.Int, error) {
	return f.balance, f.balanceErr
}

func (f *fakeEVM) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	return f.gasPrice, f.gasErr
}

func (f *fakeEVM) CallContract(_ context.Context, _ ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	return f.contractData, f.callErr
}

// fixedTransport answers every batch with the preloaded outcomes.
type fixedTransport struct {
	outcomes []batch.Outcome
	err      error
}

func (f *fixedTransport) BatchCall(_ context.Context, _ []batch.Call) ([]batch.Outcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.outcomes, nil
}

type fakeAccounts struct {
	balances map[string]decimal.Decimal
	err      error
}

func (f *fakeAccounts) AccountBalance(_ context.Context, address string) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Decimal{}, f.err
	}
	return f.balances[address], nil
}

// quantityResult encodes a wei amount the way eth_getBalance answers.
func quantityResult(wei *big.Int) batch.Outcome {
	payload, _ := json.Marshal(hexutil.EncodeBig(wei))
	return batch.Outcome{Result: payload}
}

// callResult encodes a raw integer the way eth_call answers balanceOf.
func callResult(raw *big.Int) batch.Outcome {
	payload, _ := json.Marshal(hexutil.Encode(common.LeftPadBytes(raw.Bytes(), 32)))
	return batch.Outcome{Result: payload}
}

func ratesOf(pairs map[string]string) domain.RateTable {
	table := make(domain.RateTable, len(pairs))
	for symbol, rate := range pairs {
		table[symbol] = decimal.RequireFromString(rate)
	}
	return table
}
