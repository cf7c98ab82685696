package balance

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/custodian/internal/domain"
	"github.com/vadiminshakov/custodian/internal/services/batch"
)

// balanceOf(address)
var balanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

// TokenAdapter computes figures for one ERC-20 token (USDT, USDC).
// Token transfers are still paid in ether, so the sweep cost is denominated
// in ETH and valued with the ETH rate, never the token's own rate.
type TokenAdapter struct {
	asset         domain.AssetKey
	node          evmReader
	batcher       *batch.Batcher
	ledger        AddressLedger
	contract      common.Address
	primary       common.Address
	decimals      int32
	tokenGasLimit uint64
}

// NewTokenAdapter creates an adapter for one token contract. decimals is the
// token's declared precision; tokenGasLimit the gas an ERC-20 transfer burns.
func NewTokenAdapter(asset domain.AssetKey, node evmReader, batcher *batch.Batcher, ledger AddressLedger,
	contract, primary common.Address, decimals int32, tokenGasLimit uint64) *TokenAdapter {
	return &TokenAdapter{
		asset:         asset,
		node:          node,
		batcher:       batcher,
		ledger:        ledger,
		contract:      contract,
		primary:       primary,
		decimals:      decimals,
		tokenGasLimit: tokenGasLimit,
	}
}

func (a *TokenAdapter) Asset() domain.AssetKey    { return a.asset }
func (a *TokenAdapter) Shape() domain.ReportShape { return domain.ShapeSweepable }

// Fetch reads the hot wallet's token balance with a single contract call,
// batches balanceOf reads over every unpooled deposit address, and estimates
// the sweep cost in ether at the current gas price.
func (a *TokenAdapter) Fetch(ctx context.Context, rates domain.RateTable) (*domain.AssetBalanceReport, error) {
	tokenRate, ok := rates.Rate(a.asset)
	if !ok {
		return nil, errors.Errorf("no rate for %s", a.asset.Symbol())
	}
	// the gas estimate is in ether, so its fiat side needs the native rate
	ethRate, ok := rates.Rate(domain.AssetETH)
	if !ok {
		return nil, errors.Errorf("no rate for %s", domain.AssetETH.Symbol())
	}

	confirmedTokens, err := a.contractBalance(ctx, a.primary)
	if err != nil {
		return nil, errors.Wrap(err, "confirmed token balance")
	}

	addresses, err := a.ledger.ListUnpooled(ctx, a.asset)
	if err != nil {
		return nil, errors.Wrap(err, "unpooled addresses")
	}

	requests := make([]batch.Request, 0, len(addresses))
	for _, address := range addresses {
		requests = append(requests, batch.Request{
			Call: batch.Call{
				Method: "eth_call",
				Params: []any{
					map[string]string{
						"to":   a.contract.Hex(),
						"data": hexutil.Encode(balanceOfCalldata(common.HexToAddress(address))),
					},
					"latest",
				},
			},
			Decode: a.decodeTokenBalance,
		})
	}

	balances, err := a.batcher.Do(ctx, requests)
	if err != nil {
		return nil, errors.Wrap(err, "batched token balances")
	}

	gasPrice, err := a.node.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "gas price")
	}

	pending := domain.NewBalanceFigure(sumBalances(balances), tokenRate)
	fees := domain.NewBalanceFigure(sweepFee(gasPrice, a.tokenGasLimit, len(addresses)), ethRate)

	return &domain.AssetBalanceReport{
		Shape:       domain.ShapeSweepable,
		Confirmed:   domain.NewBalanceFigure(confirmedTokens, tokenRate),
		Pending:     &pending,
		PoolingFees: &fees,
	}, nil
}

// contractBalance reads balanceOf(holder) straight through the node client.
func (a *TokenAdapter) contractBalance(ctx context.Context, holder common.Address) (decimal.Decimal, error) {
	data, err := a.node.CallContract(ctx, ethereum.CallMsg{
		To:   &a.contract,
		Data: balanceOfCalldata(holder),
	}, nil)
	if err != nil {
		return decimal.Decimal{}, err
	}
	raw := new(big.Int).SetBytes(data)
	return decimal.NewFromBigInt(raw, -a.decimals), nil
}

// decodeTokenBalance parses an eth_call result into token units using the
// contract's declared precision.
func (a *TokenAdapter) decodeTokenBalance(raw json.RawMessage) (decimal.Decimal, error) {
	var payload string
	if err := json.Unmarshal(raw, &payload); err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "unmarshal call result")
	}
	data, err := hexutil.Decode(payload)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "decode call result")
	}
	return decimal.NewFromBigInt(new(big.Int).SetBytes(data), -a.decimals), nil
}

func balanceOfCalldata(holder common.Address) []byte {
	data := make([]byte, 0, 36)
	data = append(data, balanceOfSelector...)
	return append(data, common.LeftPadBytes(holder.Bytes(), 32)...)
}
