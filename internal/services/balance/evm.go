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
)

const ethDecimals = 18

// evmReader is the subset of the node client the EVM adapters need for
// single queries. *ethclient.Client satisfies it.
type evmReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

func weiToEther(wei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei, -ethDecimals)
}

// decodeWeiBalance parses an eth_getBalance quantity into ether units.
func decodeWeiBalance(raw json.RawMessage) (decimal.Decimal, error) {
	var quantity string
	if err := json.Unmarshal(raw, &quantity); err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "unmarshal balance quantity")
	}
	wei, err := hexutil.DecodeBig(quantity)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "decode balance quantity")
	}
	return weiToEther(wei), nil
}

// sweepFee is the estimated cost, in ether, to move funds out of count
// deposit addresses when each transfer burns gasLimit gas at gasPrice.
func sweepFee(gasPrice *big.Int, gasLimit uint64, count int) decimal.Decimal {
	perAddress := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	return weiToEther(perAddress).Mul(decimal.NewFromInt(int64(count)))
}
