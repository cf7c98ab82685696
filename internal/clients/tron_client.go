package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const defaultTronTimeout = 15 * time.Second

// sun per TRX
const trxDecimals = 6

// TronClient reads account balances from a Tron full node HTTP API.
type TronClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewTronClient creates a client for the node at baseURL.
func NewTronClient(baseURL string, timeout time.Duration) *TronClient {
	if timeout <= 0 {
		timeout = defaultTronTimeout
	}
	return &TronClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type getAccountRequest struct {
	Address string `json:"address"`
	Visible bool   `json:"visible"`
}

type getAccountResponse struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

// AccountBalance returns the account's TRX balance. The node answers with an
// empty object for accounts it has never seen, which reads as zero.
func (c *TronClient) AccountBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	payload, err := json.Marshal(getAccountRequest{Address: address, Visible: true})
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "marshal getaccount request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/wallet/getaccount", bytes.NewReader(payload))
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "build getaccount request")
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "tron getaccount for %s", address)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "read tron response")
	}
	if httpResp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, errors.Errorf("tron node returned status %d: %s", httpResp.StatusCode, string(body))
	}

	var resp getAccountResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "decode tron response")
	}

	return decimal.New(resp.Balance, -trxDecimals), nil
}
