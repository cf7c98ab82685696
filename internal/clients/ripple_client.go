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

const defaultRippleTimeout = 15 * time.Second

// drops per XRP
const xrpDecimals = 6

// RippleClient reads wallet balances from a rippled JSON-RPC endpoint.
type RippleClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRippleClient creates a client for the rippled server at baseURL.
func NewRippleClient(baseURL string, timeout time.Duration) *RippleClient {
	if timeout <= 0 {
		timeout = defaultRippleTimeout
	}
	return &RippleClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type accountInfoRequest struct {
	Method string              `json:"method"`
	Params []accountInfoParams `json:"params"`
}

type accountInfoParams struct {
	Account     string `json:"account"`
	LedgerIndex string `json:"ledger_index"`
}

type accountInfoResponse struct {
	Result struct {
		Status      string `json:"status"`
		AccountData struct {
			Balance string `json:"Balance"`
		} `json:"account_data"`
		ErrorMessage string `json:"error_message,omitempty"`
	} `json:"result"`
}

// AccountBalance returns the wallet's XRP balance from the last validated ledger.
func (c *RippleClient) AccountBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	payload, err := json.Marshal(accountInfoRequest{
		Method: "account_info",
		Params: []accountInfoParams{{Account: account, LedgerIndex: "validated"}},
	})
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "marshal account_info request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "build account_info request")
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "ripple account_info for %s", account)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "read ripple response")
	}
	if httpResp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, errors.Errorf("rippled returned status %d: %s", httpResp.StatusCode, string(body))
	}

	var resp accountInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "decode ripple response")
	}
	if resp.Result.Status != "success" {
		return decimal.Decimal{}, errors.Errorf("rippled returned status %q: %s", resp.Result.Status, resp.Result.ErrorMessage)
	}

	drops, err := decimal.NewFromString(resp.Result.AccountData.Balance)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "parse ripple balance")
	}

	return drops.Shift(-xrpDecimals), nil
}
