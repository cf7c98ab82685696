package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	defaultExplorerTimeout  = 15 * time.Second
	defaultMinConfirmations = 6
)

// ExplorerClient reads hot wallet balances for UTXO chains (BTC, LTC, DOGE)
// from a sochain-compatible block explorer API.
type ExplorerClient struct {
	baseURL          string
	minConfirmations int
	httpClient       *http.Client
}

// NewExplorerClient creates a client for the explorer at baseURL.
func NewExplorerClient(baseURL string, timeout time.Duration) *ExplorerClient {
	if timeout <= 0 {
		timeout = defaultExplorerTimeout
	}
	return &ExplorerClient{
		baseURL:          baseURL,
		minConfirmations: defaultMinConfirmations,
		httpClient:       &http.Client{Timeout: timeout},
	}
}

type addressBalanceResponse struct {
	Status string `json:"status"`
	Data   struct {
		Network            string `json:"network"`
		Address            string `json:"address"`
		ConfirmedBalance   string `json:"confirmed_balance"`
		UnconfirmedBalance string `json:"unconfirmed_balance"`
	} `json:"data"`
}

// ConfirmedBalance returns the balance with at least the minimum number of
// confirmations for the address on the given network (e.g. "BTC", "LTC").
func (c *ExplorerClient) ConfirmedBalance(ctx context.Context, network, address string) (decimal.Decimal, error) {
	resp, err := c.getAddressBalance(ctx, network, address, c.minConfirmations)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(resp.Data.ConfirmedBalance)
}

// PendingBalance returns the unconfirmed balance for the address.
func (c *ExplorerClient) PendingBalance(ctx context.Context, network, address string) (decimal.Decimal, error) {
	resp, err := c.getAddressBalance(ctx, network, address, 0)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(resp.Data.UnconfirmedBalance)
}

func (c *ExplorerClient) getAddressBalance(ctx context.Context, network, address string, confirmations int) (*addressBalanceResponse, error) {
	url := fmt.Sprintf("%s/v2/get_address_balance/%s/%s/%d", c.baseURL, network, address, confirmations)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build explorer request")
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "explorer request for %s/%s", network, address)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read explorer response")
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("explorer returned status %d: %s", httpResp.StatusCode, string(body))
	}

	var resp addressBalanceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "decode explorer response")
	}
	if resp.Status != "success" {
		return nil, errors.Errorf("explorer returned status %q for %s/%s", resp.Status, network, address)
	}

	return &resp, nil
}
