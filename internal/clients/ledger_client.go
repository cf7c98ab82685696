package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/custodian/internal/domain"
)

const defaultLedgerTimeout = 10 * time.Second

// LedgerClient reads unpooled deposit addresses from the deposit address
// ledger service. The ledger is owned by the deposit pipeline; this client
// only ever reads from it.
type LedgerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewLedgerClient creates a client for the ledger service at baseURL.
func NewLedgerClient(baseURL string, timeout time.Duration) *LedgerClient {
	if timeout <= 0 {
		timeout = defaultLedgerTimeout
	}
	return &LedgerClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type unpooledAddressesResponse struct {
	Addresses []struct {
		Address string `json:"address"`
	} `json:"addresses"`
}

// ListUnpooled returns every deposit address for the asset that has not been
// swept into the hot wallet yet.
func (c *LedgerClient) ListUnpooled(ctx context.Context, asset domain.AssetKey) ([]string, error) {
	endpoint := fmt.Sprintf("%s/addresses?asset=%s&pooled=false", c.baseURL, url.QueryEscape(asset.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build ledger request")
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "ledger request for %s", asset)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read ledger response")
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("ledger returned status %d: %s", httpResp.StatusCode, string(body))
	}

	var resp unpooledAddressesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "decode ledger response")
	}

	addresses := make([]string, 0, len(resp.Addresses))
	for _, a := range resp.Addresses {
		addresses = append(addresses, a.Address)
	}
	return addresses, nil
}
