// Package dydx holds the minimal dYdX v4 surface this service needs: the
// read-only indexer queries (market metadata, subaccount collateral), the
// node client (chain height, transaction broadcast), market quantization, and
// the mnemonic wallet with its sequence counter. It is deliberately not a
// general exchange SDK.
package dydx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avelex/tradehook/internal/domain"
)

// IndexerClient is the REST client for the dYdX indexer API. All calls are
// read-only and unauthenticated.
type IndexerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewIndexerClient creates an indexer client for the given API root, e.g.
// "https://indexer.v4testnet.dydx.exchange".
func NewIndexerClient(baseURL string) *IndexerClient {
	return &IndexerClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// PerpetualMarket fetches the metadata for a single perpetual market by its
// normalized ticker, e.g. "ETH-USD".
func (c *IndexerClient) PerpetualMarket(ctx context.Context, ticker string) (Market, error) {
	path := "/v4/perpetualMarkets?ticker=" + url.QueryEscape(ticker)

	body, err := c.get(ctx, path)
	if err != nil {
		return Market{}, fmt.Errorf("dydx/indexer: get market %s: %w", ticker, err)
	}

	var resp struct {
		Markets map[string]APIMarket `json:"markets"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return Market{}, fmt.Errorf("dydx/indexer: decode markets response: %w", err)
	}

	apiMarket, ok := resp.Markets[ticker]
	if !ok {
		return Market{}, fmt.Errorf("dydx/indexer: %s: %w", ticker, domain.ErrMarketNotFound)
	}
	return apiMarket.ToMarket()
}

// Subaccount fetches the current state of one subaccount. The returned
// snapshot is valid only at the instant of the query and must not be cached
// across pipeline stages.
func (c *IndexerClient) Subaccount(ctx context.Context, address string, number int) (domain.AccountState, error) {
	path := fmt.Sprintf("/v4/addresses/%s/subaccountNumber/%d", url.PathEscape(address), number)

	body, err := c.get(ctx, path)
	if err != nil {
		return domain.AccountState{}, fmt.Errorf("dydx/indexer: get subaccount %s/%d: %w", address, number, err)
	}

	var resp struct {
		Subaccount APISubaccount `json:"subaccount"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.AccountState{}, fmt.Errorf("dydx/indexer: decode subaccount response: %w", err)
	}
	return resp.Subaccount.ToAccountState()
}

// get performs a GET against the indexer and returns the response body.
// Non-2xx statuses are errors.
func (c *IndexerClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExchangeUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrExchangeUnavailable, resp.StatusCode, string(body))
	}
	return body, nil
}
