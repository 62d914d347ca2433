package dydx

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/avelex/tradehook/internal/domain"
)

// NodeClient talks to a dYdX full node's REST gateway: reading the latest
// chain height and broadcasting signed transactions.
type NodeClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNodeClient creates a node client for the given REST gateway root.
func NewNodeClient(baseURL string) *NodeClient {
	return &NodeClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// LatestBlockHeight returns the height of the most recently committed block.
func (c *NodeClient) LatestBlockHeight(ctx context.Context) (uint32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/cosmos/base/tendermint/v1beta1/blocks/latest", nil)
	if err != nil {
		return 0, fmt.Errorf("dydx/node: create request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("dydx/node: latest block: %w", err)
	}

	var resp struct {
		Block struct {
			Header struct {
				Height string `json:"height"`
			} `json:"header"`
		} `json:"block"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("dydx/node: decode block response: %w", err)
	}

	height, err := strconv.ParseUint(resp.Block.Header.Height, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("dydx/node: bad block height %q: %w", resp.Block.Header.Height, err)
	}
	return uint32(height), nil
}

// BroadcastTx submits raw signed transaction bytes in sync mode and returns
// the node's acknowledgment. A non-zero result code is an error: the node
// received the transaction but rejected it.
func (c *NodeClient) BroadcastTx(ctx context.Context, txBytes []byte) (domain.OrderResult, error) {
	payload, err := json.Marshal(map[string]string{
		"tx_bytes": base64.StdEncoding.EncodeToString(txBytes),
		"mode":     "BROADCAST_MODE_SYNC",
	})
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("dydx/node: marshal broadcast payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/cosmos/tx/v1beta1/txs", bytes.NewReader(payload))
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("dydx/node: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("dydx/node: broadcast: %w", err)
	}

	var resp struct {
		TxResponse struct {
			TxHash string `json:"txhash"`
			Code   uint32 `json:"code"`
			RawLog string `json:"raw_log"`
		} `json:"tx_response"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.OrderResult{}, fmt.Errorf("dydx/node: decode broadcast response: %w", err)
	}

	result := domain.OrderResult{
		TxHash: resp.TxResponse.TxHash,
		Code:   resp.TxResponse.Code,
		RawLog: resp.TxResponse.RawLog,
	}
	if result.Code != 0 {
		return result, fmt.Errorf("dydx/node: tx rejected with code %d: %s", result.Code, result.RawLog)
	}
	return result, nil
}

// do executes the request and returns the body; non-2xx statuses wrap
// domain.ErrExchangeUnavailable.
func (c *NodeClient) do(req *http.Request) ([]byte, error) {
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
