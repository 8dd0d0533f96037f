package ethrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/chainmart/chainmart/internal/domain"
)

// Client is a minimal Ethereum JSON-RPC client covering the read-only
// balance query the marketplace needs.
type Client struct {
	rpcURL     string
	httpClient *http.Client
}

func NewClient(rpcURL string, timeout time.Duration) *Client {
	return &Client{
		rpcURL: rpcURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Balance implements chain.BalanceSource. It issues eth_getBalance against
// the latest block and converts the hex wei result to ether, rounded to four
// decimal places. All failure modes wrap domain.ErrUpstreamUnavailable.
func (c *Client) Balance(ctx context.Context, address string) (float64, error) {
	result, err := c.call(ctx, "eth_getBalance", address, "latest")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	var hexWei string
	if err := json.Unmarshal(result, &hexWei); err != nil {
		return 0, fmt.Errorf("%w: unmarshal balance: %w", domain.ErrUpstreamUnavailable, err)
	}

	eth, err := weiHexToEther(hexWei)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	return eth, nil
}

func (c *Client) call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	req := rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close rpc response body", "error", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc endpoint returned status %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	return rpcResp.Result, nil
}

// weiPerEther is 10^18.
var weiPerEther = new(big.Float).SetFloat64(1e18)

// weiHexToEther converts a 0x-prefixed hex wei amount to ether rounded to
// four decimal places.
func weiHexToEther(hexWei string) (float64, error) {
	trimmed := strings.TrimPrefix(hexWei, "0x")
	if trimmed == "" {
		return 0, fmt.Errorf("empty balance result %q", hexWei)
	}

	wei, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return 0, fmt.Errorf("malformed balance result %q", hexWei)
	}

	eth, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerEther).Float64()
	return math.Round(eth*10000) / 10000, nil
}
