package ethrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainmart/chainmart/internal/domain"
)

// newRPCServer returns a test server answering every call with the given
// JSON-RPC result, and records the last request body.
func newRPCServer(t *testing.T, result string) (*httptest.Server, *rpcRequest) {
	t.Helper()
	var last rpcRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&last))
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%q}`, result)
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func weiHex(t *testing.T, wei string) string {
	t.Helper()
	n, ok := new(big.Int).SetString(wei, 10)
	require.True(t, ok)
	return fmt.Sprintf("0x%x", n)
}

func TestBalance(t *testing.T) {
	// 1.5 ether
	srv, last := newRPCServer(t, weiHex(t, "1500000000000000000"))
	client := NewClient(srv.URL, 5*time.Second)

	balance, err := client.Balance(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, 1.5, balance)

	assert.Equal(t, "eth_getBalance", last.Method)
	require.Len(t, last.Params, 2)
	assert.Equal(t, "0xabc", last.Params[0])
	assert.Equal(t, "latest", last.Params[1])
}

func TestBalance_RoundsToFourDecimals(t *testing.T) {
	// 0.123456789 ether rounds to 0.1235
	srv, _ := newRPCServer(t, weiHex(t, "123456789000000000"))
	client := NewClient(srv.URL, 5*time.Second)

	balance, err := client.Balance(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, 0.1235, balance)
}

func TestBalance_Zero(t *testing.T) {
	srv, _ := newRPCServer(t, "0x0")
	client := NewClient(srv.URL, 5*time.Second)

	balance, err := client.Balance(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestBalance_RPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid address"}}`)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, 5*time.Second)

	_, err := client.Balance(context.Background(), "not-an-address")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestBalance_UpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, 5*time.Second)

	_, err := client.Balance(context.Background(), "0xabc")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestBalance_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	client := NewClient(srv.URL, time.Second)

	_, err := client.Balance(context.Background(), "0xabc")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestWeiHexToEther_Malformed(t *testing.T) {
	for _, raw := range []string{"", "0x", "0xzz", "nope"} {
		_, err := weiHexToEther(raw)
		assert.Error(t, err, "input %q", raw)
	}
}
