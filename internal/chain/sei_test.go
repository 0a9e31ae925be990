package chain

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params []any           `json:"params"`
}

// newRPCServer answers the handful of eth_ methods the client uses.
func newRPCServer(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		result, ok := results[req.Method]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]any{"code": -32601, "message": "method not found"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
}

func TestNetworkInfo_Mock(t *testing.T) {
	c := NewSeiClient(Config{RPCURL: "https://rpc.test", ChainID: 1328}, nil)
	info, err := c.NetworkInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1328), info.ChainID)
	assert.Equal(t, "atlantic-2 (testnet)", info.NetworkName)
	assert.Equal(t, "400ms", info.BlockTime)
	assert.True(t, info.IsConnected)

	c = NewSeiClient(Config{ChainID: 1329}, nil)
	info, err = c.NetworkInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pacific-1 (mainnet)", info.NetworkName)
}

func TestNetworkInfo_Live(t *testing.T) {
	srv := newRPCServer(t, map[string]string{
		"eth_chainId":     "0x530",
		"eth_blockNumber": "0x10",
	})
	defer srv.Close()

	c := NewSeiClient(Config{RPCURL: srv.URL, ChainID: 1, Live: true}, nil)
	defer c.Close()

	info, err := c.NetworkInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1328), info.ChainID)
	assert.Equal(t, "atlantic-2 (testnet)", info.NetworkName)
	assert.Equal(t, uint64(16), info.BlockNumber)
	assert.True(t, info.IsConnected)
}

func TestNetworkInfo_LiveUnreachable(t *testing.T) {
	srv := newRPCServer(t, map[string]string{})
	defer srv.Close()

	c := NewSeiClient(Config{RPCURL: srv.URL, Live: true}, nil)
	defer c.Close()

	info, err := c.NetworkInfo(context.Background())
	require.NoError(t, err)
	assert.False(t, info.IsConnected)
}

func TestBalance_Live(t *testing.T) {
	srv := newRPCServer(t, map[string]string{
		"eth_getBalance": "0x1bc16d674ec80000", // 2 SEI
	})
	defer srv.Close()

	c := NewSeiClient(Config{RPCURL: srv.URL, Live: true}, nil)
	defer c.Close()

	bal, err := c.Balance(context.Background(), testAddress)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, bal, 1e-9)
}

func TestBalance_MockAndValidation(t *testing.T) {
	c := NewSeiClient(Config{}, nil)

	bal, err := c.Balance(context.Background(), testAddress)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, bal, 0.0)
	assert.Less(t, bal, 100000.0)

	_, err = c.Balance(context.Background(), "not-an-address")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestSendTransaction(t *testing.T) {
	c := NewSeiClient(Config{}, nil)

	h1, err := c.SendTransaction(context.Background(), testAddress, "0xabc", 10, "USDC")
	require.NoError(t, err)
	h2, err := c.SendTransaction(context.Background(), testAddress, "0xabc", 10, "USDC")
	require.NoError(t, err)

	assert.Len(t, h1, 66)
	assert.Equal(t, "0x", h1[:2])
	assert.NotEqual(t, h1, h2)

	_, err = c.SendTransaction(context.Background(), testAddress, "0xabc", 0, "USDC")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSendTransaction_HonorsContext(t *testing.T) {
	c := NewSeiClient(Config{MockLatency: time.Minute}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.SendTransaction(ctx, testAddress, "0xabc", 1, "USDC")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWeiToSei(t *testing.T) {
	oneSei := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	assert.Equal(t, 1.0, WeiToSei(oneSei))
	assert.Equal(t, 0.0, WeiToSei(nil))
}

func TestValidAddress(t *testing.T) {
	assert.True(t, ValidAddress(testAddress))
	assert.False(t, ValidAddress("71C7656EC7ab88b098defB751B7401B5f6d8976F"))
	assert.False(t, ValidAddress("0x123"))
}
