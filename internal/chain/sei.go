// Package chain talks to the Sei EVM network. Transfers are simulated;
// network info and balances are read from the RPC endpoint when live mode
// is enabled.
package chain

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/valefinance/vale/internal/domain"
	"go.uber.org/zap"
)

const (
	TestnetChainID = 1328
	blockTime      = "400ms"
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidAmount  = errors.New("amount must be positive")
)

var weiPerSei = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

type Config struct {
	RPCURL      string
	ChainID     int64
	Live        bool
	MockLatency time.Duration
}

// SeiClient implements domain.ChainClient.
type SeiClient struct {
	cfg    Config
	logger *zap.Logger

	mu  sync.Mutex
	rpc *gethrpc.Client
	eth *ethclient.Client
}

func NewSeiClient(cfg Config, logger *zap.Logger) *SeiClient {
	if cfg.ChainID == 0 {
		cfg.ChainID = TestnetChainID
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeiClient{cfg: cfg, logger: logger}
}

// NetworkName maps a chain id to the Sei network label.
func NetworkName(chainID int64) string {
	if chainID == TestnetChainID {
		return "atlantic-2 (testnet)"
	}
	return "pacific-1 (mainnet)"
}

// ValidAddress reports whether s is a 0x-prefixed 20 byte hex address.
func ValidAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

func (c *SeiClient) client(ctx context.Context) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eth != nil {
		return c.eth, nil
	}
	rpcURL := strings.TrimSpace(c.cfg.RPCURL)
	if rpcURL == "" {
		return nil, errors.New("sei rpc url not configured")
	}
	rpcClient, err := gethrpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial sei rpc: %w", err)
	}
	c.rpc = rpcClient
	c.eth = ethclient.NewClient(rpcClient)
	return c.eth, nil
}

// NetworkInfo reports the configured network. In live mode the chain id and
// head block come from the node; an unreachable node is reported as
// disconnected rather than as an error.
func (c *SeiClient) NetworkInfo(ctx context.Context) (domain.NetworkInfo, error) {
	info := domain.NetworkInfo{
		ChainID:     c.cfg.ChainID,
		RPCURL:      c.cfg.RPCURL,
		NetworkName: NetworkName(c.cfg.ChainID),
		BlockTime:   blockTime,
		IsConnected: true,
	}
	if !c.cfg.Live {
		return info, nil
	}

	eth, err := c.client(ctx)
	if err != nil {
		c.logger.Warn("sei rpc unavailable", zap.Error(err))
		info.IsConnected = false
		return info, nil
	}
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		c.logger.Warn("fetch chain id failed", zap.Error(err))
		info.IsConnected = false
		return info, nil
	}
	info.ChainID = chainID.Int64()
	info.NetworkName = NetworkName(info.ChainID)

	head, err := eth.BlockNumber(ctx)
	if err != nil {
		c.logger.Warn("fetch block number failed", zap.Error(err))
	} else {
		info.BlockNumber = head
	}
	return info, nil
}

// Balance returns the SEI balance of address.
func (c *SeiClient) Balance(ctx context.Context, address string) (float64, error) {
	if !ValidAddress(address) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	if !c.cfg.Live {
		c.logger.Debug("mock balance lookup", zap.String("address", address))
		return float64(mrand.IntN(10_000_000)) / 100, nil
	}

	eth, err := c.client(ctx)
	if err != nil {
		return 0, err
	}
	wei, err := eth.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return 0, fmt.Errorf("fetch balance: %w", err)
	}
	return WeiToSei(wei), nil
}

// SendTransaction simulates a transfer and returns its hash once the
// configured latency has elapsed.
func (c *SeiClient) SendTransaction(ctx context.Context, from, to string, amount float64, currency string) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	if strings.TrimSpace(to) == "" {
		return "", fmt.Errorf("%w: empty recipient", ErrInvalidAddress)
	}

	c.logger.Info("sending transaction",
		zap.String("from", from),
		zap.String("to", to),
		zap.Float64("amount", amount),
		zap.String("currency", currency),
	)

	hash, err := randomHash()
	if err != nil {
		return "", err
	}

	if c.cfg.MockLatency > 0 {
		timer := time.NewTimer(c.cfg.MockLatency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.Info("transaction submitted", zap.String("tx_hash", hash))
	return hash, nil
}

// Close releases the RPC connection, if any.
func (c *SeiClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eth != nil {
		c.eth.Close()
		c.eth = nil
	}
	c.rpc = nil
}

// WeiToSei converts an 18-decimal wei amount to SEI.
func WeiToSei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerSei).Float64()
	return f
}

func randomHash() (string, error) {
	var b [common.HashLength]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate tx hash: %w", err)
	}
	return common.BytesToHash(b[:]).Hex(), nil
}
