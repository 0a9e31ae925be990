// Package wallet provisions agent wallets, either through the Crossmint
// custody API or as locally generated keypairs.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valefinance/vale/internal/domain"
	"go.uber.org/zap"
)

const (
	ProviderCrossmint = domain.WalletProviderCrossmint
	crossmintBaseURL  = "https://staging.crossmint.com/api"
	seiBlockchain     = "sei"
)

var ErrNotConfigured = errors.New("crossmint server key and project id are required")

type CrossmintConfig struct {
	ServerKey  string
	ProjectID  string
	BaseURL    string
	HTTPClient *http.Client
}

// Crossmint is a client for the Crossmint wallets API.
type Crossmint struct {
	serverKey  string
	projectID  string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewCrossmint(cfg CrossmintConfig, logger *zap.Logger) (*Crossmint, error) {
	if cfg.ServerKey == "" || cfg.ProjectID == "" {
		return nil, ErrNotConfigured
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = crossmintBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crossmint{
		serverKey:  cfg.ServerKey,
		projectID:  cfg.ProjectID,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		logger:     logger,
	}, nil
}

func (c *Crossmint) Name() string { return ProviderCrossmint }

type createWalletRequest struct {
	Type       string            `json:"type"`
	LinkedUser string            `json:"linkedUser"`
	Metadata   map[string]string `json:"metadata"`
}

type createWalletResponse struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

// CreateWallet provisions an EVM smart wallet linked to the agent.
func (c *Crossmint) CreateWallet(ctx context.Context, agentID int64, agentName string) (*domain.Wallet, error) {
	linked := "agent-" + strconv.FormatInt(agentID, 10)
	c.logger.Info("creating crossmint wallet", zap.Int64("agent_id", agentID), zap.String("agent_name", agentName))

	var out createWalletResponse
	err := c.do(ctx, http.MethodPost, "/v1-alpha2/wallets", createWalletRequest{
		Type:       "evm-smart-wallet",
		LinkedUser: linked,
		Metadata: map[string]string{
			"agentId":    strconv.FormatInt(agentID, 10),
			"agentName":  agentName,
			"createdBy":  "vale-finance",
			"blockchain": seiBlockchain,
		},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}
	if out.Address == "" {
		return nil, errors.New("create wallet: no wallet address returned")
	}

	walletID := out.ID
	if walletID == "" {
		walletID = linked
	}
	return &domain.Wallet{
		Address:    out.Address,
		WalletID:   walletID,
		Blockchain: seiBlockchain,
		Provider:   ProviderCrossmint,
	}, nil
}

type sendRequest struct {
	Recipient  string            `json:"recipient"`
	Amount     string            `json:"amount"`
	Currency   string            `json:"currency"`
	Blockchain string            `json:"blockchain"`
	Metadata   map[string]string `json:"metadata"`
}

type sendResponse struct {
	TxID            string `json:"txId"`
	TransactionHash string `json:"transactionHash"`
}

// SendTransaction transfers amount from a custodial wallet and returns the
// transaction hash reported by Crossmint.
func (c *Crossmint) SendTransaction(ctx context.Context, walletID, to string, amount float64, currency string) (string, error) {
	if currency == "" {
		currency = "SEI"
	}
	var out sendResponse
	err := c.do(ctx, http.MethodPost, "/v1-alpha2/wallets/"+url.PathEscape(walletID)+"/transactions", sendRequest{
		Recipient:  to,
		Amount:     strconv.FormatFloat(amount, 'f', -1, 64),
		Currency:   strings.ToUpper(currency),
		Blockchain: seiBlockchain,
		Metadata: map[string]string{
			"purpose":   "automated-payment",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}, &out)
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	hash := out.TxID
	if hash == "" {
		hash = out.TransactionHash
	}
	if hash == "" {
		return "", errors.New("send transaction: no transaction hash returned")
	}
	c.logger.Info("crossmint transaction sent", zap.String("wallet_id", walletID), zap.String("tx_hash", hash))
	return hash, nil
}

// TransactionStatus returns Crossmint's status string for a transaction,
// "unknown" when none is reported.
func (c *Crossmint) TransactionStatus(ctx context.Context, txHash string) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1-alpha2/transactions/"+url.PathEscape(txHash), nil, &out); err != nil {
		return "unknown", fmt.Errorf("transaction status: %w", err)
	}
	if out.Status == "" {
		return "unknown", nil
	}
	return out.Status, nil
}

func (c *Crossmint) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serverKey)
	req.Header.Set("X-PROJECT-ID", c.projectID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("crossmint API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
