package wallet

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/valefinance/vale/internal/domain"
)

const ProviderLocal = domain.WalletProviderLocal

// Local generates a fresh secp256k1 keypair per wallet and keeps only the
// address. The private key is discarded.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Name() string { return ProviderLocal }

func (l *Local) CreateWallet(ctx context.Context, agentID int64, agentName string) (*domain.Wallet, error) {
	addr, err := newAddress()
	if err != nil {
		return nil, err
	}
	return &domain.Wallet{
		Address:    addr,
		WalletID:   "local-" + strconv.FormatInt(agentID, 10),
		Blockchain: seiBlockchain,
		Provider:   ProviderLocal,
	}, nil
}

// NewAddress returns a new random EVM address, or "" if key generation fails.
func NewAddress() string {
	addr, err := newAddress()
	if err != nil {
		return ""
	}
	return addr
}

func newAddress() (string, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}
