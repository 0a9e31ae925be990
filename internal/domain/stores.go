package domain

import (
	"context"
	"time"
)

type AgentStore interface {
	Create(ctx context.Context, a *Agent) error
	GetByID(ctx context.Context, id int64) (*Agent, error)
	List(ctx context.Context) ([]Agent, error)
	Update(ctx context.Context, id int64, u AgentUpdate) (*Agent, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type TransactionStore interface {
	Create(ctx context.Context, t *Transaction) error
	List(ctx context.Context) ([]Transaction, error)
	ListByAgent(ctx context.Context, agentID int64) ([]Transaction, error)
}

type ActivityStore interface {
	Create(ctx context.Context, a *Activity) error
	List(ctx context.Context, limit int) ([]Activity, error)
}

type IntegrationStore interface {
	List(ctx context.Context) ([]Integration, error)
	Update(ctx context.Context, name, status string, metadata map[string]any) (*Integration, error)
}

// ChatMessage is one role-tagged turn sent to a language model.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type CompletionOptions struct {
	MaxTokens   int
	Temperature float32
}

type LLMClient interface {
	Complete(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error)
}

// ChainClient talks to the Sei EVM network.
type ChainClient interface {
	NetworkInfo(ctx context.Context) (NetworkInfo, error)
	Balance(ctx context.Context, address string) (float64, error)
	SendTransaction(ctx context.Context, from, to string, amount float64, currency string) (string, error)
}

// WalletProvider provisions wallets for agents.
type WalletProvider interface {
	Name() string
	CreateWallet(ctx context.Context, agentID int64, agentName string) (*Wallet, error)
}

// WalletTransactor sends payments from a custodial wallet.
type WalletTransactor interface {
	SendTransaction(ctx context.Context, walletID, to string, amount float64, currency string) (string, error)
}

type AgentRuntime interface {
	Deploy(ctx context.Context, a *Agent) error
	Stop(ctx context.Context, agentID int64) (bool, error)
	Status(ctx context.Context, agentID int64) (*RuntimeAgent, error)
	ExecuteAction(ctx context.Context, agentID int64, action string, params map[string]any) (map[string]any, error)
}

type PaymentPolicy interface {
	Evaluate(ctx context.Context, a *Agent, p PaymentInput) (PolicyDecision, error)
}

// Event kinds published when activities are recorded.
const (
	EventAgentDeployed = "agent.deployed"
	EventAgentStopped  = "agent.stopped"
	EventAgentDeleted  = "agent.deleted"
	EventPaymentSent   = "payment.sent"
	EventAgentAction   = "agent.action"
)

type Event struct {
	Kind       string    `json:"kind"`
	Activity   *Activity `json:"activity"`
	OccurredAt time.Time `json:"occurredAt"`
}

type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}
