package domain

import (
	"strings"
	"time"
)

// AgentType is the payment policy an agent automates.
type AgentType string

const (
	AgentTypePayroll  AgentType = "payroll"
	AgentTypeInvoice  AgentType = "invoice"
	AgentTypeTreasury AgentType = "treasury"
	AgentTypeSupplier AgentType = "supplier"
)

// ValidAgentTypes returns all valid agent types.
func ValidAgentTypes() []AgentType {
	return []AgentType{
		AgentTypePayroll,
		AgentTypeInvoice,
		AgentTypeTreasury,
		AgentTypeSupplier,
	}
}

// IsValid checks if the agent type is valid.
func (t AgentType) IsValid() bool {
	switch t {
	case AgentTypePayroll, AgentTypeInvoice, AgentTypeTreasury, AgentTypeSupplier:
		return true
	default:
		return false
	}
}

// Title returns the capitalized type name, e.g. "Payroll".
func (t AgentType) Title() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

type AgentStatus string

const (
	AgentStatusInactive   AgentStatus = "inactive"
	AgentStatusActive     AgentStatus = "active"
	AgentStatusMonitoring AgentStatus = "monitoring"
	AgentStatusEarning    AgentStatus = "earning"
	AgentStatusError      AgentStatus = "error"
)

func (s AgentStatus) IsValid() bool {
	switch s {
	case AgentStatusInactive, AgentStatusActive, AgentStatusMonitoring, AgentStatusEarning, AgentStatusError:
		return true
	default:
		return false
	}
}

// Wallet providers recorded on an agent.
const (
	WalletProviderCrossmint = "crossmint"
	WalletProviderLocal     = "local"
)

type Agent struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Type             AgentType      `json:"type"`
	Status           AgentStatus    `json:"status"`
	WalletAddress    string         `json:"walletAddress,omitempty"`
	WalletID         string         `json:"walletId,omitempty"`
	WalletProvider   string         `json:"walletProvider,omitempty"`
	Budget           int64          `json:"budget"`
	Configuration    map[string]any `json:"configuration"`
	CrossmintEnabled bool           `json:"crossmintEnabled"`
	RivalzEnabled    bool           `json:"rivalzEnabled"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// AgentInput is the caller-supplied part of a new agent.
type AgentInput struct {
	Name             string    `json:"name"`
	Type             AgentType `json:"type"`
	Budget           int64     `json:"budget"`
	CrossmintEnabled bool      `json:"crossmintEnabled"`
	RivalzEnabled    bool      `json:"rivalzEnabled"`
}

// AgentUpdate is a partial update; nil fields are left unchanged.
type AgentUpdate struct {
	Status         *AgentStatus
	WalletAddress  *string
	WalletID       *string
	WalletProvider *string
	Budget         *int64
}
