package client

import "time"

type Agent struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Type             string         `json:"type"`
	Status           string         `json:"status"`
	WalletAddress    string         `json:"walletAddress,omitempty"`
	WalletProvider   string         `json:"walletProvider,omitempty"`
	Budget           int64          `json:"budget"`
	Configuration    map[string]any `json:"configuration"`
	CrossmintEnabled bool           `json:"crossmintEnabled"`
	RivalzEnabled    bool           `json:"rivalzEnabled"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// CreateAgentRequest is the body of POST /api/agents.
type CreateAgentRequest struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	Budget           int64  `json:"budget"`
	CrossmintEnabled bool   `json:"crossmintEnabled,omitempty"`
	RivalzEnabled    bool   `json:"rivalzEnabled,omitempty"`
}

type Transaction struct {
	ID          int64     `json:"id"`
	AgentID     int64     `json:"agentId"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Recipient   string    `json:"recipient"`
	TxHash      string    `json:"txHash,omitempty"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PaymentRequest is the body of POST /api/payments.
type PaymentRequest struct {
	AgentID   int64   `json:"agentId"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency,omitempty"`
}

type PaymentResult struct {
	Success     bool        `json:"success"`
	TxHash      string      `json:"txHash"`
	Transaction Transaction `json:"transaction"`
}

type Activity struct {
	ID          int64          `json:"id"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	AgentID     *int64         `json:"agentId,omitempty"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type Metrics struct {
	TreasuryBalance   int64   `json:"treasuryBalance"`
	ActiveAgents      int     `json:"activeAgents"`
	MonthlyPayments   float64 `json:"monthlyPayments"`
	SmartInvoices     int     `json:"smartInvoices"`
	TotalAgents       int     `json:"totalAgents"`
	TotalTransactions int     `json:"totalTransactions"`
}

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatReply is the response of POST /api/conversation/message.
type ChatReply struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
	Timestamp string `json:"timestamp"`
}
