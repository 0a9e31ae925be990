package domain

import "time"

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction types.
const (
	TransactionTypePayment = "payment"
	TransactionTypeYield   = "yield"
	TransactionTypeSwap    = "swap"
	TransactionTypeInvoice = "invoice"
)

// DefaultCurrency is used when a payment does not name one.
const DefaultCurrency = "USDC"

// Transaction is a payment recorded against an agent. AgentID is a weak
// reference: deleting the agent leaves its transactions in place.
type Transaction struct {
	ID          int64             `json:"id"`
	AgentID     int64             `json:"agentId"`
	Type        string            `json:"type"`
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Recipient   string            `json:"recipient"`
	TxHash      string            `json:"txHash,omitempty"`
	Status      TransactionStatus `json:"status"`
	Description string            `json:"description,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// PaymentInput describes a payment request from the API or the chat router.
type PaymentInput struct {
	AgentID   int64   `json:"agentId"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency,omitempty"`
}
