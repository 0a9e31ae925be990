package domain

// Metrics is the dashboard summary of treasury and agent state.
type Metrics struct {
	TreasuryBalance   int64   `json:"treasuryBalance"`
	ActiveAgents      int     `json:"activeAgents"`
	MonthlyPayments   float64 `json:"monthlyPayments"`
	SmartInvoices     int     `json:"smartInvoices"`
	TotalAgents       int     `json:"totalAgents"`
	TotalTransactions int     `json:"totalTransactions"`
}

// NetworkInfo describes the Sei network the service talks to.
type NetworkInfo struct {
	ChainID     int64  `json:"chainId"`
	RPCURL      string `json:"rpcUrl"`
	NetworkName string `json:"networkName"`
	BlockTime   string `json:"blockTime"`
	IsConnected bool   `json:"isConnected"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
}

// Wallet is a provisioned agent wallet.
type Wallet struct {
	Address    string `json:"address"`
	WalletID   string `json:"walletId"`
	Blockchain string `json:"blockchain"`
	Provider   string `json:"provider"`
}

// RuntimeAgent is the runtime's record of a deployed agent.
type RuntimeAgent struct {
	AgentID       int64          `json:"agentId"`
	Status        AgentStatus    `json:"status"`
	WalletAddress string         `json:"walletAddress,omitempty"`
	Config        map[string]any `json:"config"`
	LastActivity  string         `json:"lastActivity"`
}

// PolicyDecision is the outcome of evaluating a payment against policy.
type PolicyDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
