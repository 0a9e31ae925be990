package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valefinance/vale/internal/domain"
)

func TestEngine_DefaultPolicy(t *testing.T) {
	ctx := context.Background()
	e, err := Load(ctx, "")
	require.NoError(t, err)

	agent := &domain.Agent{ID: 1, Type: domain.AgentTypePayroll, Status: domain.AgentStatusActive, Budget: 1000}

	tests := []struct {
		name    string
		agent   *domain.Agent
		amount  float64
		allowed bool
		reason  string
	}{
		{"within budget", agent, 500, true, ""},
		{"at budget", agent, 1000, true, ""},
		{"over budget", agent, 1500, true, ""},
		{"zero amount", agent, 0, false, "amount must be positive"},
		{"unlimited budget", &domain.Agent{ID: 2, Type: domain.AgentTypeTreasury, Status: domain.AgentStatusActive}, 1e6, true, ""},
		{"errored agent", &domain.Agent{ID: 3, Status: domain.AgentStatusError, Budget: 1000}, -1, false, "agent is in error state"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := e.Evaluate(ctx, tt.agent, domain.PaymentInput{AgentID: tt.agent.ID, Recipient: "0xabc", Amount: tt.amount})
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestEngine_BudgetCapPolicy(t *testing.T) {
	ctx := context.Background()
	e, err := Load(ctx, "budget_cap.rego")
	require.NoError(t, err)

	agent := &domain.Agent{ID: 1, Type: domain.AgentTypePayroll, Status: domain.AgentStatusActive, Budget: 1000}

	tests := []struct {
		name    string
		agent   *domain.Agent
		amount  float64
		allowed bool
		reason  string
	}{
		{"at budget", agent, 1000, true, ""},
		{"over budget", agent, 1500, false, "amount exceeds agent budget"},
		{"unlimited budget", &domain.Agent{ID: 2, Status: domain.AgentStatusActive}, 1e6, true, ""},
		{"zero amount", agent, 0, false, "amount must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := e.Evaluate(ctx, tt.agent, domain.PaymentInput{AgentID: tt.agent.ID, Recipient: "0xabc", Amount: tt.amount})
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestEngine_CustomPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.rego")
	content := `
package payment_policy

default decision = "allow"

decision = "block" {
	input.payment.currency == "SEI"
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	e, err := Load(context.Background(), path)
	require.NoError(t, err)

	d, err := e.Evaluate(context.Background(), &domain.Agent{ID: 1}, domain.PaymentInput{Amount: 1, Currency: "SEI"})
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, "blocked by payment policy", d.Reason)

	d, err = e.Evaluate(context.Background(), &domain.Agent{ID: 1}, domain.PaymentInput{Amount: 1, Currency: "USDC"})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestEngine_InvalidPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package payment_policy\n\ndecision = {")
	assert.Error(t, err)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.rego"))
	assert.Error(t, err)
}
