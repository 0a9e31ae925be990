package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/llm"
)

func TestMatchKeywords(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		matched    bool
		action     domain.Intent
		params     map[string]any
		confidence float64
	}{
		{
			name:    "create with dollar budget",
			message: "create a payroll agent with $5000 budget",
			matched: true,
			action:  domain.IntentCreateAgent,
			params: map[string]any{
				"type": "payroll", "budget": int64(5000), "crossmintEnabled": true, "name": "Payroll Agent",
			},
			confidence: 0.9,
		},
		{
			name:    "create with bare comma number",
			message: "Create a treasury agent, budget 25,000",
			matched: true,
			action:  domain.IntentCreateAgent,
			params: map[string]any{
				"type": "treasury", "budget": int64(25000), "crossmintEnabled": true, "name": "Treasury Agent",
			},
			confidence: 0.9,
		},
		{
			name:    "create prefers dollar amount over earlier number",
			message: "create 2 supplier agents for $750",
			matched: true,
			action:  domain.IntentCreateAgent,
			params: map[string]any{
				"type": "supplier", "budget": int64(750), "crossmintEnabled": true, "name": "Supplier Agent",
			},
			confidence: 0.9,
		},
		{
			name:    "create defaults",
			message: "please create an agent",
			matched: true,
			action:  domain.IntentCreateAgent,
			params: map[string]any{
				"type": "payroll", "budget": int64(DefaultAgentBudget), "crossmintEnabled": true, "name": "Payroll Agent",
			},
			confidence: 0.9,
		},
		{
			name:    "payment with address and agent",
			message: "Send $250 to 0x1111111111111111111111111111111111111111 from agent #2",
			matched: true,
			action:  domain.IntentSendPayment,
			params: map[string]any{
				"amount": 250.0, "recipient": testRecipient, "agentId": int64(2), "currency": "USDC",
			},
			confidence: 0.8,
		},
		{
			name:    "payment with named recipient and currency",
			message: "send a payment of 1,200.50 sei to acme-corp",
			matched: true,
			action:  domain.IntentSendPayment,
			params: map[string]any{
				"amount": 1200.5, "recipient": "acme-corp", "currency": "SEI",
			},
			confidence: 0.8,
		},
		{
			name:       "payment without details",
			message:    "send payment",
			matched:    true,
			action:     domain.IntentSendPayment,
			params:     map[string]any{"currency": "USDC"},
			confidence: 0.8,
		},
		{
			name:       "balance",
			message:    "What's my current balance?",
			matched:    true,
			action:     domain.IntentCheckBalance,
			params:     map[string]any{},
			confidence: 0.9,
		},
		{
			name:       "funds",
			message:    "how are our funds doing",
			matched:    true,
			action:     domain.IntentCheckBalance,
			params:     map[string]any{},
			confidence: 0.9,
		},
		{
			name:    "create wins over payment",
			message: "create an invoice agent and send payment",
			matched: true,
			action:  domain.IntentCreateAgent,
			params: map[string]any{
				"type": "invoice", "budget": int64(DefaultAgentBudget), "crossmintEnabled": true, "name": "Invoice Agent",
			},
			confidence: 0.9,
		},
		{
			name:    "oversized budget is capped",
			message: "create a treasury agent with $99999999999999999999 budget",
			matched: true,
			action:  domain.IntentCreateAgent,
			params: map[string]any{
				"type": "treasury", "budget": int64(MaxAgentBudget), "crossmintEnabled": true, "name": "Treasury Agent",
			},
			confidence: 0.9,
		},
		{name: "send without payment words", message: "send 75 to bob"},
		{name: "create without agent words", message: "create a report"},
		{name: "small talk", message: "Hello there"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := MatchKeywords(tt.message)
			require.Equal(t, tt.matched, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.action, cmd.Action)
			assert.Equal(t, tt.params, cmd.Parameters)
			assert.Equal(t, tt.confidence, cmd.Confidence)
		})
	}
}

func TestIntentClassifier_KeywordsSkipLLM(t *testing.T) {
	client := llm.NewMockClient()
	c := NewIntentClassifier(client, testLogger())

	cmd := c.Classify(context.Background(), "check my treasury")
	assert.Equal(t, domain.IntentCheckBalance, cmd.Action)
	assert.Zero(t, client.Calls())
}

func TestIntentClassifier_Analyzer(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		err        error
		action     domain.Intent
		confidence float64
	}{
		{
			name:       "structured command",
			reply:      `{"action":"send_payment","parameters":{"amount":50,"recipient":"bob"},"confidence":0.7}`,
			action:     domain.IntentSendPayment,
			confidence: 0.7,
		},
		{
			name:       "fenced json",
			reply:      "```json\n{\"action\":\"check_balance\",\"parameters\":{},\"confidence\":0.6}\n```",
			action:     domain.IntentCheckBalance,
			confidence: 0.6,
		},
		{
			name:       "unparseable",
			reply:      "I think they want to chat",
			action:     domain.IntentConversation,
			confidence: 0.5,
		},
		{
			name:       "unknown action",
			reply:      `{"action":"launch_rocket","confidence":0.99}`,
			action:     domain.IntentConversation,
			confidence: 0.5,
		},
		{
			name:       "llm error",
			err:        errors.New("connection reset"),
			action:     domain.IntentConversation,
			confidence: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := llm.NewMockClient()
			client.CompleteResponse = tt.reply
			client.CompleteError = tt.err
			c := NewIntentClassifier(client, testLogger())

			cmd := c.Classify(context.Background(), "wire fifty bucks to bob")
			assert.Equal(t, tt.action, cmd.Action)
			assert.Equal(t, tt.confidence, cmd.Confidence)
			assert.NotNil(t, cmd.Parameters)

			require.Equal(t, 1, client.Calls())
			msgs := client.CompleteCalls[0]
			require.Len(t, msgs, 2)
			assert.Equal(t, domain.RoleSystem, msgs[0].Role)
			assert.Contains(t, msgs[1].Content, `"wire fifty bucks to bob"`)
		})
	}
}

func TestIntentClassifier_NoClient(t *testing.T) {
	c := NewIntentClassifier(nil, nil)

	cmd := c.Classify(context.Background(), "tell me a joke")
	assert.Equal(t, domain.IntentConversation, cmd.Action)
	assert.Equal(t, 0.0, cmd.Confidence)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`  {"a":1} `))
}
