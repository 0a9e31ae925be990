package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/llm"
	"github.com/valefinance/vale/internal/telemetry"
)

func newTestConversation(t *testing.T, client domain.LLMClient) (*ConversationService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewConversationService(env.manager, client, testLogger(), telemetry.NewMetrics()), env
}

func TestConversation_CreateAgent(t *testing.T) {
	conv, env := newTestConversation(t, nil)
	ctx := context.Background()

	reply := conv.ProcessMessage(ctx, "s1", "create a payroll agent with $5000 budget")

	assert.True(t, strings.HasPrefix(reply, `I've created the create_agent: payroll agent "Payroll Agent" successfully created`), reply)
	assert.Contains(t, reply, "Budget: $5000 USDC")
	assert.Contains(t, reply, "Status: active")

	agents, err := env.manager.Agents(ctx)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, int64(5000), agents[0].Budget)
	assert.Equal(t, domain.AgentTypePayroll, agents[0].Type)
	assert.True(t, agents[0].CrossmintEnabled)
}

func TestConversation_CreateAgentFromAnalyzer(t *testing.T) {
	client := llm.NewMockClient()
	client.Responses = []string{
		`{"action":"create_agent","parameters":{"type":" Treasury ","budget":99999999999999999999},"confidence":0.8}`,
	}
	conv, env := newTestConversation(t, client)
	ctx := context.Background()

	reply := conv.ProcessMessage(ctx, "s1", "spin up a bot that watches our reserves")

	assert.True(t, strings.HasPrefix(reply, `I've created the create_agent: treasury agent "Treasury Agent" successfully created`), reply)

	agents, err := env.manager.Agents(ctx)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, domain.AgentTypeTreasury, agents[0].Type)
	assert.Equal(t, int64(MaxAgentBudget), agents[0].Budget)
}

func TestConversation_SendPaymentUsesFirstActiveAgent(t *testing.T) {
	conv, env := newTestConversation(t, nil)
	ctx := context.Background()
	idle := env.mustCreate(t, domain.AgentInput{Name: "Idle", Type: domain.AgentTypePayroll})
	require.NoError(t, env.manager.Stop(ctx, idle.ID))
	active := env.mustCreate(t, domain.AgentInput{Name: "Active", Type: domain.AgentTypeSupplier})

	reply := conv.ProcessMessage(ctx, "s1", "send $250 payment to "+testRecipient)

	assert.True(t, strings.HasPrefix(reply, "I've executed the send_payment: payment of 250 USDC sent to "+testRecipient), reply)
	assert.Contains(t, reply, "Transaction Hash: 0x")
	assert.Contains(t, reply, fmt.Sprintf("Agent ID: %d", active.ID))

	txs, err := env.manager.AgentTransactions(ctx, active.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestConversation_PaymentFailuresApologize(t *testing.T) {
	tests := []struct {
		name    string
		message string
		agents  bool
	}{
		{"missing recipient", "send $250 payment", true},
		{"missing amount", "send payment to " + testRecipient, true},
		{"no active agent", "send $10 to " + testRecipient, false},
		{"unknown agent", "send $10 to " + testRecipient + " from agent 99", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, env := newTestConversation(t, nil)
			if tt.agents {
				env.mustCreate(t, domain.AgentInput{Name: "A", Type: domain.AgentTypePayroll})
			}

			reply := conv.ProcessMessage(context.Background(), "s1", tt.message)
			assert.Equal(t, ReplyApology, reply)

			_, txs, _ := env.counts(t)
			assert.Zero(t, txs)

			history := conv.History("s1")
			require.Len(t, history, 2)
			assert.Equal(t, ReplyApology, history[1].Content)
		})
	}
}

func TestConversation_CheckBalance(t *testing.T) {
	conv, env := newTestConversation(t, nil)
	env.mustCreate(t, domain.AgentInput{Name: "A", Type: domain.AgentTypeTreasury, Budget: 45000})

	reply := conv.ProcessMessage(context.Background(), "s1", "what is my balance?")

	assert.Equal(t, "I've executed the check_balance: current treasury and agent status\n\n"+
		"Treasury Balance: $45000 USDC\nActive Agents: 1\nMonthly Payments: $0\nSmart Invoices: 7", reply)
}

func TestConversation_GeneralChat(t *testing.T) {
	client := llm.NewMockClient()
	client.Responses = []string{"not a command", "Happy to help with your payments."}
	conv, _ := newTestConversation(t, client)

	reply := conv.ProcessMessage(context.Background(), "s1", "hello there")
	assert.Equal(t, "Happy to help with your payments.", reply)

	require.Equal(t, 2, client.Calls())
	transcript := client.CompleteCalls[1]
	require.Len(t, transcript, 2)
	assert.Equal(t, domain.RoleSystem, transcript[0].Role)
	assert.Equal(t, llm.ConversationSystemPrompt, transcript[0].Content)
	assert.Equal(t, "hello there", transcript[1].Content)
	assert.Equal(t, llm.ConversationOptions, client.OptionCalls[1])
}

func TestConversation_LLMFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		client domain.LLMClient
		want   string
	}{
		{"offline", nil, ReplyOffline},
		{"rate limited", &llm.MockClient{CompleteError: fmt.Errorf("anthropic: %w", llm.ErrRateLimited)}, ReplyRateLimited},
		{"error", &llm.MockClient{CompleteError: errors.New("boom")}, ReplyTrouble},
		{"empty", &llm.MockClient{Responses: []string{"{}", ""}}, "No response generated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, _ := newTestConversation(t, tt.client)
			assert.Equal(t, tt.want, conv.ProcessMessage(context.Background(), "s1", "hi"))
		})
	}
}

func TestConversation_HistoryAndClear(t *testing.T) {
	conv, _ := newTestConversation(t, nil)
	ctx := context.Background()

	assert.Empty(t, conv.History("s1"))
	assert.False(t, conv.Clear("s1"))

	conv.ProcessMessage(ctx, "s1", "hi")
	conv.ProcessMessage(ctx, "s1", "still there?")
	conv.ProcessMessage(ctx, "s2", "other session")

	history := conv.History("s1")
	require.Len(t, history, 4)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
	assert.Equal(t, "still there?", history[2].Content)

	history[0].Content = "mutated"
	assert.Equal(t, "hi", conv.History("s1")[0].Content)

	assert.True(t, conv.Clear("s1"))
	assert.Empty(t, conv.History("s1"))
	assert.Len(t, conv.History("s2"), 2)
	assert.Equal(t, 1, conv.SessionCount())

	conv.ProcessMessage(ctx, "s1", "back again")
	assert.Len(t, conv.History("s1"), 2)
}

func TestConversation_ConcurrentTurnsStayPaired(t *testing.T) {
	conv, _ := newTestConversation(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conv.ProcessMessage(ctx, "shared", fmt.Sprintf("message %d", i))
		}(i)
	}
	wg.Wait()

	history := conv.History("shared")
	require.Len(t, history, 40)
	for i := 0; i < len(history); i += 2 {
		assert.Equal(t, domain.RoleUser, history[i].Role)
		assert.Equal(t, domain.RoleAssistant, history[i+1].Role)
	}
}

func TestQuickReply(t *testing.T) {
	tests := []struct {
		message string
		prefix  string
	}{
		{"What was our outflow last month?", "Based on your payment history"},
		{"Pay my suppliers", "Based on your payment history"},
		{"Set up a recurring payment", "I've created a recurring payment schedule"},
		{"schedule payroll", "I've created a recurring payment schedule"},
		{"what's the balance", "Your treasury currently holds $45,250 USDC"},
		{"hello", "I understand you want to manage your Vale Finance operations"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.True(t, strings.HasPrefix(QuickReply(tt.message), tt.prefix))
		})
	}
}
