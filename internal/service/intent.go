package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/llm"
	"go.uber.org/zap"
)

// DefaultAgentBudget is used when an agent creation request names no amount.
const DefaultAgentBudget = 1000

// MaxAgentBudget caps budgets read from chat messages.
const MaxAgentBudget = 1_000_000_000_000

var (
	dollarAmountRe = regexp.MustCompile(`\$\s?(\d[\d,]*(?:\.\d+)?)`)
	bareAmountRe   = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)`)
	addressRe      = regexp.MustCompile(`0x[0-9a-fA-F]{40}`)
	agentRefRe     = regexp.MustCompile(`(?i)\bagent\s*(?:id\s*)?#?\s*(\d+)`)
	recipientRe    = regexp.MustCompile(`(?i)\bto\s+([A-Za-z0-9_.@-]+)`)
	currencyRe     = regexp.MustCompile(`(?i)\b(USDC|USDT|SEI)\b`)
)

// agent types in the order they are looked for in a message
var agentTypeKeywords = []domain.AgentType{
	domain.AgentTypePayroll,
	domain.AgentTypeTreasury,
	domain.AgentTypeInvoice,
	domain.AgentTypeSupplier,
}

// IntentClassifier maps chat messages to commands: keyword rules first, the
// LLM analyzer for everything else.
type IntentClassifier struct {
	llm    domain.LLMClient
	logger *zap.Logger
}

func NewIntentClassifier(client domain.LLMClient, logger *zap.Logger) *IntentClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentClassifier{llm: client, logger: logger}
}

// Classify returns the first matching rule's command.
func (c *IntentClassifier) Classify(ctx context.Context, message string) domain.Command {
	if cmd, ok := MatchKeywords(message); ok {
		return cmd
	}
	return c.analyze(ctx, message)
}

// MatchKeywords applies the keyword rules only.
func MatchKeywords(message string) (domain.Command, bool) {
	lower := strings.ToLower(message)

	if strings.Contains(lower, "create") && containsAny(lower, "agent", "payroll", "treasury", "invoice", "supplier") {
		agentType := domain.AgentTypePayroll
		for _, t := range agentTypeKeywords {
			if strings.Contains(lower, string(t)) {
				agentType = t
				break
			}
		}
		budget := int64(DefaultAgentBudget)
		if v, ok := parseAmount(message); ok {
			budget = clampBudget(v)
		}
		return domain.Command{
			Action: domain.IntentCreateAgent,
			Parameters: map[string]any{
				"type":             string(agentType),
				"budget":           budget,
				"crossmintEnabled": true,
				"name":             agentType.Title() + " Agent",
			},
			Confidence: 0.9,
		}, true
	}

	if strings.Contains(lower, "send") && containsAny(lower, "payment", "$", "pay") {
		return domain.Command{
			Action:     domain.IntentSendPayment,
			Parameters: parsePayment(message),
			Confidence: 0.8,
		}, true
	}

	if containsAny(lower, "balance", "treasury", "funds") {
		return domain.Command{
			Action:     domain.IntentCheckBalance,
			Parameters: map[string]any{},
			Confidence: 0.9,
		}, true
	}

	return domain.Command{}, false
}

func clampBudget(v float64) int64 {
	if v >= MaxAgentBudget {
		return MaxAgentBudget
	}
	return int64(v)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// parseAmount returns the first $-prefixed number, else the first number.
func parseAmount(s string) (float64, bool) {
	if m := dollarAmountRe.FindStringSubmatch(s); m != nil {
		return parseNumber(m[1])
	}
	if m := bareAmountRe.FindStringSubmatch(s); m != nil {
		return parseNumber(m[1])
	}
	return 0, false
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parsePayment extracts whichever of amount, recipient, agentId and currency
// the message names. Addresses and agent references are removed before the
// amount is looked for so their digits are not mistaken for it.
func parsePayment(message string) map[string]any {
	params := map[string]any{}

	if addr := addressRe.FindString(message); addr != "" {
		params["recipient"] = addr
	} else if m := recipientRe.FindStringSubmatch(message); m != nil {
		params["recipient"] = m[1]
	}

	if m := agentRefRe.FindStringSubmatch(message); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			params["agentId"] = id
		}
	}

	rest := addressRe.ReplaceAllString(message, " ")
	rest = agentRefRe.ReplaceAllString(rest, " ")
	if v, ok := parseAmount(rest); ok {
		params["amount"] = v
	}

	currency := domain.DefaultCurrency
	if m := currencyRe.FindStringSubmatch(message); m != nil {
		currency = strings.ToUpper(m[1])
	}
	params["currency"] = currency
	return params
}

type analyzerReply struct {
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
	Confidence float64        `json:"confidence"`
}

func (c *IntentClassifier) analyze(ctx context.Context, message string) domain.Command {
	if c.llm == nil {
		return conversationCommand(0.0)
	}

	out, err := c.llm.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: llm.AnalyzerSystemPrompt},
		{Role: domain.RoleUser, Content: fmt.Sprintf(llm.AnalyzePrompt, message)},
	}, llm.ConversationOptions)
	if err != nil {
		c.logger.Warn("intent analysis failed", zap.Error(err))
		return conversationCommand(0.0)
	}

	var reply analyzerReply
	if err := json.Unmarshal([]byte(stripCodeFence(out)), &reply); err != nil {
		return conversationCommand(0.5)
	}
	intent := domain.Intent(reply.Action)
	if !intent.IsValid() {
		return conversationCommand(0.5)
	}
	if reply.Parameters == nil {
		reply.Parameters = map[string]any{}
	}
	return domain.Command{Action: intent, Parameters: reply.Parameters, Confidence: reply.Confidence}
}

func conversationCommand(confidence float64) domain.Command {
	return domain.Command{
		Action:     domain.IntentConversation,
		Parameters: map[string]any{},
		Confidence: confidence,
	}
}

// stripCodeFence unwraps ```json ... ``` blocks models like to return.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
