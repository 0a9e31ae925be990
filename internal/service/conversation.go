package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/llm"
	"github.com/valefinance/vale/internal/telemetry"
	"go.uber.org/zap"
)

// Canned replies substituted for failed or unavailable LLM calls.
const (
	ReplyOffline     = "I'm currently running in offline mode. You can still use the dashboard to manage agents, send payments, and view analytics directly."
	ReplyRateLimited = "I'm currently experiencing high demand and need to limit API usage. Please try again in a moment, or feel free to use the dashboard directly to manage your agents and payments."
	ReplyTrouble     = "I apologize, but I'm having trouble processing your request right now. You can still use the dashboard to manage agents, send payments, and view analytics directly."
	ReplyApology     = "I apologize, but I encountered an error processing your request. Please try again or contact support if the issue persists."
	replyEmpty       = "No response generated"
)

// AgentOperator is the part of AgentManager the conversation router drives.
type AgentOperator interface {
	CreateAndDeploy(ctx context.Context, in domain.AgentInput) (*domain.Agent, error)
	ExecutePayment(ctx context.Context, in domain.PaymentInput) (*domain.Transaction, error)
	Metrics(ctx context.Context) (*domain.Metrics, error)
	Agents(ctx context.Context) ([]domain.Agent, error)
}

type session struct {
	mu   sync.Mutex
	conv domain.Conversation
}

// ConversationService routes chat messages to agent operations or to the
// LLM and keeps one transcript per session. Turns of one session are
// serialized; different sessions proceed concurrently.
type ConversationService struct {
	operator   AgentOperator
	classifier *IntentClassifier
	llm        domain.LLMClient
	logger     *zap.Logger
	metrics    *telemetry.Metrics
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewConversationService creates the router. client may be nil, in which
// case general conversation answers with the offline reply.
func NewConversationService(op AgentOperator, client domain.LLMClient, logger *zap.Logger, metrics *telemetry.Metrics) *ConversationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{
		operator:   op,
		classifier: NewIntentClassifier(client, logger),
		llm:        client,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
		sessions:   make(map[string]*session),
	}
}

func (s *ConversationService) session(sessionID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{conv: domain.Conversation{
			SessionID: sessionID,
			Messages: []domain.Message{{
				Role:      domain.RoleSystem,
				Content:   llm.ConversationSystemPrompt,
				Timestamp: s.now(),
			}},
		}}
		s.sessions[sessionID] = sess
	}
	return sess
}

// ProcessMessage handles one user turn and returns the reply. Both the
// message and the reply are appended to the session transcript.
func (s *ConversationService) ProcessMessage(ctx context.Context, sessionID, message string) string {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.conv.Messages = append(sess.conv.Messages, domain.Message{
		Role:      domain.RoleUser,
		Content:   message,
		Timestamp: s.now(),
	})

	cmd := s.classifier.Classify(ctx, message)
	s.metrics.ChatMessage(string(cmd.Action))
	s.logger.Debug("message classified",
		zap.String("session_id", sessionID),
		zap.String("intent", string(cmd.Action)),
		zap.Float64("confidence", cmd.Confidence),
	)

	var reply string
	if cmd.Action != domain.IntentConversation {
		res, err := s.dispatch(ctx, cmd)
		if err != nil {
			s.logger.Warn("financial command failed",
				zap.String("session_id", sessionID),
				zap.String("intent", string(cmd.Action)),
				zap.Error(err),
			)
			reply = ReplyApology
		} else {
			verb := "executed"
			if cmd.Action == domain.IntentCreateAgent {
				verb = "created"
			}
			reply = fmt.Sprintf("I've %s the %s: %s\n\n%s", verb, cmd.Action, res.summary, res.details)
		}
	} else {
		reply = s.converse(ctx, sess.conv.Messages)
	}

	sess.conv.Messages = append(sess.conv.Messages, domain.Message{
		Role:      domain.RoleAssistant,
		Content:   reply,
		Timestamp: s.now(),
	})
	return reply
}

type commandResult struct {
	summary string
	details string
}

func (s *ConversationService) dispatch(ctx context.Context, cmd domain.Command) (*commandResult, error) {
	switch cmd.Action {
	case domain.IntentCreateAgent:
		return s.createAgent(ctx, cmd.Parameters)
	case domain.IntentSendPayment:
		return s.sendPayment(ctx, cmd.Parameters)
	case domain.IntentCheckBalance:
		return s.checkBalance(ctx)
	default:
		return nil, fmt.Errorf("unknown financial action: %s", cmd.Action)
	}
}

func (s *ConversationService) createAgent(ctx context.Context, p map[string]any) (*commandResult, error) {
	agentType := domain.AgentType(strings.ToLower(paramString(p, "type")))
	if agentType == "" {
		agentType = domain.AgentTypePayroll
	}
	name := paramString(p, "name")
	if name == "" {
		name = agentType.Title() + " Agent"
	}
	budget := int64(DefaultAgentBudget)
	if v, ok := paramFloat(p, "budget"); ok && v > 0 {
		budget = clampBudget(v)
	}
	crossmint := true
	if v, ok := p["crossmintEnabled"].(bool); ok {
		crossmint = v
	}
	rivalz, _ := p["rivalzEnabled"].(bool)

	a, err := s.operator.CreateAndDeploy(ctx, domain.AgentInput{
		Name:             name,
		Type:             agentType,
		Budget:           budget,
		CrossmintEnabled: crossmint,
		RivalzEnabled:    rivalz,
	})
	if err != nil {
		return nil, err
	}

	wallet := a.WalletAddress
	if wallet == "" {
		wallet = "Creating..."
	}
	return &commandResult{
		summary: fmt.Sprintf("%s agent %q successfully created", a.Type, a.Name),
		details: fmt.Sprintf("Agent ID: %d\nBudget: $%d USDC\nWallet: %s\nStatus: %s", a.ID, a.Budget, wallet, a.Status),
	}, nil
}

func (s *ConversationService) sendPayment(ctx context.Context, p map[string]any) (*commandResult, error) {
	recipient := paramString(p, "recipient")
	amount, _ := paramFloat(p, "amount")
	if recipient == "" || amount <= 0 {
		return nil, fmt.Errorf("%w: missing required parameters for payment", ErrInvalidPayment)
	}
	currency := strings.ToUpper(paramString(p, "currency"))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	var agentID int64
	if v, ok := paramFloat(p, "agentId"); ok {
		agentID = int64(v)
	}
	if agentID <= 0 {
		id, err := s.firstActiveAgent(ctx)
		if err != nil {
			return nil, err
		}
		agentID = id
	}

	tx, err := s.operator.ExecutePayment(ctx, domain.PaymentInput{
		AgentID:   agentID,
		Recipient: recipient,
		Amount:    amount,
		Currency:  currency,
	})
	if err != nil {
		return nil, err
	}

	return &commandResult{
		summary: fmt.Sprintf("payment of %s %s sent to %s", formatAmount(tx.Amount), tx.Currency, tx.Recipient),
		details: fmt.Sprintf("Transaction Hash: %s\nStatus: Pending confirmation on Sei network\nAgent ID: %d", tx.TxHash, tx.AgentID),
	}, nil
}

func (s *ConversationService) firstActiveAgent(ctx context.Context) (int64, error) {
	agents, err := s.operator.Agents(ctx)
	if err != nil {
		return 0, err
	}
	for _, a := range agents {
		if a.Status == domain.AgentStatusActive {
			return a.ID, nil
		}
	}
	return 0, errors.New("no active agent available to send the payment")
}

func (s *ConversationService) checkBalance(ctx context.Context) (*commandResult, error) {
	m, err := s.operator.Metrics(ctx)
	if err != nil {
		return nil, err
	}
	return &commandResult{
		summary: "current treasury and agent status",
		details: fmt.Sprintf("Treasury Balance: $%d USDC\nActive Agents: %d\nMonthly Payments: $%s\nSmart Invoices: %d",
			m.TreasuryBalance, m.ActiveAgents, formatAmount(m.MonthlyPayments), m.SmartInvoices),
	}, nil
}

// converse sends the transcript to the LLM, substituting canned text when
// the call cannot be made or fails.
func (s *ConversationService) converse(ctx context.Context, transcript []domain.Message) string {
	if s.llm == nil {
		s.metrics.LLMFallback("offline")
		return ReplyOffline
	}

	msgs := make([]domain.ChatMessage, 0, len(transcript))
	for _, m := range transcript {
		msgs = append(msgs, domain.ChatMessage{Role: m.Role, Content: m.Content})
	}

	out, err := s.llm.Complete(ctx, msgs, llm.ConversationOptions)
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		s.metrics.LLMFallback("rate_limited")
		return ReplyRateLimited
	case err != nil:
		s.metrics.LLMFallback("error")
		s.logger.Error("conversation completion failed", zap.Error(err))
		return ReplyTrouble
	case out == "":
		return replyEmpty
	}
	return out
}

// History returns the session transcript without the system prompt. An
// unknown session has an empty history.
func (s *ConversationService) History(sessionID string) []domain.Message {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return []domain.Message{}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]domain.Message, 0, len(sess.conv.Messages))
	for _, m := range sess.conv.Messages {
		if m.Role != domain.RoleSystem {
			out = append(out, m)
		}
	}
	return out
}

// Clear drops the session transcript. It reports whether the session
// existed.
func (s *ConversationService) Clear(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

// QuickReply answers the dashboard's MCP chat widget from canned responses.
func QuickReply(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "outflow") || strings.Contains(lower, "suppliers"):
		return "Based on your payment history, total outflow to suppliers this month was $24,750 USDC across 15 transactions. The largest payment was $5,200 to TechSupply Corp on Dec 15th."
	case strings.Contains(lower, "recurring") || strings.Contains(lower, "schedule"):
		return "I've created a recurring payment schedule for the amount specified. The payment will be processed through your Payroll Agent. Would you like me to set up any specific conditions or oracle triggers?"
	case strings.Contains(lower, "balance"):
		return "Your treasury currently holds $45,250 USDC across all agents, with $15,000 allocated to yield-generating pools earning 2.5% APY."
	default:
		return "I understand you want to manage your Vale Finance operations. I can help you with payments, agent management, treasury operations, and financial insights. What would you like to do?"
	}
}

func paramString(p map[string]any, key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// paramFloat accepts numbers from the keyword parser (int64, float64) and
// from LLM JSON (float64 or numeric strings).
func paramFloat(p map[string]any, key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case string:
		return parseNumber(strings.TrimPrefix(strings.TrimSpace(v), "$"))
	default:
		return 0, false
	}
}

// SessionCount returns the number of live sessions.
func (s *ConversationService) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
