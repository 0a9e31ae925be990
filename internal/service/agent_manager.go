package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/events"
	"github.com/valefinance/vale/internal/runtime"
	"github.com/valefinance/vale/internal/store"
	"github.com/valefinance/vale/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SmartInvoicesPlaceholder is reported until smart invoices have a backing
// workflow.
const SmartInvoicesPlaceholder = 7

const (
	railSei       = "sei"
	railCrossmint = "crossmint"
)

// CustodialWallet is a wallet provider that can also send from the wallets
// it creates.
type CustodialWallet interface {
	domain.WalletProvider
	domain.WalletTransactor
}

// ManagerDeps wires an AgentManager. Policy, Advisor, Crossmint, Events and
// Metrics are optional.
type ManagerDeps struct {
	Agents       domain.AgentStore
	Transactions domain.TransactionStore
	Activities   domain.ActivityStore
	Runtime      domain.AgentRuntime
	Chain        domain.ChainClient
	Wallets      domain.WalletProvider
	Crossmint    CustodialWallet
	Policy       domain.PaymentPolicy
	Advisor      *DecisionAdvisor
	Events       domain.EventPublisher
	Metrics      *telemetry.Metrics
	Logger       *zap.Logger
}

// AgentManager orchestrates agent deployment and payment execution.
type AgentManager struct {
	agents       domain.AgentStore
	transactions domain.TransactionStore
	activities   domain.ActivityStore
	runtime      domain.AgentRuntime
	chain        domain.ChainClient
	wallets      domain.WalletProvider
	crossmint    CustodialWallet
	policy       domain.PaymentPolicy
	advisor      *DecisionAdvisor
	events       domain.EventPublisher
	metrics      *telemetry.Metrics
	logger       *zap.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

func NewAgentManager(d ManagerDeps) *AgentManager {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgentManager{
		agents:       d.Agents,
		transactions: d.Transactions,
		activities:   d.Activities,
		runtime:      d.Runtime,
		chain:        d.Chain,
		wallets:      d.Wallets,
		crossmint:    d.Crossmint,
		policy:       d.Policy,
		advisor:      d.Advisor,
		events:       d.Events,
		metrics:      d.Metrics,
		logger:       logger,
		tracer:       telemetry.Tracer("service"),
		now:          time.Now,
	}
}

func (m *AgentManager) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "AgentManager."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (m *AgentManager) getAgent(ctx context.Context, id int64) (*domain.Agent, error) {
	a, err := m.agents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (m *AgentManager) Agent(ctx context.Context, id int64) (*domain.Agent, error) {
	return m.getAgent(ctx, id)
}

func (m *AgentManager) Agents(ctx context.Context) ([]domain.Agent, error) {
	return m.agents.List(ctx)
}

// AgentTransactions lists transactions recorded against id, including those
// of deleted agents.
func (m *AgentManager) AgentTransactions(ctx context.Context, id int64) ([]domain.Transaction, error) {
	return m.transactions.ListByAgent(ctx, id)
}

// CreateAndDeploy stores a new agent, provisions its wallet and deploys it
// to the runtime. The agent becomes active only when deployment succeeds.
func (m *AgentManager) CreateAndDeploy(ctx context.Context, in domain.AgentInput) (_ *domain.Agent, err error) {
	ctx, span := m.startSpan(ctx, "CreateAndDeploy", attribute.String("agent.type", string(in.Type)))
	defer func() { endSpan(span, err) }()

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidAgent)
	}
	if !in.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidAgent, in.Type)
	}
	if in.Budget < 0 {
		return nil, fmt.Errorf("%w: budget must not be negative", ErrInvalidAgent)
	}

	a := &domain.Agent{
		Name:             in.Name,
		Type:             in.Type,
		Budget:           in.Budget,
		CrossmintEnabled: in.CrossmintEnabled,
		RivalzEnabled:    in.RivalzEnabled,
		Configuration:    map[string]any{},
	}
	if err := m.agents.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	span.SetAttributes(attribute.Int64("agent.id", a.ID))

	if updated := m.provisionWallet(ctx, a); updated != nil {
		a = updated
	}

	if err := m.runtime.Deploy(ctx, a); err != nil {
		m.logger.Error("agent deployment failed", zap.Int64("agent_id", a.ID), zap.Error(err))
		m.metrics.AgentDeployed(string(a.Type), "failed")
		return a, fmt.Errorf("%w: %v", ErrDeployFailed, err)
	}

	status := domain.AgentStatusActive
	a, err = m.agents.Update(ctx, a.ID, domain.AgentUpdate{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("activate agent: %w", err)
	}
	m.metrics.AgentDeployed(string(a.Type), "success")

	m.record(ctx, domain.EventAgentDeployed, &domain.Activity{
		Type:        domain.ActivityAgentAction,
		Title:       a.Name + " deployed successfully",
		Description: fmt.Sprintf("Agent type: %s, Budget: $%d USDC", a.Type, a.Budget),
		AgentID:     &a.ID,
		Metadata: map[string]any{
			"deployment":     "success",
			"walletProvider": a.WalletProvider,
		},
	})

	m.logger.Info("agent deployed", zap.Int64("agent_id", a.ID), zap.String("name", a.Name))
	return a, nil
}

// provisionWallet returns the updated agent, or nil when no wallet could be
// created.
func (m *AgentManager) provisionWallet(ctx context.Context, a *domain.Agent) *domain.Agent {
	var provider domain.WalletProvider = m.wallets
	if a.CrossmintEnabled && m.crossmint != nil {
		provider = m.crossmint
	}
	if provider == nil {
		return nil
	}

	w, err := provider.CreateWallet(ctx, a.ID, a.Name)
	if err != nil {
		m.logger.Warn("wallet provisioning failed",
			zap.Int64("agent_id", a.ID),
			zap.String("provider", provider.Name()),
			zap.Error(err),
		)
		return nil
	}

	updated, err := m.agents.Update(ctx, a.ID, domain.AgentUpdate{
		WalletAddress:  &w.Address,
		WalletID:       &w.WalletID,
		WalletProvider: &w.Provider,
	})
	if err != nil {
		m.logger.Warn("store wallet failed", zap.Int64("agent_id", a.ID), zap.Error(err))
		return nil
	}
	return updated
}

// Stop deactivates an agent in the runtime and marks it inactive.
func (m *AgentManager) Stop(ctx context.Context, id int64) (err error) {
	ctx, span := m.startSpan(ctx, "Stop", attribute.Int64("agent.id", id))
	defer func() { endSpan(span, err) }()

	a, err := m.getAgent(ctx, id)
	if err != nil {
		return err
	}

	if _, err := m.runtime.Stop(ctx, id); err != nil {
		m.logger.Warn("runtime stop failed", zap.Int64("agent_id", id), zap.Error(err))
	}

	status := domain.AgentStatusInactive
	if _, err := m.agents.Update(ctx, id, domain.AgentUpdate{Status: &status}); err != nil {
		return fmt.Errorf("deactivate agent: %w", err)
	}

	m.record(ctx, domain.EventAgentStopped, &domain.Activity{
		Type:        domain.ActivityAgentAction,
		Title:       a.Name + " stopped",
		Description: "Agent deactivated by user",
		AgentID:     &a.ID,
		Metadata:    map[string]any{"action": "stop"},
	})
	return nil
}

// Delete removes the agent. Its transactions and activities are kept.
func (m *AgentManager) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := m.startSpan(ctx, "Delete", attribute.Int64("agent.id", id))
	defer func() { endSpan(span, err) }()

	a, err := m.getAgent(ctx, id)
	if err != nil {
		return err
	}

	if _, err := m.runtime.Stop(ctx, id); err != nil {
		m.logger.Warn("runtime stop failed", zap.Int64("agent_id", id), zap.Error(err))
	}
	if r, ok := m.runtime.(interface{ Remove(int64) }); ok {
		r.Remove(id)
	}

	deleted, err := m.agents.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	if !deleted {
		return ErrAgentNotFound
	}

	m.record(ctx, domain.EventAgentDeleted, &domain.Activity{
		Type:        domain.ActivitySystemEvent,
		Title:       a.Name + " deleted",
		Description: fmt.Sprintf("Agent ID: %d removed", a.ID),
		AgentID:     &a.ID,
		Metadata:    map[string]any{"action": "delete"},
	})
	return nil
}

// ExecutePayment validates and sends a payment from an agent's wallet. A
// successful call records exactly one transaction and one activity; a
// rejected call records nothing.
func (m *AgentManager) ExecutePayment(ctx context.Context, in domain.PaymentInput) (_ *domain.Transaction, err error) {
	ctx, span := m.startSpan(ctx, "ExecutePayment", attribute.Int64("agent.id", in.AgentID))
	defer func() { endSpan(span, err) }()

	in.Recipient = strings.TrimSpace(in.Recipient)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		in.Currency = domain.DefaultCurrency
	}
	if err := validatePayment(in); err != nil {
		return nil, err
	}

	a, err := m.getAgent(ctx, in.AgentID)
	if err != nil {
		return nil, err
	}

	if m.policy != nil {
		decision, err := m.policy.Evaluate(ctx, a, in)
		if err != nil {
			return nil, fmt.Errorf("evaluate payment policy: %w", err)
		}
		if !decision.Allowed {
			m.metrics.Payment(m.railFor(a), "blocked", in.Currency, in.Amount)
			m.logger.Info("payment blocked",
				zap.Int64("agent_id", a.ID),
				zap.Float64("amount", in.Amount),
				zap.String("reason", decision.Reason),
			)
			return nil, fmt.Errorf("%w: %s", ErrPaymentBlocked, decision.Reason)
		}
	}

	var advice string
	if m.advisor != nil {
		advice = m.advisor.Decide(ctx, a.Type, DecisionContext{
			Action: runtime.ActionSendPayment,
			Params: map[string]any{
				"recipient": in.Recipient,
				"amount":    in.Amount,
				"currency":  in.Currency,
			},
			CurrentBudget: a.Budget,
		})
	}

	rail := m.railFor(a)
	var hash string
	if rail == railCrossmint {
		hash, err = m.crossmint.SendTransaction(ctx, a.WalletID, in.Recipient, in.Amount, in.Currency)
	} else {
		hash, err = m.chain.SendTransaction(ctx, a.WalletAddress, in.Recipient, in.Amount, in.Currency)
	}
	if err != nil {
		m.metrics.Payment(rail, "failed", in.Currency, in.Amount)
		return nil, fmt.Errorf("send payment: %w", err)
	}

	tx := &domain.Transaction{
		AgentID:     a.ID,
		Type:        domain.TransactionTypePayment,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Recipient:   in.Recipient,
		TxHash:      hash,
		Description: "Payment sent by " + a.Name,
	}
	if err := m.transactions.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	metadata := map[string]any{
		"txHash":    hash,
		"recipient": in.Recipient,
		"amount":    in.Amount,
		"currency":  in.Currency,
		"rail":      rail,
	}
	if advice != "" {
		metadata["decision"] = advice
	}
	m.record(ctx, domain.EventPaymentSent, &domain.Activity{
		Type:        domain.ActivityAgentAction,
		Title:       "Payment sent by " + a.Name,
		Description: fmt.Sprintf("%s %s sent to %s", formatAmount(in.Amount), in.Currency, in.Recipient),
		AgentID:     &a.ID,
		Metadata:    metadata,
	})
	m.metrics.Payment(rail, "sent", in.Currency, in.Amount)

	m.logger.Info("payment sent",
		zap.Int64("agent_id", a.ID),
		zap.String("tx_hash", hash),
		zap.String("rail", rail),
	)
	return tx, nil
}

func validatePayment(in domain.PaymentInput) error {
	switch {
	case in.AgentID <= 0:
		return fmt.Errorf("%w: agent id is required", ErrInvalidPayment)
	case in.Recipient == "":
		return fmt.Errorf("%w: recipient is required", ErrInvalidPayment)
	case math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0:
		return fmt.Errorf("%w: amount must be a positive number", ErrInvalidPayment)
	}
	return nil
}

func (m *AgentManager) railFor(a *domain.Agent) string {
	if m.crossmint != nil && a.WalletProvider == domain.WalletProviderCrossmint && a.WalletID != "" {
		return railCrossmint
	}
	return railSei
}

// Metrics summarizes treasury and agent state. The treasury balance is the
// sum of agent budgets; monthly payments cover the last calendar month.
func (m *AgentManager) Metrics(ctx context.Context) (*domain.Metrics, error) {
	agents, err := m.agents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	txs, err := m.transactions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := &domain.Metrics{
		SmartInvoices:     SmartInvoicesPlaceholder,
		TotalAgents:       len(agents),
		TotalTransactions: len(txs),
	}
	for _, a := range agents {
		out.TreasuryBalance += a.Budget
		if a.Status == domain.AgentStatusActive {
			out.ActiveAgents++
		}
	}
	monthAgo := m.now().AddDate(0, -1, 0)
	for _, t := range txs {
		if !t.CreatedAt.Before(monthAgo) {
			out.MonthlyPayments += t.Amount
		}
	}
	return out, nil
}

// AgentStatus returns the runtime record of a deployed agent.
func (m *AgentManager) AgentStatus(ctx context.Context, id int64) (*domain.RuntimeAgent, error) {
	if _, err := m.getAgent(ctx, id); err != nil {
		return nil, err
	}
	st, err := m.runtime.Status(ctx, id)
	if err != nil {
		if errors.Is(err, runtime.ErrNotDeployed) {
			return nil, ErrAgentNotDeployed
		}
		return nil, err
	}
	return st, nil
}

// ExecuteAction runs a runtime action (process_payroll, send_payment,
// allocate_yield) on a deployed agent.
func (m *AgentManager) ExecuteAction(ctx context.Context, id int64, action string, params map[string]any) (_ map[string]any, err error) {
	ctx, span := m.startSpan(ctx, "ExecuteAction",
		attribute.Int64("agent.id", id),
		attribute.String("agent.action", action),
	)
	defer func() { endSpan(span, err) }()

	a, err := m.getAgent(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := m.runtime.ExecuteAction(ctx, id, action, params)
	switch {
	case errors.Is(err, runtime.ErrNotDeployed):
		return nil, ErrAgentNotDeployed
	case errors.Is(err, runtime.ErrUnknownAction), errors.Is(err, runtime.ErrInvalidParams):
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	case err != nil:
		return nil, fmt.Errorf("execute action: %w", err)
	}

	m.record(ctx, domain.EventAgentAction, &domain.Activity{
		Type:        domain.ActivityAgentAction,
		Title:       fmt.Sprintf("%s executed %s", a.Name, action),
		Description: describeAction(action, result),
		AgentID:     &a.ID,
		Metadata:    map[string]any{"action": action, "result": result},
	})
	return result, nil
}

func describeAction(action string, result map[string]any) string {
	switch action {
	case runtime.ActionSendPayment:
		return fmt.Sprintf("Transaction %v submitted", result["txHash"])
	case runtime.ActionAllocateYield:
		return fmt.Sprintf("Funds allocated to %v", result["pool"])
	default:
		return "Action completed"
	}
}

// record stores an activity and publishes it. Failures are logged only.
func (m *AgentManager) record(ctx context.Context, kind string, a *domain.Activity) {
	if err := m.activities.Create(ctx, a); err != nil {
		m.logger.Error("record activity failed", zap.String("title", a.Title), zap.Error(err))
		return
	}
	if m.events == nil {
		return
	}
	if err := m.events.Publish(ctx, events.New(kind, a)); err != nil {
		m.logger.Warn("publish event failed", zap.String("kind", kind), zap.Error(err))
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
