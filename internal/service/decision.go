package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/llm"
	"github.com/valefinance/vale/internal/telemetry"
	"go.uber.org/zap"
)

// DecisionContext is what an agent is about to do.
type DecisionContext struct {
	Action        string         `json:"action"`
	Params        map[string]any `json:"params,omitempty"`
	CurrentBudget int64          `json:"currentBudget"`
}

// DecisionAdvisor asks the LLM for a go/no-go rationale on agent actions.
// The rationale is advisory: it is recorded, never enforced.
type DecisionAdvisor struct {
	llm     domain.LLMClient
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

func NewDecisionAdvisor(client domain.LLMClient, logger *zap.Logger, metrics *telemetry.Metrics) *DecisionAdvisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DecisionAdvisor{llm: client, logger: logger, metrics: metrics}
}

// Decide returns the LLM's decision text, or the rule-based fallback when
// no client is configured or the call fails.
func (d *DecisionAdvisor) Decide(ctx context.Context, t domain.AgentType, dc DecisionContext) string {
	if d.llm == nil {
		d.metrics.LLMFallback("offline")
		return FallbackDecision(t, dc)
	}

	payload, err := json.MarshalIndent(dc, "", "  ")
	if err != nil {
		return FallbackDecision(t, dc)
	}

	out, err := d.llm.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: llm.DecisionSystemPrompt(t)},
		{Role: domain.RoleUser, Content: fmt.Sprintf(llm.DecisionPrompt, payload)},
	}, llm.DecisionOptions)
	if err != nil {
		reason := "error"
		if errors.Is(err, llm.ErrRateLimited) {
			reason = "rate_limited"
		}
		d.metrics.LLMFallback(reason)
		d.logger.Warn("agent decision fell back to rules", zap.String("agent_type", string(t)), zap.Error(err))
		return FallbackDecision(t, dc)
	}
	if out == "" {
		return "No decision generated"
	}
	return out
}

// FallbackDecision is the rule-based decision used without an LLM.
func FallbackDecision(t domain.AgentType, dc DecisionContext) string {
	switch t {
	case domain.AgentTypePayroll:
		if dc.Action == "process_payroll" && dc.CurrentBudget > 0 {
			recipients := "employees"
			if r, ok := dc.Params["recipients"]; ok && r != nil {
				recipients = fmt.Sprint(r)
			}
			return fmt.Sprintf("Approved: Payroll processing for %s within budget constraints. Proceeding with standard payroll validation checks.", recipients)
		}
		return "Approved: Standard payroll operations within configured parameters."
	case domain.AgentTypeTreasury:
		if dc.CurrentBudget > 1000 {
			return "Approved: Treasury operation validated. Sufficient funds available for allocation and yield optimization strategies."
		}
		return "Caution: Low treasury balance. Recommend conservative allocation strategy."
	case domain.AgentTypeInvoice:
		return "Approved: Invoice processing approved with standard verification protocols. Checking vendor credentials and payment terms."
	case domain.AgentTypeSupplier:
		return "Approved: Supplier payment authorized with delivery confirmation required. Standard procurement guidelines apply."
	default:
		return "Approved: Financial operation validated within standard risk parameters. Proceeding with automated execution."
	}
}
