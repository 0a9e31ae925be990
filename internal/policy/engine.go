// Package policy evaluates payments against a rego policy before they are
// sent.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/rego"
	"github.com/valefinance/vale/internal/domain"
)

const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content. The
// module must declare package payment_policy with a decision rule and an
// optional reason rule.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.payment_policy"),
		rego.Module("payment_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Load builds an engine from path, or from DefaultPolicy when path is empty.
func Load(ctx context.Context, path string) (*Engine, error) {
	if path == "" {
		return NewEngine(ctx, DefaultPolicy)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	return NewEngine(ctx, string(b))
}

// Evaluate implements domain.PaymentPolicy.
func (e *Engine) Evaluate(ctx context.Context, a *domain.Agent, p domain.PaymentInput) (domain.PolicyDecision, error) {
	input := map[string]any{
		"payment": map[string]any{
			"amount":    p.Amount,
			"currency":  p.Currency,
			"recipient": p.Recipient,
		},
	}
	if a != nil {
		input["agent"] = map[string]any{
			"id":     float64(a.ID),
			"type":   string(a.Type),
			"status": string(a.Status),
			"budget": float64(a.Budget),
		}
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return domain.PolicyDecision{}, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return domain.PolicyDecision{Allowed: true}, nil
	}

	doc, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return domain.PolicyDecision{}, fmt.Errorf("unexpected policy result type %T", results[0].Expressions[0].Value)
	}

	decision, _ := doc["decision"].(string)
	reason, _ := doc["reason"].(string)
	switch decision {
	case "", DecisionAllow:
		return domain.PolicyDecision{Allowed: true}, nil
	default:
		if reason == "" {
			reason = "blocked by payment policy"
		}
		return domain.PolicyDecision{Allowed: false, Reason: reason}, nil
	}
}

// DefaultPolicy is the default policy content. It only guards malformed
// payments; budget caps live in budget_cap.rego and are enabled through
// POLICY_FILE.
const DefaultPolicy = `
package payment_policy

default decision = "allow"

reason = "agent is in error state" {
	input.agent.status == "error"
} else = "amount must be positive" {
	input.payment.amount <= 0
}

decision = "block" {
	reason != ""
}
`
