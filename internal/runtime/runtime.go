// Package runtime keeps the deployment records of running agents and
// executes their actions.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/valefinance/vale/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrNotDeployed   = errors.New("agent not deployed")
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidParams = errors.New("invalid action parameters")
)

// Actions supported by ExecuteAction.
const (
	ActionProcessPayroll = "process_payroll"
	ActionSendPayment    = "send_payment"
	ActionAllocateYield  = "allocate_yield"
)

var (
	defaultPlugins = []string{"@elizaos/plugin-evm", "@elizaos/plugin-sei"}
	defaultClients = []string{"discord", "telegram"}
)

type Config struct {
	Model      string
	VoiceModel string
	RPCURL     string
	ChainID    int64
}

type entry struct {
	agentID       int64
	status        domain.AgentStatus
	walletAddress string
	config        map[string]any
	lastActivity  time.Time
}

// Registry is an in-memory agent runtime.
type Registry struct {
	cfg    Config
	chain  domain.ChainClient
	logger *zap.Logger
	now    func() time.Time

	mu     sync.RWMutex
	agents map[int64]*entry
}

// NewRegistry creates a runtime. chain settles send_payment actions.
func NewRegistry(cfg Config, chain domain.ChainClient, logger *zap.Logger) *Registry {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.VoiceModel == "" {
		cfg.VoiceModel = "en_US-hfc_female-medium"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		cfg:    cfg,
		chain:  chain,
		logger: logger,
		now:    time.Now,
		agents: make(map[int64]*entry),
	}
}

func (r *Registry) agentConfig(a *domain.Agent) map[string]any {
	return map[string]any{
		"name": a.Name,
		"type": string(a.Type),
		"settings": map[string]any{
			"model": r.cfg.Model,
			"voice": map[string]any{"model": r.cfg.VoiceModel},
		},
		"plugins": append([]string(nil), defaultPlugins...),
		"clients": append([]string(nil), defaultClients...),
		"walletConfig": map[string]any{
			"provider": r.cfg.RPCURL,
			"chainId":  r.cfg.ChainID,
		},
		"oracleTriggers": a.RivalzEnabled,
	}
}

// Deploy registers the agent as running. Redeploying replaces the record.
func (r *Registry) Deploy(ctx context.Context, a *domain.Agent) error {
	if a == nil || a.ID == 0 {
		return errors.New("deploy: agent has no id")
	}
	if !a.Type.IsValid() {
		return fmt.Errorf("deploy: invalid agent type %q", a.Type)
	}

	e := &entry{
		agentID:       a.ID,
		status:        domain.AgentStatusActive,
		walletAddress: a.WalletAddress,
		config:        r.agentConfig(a),
		lastActivity:  r.now(),
	}

	r.mu.Lock()
	r.agents[a.ID] = e
	r.mu.Unlock()

	r.logger.Info("agent deployed",
		zap.Int64("agent_id", a.ID),
		zap.String("name", a.Name),
		zap.String("type", string(a.Type)),
	)
	return nil
}

// Stop marks a deployed agent inactive. It reports false when the agent was
// never deployed.
func (r *Registry) Stop(ctx context.Context, agentID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.agents[agentID]
	if !ok {
		return false, nil
	}
	e.status = domain.AgentStatusInactive
	e.lastActivity = r.now()
	r.logger.Info("agent stopped", zap.Int64("agent_id", agentID))
	return true, nil
}

// Remove forgets a deployed agent.
func (r *Registry) Remove(agentID int64) {
	r.mu.Lock()
	delete(r.agents, agentID)
	r.mu.Unlock()
}

func (r *Registry) Status(ctx context.Context, agentID int64) (*domain.RuntimeAgent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.agents[agentID]
	if !ok {
		return nil, ErrNotDeployed
	}
	return &domain.RuntimeAgent{
		AgentID:       e.agentID,
		Status:        e.status,
		WalletAddress: e.walletAddress,
		Config:        e.config,
		LastActivity:  e.lastActivity.UTC().Format(time.RFC3339),
	}, nil
}

func (r *Registry) ExecuteAction(ctx context.Context, agentID int64, action string, params map[string]any) (map[string]any, error) {
	r.mu.RLock()
	e, ok := r.agents[agentID]
	var wallet string
	if ok {
		wallet = e.walletAddress
	}
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotDeployed
	}

	r.logger.Info("executing agent action", zap.Int64("agent_id", agentID), zap.String("action", action))

	var result map[string]any
	switch action {
	case ActionProcessPayroll:
		result = map[string]any{
			"success":    true,
			"amount":     params["amount"],
			"recipients": params["recipients"],
		}
	case ActionSendPayment:
		hash, err := r.sendPayment(ctx, wallet, params)
		if err != nil {
			return nil, err
		}
		result = map[string]any{"success": true, "txHash": hash}
	case ActionAllocateYield:
		result = map[string]any{
			"success": true,
			"pool":    params["pool"],
			"apy":     params["apy"],
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	r.mu.Lock()
	if e, ok := r.agents[agentID]; ok {
		e.lastActivity = r.now()
	}
	r.mu.Unlock()
	return result, nil
}

func (r *Registry) sendPayment(ctx context.Context, from string, params map[string]any) (string, error) {
	if r.chain == nil {
		return "", errors.New("no chain client configured")
	}
	to, _ := params["recipient"].(string)
	amount := toFloat(params["amount"])
	if strings.TrimSpace(to) == "" || amount <= 0 {
		return "", fmt.Errorf("%w: send_payment requires recipient and a positive amount", ErrInvalidParams)
	}
	currency, _ := params["currency"].(string)
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return r.chain.SendTransaction(ctx, from, to, amount, currency)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
