package handlers

import (
	"errors"
	"net/http"

	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/service"
	"go.uber.org/zap"
)

type AgentHandler struct {
	svc    *service.AgentManager
	logger *zap.Logger
}

func NewAgentHandler(svc *service.AgentManager, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{svc: svc, logger: logger}
}

type createAgentRequest struct {
	Name             string           `json:"name"`
	Type             domain.AgentType `json:"type"`
	Budget           int64            `json:"budget"`
	CrossmintEnabled bool             `json:"crossmintEnabled"`
	RivalzEnabled    bool             `json:"rivalzEnabled"`
}

func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	agents, err := h.svc.Agents(r.Context())
	if err != nil {
		h.logger.Error("list agents failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch agents")
		return
	}
	writeJSON(w, http.StatusOK, agents)
}

func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	agent, err := h.svc.CreateAndDeploy(r.Context(), domain.AgentInput{
		Name:             req.Name,
		Type:             req.Type,
		Budget:           req.Budget,
		CrossmintEnabled: req.CrossmintEnabled,
		RivalzEnabled:    req.RivalzEnabled,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAgent):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDeployFailed):
			h.logger.Error("agent deployment failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to deploy agent")
		default:
			h.logger.Error("create agent failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to create agent")
		}
		return
	}

	writeJSON(w, http.StatusCreated, agent)
}

func (h *AgentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid agent id")
		return
	}

	agent, err := h.svc.Agent(r.Context(), id)
	if err != nil {
		h.writeAgentError(w, err, "failed to get agent")
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid agent id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeAgentError(w, err, "failed to delete agent")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AgentHandler) Stop(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid agent id")
		return
	}

	if err := h.svc.Stop(r.Context(), id); err != nil {
		h.writeAgentError(w, err, "failed to stop agent")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Transactions lists the agent's transactions. Deleted agents keep theirs.
func (h *AgentHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid agent id")
		return
	}

	txs, err := h.svc.AgentTransactions(r.Context(), id)
	if err != nil {
		h.logger.Error("list agent transactions failed", zap.Int64("agent_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *AgentHandler) Runtime(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid agent id")
		return
	}

	st, err := h.svc.AgentStatus(r.Context(), id)
	if err != nil {
		h.writeAgentError(w, err, "failed to get agent runtime")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type executeActionRequest struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

func (h *AgentHandler) ExecuteAction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid agent id")
		return
	}

	var req executeActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Action == "" {
		writeError(w, http.StatusBadRequest, "action is required")
		return
	}

	result, err := h.svc.ExecuteAction(r.Context(), id, req.Action, req.Params)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAction) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeAgentError(w, err, "failed to execute action")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Metrics serves the dashboard summary.
func (h *AgentHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Metrics(r.Context())
	if err != nil {
		h.logger.Error("compute metrics failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch metrics")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *AgentHandler) writeAgentError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrAgentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAgentNotDeployed):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
