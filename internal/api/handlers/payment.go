package handlers

import (
	"errors"
	"net/http"

	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/service"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	svc    *service.AgentManager
	logger *zap.Logger
}

func NewPaymentHandler(svc *service.AgentManager, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, logger: logger}
}

type paymentResponse struct {
	Success     bool                `json:"success"`
	TxHash      string              `json:"txHash"`
	Transaction *domain.Transaction `json:"transaction"`
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.PaymentInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.svc.ExecutePayment(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPayment):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAgentNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPaymentBlocked):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("payment failed", zap.Int64("agent_id", req.AgentID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to execute payment")
		}
		return
	}

	writeJSON(w, http.StatusOK, paymentResponse{Success: true, TxHash: tx.TxHash, Transaction: tx})
}
