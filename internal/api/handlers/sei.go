package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/valefinance/vale/internal/chain"
	"github.com/valefinance/vale/internal/domain"
	"go.uber.org/zap"
)

type SeiHandler struct {
	chain  domain.ChainClient
	logger *zap.Logger
}

func NewSeiHandler(c domain.ChainClient, logger *zap.Logger) *SeiHandler {
	return &SeiHandler{chain: c, logger: logger}
}

func (h *SeiHandler) Network(w http.ResponseWriter, r *http.Request) {
	info, err := h.chain.NetworkInfo(r.Context())
	if err != nil {
		h.logger.Error("network info failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch network info")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *SeiHandler) Balance(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	balance, err := h.chain.Balance(r.Context(), address)
	if err != nil {
		if errors.Is(err, chain.ErrInvalidAddress) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("balance lookup failed", zap.String("address", address), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch balance")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"balance": balance})
}
