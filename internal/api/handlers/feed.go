package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/service"
	"go.uber.org/zap"
)

type FeedHandler struct {
	svc    *service.FeedService
	logger *zap.Logger
}

func NewFeedHandler(svc *service.FeedService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{svc: svc, logger: logger}
}

func (h *FeedHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.Transactions(r.Context())
	if err != nil {
		h.logger.Error("list transactions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// Activities serves the newest activities. A missing or invalid limit
// falls back to the default page size.
func (h *FeedHandler) Activities(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = domain.DefaultActivityLimit
	}

	acts, err := h.svc.Activities(r.Context(), limit)
	if err != nil {
		h.logger.Error("list activities failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch activities")
		return
	}
	writeJSON(w, http.StatusOK, acts)
}

func (h *FeedHandler) Integrations(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Integrations(r.Context())
	if err != nil {
		h.logger.Error("list integrations failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch integrations")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type updateIntegrationRequest struct {
	Status   string         `json:"status"`
	Metadata map[string]any `json:"metadata"`
}

func (h *FeedHandler) UpdateIntegration(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		writeError(w, http.StatusBadRequest, "invalid integration name")
		return
	}

	var req updateIntegrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	i, err := h.svc.UpdateIntegration(r.Context(), name, req.Status, req.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidIntegration):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrIntegrationNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error("update integration failed", zap.String("name", name), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update integration")
		}
		return
	}
	writeJSON(w, http.StatusOK, i)
}
