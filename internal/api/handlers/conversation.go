package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/valefinance/vale/internal/service"
)

type ConversationHandler struct {
	svc *service.ConversationService
	now func() time.Time
}

func NewConversationHandler(svc *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc, now: time.Now}
}

type sendMessageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	UserID    *int64 `json:"userId,omitempty"`
}

type sendMessageResponse struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
	Timestamp string `json:"timestamp"`
}

func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	reply := h.svc.ProcessMessage(r.Context(), req.SessionID, req.Message)
	writeJSON(w, http.StatusOK, sendMessageResponse{
		Success:   true,
		Response:  reply,
		SessionID: req.SessionID,
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *ConversationHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"history":   h.svc.History(sessionID),
		"sessionId": sessionID,
	})
}

func (h *ConversationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"cleared":   h.svc.Clear(sessionID),
		"sessionId": sessionID,
	})
}

type quickChatRequest struct {
	Message string `json:"message"`
}

// QuickChat answers the MCP chat widget with canned replies.
func (h *ConversationHandler) QuickChat(w http.ResponseWriter, r *http.Request) {
	var req quickChatRequest
	if err := decodeJSON(r, &req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": service.QuickReply(req.Message)})
}
