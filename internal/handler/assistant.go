package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/domain/services"
	"inkwell/internal/httputil"
)

// AssistantHandler exposes the writing assistant actions
type AssistantHandler struct {
	aiService services.AIService
	logger    *slog.Logger
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(aiService services.AIService, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{aiService: aiService, logger: logger}
}

type assistantRequest struct {
	Action  string `json:"action"`
	Prompt  string `json:"prompt"`
	Context string `json:"context"`
}

type assistantResponse struct {
	Action string `json:"action"`
	Result string `json:"result"`
}

// RunAction executes one assistant action against the model
// POST /api/ai
func (h *AssistantHandler) RunAction(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.aiService.Request(r.Context(), req.Action, req.Prompt, req.Context)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, assistantResponse{Action: req.Action, Result: result})
}

// ListActions returns the available assistant action names
// GET /api/ai/actions
func (h *AssistantHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"actions": h.aiService.Actions(),
	})
}
