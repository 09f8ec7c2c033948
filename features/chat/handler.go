package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"brandlens/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" || req.Message == "" {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "id and message are required", http.StatusBadRequest)
		return
	}

	answer, err := h.service.Answer(r.Context(), req.ID, req.Message)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		h.writeError(r.Context(), w, "SESSION_NOT_FOUND", "No session available. Run a new analysis first.", http.StatusNotFound)
		return
	case err != nil:
		slog.Error("chat turn failed", "error", err, "session_id", req.ID)
		h.writeError(r.Context(), w, "INTERNAL_ERROR", "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"data": map[string]string{"answer": answer},
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"correlationId": middleware.GetCorrelationID(ctx),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
