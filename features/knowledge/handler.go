// Package knowledge exposes standalone brand document ingestion, for
// warming the index ahead of an analysis run.
package knowledge

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"brandlens/internal/middleware"
)

type Ingester interface {
	Ingest(ctx context.Context, url string) error
}

type Handler struct {
	index Ingester
}

func NewHandler(index Ingester) *Handler {
	return &Handler{index: index}
}

func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "url is required", http.StatusBadRequest)
		return
	}

	if err := h.index.Ingest(r.Context(), req.URL); err != nil {
		slog.Error("ingestion failed", "error", err, "url", req.URL)
		h.writeError(r.Context(), w, "INGEST_FAILED", "Could not ingest the document.", http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
