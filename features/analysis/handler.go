package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"brandlens/internal/middleware"
)

type Handler struct {
	pipeline  Orchestrator
	knowledge Grounding
}

func NewHandler(pipeline Orchestrator, knowledge Grounding) *Handler {
	return &Handler{pipeline: pipeline, knowledge: knowledge}
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VideoURL string `json:"videoUrl"`
		BrandURL string `json:"brandUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}
	if req.VideoURL == "" || req.BrandURL == "" {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "videoUrl and brandUrl are required", http.StatusBadRequest)
		return
	}

	// Ground the brand knowledge before anything else; the profile and
	// chat stages retrieve against it.
	if err := h.knowledge.Ingest(r.Context(), req.BrandURL); err != nil {
		slog.Error("brand ingestion failed", "error", err, "brand_url", req.BrandURL)
		h.writeError(r.Context(), w, "INVALID_REFERENCE", "Please enter a valid brand document URL.", http.StatusBadRequest)
		return
	}

	result, err := h.pipeline.Run(r.Context(), Request{VideoURL: req.VideoURL, BrandURL: req.BrandURL})
	switch {
	case errors.Is(err, ErrInvalidReference):
		h.writeError(r.Context(), w, "INVALID_REFERENCE", "Please enter a valid video url.", http.StatusBadRequest)
		return
	case errors.Is(err, ErrInsufficientData):
		h.writeError(r.Context(), w, "INSUFFICIENT_DATA", "Could not extract information from this video. Please submit another one.", http.StatusUnprocessableEntity)
		return
	case err != nil:
		slog.Error("analysis failed", "error", err, "video_url", req.VideoURL)
		h.writeError(r.Context(), w, "INTERNAL_ERROR", "internal error", http.StatusInternalServerError)
		return
	}

	resp := map[string]interface{}{
		"data": map[string]interface{}{
			"id":       result.SessionID,
			"analysis": result.Insights,
		},
	}
	if result.Degraded {
		resp["degraded"] = true
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
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
