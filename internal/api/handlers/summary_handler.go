package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cybermozhi/cybermozhi-server/internal/core/apperr"
	"github.com/cybermozhi/cybermozhi-server/internal/services"
)

type SummaryHandler struct {
	summarizer *services.SummaryService
}

func NewSummaryHandler(summarizer *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{summarizer: summarizer}
}

type summarizeRequest struct {
	Description string `json:"description"`
}

// Summarize condenses a cyber attack description and names the applicable laws.
func (h *SummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	summary, err := h.summarizer.Summarize(r.Context(), req.Description)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, apperr.ErrAllQuotaExhausted):
			http.Error(w, "service is at capacity, try again shortly", http.StatusServiceUnavailable)
		default:
			http.Error(w, "summarization failed", http.StatusBadGateway)
		}
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
