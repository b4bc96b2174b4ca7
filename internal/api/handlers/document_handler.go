package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cybermozhi/cybermozhi-server/internal/core/apperr"
	"github.com/cybermozhi/cybermozhi-server/internal/models"
	"github.com/cybermozhi/cybermozhi-server/internal/services"
)

type DocumentHandler struct {
	drafter *services.DraftService
}

func NewDocumentHandler(drafter *services.DraftService) *DocumentHandler {
	return &DocumentHandler{drafter: drafter}
}

type draftResponse struct {
	GeneratedDocument string `json:"generatedDocument"`
}

// Draft renders a legal document from user-supplied incident details.
func (h *DocumentHandler) Draft(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)

	var req services.DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	doc, err := h.drafter.Draft(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "draft generation failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, draftResponse{GeneratedDocument: doc})
}

// ListDrafts returns the authenticated user's saved drafts, newest first.
func (h *DocumentHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	drafts, err := h.drafter.ListDrafts(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to list drafts", http.StatusInternalServerError)
		return
	}
	if drafts == nil {
		drafts = []models.LegalDraft{}
	}

	writeJSON(w, http.StatusOK, drafts)
}
