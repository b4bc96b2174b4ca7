package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cybermozhi/cybermozhi-server/internal/core"
	"github.com/cybermozhi/cybermozhi-server/internal/models"
)

type ProfileHandler struct {
	dbclient core.DbClient
}

func NewProfileHandler(dbclient core.DbClient) *ProfileHandler {
	return &ProfileHandler{dbclient: dbclient}
}

type profileResponse struct {
	*models.Profile
	IsIncomplete bool `json:"is_incomplete"`
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := h.dbclient.GetProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		profile = &models.Profile{UserID: userID}
	}

	writeJSON(w, http.StatusOK, profileResponse{Profile: profile, IsIncomplete: profile.Incomplete()})
}

func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if profile.Age != nil && (*profile.Age < 1 || *profile.Age > 120) {
		http.Error(w, "age out of range", http.StatusBadRequest)
		return
	}

	// Ownership comes from the token, never the body.
	profile.UserID = userID
	profile.UpdatedAt = time.Now()

	if err := h.dbclient.UpsertProfile(r.Context(), &profile); err != nil {
		http.Error(w, "failed to save profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{Profile: &profile, IsIncomplete: profile.Incomplete()})
}
