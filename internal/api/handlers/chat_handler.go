package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cybermozhi/cybermozhi-server/internal/core"
	"github.com/cybermozhi/cybermozhi-server/internal/core/apperr"
	"github.com/cybermozhi/cybermozhi-server/internal/models"
	"github.com/cybermozhi/cybermozhi-server/internal/services"
)

type ChatHandler struct {
	dbclient core.DbClient
	chat     *services.ChatService
}

func NewChatHandler(db core.DbClient, chat *services.ChatService) *ChatHandler {
	return &ChatHandler{dbclient: db, chat: chat}
}

type chatQueryRequest struct {
	Query             string            `json:"query"`
	ChatHistory       []models.ChatTurn `json:"chatHistory,omitempty"`
	UserName          string            `json:"userName,omitempty"`
	UserProfile       *models.Profile   `json:"userProfile,omitempty"`
	ProfileIncomplete bool              `json:"isProfileIncomplete,omitempty"`
	SessionID         string            `json:"chatSessionId,omitempty"`
}

// Query serves one conversation turn for both guests and logged-in users.
func (h *ChatHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req chatQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	userID, authenticated := r.Context().Value("user_id").(string)

	res, err := h.chat.HandleTurn(r.Context(), services.TurnRequest{
		Query:             req.Query,
		Authenticated:     authenticated,
		UserID:            userID,
		UserName:          req.UserName,
		ChatHistory:       req.ChatHistory,
		Profile:           req.UserProfile,
		ProfileIncomplete: req.ProfileIncomplete,
		SessionID:         req.SessionID,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "chat failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sessions, err := h.dbclient.ListChatSessions(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to list sessions", http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []models.ChatSession{}
	}

	writeJSON(w, http.StatusOK, sessions)
}

func (h *ChatHandler) GetSessionMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID := chi.URLParam(r, "id")
	sess, err := h.dbclient.GetChatSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	if sess == nil || sess.UserID != userID {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	msgs, err := h.dbclient.ListChatMessages(r.Context(), sessionID, 0)
	if err != nil {
		http.Error(w, "failed to load messages", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}

	writeJSON(w, http.StatusOK, msgs)
}

func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID := chi.URLParam(r, "id")
	sess, err := h.dbclient.GetChatSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	if sess == nil || sess.UserID != userID {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	if err := h.dbclient.DeleteChatSession(r.Context(), sessionID); err != nil {
		http.Error(w, "failed to delete session", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
