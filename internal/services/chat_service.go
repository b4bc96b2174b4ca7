package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"

	"github.com/cybermozhi/cybermozhi-server/internal/core"
	"github.com/cybermozhi/cybermozhi-server/internal/core/apperr"
	"github.com/cybermozhi/cybermozhi-server/internal/core/prompts"
	"github.com/cybermozhi/cybermozhi-server/internal/models"
)

const (
	defaultHistoryWindow = 12
	maxReferences        = 3
	titleMaxRunes        = 40
)

// User-facing failure messages. A turn always resolves with displayable
// text; a bare error never crosses the presentation boundary.
const (
	msgHighTraffic   = "I'm experiencing very high traffic right now and couldn't answer your question. Please try again in a few minutes. (தற்போது அதிக பயனர் நெரிசல் உள்ளது. சிறிது நேரம் கழித்து மீண்டும் முயற்சிக்கவும்.)"
	msgNotConfigured = "The assistant is not fully configured yet, so I can't answer questions right now. Please contact the site administrator."
	msgEmptyOutput   = "Sorry, I couldn't generate a response to that. The request may have been blocked by the safety policy — please try rephrasing your question."
)

// LawSearcher supplies grounding references for a query. Optional.
type LawSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]prompts.Reference, error)
}

// TurnRequest is the unit of work for one conversation turn.
type TurnRequest struct {
	Query             string
	Authenticated     bool
	UserID            string
	UserName          string
	UserContact       string
	ChatHistory       []models.ChatTurn // client-supplied; used for guest turns only
	Profile           *models.Profile   // client-supplied; overridden by the store when authenticated
	ProfileIncomplete bool
	SessionID         string // empty means "start new"
}

// TurnResult always carries non-empty answer text, success or failure.
type TurnResult struct {
	Answer       string `json:"answer"`
	NewSessionID string `json:"newChatSessionId,omitempty"`
}

// ChatService orchestrates one turn: validate, resolve the session, append
// the user message, invoke the model, persist the answer.
type ChatService struct {
	db      core.DbClient
	invoker core.ModelInvoker
	drafter *DraftService
	laws    LawSearcher
	window  int
}

func NewChatService(db core.DbClient, invoker core.ModelInvoker, drafter *DraftService, laws LawSearcher, historyWindow int) *ChatService {
	if historyWindow <= 0 {
		historyWindow = defaultHistoryWindow
	}
	return &ChatService{db: db, invoker: invoker, drafter: drafter, laws: laws, window: historyWindow}
}

// HandleTurn processes one turn. The returned error is non-nil only for
// validation failures, which are rejected before any side effect. Every
// other failure mode resolves into a displayable answer.
func (s *ChatService) HandleTurn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return TurnResult{}, fmt.Errorf("%w: empty query", apperr.ErrInvalidRequest)
	}
	if req.Authenticated && req.UserID == "" {
		return TurnResult{}, fmt.Errorf("%w: authenticated request without user id", apperr.ErrInvalidRequest)
	}

	persisted := req.UserID != ""

	// Personalization is a soft enhancement, never a hard dependency.
	profile := req.Profile
	userName := req.UserName
	if persisted {
		p, err := s.db.GetProfile(ctx, req.UserID)
		if err != nil {
			log.Printf("chat: profile fetch failed for user %s, proceeding without: %v", req.UserID, err)
		} else if p != nil {
			profile = p
			if userName == "" {
				userName = p.DisplayName
			}
		}
	}
	incomplete := req.ProfileIncomplete
	if persisted {
		incomplete = profile.Incomplete()
	}

	var (
		sessionID    string
		newSessionID string
		history      []models.ChatTurn
	)

	switch {
	case persisted && req.SessionID == "":
		sess := &models.ChatSession{
			ID:     uuid.NewString(),
			UserID: req.UserID,
			Title:  s.sessionTitle(ctx, query),
		}
		if err := s.db.CreateChatSession(ctx, sess); err != nil {
			log.Printf("chat: session create failed, continuing stateless: %v", err)
		} else {
			sessionID = sess.ID
			newSessionID = sess.ID
		}

	case persisted:
		sess, err := s.db.GetChatSession(ctx, req.SessionID)
		if err != nil {
			log.Printf("chat: session fetch failed, continuing stateless: %v", err)
		} else if sess == nil || sess.UserID != req.UserID {
			return TurnResult{}, fmt.Errorf("%w: chat session not found", apperr.ErrInvalidRequest)
		} else {
			sessionID = sess.ID
			msgs, err := s.db.ListChatMessages(ctx, sessionID, s.window)
			if err != nil {
				log.Printf("chat: history fetch failed, proceeding with empty history: %v", err)
			} else {
				history = messagesToTurns(msgs)
			}
		}

	default:
		history = boundHistory(req.ChatHistory, s.window)
	}

	// The user message is durably appended before the model is invoked.
	if sessionID != "" {
		s.appendMessage(ctx, sessionID, models.RoleUser, query)
	}

	var refs []prompts.Reference
	if s.laws != nil {
		r, err := s.laws.Search(ctx, query, maxReferences)
		if err != nil {
			log.Printf("chat: law reference lookup failed, answering ungrounded: %v", err)
		} else {
			refs = r
		}
	}

	prompt, err := prompts.BuildChatPrompt(prompts.ChatInput{
		Query:             query,
		UserName:          userName,
		History:           history,
		Profile:           profile,
		ProfileIncomplete: incomplete,
		References:        refs,
	})
	if err != nil {
		return TurnResult{Answer: failureAnswer(err), NewSessionID: newSessionID}, nil
	}

	var (
		tools   []*genai.Tool
		handler core.ToolHandler
	)
	if s.drafter != nil {
		tools = []*genai.Tool{DraftToolDeclaration()}
		handler = s.drafter.ToolHandler(req.UserID)
	}

	answer, err := s.invoker.GenerateText(ctx, prompts.ChatAnswer, prompt, tools, handler)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err == nil {
			err = apperr.ErrEmptyOutput
		}
		log.Printf("chat: model invocation failed: %v", err)
		return TurnResult{Answer: failureAnswer(err), NewSessionID: newSessionID}, nil
	}

	// The answer is appended only after a successful invocation, never before.
	if sessionID != "" {
		s.appendMessage(ctx, sessionID, models.RoleModel, answer)
	}

	return TurnResult{Answer: answer, NewSessionID: newSessionID}, nil
}

// appendMessage is best-effort: the user still receives their answer even if
// saving it fails.
func (s *ChatService) appendMessage(ctx context.Context, sessionID, role, text string) {
	msg := &models.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Text:      text,
	}
	if err := s.db.AppendChatMessage(ctx, msg); err != nil {
		log.Printf("chat: append %s message failed for session %s: %v", role, sessionID, err)
		return
	}
	if err := s.db.TouchChatSession(ctx, sessionID); err != nil {
		log.Printf("chat: session touch failed for %s: %v", sessionID, err)
	}
}

// sessionTitle asks the model for a short title and falls back to a
// truncation of the query when that call fails for any reason.
func (s *ChatService) sessionTitle(ctx context.Context, query string) string {
	prompt, err := prompts.BuildTitlePrompt(query)
	if err == nil {
		var out struct {
			Title string `json:"title"`
		}
		if err := s.invoker.GenerateJSON(ctx, prompts.ChatTitle, prompt, &out); err == nil && strings.TrimSpace(out.Title) != "" {
			return strings.TrimSpace(out.Title)
		} else if err != nil {
			log.Printf("chat: title generation failed, falling back to truncation: %v", err)
		}
	}
	return truncateTitle(query)
}

func truncateTitle(query string) string {
	runes := []rune(strings.TrimSpace(query))
	if len(runes) <= titleMaxRunes {
		return string(runes)
	}
	return string(runes[:titleMaxRunes]) + "..."
}

func messagesToTurns(msgs []models.ChatMessage) []models.ChatTurn {
	turns := make([]models.ChatTurn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, models.ChatTurn{Role: m.Role, Text: m.Text})
	}
	return turns
}

// boundHistory keeps only the most recent window turns, oldest-first.
func boundHistory(turns []models.ChatTurn, window int) []models.ChatTurn {
	if len(turns) <= window {
		return turns
	}
	return turns[len(turns)-window:]
}

func failureAnswer(err error) string {
	switch {
	case errors.Is(err, apperr.ErrAllQuotaExhausted):
		return msgHighTraffic
	case errors.Is(err, apperr.ErrNoCredentials):
		return msgNotConfigured
	case errors.Is(err, apperr.ErrEmptyOutput):
		return msgEmptyOutput
	default:
		return fmt.Sprintf("Sorry, I encountered an error while processing your request: %v. Please try again.", err)
	}
}
