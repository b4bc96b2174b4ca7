package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybermozhi/cybermozhi-server/internal/core"
	"github.com/cybermozhi/cybermozhi-server/internal/core/apperr"
	"github.com/cybermozhi/cybermozhi-server/internal/core/prompts"
	"github.com/cybermozhi/cybermozhi-server/internal/models"
)

type stubSearcher struct {
	refs []prompts.Reference
	err  error
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) ([]prompts.Reference, error) {
	return s.refs, s.err
}

func TestHandleTurnRejectsEmptyQuery(t *testing.T) {
	svc := NewChatService(newMemStore(), &mockInvoker{}, nil, nil, 0)

	_, err := svc.HandleTurn(context.Background(), TurnRequest{Query: "   "})
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)

	_, err = svc.HandleTurn(context.Background(), TurnRequest{Query: "hello", Authenticated: true})
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestHandleTurnNewSessionPersistsBothMessages(t *testing.T) {
	store := newMemStore()
	inv := &mockInvoker{
		generateText: func(_ context.Context, _ *prompts.Template, _ string, _ []*genai.Tool, _ core.ToolHandler) (string, error) {
			return "Phishing is a cyber crime under Section 66D.", nil
		},
		generateJSON: func(_ context.Context, _ *prompts.Template, _ string, out any) error {
			return json.Unmarshal([]byte(`{"title":"Phishing Basics"}`), out)
		},
	}
	svc := NewChatService(store, inv, nil, nil, 0)

	res, err := svc.HandleTurn(context.Background(), TurnRequest{
		Query:         "What is phishing?",
		Authenticated: true,
		UserID:        "u1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.NewSessionID)
	assert.Equal(t, "Phishing is a cyber crime under Section 66D.", res.Answer)

	sess := store.sessions[res.NewSessionID]
	require.NotNil(t, sess)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "Phishing Basics", sess.Title)

	msgs := store.messages[res.NewSessionID]
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "What is phishing?", msgs[0].Text)
	assert.Equal(t, models.RoleModel, msgs[1].Role)
	assert.Equal(t, res.Answer, msgs[1].Text)
}

func TestHandleTurnTitleFallsBackToTruncation(t *testing.T) {
	store := newMemStore()
	inv := &mockInvoker{
		generateJSON: func(_ context.Context, _ *prompts.Template, _ string, _ any) error {
			return errors.New("model unavailable")
		},
	}
	svc := NewChatService(store, inv, nil, nil, 0)

	long := strings.Repeat("cyber law question ", 5) // > 40 runes
	res, err := svc.HandleTurn(context.Background(), TurnRequest{
		Query:         long,
		Authenticated: true,
		UserID:        "u1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.NewSessionID)

	title := store.sessions[res.NewSessionID].Title
	assert.True(t, strings.HasSuffix(title, "..."))
	assert.Equal(t, titleMaxRunes+3, len([]rune(title)))
}

func TestHandleTurnAllQuotaExhausted(t *testing.T) {
	store := newMemStore()
	inv := &mockInvoker{
		generateText: func(_ context.Context, _ *prompts.Template, _ string, _ []*genai.Tool, _ core.ToolHandler) (string, error) {
			return "", fmt.Errorf("%w: 429", apperr.ErrAllQuotaExhausted)
		},
		generateJSON: func(_ context.Context, _ *prompts.Template, _ string, _ any) error {
			return fmt.Errorf("%w: 429", apperr.ErrAllQuotaExhausted)
		},
	}
	svc := NewChatService(store, inv, nil, nil, 0)

	res, err := svc.HandleTurn(context.Background(), TurnRequest{
		Query:         "What is phishing?",
		Authenticated: true,
		UserID:        "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, msgHighTraffic, res.Answer)

	// The user message is already durable; the failed answer is not.
	msgs := store.messages[res.NewSessionID]
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
}

func TestHandleTurnGuestIsStateless(t *testing.T) {
	store := newMemStore()
	inv := &mockInvoker{}
	svc := NewChatService(store, inv, nil, nil, 0)

	res, err := svc.HandleTurn(context.Background(), TurnRequest{
		Query: "What is Section 66C?",
		ChatHistory: []models.ChatTurn{
			{Role: models.RoleUser, Text: "Hi"},
			{Role: models.RoleModel, Text: "Hello! How can I help?"},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, res.NewSessionID)
	assert.NotEmpty(t, res.Answer)
	assert.Empty(t, store.sessions)
	assert.Empty(t, store.messages)

	// Client-supplied history still reaches the prompt.
	assert.Contains(t, inv.lastTextPrompt, "CyberMozhi: Hello! How can I help?")
}

func TestHandleTurnExistingSessionUsesStoredHistory(t *testing.T) {
	store := newMemStore()
	store.sessions["s1"] = &models.ChatSession{ID: "s1", UserID: "u1", Title: "Phishing"}
	store.messages["s1"] = []models.ChatMessage{
		{ID: "m1", SessionID: "s1", Role: models.RoleUser, Text: "What is phishing?"},
		{ID: "m2", SessionID: "s1", Role: models.RoleModel, Text: "Phishing is fraudulent impersonation."},
	}

	inv := &mockInvoker{
		generateText: func(_ context.Context, _ *prompts.Template, _ string, _ []*genai.Tool, _ core.ToolHandler) (string, error) {
			return "Report it on the cybercrime portal.", nil
		},
	}
	svc := NewChatService(store, inv, nil, nil, 0)

	res, err := svc.HandleTurn(context.Background(), TurnRequest{
		Query:         "How do I report it?",
		Authenticated: true,
		UserID:        "u1",
		SessionID:     "s1",
	})
	require.NoError(t, err)
	assert.Empty(t, res.NewSessionID, "existing session must not mint a new id")
	assert.Contains(t, inv.lastTextPrompt, "Phishing is fraudulent impersonation.")

	msgs := store.messages["s1"]
	require.Len(t, msgs, 4)
	for i, m := range msgs {
		want := models.RoleUser
		if i%2 == 1 {
			want = models.RoleModel
		}
		assert.Equal(t, want, m.Role, "messages must alternate starting with user")
	}
}

func TestHandleTurnRejectsForeignSession(t *testing.T) {
	store := newMemStore()
	store.sessions["s1"] = &models.ChatSession{ID: "s1", UserID: "owner"}
	svc := NewChatService(store, &mockInvoker{}, nil, nil, 0)

	_, err := svc.HandleTurn(context.Background(), TurnRequest{
		Query:         "hello",
		Authenticated: true,
		UserID:        "intruder",
		SessionID:     "s1",
	})
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)

	_, err = svc.HandleTurn(context.Background(), TurnRequest{
		Query:         "hello",
		Authenticated: true,
		UserID:        "owner",
		SessionID:     "missing",
	})
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestHandleTurnDegradesOnSupportFailures(t *testing.T) {
	store := newMemStore()
	store.sessions["s1"] = &models.ChatSession{ID: "s1", UserID: "u1"}
	store.errGetProfile = errors.New("profiles table gone")
	store.errListMessages = errors.New("messages table gone")

	inv := &mockInvoker{
		generateText: func(_ context.Context, _ *prompts.Template, _ string, _ []*genai.Tool, _ core.ToolHandler) (string, error) {
			return "Still answering.", nil
		},
	}
	svc := NewChatService(store, inv, nil, &stubSearcher{err: errors.New("vector index offline")}, 0)

	res, err := svc.HandleTurn(context.Background(), TurnRequest{
		Query:         "What is Section 66?",
		Authenticated: true,
		UserID:        "u1",
		SessionID:     "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Still answering.", res.Answer)
}

func TestHandleTurnSessionCreateFailureGoesStateless(t *testing.T) {
	store := newMemStore()
	store.errCreateSession = errors.New("db down")
	svc := NewChatService(store, &mockInvoker{}, nil, nil, 0)

	res, err := svc.HandleTurn(context.Background(), TurnRequest{
		Query:         "What is phishing?",
		Authenticated: true,
		UserID:        "u1",
	})
	require.NoError(t, err)
	assert.Empty(t, res.NewSessionID)
	assert.NotEmpty(t, res.Answer)
	assert.Empty(t, store.messages)
}

func TestHandleTurnBoundsGuestHistory(t *testing.T) {
	inv := &mockInvoker{}
	svc := NewChatService(newMemStore(), inv, nil, nil, 4)

	var history []models.ChatTurn
	for i := 0; i < 10; i++ {
		history = append(history,
			models.ChatTurn{Role: models.RoleUser, Text: fmt.Sprintf("question %d", i)},
			models.ChatTurn{Role: models.RoleModel, Text: fmt.Sprintf("answer %d", i)},
		)
	}

	_, err := svc.HandleTurn(context.Background(), TurnRequest{Query: "latest", ChatHistory: history})
	require.NoError(t, err)

	assert.NotContains(t, inv.lastTextPrompt, "question 0")
	assert.Contains(t, inv.lastTextPrompt, "answer 9")
}

func TestHandleTurnIncludesLawReferences(t *testing.T) {
	inv := &mockInvoker{}
	laws := &stubSearcher{refs: []prompts.Reference{
		{Title: "Identity Theft", Section: "Section 66C", Summary: "Punishes fraudulent use of another's identity."},
	}}
	svc := NewChatService(newMemStore(), inv, nil, laws, 0)

	_, err := svc.HandleTurn(context.Background(), TurnRequest{Query: "Someone is using my Aadhaar"})
	require.NoError(t, err)
	assert.Contains(t, inv.lastTextPrompt, "Identity Theft (Section 66C)")
}

func TestHandleTurnUsesStoredProfile(t *testing.T) {
	store := newMemStore()
	age := 34
	store.profiles["u1"] = &models.Profile{
		UserID:      "u1",
		DisplayName: "Priya",
		Age:         &age,
		State:       "Tamil Nadu",
	}
	inv := &mockInvoker{}
	svc := NewChatService(store, inv, nil, nil, 0)

	_, err := svc.HandleTurn(context.Background(), TurnRequest{
		Query:         "How do I file a complaint?",
		Authenticated: true,
		UserID:        "u1",
	})
	require.NoError(t, err)
	assert.Contains(t, inv.lastTextPrompt, "Priya")
	assert.Contains(t, inv.lastTextPrompt, "Tamil Nadu")
	assert.NotContains(t, inv.lastTextPrompt, "profile settings", "complete profiles get no nudge")
}

func TestFailureAnswer(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"quota", fmt.Errorf("%w: last: 429", apperr.ErrAllQuotaExhausted), msgHighTraffic},
		{"no credentials", apperr.ErrNoCredentials, msgNotConfigured},
		{"empty output", fmt.Errorf("%w: blocked", apperr.ErrEmptyOutput), msgEmptyOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failureAnswer(tt.err))
		})
	}

	generic := failureAnswer(errors.New("connection reset"))
	assert.Contains(t, generic, "connection reset")
	assert.NotEmpty(t, generic)
}

func TestTruncateTitle(t *testing.T) {
	assert.Equal(t, "short", truncateTitle("short"))

	long := strings.Repeat("அ", 60)
	got := truncateTitle(long)
	assert.Equal(t, strings.Repeat("அ", 40)+"...", got)
}
