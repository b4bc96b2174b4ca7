package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/generative-ai-go/genai"

	"github.com/cybermozhi/cybermozhi-server/internal/core"
	"github.com/cybermozhi/cybermozhi-server/internal/core/prompts"
	"github.com/cybermozhi/cybermozhi-server/internal/models"
)

// mockInvoker lets each test script the model's behavior per call.
type mockInvoker struct {
	generateText func(ctx context.Context, tpl *prompts.Template, prompt string, tools []*genai.Tool, handler core.ToolHandler) (string, error)
	generateJSON func(ctx context.Context, tpl *prompts.Template, prompt string, out any) error

	lastTextPrompt string
	textCalls      int
	jsonCalls      int
}

func (m *mockInvoker) GenerateText(ctx context.Context, tpl *prompts.Template, prompt string, tools []*genai.Tool, handler core.ToolHandler) (string, error) {
	m.textCalls++
	m.lastTextPrompt = prompt
	if m.generateText == nil {
		return "mock answer", nil
	}
	return m.generateText(ctx, tpl, prompt, tools, handler)
}

func (m *mockInvoker) GenerateJSON(ctx context.Context, tpl *prompts.Template, prompt string, out any) error {
	m.jsonCalls++
	if m.generateJSON == nil {
		return json.Unmarshal([]byte(`{"title":"Mock Title"}`), out)
	}
	return m.generateJSON(ctx, tpl, prompt, out)
}

var _ core.ModelInvoker = (*mockInvoker)(nil)

// memStore is an in-memory core.DbClient with per-method error injection.
type memStore struct {
	mu sync.Mutex

	users    map[string]*models.User
	profiles map[string]*models.Profile
	sessions map[string]*models.ChatSession
	messages map[string][]models.ChatMessage
	drafts   map[string][]models.LegalDraft
	chunks   []models.LawChunk

	errGetProfile    error
	errCreateSession error
	errGetSession    error
	errListMessages  error
	errAppend        error
	errCreateDraft   error
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*models.User),
		profiles: make(map[string]*models.Profile),
		sessions: make(map[string]*models.ChatSession),
		messages: make(map[string][]models.ChatMessage),
		drafts:   make(map[string][]models.LegalDraft),
	}
}

func (s *memStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *memStore) UpsertProfile(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *memStore) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	if s.errGetProfile != nil {
		return nil, s.errGetProfile
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[userID], nil
}

func (s *memStore) CreateChatSession(_ context.Context, session *models.ChatSession) error {
	if s.errCreateSession != nil {
		return s.errCreateSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *memStore) GetChatSession(_ context.Context, id string) (*models.ChatSession, error) {
	if s.errGetSession != nil {
		return nil, s.errGetSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id], nil
}

func (s *memStore) ListChatSessions(_ context.Context, userID string) ([]models.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ChatSession
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			out = append(out, *sess)
		}
	}
	return out, nil
}

func (s *memStore) TouchChatSession(_ context.Context, _ string) error { return nil }

func (s *memStore) DeleteChatSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.messages, id)
	return nil
}

func (s *memStore) AppendChatMessage(_ context.Context, message *models.ChatMessage) error {
	if s.errAppend != nil {
		return s.errAppend
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[message.SessionID] = append(s.messages[message.SessionID], *message)
	return nil
}

func (s *memStore) ListChatMessages(_ context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	if s.errListMessages != nil {
		return nil, s.errListMessages
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]models.ChatMessage(nil), msgs...), nil
}

func (s *memStore) CreateLegalDraft(_ context.Context, draft *models.LegalDraft) error {
	if s.errCreateDraft != nil {
		return s.errCreateDraft
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.UserID] = append(s.drafts[draft.UserID], *draft)
	return nil
}

func (s *memStore) ListLegalDrafts(_ context.Context, userID string) ([]models.LegalDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LegalDraft(nil), s.drafts[userID]...), nil
}

func (s *memStore) CountLawChunks(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks), nil
}

func (s *memStore) InsertLawChunks(_ context.Context, chunks []models.LawChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *memStore) SearchLawChunks(_ context.Context, _ []float32, limit int) ([]models.LawChunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.chunks) > limit {
		return append([]models.LawChunk(nil), s.chunks[:limit]...), nil
	}
	return append([]models.LawChunk(nil), s.chunks...), nil
}

func (s *memStore) Close() error { return nil }

var _ core.DbClient = (*memStore)(nil)
