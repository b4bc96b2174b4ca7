package core

import (
	"context"

	"github.com/google/generative-ai-go/genai"

	"github.com/cybermozhi/cybermozhi-server/internal/core/prompts"
	"github.com/cybermozhi/cybermozhi-server/internal/models"
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	UpsertProfile(ctx context.Context, profile *models.Profile) error
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	CreateChatSession(ctx context.Context, session *models.ChatSession) error
	GetChatSession(ctx context.Context, id string) (*models.ChatSession, error)
	ListChatSessions(ctx context.Context, userID string) ([]models.ChatSession, error)
	TouchChatSession(ctx context.Context, id string) error
	DeleteChatSession(ctx context.Context, id string) error

	AppendChatMessage(ctx context.Context, message *models.ChatMessage) error
	ListChatMessages(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error)

	CreateLegalDraft(ctx context.Context, draft *models.LegalDraft) error
	ListLegalDrafts(ctx context.Context, userID string) ([]models.LegalDraft, error)

	CountLawChunks(ctx context.Context) (int, error)
	InsertLawChunks(ctx context.Context, chunks []models.LawChunk) error
	SearchLawChunks(ctx context.Context, queryVec []float32, limit int) ([]models.LawChunk, error)

	Close() error
}

// ToolHandler executes one model-initiated tool invocation during generation.
type ToolHandler func(ctx context.Context, name string, args map[string]any) (map[string]any, error)

// ModelInvoker is the abstract gateway to the language model. The key-pool
// rotating Gemini gateway is the production implementation; tests inject
// their own.
type ModelInvoker interface {
	// GenerateText runs a template expecting Markdown text output. Tools, when
	// bound, may be invoked by the model zero or more times during the call.
	GenerateText(ctx context.Context, tpl *prompts.Template, prompt string, tools []*genai.Tool, handler ToolHandler) (string, error)

	// GenerateJSON runs a template with a declared JSON output shape and
	// decodes the result into out.
	GenerateJSON(ctx context.Context, tpl *prompts.Template, prompt string, out any) error
}

// EmbeddingProvider turns texts into embedding vectors.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ObjectClient defines interactions with S3 or any object storage.
// Abstract so AWS can be replaced with MinIO, GCP, etc.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
}
