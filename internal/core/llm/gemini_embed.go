package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"github.com/cybermozhi/cybermozhi-server/internal/core"
)

// Embedder embeds texts with the Gemini embedding model, sharing the
// gateway's per-credential clients and quota rotation.
type Embedder struct {
	gateway   *Gateway
	modelName string
}

func NewEmbedder(g *Gateway, modelName string) *Embedder {
	if modelName == "" {
		modelName = "text-embedding-004"
	}
	return &Embedder{gateway: g, modelName: modelName}
}

// EmbedTexts batches all texts in one request via BatchEmbedContents.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var out [][]float32
	err := e.gateway.pool.Do(ctx, func(ctx context.Context, slot int, _ string) error {
		em := e.gateway.clients[slot].EmbeddingModel(e.modelName)

		batch := em.NewBatch()
		for _, t := range texts {
			batch.AddContent(genai.Text(t))
		}

		resp, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return fmt.Errorf("gemini batch embed: %w", err)
		}

		vecs := make([][]float32, 0, len(resp.Embeddings))
		for _, emb := range resp.Embeddings {
			vecs = append(vecs, emb.Values)
		}
		out = vecs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

var _ core.EmbeddingProvider = (*Embedder)(nil)
