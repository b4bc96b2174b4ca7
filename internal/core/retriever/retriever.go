package retriever

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cybermozhi/cybermozhi-server/internal/content"
	"github.com/cybermozhi/cybermozhi-server/internal/core"
	"github.com/cybermozhi/cybermozhi-server/internal/core/prompts"
	"github.com/cybermozhi/cybermozhi-server/internal/models"
)

const ingestBatchSize = 4

// LawRetriever grounds chat answers in the law-summary library: the
// summaries are embedded once at startup, and each turn's query is matched
// against them by vector distance. Retrieval is a soft enhancement; every
// failure degrades to an un-grounded answer.
type LawRetriever struct {
	db       core.DbClient
	embedder core.EmbeddingProvider
}

func NewLawRetriever(db core.DbClient, embedder core.EmbeddingProvider) *LawRetriever {
	return &LawRetriever{db: db, embedder: embedder}
}

// Bootstrap embeds and stores the law-summary corpus if the law_chunks table
// is empty. Batches run concurrently under an errgroup.
func (r *LawRetriever) Bootstrap(ctx context.Context) error {
	n, err := r.db.CountLawChunks(ctx)
	if err != nil {
		return fmt.Errorf("count law chunks: %w", err)
	}
	if n > 0 {
		return nil
	}

	laws := content.Laws()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	for start := 0; start < len(laws); start += ingestBatchSize {
		end := start + ingestBatchSize
		if end > len(laws) {
			end = len(laws)
		}
		batch := laws[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, l := range batch {
				texts[i] = fmt.Sprintf("%s (%s, %s): %s %s Penalty: %s",
					l.Title, l.Act, l.Section, l.Summary, l.Details, l.Penalty)
			}

			vecs, err := r.embedder.EmbedTexts(gctx, texts)
			if err != nil {
				return fmt.Errorf("embed law batch: %w", err)
			}
			if len(vecs) != len(batch) {
				return fmt.Errorf("embed law batch: got %d vectors for %d texts", len(vecs), len(batch))
			}

			chunks := make([]models.LawChunk, len(batch))
			for i, l := range batch {
				chunks[i] = models.LawChunk{
					ID:        uuid.NewString(),
					LawID:     l.ID,
					Title:     l.Title,
					Section:   l.Section,
					Text:      texts[i],
					Embedding: vecs[i],
				}
			}
			return r.db.InsertLawChunks(gctx, chunks)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Printf("law retriever: ingested %d law summaries", len(laws))
	return nil
}

// Search returns up to limit law references relevant to the query.
func (r *LawRetriever) Search(ctx context.Context, query string, limit int) ([]prompts.Reference, error) {
	vecs, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, nil
	}

	chunks, err := r.db.SearchLawChunks(ctx, vecs[0], limit)
	if err != nil {
		return nil, fmt.Errorf("search law chunks: %w", err)
	}

	refs := make([]prompts.Reference, 0, len(chunks))
	for _, ch := range chunks {
		refs = append(refs, prompts.Reference{Title: ch.Title, Section: ch.Section, Summary: ch.Text})
	}
	return refs, nil
}
