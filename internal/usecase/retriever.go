package usecase

import (
	"context"
	"log/slog"

	"bookrag/internal/domain"
	"bookrag/internal/port"
)

// SourceUserSelection labels the snippet produced when the user selected a
// passage themselves instead of relying on semantic search.
const SourceUserSelection = "user_selection"

// Retriever returns ranked context snippets for a query. Explicit user
// selections bypass the vector index entirely; retrieval failures degrade
// to an empty context set rather than failing the chat request.
type Retriever struct {
	embedder port.Embedder
	index    port.VectorIndex
	log      *slog.Logger
}

func NewRetriever(embedder port.Embedder, index port.VectorIndex, log *slog.Logger) *Retriever {
	if log == nil {
		log = slog.Default()
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		log:      log,
	}
}

// Retrieve returns at most topK snippets, best first. When selectedText is
// non-empty the index is not consulted and the single returned snippet
// scores exactly 1.0.
func (r *Retriever) Retrieve(ctx context.Context, query, selectedText string, topK int) []domain.ContextSnippet {
	if selectedText != "" {
		return []domain.ContextSnippet{{
			Text:        selectedText,
			Score:       1.0,
			SourceLabel: SourceUserSelection,
		}}
	}

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		r.log.Warn("query embedding failed, continuing without context", "error", err)
		return nil
	}

	hits, err := r.index.Search(ctx, vectors[0], topK)
	if err != nil {
		r.log.Warn("vector search failed, continuing without context", "error", err)
		return nil
	}

	snippets := make([]domain.ContextSnippet, 0, len(hits))
	for _, hit := range hits {
		label := hit.Payload["source"]
		if label == "" {
			label = "unknown"
		}
		snippets = append(snippets, domain.ContextSnippet{
			Text:        hit.Payload["text"],
			Score:       hit.Score,
			SourceLabel: label,
		})
	}
	return snippets
}
