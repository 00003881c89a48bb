package usecase

import (
	"context"
	"fmt"
	"testing"

	"bookrag/internal/domain"
)

func TestRetrieveSelectedTextShortCircuits(t *testing.T) {
	// Index and embedder are both broken; the selection path must not care.
	index := &stubIndex{err: fmt.Errorf("%w: backend offline", domain.ErrRetrievalUnavailable)}
	embedder := &stubEmbedder{dim: 4, fail: true}
	r := NewRetriever(embedder, index, nil)

	snippets := r.Retrieve(context.Background(), "what is chunking?", "X", 5)

	if len(snippets) != 1 {
		t.Fatalf("expected exactly one snippet, got %d", len(snippets))
	}
	got := snippets[0]
	if got.Text != "X" || got.Score != 1.0 || got.SourceLabel != SourceUserSelection {
		t.Errorf("unexpected snippet: %+v", got)
	}
	if index.queries != 0 {
		t.Error("vector index must not be consulted for explicit selections")
	}
}

func TestRetrieveMapsHits(t *testing.T) {
	index := &stubIndex{hits: []domain.VectorHit{
		{Score: 0.8, Payload: map[string]string{"text": "alpha", "source": "ch1.md"}},
		{Score: 0.6, Payload: map[string]string{"text": "beta"}},
	}}
	r := NewRetriever(&stubEmbedder{dim: 4}, index, nil)

	snippets := r.Retrieve(context.Background(), "query", "", 5)

	if len(snippets) != 2 {
		t.Fatalf("expected 2 snippets, got %d", len(snippets))
	}
	if snippets[0].Text != "alpha" || snippets[0].Score != 0.8 || snippets[0].SourceLabel != "ch1.md" {
		t.Errorf("unexpected first snippet: %+v", snippets[0])
	}
	if snippets[1].SourceLabel != "unknown" {
		t.Errorf("missing source should map to unknown, got %q", snippets[1].SourceLabel)
	}
}

func TestRetrieveDegradesOnSearchFailure(t *testing.T) {
	index := &stubIndex{err: fmt.Errorf("%w: connection refused", domain.ErrRetrievalUnavailable)}
	r := NewRetriever(&stubEmbedder{dim: 4}, index, nil)

	snippets := r.Retrieve(context.Background(), "query", "", 5)
	if len(snippets) != 0 {
		t.Errorf("expected empty context on retrieval failure, got %d snippets", len(snippets))
	}
}

func TestRetrieveDegradesOnEmbeddingFailure(t *testing.T) {
	index := &stubIndex{hits: []domain.VectorHit{{Score: 0.9, Payload: map[string]string{"text": "x"}}}}
	r := NewRetriever(&stubEmbedder{dim: 4, fail: true}, index, nil)

	snippets := r.Retrieve(context.Background(), "query", "", 5)
	if len(snippets) != 0 {
		t.Errorf("expected empty context when the query cannot be embedded, got %d", len(snippets))
	}
	if index.queries != 0 {
		t.Error("search should not run without a query vector")
	}
}
