package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"bookrag/internal/domain"
	"bookrag/internal/port"
)

const vectorIDPrefixLen = 100

// Indexer runs the write path: chunk a document, embed the chunks in
// batches behind a rate limiter, and upsert the points. Point IDs derive
// from (source, ordinal, text prefix), so re-indexing the same document is
// idempotent.
type Indexer struct {
	chunker  port.Chunker
	embedder port.Embedder
	index    port.VectorIndex
	limiter  *rate.Limiter
	batch    int
	log      *slog.Logger
}

func NewIndexer(chunker port.Chunker, embedder port.Embedder, index port.VectorIndex, limiter *rate.Limiter, batchSize int, log *slog.Logger) *Indexer {
	if batchSize <= 0 {
		batchSize = 100
	}
	if log == nil {
		log = slog.Default()
	}
	return &Indexer{
		chunker:  chunker,
		embedder: embedder,
		index:    index,
		limiter:  limiter,
		batch:    batchSize,
		log:      log,
	}
}

// IndexResult reports what one document contributed to the index.
type IndexResult struct {
	ChunksIndexed int
	PointIDs      []string
}

// IndexDocument chunks, embeds, and upserts one document. Each embedding
// batch waits on the rate limiter so bulk indexing respects the provider's
// limits instead of fanning out.
func (ix *Indexer) IndexDocument(ctx context.Context, content, sourceID string, extra map[string]string) (*IndexResult, error) {
	chunks, err := ix.chunker.Chunk(content, sourceID, extra)
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", sourceID, err)
	}
	if len(chunks) == 0 {
		return &IndexResult{}, nil
	}

	result := &IndexResult{PointIDs: make([]string, 0, len(chunks))}

	for start := 0; start < len(chunks); start += ix.batch {
		end := start + ix.batch
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		if ix.limiter != nil {
			if err := ix.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}
		vectors, err := ix.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding %s: %w", sourceID, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embedding %s: got %d vectors for %d chunks", sourceID, len(vectors), len(batch))
		}

		items := make([]domain.VectorItem, len(batch))
		for i, c := range batch {
			id := VectorID(c.SourceID, c.Ordinal, c.Text)
			items[i] = domain.VectorItem{
				ID:      id,
				Vector:  vectors[i],
				Payload: chunkPayload(c),
			}
			result.PointIDs = append(result.PointIDs, id)
		}

		if err := ix.index.Upsert(ctx, items); err != nil {
			return nil, fmt.Errorf("upserting %s: %w", sourceID, err)
		}
		result.ChunksIndexed += len(items)
	}

	ix.log.Info("indexed document", "source", sourceID, "chunks", result.ChunksIndexed)
	return result, nil
}

// VectorID derives a stable point ID from the chunk's source, position,
// and a text prefix. Near-identical text at the same position maps to the
// same point; collisions across distinct text are an accepted risk.
func VectorID(sourceID string, ordinal int, text string) string {
	prefix := text
	if len(prefix) > vectorIDPrefixLen {
		prefix = prefix[:vectorIDPrefixLen]
	}
	seed := sourceID + ":" + strconv.Itoa(ordinal) + ":" + prefix
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}

func chunkPayload(c domain.Chunk) map[string]string {
	payload := map[string]string{
		"text":         c.Text,
		"source":       c.SourceID,
		"chunk_index":  strconv.Itoa(c.Ordinal),
		"total_chunks": strconv.Itoa(c.TotalInSource),
	}
	for k, v := range c.Extra {
		if _, taken := payload[k]; !taken {
			payload[k] = v
		}
	}
	return payload
}
