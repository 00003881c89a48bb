package port

import "bookrag/internal/domain"

// Chunker splits raw document text into overlapping, token-bounded chunks.
type Chunker interface {
	Chunk(content, sourceID string, extra map[string]string) ([]domain.Chunk, error)
}
