package chunker

import (
	"fmt"

	"bookrag/internal/adapter/textproc"
	"bookrag/internal/domain"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// TokenChunker splits normalized text into overlapping token windows.
// Window size and step are measured in tokenizer tokens, not characters,
// so chunk sizes track the embedding model's input budget.
type TokenChunker struct {
	size      int
	overlap   int
	tokenizer *textproc.Tokenizer
}

// NewTokenChunker validates the window parameters up front: an overlap
// equal to or larger than the size would never advance the walk.
func NewTokenChunker(size, overlap int, tokenizer *textproc.Tokenizer) (*TokenChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: size %d, overlap %d", domain.ErrInvalidChunking, size, overlap)
	}
	return &TokenChunker{
		size:      size,
		overlap:   overlap,
		tokenizer: tokenizer,
	}, nil
}

// Chunk walks the token sequence with step size-overlap and decodes each
// window back to text. The final partial window is emitted even when it is
// shorter than the configured size. Empty content after normalization
// yields no chunks and no error.
func (c *TokenChunker) Chunk(content, sourceID string, extra map[string]string) ([]domain.Chunk, error) {
	text := textproc.Normalize(content)
	if text == "" {
		return nil, nil
	}

	tokens := c.tokenizer.Encode(text)
	step := c.size - c.overlap

	var windows []string
	for start := 0; start < len(tokens); start += step {
		end := start + c.size
		if end > len(tokens) {
			end = len(tokens)
		}
		windows = append(windows, c.tokenizer.Decode(tokens[start:end]))
	}

	chunks := make([]domain.Chunk, len(windows))
	for i, w := range windows {
		chunks[i] = domain.Chunk{
			Text:          w,
			SourceID:      sourceID,
			Ordinal:       i,
			TotalInSource: len(windows),
			Extra:         cloneExtra(extra),
		}
	}
	return chunks, nil
}

func cloneExtra(extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return nil
	}
	out := make(map[string]string, len(extra))
	for k, v := range extra {
		out[k] = v
	}
	return out
}
