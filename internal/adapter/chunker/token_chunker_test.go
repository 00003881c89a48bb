package chunker

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"bookrag/internal/adapter/textproc"
	"bookrag/internal/domain"
)

// words builds text that tokenizes to exactly n tokens: the first word is
// one token, every following " word" binds its space.
func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("word%d", i%10)
	}
	return strings.Join(parts, " ")
}

func TestNewTokenChunkerRejectsBadOverlap(t *testing.T) {
	tok := textproc.NewTokenizer()

	if _, err := NewTokenChunker(100, 100, tok); !errors.Is(err, domain.ErrInvalidChunking) {
		t.Errorf("expected ErrInvalidChunking for overlap == size, got %v", err)
	}
	if _, err := NewTokenChunker(100, 150, tok); !errors.Is(err, domain.ErrInvalidChunking) {
		t.Errorf("expected ErrInvalidChunking for overlap > size, got %v", err)
	}
	if _, err := NewTokenChunker(0, 0, tok); err == nil {
		t.Error("expected error for zero chunk size")
	}
}

func TestChunkEmptyContent(t *testing.T) {
	tok := textproc.NewTokenizer()
	c, err := NewTokenChunker(100, 20, tok)
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := c.Chunk("   \n\t  ", "doc", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for whitespace-only content, got %d", len(chunks))
	}
}

func TestChunkShortDocumentSingleWindow(t *testing.T) {
	tok := textproc.NewTokenizer()
	c, err := NewTokenChunker(1000, 200, tok)
	if err != nil {
		t.Fatal(err)
	}

	content := words(50)
	chunks, err := c.Chunk(content, "intro.md", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != content {
		t.Errorf("short document should survive chunking unchanged")
	}
	if chunks[0].Ordinal != 0 || chunks[0].TotalInSource != 1 {
		t.Errorf("unexpected positional metadata: ordinal=%d total=%d", chunks[0].Ordinal, chunks[0].TotalInSource)
	}
}

func TestChunkWindowWalk(t *testing.T) {
	tok := textproc.NewTokenizer()
	c, err := NewTokenChunker(1000, 200, tok)
	if err != nil {
		t.Fatal(err)
	}

	content := words(2400)
	chunks, err := c.Chunk(content, "chapter-01.md", map[string]string{"chapter": "1"})
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 2400 tokens at size=1000/overlap=200, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.Ordinal != i {
			t.Errorf("chunk %d has ordinal %d", i, ch.Ordinal)
		}
		if ch.TotalInSource != 3 {
			t.Errorf("chunk %d has TotalInSource=%d, want 3", i, ch.TotalInSource)
		}
		if ch.SourceID != "chapter-01.md" {
			t.Errorf("chunk %d has SourceID=%q", i, ch.SourceID)
		}
		if ch.Extra["chapter"] != "1" {
			t.Errorf("chunk %d lost extra metadata", i)
		}
	}

	if got := tok.Count(chunks[0].Text); got != 1000 {
		t.Errorf("first window should hold 1000 tokens, got %d", got)
	}
	if got := tok.Count(chunks[2].Text); got != 800 {
		t.Errorf("final partial window should hold 800 tokens, got %d", got)
	}
}

func TestChunkNonOverlappingRegionsReconstruct(t *testing.T) {
	tok := textproc.NewTokenizer()
	c, err := NewTokenChunker(100, 25, tok)
	if err != nil {
		t.Fatal(err)
	}

	content := words(333)
	chunks, err := c.Chunk(content, "doc", nil)
	if err != nil {
		t.Fatal(err)
	}

	step := 100 - 25
	var rebuilt []string
	for i, ch := range chunks {
		tokens := tok.Encode(ch.Text)
		if i < len(chunks)-1 {
			tokens = tokens[:step]
		}
		rebuilt = append(rebuilt, tokens...)
	}

	if got := tok.Decode(rebuilt); got != content {
		t.Error("concatenated non-overlapping regions do not reconstruct the source")
	}
}

func TestChunkOverlapRepeatsTokens(t *testing.T) {
	tok := textproc.NewTokenizer()
	c, err := NewTokenChunker(50, 10, tok)
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := c.Chunk(words(120), "doc", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	prev := tok.Encode(chunks[0].Text)
	next := tok.Encode(chunks[1].Text)
	tail := prev[len(prev)-10:]
	head := next[:10]
	for i := range tail {
		if tail[i] != head[i] {
			t.Fatalf("overlap mismatch at token %d: %q vs %q", i, tail[i], head[i])
		}
	}
}
