package usecase

import (
	"context"
	"errors"

	"bookrag/internal/domain"
	"bookrag/internal/port"
)

// stubEmbedder returns fixed-dimension vectors and can be forced to fail.
type stubEmbedder struct {
	dim  int
	fail bool
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if s.fail {
		return nil, errors.New("embedding provider down")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, s.dim)
		for j, r := range texts[i] {
			if j < s.dim {
				out[i][j] = float32(r) / 1000.0
			}
		}
	}
	return out, nil
}

func (s *stubEmbedder) Dimension() int    { return s.dim }
func (s *stubEmbedder) ModelName() string { return "stub" }

// stubIndex serves canned hits or a canned error.
type stubIndex struct {
	hits    []domain.VectorHit
	err     error
	queries int
}

func (s *stubIndex) EnsureCollection(context.Context, int) error { return nil }

func (s *stubIndex) Upsert(context.Context, []domain.VectorItem) error { return nil }

func (s *stubIndex) Search(context.Context, []float32, int) ([]domain.VectorHit, error) {
	s.queries++
	if s.err != nil {
		return nil, s.err
	}
	return s.hits, nil
}

// stubLLM records the prompt it received and returns a canned completion
// or error.
type stubLLM struct {
	out    string
	err    error
	prompt domain.Prompt
	calls  int
}

func (s *stubLLM) Complete(_ context.Context, prompt domain.Prompt, _ port.GenerationParams) (string, error) {
	s.calls++
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

func (s *stubLLM) ModelName() string { return "stub-llm" }

// memKV is a minimal in-memory port.KV.
type memKV struct {
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(bucket, key string) ([]byte, bool, error) {
	v, ok := m.data[bucket+"/"+key]
	return v, ok, nil
}

func (m *memKV) Put(bucket, key string, value []byte) error {
	m.data[bucket+"/"+key] = value
	return nil
}
