package vectorindex

import (
	"context"
	"math"
	"sort"
	"sync"

	"bookrag/internal/domain"
)

// MemoryIndex is a brute-force in-memory vector index. It implements the
// same contract as the Qdrant adapter and substitutes for it in tests and
// in local runs without a vector backend.
type MemoryIndex struct {
	mu        sync.RWMutex
	dimension int
	points    map[string]memoryPoint
}

type memoryPoint struct {
	vector  []float32
	payload map[string]string
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{points: make(map[string]memoryPoint)}
}

func (s *MemoryIndex) EnsureCollection(_ context.Context, dimension int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension == 0 {
		s.dimension = dimension
		return nil
	}
	if s.dimension != dimension {
		return &domain.ConfigurationMismatchError{
			Resource: "memory index",
			Want:     dimension,
			Got:      s.dimension,
		}
	}
	return nil
}

func (s *MemoryIndex) Upsert(_ context.Context, items []domain.VectorItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		s.points[item.ID] = memoryPoint{vector: item.Vector, payload: item.Payload}
	}
	return nil
}

// Search scores every point and returns the top k. Ties break by ascending
// point ID so identical queries against identical state return identical
// orderings.
func (s *MemoryIndex) Search(_ context.Context, vector []float32, k int) ([]domain.VectorHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		id      string
		score   float64
		payload map[string]string
	}

	scores := make([]scored, 0, len(s.points))
	for id, p := range s.points {
		scores = append(scores, scored{id: id, score: cosineSimilarity(vector, p.vector), payload: p.payload})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].id < scores[j].id
	})

	if k > len(scores) {
		k = len(scores)
	}
	hits := make([]domain.VectorHit, 0, k)
	for i := 0; i < k; i++ {
		hits = append(hits, domain.VectorHit{Payload: scores[i].payload, Score: scores[i].score})
	}
	return hits, nil
}

// Count reports the number of stored points.
func (s *MemoryIndex) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
