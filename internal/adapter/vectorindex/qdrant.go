package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bookrag/internal/domain"
)

// QdrantIndex is a minimal REST client to a Qdrant collection. It assumes
// cosine distance and creates the collection on first use.
type QdrantIndex struct {
	baseURL    string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewQdrantIndex(cfg QdrantConfig) *QdrantIndex {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &QdrantIndex{
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

type collectionInfo struct {
	Result struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size int `json:"size"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// EnsureCollection creates the collection if absent. An existing collection
// with a different vector dimension is a fatal configuration mismatch.
func (s *QdrantIndex) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}

	status, body, err := s.do(ctx, http.MethodGet, s.collectionURL(), nil)
	if err != nil {
		return fmt.Errorf("qdrant unreachable: %w", err)
	}

	switch {
	case status == http.StatusOK:
		var info collectionInfo
		if err := json.Unmarshal(body, &info); err != nil {
			return fmt.Errorf("failed to parse collection info: %w", err)
		}
		if got := info.Result.Config.Params.Vectors.Size; got != dimension {
			return &domain.ConfigurationMismatchError{
				Resource: s.collection,
				Want:     dimension,
				Got:      got,
			}
		}
	case status == http.StatusNotFound:
		create := map[string]any{
			"vectors": map[string]any{
				"size":     dimension,
				"distance": "Cosine",
			},
		}
		payload, _ := json.Marshal(create)
		status, body, err = s.do(ctx, http.MethodPut, s.collectionURL(), payload)
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		if status >= 300 {
			return fmt.Errorf("failed to create collection: status %d: %s", status, body)
		}
	default:
		return fmt.Errorf("unexpected status %d checking collection: %s", status, body)
	}

	s.dimension = dimension
	return nil
}

func (s *QdrantIndex) Upsert(ctx context.Context, items []domain.VectorItem) error {
	if len(items) == 0 {
		return nil
	}

	points := make([]map[string]any, len(items))
	for i, item := range items {
		payload := make(map[string]any, len(item.Payload))
		for k, v := range item.Payload {
			payload[k] = v
		}
		points[i] = map[string]any{
			"id":      item.ID,
			"vector":  item.Vector,
			"payload": payload,
		}
	}

	body, _ := json.Marshal(map[string]any{"points": points})
	status, respBody, err := s.do(ctx, http.MethodPut, s.collectionURL()+"/points?wait=true", body)
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	if status >= 300 {
		return fmt.Errorf("qdrant upsert failed: status %d: %s", status, respBody)
	}
	return nil
}

// Search returns at most k hits by descending cosine similarity. Transport
// and server failures wrap ErrRetrievalUnavailable so callers can degrade
// to an empty context set.
func (s *QdrantIndex) Search(ctx context.Context, vector []float32, k int) ([]domain.VectorHit, error) {
	if k <= 0 {
		k = 5
	}

	body, _ := json.Marshal(map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	})

	status, respBody, err := s.do(ctx, http.MethodPost, s.collectionURL()+"/points/search", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalUnavailable, err)
	}
	if status >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrRetrievalUnavailable, status, respBody)
	}

	var parsed struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed search response: %v", domain.ErrRetrievalUnavailable, err)
	}

	hits := make([]domain.VectorHit, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		payload := make(map[string]string, len(r.Payload))
		for key, val := range r.Payload {
			if str, ok := val.(string); ok {
				payload[key] = str
			} else {
				payload[key] = fmt.Sprintf("%v", val)
			}
		}
		hits = append(hits, domain.VectorHit{Payload: payload, Score: r.Score})
	}
	return hits, nil
}

func (s *QdrantIndex) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", s.baseURL, s.collection)
}

func (s *QdrantIndex) do(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}
