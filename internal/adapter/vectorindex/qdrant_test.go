package vectorindex

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookrag/internal/domain"
)

func newTestIndex(handler http.Handler) (*QdrantIndex, func()) {
	srv := httptest.NewServer(handler)
	idx := NewQdrantIndex(QdrantConfig{
		URL:        srv.URL,
		Collection: "book_embeddings",
	})
	return idx, srv.Close
}

func TestQdrantEnsureCollectionCreatesWhenAbsent(t *testing.T) {
	var created bool
	idx, done := newTestIndex(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			vectors := body["vectors"].(map[string]any)
			if vectors["distance"] != "Cosine" {
				t.Errorf("expected cosine distance, got %v", vectors["distance"])
			}
			if vectors["size"].(float64) != 1536 {
				t.Errorf("expected dimension 1536, got %v", vectors["size"])
			}
			created = true
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer done()

	if err := idx.EnsureCollection(context.Background(), 1536); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected collection creation request")
	}
}

func TestQdrantEnsureCollectionRejectsDimensionDrift(t *testing.T) {
	idx, done := newTestIndex(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"config":{"params":{"vectors":{"size":768}}}}}`))
	}))
	defer done()

	err := idx.EnsureCollection(context.Background(), 1536)
	var mismatch *domain.ConfigurationMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ConfigurationMismatchError, got %v", err)
	}
	if mismatch.Want != 1536 || mismatch.Got != 768 {
		t.Errorf("unexpected mismatch fields: %+v", mismatch)
	}
}

func TestQdrantSearchFailureWrapsRetrievalUnavailable(t *testing.T) {
	idx, done := newTestIndex(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer done()

	_, err := idx.Search(context.Background(), []float32{1, 2, 3}, 5)
	if !errors.Is(err, domain.ErrRetrievalUnavailable) {
		t.Fatalf("expected ErrRetrievalUnavailable, got %v", err)
	}
}

func TestQdrantSearchUnreachableWrapsRetrievalUnavailable(t *testing.T) {
	idx := NewQdrantIndex(QdrantConfig{
		URL:        "http://127.0.0.1:1", // nothing listens here
		Collection: "book_embeddings",
	})

	_, err := idx.Search(context.Background(), []float32{1}, 5)
	if !errors.Is(err, domain.ErrRetrievalUnavailable) {
		t.Fatalf("expected ErrRetrievalUnavailable, got %v", err)
	}
}

func TestQdrantSearchParsesHits(t *testing.T) {
	idx, done := newTestIndex(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[
			{"score":0.8,"payload":{"text":"alpha","source":"ch1","chunk_index":"0"}},
			{"score":0.6,"payload":{"text":"beta","source":"ch2","chunk_index":"3"}}
		]}`))
	}))
	defer done()

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Score != 0.8 || hits[0].Payload["text"] != "alpha" {
		t.Errorf("unexpected first hit: %+v", hits[0])
	}
	if hits[1].Payload["source"] != "ch2" {
		t.Errorf("unexpected second hit payload: %v", hits[1].Payload)
	}
}

func TestQdrantUpsertSendsPoints(t *testing.T) {
	var got struct {
		Points []struct {
			ID      string            `json:"id"`
			Vector  []float32         `json:"vector"`
			Payload map[string]string `json:"payload"`
		} `json:"points"`
	}
	idx, done := newTestIndex(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("wait") != "true" {
			t.Error("expected wait=true on upsert")
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer done()

	items := []domain.VectorItem{{
		ID:      "11111111-2222-3333-4444-555555555555",
		Vector:  []float32{0.5, 0.5},
		Payload: map[string]string{"text": "hello"},
	}}
	if err := idx.Upsert(context.Background(), items); err != nil {
		t.Fatal(err)
	}
	if len(got.Points) != 1 || got.Points[0].Payload["text"] != "hello" {
		t.Errorf("unexpected upsert body: %+v", got)
	}
}
