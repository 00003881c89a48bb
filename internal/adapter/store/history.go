package store

import (
	"encoding/json"
	"fmt"
	"time"

	"bookrag/internal/domain"
	"bookrag/internal/port"
)

const historyBucket = "chat_history"

// snippet text is truncated before it is persisted with a turn; full
// snippets only live inside the request that produced them.
const maxStoredSnippetLen = 500

// HistoryStore persists per-session conversation turns in the key-value
// collaborator, one JSON record list per session.
type HistoryStore struct {
	kv port.KV
}

func NewHistoryStore(kv port.KV) *HistoryStore {
	return &HistoryStore{kv: kv}
}

// TurnRecord is a stored exchange with the context trace that produced it.
type TurnRecord struct {
	User      string                  `json:"user"`
	Assistant string                  `json:"assistant"`
	Context   []domain.ContextSnippet `json:"context,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

// Append stores a completed exchange at the end of the session's record.
func (h *HistoryStore) Append(sessionID string, turn domain.ConversationTurn, context []domain.ContextSnippet) error {
	records, err := h.load(sessionID)
	if err != nil {
		return err
	}

	trace := make([]domain.ContextSnippet, len(context))
	for i, s := range context {
		text := s.Text
		if len(text) > maxStoredSnippetLen {
			text = text[:maxStoredSnippetLen]
		}
		trace[i] = domain.ContextSnippet{Text: text, Score: s.Score, SourceLabel: s.SourceLabel}
	}

	records = append(records, TurnRecord{
		User:      turn.User,
		Assistant: turn.Assistant,
		Context:   trace,
		CreatedAt: time.Now().UTC(),
	})

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	return h.kv.Put(historyBucket, sessionID, data)
}

// Recent returns the last n turns in chronological order.
func (h *HistoryStore) Recent(sessionID string, n int) ([]domain.ConversationTurn, error) {
	records, err := h.load(sessionID)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}

	turns := make([]domain.ConversationTurn, len(records))
	for i, r := range records {
		turns[i] = domain.ConversationTurn{User: r.User, Assistant: r.Assistant}
	}
	return turns, nil
}

// Records returns the full stored history for a session, oldest first.
func (h *HistoryStore) Records(sessionID string) ([]TurnRecord, error) {
	return h.load(sessionID)
}

func (h *HistoryStore) load(sessionID string) ([]TurnRecord, error) {
	data, ok, err := h.kv.Get(historyBucket, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var records []TurnRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return records, nil
}
