package usecase

import (
	"context"
	"log/slog"

	"bookrag/internal/adapter/store"
	"bookrag/internal/domain"
)

// ChatService runs the read path end to end: history lookup, retrieval,
// prompt assembly, and generation. Per-request dependency failures are
// absorbed into degraded responses; a chat request never fails outright.
type ChatService struct {
	retriever *Retriever
	assembler *Assembler
	generator *Generator
	history   *store.HistoryStore
	topK      int
	log       *slog.Logger
}

func NewChatService(retriever *Retriever, assembler *Assembler, generator *Generator, history *store.HistoryStore, topK int, log *slog.Logger) *ChatService {
	if topK <= 0 {
		topK = 5
	}
	if log == nil {
		log = slog.Default()
	}
	return &ChatService{
		retriever: retriever,
		assembler: assembler,
		generator: generator,
		history:   history,
		topK:      topK,
		log:       log,
	}
}

// ChatResult is the response plus the context trace that produced it.
type ChatResult struct {
	Response string
	Context  []domain.ContextSnippet
}

// Chat answers one message within a session. selectedText, when present,
// overrides semantic search with the user's own selection.
func (s *ChatService) Chat(ctx context.Context, sessionID, message, selectedText string) ChatResult {
	history, err := s.history.Recent(sessionID, DefaultHistoryWindow)
	if err != nil {
		s.log.Warn("history read failed, continuing without history", "session", sessionID, "error", err)
		history = nil
	}

	snippets := s.retriever.Retrieve(ctx, message, selectedText, s.topK)
	s.log.Info("retrieved context", "session", sessionID, "snippets", len(snippets))

	prompt := s.assembler.Assemble(message, snippets, history)
	response := s.generator.Generate(ctx, prompt, snippets)

	turn := domain.ConversationTurn{User: message, Assistant: response}
	if err := s.history.Append(sessionID, turn, snippets); err != nil {
		s.log.Warn("history write failed, response returned anyway", "session", sessionID, "error", err)
	}

	return ChatResult{Response: response, Context: snippets}
}
