package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"

	"bookrag/config"
	"bookrag/internal/adapter/cache"
	"bookrag/internal/adapter/embedding"
	"bookrag/internal/adapter/llm"
	"bookrag/internal/adapter/store"
	"bookrag/internal/adapter/vectorindex"
	"bookrag/internal/port"
	"bookrag/internal/usecase"
)

func buildEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

func buildVectorIndex(cfg *config.Config) (port.VectorIndex, error) {
	switch cfg.Vector.Backend {
	case "qdrant":
		return vectorindex.NewQdrantIndex(vectorindex.QdrantConfig{
			URL:        cfg.Vector.URL,
			APIKey:     os.Getenv(cfg.Vector.APIKeyEnv),
			Collection: cfg.Vector.Collection,
			Timeout:    time.Duration(cfg.Vector.TimeoutSeconds) * time.Second,
		}), nil
	case "memory":
		return vectorindex.NewMemoryIndex(), nil
	default:
		return nil, fmt.Errorf("unsupported vector backend: %s", cfg.Vector.Backend)
	}
}

// buildLLM returns nil when the assistant should run in demo mode: either
// demo_mode is set, or the configured provider's API key is missing from
// the environment.
func buildLLM(cfg *config.Config) port.LLM {
	if cfg.Generation.DemoMode {
		return nil
	}

	var provider port.LLM
	var err error
	switch cfg.Generation.Provider {
	case "openai":
		if cfg.Generation.BaseURL != "" {
			provider, err = llm.NewOpenAICompatibleLLM(cfg.Generation.APIKeyEnv, cfg.Generation.Model, cfg.Generation.BaseURL)
		} else {
			provider, err = llm.NewOpenAILLM(cfg.Generation.APIKeyEnv, cfg.Generation.Model)
		}
	case "gemini":
		if cfg.Generation.BaseURL != "" {
			provider, err = llm.NewGeminiLLMWithBaseURL(cfg.Generation.APIKeyEnv, cfg.Generation.Model, cfg.Generation.BaseURL)
		} else {
			provider, err = llm.NewGeminiLLM(cfg.Generation.APIKeyEnv, cfg.Generation.Model)
		}
	default:
		err = fmt.Errorf("unsupported generation provider: %s", cfg.Generation.Provider)
	}
	if err != nil {
		slog.Warn("no AI provider available, running in demo mode", "error", err)
		return nil
	}
	return provider
}

func generationParams(cfg *config.Config) port.GenerationParams {
	return port.GenerationParams{
		Temperature:     cfg.Generation.Temperature,
		MaxOutputTokens: cfg.Generation.MaxOutputTokens,
	}
}

func embedLimiter(cfg *config.Config) *rate.Limiter {
	if cfg.Embedding.RequestsPerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(cfg.Embedding.RequestsPerSecond), 1)
}

// openKV opens the shared bolt database holding conversation history and
// the content caches.
func openKV(dir string, cfg *config.Config) (*store.BoltKV, error) {
	if err := config.EnsureDataDir(dir, cfg); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	kv, err := store.NewBoltKV(config.CacheDBPath(dir, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	return kv, nil
}

func buildChatService(cfg *config.Config, kv *store.BoltKV) (*usecase.ChatService, error) {
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	index, err := buildVectorIndex(cfg)
	if err != nil {
		return nil, err
	}

	retriever := usecase.NewRetriever(embedder, index, nil)
	assembler := usecase.NewAssembler(cfg.Book.Title, cfg.History.Window)
	generator := usecase.NewGenerator(buildLLM(cfg), generationParams(cfg), nil)
	history := store.NewHistoryStore(kv)

	return usecase.NewChatService(retriever, assembler, generator, history, 5, nil), nil
}

func buildPersonalizer(cfg *config.Config, kv *store.BoltKV) *usecase.Personalizer {
	c := cache.NewContentCache(kv, "personalized_content", nil)
	return usecase.NewPersonalizer(c, buildLLM(cfg), nil)
}

func buildTranslator(cfg *config.Config, kv *store.BoltKV) *usecase.Translator {
	c := cache.NewContentCache(kv, "translations", nil)
	return usecase.NewTranslator(c, buildLLM(cfg), nil)
}
