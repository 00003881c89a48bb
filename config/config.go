package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the book assistant.
type Config struct {
	Book       BookConfig       `yaml:"book"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Vector     VectorConfig     `yaml:"vector"`
	Generation GenerationConfig `yaml:"generation"`
	History    HistoryConfig    `yaml:"history"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// BookConfig identifies the corpus and which files belong to it.
type BookConfig struct {
	Title    string   `yaml:"title"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// ChunkingConfig controls how documents are split before embedding.
type ChunkingConfig struct {
	Size    int `yaml:"size"`    // tokens per chunk
	Overlap int `yaml:"overlap"` // tokens shared with the previous chunk
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider          string  `yaml:"provider"`    // "openai", "mock"
	Model             string  `yaml:"model"`       // e.g., "text-embedding-3-small"
	APIKeyEnv         string  `yaml:"api_key_env"` // Environment variable for API key
	Dimension         int     `yaml:"dimension"`
	BatchSize         int     `yaml:"batch_size"`
	RequestsPerSecond float64 `yaml:"requests_per_second"` // 0 = unlimited
}

// VectorConfig holds vector index configuration.
type VectorConfig struct {
	Backend        string `yaml:"backend"` // "qdrant", "memory"
	URL            string `yaml:"url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	Collection     string `yaml:"collection"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// GenerationConfig holds response generation configuration.
type GenerationConfig struct {
	Provider        string  `yaml:"provider"` // "gemini", "openai"
	Model           string  `yaml:"model"`
	APIKeyEnv       string  `yaml:"api_key_env"`
	BaseURL         string  `yaml:"base_url"` // override for self-hosted gateways
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	DemoMode        bool    `yaml:"demo_mode"` // force canned responses even with a key
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
}

// HistoryConfig holds conversation history configuration.
type HistoryConfig struct {
	Window int `yaml:"window"` // prior turns included in each prompt
}

// CacheConfig holds the local cache database location.
type CacheConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Book: BookConfig{
			Title:    "Test Driven Development",
			Includes: []string{"**/*.md", "**/*.markdown", "**/*.txt"},
			Excludes: []string{"**/node_modules/**", "**/.git/**", "**/README.md"},
		},
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 100,
		},
		Vector: VectorConfig{
			Backend:        "qdrant",
			URL:            "http://localhost:6333",
			APIKeyEnv:      "QDRANT_API_KEY",
			Collection:     "book_embeddings",
			TimeoutSeconds: 15,
		},
		Generation: GenerationConfig{
			Provider:        "gemini",
			Model:           "gemini-1.5-flash-latest",
			APIKeyEnv:       "GEMINI_API_KEY",
			Temperature:     0.7,
			MaxOutputTokens: 1000,
			TimeoutSeconds:  30,
		},
		History: HistoryConfig{
			Window: 5,
		},
		Cache: CacheConfig{
			Path: filepath.Join(".bookrag", "cache.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for bookrag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "bookrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".bookrag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CacheDBPath resolves the cache database path against dir.
func CacheDBPath(dir string, c *Config) string {
	if filepath.IsAbs(c.Cache.Path) {
		return c.Cache.Path
	}
	return filepath.Join(dir, c.Cache.Path)
}

// EnsureDataDir ensures the directory holding the cache database exists.
func EnsureDataDir(dir string, c *Config) error {
	return os.MkdirAll(filepath.Dir(CacheDBPath(dir, c)), 0755)
}
