package cli

import (
	"fmt"
	"time"

	"insightpdf/config"
	"insightpdf/internal/adapter/cache"
	"insightpdf/internal/adapter/embedding"
	"insightpdf/internal/adapter/llm"
	"insightpdf/internal/adapter/store"
	"insightpdf/internal/port"
)

// newEmbedder builds the configured embedder wrapped in the bounded
// retry policy.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	e := cfg.Embedding

	var inner port.Embedder
	var err error
	switch e.Provider {
	case "openai":
		inner, err = embedding.NewOpenAIEmbedder(e.APIKeyEnv, e.Model, e.BaseURL, e.Dimension, e.BatchSize)
	case "ollama":
		inner, err = embedding.NewOllamaEmbedder(e.Model, e.BaseURL, e.Dimension, e.BatchSize)
	case "mock":
		inner = embedding.NewMockEmbedder(e.Dimension)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", e.Provider)
	}
	if err != nil {
		return nil, err
	}

	backoff := time.Duration(e.RetryBackoffMS) * time.Millisecond
	return embedding.NewRetryingEmbedder(inner, e.MaxRetries, backoff), nil
}

// newSynthesizer builds the configured answer synthesizer.
func newSynthesizer(cfg *config.Config) (port.Synthesizer, error) {
	l := cfg.LLM

	switch l.Provider {
	case "openai":
		return llm.NewOpenAISynthesizer(l.APIKeyEnv, l.Model, l.BaseURL, l.Temperature)
	case "ollama":
		return llm.NewOllamaSynthesizer(l.Model, l.BaseURL, l.Temperature)
	case "mock":
		return llm.NewMockSynthesizer(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", l.Provider)
	}
}

// openStore opens the session database under the data directory.
func openStore(dir string) (*store.BoltSessionStore, error) {
	if err := config.EnsureDataDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return store.NewBoltSessionStore(config.SessionDBPath(dir))
}

// newSessionCache builds the per-process index cache from config.
func newSessionCache(cfg *config.Config) *cache.SessionCache {
	ttl := time.Duration(cfg.Retrieve.CacheTTLMinutes) * time.Minute
	return cache.NewSessionCache(cfg.Retrieve.CacheSize, ttl)
}
