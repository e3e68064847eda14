package embedding

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangchainEmbedder adapts a langchaingo embedding client to the
// Embedder port.
type LangchainEmbedder struct {
	impl      *embeddings.EmbedderImpl
	model     string
	dimension int
}

// NewOpenAIEmbedder creates an embedder against an OpenAI-compatible API.
// The API key is read from the named environment variable.
func NewOpenAIEmbedder(apiKeyEnv, model, baseURL string, dimension, batchSize int) (*LangchainEmbedder, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	llm, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding client: %w", err)
	}

	return newLangchainEmbedder(llm, model, dimension, batchSize)
}

// NewOllamaEmbedder creates an embedder against a local Ollama server.
func NewOllamaEmbedder(model, baseURL string, dimension, batchSize int) (*LangchainEmbedder, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	llm, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding client: %w", err)
	}

	return newLangchainEmbedder(llm, model, dimension, batchSize)
}

func newLangchainEmbedder(client embeddings.EmbedderClient, model string, dimension, batchSize int) (*LangchainEmbedder, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	impl, err := embeddings.NewEmbedder(client,
		embeddings.WithBatchSize(batchSize),
		embeddings.WithStripNewLines(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &LangchainEmbedder{
		impl:      impl,
		model:     model,
		dimension: dimensionFor(model, dimension),
	}, nil
}

func (e *LangchainEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return e.impl.EmbedDocuments(ctx, texts)
}

func (e *LangchainEmbedder) Dimension() int {
	return e.dimension
}

func (e *LangchainEmbedder) ModelName() string {
	return e.model
}

// dimensionFor resolves the vector dimension for known models,
// falling back to the configured value.
func dimensionFor(model string, configured int) int {
	if configured > 0 {
		return configured
	}
	switch model {
	case "text-embedding-3-small":
		return 1536
	case "text-embedding-3-large":
		return 3072
	case "text-embedding-ada-002":
		return 1536
	case "nomic-embed-text":
		return 768
	case "mxbai-embed-large":
		return 1024
	case "all-minilm":
		return 384
	}
	return 1536
}
