package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"insightpdf/internal/domain"
)

// answerPromptTemplate instructs the model to answer strictly from the
// retrieved passages and to refuse rather than guess.
const answerPromptTemplate = `Answer the question as detailed as possible from the provided context, make sure to provide all the details, if the answer is not in the provided context just say, "answer is not available in the context", don't provide the wrong answer

Context:
%s

Question:
%s

Answer:
`

// LangchainSynthesizer adapts a langchaingo chat model to the
// Synthesizer port.
type LangchainSynthesizer struct {
	model       llms.Model
	modelName   string
	temperature float64
}

// NewOpenAISynthesizer creates a synthesizer against an OpenAI-compatible
// chat API. The API key is read from the named environment variable.
func NewOpenAISynthesizer(apiKeyEnv, model, baseURL string, temperature float64) (*LangchainSynthesizer, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat client: %w", err)
	}

	return &LangchainSynthesizer{model: client, modelName: model, temperature: temperature}, nil
}

// NewOllamaSynthesizer creates a synthesizer against a local Ollama server.
func NewOllamaSynthesizer(model, baseURL string, temperature float64) (*LangchainSynthesizer, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	client, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat client: %w", err)
	}

	return &LangchainSynthesizer{model: client, modelName: model, temperature: temperature}, nil
}

func (s *LangchainSynthesizer) Synthesize(ctx context.Context, question string, passages []domain.ScoredChunk) (string, error) {
	var contextText strings.Builder
	for _, p := range passages {
		contextText.WriteString(p.Chunk.Text)
		contextText.WriteString("\n\n")
	}

	prompt := fmt.Sprintf(answerPromptTemplate, contextText.String(), question)

	answer, err := llms.GenerateFromSinglePrompt(ctx, s.model, prompt,
		llms.WithTemperature(s.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func (s *LangchainSynthesizer) ModelName() string {
	return s.modelName
}
