package llm

import (
	"context"
	"fmt"

	"insightpdf/internal/domain"
)

// MockSynthesizer answers with the top passage instead of calling a
// model. Useful for tests and offline runs.
type MockSynthesizer struct{}

func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

func (s *MockSynthesizer) Synthesize(_ context.Context, question string, passages []domain.ScoredChunk) (string, error) {
	if len(passages) == 0 {
		return "answer is not available in the context", nil
	}
	return fmt.Sprintf("[%s] %s", question, passages[0].Chunk.Text), nil
}

func (s *MockSynthesizer) ModelName() string {
	return "mock"
}
