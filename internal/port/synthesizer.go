package port

import (
	"context"

	"insightpdf/internal/domain"
)

// Synthesizer turns a question and retrieved passages into a
// natural-language answer.
type Synthesizer interface {
	Synthesize(ctx context.Context, question string, passages []domain.ScoredChunk) (string, error)

	// ModelName returns the name of the generation model.
	ModelName() string
}
