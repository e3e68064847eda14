package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"insightpdf/internal/domain"
	"insightpdf/internal/port"
)

// RetryingEmbedder wraps an Embedder with a bounded retry policy:
// a fixed number of attempts with exponential backoff between them.
// Exhausting the budget surfaces domain.ErrEmbeddingUnavailable.
// Cancellation is honoured between attempts; no retry happens after it.
type RetryingEmbedder struct {
	inner    port.Embedder
	attempts int
	backoff  time.Duration
}

func NewRetryingEmbedder(inner port.Embedder, attempts int, backoff time.Duration) *RetryingEmbedder {
	if attempts <= 0 {
		attempts = 3
	}
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return &RetryingEmbedder{
		inner:    inner,
		attempts: attempts,
		backoff:  backoff,
	}
}

func (e *RetryingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	delay := e.backoff

	for attempt := 1; attempt <= e.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		vectors, err := e.inner.Embed(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn().Err(err).Int("attempt", attempt).Int("budget", e.attempts).
			Msg("embedding call failed")
	}

	return nil, fmt.Errorf("%w: %d attempts exhausted: %v", domain.ErrEmbeddingUnavailable, e.attempts, lastErr)
}

func (e *RetryingEmbedder) Dimension() int {
	return e.inner.Dimension()
}

func (e *RetryingEmbedder) ModelName() string {
	return e.inner.ModelName()
}
