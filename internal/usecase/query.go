package usecase

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"

	"insightpdf/internal/adapter/cache"
	"insightpdf/internal/adapter/index"
	"insightpdf/internal/domain"
	"insightpdf/internal/port"
)

// numericOnly matches passages that carry no prose, e.g. page numbers or
// table fragments. Those make poor grounding for an answer.
var numericOnly = regexp.MustCompile(`^\s*[\d\s\-.]+\s*$`)

// QueryUseCase runs the query pipeline: resolve the session's index from
// the store, embed the question, search top-k, synthesize an answer.
type QueryUseCase struct {
	store       port.SessionStore
	cache       *cache.SessionCache
	embedder    port.Embedder
	synthesizer port.Synthesizer
	defaultTopK int
}

func NewQueryUseCase(
	store port.SessionStore,
	sessionCache *cache.SessionCache,
	embedder port.Embedder,
	synthesizer port.Synthesizer,
	defaultTopK int,
) *QueryUseCase {
	if defaultTopK <= 0 {
		defaultTopK = 4
	}
	return &QueryUseCase{
		store:       store,
		cache:       sessionCache,
		embedder:    embedder,
		synthesizer: synthesizer,
		defaultTopK: defaultTopK,
	}
}

// Query answers a question against one session's documents. An unknown
// session id surfaces domain.ErrSessionNotFound, a client-correctable
// condition rather than a server fault.
func (u *QueryUseCase) Query(ctx context.Context, sessionID, question string, k int) (domain.Answer, error) {
	if question == "" {
		return domain.Answer{}, domain.AtStage(domain.StageRetrieve, fmt.Errorf("empty question"))
	}
	if k <= 0 {
		k = u.defaultTopK
	}

	ix, err := u.loadIndex(sessionID)
	if err != nil {
		return domain.Answer{}, domain.AtStage(domain.StageRetrieve, err)
	}

	vectors, err := u.embedder.Embed(ctx, []string{question})
	if err != nil {
		return domain.Answer{}, domain.AtStage(domain.StageEmbed, err)
	}
	if len(vectors) != 1 {
		return domain.Answer{}, domain.AtStage(domain.StageEmbed, fmt.Errorf("embedder returned %d vectors for one question", len(vectors)))
	}

	results, err := ix.Search(vectors[0], k)
	if err != nil {
		return domain.Answer{}, domain.AtStage(domain.StageRetrieve, err)
	}

	passages := dropNumericPassages(results)

	log.Debug().Str("session", sessionID).Int("passages", len(passages)).Msg("retrieved passages")

	answer, err := u.synthesizer.Synthesize(ctx, question, passages)
	if err != nil {
		return domain.Answer{}, domain.AtStage(domain.StageSynthesize, err)
	}

	return domain.Answer{Text: answer, Passages: passages}, nil
}

// loadIndex resolves a session's index, consulting the in-process cache
// first and falling back to the durable store.
func (u *QueryUseCase) loadIndex(sessionID string) (*index.Flat, error) {
	if u.cache != nil {
		if ix, hit := u.cache.Get(sessionID); hit {
			return ix, nil
		}
	}

	record, err := u.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	ix, err := index.Deserialize(record.Index)
	if err != nil {
		return nil, fmt.Errorf("failed to load index for session %s: %w", sessionID, err)
	}

	if u.cache != nil {
		u.cache.Put(sessionID, ix)
	}
	return ix, nil
}

// dropNumericPassages filters out passages with no prose content,
// keeping the originals when the filter would remove everything.
func dropNumericPassages(results []domain.ScoredChunk) []domain.ScoredChunk {
	filtered := make([]domain.ScoredChunk, 0, len(results))
	for _, r := range results {
		if numericOnly.MatchString(r.Chunk.Text) {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) == 0 {
		return results
	}
	return filtered
}
