package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"insightpdf/internal/adapter/cache"
	"insightpdf/internal/adapter/chunker"
	"insightpdf/internal/adapter/index"
	"insightpdf/internal/domain"
	"insightpdf/internal/port"
)

// IngestUseCase runs the ingestion pipeline: extract, chunk, embed,
// build the index, persist the session. A failure at any stage aborts
// the pipeline with the stage recorded on the error, and no partial
// session is ever written.
type IngestUseCase struct {
	extractor   port.Extractor
	chunker     *chunker.WindowChunker
	embedder    port.Embedder
	store       port.SessionStore
	cache       *cache.SessionCache
	batchSize   int
	maxParallel int
}

func NewIngestUseCase(
	extractor port.Extractor,
	chunker *chunker.WindowChunker,
	embedder port.Embedder,
	store port.SessionStore,
	sessionCache *cache.SessionCache,
	batchSize int,
) *IngestUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &IngestUseCase{
		extractor:   extractor,
		chunker:     chunker,
		embedder:    embedder,
		store:       store,
		cache:       sessionCache,
		batchSize:   batchSize,
		maxParallel: 4,
	}
}

// Ingest processes a batch of uploads into one new session. Documents
// failing extraction are reported individually and do not abort the
// rest of the batch; a batch yielding no text at all is an error.
func (u *IngestUseCase) Ingest(ctx context.Context, uploads []domain.Upload) (domain.IngestResult, error) {
	if len(uploads) == 0 {
		return domain.IngestResult{}, domain.AtStage(domain.StageExtract, fmt.Errorf("no documents provided"))
	}

	reports := make([]domain.DocumentReport, 0, len(uploads))
	var chunks []domain.Chunk
	var firstExtractErr error
	extracted := 0

	for _, upload := range uploads {
		report := domain.DocumentReport{
			Filename: upload.Filename,
			ByteSize: len(upload.Data),
		}

		pages, err := u.extractor.ExtractPages(upload.Data)
		if err != nil {
			if firstExtractErr == nil {
				firstExtractErr = err
			}
			report.Error = err.Error()
			reports = append(reports, report)
			log.Warn().Err(err).Str("file", upload.Filename).Msg("extraction failed")
			continue
		}
		extracted++
		report.PageCount = len(pages)
		reports = append(reports, report)

		docChunks := u.chunker.Chunk(upload.Filename, pages)
		// Re-number ordinals across the whole batch so internal index
		// ids stay dense in ingestion order.
		for i := range docChunks {
			docChunks[i].Ordinal = len(chunks) + i
		}
		chunks = append(chunks, docChunks...)
	}

	if len(chunks) == 0 {
		// A batch where nothing was readable is an extraction failure;
		// readable documents yielding no text is an empty index.
		if extracted == 0 && firstExtractErr != nil {
			return domain.IngestResult{Documents: reports}, domain.AtStage(domain.StageExtract, firstExtractErr)
		}
		return domain.IngestResult{Documents: reports}, domain.AtStage(domain.StageIndex, domain.ErrEmptyIndex)
	}

	log.Info().Int("documents", len(uploads)).Int("chunks", len(chunks)).Msg("embedding chunks")

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := u.embedAll(ctx, texts)
	if err != nil {
		return domain.IngestResult{Documents: reports}, domain.AtStage(domain.StageEmbed, err)
	}

	ix, err := index.Build(vectors, chunks)
	if err != nil {
		return domain.IngestResult{Documents: reports}, domain.AtStage(domain.StageIndex, err)
	}

	blob, err := ix.Serialize()
	if err != nil {
		return domain.IngestResult{Documents: reports}, domain.AtStage(domain.StagePersist, err)
	}

	record := domain.SessionRecord{
		ID:         uuid.NewString(),
		Index:      blob,
		Documents:  reports,
		Model:      u.embedder.ModelName(),
		Dimension:  ix.Dimension(),
		ChunkCount: ix.Len(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := u.store.Put(record); err != nil {
		return domain.IngestResult{Documents: reports}, domain.AtStage(domain.StagePersist, err)
	}
	if u.cache != nil {
		u.cache.Invalidate(record.ID)
	}

	log.Info().Str("session", record.ID).Int("chunks", record.ChunkCount).Msg("session persisted")

	return domain.IngestResult{
		SessionID:  record.ID,
		Documents:  reports,
		ChunkCount: record.ChunkCount,
	}, nil
}

// embedAll embeds texts in concurrent bounded batches and joins them all
// before returning. Cancellation stops issuing further batches; batches
// already in flight are left to finish.
func (u *IngestUseCase) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, u.maxParallel)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for start := 0; start < len(texts); start += u.batchSize {
		if batchCtx.Err() != nil {
			break
		}
		end := start + u.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if batchCtx.Err() != nil {
				return
			}
			vecs, err := u.embedder.Embed(batchCtx, texts[start:end])
			if err == nil && len(vecs) != end-start {
				err = fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), end-start)
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()
				return
			}
			copy(vectors[start:end], vecs)
		}(start, end)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return vectors, nil
}
