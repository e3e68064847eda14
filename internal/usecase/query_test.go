package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"insightpdf/internal/adapter/cache"
	"insightpdf/internal/adapter/embedding"
	"insightpdf/internal/adapter/llm"
	"insightpdf/internal/adapter/memstore"
	"insightpdf/internal/domain"
)

// ingestFixture runs a real ingest so query tests exercise the same
// serialized index a fresh process would load from the store.
func ingestFixture(t *testing.T, st *memstore.MemorySessionStore, uploads []domain.Upload) string {
	t.Helper()
	embedder := embedding.NewMockEmbedder(8)
	chk := newTestChunker(t, 100, 10)
	uc := NewIngestUseCase(fakeExtractor{}, chk, embedder, st, nil, 100)
	result, err := uc.Ingest(context.Background(), uploads)
	if err != nil {
		t.Fatalf("fixture ingest failed: %v", err)
	}
	return result.SessionID
}

func newQueryUseCase(st *memstore.MemorySessionStore, c *cache.SessionCache) *QueryUseCase {
	return NewQueryUseCase(st, c, embedding.NewMockEmbedder(8), llm.NewMockSynthesizer(), 4)
}

func TestQueryRoundTrip(t *testing.T) {
	st := memstore.NewMemorySessionStore()
	sessionID := ingestFixture(t, st, []domain.Upload{
		{Filename: "doc.pdf", Data: []byte("the quick brown fox jumps over the lazy dog")},
	})

	// A fresh use case with a cold cache simulates a process restart:
	// everything must come back through the durable store.
	uc := newQueryUseCase(st, cache.NewSessionCache(4, time.Minute))

	answer, err := uc.Query(context.Background(), sessionID, "what jumps?", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Text == "" {
		t.Error("expected a non-empty answer")
	}
	if len(answer.Passages) == 0 {
		t.Fatal("expected at least one passage")
	}
	if !strings.Contains(answer.Passages[0].Chunk.Text, "fox") {
		t.Errorf("unexpected passage: %q", answer.Passages[0].Chunk.Text)
	}
}

func TestQueryClampsKToIndexSize(t *testing.T) {
	st := memstore.NewMemorySessionStore()
	// Two chunks with size=100 overlap=10 over 150 characters.
	sessionID := ingestFixture(t, st, []domain.Upload{
		{Filename: "doc.pdf", Data: []byte(strings.Repeat("word ", 30))},
	})

	uc := newQueryUseCase(st, nil)

	answer, err := uc.Query(context.Background(), sessionID, "anything", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(answer.Passages) != 2 {
		t.Errorf("expected 2 passages from a 2-entry index, got %d", len(answer.Passages))
	}
}

func TestQueryUnknownSession(t *testing.T) {
	uc := newQueryUseCase(memstore.NewMemorySessionStore(), nil)

	_, err := uc.Query(context.Background(), "no-such-session", "anything", 0)
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if domain.StageOf(err) != domain.StageRetrieve {
		t.Errorf("expected retrieve stage, got %q", domain.StageOf(err))
	}
}

func TestQueryDeletedSession(t *testing.T) {
	st := memstore.NewMemorySessionStore()
	sessionID := ingestFixture(t, st, []domain.Upload{
		{Filename: "doc.pdf", Data: []byte("some text worth indexing")},
	})
	if err := st.Delete(sessionID); err != nil {
		t.Fatal(err)
	}

	uc := newQueryUseCase(st, cache.NewSessionCache(4, time.Minute))
	if _, err := uc.Query(context.Background(), sessionID, "anything", 0); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestQueryCacheServesRepeatQueries(t *testing.T) {
	st := memstore.NewMemorySessionStore()
	sessionID := ingestFixture(t, st, []domain.Upload{
		{Filename: "doc.pdf", Data: []byte("cached content stays available")},
	})

	c := cache.NewSessionCache(4, time.Minute)
	uc := newQueryUseCase(st, c)

	if _, err := uc.Query(context.Background(), sessionID, "warm it up", 0); err != nil {
		t.Fatal(err)
	}

	// Once cached, the index survives store deletion for the TTL.
	if err := st.Delete(sessionID); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Query(context.Background(), sessionID, "still there?", 0); err != nil {
		t.Errorf("cached session should still answer: %v", err)
	}
}

func TestQueryEmptyQuestion(t *testing.T) {
	uc := newQueryUseCase(memstore.NewMemorySessionStore(), nil)

	_, err := uc.Query(context.Background(), "whatever", "", 0)
	if err == nil {
		t.Fatal("expected error for empty question")
	}
	if domain.StageOf(err) != domain.StageRetrieve {
		t.Errorf("expected retrieve stage, got %q", domain.StageOf(err))
	}
}

func TestDropNumericPassages(t *testing.T) {
	passages := []domain.ScoredChunk{
		{Chunk: domain.Chunk{Text: "real prose about the topic"}, Score: 0.9},
		{Chunk: domain.Chunk{Text: "  12 345 -6.7  "}, Score: 0.8},
		{Chunk: domain.Chunk{Text: "42"}, Score: 0.7},
	}

	filtered := dropNumericPassages(passages)
	if len(filtered) != 1 {
		t.Fatalf("expected 1 passage after filtering, got %d", len(filtered))
	}
	if filtered[0].Chunk.Text != "real prose about the topic" {
		t.Errorf("wrong passage kept: %q", filtered[0].Chunk.Text)
	}

	allNumeric := []domain.ScoredChunk{
		{Chunk: domain.Chunk{Text: "1 2 3"}, Score: 0.9},
		{Chunk: domain.Chunk{Text: "99"}, Score: 0.8},
	}
	if got := dropNumericPassages(allNumeric); len(got) != 2 {
		t.Errorf("filter must not remove everything, got %d passages", len(got))
	}
}
