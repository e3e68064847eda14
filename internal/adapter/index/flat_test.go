package index

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"insightpdf/internal/domain"
)

func testChunks(n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			Source:  "doc.pdf",
			Page:    1,
			Ordinal: i,
			Text:    fmt.Sprintf("chunk %d", i),
		}
	}
	return chunks
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil, nil)
	if !errors.Is(err, domain.ErrEmptyIndex) {
		t.Errorf("expected ErrEmptyIndex, got %v", err)
	}
}

func TestBuildDimensionMismatch(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1},
	}
	_, err := Build(vectors, testChunks(2))
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSearchOrdering(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	}
	ix, err := Build(vectors, testChunks(3))
	if err != nil {
		t.Fatal(err)
	}

	results, err := ix.Search([]float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted: %f > %f at %d", results[i].Score, results[i-1].Score, i)
		}
	}
	if results[0].Chunk.Ordinal != 0 {
		t.Errorf("expected exact match first, got ordinal %d", results[0].Chunk.Ordinal)
	}
}

func TestSearchTieBreak(t *testing.T) {
	// Identical vectors score identically; the earlier ingestion id wins.
	vectors := [][]float32{
		{0, 1, 0},
		{1, 0, 0},
		{1, 0, 0},
	}
	ix, err := Build(vectors, testChunks(3))
	if err != nil {
		t.Fatal(err)
	}

	results, err := ix.Search([]float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}

	if results[0].Chunk.Ordinal != 1 || results[1].Chunk.Ordinal != 2 {
		t.Errorf("expected tie broken by lower id: got ordinals %d, %d",
			results[0].Chunk.Ordinal, results[1].Chunk.Ordinal)
	}
}

func TestSearchKLargerThanIndex(t *testing.T) {
	vectors := [][]float32{
		{1, 0},
		{0, 1},
	}
	ix, err := Build(vectors, testChunks(2))
	if err != nil {
		t.Fatal(err)
	}

	results, err := ix.Search([]float32{1, 1}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected all 2 entries, got %d", len(results))
	}
}

func TestSearchInvalidK(t *testing.T) {
	ix, err := Build([][]float32{{1, 0}}, testChunks(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ix.Search([]float32{1, 0}, 0); err == nil {
		t.Error("expected error for k=0")
	}
}

func TestSearchQueryDimensionMismatch(t *testing.T) {
	ix, err := Build([][]float32{{1, 0, 0}}, testChunks(1))
	if err != nil {
		t.Fatal(err)
	}
	_, err = ix.Search([]float32{1, 0}, 1)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	vectors := [][]float32{
		{0.123456, -0.98765, 0.5},
		{0.42, 0.17, -0.33},
		{-0.5, 0.5, 0.70710678},
	}
	ix, err := Build(vectors, testChunks(3))
	if err != nil {
		t.Fatal(err)
	}

	blob, err := ix.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	restored, err := Deserialize(blob)
	if err != nil {
		t.Fatal(err)
	}

	if restored.Len() != ix.Len() {
		t.Fatalf("expected %d entries, got %d", ix.Len(), restored.Len())
	}
	if restored.Dimension() != ix.Dimension() {
		t.Fatalf("expected dimension %d, got %d", ix.Dimension(), restored.Dimension())
	}

	queries := [][]float32{
		{1, 0, 0},
		{0.3, -0.3, 0.9},
		{0.123456, -0.98765, 0.5},
	}
	for _, q := range queries {
		before, err := ix.Search(q, 3)
		if err != nil {
			t.Fatal(err)
		}
		after, err := restored.Search(q, 3)
		if err != nil {
			t.Fatal(err)
		}
		if len(before) != len(after) {
			t.Fatalf("result length changed after round trip")
		}
		for i := range before {
			if before[i].Chunk != after[i].Chunk {
				t.Errorf("result %d chunk changed after round trip", i)
			}
			if math.Abs(before[i].Score-after[i].Score) != 0 {
				t.Errorf("result %d score changed after round trip: %v != %v", i, before[i].Score, after[i].Score)
			}
		}
	}
}

func TestDeserializeRejectsGarbage(t *testing.T) {
	if _, err := Deserialize([]byte("not json")); err == nil {
		t.Error("expected error for garbage input")
	}
	if _, err := Deserialize([]byte(`{"version":99,"dimension":2,"vectors":[[1,0]],"chunks":[{}]}`)); err == nil {
		t.Error("expected error for unknown version")
	}
}

func TestBuildCopiesInput(t *testing.T) {
	vectors := [][]float32{{1, 0}}
	chunks := testChunks(1)
	ix, err := Build(vectors, chunks)
	if err != nil {
		t.Fatal(err)
	}

	vectors[0][0] = -1
	chunks[0].Text = "mutated"

	results, err := ix.Search([]float32{1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Score < 0.99 {
		t.Error("index vectors were mutated by the caller")
	}
	if results[0].Chunk.Text == "mutated" {
		t.Error("index chunks were mutated by the caller")
	}
}
