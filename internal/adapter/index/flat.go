package index

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"insightpdf/internal/domain"
)

const formatVersion = 1

// Flat is an immutable brute-force vector index. Entries keep the dense
// internal ids assigned at build time (ingestion order), which double as
// the deterministic tie-breaker during search.
type Flat struct {
	dimension int
	vectors   [][]float32
	chunks    []domain.Chunk
}

// Build constructs an index from parallel vector/chunk slices.
// Zero pairs fail with domain.ErrEmptyIndex; ragged vector lengths fail
// with domain.ErrDimensionMismatch. The inputs are copied, so the index
// stays immutable even if the caller reuses its slices.
func Build(vectors [][]float32, chunks []domain.Chunk) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("index build: %d vectors for %d chunks", len(vectors), len(chunks))
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-length vector at id 0", domain.ErrDimensionMismatch)
	}

	vecs := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: id %d has dimension %d, expected %d", domain.ErrDimensionMismatch, i, len(v), dim)
		}
		vecs[i] = append([]float32(nil), v...)
	}

	cks := append([]domain.Chunk(nil), chunks...)

	return &Flat{dimension: dim, vectors: vecs, chunks: cks}, nil
}

// Search returns up to k entries nearest to the query by cosine
// similarity, in descending order. Ties resolve to the lower internal
// id. k larger than the index returns every entry.
func (ix *Flat) Search(query []float32, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("search: k must be positive, got %d", k)
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d", domain.ErrDimensionMismatch, len(query), ix.dimension)
	}

	type scored struct {
		id    int
		score float64
	}
	scores := make([]scored, len(ix.vectors))
	for i, v := range ix.vectors {
		scores[i] = scored{id: i, score: cosineSimilarity(query, v)}
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].id < scores[j].id
	})

	if k > len(scores) {
		k = len(scores)
	}

	results := make([]domain.ScoredChunk, k)
	for i := 0; i < k; i++ {
		results[i] = domain.ScoredChunk{
			Chunk: ix.chunks[scores[i].id],
			Score: scores[i].score,
		}
	}
	return results, nil
}

// Len returns the number of entries in the index.
func (ix *Flat) Len() int {
	return len(ix.vectors)
}

// Dimension returns the vector dimension of the index.
func (ix *Flat) Dimension() int {
	return ix.dimension
}

type envelope struct {
	Version   int            `json:"version"`
	Dimension int            `json:"dimension"`
	Vectors   [][]float32    `json:"vectors"`
	Chunks    []domain.Chunk `json:"chunks"`
}

// Serialize encodes the index so that Deserialize reconstructs an index
// returning identical search results for any query.
func (ix *Flat) Serialize() ([]byte, error) {
	return json.Marshal(envelope{
		Version:   formatVersion,
		Dimension: ix.dimension,
		Vectors:   ix.vectors,
		Chunks:    ix.chunks,
	})
}

// Deserialize reconstructs an index previously produced by Serialize.
func Deserialize(data []byte) (*Flat, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}
	if env.Version != formatVersion {
		return nil, fmt.Errorf("unsupported index format version %d", env.Version)
	}
	if len(env.Vectors) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	for i, v := range env.Vectors {
		if len(v) != env.Dimension {
			return nil, fmt.Errorf("%w: id %d has dimension %d, expected %d", domain.ErrDimensionMismatch, i, len(v), env.Dimension)
		}
	}
	if len(env.Vectors) != len(env.Chunks) {
		return nil, fmt.Errorf("failed to decode index: %d vectors for %d chunks", len(env.Vectors), len(env.Chunks))
	}
	return &Flat{dimension: env.Dimension, vectors: env.Vectors, chunks: env.Chunks}, nil
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
