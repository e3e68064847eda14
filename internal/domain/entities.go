package domain

import "time"

// Upload is one file handed to ingestion. The raw bytes are discarded
// once extraction has run.
type Upload struct {
	Filename string
	Data     []byte
}

// Page is the extracted plain text of a single PDF page.
type Page struct {
	Number int
	Text   string
}

// Chunk is the unit of embedding and retrieval: a bounded passage of
// document text plus the provenance needed to cite it back.
type Chunk struct {
	Source  string `json:"source"`
	Page    int    `json:"page"`
	Ordinal int    `json:"ordinal"`
	Text    string `json:"text"`
}

// ScoredChunk pairs a chunk with its similarity to a query.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// DocumentReport describes what happened to one uploaded file.
// Error is empty when extraction succeeded.
type DocumentReport struct {
	Filename  string `json:"filename"`
	ByteSize  int    `json:"byte_size"`
	PageCount int    `json:"page_count"`
	Error     string `json:"error,omitempty"`
}

// SessionRecord is the durable object persisted per session: the
// serialized vector index plus everything needed to interpret it later.
type SessionRecord struct {
	ID         string           `json:"id"`
	Index      []byte           `json:"index"`
	Documents  []DocumentReport `json:"documents"`
	Model      string           `json:"model"`
	Dimension  int              `json:"dimension"`
	ChunkCount int              `json:"chunk_count"`
	CreatedAt  time.Time        `json:"created_at"`
}

// IngestResult is returned to the caller after a successful ingestion.
type IngestResult struct {
	SessionID  string
	Documents  []DocumentReport
	ChunkCount int
}

// Answer is the synthesized reply plus the passages it was grounded on.
type Answer struct {
	Text     string
	Passages []ScoredChunk
}
