package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ingestion and retrieval pipeline. Input errors
// (ErrUnreadablePDF, ErrInvalidChunkConfig) and integrity errors
// (ErrDimensionMismatch, ErrEmptyIndex) are never retried; only transient
// dependency failures behind ErrEmbeddingUnavailable are.
var (
	ErrUnreadablePDF        = errors.New("unreadable pdf")
	ErrInvalidChunkConfig   = errors.New("invalid chunk config")
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	ErrEmptyIndex           = errors.New("empty index")
	ErrDimensionMismatch    = errors.New("embedding dimension mismatch")
	ErrSessionNotFound      = errors.New("session not found")
)

// Stage names the pipeline step at which an error originated.
type Stage string

const (
	StageExtract    Stage = "extract"
	StageChunk      Stage = "chunk"
	StageEmbed      Stage = "embed"
	StageIndex      Stage = "index"
	StagePersist    Stage = "persist"
	StageRetrieve   Stage = "retrieve"
	StageSynthesize Stage = "synthesize"
)

// StageError annotates a pipeline failure with the stage that produced it,
// so callers can tell user-fixable conditions from transient ones.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// AtStage wraps err with the stage it occurred at. Returns nil for nil.
func AtStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf reports the stage recorded on err, or "" if none.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
