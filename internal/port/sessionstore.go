package port

import "insightpdf/internal/domain"

// SessionStore is the sole source of truth for session state across
// requests. Put fully replaces any prior value for the same identifier;
// a concurrent Get never observes a partial write.
type SessionStore interface {
	Put(record domain.SessionRecord) error

	// Get fails with domain.ErrSessionNotFound for an unknown id.
	Get(id string) (domain.SessionRecord, error)

	List() ([]domain.SessionRecord, error)

	Delete(id string) error

	Close() error
}
