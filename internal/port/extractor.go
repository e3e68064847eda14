package port

import "insightpdf/internal/domain"

// Extractor turns raw document bytes into plain text per page.
type Extractor interface {
	// ExtractPages returns the page texts of the document in order.
	// Fails with domain.ErrUnreadablePDF when the bytes are not a
	// parseable PDF or yield no extractable text.
	ExtractPages(data []byte) ([]domain.Page, error)
}
