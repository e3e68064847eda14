package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"insightpdf/internal/domain"
)

// PDFExtractor extracts plain text from PDF bytes, one entry per page.
// It is a pure function over the input bytes and keeps no state.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractPages parses the document and returns its page texts in order.
// A corrupt or encrypted document, or one with no extractable text at
// all, fails with domain.ErrUnreadablePDF.
func (e *PDFExtractor) ExtractPages(data []byte) (pages []domain.Page, err error) {
	// The pdf library panics on some malformed cross-reference tables;
	// fold those into the unreadable error instead of crashing the batch.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: parser panic: %v", domain.ErrUnreadablePDF, r)
		}
	}()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", domain.ErrUnreadablePDF)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadablePDF, err)
	}

	numPages := reader.NumPage()
	extracted := false
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, domain.Page{Number: i})
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single bad page does not make the document unreadable.
			pages = append(pages, domain.Page{Number: i})
			continue
		}
		if strings.TrimSpace(text) != "" {
			extracted = true
		}
		pages = append(pages, domain.Page{Number: i, Text: text})
	}

	if !extracted {
		return nil, fmt.Errorf("%w: no extractable text", domain.ErrUnreadablePDF)
	}

	return pages, nil
}
