package chunker

import (
	"fmt"
	"strings"

	"insightpdf/internal/domain"
)

// WindowChunker splits page text into fixed-size passages with a fixed
// overlap between neighbours. Sizes are counted in runes so multi-byte
// text chunks the same way as ASCII.
type WindowChunker struct {
	size    int
	overlap int
}

// NewWindowChunker validates the configuration up front: both parameters
// must be positive and the overlap strictly smaller than the window.
func NewWindowChunker(size, overlap int) (*WindowChunker, error) {
	if size <= 0 || overlap <= 0 {
		return nil, fmt.Errorf("%w: size=%d overlap=%d must be positive", domain.ErrInvalidChunkConfig, size, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d >= size %d", domain.ErrInvalidChunkConfig, overlap, size)
	}
	return &WindowChunker{size: size, overlap: overlap}, nil
}

// Chunk concatenates the page texts in order and slides a window of the
// configured size, advancing by size-overlap each step. The final chunk
// may be shorter than the window but is never empty. Each chunk records
// the page containing its first character.
func (c *WindowChunker) Chunk(source string, pages []domain.Page) []domain.Chunk {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(p.Text)
	}
	runes := []rune(sb.String())
	if len(runes) == 0 {
		return nil
	}

	// Rune offset at which each page begins, for provenance lookup.
	pageStarts := make([]int, len(pages))
	offset := 0
	for i, p := range pages {
		pageStarts[i] = offset
		offset += len([]rune(p.Text))
	}

	step := c.size - c.overlap
	var chunks []domain.Chunk
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			Source:  source,
			Page:    pageAt(pages, pageStarts, start),
			Ordinal: len(chunks),
			Text:    string(runes[start:end]),
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// pageAt returns the number of the page containing the given rune offset.
func pageAt(pages []domain.Page, pageStarts []int, offset int) int {
	page := 1
	for i, start := range pageStarts {
		if start > offset {
			break
		}
		page = pages[i].Number
	}
	return page
}
