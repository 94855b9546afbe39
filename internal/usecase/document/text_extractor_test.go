package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePDF is a PageSource backed by a plain slice of page texts.
type fakePDF struct {
	pages []string
}

func (f *fakePDF) PageCount() int        { return len(f.pages) }
func (f *fakePDF) PageText(i int) string { return f.pages[i] }

func TestExtractWithMetadata(t *testing.T) {
	extractor := NewTextExtractor()
	src := &fakePDF{pages: []string{"page zero text", "page one text", "page two text"}}

	chunks := extractor.ExtractWithMetadata(src, "ros-intro", "documento-pdf")

	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, "ros-intro", chunk.Metadata.Title)
		assert.Equal(t, "documento-pdf", chunk.Metadata.DocumentType)
		assert.Equal(t, i, chunk.Metadata.PageNumber)
		assert.Equal(t, src.pages[i], chunk.Content)
	}
}

func TestExtractWithMetadata_KeepsEmptyPages(t *testing.T) {
	extractor := NewTextExtractor()
	src := &fakePDF{pages: []string{"text", "", "more text"}}

	chunks := extractor.ExtractWithMetadata(src, "doc", "documento-pdf")

	// Blank pages still produce a unit so page numbering stays
	// contiguous.
	require.Len(t, chunks, 3)
	assert.Equal(t, "", chunks[1].Content)
	assert.Equal(t, 1, chunks[1].Metadata.PageNumber)
	assert.Equal(t, 2, chunks[2].Metadata.PageNumber)
}

func TestExtractWithMetadata_NoPages(t *testing.T) {
	extractor := NewTextExtractor()
	chunks := extractor.ExtractWithMetadata(&fakePDF{}, "doc", "documento-pdf")
	assert.Empty(t, chunks)
}
