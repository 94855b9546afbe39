package document

import "github.com/docrag/docrag/internal/domain/entity"

// PageSource is a parsed document handle. Satisfied by ParsedPDF.
type PageSource interface {
	PageCount() int
	PageText(i int) string
}

type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractWithMetadata produces one chunk per page, tagged with title,
// document type and zero-based page number. Pages with no extractable
// text still produce an empty-content chunk so that (titulo, pagina)
// pairs stay contiguous and page-indexed.
func (te *TextExtractor) ExtractWithMetadata(src PageSource, title, documentType string) []entity.Chunk {
	pages := src.PageCount()
	chunks := make([]entity.Chunk, 0, pages)
	for page := 0; page < pages; page++ {
		chunks = append(chunks, entity.Chunk{
			Content: src.PageText(page),
			Metadata: entity.ChunkMetadata{
				Title:        title,
				DocumentType: documentType,
				PageNumber:   page,
			},
		})
	}
	return chunks
}
