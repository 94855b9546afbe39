package document

import (
	"context"
	"log"

	"github.com/docrag/docrag/internal/domain/repository"
)

// IngestionService turns a base64 PDF into stored, searchable chunks.
// Per call: existence check, load, extract, split, store. No state
// survives between calls.
type IngestionService struct {
	repo      repository.VectorRepository
	factory   *SplitterFactory
	extractor *TextExtractor
	load      func(base64Content string) (PageSource, error)
}

func NewIngestionService(repo repository.VectorRepository, factory *SplitterFactory) *IngestionService {
	return &IngestionService{
		repo:      repo,
		factory:   factory,
		extractor: NewTextExtractor(),
		load: func(base64Content string) (PageSource, error) {
			return LoadFromBase64(base64Content)
		},
	}
}

// IngestDocument stores the document's chunks and returns true, or
// returns false without doing any other work when a chunk with the
// same title already exists. Re-ingestion under an existing title is
// always rejected, never merged or replaced. Load, extract and split
// failures abort before anything is persisted.
//
// The existence check is not atomic with the write: two concurrent
// ingestions of the same title can both pass it and both store.
func (s *IngestionService) IngestDocument(
	ctx context.Context,
	base64Content string,
	title string,
	documentType string,
	splittingMethod string,
	chunkSize int,
	chunkOverlap int,
) (bool, error) {
	exists, err := s.repo.DocumentExists(ctx, repository.Filter{Title: title})
	if err != nil {
		return false, err
	}
	if exists {
		log.Printf("document %q already exists, skipping ingestion", title)
		return false, nil
	}

	pdfDoc, err := s.load(base64Content)
	if err != nil {
		return false, err
	}

	pages := s.extractor.ExtractWithMetadata(pdfDoc, title, documentType)
	log.Printf("extracted %d pages from %q", len(pages), title)

	splitter, err := s.factory.CreateSplitter(splittingMethod, chunkSize, chunkOverlap)
	if err != nil {
		return false, err
	}

	chunks, err := splitter.SplitChunks(ctx, pages)
	if err != nil {
		return false, err
	}
	log.Printf("split %q into %d chunks", title, len(chunks))

	if _, err := s.repo.AddDocuments(ctx, chunks); err != nil {
		return false, err
	}
	log.Printf("document %q ingested successfully", title)
	return true, nil
}
