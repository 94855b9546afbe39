package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/docrag/docrag/internal/delivery/http/dto"
	"github.com/docrag/docrag/internal/domain/entity"
	"github.com/docrag/docrag/internal/domain/repository"
)

type IngestionService interface {
	IngestDocument(ctx context.Context, base64Content, title, documentType, splittingMethod string, chunkSize, chunkOverlap int) (bool, error)
}

type QAService interface {
	AnswerQuestion(ctx context.Context, query, documentType string, kResults int, customPrompt string) (*entity.Answer, error)
}

type RerankService interface {
	AnswerQuestion(ctx context.Context, query, documentType string, kResults, rerankTopN int, customPrompt string) (string, error)
}

type DocumentHandler struct {
	ingestion IngestionService
	qa        QAService
	rerank    RerankService
	repo      repository.VectorRepository
}

func NewDocumentHandler(ingestion IngestionService, qa QAService, rerank RerankService, repo repository.VectorRepository) *DocumentHandler {
	return &DocumentHandler{ingestion: ingestion, qa: qa, rerank: rerank, repo: repo}
}

// Ingest handles POST /api/v1/documents. Replies 201 with a Location
// header when the document is stored, 200 when the title already
// exists (ingestion is an idempotent no-op in that case).
func (h *DocumentHandler) Ingest(c *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Title == "" || req.DocumentContent == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "title and documentContent are required"})
	}
	if req.DocumentType == "" {
		req.DocumentType = dto.DefaultDocumentType
	}
	if req.SplittingMethod == "" {
		req.SplittingMethod = "recursive"
	}

	created, err := h.ingestion.IngestDocument(
		c.Context(),
		req.DocumentContent,
		req.Title,
		req.DocumentType,
		req.SplittingMethod,
		req.ChunkSize,
		req.ChunkOverlap,
	)
	if err != nil {
		return errorResponse(c, err)
	}

	documentID := uuid.New().String()
	if !created {
		return c.Status(fiber.StatusOK).JSON(dto.IngestDocumentResponse{
			DocumentID: documentID,
			Title:      req.Title,
			Status:     "updated",
			Message:    "Document already exists",
		})
	}

	c.Set(fiber.HeaderLocation, "/api/v1/documents/"+documentID)
	return c.Status(fiber.StatusCreated).JSON(dto.IngestDocumentResponse{
		DocumentID: documentID,
		Title:      req.Title,
		Status:     "created",
		Message:    "Document created successfully",
	})
}

// Search handles POST /api/v1/documents/:id/search. The path segment
// is the document title. Searching a non-existent title returns an
// empty result set, not an error.
func (h *DocumentHandler) Search(c *fiber.Ctx) error {
	title := c.Params("id")

	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "query is required"})
	}
	if req.KResults <= 0 {
		req.KResults = dto.DefaultKResults
	}

	exists, err := h.repo.DocumentExists(c.Context(), repository.Filter{Title: title})
	if err != nil {
		return errorResponse(c, err)
	}
	if !exists {
		return c.Status(fiber.StatusOK).JSON(dto.SearchResponse{Query: req.Query, Results: []dto.SearchResultItem{}})
	}

	results, err := h.repo.SimilaritySearch(c.Context(), req.Query, req.KResults, repository.Filter{Title: title})
	if err != nil {
		return errorResponse(c, err)
	}

	items := make([]dto.SearchResultItem, len(results))
	for i, r := range results {
		items[i] = dto.SearchResultItem{Content: r.Content, Score: r.Score, Metadata: r.Metadata}
	}
	return c.Status(fiber.StatusOK).JSON(dto.SearchResponse{
		Query:        req.Query,
		Results:      items,
		TotalResults: len(items),
	})
}

// Ask handles POST /api/v1/documents/:id/ask. The existence check runs
// before any retrieval or LLM work: asking about an unknown title is a
// 404, not an empty answer.
func (h *DocumentHandler) Ask(c *fiber.Ctx) error {
	title := c.Params("id")

	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "question is required"})
	}
	if req.Strategy == "" {
		req.Strategy = dto.StrategyStandard
	}
	if req.Strategy != dto.StrategyStandard && req.Strategy != dto.StrategyRerank {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "strategy must be 'standard' or 'rerank'"})
	}

	exists, err := h.repo.DocumentExists(c.Context(), repository.Filter{Title: title})
	if err != nil {
		return errorResponse(c, err)
	}
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "document '" + title + "' not found"})
	}

	if req.Strategy == dto.StrategyRerank {
		answer, err := h.rerank.AnswerQuestion(c.Context(), req.Question, dto.DefaultDocumentType, req.KResults, req.RerankTopN, req.Prompt)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(dto.QuestionAnswerResponse{
			Question:   req.Question,
			Answer:     answer,
			DocumentID: title,
			Strategy:   dto.StrategyRerank,
			// The rerank strategy discards chunk-level provenance.
			SourceDocuments: []dto.SourceDocument{},
		})
	}

	result, err := h.qa.AnswerQuestion(c.Context(), req.Question, dto.DefaultDocumentType, req.KResults, req.Prompt)
	if err != nil {
		return errorResponse(c, err)
	}

	sources := make([]dto.SourceDocument, len(result.SourceDocuments))
	for i, src := range result.SourceDocuments {
		sources[i] = dto.SourceDocument{Content: src.Content, Metadata: src.Metadata}
	}
	return c.Status(fiber.StatusOK).JSON(dto.QuestionAnswerResponse{
		Question:        req.Question,
		Answer:          result.Answer,
		DocumentID:      title,
		Strategy:        dto.StrategyStandard,
		SourceDocuments: sources,
	})
}

// errorResponse maps the core error taxonomy to transport responses.
// Invalid input is a 400; everything else surfaces as a generic
// internal error.
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, entity.ErrInvalidDocument),
		errors.Is(err, entity.ErrInvalidSplittingMethod):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
}
