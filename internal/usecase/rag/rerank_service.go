package rag

import (
	"context"
	"log"
	"strings"

	"github.com/docrag/docrag/internal/domain/entity"
	"github.com/docrag/docrag/internal/domain/repository"
)

// Reranker is the cross-encoder collaborator. It imposes its own total
// order over the candidates, unrelated to vector similarity.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]entity.RankedDocument, error)
}

// RerankService is the higher-precision strategy: retrieve, rerank,
// prompt, one LLM call. Only the answer text crosses the service
// boundary; which chunks fed the final answer is discarded.
type RerankService struct {
	chat        ChatService
	reranker    Reranker
	repo        repository.VectorRepository
	defaultK    int
	defaultTopN int
}

func NewRerankService(chat ChatService, reranker Reranker, repo repository.VectorRepository, defaultK, defaultTopN int) *RerankService {
	return &RerankService{
		chat:        chat,
		reranker:    reranker,
		repo:        repo,
		defaultK:    defaultK,
		defaultTopN: defaultTopN,
	}
}

// AnswerQuestion retrieves kResults candidates, keeps the rerankTopN
// most relevant according to the rerank model, and answers over that
// subset. Non-positive kResults and rerankTopN fall back to the
// configured defaults.
func (s *RerankService) AnswerQuestion(ctx context.Context, query, documentType string, kResults, rerankTopN int, customPrompt string) (string, error) {
	if kResults <= 0 {
		kResults = s.defaultK
	}
	if rerankTopN <= 0 {
		rerankTopN = s.defaultTopN
	}
	promptTemplate := customPrompt
	if promptTemplate == "" {
		promptTemplate = LoadPrompt(defaultPromptName)
	}

	log.Printf("rerank qa query %.50q | doc_type=%s | k=%d | top_n=%d", query, documentType, kResults, rerankTopN)

	retriever := repository.NewRetriever(s.repo, kResults, repository.Filter{
		DocumentType:   documentType,
		RequireContent: true,
	})
	results, err := retriever.GetRelevantChunks(ctx, query)
	if err != nil {
		return "", err
	}

	candidates := make([]string, len(results))
	for i, r := range results {
		candidates[i] = r.Content
	}

	ranked, err := s.reranker.Rerank(ctx, query, candidates, rerankTopN)
	if err != nil {
		return "", err
	}

	contents := make([]string, len(ranked))
	for i, r := range ranked {
		contents[i] = r.Content
	}

	prompt := fillPrompt(promptTemplate, strings.Join(contents, "\n\n"), query)
	answer, err := s.chat.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	log.Printf("rerank qa answer generated")
	return answer, nil
}
