package rag

import (
	"context"
	"log"
	"strings"

	"github.com/docrag/docrag/internal/domain/entity"
	"github.com/docrag/docrag/internal/domain/repository"
)

const defaultPromptName = "default_qa_prompt"

// ChatService is the single-capability LLM collaborator.
type ChatService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// QAService is the standard answer strategy: retrieve, prompt, one LLM
// call. It keeps full chunk-level provenance.
type QAService struct {
	chat     ChatService
	repo     repository.VectorRepository
	defaultK int
}

func NewQAService(chat ChatService, repo repository.VectorRepository, defaultK int) *QAService {
	return &QAService{chat: chat, repo: repo, defaultK: defaultK}
}

// AnswerQuestion retrieves up to kResults chunks of the given document
// type, fills the prompt with their content in retrieval-rank order,
// and invokes the LLM once. The returned answer carries the exact
// chunks used, in the same order. Non-positive kResults falls back to
// the configured default; an empty customPrompt uses the default
// template.
func (s *QAService) AnswerQuestion(ctx context.Context, query, documentType string, kResults int, customPrompt string) (*entity.Answer, error) {
	if kResults <= 0 {
		kResults = s.defaultK
	}
	promptTemplate := customPrompt
	if promptTemplate == "" {
		promptTemplate = LoadPrompt(defaultPromptName)
	}

	log.Printf("qa query %.50q | doc_type=%s | k=%d", query, documentType, kResults)

	retriever := repository.NewRetriever(s.repo, kResults, repository.Filter{
		DocumentType:   documentType,
		RequireContent: true,
	})
	results, err := retriever.GetRelevantChunks(ctx, query)
	if err != nil {
		return nil, err
	}

	sources := make([]entity.Chunk, len(results))
	contents := make([]string, len(results))
	for i, r := range results {
		sources[i] = r.Chunk
		contents[i] = r.Content
	}

	prompt := fillPrompt(promptTemplate, strings.Join(contents, "\n\n"), query)
	answer, err := s.chat.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	log.Printf("qa answer generated with %d sources", len(sources))
	return &entity.Answer{Answer: answer, SourceDocuments: sources}, nil
}
