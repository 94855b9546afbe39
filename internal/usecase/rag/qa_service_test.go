package rag

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docrag/docrag/internal/domain/entity"
	"github.com/docrag/docrag/internal/domain/repository"
)

// fakeRepo returns its canned chunks for every search, capped at k.
type fakeRepo struct {
	chunks     []entity.ScoredChunk
	lastK      int
	lastFilter repository.Filter
	searchErr  error
}

func (f *fakeRepo) AddDocuments(_ context.Context, chunks []entity.Chunk) ([]string, error) {
	return make([]string, len(chunks)), nil
}

func (f *fakeRepo) SimilaritySearch(_ context.Context, _ string, k int, filter repository.Filter) ([]entity.ScoredChunk, error) {
	f.lastK = k
	f.lastFilter = filter
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if k > len(f.chunks) {
		k = len(f.chunks)
	}
	return f.chunks[:k], nil
}

func (f *fakeRepo) DocumentExists(_ context.Context, _ repository.Filter) (bool, error) {
	return len(f.chunks) > 0, nil
}

// fakeChat records the prompt and echoes a fixed answer.
type fakeChat struct {
	answer string
	prompt string
	err    error
}

func (f *fakeChat) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func scoredChunks(n int) []entity.ScoredChunk {
	chunks := make([]entity.ScoredChunk, n)
	for i := range chunks {
		chunks[i] = entity.ScoredChunk{
			Chunk: entity.Chunk{
				Content: fmt.Sprintf("chunk %d content", i),
				Metadata: entity.ChunkMetadata{
					Title:        "ros-intro",
					DocumentType: "documento-pdf",
					PageNumber:   i,
				},
			},
			Score: 1 - float64(i)/10,
		}
	}
	return chunks
}

func TestQAService_AnswerQuestion(t *testing.T) {
	repo := &fakeRepo{chunks: scoredChunks(4)}
	chat := &fakeChat{answer: "ROS is a robotics middleware."}
	svc := NewQAService(chat, repo, 4)

	answer, err := svc.AnswerQuestion(context.Background(), "What is ROS?", "documento-pdf", 4, "")
	require.NoError(t, err)

	assert.Equal(t, "ROS is a robotics middleware.", answer.Answer)
	require.Len(t, answer.SourceDocuments, 4)

	// Sources come back in retrieval-rank order.
	for i, src := range answer.SourceDocuments {
		assert.Equal(t, fmt.Sprintf("chunk %d content", i), src.Content)
		assert.Equal(t, "ros-intro", src.Metadata.Title)
	}

	// The retriever is filtered to the document type and to non-blank
	// content.
	assert.Equal(t, repository.Filter{DocumentType: "documento-pdf", RequireContent: true}, repo.lastFilter)

	// The prompt carries the retrieved context and the question.
	assert.Contains(t, chat.prompt, "chunk 0 content")
	assert.Contains(t, chat.prompt, "chunk 3 content")
	assert.Contains(t, chat.prompt, "What is ROS?")
	assert.True(t, strings.Index(chat.prompt, "chunk 0 content") < strings.Index(chat.prompt, "chunk 3 content"))
}

func TestQAService_DefaultK(t *testing.T) {
	repo := &fakeRepo{chunks: scoredChunks(6)}
	svc := NewQAService(&fakeChat{answer: "ok"}, repo, 4)

	answer, err := svc.AnswerQuestion(context.Background(), "q", "documento-pdf", 0, "")
	require.NoError(t, err)

	assert.Equal(t, 4, repo.lastK)
	assert.Len(t, answer.SourceDocuments, 4)
}

func TestQAService_FewerChunksThanK(t *testing.T) {
	repo := &fakeRepo{chunks: scoredChunks(2)}
	svc := NewQAService(&fakeChat{answer: "ok"}, repo, 4)

	answer, err := svc.AnswerQuestion(context.Background(), "q", "documento-pdf", 4, "")
	require.NoError(t, err)
	assert.Len(t, answer.SourceDocuments, 2)
}

func TestQAService_CustomPrompt(t *testing.T) {
	repo := &fakeRepo{chunks: scoredChunks(1)}
	chat := &fakeChat{answer: "ok"}
	svc := NewQAService(chat, repo, 4)

	_, err := svc.AnswerQuestion(context.Background(), "the question", "documento-pdf", 1, "CUSTOM {context} | {question}")
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM chunk 0 content | the question", chat.prompt)
}

func TestQAService_RetrievalFailure(t *testing.T) {
	repo := &fakeRepo{searchErr: entity.ErrVectorStoreUnavailable}
	svc := NewQAService(&fakeChat{answer: "ok"}, repo, 4)

	answer, err := svc.AnswerQuestion(context.Background(), "q", "documento-pdf", 4, "")
	require.ErrorIs(t, err, entity.ErrVectorStoreUnavailable)
	assert.Nil(t, answer)
}

func TestQAService_LLMFailure(t *testing.T) {
	repo := &fakeRepo{chunks: scoredChunks(4)}
	svc := NewQAService(&fakeChat{err: entity.ErrLLMProvider}, repo, 4)

	answer, err := svc.AnswerQuestion(context.Background(), "q", "documento-pdf", 4, "")
	require.ErrorIs(t, err, entity.ErrLLMProvider)
	assert.Nil(t, answer)
}
