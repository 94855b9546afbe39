package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docrag/docrag/internal/domain/entity"
	"github.com/docrag/docrag/internal/domain/repository"
)

// memoryRepo is a brute-force in-memory vector repository used as a
// test double for the real backends.
type memoryRepo struct {
	chunks  []entity.Chunk
	addErr  error
	findErr error
}

func (m *memoryRepo) AddDocuments(_ context.Context, chunks []entity.Chunk) ([]string, error) {
	if m.addErr != nil {
		return nil, m.addErr
	}
	ids := make([]string, len(chunks))
	for i := range chunks {
		ids[i] = "id"
	}
	m.chunks = append(m.chunks, chunks...)
	return ids, nil
}

func (m *memoryRepo) SimilaritySearch(_ context.Context, _ string, k int, filter repository.Filter) ([]entity.ScoredChunk, error) {
	var results []entity.ScoredChunk
	for _, chunk := range m.chunks {
		if matches(chunk, filter) {
			results = append(results, entity.ScoredChunk{Chunk: chunk, Score: 1})
		}
		if len(results) == k {
			break
		}
	}
	return results, nil
}

func (m *memoryRepo) DocumentExists(_ context.Context, filter repository.Filter) (bool, error) {
	if m.findErr != nil {
		return false, m.findErr
	}
	for _, chunk := range m.chunks {
		if matches(chunk, filter) {
			return true, nil
		}
	}
	return false, nil
}

func matches(chunk entity.Chunk, filter repository.Filter) bool {
	if filter.Title != "" && chunk.Metadata.Title != filter.Title {
		return false
	}
	if filter.DocumentType != "" && chunk.Metadata.DocumentType != filter.DocumentType {
		return false
	}
	if filter.RequireContent && strings.TrimSpace(chunk.Content) == "" {
		return false
	}
	return true
}

func newTestIngestion(repo repository.VectorRepository, pages []string) *IngestionService {
	svc := NewIngestionService(repo, NewSplitterFactory(nil, 800, 50))
	svc.load = func(string) (PageSource, error) {
		return &fakePDF{pages: pages}, nil
	}
	return svc
}

func TestIngestDocument_Idempotency(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestIngestion(repo, []string{"Page zero content.", "Page one content.", "Page two content."})
	ctx := context.Background()

	created, err := svc.IngestDocument(ctx, "payload", "ros-intro", "documento-pdf", "recursive", 0, 0)
	require.NoError(t, err)
	assert.True(t, created)
	stored := len(repo.chunks)
	require.Greater(t, stored, 0)

	// Second ingestion under the same title is a no-op.
	created, err = svc.IngestDocument(ctx, "payload", "ros-intro", "documento-pdf", "recursive", 0, 0)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, stored, len(repo.chunks))
}

func TestIngestDocument_PageCoverage(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestIngestion(repo, []string{"Page zero content.", "Page one content.", "Page two content."})

	created, err := svc.IngestDocument(context.Background(), "payload", "ros-intro", "documento-pdf", "recursive", 0, 0)
	require.NoError(t, err)
	require.True(t, created)

	// Every page is covered exactly once; title and type survive
	// splitting unchanged.
	seen := map[int]int{}
	for _, chunk := range repo.chunks {
		assert.Equal(t, "ros-intro", chunk.Metadata.Title)
		assert.Equal(t, "documento-pdf", chunk.Metadata.DocumentType)
		seen[chunk.Metadata.PageNumber]++
	}
	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1}, seen)
}

func TestIngestDocument_InvalidSplittingMethod(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestIngestion(repo, []string{"Some content."})

	created, err := svc.IngestDocument(context.Background(), "payload", "doc", "documento-pdf", "bogus", 0, 0)
	require.ErrorIs(t, err, entity.ErrInvalidSplittingMethod)
	assert.False(t, created)
	assert.Empty(t, repo.chunks, "no partial writes on splitter failure")
}

func TestIngestDocument_InvalidDocument(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewIngestionService(repo, NewSplitterFactory(nil, 800, 50))

	created, err := svc.IngestDocument(context.Background(), "not-valid-base64!!!", "doc", "documento-pdf", "recursive", 0, 0)
	require.ErrorIs(t, err, entity.ErrInvalidDocument)
	assert.False(t, created)
	assert.Empty(t, repo.chunks)
}

func TestIngestDocument_ExistenceCheckFailure(t *testing.T) {
	repo := &memoryRepo{findErr: entity.ErrVectorStoreUnavailable}
	svc := newTestIngestion(repo, []string{"Some content."})

	created, err := svc.IngestDocument(context.Background(), "payload", "doc", "documento-pdf", "recursive", 0, 0)
	require.ErrorIs(t, err, entity.ErrVectorStoreUnavailable)
	assert.False(t, created)
}

func TestIngestDocument_StoreFailure(t *testing.T) {
	storeErr := errors.Join(entity.ErrVectorStoreUnavailable, errors.New("connection refused"))
	repo := &memoryRepo{addErr: storeErr}
	svc := newTestIngestion(repo, []string{"Some content."})

	created, err := svc.IngestDocument(context.Background(), "payload", "doc", "documento-pdf", "recursive", 0, 0)
	require.ErrorIs(t, err, entity.ErrVectorStoreUnavailable)
	assert.False(t, created)
}
