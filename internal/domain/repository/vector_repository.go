package repository

import (
	"context"

	"github.com/docrag/docrag/internal/domain/entity"
)

// Filter selects chunks by exact-match metadata predicates. Zero-value
// fields are ignored. RequireContent keeps only chunks whose content
// has at least one non-whitespace character.
type Filter struct {
	Title          string
	DocumentType   string
	RequireContent bool
}

// Embedder turns text into vectors. Both vector store backends embed
// through this collaborator; the vector dimensionality is fixed by the
// active embeddings model.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorRepository abstracts the pluggable vector store backend.
// Implementations embed chunk text via the Embedder and persist
// content, metadata and vector together.
type VectorRepository interface {
	// AddDocuments persists the chunks and returns backend-assigned
	// identifiers. No dedup happens here; idempotency belongs to the
	// ingestion service.
	AddDocuments(ctx context.Context, chunks []entity.Chunk) ([]string, error)

	// SimilaritySearch returns up to k chunks ordered by descending
	// relevance. Fewer than k matches return fewer results, never an
	// error.
	SimilaritySearch(ctx context.Context, query string, k int, filter Filter) ([]entity.ScoredChunk, error)

	// DocumentExists reports whether at least one persisted chunk
	// matches the filter. This is the sole idempotency gate for
	// ingestion; it is checked, not transactional.
	DocumentExists(ctx context.Context, filter Filter) (bool, error)
}

// Retriever is a lazily-invoked query bound to a repository, a result
// count and a filter. QA services build one per question.
type Retriever struct {
	repo   VectorRepository
	k      int
	filter Filter
}

func NewRetriever(repo VectorRepository, k int, filter Filter) *Retriever {
	return &Retriever{repo: repo, k: k, filter: filter}
}

// GetRelevantChunks runs the bound similarity search for the query.
func (r *Retriever) GetRelevantChunks(ctx context.Context, query string) ([]entity.ScoredChunk, error) {
	return r.repo.SimilaritySearch(ctx, query, r.k, r.filter)
}

// K reports the bound result count.
func (r *Retriever) K() int { return r.k }
