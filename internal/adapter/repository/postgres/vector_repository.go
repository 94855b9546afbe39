package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"github.com/docrag/docrag/internal/domain/entity"
	"github.com/docrag/docrag/internal/domain/repository"
)

// vectorRepository stores chunks in Postgres with a pgvector column.
// Cosine distance from the <=> operator is normalized to a
// higher-is-more-relevant score at this boundary.
type vectorRepository struct {
	db       *sqlx.DB
	embedder repository.Embedder
	table    string
}

func NewVectorRepository(ctx context.Context, db *sqlx.DB, embedder repository.Embedder, table string, vectorSize int) (repository.VectorRepository, error) {
	r := &vectorRepository{db: db, embedder: embedder, table: table}
	if err := r.initTable(ctx, vectorSize); err != nil {
		return nil, fmt.Errorf("%w: init table: %v", entity.ErrVectorStoreUnavailable, err)
	}
	return r, nil
}

func (r *vectorRepository) initTable(ctx context.Context, vectorSize int) error {
	if _, err := r.db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return err
	}
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %q (
			"id" uuid PRIMARY KEY,
			"content" text NOT NULL,
			"titulo" text NOT NULL,
			"tipo_documento" text NOT NULL,
			"pagina" int NOT NULL,
			"embedding" vector(%d) NOT NULL
		)
	`, r.table, vectorSize)
	_, err := r.db.ExecContext(ctx, query)
	return err
}

func (r *vectorRepository) AddDocuments(ctx context.Context, chunks []entity.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	embeddings, err := r.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx: %v", entity.ErrVectorStoreUnavailable, err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT INTO %q ("id", "content", "titulo", "tipo_documento", "pagina", "embedding")
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.table)

	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = uuid.New().String()
		_, err := tx.ExecContext(ctx, query,
			ids[i],
			chunk.Content,
			chunk.Metadata.Title,
			chunk.Metadata.DocumentType,
			chunk.Metadata.PageNumber,
			pgvector.NewVector(embeddings[i]),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: insert chunk: %v", entity.ErrVectorStoreUnavailable, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", entity.ErrVectorStoreUnavailable, err)
	}
	return ids, nil
}

func (r *vectorRepository) SimilaritySearch(ctx context.Context, query string, k int, filter repository.Filter) ([]entity.ScoredChunk, error) {
	embedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf(`
		SELECT "id", "content", "titulo", "tipo_documento", "pagina",
			1 - ("embedding" <=> $1) AS score
		FROM %q
		WHERE ($2 = '' OR "titulo" = $2)
		AND ($3 = '' OR "tipo_documento" = $3)
		AND (NOT $4 OR btrim("content") <> '')
		ORDER BY "embedding" <=> $1
		LIMIT $5
	`, r.table)

	rows, err := r.db.QueryContext(ctx, sql,
		pgvector.NewVector(embedding),
		filter.Title,
		filter.DocumentType,
		filter.RequireContent,
		k,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: similarity search: %v", entity.ErrVectorStoreUnavailable, err)
	}
	defer rows.Close()

	var results []entity.ScoredChunk
	for rows.Next() {
		var chunk entity.ScoredChunk
		err := rows.Scan(
			&chunk.ID,
			&chunk.Content,
			&chunk.Metadata.Title,
			&chunk.Metadata.DocumentType,
			&chunk.Metadata.PageNumber,
			&chunk.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan result: %v", entity.ErrVectorStoreUnavailable, err)
		}
		results = append(results, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrVectorStoreUnavailable, err)
	}
	return results, nil
}

func (r *vectorRepository) DocumentExists(ctx context.Context, filter repository.Filter) (bool, error) {
	sql := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %q
			WHERE ($1 = '' OR "titulo" = $1)
			AND ($2 = '' OR "tipo_documento" = $2)
		)
	`, r.table)

	var exists bool
	if err := r.db.GetContext(ctx, &exists, sql, filter.Title, filter.DocumentType); err != nil {
		return false, fmt.Errorf("%w: existence check: %v", entity.ErrVectorStoreUnavailable, err)
	}
	return exists, nil
}
