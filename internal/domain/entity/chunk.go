package entity

// ChunkMetadata identifies the source page of a chunk. A (titulo,
// tipo_documento, pagina) triple groups chunks back to the page they
// were split from. Pages are zero-based.
type ChunkMetadata struct {
	Title        string `db:"titulo" json:"titulo"`
	DocumentType string `db:"tipo_documento" json:"tipo_documento"`
	PageNumber   int    `db:"pagina" json:"pagina"`
}

// Chunk is one stored unit of document text. Immutable after creation;
// the vector store owns it once persisted.
type Chunk struct {
	ID       string        `db:"id" json:"id,omitempty"`
	Content  string        `db:"content" json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ScoredChunk is a chunk with a relevance score normalized so that
// higher is always more relevant, regardless of backend.
type ScoredChunk struct {
	Chunk
	Score float64 `db:"score" json:"score"`
}

// RankedDocument is one cross-encoder rerank result: the original
// candidate index, its content, and a learned relevance score on a
// scale unrelated to vector similarity.
type RankedDocument struct {
	Index   int     `json:"index"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Answer is the result of the standard QA strategy: the generated text
// plus the exact chunks that were fed to the model, in retrieval-rank
// order. The rerank strategy returns a bare string instead.
type Answer struct {
	Answer          string  `json:"answer"`
	SourceDocuments []Chunk `json:"sourceDocuments"`
}
