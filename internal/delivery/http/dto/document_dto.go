package dto

import "github.com/docrag/docrag/internal/domain/entity"

const (
	DefaultDocumentType = "documento-pdf"
	DefaultKResults     = 4

	StrategyStandard = "standard"
	StrategyRerank   = "rerank"
)

type IngestDocumentRequest struct {
	Title           string `json:"title"`
	DocumentType    string `json:"documentType"`
	DocumentContent string `json:"documentContent"`
	SplittingMethod string `json:"splittingMethod"`
	ChunkSize       int    `json:"chunkSize"`
	ChunkOverlap    int    `json:"chunkOverlap"`
}

type IngestDocumentResponse struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type SearchRequest struct {
	Query    string `json:"query"`
	KResults int    `json:"kResults"`
}

type SearchResultItem struct {
	Content  string               `json:"content"`
	Score    float64              `json:"score"`
	Metadata entity.ChunkMetadata `json:"metadata"`
}

type SearchResponse struct {
	Query        string             `json:"query"`
	Results      []SearchResultItem `json:"results"`
	TotalResults int                `json:"totalResults"`
}

type QuestionRequest struct {
	Question   string `json:"question"`
	Strategy   string `json:"strategy"`
	KResults   int    `json:"kResults"`
	RerankTopN int    `json:"rerankTopN"`
	Prompt     string `json:"prompt"`
}

type SourceDocument struct {
	Content  string               `json:"content"`
	Metadata entity.ChunkMetadata `json:"metadata"`
}

type QuestionAnswerResponse struct {
	Question        string           `json:"question"`
	Answer          string           `json:"answer"`
	DocumentID      string           `json:"documentId"`
	Strategy        string           `json:"strategy"`
	SourceDocuments []SourceDocument `json:"sourceDocuments"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
