package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8106, cfg.Port)
	assert.Equal(t, VectorDBPgvector, cfg.VectorDBType)
	assert.Equal(t, 800, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.Equal(t, 4, cfg.KResults)
	assert.Equal(t, 3, cfg.RerankTopN)
	assert.Equal(t, "rerank-v3.5", cfg.CohereModel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("VECTOR_DB_TYPE", "qdrant")
	t.Setenv("CHUNK_SIZE", "512")
	t.Setenv("LOCAL_LLM", "true")

	cfg := Load()

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, VectorDBQdrant, cfg.VectorDBType)
	assert.Equal(t, 512, cfg.ChunkSize)
	assert.True(t, cfg.LocalLLM)
}

func TestVectorSize(t *testing.T) {
	cfg := &Config{EmbeddingsModel: "text-embedding-ada-002"}
	assert.Equal(t, 1536, cfg.VectorSize())

	cfg.EmbeddingsModel = "text-embedding-3-large"
	assert.Equal(t, 3072, cfg.VectorSize())

	cfg.LocalLLM = true
	cfg.OllamaEmbeddingsModel = "nomic-embed-text:v1.5"
	assert.Equal(t, 768, cfg.VectorSize())

	cfg.OllamaEmbeddingsModel = "unknown-model"
	assert.Equal(t, 768, cfg.VectorSize())
}

func TestProviderSelection(t *testing.T) {
	cfg := &Config{
		LocalLLM:              false,
		OpenAIModel:           "gpt-4o-mini",
		EmbeddingsModel:       "text-embedding-ada-002",
		OllamaBaseURL:         "http://localhost:11434/v1",
		OllamaModel:           "qwen3:8b",
		OllamaEmbeddingsModel: "nomic-embed-text:v1.5",
	}

	assert.Equal(t, "gpt-4o-mini", cfg.ChatModel())
	assert.Equal(t, "text-embedding-ada-002", cfg.ActiveEmbeddingsModel())
	assert.Empty(t, cfg.BaseURL())

	cfg.LocalLLM = true
	assert.Equal(t, "qwen3:8b", cfg.ChatModel())
	assert.Equal(t, "nomic-embed-text:v1.5", cfg.ActiveEmbeddingsModel())
	assert.Equal(t, "http://localhost:11434/v1", cfg.BaseURL())
}
