package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Vector store backend selection.
const (
	VectorDBPgvector = "pgvector"
	VectorDBQdrant   = "qdrant"
)

type Config struct {
	Port int

	// LLM / embeddings provider selection. When LocalLLM is set the
	// chat and embeddings clients talk to an OpenAI-compatible local
	// server (Ollama) instead of the OpenAI API.
	LocalLLM              bool
	OpenAIKey             string
	OpenAIModel           string
	OpenAITemperature     float64
	OpenAIMaxTokens       int
	OpenAITopP            float64
	EmbeddingsModel       string
	OllamaBaseURL         string
	OllamaModel           string
	OllamaEmbeddingsModel string

	// Vector store
	VectorDBType     string
	DatabaseURL      string
	PgvectorTable    string
	QdrantHost       string
	QdrantPort       int
	QdrantCollection string

	// Cohere (reranking)
	CohereKey   string
	CohereModel string

	// RAG defaults
	ChunkSize    int
	ChunkOverlap int
	KResults     int
	RerankTopN   int
}

func Load() *Config {
	godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8106"))
	if err != nil {
		port = 8106
	}

	return &Config{
		Port: port,

		LocalLLM:              getEnvBool("LOCAL_LLM", false),
		OpenAIKey:             getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:           getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		OpenAITemperature:     getEnvFloat("OPENAI_TEMPERATURE", 0.05),
		OpenAIMaxTokens:       getEnvInt("OPENAI_MAX_TOKENS", 4000),
		OpenAITopP:            getEnvFloat("OPENAI_TOP_P", 0.1),
		EmbeddingsModel:       getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-ada-002"),
		OllamaBaseURL:         getEnv("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		OllamaModel:           getEnv("OLLAMA_MODEL", "qwen3:8b"),
		OllamaEmbeddingsModel: getEnv("OLLAMA_EMBEDDINGS_MODEL", "nomic-embed-text:v1.5"),

		VectorDBType:     getEnv("VECTOR_DB_TYPE", VectorDBPgvector),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		PgvectorTable:    getEnv("PGVECTOR_TABLE", "rag_documents"),
		QdrantHost:       getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:       getEnvInt("QDRANT_PORT", 6334),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "rag-docs"),

		CohereKey:   getEnv("COHERE_API_KEY", ""),
		CohereModel: getEnv("COHERE_MODEL", "rerank-v3.5"),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 800),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 50),
		KResults:     getEnvInt("TOP_K_RESULTS", 4),
		RerankTopN:   getEnvInt("RERANK_TOP_N", 3),
	}
}

// ChatModel returns the chat model name for the active provider.
func (c *Config) ChatModel() string {
	if c.LocalLLM {
		return c.OllamaModel
	}
	return c.OpenAIModel
}

// ActiveEmbeddingsModel returns the embeddings model for the active
// provider.
func (c *Config) ActiveEmbeddingsModel() string {
	if c.LocalLLM {
		return c.OllamaEmbeddingsModel
	}
	return c.EmbeddingsModel
}

// BaseURL returns the OpenAI-compatible endpoint to use, empty for the
// real OpenAI API.
func (c *Config) BaseURL() string {
	if c.LocalLLM {
		return c.OllamaBaseURL
	}
	return ""
}

// VectorSize reports the embedding dimensionality of the active model.
func (c *Config) VectorSize() int {
	sizes := map[string]int{
		"nomic-embed-text:v1.5":  768,
		"text-embedding-ada-002": 1536,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
	}
	if size, ok := sizes[c.ActiveEmbeddingsModel()]; ok {
		return size
	}
	return 768
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
