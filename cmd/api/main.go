package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/docrag/docrag/internal/adapter/cohere"
	"github.com/docrag/docrag/internal/adapter/openai"
	"github.com/docrag/docrag/internal/adapter/repository/postgres"
	"github.com/docrag/docrag/internal/adapter/repository/qdrant"
	"github.com/docrag/docrag/internal/delivery/http/handler"
	"github.com/docrag/docrag/internal/domain/repository"
	"github.com/docrag/docrag/internal/usecase/document"
	"github.com/docrag/docrag/internal/usecase/rag"
	"github.com/docrag/docrag/pkg/config"
	"github.com/docrag/docrag/pkg/database"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Clients are constructed once and reused read-only across
	// requests; each call is independent and stateless.
	embeddingClient := openai.NewEmbeddingClient(cfg.OpenAIKey, cfg.BaseURL(), cfg.ActiveEmbeddingsModel())
	chatClient := openai.NewChatClient(cfg.OpenAIKey, cfg.BaseURL(), cfg.ChatModel(), cfg.OpenAITemperature, cfg.OpenAIMaxTokens, cfg.OpenAITopP)
	rerankClient := cohere.NewRerankClient(cfg.CohereKey, cfg.CohereModel)

	var repo repository.VectorRepository
	switch cfg.VectorDBType {
	case config.VectorDBQdrant:
		qdrantRepo, err := qdrant.NewVectorRepository(ctx, cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection, cfg.VectorSize(), embeddingClient)
		if err != nil {
			log.Fatalf("failed to initialize qdrant repository: %v", err)
		}
		defer qdrantRepo.Close()
		repo = qdrantRepo
		log.Printf("using qdrant vector store at %s:%d", cfg.QdrantHost, cfg.QdrantPort)

	case config.VectorDBPgvector:
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
		repo, err = postgres.NewVectorRepository(ctx, db, embeddingClient, cfg.PgvectorTable, cfg.VectorSize())
		if err != nil {
			log.Fatalf("failed to initialize pgvector repository: %v", err)
		}
		log.Printf("using pgvector store, table %q", cfg.PgvectorTable)

	default:
		log.Fatalf("unknown vector db type: %q", cfg.VectorDBType)
	}

	splitterFactory := document.NewSplitterFactory(embeddingClient, cfg.ChunkSize, cfg.ChunkOverlap)
	ingestionService := document.NewIngestionService(repo, splitterFactory)
	qaService := rag.NewQAService(chatClient, repo, cfg.KResults)
	rerankService := rag.NewRerankService(chatClient, rerankClient, repo, cfg.KResults, cfg.RerankTopN)

	docHandler := handler.NewDocumentHandler(ingestionService, qaService, rerankService, repo)

	app := fiber.New(fiber.Config{
		// Base64 PDFs can be large.
		BodyLimit: 50 * 1024 * 1024,
	})
	app.Use(logger.New())

	app.Get("/health", handler.Health)

	v1 := app.Group("/api/v1")
	v1.Post("/documents", docHandler.Ingest)
	v1.Post("/documents/:id/search", docHandler.Search)
	v1.Post("/documents/:id/ask", docHandler.Ask)

	log.Printf("server starting on port %d", cfg.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
