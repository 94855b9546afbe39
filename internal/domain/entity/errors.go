package entity

import "errors"

// Error taxonomy for the core pipeline. Every error crossing a service
// boundary wraps exactly one of these sentinels, so the delivery layer
// can map them with errors.Is without inspecting messages.
var (
	// ErrInvalidDocument covers both bad base64 and unparseable PDF
	// bytes. Callers cannot meaningfully distinguish the two.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidSplittingMethod is returned for unknown splitter names.
	ErrInvalidSplittingMethod = errors.New("invalid splitting method")

	// ErrVectorStoreUnavailable wraps backend connectivity failures.
	// The core never retries; retry is an external-caller concern.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	ErrEmbeddingProvider = errors.New("embedding provider error")
	ErrLLMProvider       = errors.New("llm provider error")
	ErrRerankProvider    = errors.New("rerank provider error")
)
