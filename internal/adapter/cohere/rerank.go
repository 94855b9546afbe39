package cohere

import (
	"context"
	"fmt"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"github.com/docrag/docrag/internal/domain/entity"
)

// RerankClient reorders retrieval candidates with the Cohere rerank
// model.
type RerankClient struct {
	client *cohereclient.Client
	model  string
}

func NewRerankClient(apiKey, model string) *RerankClient {
	return &RerankClient{
		client: cohereclient.NewClient(cohereclient.WithToken(apiKey)),
		model:  model,
	}
}

// Rerank returns the topN most relevant documents for the query,
// ordered by the model's relevance score. Ties are model-determined
// and not stable across calls.
func (c *RerankClient) Rerank(ctx context.Context, query string, documents []string, topN int) ([]entity.RankedDocument, error) {
	if len(documents) == 0 {
		return nil, nil
	}
	if topN > len(documents) {
		topN = len(documents)
	}

	resp, err := c.client.V2.Rerank(ctx, &cohere.V2RerankRequest{
		Model:     c.model,
		Query:     query,
		Documents: documents,
		TopN:      &topN,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrRerankProvider, err)
	}

	ranked := make([]entity.RankedDocument, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.Index < 0 || r.Index >= len(documents) {
			return nil, fmt.Errorf("%w: result index %d out of range", entity.ErrRerankProvider, r.Index)
		}
		ranked = append(ranked, entity.RankedDocument{
			Index:   r.Index,
			Content: documents[r.Index],
			Score:   r.RelevanceScore,
		})
	}
	return ranked, nil
}
