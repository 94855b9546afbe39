package document

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/docrag/docrag/internal/domain/entity"
	"github.com/docrag/docrag/internal/domain/repository"
)

// gradientPercentile is the percentile applied to the distance
// gradient when picking breakpoints. The resulting threshold adapts to
// each text instead of being a fixed distance cutoff.
const gradientPercentile = 95

// SemanticSplitter places chunk boundaries where the embedding
// distance between consecutive sentences jumps. Each sentence is
// embedded together with its immediate neighbors to smooth out noise.
type SemanticSplitter struct {
	embedder repository.Embedder
	sentence *regexp.Regexp
}

func NewSemanticSplitter(embedder repository.Embedder) *SemanticSplitter {
	return &SemanticSplitter{
		embedder: embedder,
		sentence: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

func (s *SemanticSplitter) SplitChunks(ctx context.Context, chunks []entity.Chunk) ([]entity.Chunk, error) {
	var out []entity.Chunk
	for _, parent := range chunks {
		pieces, err := s.splitText(ctx, parent.Content)
		if err != nil {
			return nil, err
		}
		for _, piece := range pieces {
			out = append(out, entity.Chunk{Content: piece, Metadata: parent.Metadata})
		}
	}
	return out, nil
}

func (s *SemanticSplitter) splitText(ctx context.Context, text string) ([]string, error) {
	sentences := s.splitSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}
	// Too few sentences for a meaningful gradient.
	if len(sentences) <= 3 {
		return []string{strings.Join(sentences, " ")}, nil
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, bufferSentences(sentences))
	if err != nil {
		return nil, err
	}

	distances := make([]float64, len(vectors)-1)
	for i := range distances {
		distances[i] = cosineDistance(vectors[i], vectors[i+1])
	}

	breakpoints := gradientBreakpoints(distances)

	var pieces []string
	start := 0
	for _, bp := range breakpoints {
		pieces = append(pieces, strings.Join(sentences[start:bp], " "))
		start = bp
	}
	pieces = append(pieces, strings.Join(sentences[start:], " "))
	return pieces, nil
}

func (s *SemanticSplitter) splitSentences(text string) []string {
	matches := s.sentence.FindAllString(text, -1)
	if len(matches) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		if m = strings.TrimSpace(m); m != "" {
			sentences = append(sentences, m)
		}
	}
	return sentences
}

// bufferSentences joins each sentence with its neighbors so the
// embedded unit carries local context.
func bufferSentences(sentences []string) []string {
	combined := make([]string, len(sentences))
	for i := range sentences {
		start := i - 1
		if start < 0 {
			start = 0
		}
		end := i + 2
		if end > len(sentences) {
			end = len(sentences)
		}
		combined[i] = strings.Join(sentences[start:end], " ")
	}
	return combined
}

// gradientBreakpoints finds sentence indexes where the distance
// gradient exceeds its own high percentile. A breakpoint at index i
// means a new chunk starts at sentence i.
func gradientBreakpoints(distances []float64) []int {
	if len(distances) < 2 {
		return nil
	}
	grads := make([]float64, len(distances)-1)
	for i := range grads {
		grads[i] = distances[i+1] - distances[i]
	}
	threshold := percentile(grads, gradientPercentile)

	var breakpoints []int
	for i, g := range grads {
		if g > threshold {
			breakpoints = append(breakpoints, i+1)
		}
	}
	return breakpoints
}

func percentile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
