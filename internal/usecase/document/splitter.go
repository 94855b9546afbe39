package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/docrag/docrag/internal/domain/entity"
	"github.com/docrag/docrag/internal/domain/repository"
)

// Splitting method names accepted by the factory.
const (
	MethodRecursive = "recursive"
	MethodSemantic  = "semantic"
)

// Splitter turns page-sized chunks into retrieval-sized ones. Output
// chunks inherit the parent's metadata unchanged.
type Splitter interface {
	SplitChunks(ctx context.Context, chunks []entity.Chunk) ([]entity.Chunk, error)
}

// SplitterFactory builds splitting strategies. Recursive defaults come
// from configuration; the semantic strategy needs the embeddings
// collaborator.
type SplitterFactory struct {
	embedder            repository.Embedder
	defaultChunkSize    int
	defaultChunkOverlap int
}

func NewSplitterFactory(embedder repository.Embedder, defaultChunkSize, defaultChunkOverlap int) *SplitterFactory {
	return &SplitterFactory{
		embedder:            embedder,
		defaultChunkSize:    defaultChunkSize,
		defaultChunkOverlap: defaultChunkOverlap,
	}
}

// CreateSplitter returns the strategy for the given method name.
// Non-positive size and overlap fall back to the configured defaults.
// Unknown methods fail with ErrInvalidSplittingMethod.
func (f *SplitterFactory) CreateSplitter(method string, chunkSize, chunkOverlap int) (Splitter, error) {
	switch method {
	case MethodSemantic:
		return NewSemanticSplitter(f.embedder), nil
	case MethodRecursive:
		if chunkSize <= 0 {
			chunkSize = f.defaultChunkSize
		}
		if chunkOverlap <= 0 {
			chunkOverlap = f.defaultChunkOverlap
		}
		return NewRecursiveSplitter(chunkSize, chunkOverlap), nil
	default:
		return nil, fmt.Errorf("%w: %q (use %q or %q)", entity.ErrInvalidSplittingMethod, method, MethodSemantic, MethodRecursive)
	}
}

// defaultSeparators are tried in order: paragraph, line, sentence and
// word boundaries before raw character cuts.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveSplitter does deterministic fixed-size splitting with
// overlap, preferring the coarsest boundary that still fits.
type RecursiveSplitter struct {
	chunkSize    int
	chunkOverlap int
}

func NewRecursiveSplitter(chunkSize, chunkOverlap int) *RecursiveSplitter {
	return &RecursiveSplitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

func (s *RecursiveSplitter) SplitChunks(_ context.Context, chunks []entity.Chunk) ([]entity.Chunk, error) {
	var out []entity.Chunk
	for _, parent := range chunks {
		for _, piece := range s.splitText(parent.Content, defaultSeparators) {
			out = append(out, entity.Chunk{Content: piece, Metadata: parent.Metadata})
		}
	}
	return out, nil
}

func (s *RecursiveSplitter) splitText(text string, separators []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// Pick the coarsest separator present in the text.
	separator := separators[len(separators)-1]
	var next []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	if separator == "" {
		return s.splitByCharacter(text)
	}

	var splits []string
	for _, part := range strings.SplitAfter(text, separator) {
		if part != "" {
			splits = append(splits, part)
		}
	}

	var final []string
	var good []string
	for _, piece := range splits {
		if len(piece) <= s.chunkSize {
			good = append(good, piece)
			continue
		}
		// Oversized piece: flush what fits, recurse with finer
		// separators.
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		if len(next) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.splitText(piece, next)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// merge greedily joins boundary-aligned pieces up to chunkSize,
// carrying chunkOverlap characters of trailing pieces into the next
// chunk.
func (s *RecursiveSplitter) merge(splits []string) []string {
	var docs []string
	var current []string
	total := 0
	for _, piece := range splits {
		if total+len(piece) > s.chunkSize && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
				docs = append(docs, doc)
			}
			for len(current) > 0 && (total > s.chunkOverlap || total+len(piece) > s.chunkSize) {
				total -= len(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += len(piece)
	}
	if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitByCharacter is the raw fallback when no boundary exists: fixed
// windows of chunkSize stepping by chunkSize-chunkOverlap.
func (s *RecursiveSplitter) splitByCharacter(text string) []string {
	step := s.chunkSize - s.chunkOverlap
	if step <= 0 {
		// ensure progress
		step = 1
	}

	var pieces []string
	for start := 0; start < len(text); start += step {
		end := start + s.chunkSize
		if end > len(text) {
			end = len(text)
		}
		if piece := strings.TrimSpace(text[start:end]); piece != "" {
			pieces = append(pieces, piece)
		}
		if end == len(text) {
			break
		}
	}
	return pieces
}
