// Package embedding adapts chroma-go embedding providers to the pipeline.
// The same function embeds both indexed segments and queries, which keeps
// the two paths in one embedding space.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	ollama "github.com/amikos-tech/chroma-go/pkg/embeddings/ollama"
)

// ErrDimensionMismatch means the model produced a vector of a different
// dimensionality than the index was built with. That is a configuration
// fault, retrieval against such vectors is undefined.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

type embeddingFunction interface {
	EmbedDocuments(ctx context.Context, documents []string) ([]embeddings.Embedding, error)
	EmbedQuery(ctx context.Context, document string) (embeddings.Embedding, error)
}

// Ollama embeds text with a local Ollama model. all-minilm produces
// 384-dimensional vectors.
type Ollama struct {
	ef  embeddingFunction
	dim int
}

func NewOllama(baseURL, model string, dimension int) (*Ollama, error) {
	ef, err := ollama.NewOllamaEmbeddingFunction(
		ollama.WithBaseURL(baseURL),
		ollama.WithModel(embeddings.EmbeddingModel(model)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama embedding function: %w", err)
	}

	return &Ollama{ef: ef, dim: dimension}, nil
}

func (o *Ollama) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	embs, err := o.ef.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d documents: %w", len(texts), err)
	}

	vectors := make([][]float32, 0, len(embs))
	for _, e := range embs {
		v := e.ContentAsFloat32()
		if len(v) != o.dim {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, o.dim, len(v))
		}
		vectors = append(vectors, v)
	}

	return vectors, nil
}

func (o *Ollama) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	emb, err := o.ef.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	v := emb.ContentAsFloat32()
	if len(v) != o.dim {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, o.dim, len(v))
	}

	return v, nil
}

func (o *Ollama) Dimension() int {
	return o.dim
}
