package medrag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/supermax01/medrag/vecstore"
)

// Retriever embeds a question and fetches the closest indexed segments.
// Matches below minScore are discarded: finding nothing relevant is
// distinguished from finding nothing at all, but neither is an error.
type Retriever struct {
	log      *slog.Logger
	embedder Embedder
	index    VectorIndex
	results  int
	minScore float32
}

func NewRetriever(log *slog.Logger, embedder Embedder, index VectorIndex, results int, minScore float32) *Retriever {
	return &Retriever{
		log:      log,
		embedder: embedder,
		index:    index,
		results:  results,
		minScore: minScore,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, question string) ([]vecstore.Match, error) {
	vector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	matches, err := r.index.Query(ctx, vector, r.results)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}

	usable := matches[:0]
	for _, m := range matches {
		if m.Score >= r.minScore {
			usable = append(usable, m)
		}
	}

	if len(usable) < len(matches) {
		r.log.Debug("dropped matches below similarity threshold",
			"dropped", len(matches)-len(usable),
			"min_score", r.minScore)
	}

	return usable, nil
}
