package medrag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermax01/medrag/vecstore"
)

type fixedEmbedder struct {
	vector []float32
}

func (e *fixedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = e.vector
	}
	return vectors, nil
}

func (e *fixedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.vector, nil
}

type failingIndex struct{}

func (f *failingIndex) Upsert(ctx context.Context, entries []vecstore.Entry) error {
	return vecstore.ErrUnavailable
}

func (f *failingIndex) Query(ctx context.Context, vector []float32, k int) ([]vecstore.Match, error) {
	return nil, vecstore.ErrUnavailable
}

func (f *failingIndex) Sources(ctx context.Context) (map[string]uint32, error) {
	return nil, vecstore.ErrUnavailable
}

func (f *failingIndex) RemoveSource(ctx context.Context, source string) error {
	return vecstore.ErrUnavailable
}

func Test_Retrieve(t *testing.T) {
	index := vecstore.NewMemory()
	require.NoError(t, index.Upsert(context.Background(), []vecstore.Entry{
		{ID: "a#0", Source: "a", Text: "close", Vector: []float32{1, 0}},
		{ID: "b#0", Source: "b", Text: "far", Vector: []float32{0, 1}},
	}))

	retriever := NewRetriever(discardLogger(), &fixedEmbedder{vector: []float32{1, 0}}, index, 2, 0.5)

	matches, err := retriever.Retrieve(context.Background(), "question")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a#0", matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-5)
}

func Test_Retrieve_AllBelowThreshold(t *testing.T) {
	index := vecstore.NewMemory()
	require.NoError(t, index.Upsert(context.Background(), []vecstore.Entry{
		{ID: "a#0", Source: "a", Vector: []float32{0, 1}},
	}))

	retriever := NewRetriever(discardLogger(), &fixedEmbedder{vector: []float32{1, 0}}, index, 2, 0.5)

	matches, err := retriever.Retrieve(context.Background(), "question")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func Test_Retrieve_EmptyIndex(t *testing.T) {
	retriever := NewRetriever(discardLogger(), &fixedEmbedder{vector: []float32{1, 0}}, vecstore.NewMemory(), 3, 0.25)

	matches, err := retriever.Retrieve(context.Background(), "question")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func Test_Retrieve_IndexUnavailable(t *testing.T) {
	retriever := NewRetriever(discardLogger(), &fixedEmbedder{vector: []float32{1, 0}}, &failingIndex{}, 3, 0.25)

	_, err := retriever.Retrieve(context.Background(), "question")
	assert.ErrorIs(t, err, vecstore.ErrUnavailable)
}

func Test_Retrieve_EmbedderError(t *testing.T) {
	embedder := &erroringEmbedder{err: errors.New("model gone")}
	retriever := NewRetriever(discardLogger(), embedder, vecstore.NewMemory(), 3, 0.25)

	_, err := retriever.Retrieve(context.Background(), "question")
	assert.Error(t, err)
}

type erroringEmbedder struct {
	err error
}

func (e *erroringEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, e.err
}

func (e *erroringEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return nil, e.err
}
