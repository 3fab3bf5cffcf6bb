package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"
)

type fakeEmbedder struct {
	queryVec []float64
	err      error
	gotQuery string
}

func (e *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float64, error) {
	e.gotQuery = text
	if e.err != nil {
		return nil, e.err
	}
	return e.queryVec, nil
}

func (e *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = e.queryVec
	}
	return vectors, nil
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{}, &fakeEmbedder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URI is required")

	_, err = New(context.Background(), Config{URI: "mongodb://localhost:27017"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedder is required")
}

func TestSimilaritySearch_EmbedderFailure(t *testing.T) {
	t.Parallel()

	store := &Store{
		embedder: &fakeEmbedder{err: errors.New("quota exceeded")},
		topK:     defaultTopK,
		sem:      semaphore.NewWeighted(1),
	}

	_, err := store.SimilaritySearch(context.Background(), "dental implants", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed query")
}

func TestSimilaritySearch_PassesQueryToEmbedder(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{err: errors.New("stop before hitting the database")}
	store := &Store{
		embedder: embedder,
		topK:     defaultTopK,
		sem:      semaphore.NewWeighted(1),
	}

	_, _ = store.SimilaritySearch(context.Background(), "out of network coverage", 3)
	assert.Equal(t, "out of network coverage", embedder.gotQuery)
}

func TestAddDocuments_EmptyIsNoop(t *testing.T) {
	t.Parallel()

	store := &Store{embedder: &fakeEmbedder{}}
	require.NoError(t, store.AddDocuments(context.Background(), nil))
}

func TestNewOpenAIEmbedder_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewOpenAIEmbedder("", "text-embedding-3-small", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")

	_, err = NewOpenAIEmbedder("sk-test", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model is required")
}

func TestEmbedDocuments_EmptyInput(t *testing.T) {
	t.Parallel()

	embedder, err := NewOpenAIEmbedder("sk-test", "text-embedding-3-small", "")
	require.NoError(t, err)

	_, err = embedder.EmbedDocuments(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no texts to embed")
}
