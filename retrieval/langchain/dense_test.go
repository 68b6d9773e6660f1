package langchain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/strategit/core"
)

// axisEmbedder maps known texts to fixed axis-aligned vectors so cosine
// ranking is fully predictable.
type axisEmbedder struct {
	vectors map[string][]float32
	fail    bool
}

func (e *axisEmbedder) embed(text string) []float32 {
	if v, ok := e.vectors[text]; ok {
		return v
	}
	return []float32{0, 0, 1}
}

func (e *axisEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if e.fail {
		return nil, errors.New("embedding service down")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.embed(text)
	}
	return out, nil
}

func (e *axisEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if e.fail {
		return nil, errors.New("embedding service down")
	}
	return e.embed(text), nil
}

func newIndexedBackend(t *testing.T) *DenseBackend {
	t.Helper()

	embedder := &axisEmbedder{vectors: map[string][]float32{
		"go concurrency": {1, 0, 0},
		"python asyncio": {0, 1, 0},
		"goroutines":     {0.9, 0.1, 0},
	}}

	b, err := New(embedder)
	require.NoError(t, err)

	err = b.AddDocuments(context.Background(),
		Document{Title: "go", Content: "go concurrency"},
		Document{Title: "py", Content: "python asyncio"},
		Document{Title: "gr", Content: "goroutines"},
	)
	require.NoError(t, err)
	return b
}

func TestNewRequiresEmbedder(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestSearchRanksBySimilarity(t *testing.T) {
	b := newIndexedBackend(t)

	results, err := b.Search(context.Background(), "go concurrency", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "go", results[0].Title)
	assert.Equal(t, "gr", results[1].Title)
	assert.Greater(t, results[0].RawScore, results[1].RawScore)
	assert.Equal(t, core.BackendDense, results[0].Backend)
}

func TestSearchTopKBounds(t *testing.T) {
	b := newIndexedBackend(t)

	all, err := b.Search(context.Background(), "go concurrency", 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := b.Search(context.Background(), "go concurrency", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchEmptyIndex(t *testing.T) {
	b, err := New(&axisEmbedder{})
	require.NoError(t, err)

	results, err := b.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAddDocumentsEmbedderFailure(t *testing.T) {
	embedder := &axisEmbedder{fail: true}
	b, err := New(embedder)
	require.NoError(t, err)

	err = b.AddDocuments(context.Background(), Document{Content: "doc"})
	assert.Error(t, err)
	assert.Equal(t, 0, b.Size())
}

func TestSearchEmbedderFailure(t *testing.T) {
	embedder := &axisEmbedder{vectors: map[string][]float32{"doc": {1, 0, 0}}}
	b, err := New(embedder)
	require.NoError(t, err)
	require.NoError(t, b.AddDocuments(context.Background(), Document{Content: "doc"}))

	embedder.fail = true
	_, err = b.Search(context.Background(), "query", 3)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	v := normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)

	zero := normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}
