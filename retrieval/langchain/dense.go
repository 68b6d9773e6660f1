package langchain

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/strategit/core"
	"github.com/poiesic/strategit/retrieval"
)

// Document is one indexable item.
type Document struct {
	Title    string
	Content  string
	Metadata map[string]string
}

// indexedDocument pairs a document with its normalized embedding.
type indexedDocument struct {
	doc    Document
	vector []float32
}

// DenseBackend implements retrieval.Backend with embedding similarity
// over an in-memory index.
type DenseBackend struct {
	embedder embeddings.Embedder
	logger   *slog.Logger

	mu   sync.RWMutex
	docs []indexedDocument
}

var _ retrieval.Backend = (*DenseBackend)(nil)

// Option configures a DenseBackend.
type Option func(*DenseBackend) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *DenseBackend) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// New creates a dense backend over the given embedder.
func New(embedder embeddings.Embedder, opts ...Option) (*DenseBackend, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	b := &DenseBackend{
		embedder: embedder,
		logger:   slog.Default().With("component", "dense-backend"),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// NewOpenAI creates a dense backend against an OpenAI-compatible
// embedding service. Use "none" as token for local services without
// authentication.
func NewOpenAI(baseURL, model, token string, opts ...Option) (*DenseBackend, error) {
	client, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(token),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return New(embedder, opts...)
}

// Name identifies this as the dense backend.
func (b *DenseBackend) Name() core.Backend {
	return core.BackendDense
}

// AddDocuments embeds and indexes the given documents.
func (b *DenseBackend) AddDocuments(ctx context.Context, docs ...Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := b.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		b.logger.Error("failed to embed documents", "count", len(docs), "err", err)
		return err
	}
	if len(vectors) != len(docs) {
		return ErrEmbeddingMismatch
	}

	indexed := make([]indexedDocument, len(docs))
	for i := range docs {
		indexed[i] = indexedDocument{doc: docs[i], vector: normalize(vectors[i])}
	}

	b.mu.Lock()
	b.docs = append(b.docs, indexed...)
	total := len(b.docs)
	b.mu.Unlock()

	b.logger.Debug("documents indexed", "added", len(docs), "total", total)
	return nil
}

// Size returns the number of indexed documents.
func (b *DenseBackend) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.docs)
}

// Search embeds the query and returns the topK most similar documents.
func (b *DenseBackend) Search(ctx context.Context, query string, topK int) ([]core.RetrievedPassage, error) {
	if topK < 1 {
		return nil, nil
	}

	vector, err := b.embedder.EmbedQuery(ctx, query)
	if err != nil {
		b.logger.Error("failed to embed query", "err", err)
		return nil, err
	}
	vector = normalize(vector)

	b.mu.RLock()
	results := make([]core.RetrievedPassage, 0, len(b.docs))
	for _, indexed := range b.docs {
		results = append(results, core.RetrievedPassage{
			Content:  indexed.doc.Content,
			Title:    indexed.doc.Title,
			Backend:  core.BackendDense,
			RawScore: float64(dot(vector, indexed.vector)),
			Metadata: indexed.doc.Metadata,
		})
	}
	b.mu.RUnlock()

	slices.SortStableFunc(results, func(a, b core.RetrievedPassage) int {
		switch {
		case a.RawScore > b.RawScore:
			return -1
		case a.RawScore < b.RawScore:
			return 1
		default:
			return 0
		}
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
