package mock

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/poiesic/strategit/core"
	"github.com/poiesic/strategit/retrieval"
)

// MockBackend is a test double for retrieval.Backend.
// It allows custom behavior injection via function fields.
type MockBackend struct {
	// BackendName is returned by Name. Defaults to keyword.
	BackendName core.Backend

	// SearchFunc is called by Search if set.
	// If nil, uses default deterministic behavior.
	SearchFunc func(ctx context.Context, query string, topK int) ([]core.RetrievedPassage, error)

	callCount atomic.Int64
}

var _ retrieval.Backend = (*MockBackend)(nil)

// NewMockBackend creates a mock backend with default deterministic
// behavior under the given name.
func NewMockBackend(name core.Backend) *MockBackend {
	return &MockBackend{BackendName: name}
}

// Name identifies the simulated retrieval method.
func (m *MockBackend) Name() core.Backend {
	if m.BackendName == "" {
		return core.BackendKeyword
	}
	return m.BackendName
}

// Search returns topK deterministic passages with descending scores.
func (m *MockBackend) Search(ctx context.Context, query string, topK int) ([]core.RetrievedPassage, error) {
	m.callCount.Add(1)

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, topK)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	passages := make([]core.RetrievedPassage, topK)
	for i := range passages {
		passages[i] = core.RetrievedPassage{
			Content:  fmt.Sprintf("%s result %d for %q", m.Name(), i+1, query),
			Title:    fmt.Sprintf("%s-%d", m.Name(), i+1),
			Backend:  m.Name(),
			RawScore: 1.0 / float64(i+1),
		}
	}
	return passages, nil
}

// CallCount returns the number of Search invocations.
func (m *MockBackend) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockBackend) Reset() {
	m.callCount.Store(0)
	m.SearchFunc = nil
}
