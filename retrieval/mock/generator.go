package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/strategit/core"
	"github.com/poiesic/strategit/retrieval"
)

// MockGenerator is a test double for retrieval.Generator.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default deterministic behavior.
	GenerateFunc func(ctx context.Context, query string, passages []core.RetrievedPassage) (string, error)
}

var _ retrieval.Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a mock generator with default behavior.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate answers with a deterministic summary of its inputs.
func (m *MockGenerator) Generate(ctx context.Context, query string, passages []core.RetrievedPassage) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, query, passages)
	}
	return fmt.Sprintf("answer to %q from %d passages", query, len(passages)), nil
}
