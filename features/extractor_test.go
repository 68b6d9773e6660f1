package features

import (
	"testing"

	"github.com/poiesic/strategit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBounds(t *testing.T) {
	x, err := NewExtractor()
	require.NoError(t, err)

	queries := []string{
		"",
		"?",
		"What is the capital of France?",
		"Compare Python and Java and explain why one might be better for data science",
		"it this that they them thing stuff it it it",
		"When was the Eiffel Tower built and why was it controversial before its completion during the 1889 World Fair, not only as architecture but also as engineering, on the other hand some praised it",
	}

	for _, q := range queries {
		f := x.Extract(q)
		assert.GreaterOrEqual(t, f.ComplexityScore, 0.0, "query %q", q)
		assert.LessOrEqual(t, f.ComplexityScore, 1.0, "query %q", q)
		assert.GreaterOrEqual(t, f.SemanticDensity, 0.0, "query %q", q)
		assert.LessOrEqual(t, f.SemanticDensity, 1.0, "query %q", q)
		assert.GreaterOrEqual(t, f.AmbiguityScore, 0.0, "query %q", q)
		assert.LessOrEqual(t, f.AmbiguityScore, 1.0, "query %q", q)
		assert.GreaterOrEqual(t, f.EntityCount, 0)
		assert.GreaterOrEqual(t, f.TokenCount, 0)
		assert.NoError(t, core.ValidateFeatures(f))
	}
}

func TestExtractEmptyQuery(t *testing.T) {
	x, err := NewExtractor()
	require.NoError(t, err)

	f := x.Extract("")
	assert.Zero(t, f.ComplexityScore)
	assert.Zero(t, f.EntityCount)
	assert.Zero(t, f.TokenCount)
	assert.Zero(t, f.SemanticDensity)
	assert.Equal(t, core.QuestionGeneral, f.QuestionType)
}

func TestQuestionTypeClassification(t *testing.T) {
	x, err := NewExtractor()
	require.NoError(t, err)

	tests := []struct {
		query string
		want  core.QuestionType
	}{
		{"What is the capital of France?", core.QuestionFactual},
		{"Who wrote War and Peace?", core.QuestionFactual},
		{"Explain the theory of relativity", core.QuestionReasoning},
		{"Compare Python and Java", core.QuestionComparison},
		{"List the planets of the solar system", core.QuestionEnumeration},
		{"Tell me about dogs", core.QuestionGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, x.Extract(tt.query).QuestionType)
		})
	}
}

func TestComparePythonJavaScenario(t *testing.T) {
	x, err := NewExtractor()
	require.NoError(t, err)

	f := x.Extract("Compare Python and Java")
	assert.Equal(t, core.QuestionComparison, f.QuestionType)
	assert.Equal(t, 2, f.EntityCount)
	assert.ElementsMatch(t, []string{"Python", "Java"}, x.Entities("Compare Python and Java"))
}

func TestTemporalIndicators(t *testing.T) {
	x, err := NewExtractor()
	require.NoError(t, err)

	f := x.Extract("When did the war begin and what happened before and after it ended")
	assert.Equal(t, 3, f.TemporalIndicators) // when, before, after
}

func TestSemanticDensity(t *testing.T) {
	x, err := NewExtractor()
	require.NoError(t, err)

	// "the of and" are all stop words
	assert.Zero(t, x.Extract("the of and").SemanticDensity)
	// all content words
	assert.InDelta(t, 1.0, x.Extract("quantum entanglement physics").SemanticDensity, 1e-9)
}

func TestAmbiguityScore(t *testing.T) {
	x, err := NewExtractor()
	require.NoError(t, err)

	vague := x.Extract("What is that thing they use for it?")
	precise := x.Extract("What is the melting point of tungsten?")
	assert.Greater(t, vague.AmbiguityScore, precise.AmbiguityScore)
}

func TestComplexityOrdering(t *testing.T) {
	x, err := NewExtractor()
	require.NoError(t, err)

	simple := x.Extract("Capital of France")
	hard := x.Extract("Compare and explain why the economic systems of Japan and Germany evolved differently before and after 1945, analyzing not only fiscal policy but also labor relations")
	assert.Greater(t, hard.ComplexityScore, simple.ComplexityScore)
}

func TestKeywords(t *testing.T) {
	x, err := NewExtractor()
	require.NoError(t, err)

	kws := x.Keywords("What is the role of mitochondria in cellular respiration?")
	assert.Contains(t, kws, "mitochondria")
	assert.Contains(t, kws, "cellular")
	assert.NotContains(t, kws, "the")
	assert.NotContains(t, kws, "what")
	assert.LessOrEqual(t, len(kws), maxKeywords)
}

type fixedEntityExtractor struct{ entities []string }

func (f fixedEntityExtractor) Extract(string) []string { return f.entities }

func TestWithEntityExtractor(t *testing.T) {
	t.Run("custom extractor used", func(t *testing.T) {
		x, err := NewExtractor(WithEntityExtractor(fixedEntityExtractor{entities: []string{"a", "b", "c", "d"}}))
		require.NoError(t, err)
		assert.Equal(t, 4, x.Extract("anything").EntityCount)
	})

	t.Run("nil falls back to heuristic", func(t *testing.T) {
		x, err := NewExtractor(WithEntityExtractor(nil))
		require.NoError(t, err)
		assert.Equal(t, 1, x.Extract("What about Paris").EntityCount)
	})
}
