package fusion

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/strategit/core"
	"github.com/poiesic/strategit/retrieval"
	"github.com/poiesic/strategit/retrieval/mock"
)

func newTestFuser(t *testing.T, opts ...Option) *Fuser {
	t.Helper()
	opts = append(opts, WithLogger(slog.New(slog.DiscardHandler)))
	f, err := New(opts...)
	require.NoError(t, err)
	return f
}

func fixedBackend(name core.Backend, passages []core.RetrievedPassage) *mock.MockBackend {
	b := mock.NewMockBackend(name)
	b.SearchFunc = func(ctx context.Context, query string, topK int) ([]core.RetrievedPassage, error) {
		return passages, nil
	}
	return b
}

func passage(content string, score float64) core.RetrievedPassage {
	return core.RetrievedPassage{Content: content, RawScore: score}
}

func TestFuseWeightedSum(t *testing.T) {
	f := newTestFuser(t)

	keyword := fixedBackend(core.BackendKeyword, []core.RetrievedPassage{
		passage("gravity bends light near massive objects", 0.9),
		passage("photons follow geodesics in curved spacetime", 0.5),
	})
	dense := fixedBackend(core.BackendDense, []core.RetrievedPassage{
		passage("einstein predicted gravitational lensing in 1915", 0.8),
	})

	input := Input{
		Query:   "Why does gravity bend light?",
		Weights: core.NewWeightVector(0.3, 0.7, 0),
		Backends: map[core.Backend]retrieval.Backend{
			core.BackendKeyword: keyword,
			core.BackendDense:   dense,
		},
		TopK: 5,
	}
	input.Features.QuestionType = core.QuestionReasoning
	input.Features.ComplexityScore = 0.5

	out, err := f.Fuse(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, out, 3)

	// Dense scores 0.8*0.7=0.56, keyword's best 0.9*0.3=0.27.
	byContent := make(map[string]core.RetrievedPassage, len(out))
	for _, p := range out {
		byContent[p.Content] = p
		assert.NotEmpty(t, p.Backend)
	}
	assert.InDelta(t, 0.56, byContent["einstein predicted gravitational lensing in 1915"].CombinedScore, 1e-12)
	assert.InDelta(t, 0.27, byContent["gravity bends light near massive objects"].CombinedScore, 1e-12)
}

func TestFuseSkipsZeroWeightBackends(t *testing.T) {
	f := newTestFuser(t)

	keyword := mock.NewMockBackend(core.BackendKeyword)
	web := mock.NewMockBackend(core.BackendWeb)

	input := Input{
		Query:   "capital of France",
		Weights: core.NewWeightVector(1.0, 0, 0),
		Backends: map[core.Backend]retrieval.Backend{
			core.BackendKeyword: keyword,
			core.BackendWeb:     web,
		},
		TopK: 4,
	}
	input.Features.ComplexityScore = 0.5

	_, err := f.Fuse(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, keyword.CallCount())
	assert.Equal(t, 0, web.CallCount())
}

func TestFuseBackendFailureDegrades(t *testing.T) {
	f := newTestFuser(t)

	keyword := fixedBackend(core.BackendKeyword, []core.RetrievedPassage{
		passage("paris is the capital of france", 0.9),
	})
	dense := mock.NewMockBackend(core.BackendDense)
	dense.SearchFunc = func(ctx context.Context, query string, topK int) ([]core.RetrievedPassage, error) {
		return nil, errors.New("index unavailable")
	}

	input := Input{
		Query:   "capital of France",
		Weights: core.NewWeightVector(0.5, 0.5, 0),
		Backends: map[core.Backend]retrieval.Backend{
			core.BackendKeyword: keyword,
			core.BackendDense:   dense,
		},
		TopK: 4,
	}
	input.Features.ComplexityScore = 0.5

	out, err := f.Fuse(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, core.BackendKeyword, out[0].Backend)
}

func TestFuseAllBackendsFailReturnsEmpty(t *testing.T) {
	f := newTestFuser(t)

	failing := mock.NewMockBackend(core.BackendKeyword)
	failing.SearchFunc = func(ctx context.Context, query string, topK int) ([]core.RetrievedPassage, error) {
		return nil, errors.New("down")
	}

	input := Input{
		Query:    "anything",
		Weights:  core.NewWeightVector(1.0, 0, 0),
		Backends: map[core.Backend]retrieval.Backend{core.BackendKeyword: failing},
		TopK:     3,
	}
	input.Features.ComplexityScore = 0.5

	out, err := f.Fuse(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFuseDeduplicates(t *testing.T) {
	f := newTestFuser(t)

	keyword := fixedBackend(core.BackendKeyword, []core.RetrievedPassage{
		passage("the eiffel tower stands in paris france", 0.9),
	})
	dense := fixedBackend(core.BackendDense, []core.RetrievedPassage{
		// Same token set, different punctuation: Jaccard 1.0.
		passage("The Eiffel Tower stands in Paris, France.", 0.8),
		passage("mont blanc towers over alpine valleys", 0.7),
	})

	input := Input{
		Query:   "where is the eiffel tower",
		Weights: core.NewWeightVector(0.5, 0.5, 0),
		Backends: map[core.Backend]retrieval.Backend{
			core.BackendKeyword: keyword,
			core.BackendDense:   dense,
		},
		TopK: 5,
	}
	input.Features.QuestionType = core.QuestionFactual
	input.Features.ComplexityScore = 0.5

	out, err := f.Fuse(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, out, 2)

	// The keyword copy had the higher combined score (0.45 vs 0.40)
	// so the duplicate kept is the keyword one.
	assert.Equal(t, core.BackendKeyword, out[0].Backend)

	// Contract: no surviving pair exceeds the dedup threshold.
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			sim := jaccard(tokenSet(out[i].Content), tokenSet(out[j].Content))
			assert.LessOrEqual(t, sim, f.Config().DedupThreshold)
		}
	}
}

func TestFuseRankFusion(t *testing.T) {
	f := newTestFuser(t, WithConfig(Config{Method: MethodRRF}))

	keyword := fixedBackend(core.BackendKeyword, []core.RetrievedPassage{
		passage("shared answer about quantum entanglement", 0.6),
		passage("keyword only match on quantum", 0.4),
	})
	dense := fixedBackend(core.BackendDense, []core.RetrievedPassage{
		passage("shared answer about quantum entanglement", 0.9),
		passage("dense only match on entanglement", 0.5),
	})

	input := Input{
		Query:   "explain quantum entanglement",
		Weights: core.NewWeightVector(0.5, 0.5, 0),
		Backends: map[core.Backend]retrieval.Backend{
			core.BackendKeyword: keyword,
			core.BackendDense:   dense,
		},
		TopK: 5,
	}
	input.Features.QuestionType = core.QuestionReasoning
	input.Features.ComplexityScore = 0.5

	groups := f.gather(context.Background(), input, 5)
	merged := f.rankFuse(groups)
	require.Len(t, merged, 3)

	// The shared passage is rank 1 in both groups: 2/61 beats any
	// single contribution.
	assert.Equal(t, "shared answer about quantum entanglement", merged[0].Content)
	assert.InDelta(t, 2.0/61.0, merged[0].CombinedScore, 1e-12)
	assert.InDelta(t, 1.0/62.0, merged[1].CombinedScore, 1e-12)
}

func TestFuseDiversityGuarantee(t *testing.T) {
	// Threshold low enough that near-identical passages would normally
	// be rejected, but the first three are always kept.
	f := newTestFuser(t)

	near := []core.RetrievedPassage{
		passage("solar panels convert sunlight into electricity watts", 0.9),
		passage("solar panels convert sunlight into electricity output", 0.8),
		passage("solar panels convert sunlight into electricity yield", 0.7),
		passage("solar panels convert sunlight into electricity supply", 0.6),
	}
	// Pairwise Jaccard among these is 6/8 = 0.75: below the dedup
	// threshold but near the diversity one when combined with others.
	keyword := fixedBackend(core.BackendKeyword, near)

	input := Input{
		Query:    "how do solar panels work",
		Weights:  core.NewWeightVector(1.0, 0, 0),
		Backends: map[core.Backend]retrieval.Backend{core.BackendKeyword: keyword},
		TopK:     5,
	}
	input.Features.QuestionType = core.QuestionReasoning
	input.Features.ComplexityScore = 0.5

	out, err := f.Fuse(context.Background(), input)
	require.NoError(t, err)
	// 0.75 < 0.8 so all four stay; the point is none of the top three
	// were dropped on diversity.
	require.GreaterOrEqual(t, len(out), 3)
	for _, p := range out[:3] {
		assert.Equal(t, 1.0, p.DiversityScore)
	}
}

func TestTargetSize(t *testing.T) {
	f := newTestFuser(t)

	hard := core.QueryFeatures{ComplexityScore: 0.9}
	simple := core.QueryFeatures{ComplexityScore: 0.1}
	moderate := core.QueryFeatures{ComplexityScore: 0.5}

	tests := []struct {
		name  string
		input Input
		want  int
	}{
		{"complex adds three", Input{TopK: 5, Features: hard}, 8},
		{"complex caps at twenty", Input{TopK: 19, Features: hard}, 20},
		{"simple subtracts two", Input{TopK: 5, Features: simple}, 3},
		{"simple floors at three", Input{TopK: 4, Features: simple}, 3},
		{"moderate unchanged", Input{TopK: 5, Features: moderate}, 5},
		{"sub-queries add two", Input{TopK: 5, Features: moderate, SubQueries: []string{"a", "b", "c"}}, 7},
		{"two sub-queries ignored", Input{TopK: 5, Features: moderate, SubQueries: []string{"a", "b"}}, 5},
		{"zero topk uses base", Input{TopK: 0, Features: moderate}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.targetSize(tt.input))
		})
	}
}

func TestRescoreBlend(t *testing.T) {
	f := newTestFuser(t)

	passages := []core.RetrievedPassage{
		{Content: "paris is the capital of france since 1789"},
	}
	input := Input{
		Query:    "capital of france",
		Keywords: []string{"capital", "france"},
		Entities: []string{"France"},
	}
	input.Features.QuestionType = core.QuestionFactual
	input.Features.TemporalIndicators = 1

	f.rescore(passages, input)
	p := passages[0]

	// All three query tokens appear in the passage.
	assert.InDelta(t, 1.0, p.RelevanceScore, 1e-12)
	// "is" hits the factual list and "since" the temporal list, both
	// keywords and the entity match: 0.4 + 0.25 + 0.2 + 0.15.
	assert.InDelta(t, 1.0, p.FinalScore, 1e-12)
}

func TestRescoreNoSignals(t *testing.T) {
	f := newTestFuser(t)

	passages := []core.RetrievedPassage{
		{Content: "unrelated text about gardening tomatoes"},
	}
	input := Input{Query: "quantum computing hardware"}
	input.Features.QuestionType = core.QuestionGeneral

	f.rescore(passages, input)
	assert.Zero(t, passages[0].FinalScore)
	assert.Zero(t, passages[0].RelevanceScore)
}

func TestJaccard(t *testing.T) {
	a := tokenSet("alpha beta gamma")
	b := tokenSet("alpha beta delta")
	assert.InDelta(t, 0.5, jaccard(a, b), 1e-12)
	assert.Equal(t, 1.0, jaccard(a, a))
	assert.Equal(t, 1.0, jaccard(nil, nil))
	assert.Equal(t, 0.0, jaccard(a, nil))
}

func TestConfigDefaults(t *testing.T) {
	f := newTestFuser(t, WithConfig(Config{Method: MethodRRF}))
	cfg := f.Config()
	assert.Equal(t, MethodRRF, cfg.Method)
	assert.Equal(t, 60, cfg.RRFK)
	assert.Equal(t, 0.85, cfg.DedupThreshold)
	assert.Equal(t, 0.8, cfg.DiversityThreshold)
	assert.Equal(t, 3, cfg.DiversityGuaranteed)
	assert.Equal(t, 20, cfg.MaxResults)
}
