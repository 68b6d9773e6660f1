package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/strategit/core"
)

func simpleFeatures() core.QueryFeatures {
	return core.QueryFeatures{
		ComplexityScore: 0.5,
		TokenCount:      50,
		QuestionType:    core.QuestionFactual,
		SemanticDensity: 0.6,
	}
}

func TestPredictPerformance(t *testing.T) {
	weights := core.NewWeightVector(0.7, 0.2, 0.1)
	perf := PredictPerformance(simpleFeatures(), weights)

	// accuracy = 0.7 + 0.7*0.15 + 0.1*0.1
	assert.InDelta(t, 0.815, perf.Accuracy, 1e-9)
	// latency = (500 + 140 + 160 + 150) * 1.0
	assert.InDelta(t, 950.0, perf.LatencyMillis, 1e-9)
	assert.InDelta(t, 0.018, perf.Cost, 1e-9)
	// memory = 50 + 0.2*50*2
	assert.InDelta(t, 70.0, perf.MemoryMB, 1e-9)
	// sub-second latency leaves satisfaction at accuracy
	assert.InDelta(t, 0.815, perf.UserSatisfaction, 1e-9)
	assert.Equal(t, 6, perf.APICalls)
}

func TestPredictAccuracyComplexQueryFavorsDense(t *testing.T) {
	features := simpleFeatures()
	features.ComplexityScore = 0.8

	denseHeavy := PredictPerformance(features, core.NewWeightVector(0.1, 0.8, 0.1))
	keywordHeavy := PredictPerformance(features, core.NewWeightVector(0.8, 0.1, 0.1))

	assert.Greater(t, denseHeavy.Accuracy, keywordHeavy.Accuracy)
}

func TestPredictLatencyTokenFactorCap(t *testing.T) {
	weights := core.NewWeightVector(1, 0, 0)

	long := simpleFeatures()
	long.TokenCount = 500
	longer := simpleFeatures()
	longer.TokenCount = 5000

	assert.Equal(t, PredictPerformance(long, weights).LatencyMillis,
		PredictPerformance(longer, weights).LatencyMillis)
}

func TestPredictSatisfactionBreakpoints(t *testing.T) {
	tests := []struct {
		latency float64
		factor  float64
	}{
		{500, 1.0},
		{1500, 0.8},
		{4000, 0.6},
		{8000, 0.3},
	}
	for _, tt := range tests {
		assert.InDelta(t, 0.9*tt.factor, predictSatisfaction(0.9, tt.latency), 1e-9)
	}
}

func TestPredictAPICallsSkipsInactiveBackends(t *testing.T) {
	assert.Equal(t, 1, predictAPICalls(core.WeightVector{core.BackendKeyword: 1}))
	assert.Equal(t, 2, predictAPICalls(core.WeightVector{core.BackendDense: 1}))
	assert.Equal(t, 3, predictAPICalls(core.WeightVector{core.BackendWeb: 1}))
	assert.Equal(t, 6, predictAPICalls(core.NewWeightVector(0.4, 0.4, 0.2)))
}

func TestFeasibility(t *testing.T) {
	constraints := DefaultConstraints()

	base := core.PerformanceDimensions{
		LatencyMillis: 1000, Cost: 0.05, MemoryMB: 100, APICalls: 5,
	}
	assert.True(t, feasible(base, constraints))

	slow := base
	slow.LatencyMillis = 6000
	assert.False(t, feasible(slow, constraints))

	pricey := base
	pricey.Cost = 0.2
	assert.False(t, feasible(pricey, constraints))

	hungry := base
	hungry.MemoryMB = 1500
	assert.False(t, feasible(hungry, constraints))

	chatty := base
	chatty.APICalls = 11
	assert.False(t, feasible(chatty, constraints))
}

func TestOptimizeEmptyCandidates(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	_, err = o.Optimize(simpleFeatures(), nil, ObjectiveBalanced, DefaultConstraints())
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestOptimizeUnknownObjective(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	_, err = o.Optimize(simpleFeatures(), []core.WeightVector{core.NewWeightVector(1, 0, 0)},
		Objective("bogus"), DefaultConstraints())
	assert.ErrorIs(t, err, ErrUnknownObjective)
}

func TestOptimizeSpeedObjectivePrefersFastCandidate(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	candidates := []core.WeightVector{
		core.NewWeightVector(0.1, 0.1, 0.8), // web heavy, slow
		core.NewWeightVector(0.8, 0.1, 0.1), // keyword heavy, fast
	}

	selected, err := o.Optimize(simpleFeatures(), candidates, ObjectiveSpeed, DefaultConstraints())
	require.NoError(t, err)
	assert.Equal(t, "strategy_1", selected.Name)
	assert.Equal(t, core.BackendKeyword, selected.Weights.Dominant())
}

func TestOptimizeInfeasibleCandidateStillWinsAlone(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	tight := Constraints{MaxLatencyMillis: 1, MaxCostPerQuery: 0.1, MaxMemoryMB: 1000, MaxAPICalls: 10}
	candidates := []core.WeightVector{core.NewWeightVector(0.4, 0.4, 0.2)}

	selected, err := o.Optimize(simpleFeatures(), candidates, ObjectiveBalanced, tight)
	require.NoError(t, err)
	assert.False(t, selected.Feasible)
	assert.Greater(t, selected.Score, 0.0)
}

func TestOptimizeInfeasiblePenalty(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	candidates := []core.WeightVector{core.NewWeightVector(0.4, 0.4, 0.2)}
	features := simpleFeatures()

	loose, err := o.Optimize(features, candidates, ObjectiveBalanced, DefaultConstraints())
	require.NoError(t, err)
	require.True(t, loose.Feasible)

	tight := DefaultConstraints()
	tight.MaxLatencyMillis = 1
	penalized, err := o.Optimize(features, candidates, ObjectiveBalanced, tight)
	require.NoError(t, err)

	assert.InDelta(t, loose.Score*infeasiblePenalty, penalized.Score, 1e-9)
}

func TestOptimizeTiesKeepFirstCandidate(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	same := core.NewWeightVector(0.4, 0.4, 0.2)
	selected, err := o.Optimize(simpleFeatures(), []core.WeightVector{same, same.Clone()},
		ObjectiveBalanced, DefaultConstraints())
	require.NoError(t, err)
	assert.Equal(t, "strategy_0", selected.Name)
}

func TestSetObjectiveWeightsNormalizes(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	require.NoError(t, o.SetObjectiveWeights(ObjectiveBalanced, 2, 2, 2, 2, 2))
	weights := o.weights[ObjectiveBalanced]
	assert.InDelta(t, 0.2, weights.accuracy, 1e-9)
	assert.InDelta(t, 0.2, weights.satisfaction, 1e-9)

	assert.Error(t, o.SetObjectiveWeights(ObjectiveBalanced, 0, 0, 0, 0, 0))
}

func option(name string, accuracy, latency, cost, satisfaction float64) core.StrategyOption {
	return core.StrategyOption{
		Name: name,
		Predicted: core.PerformanceDimensions{
			Accuracy:         accuracy,
			LatencyMillis:    latency,
			Cost:             cost,
			UserSatisfaction: satisfaction,
		},
	}
}

func TestParetoSetRemovesDominated(t *testing.T) {
	options := []core.StrategyOption{
		option("good", 0.9, 800, 0.02, 0.9),
		option("dominated", 0.8, 1000, 0.03, 0.8),
		option("cheap", 0.7, 900, 0.01, 0.7),
	}

	efficient := ParetoSet(options)
	names := make([]string, 0, len(efficient))
	for _, opt := range efficient {
		names = append(names, opt.Name)
	}

	assert.Equal(t, []string{"good", "cheap"}, names)
}

func TestParetoSetKeepsIdenticalOptions(t *testing.T) {
	options := []core.StrategyOption{
		option("a", 0.8, 1000, 0.02, 0.8),
		option("b", 0.8, 1000, 0.02, 0.8),
	}
	assert.Len(t, ParetoSet(options), 2)
}

func TestParetoSetSingle(t *testing.T) {
	options := []core.StrategyOption{option("only", 0.5, 2000, 0.05, 0.4)}
	assert.Len(t, ParetoSet(options), 1)
}

func TestTradeoffs(t *testing.T) {
	options := []core.StrategyOption{
		option("fast", 0.7, 700, 0.01, 0.7),
		option("accurate", 0.9, 2000, 0.04, 0.8),
	}

	report := Tradeoffs(options)
	assert.Equal(t, Range{Min: 0.7, Max: 0.9}, report.Accuracy)
	assert.Equal(t, Range{Min: 700, Max: 2000}, report.LatencyMillis)
	assert.Equal(t, Range{Min: 0.01, Max: 0.04}, report.Cost)
	assert.ElementsMatch(t, []string{"fast", "accurate"}, report.ParetoEfficient)

	assert.Equal(t, TradeoffReport{}, Tradeoffs(nil))
}
