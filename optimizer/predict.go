package optimizer

import "github.com/poiesic/strategit/core"

// Analytic model constants. Latencies are per unit of backend weight in
// milliseconds, costs per unit weight, memory in MB.
const (
	baseAccuracy = 0.7

	baseLatencyMillis    = 500.0
	keywordLatencyMillis = 200.0
	denseLatencyMillis   = 800.0
	webLatencyMillis     = 1500.0

	keywordUnitCost = 0.01
	denseUnitCost   = 0.03
	webUnitCost     = 0.05

	baseMemoryMB = 50.0

	tokenFactorDivisor = 50.0
	tokenFactorCeiling = 2.0
)

// PredictPerformance runs the analytic models for one candidate weight
// vector against the query features.
func PredictPerformance(features core.QueryFeatures, weights core.WeightVector) core.PerformanceDimensions {
	accuracy := predictAccuracy(features.ComplexityScore, weights)
	latency := predictLatency(features.TokenCount, weights)

	return core.PerformanceDimensions{
		Accuracy:         accuracy,
		LatencyMillis:    latency,
		Cost:             predictCost(weights),
		MemoryMB:         predictMemory(features.TokenCount, weights),
		UserSatisfaction: predictSatisfaction(accuracy, latency),
		APICalls:         predictAPICalls(weights),
	}
}

// predictAccuracy bonuses the backend suited to the query: dense for
// complex queries, keyword otherwise, with a small web contribution.
func predictAccuracy(complexity float64, weights core.WeightVector) float64 {
	var boost float64
	if complexity > 0.7 {
		boost = weights[core.BackendDense] * 0.2
	} else {
		boost = weights[core.BackendKeyword] * 0.15
	}
	boost += weights[core.BackendWeb] * 0.1

	accuracy := baseAccuracy + boost
	if accuracy > 1.0 {
		accuracy = 1.0
	}
	return accuracy
}

// predictLatency scales a weighted per-backend latency sum by a token
// factor capped at 2x.
func predictLatency(tokenCount int, weights core.WeightVector) float64 {
	latency := baseLatencyMillis +
		weights[core.BackendKeyword]*keywordLatencyMillis +
		weights[core.BackendDense]*denseLatencyMillis +
		weights[core.BackendWeb]*webLatencyMillis

	factor := float64(tokenCount) / tokenFactorDivisor
	if factor > tokenFactorCeiling {
		factor = tokenFactorCeiling
	}
	return latency * factor
}

func predictCost(weights core.WeightVector) float64 {
	return weights[core.BackendKeyword]*keywordUnitCost +
		weights[core.BackendDense]*denseUnitCost +
		weights[core.BackendWeb]*webUnitCost
}

// predictMemory charges dense retrieval for its vector working set.
func predictMemory(tokenCount int, weights core.WeightVector) float64 {
	return baseMemoryMB + weights[core.BackendDense]*float64(tokenCount)*2.0
}

// predictSatisfaction discounts accuracy by a latency factor with
// breakpoints at 1s, 3s and 5s.
func predictSatisfaction(accuracy, latencyMillis float64) float64 {
	var factor float64
	switch {
	case latencyMillis < 1000:
		factor = 1.0
	case latencyMillis < 3000:
		factor = 0.8
	case latencyMillis < 5000:
		factor = 0.6
	default:
		factor = 0.3
	}
	return accuracy * factor
}

// predictAPICalls charges 1/2/3 calls per active backend.
func predictAPICalls(weights core.WeightVector) int {
	calls := 0
	if weights[core.BackendKeyword] > 0 {
		calls++
	}
	if weights[core.BackendDense] > 0 {
		calls += 2
	}
	if weights[core.BackendWeb] > 0 {
		calls += 3
	}
	return calls
}
