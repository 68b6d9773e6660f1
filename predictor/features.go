package predictor

import "github.com/poiesic/strategit/core"

// featureDim is 6 numeric features plus a one-hot question type encoding.
var featureDim = 6 + len(core.QuestionTypes)

// vectorize flattens query features into a fixed-width numeric vector.
// The one-hot segment follows core.QuestionTypes order; an unknown type
// encodes as general.
func vectorize(features core.QueryFeatures) []float64 {
	vec := make([]float64, featureDim)
	vec[0] = features.ComplexityScore
	vec[1] = float64(features.EntityCount)
	vec[2] = float64(features.TokenCount)
	vec[3] = float64(features.TemporalIndicators)
	vec[4] = features.SemanticDensity
	vec[5] = features.AmbiguityScore

	matched := false
	for i, qt := range core.QuestionTypes {
		if features.QuestionType == qt {
			vec[6+i] = 1
			matched = true
			break
		}
	}
	if !matched {
		for i, qt := range core.QuestionTypes {
			if qt == core.QuestionGeneral {
				vec[6+i] = 1
				break
			}
		}
	}

	return vec
}

// compositeScore collapses a realized outcome into one scalar training
// target: 0.4 accuracy + 0.3 latency headroom (against a 10s ceiling) +
// 0.3 user satisfaction.
func compositeScore(metrics core.PerformanceMetrics) float64 {
	latencyShare := 1 - metrics.LatencySeconds/10.0
	if latencyShare < 0 {
		latencyShare = 0
	}
	return metrics.Accuracy*0.4 + latencyShare*0.3 + metrics.UserSatisfaction*0.3
}
